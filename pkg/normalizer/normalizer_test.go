package normalizer

import (
	"testing"

	"github.com/paiban/nurseday/pkg/errors"
	"github.com/paiban/nurseday/pkg/oracle"
)

func newTestNormalizer() *Normalizer {
	return New(oracle.NewDefaultOracle(), nil)
}

func TestNormalizeAppointmentFixedTime(t *testing.T) {
	n := newTestNormalizer()
	in := Input{
		Appointments: []RawItem{
			{"itemId": "V701", "estimatedDuration": 45, "initialPriorityScore": 6, "title": "Checkup", "isFixedTime": true, "startTime": "09:00:00"},
		},
	}
	activities, rejected := n.Normalize(in)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if len(activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(activities))
	}
	a := activities[0]
	if a.FixedStart == nil || *a.FixedStart != 540 {
		t.Errorf("expected fixed start 540, got %v", a.FixedStart)
	}
	if a.Duration != 45 || a.Priority != 6 {
		t.Errorf("unexpected activity %+v", a)
	}
}

func TestNormalizeAppointmentNonFixedDiscardsHint(t *testing.T) {
	n := newTestNormalizer()
	in := Input{
		Appointments: []RawItem{
			{"itemId": "V702", "estimatedDuration": 30, "title": "Visit", "isFixedTime": false, "startTime": "14:00:00"},
		},
	}
	activities, _ := n.Normalize(in)
	if activities[0].FixedStart != nil {
		t.Errorf("expected no fixed start when isFixedTime is false, got %v", *activities[0].FixedStart)
	}
}

func TestNormalizeTaskFallbacksToOracle(t *testing.T) {
	n := newTestNormalizer()
	in := Input{
		Tasks: []RawItem{
			{"taskId": "T501", "description": "Chart review", "initialPriorityScore_text": "High", "deadline": "12:00:00"},
		},
	}
	activities, rejected := n.Normalize(in)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	a := activities[0]
	if a.Duration != 30 {
		t.Errorf("expected fallback duration 30, got %d", a.Duration)
	}
	if a.Priority != 10 {
		t.Errorf("expected priority from priority_weights[High]=10, got %d", a.Priority)
	}
	if a.Deadline == nil || *a.Deadline != 720 {
		t.Errorf("expected deadline 720, got %v", a.Deadline)
	}
}

func TestNormalizeMissingIdentifierRejected(t *testing.T) {
	n := newTestNormalizer()
	in := Input{
		Tasks: []RawItem{
			{"description": "no id here", "estimatedDuration": 20},
		},
	}
	activities, rejected := n.Normalize(in)
	if len(activities) != 0 {
		t.Fatalf("expected 0 activities, got %d", len(activities))
	}
	if len(rejected) != 1 || rejected[0].Reason != errors.CodeMissingIdentifier {
		t.Fatalf("expected MissingIdentifier rejection, got %+v", rejected)
	}
}

func TestNormalizeCarePlanNoneDeadline(t *testing.T) {
	n := newTestNormalizer()
	in := Input{
		CarePlans: []RawItem{
			{"carePlanId": "CP001", "estimatedDuration": 30, "priority": 8, "deadline": "None"},
		},
	}
	activities, _ := n.Normalize(in)
	if activities[0].Deadline != nil {
		t.Errorf("expected nil deadline for literal None, got %v", *activities[0].Deadline)
	}
}

func TestNormalizeCarePlanDurationFallsBackToLevel(t *testing.T) {
	n := newTestNormalizer()
	in := Input{
		CarePlans: []RawItem{
			{"carePlanId": "CP002", "level": 2, "priority": 5},
		},
	}
	activities, rejected := n.Normalize(in)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if activities[0].Duration != 150 {
		t.Errorf("expected level-2 default duration 150, got %d", activities[0].Duration)
	}
}

func TestNormalizeDuplicateIDsAcrossCategoriesSuffixed(t *testing.T) {
	n := newTestNormalizer()
	in := Input{
		Appointments: []RawItem{{"itemId": "X1", "estimatedDuration": 30, "title": "a"}},
		Tasks:        []RawItem{{"taskId": "X1", "estimatedDuration": 20, "description": "b"}},
	}
	activities, _ := n.Normalize(in)
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].ID != "X1" {
		t.Errorf("expected first occurrence to keep bare id, got %s", activities[0].ID)
	}
	if activities[1].ID != "X1_task" {
		t.Errorf("expected second occurrence to be suffixed with kind tag, got %s", activities[1].ID)
	}
}

func TestNormalizeAlertNeverFixed(t *testing.T) {
	n := newTestNormalizer()
	in := Input{
		CriticalAlertsToAddress: []RawItem{
			{"alertId": "VA001", "urgencyScore": 10, "summary": "low BP"},
		},
	}
	activities, _ := n.Normalize(in)
	if activities[0].IsFixed() {
		t.Error("alerts must never be fixed-time")
	}
	if activities[0].Duration != 15 {
		t.Errorf("expected fallback alert duration 15, got %d", activities[0].Duration)
	}
}
