package model

import "testing"

func TestActivityKindTag(t *testing.T) {
	cases := map[ActivityKind]string{
		KindAppointment:  "appointment",
		KindMeeting:      "meeting",
		KindTask:         "task",
		KindAlert:        "alert",
		KindFollowUp:     "followup",
		KindCarePlan:     "careplan",
		KindIntervention: "intervention",
		KindVitalAlert:   "vitalalert",
	}
	for kind, want := range cases {
		if got := kind.Tag(); got != want {
			t.Errorf("%s.Tag() = %q, want %q", kind, got, want)
		}
	}
}

func TestShiftWindowContains(t *testing.T) {
	shift := ShiftWindow{Start: 480, End: 1020}
	if !shift.Contains(500, 30) {
		t.Error("expected interval within shift to be contained")
	}
	if shift.Contains(1000, 30) {
		t.Error("expected interval extending past shift end to not be contained")
	}
	if shift.Contains(460, 10) {
		t.Error("expected interval before shift start to not be contained")
	}
}

func TestOverlaps(t *testing.T) {
	if !Overlaps(100, 130, 120, 150) {
		t.Error("expected overlapping intervals to be detected")
	}
	if Overlaps(100, 130, 130, 150) {
		t.Error("half-open intervals sharing only a boundary should not overlap")
	}
}

func TestTravelMatrixLookup(t *testing.T) {
	tm := TravelMatrix{{"A", "B"}: 15}
	if got := tm.Lookup("A", "B"); got != 15 {
		t.Errorf("Lookup(A,B) = %d, want 15", got)
	}
	if got := tm.Lookup("B", "A"); got != 0 {
		t.Errorf("Lookup(B,A) = %d, want 0 for missing entry", got)
	}
	var nilMatrix TravelMatrix
	if got := nilMatrix.Lookup("A", "B"); got != 0 {
		t.Errorf("nil matrix Lookup = %d, want 0", got)
	}
}
