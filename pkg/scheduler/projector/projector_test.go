package projector

import (
	"testing"

	"github.com/paiban/nurseday/pkg/errors"
	"github.com/paiban/nurseday/pkg/model"
	"github.com/paiban/nurseday/pkg/oracle"
	"github.com/paiban/nurseday/pkg/scheduler/builder"
	"github.com/paiban/nurseday/pkg/scheduler/solver"
)

func TestProjectEmptyDaySchedulesLunchOnly(t *testing.T) {
	shift := model.ShiftWindow{Start: 480, End: 1020}
	mdl := builder.Build(nil, shift, model.LunchConfig{PreferredStart: 720, Duration: 30}, nil, nil, nil, oracle.NewDefaultOracle(), false)
	a := &builder.Assignment{Starts: map[string]model.Minute{}, Present: map[string]bool{}, LunchStart: 720}

	res := Project(mdl, a, solver.StatusOptimal)
	if len(res.Schedule) != 1 || res.Schedule[0].RelatedItemID != "LUNCH" {
		t.Fatalf("expected only the lunch entry, got %+v", res.Schedule)
	}
	if res.Schedule[0].SlotStartTime != "12:00:00" {
		t.Errorf("expected lunch at 12:00:00, got %s", res.Schedule[0].SlotStartTime)
	}
}

func TestProjectSortsByStartTime(t *testing.T) {
	shift := model.ShiftWindow{Start: 480, End: 1020}
	a1 := &model.Activity{ID: "A1", Duration: 30}
	a2 := &model.Activity{ID: "A2", Duration: 30}
	mdl := builder.Build([]*model.Activity{a1, a2}, shift, model.LunchConfig{PreferredStart: 720, Duration: 30}, nil, nil, nil, oracle.NewDefaultOracle(), false)
	asg := &builder.Assignment{
		Starts:     map[string]model.Minute{"A1": 600, "A2": 500},
		Present:    map[string]bool{"A1": true, "A2": true},
		LunchStart: 720,
	}

	res := Project(mdl, asg, solver.StatusOptimal)
	var starts []string
	for _, e := range res.Schedule {
		starts = append(starts, e.SlotStartTime)
	}
	for i := 1; i < len(starts); i++ {
		if starts[i-1] > starts[i] {
			t.Fatalf("schedule not sorted: %v", starts)
		}
	}
}

func TestProjectInfeasibleMarksEveryActivityUnachievable(t *testing.T) {
	shift := model.ShiftWindow{Start: 480, End: 540}
	a1 := &model.Activity{ID: "T1", Kind: model.KindTask, Duration: 30}
	a2 := &model.Activity{ID: "T2", Kind: model.KindTask, Duration: 30}
	a3 := &model.Activity{ID: "T3", Kind: model.KindTask, Duration: 30}
	mdl := builder.Build([]*model.Activity{a1, a2, a3}, shift, model.LunchConfig{PreferredStart: 500, Duration: 10}, nil, nil, nil, oracle.NewDefaultOracle(), false)

	res := Project(mdl, &builder.Assignment{}, solver.StatusInfeasible)
	if len(res.Unachievable) != 3 {
		t.Fatalf("expected 3 unachievable items, got %d", len(res.Unachievable))
	}
	if res.OptimizationScore != 0 {
		t.Errorf("expected score 0 for an infeasible solve, got %f", res.OptimizationScore)
	}
	for _, u := range res.Unachievable {
		if u.Reason != errors.CodeInfeasible {
			t.Errorf("expected Infeasible reason, got %s", u.Reason)
		}
		if u.ItemType != "task" {
			t.Errorf("expected itemType 'task', got %s", u.ItemType)
		}
	}
}

func TestProjectLunchDeviationWarning(t *testing.T) {
	shift := model.ShiftWindow{Start: 480, End: 1020}
	mdl := builder.Build(nil, shift, model.LunchConfig{PreferredStart: 720, Duration: 30}, nil, nil, nil, oracle.NewDefaultOracle(), false)
	a := &builder.Assignment{Starts: map[string]model.Minute{}, Present: map[string]bool{}, LunchStart: 760}

	res := Project(mdl, a, solver.StatusOptimal)
	found := false
	for _, w := range res.Warnings {
		if w == "Lunch break scheduled more than 15 minutes from preferred time." {
			found = true
		}
	}
	if !found {
		t.Errorf("expected lunch deviation warning, got %v", res.Warnings)
	}
}

func TestProjectFeasibleStatusAddsTimeLimitWarning(t *testing.T) {
	shift := model.ShiftWindow{Start: 480, End: 1020}
	mdl := builder.Build(nil, shift, model.LunchConfig{PreferredStart: 720, Duration: 30}, nil, nil, nil, oracle.NewDefaultOracle(), false)
	a := &builder.Assignment{Starts: map[string]model.Minute{}, Present: map[string]bool{}, LunchStart: 720}

	res := Project(mdl, a, solver.StatusFeasible)
	found := false
	for _, w := range res.Warnings {
		if w == "Time limit reached; schedule may be suboptimal." {
			found = true
		}
	}
	if !found {
		t.Errorf("expected time-limit warning for FEASIBLE status, got %v", res.Warnings)
	}
}

func TestProjectDeadlineProximityWarning(t *testing.T) {
	shift := model.ShiftWindow{Start: 480, End: 1020}
	deadline := model.Minute(603)
	a1 := &model.Activity{ID: "T1", Kind: model.KindTask, Duration: 30, Deadline: &deadline}
	mdl := builder.Build([]*model.Activity{a1}, shift, model.LunchConfig{PreferredStart: 720, Duration: 30}, nil, nil, nil, oracle.NewDefaultOracle(), false)
	asg := &builder.Assignment{
		Starts:     map[string]model.Minute{"T1": 570},
		Present:    map[string]bool{"T1": true},
		LunchStart: 720,
	}

	res := Project(mdl, asg, solver.StatusOptimal)
	found := false
	for _, w := range res.Warnings {
		if w == "Activity T1 finishes close to its deadline." {
			found = true
		}
	}
	if !found {
		t.Errorf("expected deadline proximity warning, got %v", res.Warnings)
	}
}
