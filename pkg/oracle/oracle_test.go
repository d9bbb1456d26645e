package oracle

import "testing"

func TestDefaultOracleDefaults(t *testing.T) {
	o := NewDefaultOracle()
	if got := o.TaskDefaultDuration(); got != 30 {
		t.Errorf("TaskDefaultDuration() = %d, want 30", got)
	}
	if got := o.AlertDefaultAddressTime(); got != 15 {
		t.Errorf("AlertDefaultAddressTime() = %d, want 15", got)
	}
	if got := o.PriorityWeight("High"); got != 10 {
		t.Errorf("PriorityWeight(High) = %d, want 10", got)
	}
	if got := o.PriorityWeight("Unknown"); got != defaultPriority {
		t.Errorf("PriorityWeight(Unknown) = %d, want %d", got, defaultPriority)
	}
	w := o.ObjectiveWeights()
	if w.PrioritySum != 100 || w.LatenessPenalty != 10 || w.LunchDeviation != 1 || w.EarlyStartBonus != 0.1 {
		t.Errorf("ObjectiveWeights() = %+v, unexpected defaults", w)
	}
	if got := o.HighPriorityThreshold(); got != 8 {
		t.Errorf("HighPriorityThreshold() = %d, want 8", got)
	}
}

func TestDefaultOracleOverrides(t *testing.T) {
	o := NewDefaultOracle().WithPriorityWeight("Urgent", 20).WithObjectiveWeights(ObjectiveWeights{PrioritySum: 50})
	if got := o.PriorityWeight("Urgent"); got != 20 {
		t.Errorf("PriorityWeight(Urgent) = %d, want 20", got)
	}
	if got := o.ObjectiveWeights().PrioritySum; got != 50 {
		t.Errorf("ObjectiveWeights().PrioritySum = %v, want 50", got)
	}
}
