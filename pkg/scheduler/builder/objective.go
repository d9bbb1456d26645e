package builder

import "github.com/paiban/nurseday/pkg/model"

// Assignment 是一次候选求解：每个活动的起始时间、在场标志，以及午休起始时间。
type Assignment struct {
	Starts     map[string]model.Minute
	Present    map[string]bool
	LunchStart model.Minute
}

// Clone 深拷贝一份候选解，供求解器在扰动前保存现场。
func (a Assignment) Clone() Assignment {
	starts := make(map[string]model.Minute, len(a.Starts))
	for k, v := range a.Starts {
		starts[k] = v
	}
	present := make(map[string]bool, len(a.Present))
	for k, v := range a.Present {
		present[k] = v
	}
	return Assignment{Starts: starts, Present: present, LunchStart: a.LunchStart}
}

func abs(m model.Minute) model.Minute {
	if m < 0 {
		return -m
	}
	return m
}

// prioritySumTerm 是 Σ priority_a · present_a。
func (m *Model) prioritySumTerm(a Assignment) float64 {
	var sum float64
	for _, act := range m.Activities {
		if a.Present[act.ID] {
			sum += float64(act.Priority)
		}
	}
	return sum
}

// latenessPenaltyTerm 是 Σ max(0, end_a - deadline_a)。截止时间是硬约束，
// 在可行解里该项恒为 0；它只对搜索过程中越过截止时间的候选解起作用。
// 缺席（present=0）的活动不计入。
func (m *Model) latenessPenaltyTerm(a Assignment) float64 {
	var sum float64
	for _, act := range m.Activities {
		if !a.Present[act.ID] || !act.HasDeadline() {
			continue
		}
		start := a.Starts[act.ID]
		end := start + act.Duration
		if late := end - *act.Deadline; late > 0 {
			sum += float64(late)
		}
	}
	return sum
}

// lunchDeviationTerm 是 |lunch_start - lunch_preferred_start|。
func (m *Model) lunchDeviationTerm(a Assignment) float64 {
	return float64(abs(a.LunchStart - m.Lunch.PreferredStart))
}

// earlyStartBonusTerm 是高优先级活动起始时间之和，仅用于在等价布局间打破平局。
func (m *Model) earlyStartBonusTerm(a Assignment) float64 {
	var sum float64
	for _, act := range m.Activities {
		if a.Present[act.ID] && act.Priority >= m.HighPriorityThreshold {
			sum += float64(a.Starts[act.ID])
		}
	}
	return sum
}

// Objective 计算规格 §4.4 定义的加权目标函数（已做符号翻转，越大越好）。
func (m *Model) Objective(a Assignment) float64 {
	w := m.Weights
	return w.PrioritySum*m.prioritySumTerm(a) -
		w.LatenessPenalty*m.latenessPenaltyTerm(a) -
		w.LunchDeviation*m.lunchDeviationTerm(a) -
		w.EarlyStartBonus*m.earlyStartBonusTerm(a)
}
