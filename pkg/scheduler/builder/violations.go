package builder

import "github.com/paiban/nurseday/pkg/model"

type interval struct {
	start model.Minute
	end   model.Minute
}

// intervals collects every interval that must not overlap: present activities,
// lunch, and every blocked period.
func (m *Model) intervals(a Assignment) []interval {
	out := make([]interval, 0, len(m.Activities)+1+len(m.Blocks))
	for _, act := range m.Activities {
		if !a.Present[act.ID] {
			continue
		}
		start := a.Starts[act.ID]
		out = append(out, interval{start: start, end: start + act.Duration})
	}
	out = append(out, interval{start: a.LunchStart, end: a.LunchStart + m.Lunch.Duration})
	for _, b := range m.Blocks {
		out = append(out, interval{start: b.Start, end: b.End})
	}
	return out
}

// Violations 统计给定候选解违反的硬约束数量：不重叠、截止时间、固定时间、
// 路程排序、优先关系。返回 0 表示候选解满足全部硬约束。
func (m *Model) Violations(a Assignment) int {
	count := 0

	ivs := m.intervals(a)
	for i := 0; i < len(ivs); i++ {
		for j := i + 1; j < len(ivs); j++ {
			if model.Overlaps(ivs[i].start, ivs[i].end, ivs[j].start, ivs[j].end) {
				count++
			}
		}
	}

	for _, act := range m.Activities {
		if !a.Present[act.ID] {
			continue
		}
		start := a.Starts[act.ID]

		if !m.Shift.Contains(start, act.Duration) {
			count++
		}

		if act.IsFixed() && start != *act.FixedStart {
			count++
		}

		if act.HasDeadline() && start+act.Duration > *act.Deadline {
			count++
		}
	}

	count += m.travelViolations(a)
	count += m.precedenceViolations(a)

	return count
}

// travelViolations 检查每一对拥有不同地点的在场活动是否满足路程排序约束：
// 二者其中一个必须晚于另一个的结束时间加上通勤时长开始，语义见规格 §4.4 第4条。
func (m *Model) travelViolations(a Assignment) int {
	if m.Travel == nil {
		return 0
	}
	count := 0
	acts := m.Activities
	for i := 0; i < len(acts); i++ {
		ai := acts[i]
		if !a.Present[ai.ID] || ai.Location == nil {
			continue
		}
		for j := i + 1; j < len(acts); j++ {
			aj := acts[j]
			if !a.Present[aj.ID] || aj.Location == nil {
				continue
			}
			if *ai.Location == *aj.Location {
				continue
			}
			startI, startJ := a.Starts[ai.ID], a.Starts[aj.ID]
			iBeforeJ := startJ >= startI+ai.Duration+m.Travel.Lookup(*ai.Location, *aj.Location)
			jBeforeI := startI >= startJ+aj.Duration+m.Travel.Lookup(*aj.Location, *ai.Location)
			if !iBeforeJ && !jBeforeI {
				count++
			}
		}
	}
	return count
}

// precedenceViolations 检查调用方声明的先后关系：Succ 必须不早于 Pred 结束。
func (m *Model) precedenceViolations(a Assignment) int {
	count := 0
	for _, p := range m.Precedence {
		pred := m.ActivityByID(p.Pred)
		succ := m.ActivityByID(p.Succ)
		if pred == nil || succ == nil {
			continue
		}
		if !a.Present[pred.ID] || !a.Present[succ.ID] {
			continue
		}
		if a.Starts[succ.ID] < a.Starts[pred.ID]+pred.Duration {
			count++
		}
	}
	return count
}

// Feasible 报告候选解是否满足全部硬约束。
func (m *Model) Feasible(a Assignment) bool {
	return m.Violations(a) == 0
}
