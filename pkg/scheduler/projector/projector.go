// Package projector 把求解器的候选解投影为面向调用方的排班表：排序后的
// 时段列表、不可排入清单、优化分数与告警，语义见规格 §4.6。
//
// 直接改写自 original_source/schedule_optimizer.py 中 optimize_schedule 的
// 结果组装尾段（构造 schedule_item 字典、追加固定的 "LUNCH"/"BLOCK_{i}" 条目、
// 排序、告警判断），把 Python 字典换成本仓库的类型。
package projector

import (
	"fmt"
	"sort"

	"github.com/paiban/nurseday/pkg/errors"
	"github.com/paiban/nurseday/pkg/model"
	"github.com/paiban/nurseday/pkg/scheduler/builder"
	"github.com/paiban/nurseday/pkg/scheduler/solver"
	"github.com/paiban/nurseday/pkg/timecodec"
)

const (
	lunchDeviationWarningThreshold  = model.Minute(15)
	deadlineProximityWarningMinutes = model.Minute(5)
)

// ScheduleEntry 是投影后排班表中的一行，字段语义见规格 §4.6。
type ScheduleEntry struct {
	SlotStartTime string `json:"slotStartTime"`
	SlotEndTime   string `json:"slotEndTime"`
	ActivityType  string `json:"activityType"`
	Title         string `json:"title"`
	Details       string `json:"details"`
	RelatedItemID string `json:"relatedItemId"`
}

// UnachievableItem 是无法排入的事项及其原因，语义见规格 §4.7。
type UnachievableItem struct {
	ItemID   string      `json:"itemId"`
	ItemType string      `json:"itemType"`
	Reason   errors.Code `json:"reason"`
}

// Result 是投影阶段的产出，供顶层编排组装最终的结果信封。
type Result struct {
	Schedule          []ScheduleEntry
	Unachievable      []UnachievableItem
	OptimizationScore float64
	Warnings          []string
}

// Project 把求解状态与候选解转换成 Result。infeasible/timeout/unknown 状态下
// 模型中的全部活动都进入 unachievable 列表，午休与阻塞时段也不出现。
func Project(m *builder.Model, assignment *builder.Assignment, status solver.Status) Result {
	if status == solver.StatusInfeasible || status == solver.StatusTimeoutNoSolution || status == solver.StatusUnknown {
		return wholeSolveFailed(m, status)
	}
	return projectSuccess(m, assignment, status)
}

func wholeSolveFailed(m *builder.Model, status solver.Status) Result {
	reason := errors.CodeInfeasible
	if status == solver.StatusTimeoutNoSolution || status == solver.StatusUnknown {
		reason = errors.CodeTimeoutNoSolution
	}

	unachievable := make([]UnachievableItem, 0, len(m.Activities))
	for _, a := range m.Activities {
		unachievable = append(unachievable, UnachievableItem{ItemID: a.ID, ItemType: a.Kind.Tag(), Reason: reason})
	}

	warning := "No feasible schedule could be generated with the given constraints."
	if reason == errors.CodeTimeoutNoSolution {
		warning = "Time limit reached before any feasible schedule was found."
	}

	return Result{
		Schedule:          nil,
		Unachievable:      unachievable,
		OptimizationScore: 0,
		Warnings:          []string{warning},
	}
}

func projectSuccess(m *builder.Model, a *builder.Assignment, status solver.Status) Result {
	entries := make([]ScheduleEntry, 0, len(m.Activities)+1+len(m.Blocks))
	unachievable := make([]UnachievableItem, 0)
	var warnings []string

	for _, act := range m.Activities {
		if !a.Present[act.ID] {
			unachievable = append(unachievable, UnachievableItem{ItemID: act.ID, ItemType: act.Kind.Tag(), Reason: errors.CodeInfeasible})
			continue
		}
		start := a.Starts[act.ID]
		end := start + act.Duration
		entries = append(entries, ScheduleEntry{
			SlotStartTime: timecodec.Format(start),
			SlotEndTime:   timecodec.Format(end),
			ActivityType:  act.Kind.Tag(),
			Title:         act.Title,
			Details:       act.Details,
			RelatedItemID: act.ID,
		})

		if act.HasDeadline() {
			if remaining := *act.Deadline - end; remaining >= 0 && remaining <= deadlineProximityWarningMinutes {
				warnings = append(warnings, fmt.Sprintf("Activity %s finishes close to its deadline.", act.ID))
			}
		}
	}

	lunchEnd := a.LunchStart + m.Lunch.Duration
	entries = append(entries, ScheduleEntry{
		SlotStartTime: timecodec.Format(a.LunchStart),
		SlotEndTime:   timecodec.Format(lunchEnd),
		ActivityType:  "Break",
		Title:         "Lunch",
		RelatedItemID: "LUNCH",
	})

	for i, b := range m.Blocks {
		title := b.Reason
		if title == "" {
			title = "Blocked Time"
		}
		entries = append(entries, ScheduleEntry{
			SlotStartTime: timecodec.Format(b.Start),
			SlotEndTime:   timecodec.Format(b.End),
			ActivityType:  "Blocked",
			Title:         title,
			RelatedItemID: fmt.Sprintf("BLOCK_%d", i),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SlotStartTime < entries[j].SlotStartTime
	})

	if dev := abs(a.LunchStart - m.Lunch.PreferredStart); dev > lunchDeviationWarningThreshold {
		warnings = append(warnings, "Lunch break scheduled more than 15 minutes from preferred time.")
	}
	if status == solver.StatusFeasible {
		warnings = append(warnings, "Time limit reached; schedule may be suboptimal.")
	}

	return Result{
		Schedule:          entries,
		Unachievable:      unachievable,
		OptimizationScore: m.Objective(*a),
		Warnings:          warnings,
	}
}

func abs(m model.Minute) model.Minute {
	if m < 0 {
		return -m
	}
	return m
}
