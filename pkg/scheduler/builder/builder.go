// Package builder 构建约束模型：每个事项的起始时间变量域、区间、不重叠约束
// 集合、截止时间约束、路程排序布尔量、优先关系，以及加权目标函数的系数，
// 语义见规格 §4.4。
//
// 本包没有直接对应的教师源文件——paiban 的 pkg/scheduler/constraint 处理的是
// 跨员工/跨班次的软硬约束评分，而不是单个工作日内的区间变量域；这里的域收窄
// 逻辑改写自 original_source/schedule_optimizer.py 的 optimize_schedule 前半段
// （start_var 的 domain_min_start/domain_max_start 推导），目标函数的组合方式
// 则借鉴 abramin-kairos 的 internal/scheduler/scorer.go：每一项都是独立函数，
// 在 Evaluate 时求和，而不是一个巨大的表达式（SPEC_FULL.md §12）。
package builder

import (
	"github.com/paiban/nurseday/pkg/model"
	"github.com/paiban/nurseday/pkg/oracle"
)

// Domain 是一个起始时间变量的可行区间 [Min, Max]（含端点）。
type Domain struct {
	Min model.Minute
	Max model.Minute
}

// Singleton 检查该域是否已收窄为单点（例如固定时间事项）。
func (d Domain) Singleton() bool {
	return d.Min == d.Max
}

// PrecedencePair 表示调用方声明的先后关系：Succ 必须晚于 Pred 结束。
type PrecedencePair struct {
	Pred string `json:"pred"`
	Succ string `json:"succ"`
}

// Model 是构建完成的约束模型，供 Solver Driver 在其上搜索。
type Model struct {
	Shift                 model.ShiftWindow
	Activities            []*model.Activity
	Domains               map[string]Domain
	Blocks                []model.BlockedInterval
	Lunch                 model.LunchConfig
	LunchDomain           Domain
	Travel                model.TravelMatrix
	Precedence            []PrecedencePair
	Weights               oracle.ObjectiveWeights
	HighPriorityThreshold int
	RelaxOptional         bool
}

// ActivityByID 方便求解器按 id 查活动定义。
func (m *Model) ActivityByID(id string) *model.Activity {
	for _, a := range m.Activities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// MayBeAbsent 报告该事项在 relax_optional 模式下是否允许缺席（present=0）。
// 固定时间事项与警报类事项始终强制在场，见规格 §4.4。
func (m *Model) MayBeAbsent(a *model.Activity) bool {
	if !m.RelaxOptional {
		return false
	}
	if a.IsFixed() {
		return false
	}
	if a.Kind == model.KindAlert || a.Kind == model.KindVitalAlert {
		return false
	}
	return true
}

// Build 构建给定活动集合上的约束模型。activities 应已经过 pkg/validator
// 的预求解冲突检测，只包含仍有希望被排入的事项。
func Build(
	activities []*model.Activity,
	shift model.ShiftWindow,
	lunch model.LunchConfig,
	blocks []model.BlockedInterval,
	travel model.TravelMatrix,
	precedence []PrecedencePair,
	o oracle.ParameterOracle,
	relaxOptional bool,
) *Model {
	domains := make(map[string]Domain, len(activities))

	for _, a := range activities {
		domainMin := shift.Start
		domainMax := maxMinute(shift.Start, shift.End-a.Duration)

		if a.IsFixed() {
			domainMin = *a.FixedStart
			domainMax = *a.FixedStart
		}

		if a.HasDeadline() {
			domainMax = minMinute(domainMax, *a.Deadline-a.Duration)
		}

		if domainMin > domainMax {
			// 域不可行（例如截止时间早于最早可能完成时刻但未被预求解检测捕获）；
			// 收窄为单点，求解阶段的截止时间检查会据此判定该事项不可排入。
			domainMax = domainMin
		}

		domains[a.ID] = Domain{Min: domainMin, Max: domainMax}
	}

	lunchDomain := Domain{
		Min: shift.Start,
		Max: maxMinute(shift.Start, shift.End-lunch.Duration),
	}

	return &Model{
		Shift:                 shift,
		Activities:            activities,
		Domains:               domains,
		Blocks:                blocks,
		Lunch:                 lunch,
		LunchDomain:           lunchDomain,
		Travel:                travel,
		Precedence:            precedence,
		Weights:               o.ObjectiveWeights(),
		HighPriorityThreshold: o.HighPriorityThreshold(),
		RelaxOptional:         relaxOptional,
	}
}

func maxMinute(a, b model.Minute) model.Minute {
	if a > b {
		return a
	}
	return b
}

func minMinute(a, b model.Minute) model.Minute {
	if a < b {
		return a
	}
	return b
}
