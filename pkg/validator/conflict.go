// Package validator 在模型构建前检测可提前识别的冲突，按规格 §7 的要求，
// 优先把有问题的单项标记为不可排入，而不是让求解器把整个问题判定为不可行。
//
// 本包由教师仓库 pkg/validator/conflict.go 的 ConflictDetector 改写而来：教师版本
// 检测跨员工、跨日期的排班冲突（重叠、最小休息时间、最大工时、连续工作天数），
// 本版本改为检测单日、单护士场景下的固定时间越界、固定时间与阻塞时段冲突、
// 以及截止时间早于任何可行完成时刻三类冲突。
package validator

import (
	"github.com/paiban/nurseday/pkg/errors"
	"github.com/paiban/nurseday/pkg/model"
)

// Rejection 记录一个在求解前就被剔除的事项及其原因。
type Rejection struct {
	ItemID string
	Reason errors.Code
}

// Detector 是单日排班的预求解冲突检测器。
type Detector struct{}

// NewDetector 创建预求解冲突检测器。
func NewDetector() *Detector {
	return &Detector{}
}

// Detect 扫描归一化后的事项列表，返回仍可参与求解的事项与被提前剔除的事项。
// 剔除顺序：FixedTimeOutsideShift → FixedTimeClashesBlock（含固定时间互相冲突）→ DeadlinePast。
func (d *Detector) Detect(activities []*model.Activity, shift model.ShiftWindow, blocks []model.BlockedInterval) ([]*model.Activity, []Rejection) {
	var accepted []*model.Activity
	var rejected []Rejection
	var fixedAccepted []*model.Activity

	for _, a := range activities {
		if a.IsFixed() {
			start := *a.FixedStart
			if !shift.Contains(start, a.Duration) {
				rejected = append(rejected, Rejection{ItemID: a.ID, Reason: errors.CodeFixedTimeOutsideShift})
				continue
			}

			clashed := false
			for _, b := range blocks {
				if model.Overlaps(start, start+a.Duration, b.Start, b.End) {
					rejected = append(rejected, Rejection{ItemID: a.ID, Reason: errors.CodeFixedTimeClashesBlock})
					clashed = true
					break
				}
			}
			if clashed {
				continue
			}

			for _, other := range fixedAccepted {
				otherStart := *other.FixedStart
				if model.Overlaps(start, start+a.Duration, otherStart, otherStart+other.Duration) {
					rejected = append(rejected, Rejection{ItemID: a.ID, Reason: errors.CodeFixedTimeClashesBlock})
					clashed = true
					break
				}
			}
			if clashed {
				continue
			}

			fixedAccepted = append(fixedAccepted, a)
		}

		if a.HasDeadline() {
			earliestEnd := shift.Start + a.Duration
			if a.IsFixed() {
				earliestEnd = *a.FixedStart + a.Duration
			}
			if *a.Deadline < earliestEnd {
				rejected = append(rejected, Rejection{ItemID: a.ID, Reason: errors.CodeDeadlinePast})
				continue
			}
		}

		accepted = append(accepted, a)
	}

	return accepted, rejected
}
