// Package normalizer 把请求中八个异构的事项类别折叠成统一的 model.Activity
// 列表，语义见规格 §4.3。它是对 original_source/schedule_optimizer.py 中
// _prepare_activities 的移植与扩展：appointments/calendar_events/tasks/
// critical_alerts_to_address/follow_ups 的字段名与兜底顺序与原始实现一致；
// care_plans/patient_vital_alerts/interventions 三个类别是原始实现完全没有
// 覆盖的补充（SPEC_FULL.md §12），其时长兜底借助 pkg/careplan 的等级表。
package normalizer

import (
	"strings"

	"github.com/paiban/nurseday/pkg/careplan"
	"github.com/paiban/nurseday/pkg/errors"
	"github.com/paiban/nurseday/pkg/model"
	"github.com/paiban/nurseday/pkg/oracle"
	"github.com/paiban/nurseday/pkg/timecodec"
)

// Rejected 记录一个在归一化阶段就被剔除的原始事项。
type Rejected struct {
	ItemID string
	Kind   model.ActivityKind
	Reason errors.Code
}

// RawItem 是某一事项类别中的一条原始记录，字段名与请求 JSON 一一对应。
// Normalizer 按类别读取其中与该类别相关的子集，其余字段被忽略。
type RawItem map[string]any

// Input 是归一化器的输入：按类别分组的原始事项加上 pgiContext 扩展点。
// PGIContext 按规格 §9 Open Question 3 的决定被接受但不读取。
type Input struct {
	Appointments            []RawItem `json:"appointments"`
	CalendarEvents          []RawItem `json:"calendar_events"`
	Tasks                   []RawItem `json:"tasks"`
	CriticalAlertsToAddress []RawItem `json:"critical_alerts_to_address"`
	FollowUps               []RawItem `json:"follow_ups"`
	CarePlans               []RawItem `json:"care_plans"`
	PatientVitalAlerts      []RawItem `json:"patient_vital_alerts"`
	Interventions           []RawItem `json:"interventions"`
	PGIContext              any       `json:"pgiContext,omitempty"`
}

// Normalizer 把 Input 折叠为统一的 Activity 列表。
type Normalizer struct {
	oracle   oracle.ParameterOracle
	levels   *careplan.LevelDefaults
	seenIDs  map[string]int
}

// New 创建归一化器，levelDefaults 为 nil 时使用 careplan.NewLevelDefaults()。
func New(o oracle.ParameterOracle, levelDefaults *careplan.LevelDefaults) *Normalizer {
	if levelDefaults == nil {
		levelDefaults = careplan.NewLevelDefaults()
	}
	return &Normalizer{oracle: o, levels: levelDefaults}
}

// Normalize 折叠全部类别，返回归一化后的事项与被剔除的原始事项。
func (n *Normalizer) Normalize(in Input) ([]*model.Activity, []Rejected) {
	n.seenIDs = make(map[string]int)

	var activities []*model.Activity
	var rejected []Rejected

	add := func(items []RawItem, kind model.ActivityKind, build func(RawItem) (*model.Activity, error)) {
		for _, item := range items {
			a, err := build(item)
			if err != nil {
				id := firstNonEmpty(stringField(item, "itemId"), stringField(item, "taskId"),
					stringField(item, "alertId"), stringField(item, "followUpId"),
					stringField(item, "carePlanId"), stringField(item, "interventionId"))
				reason := errors.CodeMalformedInput
				if ae, ok := err.(*errors.AppError); ok && ae.Code == errors.CodeMissingIdentifier {
					reason = errors.CodeMissingIdentifier
				}
				rejected = append(rejected, Rejected{ItemID: id, Kind: kind, Reason: reason})
				continue
			}
			a.ID = n.dedupeID(a.ID, kind)
			activities = append(activities, a)
		}
	}

	add(in.Appointments, model.KindAppointment, n.buildAppointmentLike(model.KindAppointment))
	add(in.CalendarEvents, model.KindMeeting, n.buildAppointmentLike(model.KindMeeting))
	add(in.Tasks, model.KindTask, n.buildTask)
	add(in.CriticalAlertsToAddress, model.KindAlert, n.buildAlert(model.KindAlert, "alertId", "urgencyScore", 5))
	add(in.FollowUps, model.KindFollowUp, n.buildFollowUp)
	add(in.CarePlans, model.KindCarePlan, n.buildCarePlanLike(model.KindCarePlan, "carePlanId"))
	add(in.PatientVitalAlerts, model.KindVitalAlert, n.buildAlert(model.KindVitalAlert, "alertId", "urgencyScore", 5))
	add(in.Interventions, model.KindIntervention, n.buildCarePlanLike(model.KindIntervention, "interventionId"))

	return activities, rejected
}

// dedupeID 在跨类别出现相同 id 时追加种类标签以保证内部与输出的唯一性，
// 语义见规格 §4.3 "Duplicate ids across categories are tolerated by suffixing the kind tag"。
func (n *Normalizer) dedupeID(id string, kind model.ActivityKind) string {
	n.seenIDs[id]++
	if n.seenIDs[id] == 1 {
		return id
	}
	return id + "_" + kind.Tag()
}

func (n *Normalizer) buildAppointmentLike(kind model.ActivityKind) func(RawItem) (*model.Activity, error) {
	return func(item RawItem) (*model.Activity, error) {
		id := stringField(item, "itemId")
		if id == "" {
			return nil, errors.New(errors.CodeMissingIdentifier, "缺少 itemId")
		}
		duration, ok := intField(item, "estimatedDuration")
		if !ok || duration <= 0 {
			return nil, errors.New(errors.CodeMalformedInput, "estimatedDuration 缺失或非法")
		}

		priority, ok := intField(item, "initialPriorityScore")
		if !ok {
			priority = 5
		}

		a := &model.Activity{
			ID:       id,
			Kind:     kind,
			Duration: model.Minute(duration),
			Priority: priority,
			Title:    stringField(item, "title"),
		}
		if loc := stringField(item, "location"); loc != "" {
			a.Location = &loc
		}

		if boolField(item, "isFixedTime") {
			startStr := stringField(item, "startTime")
			start, err := timecodec.Parse(startStr)
			if err != nil {
				return nil, errors.New(errors.CodeMalformedInput, "startTime 无法解析")
			}
			a.FixedStart = &start
		}

		return a, nil
	}
}

func (n *Normalizer) buildTask(item RawItem) (*model.Activity, error) {
	id := stringField(item, "taskId")
	if id == "" {
		return nil, errors.New(errors.CodeMissingIdentifier, "缺少 taskId")
	}

	duration, ok := intField(item, "estimatedDuration")
	if !ok || duration <= 0 {
		duration = n.oracle.TaskDefaultDuration()
	}

	priority, ok := intField(item, "initialPriorityScore")
	if !ok {
		text := stringField(item, "initialPriorityScore_text")
		if text == "" {
			text = "Medium"
		}
		priority = n.oracle.PriorityWeight(text)
	}

	a := &model.Activity{
		ID:       id,
		Kind:     model.KindTask,
		Duration: model.Minute(duration),
		Priority: priority,
		Title:    stringField(item, "description"),
	}
	if loc := stringField(item, "locationDependency"); loc != "" {
		a.Location = &loc
	}

	if dl := stringField(item, "deadline"); dl != "" {
		deadline, err := timecodec.ExtractDeadline(dl)
		if err != nil {
			return nil, errors.New(errors.CodeMalformedInput, "deadline 无法解析")
		}
		a.Deadline = deadline
	}

	return a, nil
}

func (n *Normalizer) buildAlert(kind model.ActivityKind, idField, priorityField string, defaultPriority int) func(RawItem) (*model.Activity, error) {
	return func(item RawItem) (*model.Activity, error) {
		id := stringField(item, idField)
		if id == "" {
			return nil, errors.New(errors.CodeMissingIdentifier, "缺少 "+idField)
		}

		duration, ok := intField(item, "estimatedTimeToAddress")
		if !ok || duration <= 0 {
			duration = n.oracle.AlertDefaultAddressTime()
		}

		priority, ok := intField(item, priorityField)
		if !ok {
			priority = defaultPriority
		}

		title := stringField(item, "summary")
		if title != "" {
			title = "Alert: " + title
		}

		return &model.Activity{
			ID:       id,
			Kind:     kind,
			Duration: model.Minute(duration),
			Priority: priority,
			Title:    title,
		}, nil
	}
}

func (n *Normalizer) buildFollowUp(item RawItem) (*model.Activity, error) {
	id := stringField(item, "followUpId")
	if id == "" {
		return nil, errors.New(errors.CodeMissingIdentifier, "缺少 followUpId")
	}

	duration, ok := intField(item, "estimatedDurationForFollowUpAction")
	if !ok || duration <= 0 {
		return nil, errors.New(errors.CodeMalformedInput, "estimatedDurationForFollowUpAction 缺失或非法")
	}

	priority, ok := intField(item, "initialPriorityScore")
	if !ok {
		priority = 5
	}

	title := stringField(item, "reason")
	if title != "" {
		title = "Follow-up: " + title
	}

	return &model.Activity{
		ID:       id,
		Kind:     model.KindFollowUp,
		Duration: model.Minute(duration),
		Priority: priority,
		Title:    title,
	}, nil
}

// buildCarePlanLike 覆盖 care_plans 与 interventions 两个类别，二者的字段形状一致，
// 仅 id 字段名不同（carePlanId / interventionId）。规格没有给出原始实现的兜底行为，
// 此处在 estimatedDuration 缺失时改用 pkg/careplan 的等级时长表作为兜底，
// 属于 SPEC_FULL.md §12 记载的补充。
func (n *Normalizer) buildCarePlanLike(kind model.ActivityKind, idField string) func(RawItem) (*model.Activity, error) {
	return func(item RawItem) (*model.Activity, error) {
		id := stringField(item, idField)
		if id == "" {
			return nil, errors.New(errors.CodeMissingIdentifier, "缺少 "+idField)
		}

		duration, ok := intField(item, "estimatedDuration")
		if !ok || duration <= 0 {
			level, _ := intField(item, "level")
			duration = n.levels.DefaultSessionMinutes(level)
		}

		priority, ok := intField(item, "priority")
		if !ok {
			priority = 5
		}

		a := &model.Activity{
			ID:       id,
			Kind:     kind,
			Duration: model.Minute(duration),
			Priority: priority,
			Title:    stringField(item, "title"),
			Details:  stringField(item, "details"),
		}

		if dl := stringField(item, "deadline"); dl != "" {
			deadline, err := timecodec.ExtractDeadline(dl)
			if err != nil {
				return nil, errors.New(errors.CodeMalformedInput, "deadline 无法解析")
			}
			a.Deadline = deadline
		}

		return a, nil
	}
}

func stringField(item RawItem, key string) string {
	if v, ok := item[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func boolField(item RawItem, key string) bool {
	if v, ok := item[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func intField(item RawItem, key string) (int, bool) {
	v, ok := item[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
