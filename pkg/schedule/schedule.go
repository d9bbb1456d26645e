// Package schedule 是单日排班核心的顶层编排：把外部请求依次送过
// Normalizer → Detector → Model Builder → Solver Driver → Projector，
// 并组装成规格 §4.7 定义的结果信封。HTTP 传输层本身不在这个包里
// （out of scope，见 SPEC_FULL.md §1），这里只实现 `optimize_schedule`
// 这一纯函数本身。
package schedule

import (
	"context"
	"time"

	"github.com/paiban/nurseday/pkg/careplan"
	"github.com/paiban/nurseday/pkg/errors"
	"github.com/paiban/nurseday/pkg/logger"
	"github.com/paiban/nurseday/pkg/model"
	"github.com/paiban/nurseday/pkg/normalizer"
	"github.com/paiban/nurseday/pkg/oracle"
	"github.com/paiban/nurseday/pkg/scheduler/builder"
	"github.com/paiban/nurseday/pkg/scheduler/projector"
	"github.com/paiban/nurseday/pkg/scheduler/solver"
	"github.com/paiban/nurseday/pkg/timecodec"
	"github.com/paiban/nurseday/pkg/validator"
)

// BlockedOutTime 是请求里一条阻塞时段的原始形状。
type BlockedOutTime struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Reason string `json:"reason"`
}

// TravelEntry 是 travelMatrix 里的一条通勤记录；用列表而不是以地点对为键的
// 映射表示，是因为 JSON 对象键只能是字符串，无法直接承载 (from, to) 元组。
type TravelEntry struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Minutes int    `json:"minutes"`
}

// NurseConstraints 对应请求的 nurseConstraints 子对象，语义见规格 §6。
type NurseConstraints struct {
	ShiftStartTime               string           `json:"shiftStartTime"`
	ShiftEndTime                 string           `json:"shiftEndTime"`
	LunchBreakPreferredStartTime string           `json:"lunchBreakPreferredStartTime"`
	LunchBreakDuration           int              `json:"lunchBreakDuration"`
	BlockedOutTimes              []BlockedOutTime `json:"blockedOutTimes,omitempty"`
	TravelMatrix                 []TravelEntry    `json:"travelMatrix,omitempty"`
	// CurrentLocation 与 PatientPreference 按规格 §9 的决定被接受但不参与求解：
	// original_source 也从未读取前者，后者的取值如何影响目标函数未有定义。
	CurrentLocation   string `json:"currentLocation,omitempty"`
	PatientPreference string `json:"patientPreference,omitempty"`
}

// Request 是外部调用方提交的排班请求，语义见规格 §6。
type Request struct {
	NurseID          string           `json:"nurseId"`
	ScheduleDate     string           `json:"scheduleDate"`
	WorkItems        normalizer.Input `json:"workItems"`
	NurseConstraints NurseConstraints `json:"nurseConstraints"`
	// Precedence 是调用方声明的先后关系列表，规格 §4.4 第5条；请求形状未在
	// §6 中固定字段名，这里作为扩展点暴露给调用方。
	Precedence []builder.PrecedencePair `json:"precedence,omitempty"`
}

// UnachievableItem 与 projector.UnachievableItem 同形，导出到信封层供调用方消费。
type UnachievableItem struct {
	ItemID   string      `json:"itemId"`
	ItemType string      `json:"itemType"`
	Reason   errors.Code `json:"reason"`
}

// ScheduleEntry 与 projector.ScheduleEntry 同形。
type ScheduleEntry = projector.ScheduleEntry

// Envelope 是规格 §4.7 的结果信封。
type Envelope struct {
	NurseID           string             `json:"nurseId"`
	ScheduleDate      string             `json:"scheduleDate"`
	OptimizedSchedule []ScheduleEntry    `json:"optimizedSchedule"`
	UnachievableItems []UnachievableItem `json:"unachievableItems"`
	OptimizationScore float64            `json:"optimizationScore"`
	Warnings          []string           `json:"warnings"`
}

// Options 是一次 Optimize 调用的可调参数。
type Options struct {
	SolverOptions solver.Options
	RelaxOptional bool
}

// Optimize 是核心唯一的入口：一次调用构建自己的模型，不与其他调用共享可变状态
// （规格 §5）。err 仅在 ctx 被取消，或请求里班次/午休/阻塞时段字段无法解析
// （含班次结束不晚于开始）时非 nil，此时返回空信封；
// 事项级别的缺陷被隔离在返回的信封里，不会让整次调用失败。
func Optimize(ctx context.Context, req Request, o oracle.ParameterOracle, levels *careplan.LevelDefaults, opts Options) (Envelope, error) {
	start := time.Now()
	log := logger.NewScheduleLogger()

	shift, lunch, blocks, travel, err := parseConstraints(req.NurseConstraints)
	if err != nil {
		return Envelope{}, err
	}

	n := normalizer.New(o, levels)
	activities, rejectedAtParse := n.Normalize(req.WorkItems)

	log.StartOptimize(req.NurseID, req.ScheduleDate, len(activities))

	itemTypeByID := make(map[string]string, len(activities))
	for _, a := range activities {
		itemTypeByID[a.ID] = a.Kind.Tag()
	}

	unachievable := make([]UnachievableItem, 0, len(rejectedAtParse))
	for _, r := range rejectedAtParse {
		log.ItemRejected(r.ItemID, string(r.Reason))
		unachievable = append(unachievable, UnachievableItem{ItemID: r.ItemID, ItemType: r.Kind.Tag(), Reason: r.Reason})
	}

	detector := validator.NewDetector()
	accepted, preSolveRejected := detector.Detect(activities, shift, blocks)
	for _, r := range preSolveRejected {
		log.ItemRejected(r.ItemID, string(r.Reason))
		unachievable = append(unachievable, UnachievableItem{ItemID: r.ItemID, ItemType: itemTypeByID[r.ItemID], Reason: r.Reason})
	}

	m := builder.Build(accepted, shift, lunch, blocks, travel, req.Precedence, o, opts.RelaxOptional)

	assignment, status, err := solver.Solve(ctx, m, opts.SolverOptions)
	if err != nil {
		return Envelope{}, err
	}
	log.SolverStatus(string(status), 0, time.Since(start))

	result := projector.Project(m, assignment, status)

	for _, u := range result.Unachievable {
		unachievable = append(unachievable, UnachievableItem{ItemID: u.ItemID, ItemType: u.ItemType, Reason: u.Reason})
	}

	envelope := Envelope{
		NurseID:           req.NurseID,
		ScheduleDate:      req.ScheduleDate,
		OptimizedSchedule: result.Schedule,
		UnachievableItems: unachievable,
		OptimizationScore: result.OptimizationScore,
		Warnings:          result.Warnings,
	}

	log.OptimizeComplete(req.NurseID, time.Since(start), envelope.OptimizationScore, len(envelope.OptimizedSchedule), len(envelope.UnachievableItems))

	return envelope, nil
}

// parseConstraints 解析请求中的班次/午休/阻塞时段/通勤矩阵字段。任何一个全局
// 字段（班次、午休）解析失败都让整次调用失败（规格 §7 "Global defects (bad
// shift window) fail the whole solve"），而不是把它们当成某个事项的缺陷隔离掉。
func parseConstraints(nc NurseConstraints) (model.ShiftWindow, model.LunchConfig, []model.BlockedInterval, model.TravelMatrix, error) {
	shiftStart, err := timecodec.Parse(nc.ShiftStartTime)
	if err != nil {
		return model.ShiftWindow{}, model.LunchConfig{}, nil, nil, errors.Wrap(err, errors.CodeBadTimeFormat, "shiftStartTime 无法解析")
	}
	shiftEnd, err := timecodec.Parse(nc.ShiftEndTime)
	if err != nil {
		return model.ShiftWindow{}, model.LunchConfig{}, nil, nil, errors.Wrap(err, errors.CodeBadTimeFormat, "shiftEndTime 无法解析")
	}
	if shiftEnd <= shiftStart {
		return model.ShiftWindow{}, model.LunchConfig{}, nil, nil, errors.New(errors.CodeBadTimeFormat, "shiftEndTime 必须晚于 shiftStartTime")
	}
	shift := model.ShiftWindow{Start: shiftStart, End: shiftEnd}

	lunchStart, err := timecodec.Parse(nc.LunchBreakPreferredStartTime)
	if err != nil {
		return model.ShiftWindow{}, model.LunchConfig{}, nil, nil, errors.Wrap(err, errors.CodeBadTimeFormat, "lunchBreakPreferredStartTime 无法解析")
	}
	lunch := model.LunchConfig{PreferredStart: lunchStart, Duration: model.Minute(nc.LunchBreakDuration)}

	blocks := make([]model.BlockedInterval, 0, len(nc.BlockedOutTimes))
	for _, b := range nc.BlockedOutTimes {
		bStart, err := timecodec.Parse(b.Start)
		if err != nil {
			return model.ShiftWindow{}, model.LunchConfig{}, nil, nil, errors.Wrap(err, errors.CodeBadTimeFormat, "blockedOutTimes.start 无法解析")
		}
		bEnd, err := timecodec.Parse(b.End)
		if err != nil {
			return model.ShiftWindow{}, model.LunchConfig{}, nil, nil, errors.Wrap(err, errors.CodeBadTimeFormat, "blockedOutTimes.end 无法解析")
		}
		if bEnd <= bStart {
			continue // 零长度阻塞按规格 §3 丢弃
		}
		blocks = append(blocks, model.BlockedInterval{Start: bStart, End: bEnd, Reason: b.Reason})
	}

	var travel model.TravelMatrix
	if len(nc.TravelMatrix) > 0 {
		travel = make(model.TravelMatrix, len(nc.TravelMatrix))
		for _, e := range nc.TravelMatrix {
			travel[[2]string{e.From, e.To}] = model.Minute(e.Minutes)
		}
	}

	return shift, lunch, blocks, travel, nil
}
