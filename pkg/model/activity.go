// Package model 定义单日排班核心的数据模型
package model

import "fmt"

// Minute 是自午夜起的分钟数，取值范围 [0, 1440]
type Minute int

const (
	// MinutesPerDay 是一天的总分钟数
	MinutesPerDay Minute = 1440
)

// Valid 检查分钟值是否落在一天之内
func (m Minute) Valid() bool {
	return m >= 0 && m <= MinutesPerDay
}

// ActivityKind 标记归一化后的事项种类
type ActivityKind string

const (
	KindAppointment  ActivityKind = "Appointment"
	KindMeeting      ActivityKind = "Meeting"
	KindTask         ActivityKind = "Task"
	KindAlert        ActivityKind = "Alert"
	KindFollowUp     ActivityKind = "FollowUp"
	KindCarePlan     ActivityKind = "CarePlan"
	KindIntervention ActivityKind = "Intervention"
	KindVitalAlert   ActivityKind = "VitalAlert"
	// KindBreak 与 KindBlocked 是合成种类，由 Model Builder 插入，不来自调用方输入
	KindBreak   ActivityKind = "Break"
	KindBlocked ActivityKind = "Blocked"
)

// Tag 返回该事项类型在响应中出现的小写标签
func (k ActivityKind) Tag() string {
	switch k {
	case KindFollowUp:
		return "followup"
	case KindCarePlan:
		return "careplan"
	case KindVitalAlert:
		return "vitalalert"
	default:
		b := []byte(string(k))
		if len(b) > 0 && b[0] >= 'A' && b[0] <= 'Z' {
			b[0] += 'a' - 'A'
		}
		return string(b)
	}
}

// Activity 是归一化后的排班单元，字段语义见规格 §3
type Activity struct {
	ID         string
	Kind       ActivityKind
	Duration   Minute
	Priority   int
	FixedStart *Minute
	Deadline   *Minute
	Location   *string
	Title      string
	Details    string
}

// IsFixed 返回该事项是否带有固定起始时间
func (a *Activity) IsFixed() bool {
	return a.FixedStart != nil
}

// HasDeadline 返回该事项是否带有截止时间
func (a *Activity) HasDeadline() bool {
	return a.Deadline != nil
}

// String 便于日志/测试输出
func (a *Activity) String() string {
	return fmt.Sprintf("Activity{id=%s kind=%s dur=%d prio=%d}", a.ID, a.Kind, a.Duration, a.Priority)
}

// ShiftWindow 是当天的工作时间窗口
type ShiftWindow struct {
	Start Minute
	End   Minute
}

// Duration 返回班次总时长
func (s ShiftWindow) Duration() Minute {
	return s.End - s.Start
}

// Contains 检查某个区间是否完全落在班次窗口内
func (s ShiftWindow) Contains(start, duration Minute) bool {
	return s.Start <= start && start+duration <= s.End
}

// BlockedInterval 是一段必须保留的非工作时段，例如培训
type BlockedInterval struct {
	Start  Minute
	End    Minute
	Reason string
}

// Duration 返回区间时长
func (b BlockedInterval) Duration() Minute {
	return b.End - b.Start
}

// Overlaps 检查两个区间是否重叠（半开区间 [start, end)）
func Overlaps(start1, end1, start2, end2 Minute) bool {
	return start1 < end2 && start2 < end1
}

// LunchConfig 描述午休偏好
type LunchConfig struct {
	PreferredStart Minute
	Duration       Minute
}

// TravelMatrix 给出两个地点之间的通勤时长，缺失的条目视为 0
type TravelMatrix map[[2]string]Minute

// Lookup 返回 from→to 的通勤时长；不存在的条目视为 0
func (t TravelMatrix) Lookup(from, to string) Minute {
	if t == nil {
		return 0
	}
	if v, ok := t[[2]string{from, to}]; ok {
		return v
	}
	return 0
}
