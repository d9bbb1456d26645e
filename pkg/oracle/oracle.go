// Package oracle 提供只读的参数查询接口（"知识库"的核心子集）。
// 归一化器与模型构建器通过它查询默认值和目标函数权重；查询永不失败，
// 缺失的键返回文档化的默认值。
package oracle

// ObjectiveWeights 是目标函数四个加权项的系数，语义见规格 §4.4。
type ObjectiveWeights struct {
	PrioritySum    float64
	LatenessPenalty float64
	LunchDeviation float64
	EarlyStartBonus float64
}

// ParameterOracle 是调用方提供的只读参数字典。
type ParameterOracle interface {
	// TaskDefaultDuration 是任务未声明 estimatedDuration 时的兜底时长（分钟）。
	TaskDefaultDuration() int
	// AlertDefaultAddressTime 是警报未声明 estimatedTimeToAddress 时的兜底时长（分钟）。
	AlertDefaultAddressTime() int
	// PriorityWeight 把文字优先级标签（"High"/"Medium"/"Low"）映射为数值权重。
	// 未知标签返回 defaultPriority。
	PriorityWeight(label string) int
	// ObjectiveWeights 返回目标函数的四项系数。
	ObjectiveWeights() ObjectiveWeights
	// HighPriorityThreshold 是"提前完成加分"项所考察的优先级门槛，默认 8。
	HighPriorityThreshold() int
}

const (
	defaultPriority              = 5
	defaultTaskDuration          = 30
	defaultAlertAddressTime      = 15
	defaultHighPriorityThreshold = 8
)

// DefaultOracle 是核心自带的内存参数字典，取值与 original_source 中
// MockKBS.get_rule 的默认规则一致。
type DefaultOracle struct {
	priorityWeights map[string]int
	weights         ObjectiveWeights
}

// NewDefaultOracle 创建带标准默认值的参数字典。
func NewDefaultOracle() *DefaultOracle {
	return &DefaultOracle{
		priorityWeights: map[string]int{
			"High":   10,
			"Medium": 5,
			"Low":    1,
		},
		weights: ObjectiveWeights{
			PrioritySum:     100,
			LatenessPenalty: 10,
			LunchDeviation:  1,
			EarlyStartBonus: 0.1,
		},
	}
}

func (o *DefaultOracle) TaskDefaultDuration() int     { return defaultTaskDuration }
func (o *DefaultOracle) AlertDefaultAddressTime() int { return defaultAlertAddressTime }

func (o *DefaultOracle) PriorityWeight(label string) int {
	if w, ok := o.priorityWeights[label]; ok {
		return w
	}
	return defaultPriority
}

func (o *DefaultOracle) ObjectiveWeights() ObjectiveWeights {
	return o.weights
}

func (o *DefaultOracle) HighPriorityThreshold() int {
	return defaultHighPriorityThreshold
}

// WithPriorityWeight 覆盖或新增一个优先级标签的权重，返回同一个字典以便链式调用。
func (o *DefaultOracle) WithPriorityWeight(label string, weight int) *DefaultOracle {
	o.priorityWeights[label] = weight
	return o
}

// WithObjectiveWeights 整体替换目标函数系数，返回同一个字典以便链式调用。
func (o *DefaultOracle) WithObjectiveWeights(w ObjectiveWeights) *DefaultOracle {
	o.weights = w
	return o
}
