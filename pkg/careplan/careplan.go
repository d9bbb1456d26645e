// Package careplan 提供长护险护理等级的默认值查询，供归一化器为
// 未声明 estimatedDuration 的 care_plans / interventions 事项兜底。
//
// 这是对原始 Python 实现的补充：original_source/schedule_optimizer.py 完全没有
// care_plans / patient_vital_alerts / interventions 的归一化规则，规格的这部分
// 要求在此新增（见 SPEC_FULL.md §12）。等级→时长/项目表沿用教师仓库
// pkg/careplan 中 PlanManager 的数据，精简为纯查询表。
package careplan

// LevelDefaults 按护理等级（1-6）查询默认时长与技能要求。
type LevelDefaults struct {
	weeklyHours map[int]int
	items       map[int][]string
}

// NewLevelDefaults 创建带标准等级表的查询对象。
func NewLevelDefaults() *LevelDefaults {
	return &LevelDefaults{
		weeklyHours: map[int]int{
			1: 3,  // 一级：每周3小时
			2: 5,  // 二级：每周5小时
			3: 7,  // 三级：每周7小时
			4: 10, // 四级：每周10小时
			5: 15, // 五级：每周15小时
			6: 20, // 六级：每周20小时
		},
		items: map[int][]string{
			1: {"基础生活照料", "健康监测"},
			2: {"基础生活照料", "健康监测", "饮食护理"},
			3: {"基础生活照料", "健康监测", "饮食护理", "排泄护理"},
			4: {"基础生活照料", "健康监测", "饮食护理", "排泄护理", "清洁护理"},
			5: {"基础生活照料", "健康监测", "饮食护理", "排泄护理", "清洁护理", "康复训练"},
			6: {"基础生活照料", "健康监测", "饮食护理", "排泄护理", "清洁护理", "康复训练", "临终关怀"},
		},
	}
}

// DefaultSessionMinutes 返回给定护理等级一次上门服务的默认时长（分钟），
// 按该等级的周服务时长平均分摊到两次服务估算。未知等级按每周 5 小时
// （与 2 级相同）估算，即 150 分钟。
func (l *LevelDefaults) DefaultSessionMinutes(level int) int {
	hours, ok := l.weeklyHours[level]
	if !ok {
		hours = 5
	}
	return hours * 60 / 2
}

// RequiredSkills 返回给定护理等级所需的护理项目标签。
func (l *LevelDefaults) RequiredSkills(level int) []string {
	return l.items[level]
}
