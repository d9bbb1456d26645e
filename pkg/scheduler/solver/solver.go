// Package solver 是求解驱动：在 Model Builder 构建的约束模型上搜索一个
// 可行且尽量优的起始时间赋值，语义见规格 §4.5。
//
// 语料里没有任何 CP-SAT/ILP 求解器绑定，这里改用 paiban 的
// pkg/scheduler/optimizer/local_search.go 同款的模拟退火 + 禁忌表局部搜索，
// 把"约束满足优先、目标函数次之"的思路搬到单日活动起始时间的赋值空间上
// （见 DESIGN.md 的 pkg/scheduler/solver 条目）：候选解的代价是硬约束违反数乘以一个大惩罚系数，
// 再减去目标函数值，求解过程始终先把违反数压到 0，然后在可行解之间按
// 目标函数寻优。
package solver

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/paiban/nurseday/pkg/model"
	"github.com/paiban/nurseday/pkg/scheduler/builder"
)

// Status 是求解结果状态，语义见规格 §4.5/§4.7。
type Status string

const (
	StatusOptimal           Status = "OPTIMAL"
	StatusFeasible          Status = "FEASIBLE"
	StatusInfeasible        Status = "INFEASIBLE"
	StatusTimeoutNoSolution Status = "TIMEOUT_NO_SOLUTION"
	StatusUnknown           Status = "UNKNOWN"
)

const (
	defaultMaxTime  = 15 * time.Second
	maxAllowedTime  = 60 * time.Second
)

// Options 是求解驱动的运行参数。
type Options struct {
	MaxIterations    int
	MaxTime          time.Duration
	InitialTemp      float64
	CoolingRate      float64
	TabuSize         int
	NeighborhoodSize int
	StopOnPlateau    bool
	PlateauThreshold int
	Seed             int64
	ViolationPenalty float64
}

// DefaultOptions 返回默认求解参数：15 秒预算、100 初始温度、0.995 冷却率。
func DefaultOptions() Options {
	return Options{
		MaxIterations:    50000,
		MaxTime:          defaultMaxTime,
		InitialTemp:      100.0,
		CoolingRate:      0.995,
		TabuSize:         50,
		NeighborhoodSize: 1,
		StopOnPlateau:    true,
		PlateauThreshold: 800,
		ViolationPenalty: 10000,
	}
}

func normalizeOptions(opts Options) Options {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.MaxTime <= 0 {
		opts.MaxTime = defaultMaxTime
	}
	if opts.MaxTime > maxAllowedTime {
		opts.MaxTime = maxAllowedTime
	}
	if opts.InitialTemp <= 0 {
		opts.InitialTemp = DefaultOptions().InitialTemp
	}
	if opts.CoolingRate <= 0 || opts.CoolingRate >= 1 {
		opts.CoolingRate = DefaultOptions().CoolingRate
	}
	if opts.TabuSize <= 0 {
		opts.TabuSize = DefaultOptions().TabuSize
	}
	if opts.PlateauThreshold <= 0 {
		opts.PlateauThreshold = DefaultOptions().PlateauThreshold
	}
	if opts.ViolationPenalty <= 0 {
		opts.ViolationPenalty = DefaultOptions().ViolationPenalty
	}
	return opts
}

// solver 持有一次求解运行所需的可变状态：随机源与禁忌表。
type solver struct {
	opts Options
	rng  *rand.Rand
	tabu *tabuList
}

func newSolver(opts Options) *solver {
	opts = normalizeOptions(opts)
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &solver{
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
		tabu: newTabuList(opts.TabuSize),
	}
}

// Solve 在给定约束模型上寻找一个赋值，返回赋值、状态与错误。
// err 仅在 ctx 被取消/超时时非 nil；求解预算耗尽本身不是错误，
// 而是反映在返回的 Status 里。
func Solve(ctx context.Context, m *builder.Model, opts Options) (*builder.Assignment, Status, error) {
	s := newSolver(opts)

	start := time.Now()
	current := s.greedyInitial(m)
	best := current.Clone()
	bestCost := s.cost(m, best)

	temperature := s.opts.InitialTemp
	noImprovement := 0
	converged := false
	timedOut := false

	for i := 0; i < s.opts.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return &best, s.classify(m, best, false, false, true), ctx.Err()
		default:
		}

		if time.Since(start) > s.opts.MaxTime {
			timedOut = true
			break
		}

		neighbor, moveKey := s.generateNeighbor(m, current)
		if neighbor == nil {
			continue
		}

		currentCost := s.cost(m, current)
		neighborCost := s.cost(m, *neighbor)

		accept := false
		if neighborCost < currentCost {
			accept = true
		} else if !s.tabu.Contains(moveKey) {
			delta := neighborCost - currentCost
			if s.rng.Float64() < boltzmannProbability(delta, temperature) {
				accept = true
			}
		}

		if accept {
			current = *neighbor
			s.tabu.Add(moveKey)
			if neighborCost < bestCost {
				best = current.Clone()
				bestCost = neighborCost
				noImprovement = 0
			} else {
				noImprovement++
			}
		} else {
			noImprovement++
		}

		if s.opts.StopOnPlateau && noImprovement >= s.opts.PlateauThreshold {
			converged = true
			break
		}

		temperature *= s.opts.CoolingRate
	}

	return &best, s.classify(m, best, converged, timedOut, false), nil
}

func (s *solver) classify(m *builder.Model, best builder.Assignment, converged, timedOut, cancelled bool) Status {
	if m.Feasible(best) {
		if converged {
			return StatusOptimal
		}
		return StatusFeasible
	}
	if cancelled {
		return StatusUnknown
	}
	if timedOut {
		return StatusTimeoutNoSolution
	}
	return StatusInfeasible
}

func (s *solver) cost(m *builder.Model, a builder.Assignment) float64 {
	return float64(m.Violations(a))*s.opts.ViolationPenalty - m.Objective(a)
}

// greedyInitial 按固定时间优先、优先级次之的顺序贪心放置，为局部搜索构造
// 一个起点；放不下且允许缺席的事项标记为缺席，放不下又不允许缺席的事项
// 落在域起点，留给后续迭代腾挪。
func (s *solver) greedyInitial(m *builder.Model) builder.Assignment {
	starts := make(map[string]model.Minute, len(m.Activities))
	present := make(map[string]bool, len(m.Activities))

	order := make([]*model.Activity, len(m.Activities))
	copy(order, m.Activities)
	sort.SliceStable(order, func(i, j int) bool {
		ai, aj := order[i], order[j]
		if ai.IsFixed() != aj.IsFixed() {
			return ai.IsFixed()
		}
		return ai.Priority > aj.Priority
	})

	lunchStart := m.Lunch.PreferredStart
	if lunchStart < m.LunchDomain.Min {
		lunchStart = m.LunchDomain.Min
	}
	if lunchStart > m.LunchDomain.Max {
		lunchStart = m.LunchDomain.Max
	}

	placed := make([]placedInterval, 0, len(order)+1+len(m.Blocks))
	for _, b := range m.Blocks {
		placed = append(placed, placedInterval{start: b.Start, end: b.End})
	}
	placed = append(placed, placedInterval{start: lunchStart, end: lunchStart + m.Lunch.Duration})

	for _, a := range order {
		d := m.Domains[a.ID]
		slot, ok := firstFit(d, a.Duration, placed)
		if !ok {
			if m.MayBeAbsent(a) {
				present[a.ID] = false
				starts[a.ID] = d.Min
				continue
			}
			slot = d.Min
		}
		starts[a.ID] = slot
		present[a.ID] = true
		placed = append(placed, placedInterval{start: slot, end: slot + a.Duration})
	}

	return builder.Assignment{Starts: starts, Present: present, LunchStart: lunchStart}
}

type placedInterval struct {
	start model.Minute
	end   model.Minute
}

// firstFit 在域内从早到晚找第一个不与已放置区间冲突的起始分钟。
func firstFit(d builder.Domain, duration model.Minute, placed []placedInterval) (model.Minute, bool) {
	for t := d.Min; t <= d.Max; t++ {
		end := t + duration
		clash := false
		for _, p := range placed {
			if model.Overlaps(t, end, p.start, p.end) {
				clash = true
				break
			}
		}
		if !clash {
			return t, true
		}
	}
	return 0, false
}

// generateNeighbor 随机选择一种扰动：挪动单个活动、挪动午休、交换两个活动的
// 起始时间，或（放松模式下）切换某活动的在场标志。
func (s *solver) generateNeighbor(m *builder.Model, current builder.Assignment) (*builder.Assignment, uint64) {
	n := len(m.Activities)
	next := current.Clone()

	switch s.rng.Intn(4) {
	case 0:
		if n == 0 {
			return nil, 0
		}
		a := m.Activities[s.rng.Intn(n)]
		d := m.Domains[a.ID]
		if d.Singleton() {
			return nil, 0
		}
		next.Starts[a.ID] = d.Min + model.Minute(s.rng.Intn(int(d.Max-d.Min+1)))
	case 1:
		d := m.LunchDomain
		if d.Singleton() {
			return nil, 0
		}
		next.LunchStart = d.Min + model.Minute(s.rng.Intn(int(d.Max-d.Min+1)))
	case 2:
		if n == 0 {
			return nil, 0
		}
		ai := m.Activities[s.rng.Intn(n)]
		aj := m.Activities[s.rng.Intn(n)]
		if ai.ID == aj.ID || ai.IsFixed() || aj.IsFixed() {
			return nil, 0
		}
		next.Starts[ai.ID], next.Starts[aj.ID] = next.Starts[aj.ID], next.Starts[ai.ID]
	case 3:
		if n == 0 {
			return nil, 0
		}
		a := m.Activities[s.rng.Intn(n)]
		if !m.MayBeAbsent(a) {
			return nil, 0
		}
		next.Present[a.ID] = !next.Present[a.ID]
	}

	return &next, hashAssignment(next)
}

// hashAssignment 用 FNV-1a 给一个候选解算出唯一键，供禁忌表去重。
func hashAssignment(a builder.Assignment) uint64 {
	ids := make([]string, 0, len(a.Starts))
	for id := range a.Starts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := fnv.New64a()
	for _, id := range ids {
		fmt.Fprintf(h, "%s:%d:%t|", id, a.Starts[id], a.Present[id])
	}
	fmt.Fprintf(h, "lunch:%d", a.LunchStart)
	return h.Sum64()
}

// boltzmannProbability 是模拟退火接受较差解的概率；delta 为新旧代价之差。
func boltzmannProbability(delta, temperature float64) float64 {
	if delta <= 0 {
		return 1.0
	}
	if temperature <= 0 {
		return 0.0
	}
	return math.Exp(-delta / temperature)
}
