// nurseday 是单日排班核心的命令行入口：读取一份请求 JSON 文件，调用
// schedule.Optimize，把结果信封打印到标准输出。
//
// 教师仓库的 cmd/server 暴露的是一个长驻 HTTP 服务；这里把同样的启动期
// 日志/请求 id texture 搬到一次性命令上（规格 §1 将传输层列为 out of
// scope，见 SPEC_FULL.md §1 与 DESIGN.md "cmd/nurseday" 条目），命令树与
// flag 风格借鉴 abramin-kairos 的 cobra 用法。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paiban/nurseday/internal/config"
	"github.com/paiban/nurseday/pkg/careplan"
	"github.com/paiban/nurseday/pkg/logger"
	"github.com/paiban/nurseday/pkg/oracle"
	"github.com/paiban/nurseday/pkg/schedule"
	"github.com/paiban/nurseday/pkg/scheduler/solver"
)

// Version 由构建时 ldflags 注入，缺省为开发版本标记。
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "nurseday",
		Short:   "单日排班核心命令行工具",
		Version: Version,
	}
	root.AddCommand(newOptimizeCmd())
	return root
}

func newOptimizeCmd() *cobra.Command {
	var (
		inputPath     string
		budget        time.Duration
		relaxOptional bool
		seed          int64
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "对一份请求 JSON 求解单日排班，把结果信封打印到标准输出",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(inputPath, budget, relaxOptional, seed)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "请求 JSON 文件路径（必填）")
	cmd.Flags().DurationVar(&budget, "budget", 0, "求解时间预算，0 表示使用配置中的默认超时")
	cmd.Flags().BoolVar(&relaxOptional, "relax-optional", false, "允许非固定、非警报事项在无法排入时缺席（记入 unachievableItems），而不是让整次求解失败")
	cmd.Flags().Int64Var(&seed, "seed", 0, "模拟退火随机种子，0 表示使用配置中的种子")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runOptimize(inputPath string, budget time.Duration, relaxOptional bool, seed int64) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logger.Init(logger.Config{Level: cfg.App.LogLevel, Format: "console", Output: "stderr"})

	requestID := uuid.New().String()
	log := logger.WithField("request_id", requestID)
	log.Info().Str("input", inputPath).Msg("读取排班请求")

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("读取请求文件失败: %w", err)
	}

	var req schedule.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("解析请求 JSON 失败: %w", err)
	}

	if budget <= 0 {
		budget = cfg.Scheduler.DefaultTimeout
	}
	if budget > cfg.Scheduler.MaxTimeout {
		budget = cfg.Scheduler.MaxTimeout
	}
	if seed == 0 {
		seed = cfg.Scheduler.SolverSeed
	}

	solverOpts := solver.DefaultOptions()
	solverOpts.MaxTime = budget
	solverOpts.Seed = seed

	opts := schedule.Options{
		SolverOptions: solverOpts,
		RelaxOptional: relaxOptional,
	}

	ctx, cancel := context.WithTimeout(context.Background(), budget+5*time.Second)
	defer cancel()

	envelope, err := schedule.Optimize(ctx, req, oracle.NewDefaultOracle(), careplan.NewLevelDefaults(), opts)
	if err != nil {
		log.Error().Err(err).Msg("排班求解失败")
		return err
	}

	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化结果信封失败: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
