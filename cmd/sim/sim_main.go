package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"CardBattle/internal/battle/catalogue"
	"CardBattle/internal/battle/sim"
	"CardBattle/internal/shared/logs"
	"CardBattle/internal/shared/serverconfig"
	"CardBattle/modules/kit/logx"

	"go.uber.org/zap"
)

func main() {
	var cataloguePath, formation, out, level string
	var seed int64
	var n, workers, rounds int
	var saveLog bool
	flag.StringVar(&cataloguePath, "catalogue", "configs/units.yml", "unit catalogue file")
	flag.StringVar(&formation, "formation", "test_roster", "formation name")
	flag.StringVar(&out, "out", "sim.json", "output file (single result or batch summary)")
	flag.StringVar(&level, "level", "info", "log level")
	flag.Int64Var(&seed, "seed", 12345, "base seed, run i uses seed+i")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&workers, "workers", runtime.NumCPU(), "worker count")
	flag.IntVar(&rounds, "rounds", 30, "max rounds per battle")
	flag.BoolVar(&saveLog, "log", true, "save full event log when n==1")
	flag.Parse()

	if err := logs.Init("sim", serverconfig.LogConfig{Level: level}); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	l := logx.NewZapLogger(logs.L())

	content, err := catalogue.Load(cataloguePath, l)
	if err != nil {
		logs.Fatal("load catalogue failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if n <= 1 {
		res, err := sim.RunOne(ctx, content, formation, seed, rounds, saveLog)
		if err != nil {
			logs.Fatal("simulation failed", zap.Error(err))
		}
		write(out, res)
		fmt.Printf("Single sim finished. Outcome=%s, Rounds=%d, Actions=%d -> %s\n", res.Outcome, res.FinalRound, res.Actions, out)
		return
	}

	summary, _, err := sim.Run(ctx, sim.Config{
		Catalogue: content,
		Formation: formation,
		Runs:      n,
		Workers:   workers,
		Seed:      seed,
		MaxRounds: rounds,
		Logger:    l,
	})
	if err != nil {
		logs.Fatal("simulation failed", zap.Error(err))
	}
	write(out, summary)
	fmt.Printf("Batch sim finished. Runs=%d, WinRate=%.3f, AvgRounds=%.2f -> %s\n", summary.Runs, summary.WinRate, summary.AvgRounds, out)
}

func write(path string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logs.Fatal("marshal result failed", zap.Error(err))
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		logs.Fatal("write result failed", zap.String("path", path), zap.Error(err))
	}
}
