// Package sim 无表现层的批量自动战斗：动作提交后立即确认，统计胜率和伤害分布。
package sim

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"CardBattle/internal/battle/app"
	"CardBattle/internal/battle/catalogue"
	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/event"
	"CardBattle/internal/battle/scheduler"
	"CardBattle/modules/kit/logx"

	"go.uber.org/zap"
)

type Config struct {
	Catalogue *catalogue.Catalogue
	Formation string
	Runs      int
	Workers   int
	Seed      int64
	MaxRounds int
	// KeepEvents 保留每场的完整事件，只建议单场时打开
	KeepEvents bool
	Logger     logx.Logger
}

// Result 单场结果。
type Result struct {
	Seed       int64          `json:"seed"`
	Outcome    domain.Outcome `json:"outcome"`
	FinalRound int            `json:"final_round"`
	Actions    int            `json:"actions"`
	// Damage/Healing 以 名字@站位 为键
	Damage     map[string]int `json:"damage"`
	Healing    map[string]int `json:"healing"`
	Strategies map[string]int `json:"strategies"`
	Crits      int            `json:"crits"`
	Dodges     int            `json:"dodges"`
	Deaths     int            `json:"deaths"`
	Events     []event.Event  `json:"events,omitempty"`
}

type Share struct {
	Total int     `json:"total"`
	Ratio float64 `json:"ratio"`
}

// Summary 批量汇总。
type Summary struct {
	Runs        int              `json:"runs"`
	Formation   string           `json:"formation"`
	Seed        int64            `json:"seed"`
	PlayerWins  int              `json:"player_wins"`
	EnemyWins   int              `json:"enemy_wins"`
	Draws       int              `json:"draws"`
	WinRate     float64          `json:"win_rate"`
	AvgRounds   float64          `json:"avg_rounds"`
	AvgActions  float64          `json:"avg_actions"`
	TotalDamage int              `json:"total_damage"`
	ByUnit      map[string]Share `json:"by_unit"`
	ByStrategy  map[string]int   `json:"by_strategy"`
	Healing     map[string]int   `json:"healing"`
	Crits       int              `json:"crits"`
	Dodges      int              `json:"dodges"`
}

// RunOne 打一场。种子相同、内容相同则结果相同。
func RunOne(ctx context.Context, c *catalogue.Catalogue, formation string, seed int64, maxRounds int, keepEvents bool) (Result, error) {
	rec := &event.Recorder{}
	ctrl := app.NewController(app.Options{
		Rng:    dice.New(seed),
		Tuning: c.Tuning(),
		Sink:   rec,
	})
	placements, err := c.Deploy(formation)
	if err != nil {
		return Result{}, err
	}
	for _, p := range placements {
		if err := ctrl.PlaceWithStrategy(ctx, p.Unit, p.Position, p.Strategy); err != nil {
			return Result{}, err
		}
	}
	if err := ctrl.StartBattle(ctx, maxRounds); err != nil {
		return Result{}, err
	}
	for ctrl.State() == scheduler.StateAwaiting {
		ctrl.Events()
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := ctrl.ActionCompleted(ctx); err != nil {
			return Result{}, err
		}
	}
	ctrl.Events()
	if ctrl.State() != scheduler.StateBattleEnd {
		return Result{}, fmt.Errorf("battle stopped in state %s", ctrl.State())
	}

	res := tally(rec.Events)
	res.Seed = seed
	if keepEvents {
		res.Events = rec.Events
	}
	return res, nil
}

func tally(events []event.Event) Result {
	res := Result{
		Damage:     map[string]int{},
		Healing:    map[string]int{},
		Strategies: map[string]int{},
	}
	for _, e := range events {
		switch v := e.(type) {
		case event.ActionStarted:
			res.Actions++
			res.Strategies[v.Strategy]++
		case event.UnitDamaged:
			res.Damage[unitKey(v.Source)] += v.Amount
			if v.Crit {
				res.Crits++
			}
		case event.UnitHealed:
			res.Healing[unitKey(v.Source)] += v.Amount
		case event.UnitDodged:
			res.Dodges++
		case event.UnitDied:
			res.Deaths++
		case event.BattleEnded:
			res.Outcome = v.Outcome
			res.FinalRound = v.FinalRound
		}
	}
	return res
}

// unitKey 同模板的多个单位按站位区分，例如 Warrior@player(1,0)。
// 单位在战斗中不换位，跨场次同一阵容的键保持一致。
func unitKey(ref domain.UnitRef) string {
	return ref.Name + "@" + ref.Position.String()
}

// Run 在 worker 池上跑 cfg.Runs 场，第 i 场的种子为 Seed+i，与 worker 数无关。
func Run(ctx context.Context, cfg Config) (Summary, []Result, error) {
	if cfg.Catalogue == nil {
		return Summary{}, nil, fmt.Errorf("sim: catalogue is nil")
	}
	if _, ok := cfg.Catalogue.Formation(cfg.Formation); !ok {
		return Summary{}, nil, catalogue.ErrUnknownFormation.WithData("formation", cfg.Formation)
	}
	runs := max(cfg.Runs, 1)
	workers := min(max(cfg.Workers, 1), runs)
	l := logx.OrNop(cfg.Logger)

	results := make([]Result, runs)
	errs := make([]error, runs)
	jobs := make(chan int, runs)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = RunOne(ctx, cfg.Catalogue, cfg.Formation, cfg.Seed+int64(i), cfg.MaxRounds, cfg.KeepEvents)
			}
		}()
	}
	for i := 0; i < runs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			l.Error("sim run failed", zap.Int("run", i), zap.Int64("seed", cfg.Seed+int64(i)), zap.Error(err))
			return Summary{}, nil, err
		}
	}
	s := Summarize(results)
	s.Formation = cfg.Formation
	s.Seed = cfg.Seed
	l.Info("sim finished", zap.Int("runs", s.Runs), zap.Float64("win_rate", s.WinRate), zap.Float64("avg_rounds", s.AvgRounds))
	return s, results, nil
}

func Summarize(results []Result) Summary {
	s := Summary{
		Runs:       len(results),
		ByUnit:     map[string]Share{},
		ByStrategy: map[string]int{},
		Healing:    map[string]int{},
	}
	if len(results) == 0 {
		return s
	}
	damage := map[string]int{}
	rounds, actions := 0, 0
	for _, r := range results {
		switch r.Outcome {
		case domain.PlayerWin:
			s.PlayerWins++
		case domain.EnemyWin:
			s.EnemyWins++
		case domain.Draw:
			s.Draws++
		}
		rounds += r.FinalRound
		actions += r.Actions
		s.Crits += r.Crits
		s.Dodges += r.Dodges
		for k, v := range r.Damage {
			damage[k] += v
			s.TotalDamage += v
		}
		for k, v := range r.Healing {
			s.Healing[k] += v
		}
		for k, v := range r.Strategies {
			s.ByStrategy[k] += v
		}
	}
	n := float64(len(results))
	s.WinRate = float64(s.PlayerWins) / n
	s.AvgRounds = float64(rounds) / n
	s.AvgActions = float64(actions) / n

	names := make([]string, 0, len(damage))
	for k := range damage {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		share := 0.0
		if s.TotalDamage > 0 {
			share = float64(damage[k]) / float64(s.TotalDamage)
		}
		s.ByUnit[k] = Share{Total: damage[k], Ratio: share}
	}
	return s
}
