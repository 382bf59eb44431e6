// Package scheduler 回合调度状态机：每回合重算出手顺序，逐个单位出手，
// 每次动作提交后挂起，等外部 ActionCompleted 再继续。
package scheduler

import (
	"cmp"
	"context"
	"slices"

	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/event"
	"CardBattle/internal/battle/rotation"
	"CardBattle/internal/battle/strategy"
	"CardBattle/modules/kit/errx"
	"CardBattle/modules/kit/logx"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// MaxRoundsLimit 回合上限的硬顶，避免无人能行动时空转过久。
const MaxRoundsLimit = 10000

type Config struct {
	Board  *domain.Board
	Rng    dice.Rng
	Events event.Sink
	Tuning strategy.Tuning
	Logger logx.Logger
}

// Scheduler 不做并发保护，由唯一的控制流（actor / 测试）驱动。
type Scheduler struct {
	machine *fsm.FSM
	bc      *strategy.Context
	rng     dice.Rng
	log     logx.Logger

	assignments map[domain.UnitID]rotation.Assignment
	rotations   map[domain.UnitID]*rotation.Rotation

	round     int
	maxRounds int
	order     []*domain.Unit
	cursor    int
	pending   *domain.Unit
	outcome   domain.Outcome
}

func New(cfg Config) *Scheduler {
	rng := cfg.Rng
	if rng == nil {
		rng = dice.Unseeded()
	}
	board := cfg.Board
	if board == nil {
		board = domain.NewBoard()
	}
	s := &Scheduler{
		bc:          strategy.NewContext(board, rng, cfg.Events, cfg.Tuning),
		rng:         rng,
		log:         logx.OrNop(cfg.Logger),
		assignments: make(map[domain.UnitID]rotation.Assignment),
		rotations:   make(map[domain.UnitID]*rotation.Rotation),
	}
	s.machine = newMachine(func(ctx context.Context, from, to, ev string) {
		s.log.WithContext(ctx).Debug("battle state changed",
			zap.String("from", from), zap.String("to", to), zap.String("event", ev), zap.Int("round", s.round))
	})
	return s
}

func (s *Scheduler) State() State {
	return State(s.machine.Current())
}

func (s *Scheduler) Round() int {
	return s.round
}

func (s *Scheduler) MaxRounds() int {
	return s.maxRounds
}

func (s *Scheduler) Outcome() domain.Outcome {
	return s.outcome
}

func (s *Scheduler) Board() *domain.Board {
	return s.bc.Board
}

// TurnOrder 本回合出手顺序的拷贝。
func (s *Scheduler) TurnOrder() []*domain.Unit {
	return slices.Clone(s.order)
}

// Pending 挂起中等待确认的出手单位。
func (s *Scheduler) Pending() (*domain.Unit, bool) {
	return s.pending, s.pending != nil
}

// ActiveStrategy 单位下一次出手将使用的策略；战斗外按配置给出首个条目。
func (s *Scheduler) ActiveStrategy(u *domain.Unit) strategy.Kind {
	if r, ok := s.rotations[u.ID]; ok {
		return r.Active()
	}
	return s.assignmentFor(u).Entries[0].Kind
}

// Assign 设置单位的策略轮换，战斗进行中不允许修改。
func (s *Scheduler) Assign(id domain.UnitID, a rotation.Assignment) error {
	if s.State().Running() {
		return domain.ErrBattleRunning
	}
	a, err := a.Validate()
	if err != nil {
		return err
	}
	s.assignments[id] = a
	return nil
}

// Forget 移除单位的轮换配置，单位离场时调用。
func (s *Scheduler) Forget(id domain.UnitID) {
	delete(s.assignments, id)
	delete(s.rotations, id)
}

func (s *Scheduler) assignmentFor(u *domain.Unit) rotation.Assignment {
	if a, ok := s.assignments[u.ID]; ok {
		return a
	}
	return rotation.DefaultAssignment(u.Archetype)
}

// Start 任一方没有可出战单位时拒绝开战，状态不变、不发事件。
func (s *Scheduler) Start(ctx context.Context, maxRounds int) error {
	if s.State().Running() {
		return domain.ErrBattleRunning.WithData("state", string(s.State()))
	}
	if maxRounds < 1 || maxRounds > MaxRoundsLimit {
		return errx.ErrReqParamERR.WithData("max_rounds", maxRounds)
	}
	board := s.bc.Board
	for _, side := range []domain.Side{domain.Player, domain.Enemy} {
		if len(board.UnitsOnSide(side)) == 0 {
			return domain.ErrNoLivingUnits.WithData("side", side.String())
		}
	}

	clear(s.rotations)
	for _, u := range board.All() {
		r, err := rotation.New(s.assignmentFor(u), s.rng)
		if err != nil {
			return err
		}
		s.rotations[u.ID] = r
	}
	s.round = 1
	s.maxRounds = maxRounds
	s.outcome = domain.OutcomeNone
	s.order = nil
	s.cursor = 0
	s.pending = nil

	if err := s.fire(ctx, evStart); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("battle started",
		zap.Int("max_rounds", maxRounds),
		zap.Int("player_units", len(board.UnitsOnSide(domain.Player))),
		zap.Int("enemy_units", len(board.UnitsOnSide(domain.Enemy))))
	s.emit(event.RoundChanged{Round: s.round})
	s.computeOrder()
	if err := s.fire(ctx, evBeginTurns); err != nil {
		return err
	}
	return s.advance(ctx)
}

// Stop 随时可调用：立即回到 Idle，丢弃出手顺序和挂起的动作。
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.State() == StateIdle {
		return nil
	}
	if err := s.fire(ctx, evStop); err != nil {
		return err
	}
	s.order = nil
	s.cursor = 0
	s.pending = nil
	clear(s.rotations)
	s.log.WithContext(ctx).Info("battle stopped", zap.Int("round", s.round))
	return nil
}

// ActionCompleted 只在挂起时有效；其余情况返回 ErrNoPendingAction，状态不变。
func (s *Scheduler) ActionCompleted(ctx context.Context) error {
	if s.State() != StateAwaiting || s.pending == nil {
		return domain.ErrNoPendingAction.WithData("state", string(s.State()))
	}
	u := s.pending
	s.pending = nil
	if r, ok := s.rotations[u.ID]; ok {
		r.SelectNext()
	}
	s.cursor++
	if err := s.fire(ctx, evResume); err != nil {
		return err
	}
	if ended, err := s.checkEnd(ctx); ended || err != nil {
		return err
	}
	return s.advance(ctx)
}

// advance 在 UnitTurn 状态下循环推进，直到挂起或战斗结束。
func (s *Scheduler) advance(ctx context.Context) error {
	for {
		if s.cursor >= len(s.order) {
			done, err := s.endRound(ctx)
			if done || err != nil {
				return err
			}
			continue
		}

		u := s.order[s.cursor]
		if !s.bc.Board.Contains(u) || !u.Eligible() {
			s.cursor++
			continue
		}
		if s.takeTurn(ctx, u) {
			s.pending = u
			return s.fire(ctx, evSuspend)
		}
		s.cursor++
		if ended, err := s.checkEnd(ctx); ended || err != nil {
			return err
		}
	}
}

// endRound 回合数加一，先查胜负再查回合上限，然后重算顺序进入下一回合。
func (s *Scheduler) endRound(ctx context.Context) (bool, error) {
	if err := s.fire(ctx, evEndRound); err != nil {
		return true, err
	}
	if ended, err := s.checkEnd(ctx); ended || err != nil {
		return true, err
	}
	if s.round >= s.maxRounds {
		s.log.WithContext(ctx).Info("battle round limit reached", zap.Int("max_rounds", s.maxRounds))
		return true, s.finish(ctx, s.judge(), s.maxRounds)
	}
	s.round++
	if err := s.fire(ctx, evNextRound); err != nil {
		return true, err
	}
	s.computeOrder()
	s.emit(event.RoundChanged{Round: s.round})
	if err := s.fire(ctx, evBeginTurns); err != nil {
		return true, err
	}
	return false, nil
}

// takeTurn 返回 true 表示提交了动作，需要挂起等待确认。
func (s *Scheduler) takeTurn(ctx context.Context, u *domain.Unit) bool {
	ref := u.Ref()
	s.emit(event.TurnStarted{Round: s.round, Unit: ref})

	kind := s.ActiveStrategy(u)
	st := strategy.For(kind)
	if !st.CanExecute(u) {
		if u.Stunned() {
			u.ConsumeStun()
			s.skip(ctx, ref, event.SkipStunned)
			return false
		}
		s.skip(ctx, ref, event.SkipNoEffect)
		return false
	}

	targets := st.FindTargets(s.bc, u)
	if len(targets) == 0 && kind != strategy.Heal {
		s.skip(ctx, ref, event.SkipNoTargets)
		return false
	}
	seq := st.Execute(s.bc, u, targets)
	if seq.Len() == 0 {
		s.skip(ctx, ref, event.SkipNoTargets)
		return false
	}

	planned := seq.Targets()
	refs := make([]domain.UnitRef, len(planned))
	for i, t := range planned {
		refs[i] = t.Ref()
	}
	s.emit(event.ActionStarted{Round: s.round, Unit: ref, Strategy: seq.Kind().String(), Targets: refs})
	if seq.Drain() == 0 {
		s.skip(ctx, ref, event.SkipNoEffect)
		return false
	}
	s.log.WithContext(ctx).Debug("battle action committed",
		zap.String("unit", string(u.ID)), zap.String("strategy", seq.Kind().String()), zap.Int("targets", len(refs)))
	return true
}

func (s *Scheduler) skip(ctx context.Context, ref domain.UnitRef, reason event.SkipReason) {
	s.emit(event.TurnSkipped{Round: s.round, Unit: ref, Reason: reason})
	s.log.WithContext(ctx).Debug("battle turn skipped", zap.String("unit", string(ref.ID)), zap.String("reason", string(reason)))
}

// computeOrder 速度降序；同速按每次重新抽取的随机键排序。
func (s *Scheduler) computeOrder() {
	board := s.bc.Board
	units := append(board.UnitsOnSide(domain.Player), board.UnitsOnSide(domain.Enemy)...)
	keys := make(map[*domain.Unit]float64, len(units))
	for _, u := range units {
		keys[u] = s.rng.Float64()
	}
	slices.SortStableFunc(units, func(a, b *domain.Unit) int {
		if c := cmp.Compare(b.Stats.Speed, a.Stats.Speed); c != 0 {
			return c
		}
		return cmp.Compare(keys[a], keys[b])
	})
	s.order = units
	s.cursor = 0
}

// checkEnd 任一方全灭即结束。
func (s *Scheduler) checkEnd(ctx context.Context) (bool, error) {
	if s.bothAlive() {
		return false, nil
	}
	return true, s.finish(ctx, s.judge(), s.round)
}

// judge 按存活情况判定：双方都有存活为 Draw。
func (s *Scheduler) judge() domain.Outcome {
	board := s.bc.Board
	p := len(board.UnitsOnSide(domain.Player)) > 0
	e := len(board.UnitsOnSide(domain.Enemy)) > 0
	switch {
	case p && !e:
		return domain.PlayerWin
	case e && !p:
		return domain.EnemyWin
	default:
		return domain.Draw
	}
}

func (s *Scheduler) bothAlive() bool {
	board := s.bc.Board
	return len(board.UnitsOnSide(domain.Player)) > 0 && len(board.UnitsOnSide(domain.Enemy)) > 0
}

func (s *Scheduler) finish(ctx context.Context, outcome domain.Outcome, finalRound int) error {
	if err := s.fire(ctx, evFinish); err != nil {
		return err
	}
	s.outcome = outcome
	s.order = nil
	s.cursor = 0
	s.pending = nil
	s.emit(event.BattleEnded{Outcome: outcome, FinalRound: finalRound})
	s.log.WithContext(ctx).Info("battle ended", zap.String("outcome", outcome.String()), zap.Int("final_round", finalRound))
	return nil
}

func (s *Scheduler) emit(e event.Event) {
	if s.bc.Events != nil {
		s.bc.Events.Emit(e)
	}
}

// fire 状态机拒绝的迁移属于程序错误，按系统错误上抛。
func (s *Scheduler) fire(ctx context.Context, ev string) error {
	from := s.machine.Current()
	if err := s.machine.Event(ctx, ev); err != nil {
		return errx.ErrIllegalState.
			WithData("event", ev).
			WithData("state", from).
			WithCause(err)
	}
	return nil
}
