// Package app 战斗控制器：对外暴露站位、开战、停战、动作确认等入口，
// 内部持有棋盘、调度器和事件队列。
package app

import (
	"context"
	"errors"

	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/event"
	"CardBattle/internal/battle/rotation"
	"CardBattle/internal/battle/scheduler"
	"CardBattle/internal/battle/strategy"
	"CardBattle/modules/kit/errx"
	"CardBattle/modules/kit/logx"

	"go.uber.org/zap"
)

type Options struct {
	Rng    dice.Rng
	Tuning strategy.Tuning
	Logger logx.Logger
	// Sink 额外的事件出口（例如批量模拟的统计），与内部队列同时写入
	Sink event.Sink
}

// Controller 单场战斗的门面，不做并发保护，由 actor 串行调用。
type Controller struct {
	board *domain.Board
	queue *event.Queue
	sink  event.Sink
	sched *scheduler.Scheduler
	log   logx.Logger
}

func NewController(opts Options) *Controller {
	board := domain.NewBoard()
	queue := event.NewQueue()
	var sink event.Sink = queue
	if opts.Sink != nil {
		sink = event.Tee{queue, opts.Sink}
	}
	l := logx.OrNop(opts.Logger)
	return &Controller{
		board: board,
		queue: queue,
		sink:  sink,
		sched: scheduler.New(scheduler.Config{
			Board:  board,
			Rng:    opts.Rng,
			Events: sink,
			Tuning: opts.Tuning,
			Logger: l,
		}),
		log: l,
	}
}

// PlaceUnit 只在战斗外允许。
func (c *Controller) PlaceUnit(ctx context.Context, u *domain.Unit, pos domain.Position) error {
	if c.sched.State().Running() {
		return ErrBattleRunning.WithReason(ReasonPlaceRefused)
	}
	if err := c.board.Place(u, pos); err != nil {
		return err
	}
	c.log.WithContext(ctx).Debug("battle unit placed", zap.String("unit", string(u.ID)), zap.String("position", pos.String()))
	return nil
}

// PlaceWithStrategy 站位并设置轮换；轮换非法时撤回站位。
func (c *Controller) PlaceWithStrategy(ctx context.Context, u *domain.Unit, pos domain.Position, a *rotation.Assignment) error {
	if err := c.PlaceUnit(ctx, u, pos); err != nil {
		return err
	}
	if a == nil {
		return nil
	}
	if err := c.sched.Assign(u.ID, *a); err != nil {
		c.board.Remove(u)
		return err
	}
	return nil
}

func (c *Controller) RemoveUnit(ctx context.Context, id domain.UnitID) error {
	if c.sched.State().Running() {
		return ErrBattleRunning.WithReason(ReasonPlaceRefused)
	}
	u, ok := c.board.Unit(id)
	if !ok {
		return ErrUnitNotFound.WithData("unit_id", string(id))
	}
	c.board.Remove(u)
	c.sched.Forget(id)
	c.log.WithContext(ctx).Debug("battle unit removed", zap.String("unit", string(id)))
	return nil
}

func (c *Controller) AssignStrategies(ctx context.Context, id domain.UnitID, a rotation.Assignment) error {
	if _, ok := c.board.Unit(id); !ok {
		return ErrUnitNotFound.WithData("unit_id", string(id))
	}
	if err := c.sched.Assign(id, a); err != nil {
		if errx.CodeOf(err) == domain.CodeBattleRunning {
			return ErrBattleRunning.WithReason(ReasonStrategyRefused)
		}
		return err
	}
	return nil
}

func (c *Controller) StartBattle(ctx context.Context, maxRounds int) error {
	if err := c.sched.Start(ctx, maxRounds); err != nil {
		return c.annotate(err, ReasonStartRefused)
	}
	return nil
}

// StopBattle 随时可调用，挂起中的动作确认随之作废。
func (c *Controller) StopBattle(ctx context.Context) error {
	return c.annotate(c.sched.Stop(ctx), nil)
}

func (c *Controller) ActionCompleted(ctx context.Context) error {
	if err := c.sched.ActionCompleted(ctx); err != nil {
		return c.annotate(err, ReasonStaleAck)
	}
	return nil
}

// Stun 让单位跳过接下来的 turns 次出手。
func (c *Controller) Stun(ctx context.Context, id domain.UnitID, turns int) error {
	u, ok := c.board.Unit(id)
	if !ok {
		return ErrUnitNotFound.WithData("unit_id", string(id))
	}
	if turns < 1 {
		return errx.ErrReqParamERR.WithData("turns", turns)
	}
	if !u.Alive() {
		return ErrUnitNotFound.WithData("unit_id", string(id)).WithData("alive", false)
	}
	u.Stun(turns)
	c.sink.Emit(event.UnitStunned{Unit: u.Ref(), Turns: u.StunTurns})
	c.log.WithContext(ctx).Debug("battle unit stunned", zap.String("unit", string(id)), zap.Int("turns", u.StunTurns))
	return nil
}

// Reset 停战并清空棋盘。
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.StopBattle(ctx); err != nil {
		return err
	}
	for _, u := range c.board.All() {
		c.sched.Forget(u.ID)
	}
	c.board.Clear()
	return nil
}

// Events 取走自上次调用以来的全部事件。
func (c *Controller) Events() []event.Envelope {
	return c.queue.Drain()
}

func (c *Controller) State() scheduler.State {
	return c.sched.State()
}

func (c *Controller) Unit(id domain.UnitID) (*domain.Unit, bool) {
	return c.board.Unit(id)
}

// FreePosition 某方第一个空位。
func (c *Controller) FreePosition(side domain.Side) (domain.Position, bool) {
	return c.board.FreePosition(side)
}

func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:     c.sched.State(),
		Round:     c.sched.Round(),
		MaxRounds: c.sched.MaxRounds(),
		Outcome:   c.sched.Outcome(),
	}
	for _, u := range c.board.All() {
		v := UnitState{UnitView: u.View(), Strategy: c.sched.ActiveStrategy(u).String()}
		snap.Units = append(snap.Units, v)
	}
	for _, u := range c.sched.TurnOrder() {
		snap.TurnOrder = append(snap.TurnOrder, u.ID)
	}
	if u, ok := c.sched.Pending(); ok {
		id := u.ID
		snap.Pending = &id
	}
	return snap
}

// annotate 业务错误补上 reason；状态机错误挂技术 reason。
func (c *Controller) annotate(err error, reason errx.Reason) error {
	if err == nil {
		return nil
	}
	var e *errx.Error
	if !errors.As(err, &e) {
		return Wrap(errx.CodeInternal, "战斗内部错误", err)
	}
	if e.IsSys() {
		return e.WithReason(ReasonStateMachine)
	}
	if reason != nil && e.Reason() == "" {
		return e.WithReason(reason)
	}
	return e
}
