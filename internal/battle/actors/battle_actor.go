package actors

import (
	"context"
	"time"

	"CardBattle/internal/battle/app"
	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/event"
	"CardBattle/internal/battle/scheduler"
	"CardBattle/internal/shared/actor/messages"
	"CardBattle/internal/shared/utils"
	"CardBattle/modules/kit/errx"
	"CardBattle/modules/kit/logx"
	"CardBattle/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Online
	Stopping
	Offline
)

// BattleActor 一场战斗一个 actor，邮箱串行化全部命令，Controller 无需加锁。
type BattleActor struct {
	state      State
	id         BattleID
	deps       Deps
	ctrl       *app.Controller
	hub        *event.Hub
	dispatcher *Dispatcher
	log        logx.Logger

	ackToken uint64
	ackTimer *time.Timer
}

// autoAck 自动确认的定时消息，token 过期即丢弃。
type autoAck struct {
	token uint64
}

func (autoAck) NotInfluenceReceiveTimeout() {}

// Watch 订阅句柄，Cancel 后 Events 关闭。
type Watch struct {
	Events <-chan event.Envelope
	Cancel func()
}

func NewBattleActor(id BattleID, deps Deps) *BattleActor {
	return &BattleActor{
		state:      None,
		id:         id,
		deps:       deps,
		dispatcher: NewDispatcher(),
		log:        logOf(deps),
	}
}

func (b *BattleActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		b.init()
		return
	case *actor.Stopping:
		b.stopAckTimer()
		if b.hub != nil {
			b.hub.Close()
		}
		b.state = Stopping
		return
	case *actor.Stopped:
		b.state = Offline
		return
	case *actor.Restarting:
		b.stopAckTimer()
		b.state = None
		return
	case autoAck:
		b.onAutoAck(ctx, msg)
		return
	case messages.BattleMessage:
		if msg == nil {
			ctx.Respond(fail(app.ErrInvalidParam))
			return
		}
		if b.state != Online {
			ctx.Respond(fail(errx.ErrUnavailable.WithData("battle_id", b.id)))
			return
		}
		b.dispatcher.Dispatch(ctx, b, msg)
	default:
		return
	}
}

func (b *BattleActor) init() {
	// 配置种子为 0 表示不固定种子
	rng := dice.Unseeded()
	if seed := b.deps.Battle.Seed; seed != 0 {
		rng = dice.New(seed + b.id)
	}
	tuning := b.deps.Catalogue.Tuning()
	b.ctrl = app.NewController(app.Options{
		Rng:    rng,
		Tuning: tuning,
		Logger: b.log,
	})
	b.hub = event.NewHub(b.deps.Battle.EventBuffer, b.log)
	b.state = Online
	parts := utils.ParseID(b.id)
	b.log.Debug("battle actor online", zap.Int64("battle_id", b.id),
		zap.Int64("node", parts.Node), zap.Time("issued_at", parts.Time))
}

// reqContext 把请求上的 trace 和战斗 id 放进 ctx，供日志取用。
func (b *BattleActor) reqContext(msg messages.BattleMessage) context.Context {
	ctx := tracex.WithBattleID(context.Background(), b.id)
	if t := msg.Trace(); t != "" {
		ctx = tracex.WithTraceID(ctx, t)
	}
	return ctx
}

// flush 取走控制器的事件，盖上战斗 id 后扇出；出现新的挂起动作时安排自动确认。
func (b *BattleActor) flush(actx actor.Context) {
	batch := b.ctrl.Events()
	if len(batch) == 0 {
		return
	}
	started := false
	for i := range batch {
		batch[i].BattleID = b.id
		if batch[i].Type == event.TypeActionStarted {
			started = true
		}
	}
	b.hub.Publish(batch...)
	if started && b.deps.Battle.AutoAck && b.ctrl.State() == scheduler.StateAwaiting {
		b.scheduleAck(actx)
	}
}

func (b *BattleActor) scheduleAck(actx actor.Context) {
	b.stopAckTimer()
	b.ackToken++
	token := b.ackToken
	self := actx.Self()
	root := actx.ActorSystem().Root
	b.ackTimer = time.AfterFunc(b.deps.Battle.AckDelay, func() {
		root.Send(self, autoAck{token: token})
	})
}

func (b *BattleActor) stopAckTimer() {
	if b.ackTimer == nil {
		return
	}
	b.ackTimer.Stop()
	b.ackTimer = nil
}

func (b *BattleActor) onAutoAck(actx actor.Context, msg autoAck) {
	if b.state != Online || msg.token != b.ackToken || b.ctrl.State() != scheduler.StateAwaiting {
		return
	}
	b.ackTimer = nil
	ctx := tracex.WithBattleID(context.Background(), b.id)
	if err := b.ctrl.ActionCompleted(ctx); err != nil {
		logx.ReportError(ctx, b.log, "battle.auto_ack", err)
	}
	b.flush(actx)
}

func (b *BattleActor) ID() BattleID {
	return b.id
}

func (b *BattleActor) Controller() *app.Controller {
	return b.ctrl
}

func (b *BattleActor) Hub() *event.Hub {
	return b.hub
}
