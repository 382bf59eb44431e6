package actors

import (
	"CardBattle/internal/battle/app"
	"CardBattle/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type BattleID = int64

// ManagerActor 只做路由和子 actor 生命周期，不碰战斗状态。
type ManagerActor struct {
	deps    Deps
	battles map[BattleID]*actor.PID
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		deps:    deps,
		battles: make(map[BattleID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *messages.CreateBattle:
		if msg == nil || msg.BattleID() <= 0 {
			ctx.Respond(fail(app.ErrInvalidParam.WithData("battle_id", 0)))
			return
		}
		if _, ok := m.battles[msg.BattleID()]; ok {
			ctx.Respond(fail(app.ErrBattleExists.WithData("battle_id", msg.BattleID())))
			return
		}
		ctx.Forward(m.spawn(ctx, msg.BattleID()))
	case *messages.CloseBattle:
		if msg == nil {
			ctx.Respond(fail(app.ErrInvalidParam))
			return
		}
		pid, found := m.battles[msg.BattleID()]
		if !found {
			ctx.Respond(fail(app.ErrBattleNotFound.WithData("battle_id", msg.BattleID())))
			return
		}
		delete(m.battles, msg.BattleID())
		ctx.Stop(pid)
		logOf(m.deps).Info("battle closed", zap.Int64("battle_id", msg.BattleID()))
		ctx.Respond(success(nil))
	case messages.BattleMessage:
		if msg == nil {
			ctx.Respond(fail(app.ErrInvalidParam))
			return
		}
		pid, found := m.battles[msg.BattleID()]
		if !found {
			ctx.Respond(fail(app.ErrBattleNotFound.WithData("battle_id", msg.BattleID())))
			return
		}
		ctx.Forward(pid)
	default:
		return
	}
}

func (m *ManagerActor) spawn(ctx actor.Context, id BattleID) *actor.PID {
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewBattleActor(id, m.deps)
	})
	pid := ctx.Spawn(props)
	m.battles[id] = pid
	return pid
}

// Battles 当前存活的战斗数量。
func (m *ManagerActor) Battles() int {
	return len(m.battles)
}
