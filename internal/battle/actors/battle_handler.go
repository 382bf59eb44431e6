package actors

import (
	"CardBattle/internal/battle/app"
	"CardBattle/internal/battle/catalogue"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/rotation"
	"CardBattle/internal/shared/actor/messages"
	"CardBattle/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type BattleHandler struct{}

var BH = &BattleHandler{}

// PlaceResult 落位成功后的应答数据。
type PlaceResult struct {
	Unit     domain.UnitView `json:"unit"`
	Strategy string          `json:"strategy"`
}

func (h *BattleHandler) HandleCreateBattle(ctx actor.Context, b *BattleActor, req *messages.CreateBattle) {
	rctx := b.reqContext(req)
	if req.Formation != "" {
		placements, err := b.deps.Catalogue.Deploy(req.Formation)
		if err != nil {
			ctx.Respond(fail(err))
			return
		}
		for _, p := range placements {
			if err := b.ctrl.PlaceWithStrategy(rctx, p.Unit, p.Position, p.Strategy); err != nil {
				ctx.Respond(fail(err))
				return
			}
		}
	}
	b.log.WithContext(rctx).Info("battle created", zap.String("formation", req.Formation))
	ctx.Respond(success(b.ctrl.Snapshot()))
}

func (h *BattleHandler) HandlePlaceUnit(ctx actor.Context, b *BattleActor, req *messages.PlaceUnit) {
	rctx := b.reqContext(req)
	side, valid := domain.ParseSide(req.Side)
	if !valid {
		ctx.Respond(fail(app.ErrInvalidParam.WithData("side", req.Side)))
		return
	}
	pos := domain.NewPosition(side, req.Row, req.Column)
	if req.AutoPosition {
		free, found := b.ctrl.FreePosition(side)
		if !found {
			ctx.Respond(fail(app.ErrPositionOccupied.WithData("side", side.String())))
			return
		}
		pos = free
	}

	u, assignment, err := b.deps.Catalogue.Spawn(req.Template)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	if len(req.Strategies) > 0 {
		a, err := customAssignment(req, b.log.WithContext(rctx))
		if err != nil {
			ctx.Respond(fail(err))
			return
		}
		assignment = &a
	}
	if err := b.ctrl.PlaceWithStrategy(rctx, u, pos, assignment); err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(success(PlaceResult{Unit: u.View(), Strategy: strategyOf(b.ctrl.Snapshot(), u.ID)}))
}

func customAssignment(req *messages.PlaceUnit, l logx.Logger) (rotation.Assignment, error) {
	sc := catalogue.StrategyConfig{RandomizeAfterCycle: req.RandomizeAfterCycle}
	for _, e := range req.Strategies {
		sc.Entries = append(sc.Entries, catalogue.StrategyEntry{Name: e.Name, Uses: e.Uses})
	}
	return sc.Resolve(req.Template, l)
}

func strategyOf(s app.Snapshot, id domain.UnitID) string {
	for _, u := range s.Units {
		if u.ID == id {
			return u.Strategy
		}
	}
	return ""
}

func (h *BattleHandler) HandleRemoveUnit(ctx actor.Context, b *BattleActor, req *messages.RemoveUnit) {
	if err := b.ctrl.RemoveUnit(b.reqContext(req), domain.UnitID(req.UnitID)); err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(success(nil))
}

func (h *BattleHandler) HandleStunUnit(ctx actor.Context, b *BattleActor, req *messages.StunUnit) {
	if err := b.ctrl.Stun(b.reqContext(req), domain.UnitID(req.UnitID), req.Turns); err != nil {
		ctx.Respond(fail(err))
		return
	}
	b.flush(ctx)
	ctx.Respond(success(nil))
}

func (h *BattleHandler) HandleStartBattle(ctx actor.Context, b *BattleActor, req *messages.StartBattle) {
	rounds := req.MaxRounds
	if rounds == 0 {
		rounds = b.deps.Battle.DefaultMaxRounds
	}
	rctx := b.reqContext(req)
	if err := b.ctrl.StartBattle(rctx, rounds); err != nil {
		ctx.Respond(fail(err))
		return
	}
	b.flush(ctx)
	ctx.Respond(success(b.ctrl.Snapshot()))
}

func (h *BattleHandler) HandleStopBattle(ctx actor.Context, b *BattleActor, req *messages.StopBattle) {
	b.stopAckTimer()
	if err := b.ctrl.StopBattle(b.reqContext(req)); err != nil {
		ctx.Respond(fail(err))
		return
	}
	b.flush(ctx)
	ctx.Respond(success(b.ctrl.Snapshot()))
}

func (h *BattleHandler) HandleAckAction(ctx actor.Context, b *BattleActor, req *messages.AckAction) {
	if err := b.ctrl.ActionCompleted(b.reqContext(req)); err != nil {
		ctx.Respond(fail(err))
		return
	}
	b.flush(ctx)
	ctx.Respond(success(b.ctrl.Snapshot()))
}

func (h *BattleHandler) HandleResetBattle(ctx actor.Context, b *BattleActor, req *messages.ResetBattle) {
	b.stopAckTimer()
	if err := b.ctrl.Reset(b.reqContext(req)); err != nil {
		ctx.Respond(fail(err))
		return
	}
	b.flush(ctx)
	ctx.Respond(success(b.ctrl.Snapshot()))
}

func (h *BattleHandler) HandleGetSnapshot(ctx actor.Context, b *BattleActor, req *messages.GetSnapshot) {
	ctx.Respond(success(b.ctrl.Snapshot()))
}

func (h *BattleHandler) HandleWatchBattle(ctx actor.Context, b *BattleActor, req *messages.WatchBattle) {
	ch, cancel := b.hub.Subscribe()
	ctx.Respond(success(&Watch{Events: ch, Cancel: cancel}))
}
