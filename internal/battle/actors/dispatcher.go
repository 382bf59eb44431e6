package actors

import (
	"reflect"

	"CardBattle/internal/battle/app"
	"CardBattle/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, BH.HandleCreateBattle)
	register(d, BH.HandlePlaceUnit)
	register(d, BH.HandleRemoveUnit)
	register(d, BH.HandleStunUnit)
	register(d, BH.HandleStartBattle)
	register(d, BH.HandleStopBattle)
	register(d, BH.HandleAckAction)
	register(d, BH.HandleResetBattle)
	register(d, BH.HandleGetSnapshot)
	register(d, BH.HandleWatchBattle)
}

func register[Req messages.BattleMessage](
	d *Dispatcher,
	fn func(ctx actor.Context, b *BattleActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}
	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, b *BattleActor, req messages.BattleMessage) {
	if req == nil {
		ctx.Respond(fail(app.ErrInvalidParam))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(app.ErrInvalidParam.WithData("message", bodyType.String())))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(b),
		reflect.ValueOf(req),
	})
}
