package strategy

import (
	"CardBattle/internal/battle/damage"
	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/event"
)

// Context 一场战斗的显式句柄，策略只通过它访问棋盘、随机数和事件出口。
type Context struct {
	Board    *domain.Board
	Resolver *damage.Resolver
	Rng      dice.Rng
	Events   event.Sink
	Tuning   Tuning
}

func NewContext(board *domain.Board, rng dice.Rng, sink event.Sink, tuning Tuning) *Context {
	return &Context{
		Board:    board,
		Resolver: damage.NewResolver(rng),
		Rng:      rng,
		Events:   sink,
		Tuning:   tuning.Normalize(),
	}
}

func (bc *Context) emit(e event.Event) {
	if bc.Events != nil {
		bc.Events.Emit(e)
	}
}
