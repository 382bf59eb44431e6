package handler

import (
	"context"

	"CardBattle/internal/battle/actor"
	"CardBattle/internal/battle/actors"
	"CardBattle/internal/battle/app"
	"CardBattle/internal/shared/actor/messages"
	"CardBattle/modules/kit/logx"
)

// Runtime 接口层看到的战斗运行时，由 actor.Runtime 实现。
type Runtime interface {
	Create(ctx context.Context, formation string) (int64, app.Snapshot, error)
	Ask(ctx context.Context, msg messages.BattleMessage) (any, error)
	Snapshot(ctx context.Context, id int64) (app.Snapshot, error)
	Watch(ctx context.Context, id int64) (*actors.Watch, error)
}

// Battle http 与 ws 两个入口共用的依赖。
type Battle struct {
	Runtime Runtime
	Log     logx.Logger
	// EventBuffer 单个 ws 连接的发送缓冲
	EventBuffer int
}

func NewBattle(rt Runtime, l logx.Logger, eventBuffer int) *Battle {
	return &Battle{Runtime: rt, Log: logx.OrNop(l), EventBuffer: eventBuffer}
}

var _ Runtime = (*actor.Runtime)(nil)
