package actors

import (
	"CardBattle/internal/shared/actor/messages"
	"CardBattle/modules/kit/logx"
)

// success 与 fail 是回包构造器，局部变量勿用同名。
func success(data any) *messages.Reply {
	return &messages.Reply{Data: data}
}

func fail(err error) *messages.Reply {
	return &messages.Reply{Err: err}
}

func logOf(d Deps) logx.Logger {
	return logx.OrNop(d.Logger)
}
