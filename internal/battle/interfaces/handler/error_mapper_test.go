package handler

import (
	"context"
	"errors"
	"testing"

	"CardBattle/internal/battle/actor"
	"CardBattle/internal/battle/app"
	"CardBattle/internal/shared/transport"
	"CardBattle/modules/kit/errx"
	"CardBattle/modules/kit/logx"
)

func TestHandleError_业务错误映射业务码(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{app.ErrBattleNotFound, transport.BattleNotFound},
		{app.ErrInvalidPosition.WithData("row", 3), transport.InvalidPosition},
		{app.ErrPositionOccupied, transport.PositionOccupied},
		{app.ErrUnitNotFound, transport.UnitNotFound},
		{app.ErrNoLivingUnits.WithReason(app.ReasonStartRefused), transport.NoLivingUnits},
		{app.ErrBattleRunning.WithReason(app.ReasonPlaceRefused), transport.BattleRunning},
		{app.ErrNoPendingAction.WithReason(app.ReasonStaleAck), transport.NoPendingAction},
		{app.ErrUnknownTemplate, transport.UnknownUnitTemplate},
		{app.ErrInvalidParam, transport.InvalidParam},
	}
	for _, tc := range cases {
		ctx := transport.NewContextWithParent(context.Background(), "test")
		code, msg := HandleError(ctx, logx.Nop(), "test", tc.err)
		if code != tc.want {
			t.Fatalf("%v: code=%d want=%d", tc.err, code, tc.want)
		}
		if msg != app.GetErrorMessage(tc.err) {
			t.Fatalf("%v: msg=%q", tc.err, msg)
		}
	}
}

func TestHandleError_技术错误不暴露细节(t *testing.T) {
	ctx := transport.NewContext("test")

	code, msg := HandleError(ctx, logx.Nop(), "test", &actor.RuntimeError{Code: transport.Timeout, Message: "actor 请求失败"})
	if code != transport.Timeout {
		t.Fatalf("code=%d want=%d", code, transport.Timeout)
	}
	if msg != "系统繁忙，请稍后重试" {
		t.Fatalf("msg=%q", msg)
	}

	code, _ = HandleError(ctx, logx.Nop(), "test", errx.ErrIllegalState.WithReason(app.ReasonStateMachine))
	if code != transport.SystemError {
		t.Fatalf("code=%d want=%d", code, transport.SystemError)
	}
	if al := transport.FromContext(ctx); al == nil || al.ErrorReason != app.ReasonStateMachine.Code {
		t.Fatalf("reason 未写入访问日志: %+v", al)
	}

	code, _ = HandleError(ctx, logx.Nop(), "test", errors.New("boom"))
	if code != transport.SystemError {
		t.Fatalf("code=%d want=%d", code, transport.SystemError)
	}
}
