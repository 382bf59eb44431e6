package handler

import (
	"context"

	"CardBattle/internal/battle/actor"
	"CardBattle/internal/battle/app"
	"CardBattle/internal/battle/catalogue"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/shared/transport"
	"CardBattle/modules/kit/errx"
	"CardBattle/modules/kit/logx"
)

func mapBizCodeToClientCode(code errx.Code) int {
	switch code {
	case app.CodeBattleNotFound:
		return transport.BattleNotFound
	case domain.CodeInvalidPosition:
		return transport.InvalidPosition
	case domain.CodePositionOccupied, domain.CodeUnitAlreadyPlaced:
		return transport.PositionOccupied
	case domain.CodeUnitNotFound:
		return transport.UnitNotFound
	case domain.CodeNoLivingUnits:
		return transport.NoLivingUnits
	case domain.CodeBattleRunning:
		return transport.BattleRunning
	case domain.CodeBattleNotRunning:
		return transport.BattleNotRunning
	case domain.CodeNoPendingAction:
		return transport.NoPendingAction
	case catalogue.CodeUnknownTemplate, catalogue.CodeUnknownFormation:
		return transport.UnknownUnitTemplate
	default:
		return transport.InvalidParam
	}
}

func mapTechErrToClientCode(err error) int {
	if err == nil {
		return transport.OK
	}
	if errx.CodeOf(err) == errx.CodeTimeout {
		return transport.Timeout
	}
	return actor.CodeFromError(err)
}

// HandleError 错误转客户端业务码和文案，并在接口层打一次日志。
func HandleError(ctx context.Context, l logx.Logger, action string, err error) (int, string) {
	reason := app.GetErrorReasonCode(err)
	if reason != "" {
		transport.SetErrorReason(ctx, reason)
	}
	logx.ReportError(ctx, l, action, err)

	if app.IsBizRejected(err) {
		return mapBizCodeToClientCode(errx.CodeOf(err)), app.GetErrorMessage(err)
	}
	return mapTechErrToClientCode(err), "系统繁忙，请稍后重试"
}
