package domain

import "CardBattle/modules/kit/errx"

type Code = errx.Code

const (
	CodeInvalidPosition    Code = "BATTLE_INVALID_POSITION"
	CodePositionOccupied   Code = "BATTLE_POSITION_OCCUPIED"
	CodeInvalidUnit        Code = "BATTLE_INVALID_UNIT"
	CodeUnitAlreadyPlaced  Code = "BATTLE_UNIT_ALREADY_PLACED"
	CodeUnitNotFound       Code = "BATTLE_UNIT_NOT_FOUND"
	CodeNoLivingUnits      Code = "BATTLE_NO_LIVING_UNITS"
	CodeBattleRunning      Code = "BATTLE_RUNNING"
	CodeBattleNotRunning   Code = "BATTLE_NOT_RUNNING"
	CodeNoPendingAction    Code = "BATTLE_NO_PENDING_ACTION"
	CodeUnknownStrategy    Code = "BATTLE_UNKNOWN_STRATEGY"
	CodeInvalidStrategySet Code = "BATTLE_INVALID_STRATEGY_SET"
)

// 哨兵错误，通过 WithData 派生，不要直接修改。
var (
	ErrInvalidPosition    = errx.NewBiz(CodeInvalidPosition, "站位非法")
	ErrPositionOccupied   = errx.NewBiz(CodePositionOccupied, "位置已被占用")
	ErrInvalidUnit        = errx.NewBiz(CodeInvalidUnit, "单位无效")
	ErrUnitAlreadyPlaced  = errx.NewBiz(CodeUnitAlreadyPlaced, "单位已在棋盘上")
	ErrUnitNotFound       = errx.NewBiz(CodeUnitNotFound, "单位不存在")
	ErrNoLivingUnits      = errx.NewBiz(CodeNoLivingUnits, "一方没有可出战单位")
	ErrBattleRunning      = errx.NewBiz(CodeBattleRunning, "战斗进行中")
	ErrBattleNotRunning   = errx.NewBiz(CodeBattleNotRunning, "战斗未开始")
	ErrNoPendingAction    = errx.NewBiz(CodeNoPendingAction, "没有等待确认的动作")
	ErrUnknownStrategy    = errx.NewBiz(CodeUnknownStrategy, "未知策略")
	ErrInvalidStrategySet = errx.NewBiz(CodeInvalidStrategySet, "策略轮换配置为空")
)
