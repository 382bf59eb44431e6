package catalogue

import "CardBattle/modules/kit/errx"

const (
	CodeUnknownTemplate  errx.Code = "BATTLE_UNKNOWN_TEMPLATE"
	CodeUnknownFormation errx.Code = "BATTLE_UNKNOWN_FORMATION"
)

var (
	ErrUnknownTemplate  = errx.NewBiz(CodeUnknownTemplate, "未知单位模板")
	ErrUnknownFormation = errx.NewBiz(CodeUnknownFormation, "未知阵容")
)
