package app

import (
	"errors"

	"CardBattle/internal/battle/catalogue"
	"CardBattle/internal/battle/domain"
	"CardBattle/modules/kit/errx"
)

// Code 应用层错误码，复用 errx 的统一模型。
type Code = errx.Code

// Error 复用通用错误模型：对外语义(code/msg)、上下文(data)、溯源链(cause)、系统错误一次栈(stack)。
type Error = errx.Error

// NewError 创建业务类错误（不捕获栈）。
func NewError(code Code, msg string) *Error {
	return errx.NewBiz(code, msg)
}

// Wrap 创建系统类错误并挂载 cause。
func Wrap(code Code, msg string, cause error) *Error {
	return errx.NewSys(code, msg).WithCause(cause)
}

// IsBizRejected 报告 err 是否为业务拒绝（可直接回给调用方，不需要告警）。
func IsBizRejected(err error) bool {
	var e *errx.Error
	return errors.As(err, &e) && !e.IsSys()
}

// GetErrorReasonCode 读取错误上挂的 reason。
func GetErrorReasonCode(err error) string {
	var rp interface{ Reason() string }
	if !errors.As(err, &rp) {
		return ""
	}
	return rp.Reason()
}

// GetErrorMessage 读取错误的对外文案。
func GetErrorMessage(err error) string {
	var mp interface{ Msg() string }
	if !errors.As(err, &mp) {
		return ""
	}
	return mp.Msg()
}

const (
	CodeBattleNotFound Code = "BATTLE_NOT_FOUND"
	CodeBattleExists   Code = "BATTLE_EXISTS"
)

// 哨兵错误别名，接口层只依赖 app。
var (
	ErrBattleNotFound   = NewError(CodeBattleNotFound, "战斗不存在")
	ErrBattleExists     = NewError(CodeBattleExists, "战斗已存在")
	ErrInvalidParam     = errx.ErrReqParamERR
	ErrBattleNotRunning = domain.ErrBattleNotRunning
	ErrUnknownTemplate  = catalogue.ErrUnknownTemplate
	ErrUnknownFormation = catalogue.ErrUnknownFormation

	ErrInvalidPosition  = domain.ErrInvalidPosition
	ErrPositionOccupied = domain.ErrPositionOccupied
	ErrUnitNotFound     = domain.ErrUnitNotFound
	ErrNoLivingUnits    = domain.ErrNoLivingUnits
	ErrBattleRunning    = domain.ErrBattleRunning
	ErrNoPendingAction  = domain.ErrNoPendingAction
	ErrInternal         = errx.ErrInternal
)
