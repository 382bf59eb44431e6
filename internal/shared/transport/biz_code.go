package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 对外业务码。0 成功；1~499 客户端/业务拒绝；>=500 服务端错误。
const (
	OK           = 0
	InvalidParam = 1

	BattleNotFound      = 100
	InvalidPosition     = 101
	PositionOccupied    = 102
	UnitNotFound        = 103
	NoLivingUnits       = 104
	BattleRunning       = 105
	BattleNotRunning    = 106
	NoPendingAction     = 107
	UnknownUnitTemplate = 108

	SystemError = 500
	Timeout     = 504
)
