package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 业务拒绝 reason，接口层据此映射客户端业务码。
	ReasonPlaceRefused    = NewReason("BATTLE_PLACE_REFUSED", "战斗进行中不能调整站位")
	ReasonStartRefused    = NewReason("BATTLE_START_REFUSED", "开战条件不满足")
	ReasonStaleAck        = NewReason("BATTLE_STALE_ACK", "过期的动作确认")
	ReasonStrategyRefused = NewReason("BATTLE_STRATEGY_REFUSED", "战斗进行中不能修改策略")
)

var (
	// 技术错误 reason，用于日志与排障。
	ReasonStateMachine = NewReason("BATTLE_STATE_MACHINE", "战斗状态机迁移失败")
)
