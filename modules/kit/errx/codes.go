package errx

// 跨包共用的系统类错误码。
//
// 战斗域自己的业务码（站位非法、位置被占等）定义在 internal/battle/domain，
// 这里只放技术类兜底。

const (
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（actor 未启动、配置缺失等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeTimeout     Code = "TIMEOUT"
	// CodeIllegalState 状态机收到当前状态不允许的事件。
	CodeIllegalState  Code = "ILLEGAL_STATE"
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

var (
	ErrInternal     = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable  = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout      = NewSys(CodeTimeout, "请求超时")
	ErrIllegalState = NewSys(CodeIllegalState, "非法状态迁移")
	ErrReqParamERR  = NewBiz(CodeReqParamError, "请求参数错误")
)
