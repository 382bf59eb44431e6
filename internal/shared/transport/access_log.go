package transport

import (
	"context"
	"time"

	"CardBattle/modules/kit/logx"
	"CardBattle/modules/kit/tracex"

	"go.uber.org/zap"
)

type Protocol string

const (
	ProtoHTTP Protocol = "http"
	ProtoWS   Protocol = "ws"
)

// AccessLog 一次请求（HTTP 请求或一条 WS 消息）的访问记录，handler 沿 ctx 回填。
type AccessLog struct {
	Protocol    Protocol
	Action      string
	BizCode     BizCode
	ErrorReason string
	BattleID    int64
	Status      int
	start       time.Time
}

type accessLogKey struct{}

func NewContext(action string) context.Context {
	return NewRequestContext(context.Background(), ProtoHTTP, action)
}

// NewContextWithParent 保留 parent 的取消与超时。
func NewContextWithParent(parent context.Context, action string) context.Context {
	return NewRequestContext(parent, ProtoHTTP, action)
}

// NewRequestContext 挂上 AccessLog 和新的 trace_id，未回填业务码前视为系统错误。
func NewRequestContext(parent context.Context, proto Protocol, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := parent
	if traceID := tracex.NewTraceID(); traceID != "" {
		ctx = tracex.WithTraceID(ctx, traceID)
	}
	ctx = tracex.WithSpanID(ctx, string(proto))
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		Protocol: proto,
		Action:   action,
		BizCode:  BizCode(SystemError),
		start:    time.Now(),
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WithBattle 标记请求所属战斗：访问日志和后续业务日志都带 battle_id。
func WithBattle(ctx context.Context, battleID int64) context.Context {
	if al := FromContext(ctx); al != nil {
		al.BattleID = battleID
	}
	return tracex.WithBattleID(ctx, battleID)
}

func SetStatus(ctx context.Context, status int) {
	if al := FromContext(ctx); al != nil {
		al.Status = status
	}
}

// WriteAccessLog 在中间件或 ws 分发的 defer 里调用，每个请求只写一次。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	fields := []zap.Field{
		zap.String("proto", string(al.Protocol)),
		zap.Duration("latency", time.Since(al.start)),
	}
	if al.Status != 0 {
		fields = append(fields, zap.Int("status", al.Status))
	}
	if _, inCtx := tracex.BattleIDFrom(ctx); !inCtx && al.BattleID != 0 {
		fields = append(fields, zap.Int64("battle_id", al.BattleID))
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.Action, int(al.BizCode), fields...)
}
