package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是各层共用的最小日志接口：结构化字段 + ctx 透传（trace/battle 等）。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}

// Nop 返回丢弃一切输出的 Logger，测试和未注入日志的组件使用。
func Nop() Logger {
	return NewZapLogger(nil)
}

// OrNop 在 l 为空时兜底为 Nop，构造函数里常用。
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
