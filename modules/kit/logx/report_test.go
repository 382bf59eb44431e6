package logx

import (
	"context"
	"errors"
	"testing"

	"CardBattle/modules/kit/errx"
	"CardBattle/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_提取语义与栈(t *testing.T) {
	e := errx.NewSys(errx.CodeIllegalState, "fsm 拒绝事件").
		WithData("event", "resume").
		WithCause(errors.New("event resume inappropriate in state idle"))

	meta := BuildErrorLog(e)
	if meta.Code != string(errx.CodeIllegalState) {
		t.Fatalf("code=%q", meta.Code)
	}
	if !meta.Sys {
		t.Fatalf("期望识别为系统错误")
	}
	if meta.Data["event"] != "resume" {
		t.Fatalf("data=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 || meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 cause 链与栈非空, meta=%+v", meta)
	}
}

func TestReportError_业务错误走info(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportError(context.Background(), l, "battle place unit", errx.NewBiz("BATTLE_POSITION_OCCUPIED", "位置已被占用"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("业务错误应为 INFO, got=%v", entries[0].Level)
	}
	if entries[0].ContextMap()["err_type"] != "biz" {
		t.Fatalf("fields=%v", entries[0].ContextMap())
	}
}

func TestReportError_普通错误走error(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportError(context.Background(), l, "battle actor", errors.New("mailbox closed"))

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("期望 1 条 ERROR 日志, got=%v", entries)
	}
}

func TestZapLogger_WithContext带battle_id(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ctx := tracex.WithBattleID(tracex.WithTraceID(context.Background(), "t-1"), 42)
	l.WithContext(ctx).Info("round changed")

	fields := logs.All()[0].ContextMap()
	if fields["trace_id"] != "t-1" {
		t.Fatalf("trace_id 缺失, fields=%v", fields)
	}
	if fields["battle_id"] != int64(42) {
		t.Fatalf("battle_id 缺失, fields=%v", fields)
	}
}
