package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestBattleID_零值视为缺失(t *testing.T) {
	ctx := WithBattleID(context.Background(), 0)
	if _, ok := BattleIDFrom(ctx); ok {
		t.Fatalf("battle_id=0 不应视为存在")
	}
	ctx = WithBattleID(context.Background(), 7)
	if got, ok := BattleIDFrom(ctx); !ok || got != 7 {
		t.Fatalf("got=%d ok=%v", got, ok)
	}
}

func TestNewTraceID_长度(t *testing.T) {
	if got := NewTraceID(); len(got) != 32 {
		t.Fatalf("期望 32 位 hex, got=%q", got)
	}
}
