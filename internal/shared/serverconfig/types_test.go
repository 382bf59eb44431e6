package serverconfig

import (
	"testing"
	"time"
)

func TestBattleConfig_Normalize_补齐缺省值(t *testing.T) {
	var c BattleConfig
	c.Normalize()
	if c.DefaultMaxRounds != 30 || c.AskTimeout != 3*time.Second || c.EventBuffer != 256 {
		t.Fatalf("got=%+v", c)
	}
	if c.Catalogue != "configs/units.yml" || c.NodeID != 1 {
		t.Fatalf("got=%+v", c)
	}
}

func TestBattleConfig_Normalize_保留显式值(t *testing.T) {
	c := BattleConfig{DefaultMaxRounds: 5, AckDelay: 200 * time.Millisecond, EventBuffer: 8}
	c.Normalize()
	if c.DefaultMaxRounds != 5 || c.AckDelay != 200*time.Millisecond || c.EventBuffer != 8 {
		t.Fatalf("got=%+v", c)
	}
}
