package utils

import (
	"testing"
	"time"
)

func TestSnowflake_单调递增(t *testing.T) {
	s, err := NewSnowflake(3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	prev := s.NextID()
	for i := 0; i < 5000; i++ {
		id := s.NextID()
		if id <= prev {
			t.Fatalf("id 未递增: prev=%d id=%d", prev, id)
		}
		prev = id
	}
}

func TestNewSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(MaxNodeID + 1); err == nil {
		t.Fatalf("期望节点越界报错")
	}
	if _, err := NewSnowflake(-1); err == nil {
		t.Fatalf("期望负数节点报错")
	}
}

func TestSnowflake_时钟回拨不回退(t *testing.T) {
	s, _ := NewSnowflake(7)
	clock := int64(1735689600000)
	s.now = func() int64 { return clock }

	a := s.NextID()
	clock -= 50
	b := s.NextID()
	if b <= a {
		t.Fatalf("回拨后 id 回退: a=%d b=%d", a, b)
	}
	if p := ParseID(b); p.Seq != 1 || p.Node != 7 {
		t.Fatalf("回拨期间应沿用上一毫秒递增序号: %+v", p)
	}
}

func TestParseID(t *testing.T) {
	s, _ := NewSnowflake(42)
	ms := int64(1735689600123)
	s.now = func() int64 { return ms }

	s.NextID()
	p := ParseID(s.NextID())
	if p.Node != 42 || p.Seq != 1 {
		t.Fatalf("unexpected parts: %+v", p)
	}
	if !p.Time.Equal(time.UnixMilli(ms)) {
		t.Fatalf("time = %v", p.Time)
	}
}
