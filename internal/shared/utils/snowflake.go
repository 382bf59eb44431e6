package utils

import (
	"fmt"
	"sync"
	"time"
)

// 战斗 ID：41 位毫秒时间 | 10 位节点 | 12 位序号，纪元 2024-01-01 UTC。
const (
	battleEpochMilli int64 = 1704067200000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	MaxNodeID int64 = 1<<nodeBits - 1
	maxSeq    int64 = 1<<seqBits - 1
)

type Snowflake struct {
	mu     sync.Mutex
	node   int64
	lastMS int64
	seq    int64
	now    func() int64
}

func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 || node > MaxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range [0,%d]: %d", MaxNodeID, node)
	}
	return &Snowflake{node: node, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

// NextID 同一节点内严格递增；时钟回拨时沿用上一毫秒继续发号。
func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := max(s.now(), s.lastMS)
	if ms == s.lastMS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			for ms <= s.lastMS {
				ms = s.now()
			}
		}
	} else {
		s.seq = 0
	}
	s.lastMS = ms
	return (ms-battleEpochMilli)<<(nodeBits+seqBits) | s.node<<seqBits | s.seq
}

// IDParts 拆开后的战斗 ID，排查日志时用。
type IDParts struct {
	Time time.Time
	Node int64
	Seq  int64
}

func ParseID(id int64) IDParts {
	return IDParts{
		Time: time.UnixMilli(id>>(nodeBits+seqBits) + battleEpochMilli).UTC(),
		Node: id >> seqBits & MaxNodeID,
		Seq:  id & maxSeq,
	}
}
