package strategy

import (
	"time"

	"CardBattle/internal/battle/domain"
)

// effect 对单个目标结算，返回是否真正产生了效果（发出了事件）。
type effect func(bc *Context, actor, target *domain.Unit, delay time.Duration) bool

type step struct {
	target *domain.Unit
	delay  time.Duration
	apply  effect
}

// Sequence 一次出手的惰性步骤序列：有限、只能向前走一遍。
// 每步执行前重新校验目标，目标已阵亡或离场则跳过。
type Sequence struct {
	kind      Kind
	bc        *Context
	actor     *domain.Unit
	steps     []step
	next      int
	committed int
}

func newSequence(kind Kind, bc *Context, actor *domain.Unit) *Sequence {
	return &Sequence{kind: kind, bc: bc, actor: actor}
}

func (s *Sequence) add(target *domain.Unit, delay time.Duration, apply effect) {
	s.steps = append(s.steps, step{target: target, delay: delay, apply: apply})
}

// Kind 实际执行的策略，治疗回退时为 Basic。
func (s *Sequence) Kind() Kind {
	return s.kind
}

func (s *Sequence) Actor() *domain.Unit {
	return s.actor
}

// Targets 计划中的目标，按步骤顺序。
func (s *Sequence) Targets() []*domain.Unit {
	out := make([]*domain.Unit, 0, len(s.steps))
	for _, st := range s.steps {
		out = append(out, st.target)
	}
	return out
}

func (s *Sequence) Len() int {
	return len(s.steps)
}

func (s *Sequence) Done() bool {
	return s.next >= len(s.steps)
}

// Committed 已产生效果的步骤数。
func (s *Sequence) Committed() int {
	return s.committed
}

// Next 执行下一步，序列走完后返回 false。
func (s *Sequence) Next() bool {
	if s.Done() {
		return false
	}
	st := s.steps[s.next]
	s.next++
	if !st.target.Eligible() || (s.bc.Board != nil && !s.bc.Board.Contains(st.target)) {
		return true
	}
	if st.apply(s.bc, s.actor, st.target, st.delay) {
		s.committed++
	}
	return true
}

// Drain 一次性跑完剩余步骤，返回累计产生效果的步骤数。
func (s *Sequence) Drain() int {
	for s.Next() {
	}
	return s.committed
}
