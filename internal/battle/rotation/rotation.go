// Package rotation 单位的策略轮换：每个条目用满次数后切到下一个。
package rotation

import (
	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/strategy"
)

type Entry struct {
	Kind             strategy.Kind `json:"kind"`
	UsesBeforeSwitch int           `json:"uses_before_switch"`
}

// Assignment 轮换配置，战斗开始时据此生成 Rotation。
type Assignment struct {
	Entries             []Entry `json:"entries"`
	RandomizeAfterCycle bool    `json:"randomize_after_cycle"`
}

// DefaultAssignment 治疗只用 Heal，其余职业 Basic、BackRowAoE 各一次交替。
func DefaultAssignment(a domain.Archetype) Assignment {
	if a == domain.Healer {
		return Assignment{Entries: []Entry{{Kind: strategy.Heal, UsesBeforeSwitch: 1}}}
	}
	return Assignment{Entries: []Entry{
		{Kind: strategy.Basic, UsesBeforeSwitch: 1},
		{Kind: strategy.BackRowAoE, UsesBeforeSwitch: 1},
	}}
}

// Validate 条目不能为空，次数不足 1 的按 1 处理。
func (a Assignment) Validate() (Assignment, error) {
	if len(a.Entries) == 0 {
		return a, domain.ErrInvalidStrategySet
	}
	out := Assignment{Entries: make([]Entry, len(a.Entries)), RandomizeAfterCycle: a.RandomizeAfterCycle}
	for i, e := range a.Entries {
		if !e.Kind.Valid() {
			e.Kind = strategy.Basic
		}
		e.UsesBeforeSwitch = max(e.UsesBeforeSwitch, 1)
		out.Entries[i] = e
	}
	return out, nil
}

type Rotation struct {
	entries   []Entry
	index     int
	uses      int
	randomize bool
	rng       dice.Rng
}

func New(a Assignment, rng dice.Rng) (*Rotation, error) {
	a, err := a.Validate()
	if err != nil {
		return nil, err
	}
	return &Rotation{entries: a.Entries, randomize: a.RandomizeAfterCycle, rng: rng}, nil
}

// Active 当前生效的策略。
func (r *Rotation) Active() strategy.Kind {
	return r.entries[r.index].Kind
}

// SelectNext 在本回合动作确认完成后调用，返回下一回合生效的策略。
func (r *Rotation) SelectNext() strategy.Kind {
	r.uses++
	if r.uses >= r.entries[r.index].UsesBeforeSwitch {
		r.uses = 0
		r.index = (r.index + 1) % len(r.entries)
		if r.randomize && r.index == 0 && r.rng != nil {
			r.index = r.rng.Intn(len(r.entries))
		}
	}
	return r.Active()
}

func (r *Rotation) Index() int {
	return r.index
}

func (r *Rotation) Uses() int {
	return r.uses
}

func (r *Rotation) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
