// Package strategy 目标选择与出手效果。六种策略组成封闭集合，通过 For 查表分发。
package strategy

import (
	"CardBattle/internal/battle/domain"
)

type Strategy interface {
	Kind() Kind
	// CanExecute 存活、启用且未被眩晕
	CanExecute(u *domain.Unit) bool
	FindTargets(bc *Context, u *domain.Unit) []*domain.Unit
	// Execute 返回惰性序列，调用方负责推进
	Execute(bc *Context, u *domain.Unit, targets []*domain.Unit) *Sequence
}

var table = [kindCount]Strategy{
	Basic:        basicStrategy{},
	BackRow:      backRowStrategy{},
	BackRowAoE:   backRowAoEStrategy{},
	FullAoE:      fullAoEStrategy{},
	LowestHealth: lowestHealthStrategy{},
	Heal:         healStrategy{},
}

// For 越界的 Kind 按 Basic 处理。
func For(k Kind) Strategy {
	if !k.Valid() {
		return table[Basic]
	}
	return table[k]
}

func canExecute(u *domain.Unit) bool {
	return u.Eligible() && !u.Stunned()
}
