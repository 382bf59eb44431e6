// Package damage 闪避、暴击、伤害与治疗结算。
package damage

import (
	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
)

const (
	MaxCritChance = 0.8
	// 每点韧性抵消 1% 暴击率
	ResilienceFactor = 0.01
	CritMultiplier   = 2
	MinDamage        = 1
)

type Resolver struct {
	rng dice.Rng
}

func NewResolver(rng dice.Rng) *Resolver {
	return &Resolver{rng: rng}
}

// RollDodge 以目标闪避率判定。
func (r *Resolver) RollDodge(target *domain.Unit) bool {
	p := target.Stats.DodgeChance
	if p <= 0 {
		return false
	}
	return p >= 1 || r.rng.Float64() < p
}

// CritChance clamp(attacker.crit - target.resilience*0.01, 0, 0.8)。
func CritChance(attacker, target *domain.Unit) float64 {
	p := attacker.Stats.CritChance - float64(target.Stats.Resilience)*ResilienceFactor
	return min(max(p, 0), MaxCritChance)
}

func (r *Resolver) RollCrit(attacker, target *domain.Unit) bool {
	p := CritChance(attacker, target)
	if p <= 0 {
		return false
	}
	return r.rng.Float64() < p
}

// ComputeDamage 暴击翻倍、乘倍率后截断、减护甲，至少为 1。
func ComputeDamage(attacker, target *domain.Unit, crit bool, multiplier float64) int {
	base := attacker.Stats.Attack
	if crit {
		base *= CritMultiplier
	}
	dmg := int(float64(base)*multiplier) - target.Stats.Armor
	return max(dmg, MinDamage)
}

// ApplyHeal 实际回复量为 min(amount, 缺失血量)，为 0 时调用方不应发通知。
func ApplyHeal(target *domain.Unit, amount int) int {
	return target.Restore(amount)
}

// Hit 一次攻击的结算结果。
type Hit struct {
	Dodged bool
	Crit   bool
	Amount int
	Died   bool
}

// Strike 先判闪避，再判暴击，最后扣血。
func (r *Resolver) Strike(attacker, target *domain.Unit, multiplier float64) Hit {
	if r.RollDodge(target) {
		return Hit{Dodged: true}
	}
	crit := r.RollCrit(attacker, target)
	amount := ComputeDamage(attacker, target, crit, multiplier)
	died := target.TakeDamage(amount)
	return Hit{Crit: crit, Amount: amount, Died: died}
}
