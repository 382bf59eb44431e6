package strategy

import (
	"slices"
	"time"

	"CardBattle/internal/battle/damage"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/event"
)

type healStrategy struct{}

func (healStrategy) Kind() Kind                     { return Heal }
func (healStrategy) CanExecute(u *domain.Unit) bool { return canExecute(u) }

// FindTargets 受伤友军按血量比例升序，最多 HealMaxTargets 个。
func (healStrategy) FindTargets(bc *Context, u *domain.Unit) []*domain.Unit {
	var wounded []*domain.Unit
	for _, ally := range bc.Board.UnitsOnSide(u.Side()) {
		if !ally.Wounded() {
			continue
		}
		if ally == u && !bc.Tuning.HealCanTargetSelf {
			continue
		}
		wounded = append(wounded, ally)
	}
	slices.SortStableFunc(wounded, func(a, b *domain.Unit) int {
		ra, rb := a.HealthRatio(), b.HealthRatio()
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
		return 0
	})
	if len(wounded) > bc.Tuning.HealMaxTargets {
		wounded = wounded[:bc.Tuning.HealMaxTargets]
	}
	return wounded
}

// Execute 没有可治疗的友军时改用 Basic 攻击敌人。
func (healStrategy) Execute(bc *Context, u *domain.Unit, targets []*domain.Unit) *Sequence {
	if len(targets) == 0 {
		basic := For(Basic)
		return basic.Execute(bc, u, basic.FindTargets(bc, u))
	}
	seq := newSequence(Heal, bc, u)
	for i, t := range targets {
		if i >= bc.Tuning.HealMaxTargets {
			break
		}
		seq.add(t, time.Duration(i)*bc.Tuning.HealInterval, heal(bc.Tuning.HealAmount))
	}
	return seq
}

// heal 实际回复为 0 时不发通知，也不算产生效果。
func heal(amount int) effect {
	return func(bc *Context, actor, target *domain.Unit, delay time.Duration) bool {
		actual := damage.ApplyHeal(target, amount)
		if actual <= 0 {
			return false
		}
		bc.emit(event.UnitHealed{
			Unit:   target.Ref(),
			Source: actor.Ref(),
			Amount: actual,
			Health: target.Stats.Health,
			Delay:  delay,
		})
		return true
	}
}
