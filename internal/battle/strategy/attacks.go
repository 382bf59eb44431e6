package strategy

import (
	"time"

	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/event"
)

// strike 伤害步骤：闪避只发 UnitDodged；命中发 UnitDamaged，致死再发 UnitDied。
func strike(multiplier float64) effect {
	return func(bc *Context, actor, target *domain.Unit, delay time.Duration) bool {
		hit := bc.Resolver.Strike(actor, target, multiplier)
		if hit.Dodged {
			bc.emit(event.UnitDodged{Unit: target.Ref(), Source: actor.Ref(), Delay: delay})
			return true
		}
		bc.emit(event.UnitDamaged{
			Unit:   target.Ref(),
			Source: actor.Ref(),
			Amount: hit.Amount,
			Crit:   hit.Crit,
			Health: target.Stats.Health,
			Delay:  delay,
		})
		if hit.Died {
			bc.emit(event.UnitDied{Unit: target.Ref(), Delay: delay})
		}
		return true
	}
}

func eligible(units []*domain.Unit) []*domain.Unit {
	out := make([]*domain.Unit, 0, len(units))
	for _, u := range units {
		if u.Eligible() {
			out = append(out, u)
		}
	}
	return out
}

type basicStrategy struct{}

func (basicStrategy) Kind() Kind                     { return Basic }
func (basicStrategy) CanExecute(u *domain.Unit) bool { return canExecute(u) }

// FindTargets 敌方前排，前排空了打后排。
func (basicStrategy) FindTargets(bc *Context, u *domain.Unit) []*domain.Unit {
	enemy := u.Side().Opponent()
	if front := bc.Board.FrontRow(enemy); len(front) > 0 {
		return front
	}
	return bc.Board.BackRow(enemy)
}

// Execute 从候选里均匀随机打一个。
func (basicStrategy) Execute(bc *Context, u *domain.Unit, targets []*domain.Unit) *Sequence {
	seq := newSequence(Basic, bc, u)
	if c := eligible(targets); len(c) > 0 {
		seq.add(dice.Pick(bc.Rng, c), 0, strike(bc.Tuning.BasicMultiplier))
	}
	return seq
}

type backRowStrategy struct{}

func (backRowStrategy) Kind() Kind                     { return BackRow }
func (backRowStrategy) CanExecute(u *domain.Unit) bool { return canExecute(u) }

// FindTargets 无视前排，只看敌方后排。
func (backRowStrategy) FindTargets(bc *Context, u *domain.Unit) []*domain.Unit {
	return bc.Board.BackRow(u.Side().Opponent())
}

func (backRowStrategy) Execute(bc *Context, u *domain.Unit, targets []*domain.Unit) *Sequence {
	seq := newSequence(BackRow, bc, u)
	if c := eligible(targets); len(c) > 0 {
		seq.add(dice.Pick(bc.Rng, c), 0, strike(bc.Tuning.BackRowMultiplier))
	}
	return seq
}

type backRowAoEStrategy struct{}

func (backRowAoEStrategy) Kind() Kind                     { return BackRowAoE }
func (backRowAoEStrategy) CanExecute(u *domain.Unit) bool { return canExecute(u) }

// FindTargets 敌方整排后排，后排空了换整排前排。
func (backRowAoEStrategy) FindTargets(bc *Context, u *domain.Unit) []*domain.Unit {
	enemy := u.Side().Opponent()
	if back := bc.Board.BackRow(enemy); len(back) > 0 {
		return back
	}
	return bc.Board.FrontRow(enemy)
}

// Execute 每个目标一段，独立判定暴击，段间隔 AoEInterval。
func (backRowAoEStrategy) Execute(bc *Context, u *domain.Unit, targets []*domain.Unit) *Sequence {
	seq := newSequence(BackRowAoE, bc, u)
	for i, t := range eligible(targets) {
		seq.add(t, time.Duration(i)*bc.Tuning.AoEInterval, strike(bc.Tuning.AoEMultiplier))
	}
	return seq
}

type fullAoEStrategy struct{}

func (fullAoEStrategy) Kind() Kind                     { return FullAoE }
func (fullAoEStrategy) CanExecute(u *domain.Unit) bool { return canExecute(u) }

func (fullAoEStrategy) FindTargets(bc *Context, u *domain.Unit) []*domain.Unit {
	return bc.Board.UnitsOnSide(u.Side().Opponent())
}

func (fullAoEStrategy) Execute(bc *Context, u *domain.Unit, targets []*domain.Unit) *Sequence {
	seq := newSequence(FullAoE, bc, u)
	for i, t := range eligible(targets) {
		seq.add(t, time.Duration(i)*bc.Tuning.FullAoEInterval, strike(bc.Tuning.FullAoEMultiplier))
	}
	return seq
}

type lowestHealthStrategy struct{}

func (lowestHealthStrategy) Kind() Kind                     { return LowestHealth }
func (lowestHealthStrategy) CanExecute(u *domain.Unit) bool { return canExecute(u) }

// FindTargets 敌方两排里当前血量最低的一个，同血量取先出现的（前排优先，列升序）。
func (lowestHealthStrategy) FindTargets(bc *Context, u *domain.Unit) []*domain.Unit {
	if t := lowest(bc.Board.UnitsOnSide(u.Side().Opponent())); t != nil {
		return []*domain.Unit{t}
	}
	return nil
}

func (lowestHealthStrategy) Execute(bc *Context, u *domain.Unit, targets []*domain.Unit) *Sequence {
	seq := newSequence(LowestHealth, bc, u)
	if t := lowest(eligible(targets)); t != nil {
		seq.add(t, 0, strike(bc.Tuning.LowestHealthMultiplier))
	}
	return seq
}

func lowest(units []*domain.Unit) *domain.Unit {
	var best *domain.Unit
	for _, u := range units {
		if best == nil || u.Stats.Health < best.Stats.Health {
			best = u
		}
	}
	return best
}
