package strategy

import (
	"testing"

	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	bc  *Context
	rec *event.Recorder
}

// 默认 Fallback 0.99：不闪避、不暴击。
func newFixture(t *testing.T, rng dice.Rng) *fixture {
	t.Helper()
	if rng == nil {
		rng = &dice.Script{Fallback: 0.99}
	}
	rec := &event.Recorder{}
	return &fixture{bc: NewContext(domain.NewBoard(), rng, rec, DefaultTuning()), rec: rec}
}

func (f *fixture) place(t *testing.T, id string, side domain.Side, row, col int, stats domain.Stats) *domain.Unit {
	t.Helper()
	u := domain.NewUnit(domain.UnitID(id), id, domain.Warrior, stats)
	require.NoError(t, f.bc.Board.Place(u, domain.NewPosition(side, row, col)))
	return u
}

func plain(hp, atk int) domain.Stats {
	return domain.Stats{Health: hp, MaxHealth: hp, Attack: atk}
}

func TestParse_CaseInsensitiveUnknownIsBasic(t *testing.T) {
	for name, want := range map[string]Kind{
		"basic":        Basic,
		"BACKROW":      BackRow,
		"back_row_aoe": BackRowAoE,
		"Full-AoE":     FullAoE,
		"lowesthealth": LowestHealth,
		" Heal ":       Heal,
	} {
		got, ok := Parse(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	got, ok := Parse("Fireball")
	assert.False(t, ok)
	assert.Equal(t, Basic, got)
	got, ok = Parse("")
	assert.False(t, ok)
	assert.Equal(t, Basic, got)
}

func TestFor_DispatchTableCoversEveryKind(t *testing.T) {
	for _, k := range Kinds() {
		assert.Equal(t, k, For(k).Kind())
	}
	assert.Equal(t, Basic, For(Kind(200)).Kind())
}

func TestCanExecute_RejectsStunnedDeadDisabled(t *testing.T) {
	u := domain.NewUnit("u", "u", domain.Warrior, plain(10, 1))
	s := For(Basic)
	assert.True(t, s.CanExecute(u))
	u.Stun(1)
	assert.False(t, s.CanExecute(u))
	u.ConsumeStun()
	u.Enabled = false
	assert.False(t, s.CanExecute(u))
	u.Enabled = true
	u.TakeDamage(100)
	assert.False(t, s.CanExecute(u))
}

func TestBasic_PrefersFrontRow(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	front := f.place(t, "front", domain.Enemy, 0, 1, plain(100, 10))
	f.place(t, "back", domain.Enemy, 1, 1, plain(100, 10))

	targets := For(Basic).FindTargets(f.bc, a)
	assert.Equal(t, []*domain.Unit{front}, targets)

	front.TakeDamage(1000)
	targets = For(Basic).FindTargets(f.bc, a)
	require.Len(t, targets, 1)
	assert.Equal(t, domain.UnitID("back"), targets[0].ID)
}

func TestBasic_SingleHitOnRandomCandidate(t *testing.T) {
	f := newFixture(t, &dice.Script{Ints: []int{1}, Fallback: 0.99})
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	f.place(t, "e0", domain.Enemy, 0, 0, plain(100, 10))
	e1 := f.place(t, "e1", domain.Enemy, 0, 1, plain(100, 10))

	seq := For(Basic).Execute(f.bc, a, For(Basic).FindTargets(f.bc, a))
	require.Equal(t, 1, seq.Len())
	assert.Equal(t, 1, seq.Drain())
	assert.Equal(t, 80, e1.Stats.Health)

	dmg := event.Of[event.UnitDamaged](f.rec.Events)
	require.Len(t, dmg, 1)
	assert.Equal(t, 20, dmg[0].Amount)
	assert.Equal(t, e1.ID, dmg[0].Unit.ID)
}

func TestBackRow_IgnoresFrontRowWithMultiplier(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	f.place(t, "front", domain.Enemy, 0, 0, plain(100, 10))
	back := f.place(t, "back", domain.Enemy, 1, 2, plain(100, 10))

	s := For(BackRow)
	targets := s.FindTargets(f.bc, a)
	assert.Equal(t, []*domain.Unit{back}, targets)
	s.Execute(f.bc, a, targets).Drain()
	assert.Equal(t, 100-24, back.Stats.Health)
}

func TestBackRow_NoBackRowNoTargets(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	f.place(t, "front", domain.Enemy, 0, 0, plain(100, 10))
	assert.Empty(t, For(BackRow).FindTargets(f.bc, a))
}

func TestBackRowAoE_TargetsWholeBackRowElseWholeFrontRow(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	f0 := f.place(t, "f0", domain.Enemy, 0, 0, plain(100, 10))
	f2 := f.place(t, "f2", domain.Enemy, 0, 2, plain(100, 10))
	b0 := f.place(t, "b0", domain.Enemy, 1, 0, plain(100, 10))
	b1 := f.place(t, "b1", domain.Enemy, 1, 1, plain(100, 10))
	b2 := f.place(t, "b2", domain.Enemy, 1, 2, plain(100, 10))

	s := For(BackRowAoE)
	assert.Equal(t, []*domain.Unit{b0, b1, b2}, s.FindTargets(f.bc, a))

	for _, u := range []*domain.Unit{b0, b1, b2} {
		u.TakeDamage(1000)
	}
	assert.Equal(t, []*domain.Unit{f0, f2}, s.FindTargets(f.bc, a))
}

func TestBackRowAoE_OneHitPerTargetWithStaggeredDelay(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	b0 := f.place(t, "b0", domain.Enemy, 1, 0, plain(100, 10))
	b2 := f.place(t, "b2", domain.Enemy, 1, 2, plain(100, 10))

	s := For(BackRowAoE)
	seq := s.Execute(f.bc, a, s.FindTargets(f.bc, a))
	assert.Equal(t, 2, seq.Drain())
	assert.Equal(t, 86, b0.Stats.Health)
	assert.Equal(t, 86, b2.Stats.Health)

	dmg := event.Of[event.UnitDamaged](f.rec.Events)
	require.Len(t, dmg, 2)
	assert.Zero(t, dmg[0].Delay)
	assert.Equal(t, f.bc.Tuning.AoEInterval, dmg[1].Delay)
}

func TestBackRowAoE_EachTargetRollsOwnCrit(t *testing.T) {
	// 每个目标依次：闪避判定、暴击判定
	f := newFixture(t, &dice.Script{Floats: []float64{0.99, 0.0, 0.99, 0.99}, Fallback: 0.99})
	a := f.place(t, "a", domain.Player, 1, 0, domain.Stats{Health: 100, Attack: 20, CritChance: 0.5})
	f.place(t, "b0", domain.Enemy, 1, 0, domain.Stats{Health: 100, DodgeChance: 0.1})
	f.place(t, "b1", domain.Enemy, 1, 1, domain.Stats{Health: 100, DodgeChance: 0.1})

	s := For(BackRowAoE)
	s.Execute(f.bc, a, s.FindTargets(f.bc, a)).Drain()

	dmg := event.Of[event.UnitDamaged](f.rec.Events)
	require.Len(t, dmg, 2)
	assert.True(t, dmg[0].Crit)
	assert.Equal(t, 28, dmg[0].Amount)
	assert.False(t, dmg[1].Crit)
	assert.Equal(t, 14, dmg[1].Amount)
}

func TestFullAoE_HitsEveryLivingEnemy(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	f.place(t, "e0", domain.Enemy, 0, 0, plain(100, 10))
	f.place(t, "e1", domain.Enemy, 1, 1, plain(100, 10))
	dead := f.place(t, "e2", domain.Enemy, 1, 2, plain(100, 10))
	dead.TakeDamage(1000)

	s := For(FullAoE)
	targets := s.FindTargets(f.bc, a)
	assert.Len(t, targets, 2)
	assert.Equal(t, 2, s.Execute(f.bc, a, targets).Drain())
	assert.Len(t, event.Of[event.UnitDamaged](f.rec.Events), 2)
}

func TestLowestHealth_PicksMinimumAcrossRows(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	f.place(t, "front", domain.Enemy, 0, 0, plain(80, 10))
	low := f.place(t, "back", domain.Enemy, 1, 2, plain(30, 10))

	assert.Equal(t, []*domain.Unit{low}, For(LowestHealth).FindTargets(f.bc, a))
}

func TestLowestHealth_TieGoesToFirstInBoardOrder(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	f.place(t, "back", domain.Enemy, 1, 0, plain(50, 10))
	front := f.place(t, "front", domain.Enemy, 0, 2, plain(50, 10))

	assert.Equal(t, []*domain.Unit{front}, For(LowestHealth).FindTargets(f.bc, a))
}

func TestHeal_OrdersByRatioAndCaps(t *testing.T) {
	f := newFixture(t, nil)
	healer := f.place(t, "h", domain.Player, 0, 1, domain.Stats{Health: 90, MaxHealth: 100})
	healer.Archetype = domain.Healer
	mid := f.place(t, "mid", domain.Player, 1, 0, domain.Stats{Health: 50, MaxHealth: 100})
	worst := f.place(t, "worst", domain.Player, 1, 1, domain.Stats{Health: 10, MaxHealth: 100})
	f.place(t, "full", domain.Player, 1, 2, domain.Stats{Health: 100, MaxHealth: 100})

	s := For(Heal)
	targets := s.FindTargets(f.bc, healer)
	assert.Equal(t, []*domain.Unit{worst, mid}, targets)

	seq := s.Execute(f.bc, healer, targets)
	assert.Equal(t, Heal, seq.Kind())
	assert.Equal(t, 2, seq.Drain())
	assert.Equal(t, 30, worst.Stats.Health)
	assert.Equal(t, 70, mid.Stats.Health)

	healed := event.Of[event.UnitHealed](f.rec.Events)
	require.Len(t, healed, 2)
	assert.Equal(t, f.bc.Tuning.HealInterval, healed[1].Delay)
}

func TestHeal_CannotTargetSelfWhenDisabled(t *testing.T) {
	f := newFixture(t, nil)
	f.bc.Tuning.HealCanTargetSelf = false
	healer := f.place(t, "h", domain.Player, 0, 1, domain.Stats{Health: 10, MaxHealth: 100})
	assert.Empty(t, For(Heal).FindTargets(f.bc, healer))
}

func TestHeal_ClampsAtMissingHealth(t *testing.T) {
	f := newFixture(t, nil)
	healer := f.place(t, "h", domain.Player, 0, 1, plain(100, 5))
	ally := f.place(t, "ally", domain.Player, 1, 1, domain.Stats{Health: 95, MaxHealth: 100})

	For(Heal).Execute(f.bc, healer, []*domain.Unit{ally}).Drain()
	assert.Equal(t, 100, ally.Stats.Health)
	healed := event.Of[event.UnitHealed](f.rec.Events)
	require.Len(t, healed, 1)
	assert.Equal(t, 5, healed[0].Amount)
}

func TestHeal_NoWoundedFallsBackToBasic(t *testing.T) {
	f := newFixture(t, nil)
	healer := f.place(t, "h", domain.Player, 0, 1, plain(100, 12))
	enemy := f.place(t, "e", domain.Enemy, 0, 0, plain(100, 10))

	s := For(Heal)
	targets := s.FindTargets(f.bc, healer)
	require.Empty(t, targets)

	seq := s.Execute(f.bc, healer, targets)
	assert.Equal(t, Basic, seq.Kind())
	assert.Equal(t, 1, seq.Drain())
	assert.Equal(t, 88, enemy.Stats.Health)
	assert.Empty(t, event.Of[event.UnitHealed](f.rec.Events))
}

func TestSequence_SkipsTargetsThatDiedBeforeTheirStep(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 20))
	b0 := f.place(t, "b0", domain.Enemy, 1, 0, plain(100, 10))
	b1 := f.place(t, "b1", domain.Enemy, 1, 1, plain(100, 10))

	s := For(BackRowAoE)
	seq := s.Execute(f.bc, a, s.FindTargets(f.bc, a))
	require.True(t, seq.Next())
	b1.TakeDamage(1000)
	assert.Equal(t, 1, seq.Drain())
	assert.True(t, seq.Done())
	assert.False(t, seq.Next())

	assert.Equal(t, 86, b0.Stats.Health)
	assert.Len(t, event.Of[event.UnitDamaged](f.rec.Events), 1)
}

func TestStrike_DeathEmitsUnitDied(t *testing.T) {
	f := newFixture(t, nil)
	a := f.place(t, "a", domain.Player, 1, 0, plain(100, 50))
	e := f.place(t, "e", domain.Enemy, 0, 0, plain(30, 10))

	For(Basic).Execute(f.bc, a, []*domain.Unit{e}).Drain()
	died := event.Of[event.UnitDied](f.rec.Events)
	require.Len(t, died, 1)
	assert.Equal(t, e.ID, died[0].Unit.ID)
}

func TestTuning_NormalizeRestoresDefaults(t *testing.T) {
	got := Tuning{}.Normalize()
	d := DefaultTuning()
	assert.Equal(t, d.AoEMultiplier, got.AoEMultiplier)
	assert.Equal(t, d.HealMaxTargets, got.HealMaxTargets)
	assert.Equal(t, 1, got.HealAmount)
}
