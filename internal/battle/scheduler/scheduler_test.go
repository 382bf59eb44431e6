package scheduler

import (
	"context"
	"testing"

	"CardBattle/internal/battle/dice"
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/event"
	"CardBattle/internal/battle/rotation"
	"CardBattle/internal/battle/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	s     *Scheduler
	board *domain.Board
	rec   *event.Recorder
}

func newHarness(seed int64) *harness {
	board := domain.NewBoard()
	rec := &event.Recorder{}
	s := New(Config{Board: board, Rng: dice.New(seed), Events: rec, Tuning: strategy.DefaultTuning()})
	return &harness{s: s, board: board, rec: rec}
}

func (h *harness) place(t *testing.T, id string, arch domain.Archetype, side domain.Side, row, col int, stats domain.Stats) *domain.Unit {
	t.Helper()
	u := domain.NewUnit(domain.UnitID(id), id, arch, stats)
	require.NoError(t, h.board.Place(u, domain.NewPosition(side, row, col)))
	return u
}

func stats(speed, hp, atk int) domain.Stats {
	return domain.Stats{Health: hp, MaxHealth: hp, Attack: atk, Speed: speed}
}

func TestScheduler_EndToEndTwoUnits(t *testing.T) {
	ctx := context.Background()
	h := newHarness(7)
	a := h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 100, 20))
	b := h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 30, 10))

	require.NoError(t, h.s.Start(ctx, 10))
	assert.Equal(t, []*domain.Unit{a, b}, h.s.TurnOrder())
	assert.Equal(t, StateAwaiting, h.s.State())
	pending, ok := h.s.Pending()
	require.True(t, ok)
	assert.Same(t, a, pending)
	assert.Equal(t, 10, b.Stats.Health)

	require.NoError(t, h.s.ActionCompleted(ctx))
	assert.Equal(t, StateAwaiting, h.s.State())
	assert.Equal(t, 90, a.Stats.Health)

	// 第二回合 A 轮换到 BackRowAoE，后排为空打前排：int(20*0.7)=14 击杀 B
	require.NoError(t, h.s.ActionCompleted(ctx))
	assert.Equal(t, 2, h.s.Round())
	assert.False(t, b.Alive())

	require.NoError(t, h.s.ActionCompleted(ctx))
	assert.Equal(t, StateBattleEnd, h.s.State())
	assert.Equal(t, domain.PlayerWin, h.s.Outcome())

	ended := event.Of[event.BattleEnded](h.rec.Events)
	require.Len(t, ended, 1)
	assert.Equal(t, event.BattleEnded{Outcome: domain.PlayerWin, FinalRound: 2}, ended[0])

	rounds := event.Of[event.RoundChanged](h.rec.Events)
	assert.Equal(t, []event.RoundChanged{{Round: 1}, {Round: 2}}, rounds)

	actions := event.Of[event.ActionStarted](h.rec.Events)
	require.Len(t, actions, 3)
	assert.Equal(t, "Basic", actions[0].Strategy)
	assert.Equal(t, "BackRowAoE", actions[2].Strategy)
	assert.Len(t, event.Of[event.UnitDied](h.rec.Events), 1)
}

func TestScheduler_RoundLimitWithSurvivorsIsDraw(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 1000, 5))
	h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 1000, 5))

	require.NoError(t, h.s.Start(ctx, 1))
	require.NoError(t, h.s.ActionCompleted(ctx))
	require.NoError(t, h.s.ActionCompleted(ctx))

	assert.Equal(t, StateBattleEnd, h.s.State())
	assert.Equal(t, domain.Draw, h.s.Outcome())
	assert.Equal(t, []event.RoundChanged{{Round: 1}}, event.Of[event.RoundChanged](h.rec.Events))
	assert.Equal(t, []event.BattleEnded{{Outcome: domain.Draw, FinalRound: 1}}, event.Of[event.BattleEnded](h.rec.Events))
}

func TestScheduler_StopWhileSuspendedIgnoresLateAck(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 100, 5))
	h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 100, 5))

	require.NoError(t, h.s.Start(ctx, 5))
	require.Equal(t, StateAwaiting, h.s.State())

	require.NoError(t, h.s.Stop(ctx))
	assert.Equal(t, StateIdle, h.s.State())
	assert.Empty(t, h.s.TurnOrder())
	seen := len(h.rec.Events)

	err := h.s.ActionCompleted(ctx)
	assert.ErrorIs(t, err, domain.ErrNoPendingAction)
	assert.Equal(t, StateIdle, h.s.State())
	assert.Len(t, h.rec.Events, seen)

	require.NoError(t, h.s.Stop(ctx))
}

func TestScheduler_StartRefusedWithoutLivingUnits(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 100, 5))

	err := h.s.Start(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrNoLivingUnits)
	assert.Equal(t, StateIdle, h.s.State())
	assert.Empty(t, h.rec.Events)

	dead := h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 100, 5))
	dead.TakeDamage(1000)
	assert.ErrorIs(t, h.s.Start(ctx, 5), domain.ErrNoLivingUnits)

	off := h.place(t, "C", domain.Warrior, domain.Enemy, 0, 1, stats(5, 100, 5))
	off.Enabled = false
	assert.ErrorIs(t, h.s.Start(ctx, 5), domain.ErrNoLivingUnits)
	assert.Equal(t, StateIdle, h.s.State())
	assert.Empty(t, h.rec.Events)
}

func TestScheduler_StartRejectsBadMaxRoundsAndDoubleStart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 100, 5))
	h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 100, 5))

	assert.Error(t, h.s.Start(ctx, 0))
	require.NoError(t, h.s.Start(ctx, 3))
	assert.ErrorIs(t, h.s.Start(ctx, 3), domain.ErrBattleRunning)
}

func TestScheduler_ActionCompletedWithoutPendingIsRejected(t *testing.T) {
	h := newHarness(1)
	err := h.s.ActionCompleted(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoPendingAction)
	assert.Equal(t, StateIdle, h.s.State())
}

func TestScheduler_TurnOrderIsSpeedSortedPermutation(t *testing.T) {
	speeds := map[string]int{"p0": 3, "p1": 9, "p2": 3, "e0": 7, "e1": 9, "e2": 1}
	for seed := int64(1); seed <= 20; seed++ {
		h := newHarness(seed)
		all := map[domain.UnitID]bool{}
		cols := map[domain.Side]int{}
		for id, sp := range speeds {
			side := domain.Player
			if id[0] == 'e' {
				side = domain.Enemy
			}
			u := h.place(t, id, domain.Warrior, side, side.FrontRow(), cols[side], stats(sp, 1000, 1))
			cols[side]++
			all[u.ID] = true
		}
		dead := h.place(t, "dead", domain.Warrior, domain.Enemy, domain.Enemy.BackRow(), 0, stats(99, 10, 1))
		dead.TakeDamage(100)

		require.NoError(t, h.s.Start(context.Background(), 5))
		order := h.s.TurnOrder()
		require.Len(t, order, len(all))
		seen := map[domain.UnitID]bool{}
		for i, u := range order {
			assert.True(t, all[u.ID])
			assert.False(t, seen[u.ID], "duplicate %s", u.ID)
			seen[u.ID] = true
			if i > 0 {
				assert.GreaterOrEqual(t, order[i-1].Stats.Speed, u.Stats.Speed)
			}
		}
	}
}

func TestScheduler_StunnedUnitLosesTurn(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	a := h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 100, 5))
	b := h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 100, 5))
	a.Stun(1)

	require.NoError(t, h.s.Start(ctx, 5))
	pending, _ := h.s.Pending()
	assert.Same(t, b, pending)
	assert.Zero(t, a.StunTurns)
	assert.Equal(t, 100, b.Stats.Health)

	skipped := event.Of[event.TurnSkipped](h.rec.Events)
	require.Len(t, skipped, 1)
	assert.Equal(t, event.SkipStunned, skipped[0].Reason)

	// 眩晕结束后下一回合正常出手
	require.NoError(t, h.s.ActionCompleted(ctx))
	pending, _ = h.s.Pending()
	assert.Same(t, a, pending)
}

func TestScheduler_AttackerWithoutTargetsTakesNoOpTurn(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	a := h.place(t, "A", domain.Archer, domain.Player, 1, 0, stats(10, 100, 5))
	b := h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 100, 5))
	require.NoError(t, h.s.Assign(a.ID, rotation.Assignment{Entries: []rotation.Entry{{Kind: strategy.BackRow, UsesBeforeSwitch: 1}}}))

	require.NoError(t, h.s.Start(ctx, 5))
	pending, _ := h.s.Pending()
	assert.Same(t, b, pending)
	assert.Equal(t, 100, b.Stats.Health)

	skipped := event.Of[event.TurnSkipped](h.rec.Events)
	require.Len(t, skipped, 1)
	assert.Equal(t, event.SkipNoTargets, skipped[0].Reason)
}

func TestScheduler_HealerWithoutWoundedAttacks(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	healer := h.place(t, "H", domain.Healer, domain.Player, 0, 1, stats(10, 100, 12))
	enemy := h.place(t, "E", domain.Warrior, domain.Enemy, 0, 0, stats(1, 100, 5))

	require.NoError(t, h.s.Start(ctx, 5))
	pending, _ := h.s.Pending()
	assert.Same(t, healer, pending)
	assert.Equal(t, 88, enemy.Stats.Health)

	actions := event.Of[event.ActionStarted](h.rec.Events)
	require.Len(t, actions, 1)
	assert.Equal(t, "Basic", actions[0].Strategy)
}

func TestScheduler_RotationAdvancesOnlyOnAck(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	a := h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 1000, 1))
	h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 1000, 1))
	require.NoError(t, h.s.Assign(a.ID, rotation.Assignment{Entries: []rotation.Entry{
		{Kind: strategy.Basic, UsesBeforeSwitch: 1},
		{Kind: strategy.FullAoE, UsesBeforeSwitch: 1},
	}}))

	require.NoError(t, h.s.Start(ctx, 5))
	assert.Equal(t, strategy.Basic, h.s.ActiveStrategy(a))
	require.NoError(t, h.s.ActionCompleted(ctx))
	assert.Equal(t, strategy.FullAoE, h.s.ActiveStrategy(a))

	assert.ErrorIs(t, h.s.Assign(a.ID, rotation.Assignment{Entries: []rotation.Entry{{Kind: strategy.Heal}}}), domain.ErrBattleRunning)
}

func TestScheduler_RemovedUnitSlotIsSkipped(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 1000, 1))
	gone := h.place(t, "G", domain.Warrior, domain.Player, 1, 1, stats(8, 1000, 1))
	b := h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 1000, 1))

	require.NoError(t, h.s.Start(ctx, 5))
	h.board.Remove(gone)
	require.NoError(t, h.s.ActionCompleted(ctx))

	pending, _ := h.s.Pending()
	assert.Same(t, b, pending)
}

func TestScheduler_RestartAfterBattleEnd(t *testing.T) {
	ctx := context.Background()
	h := newHarness(1)
	h.place(t, "A", domain.Warrior, domain.Player, 1, 0, stats(10, 1000, 1))
	h.place(t, "B", domain.Warrior, domain.Enemy, 0, 0, stats(5, 1000, 1))

	require.NoError(t, h.s.Start(ctx, 1))
	require.NoError(t, h.s.ActionCompleted(ctx))
	require.NoError(t, h.s.ActionCompleted(ctx))
	require.Equal(t, StateBattleEnd, h.s.State())

	require.NoError(t, h.s.Start(ctx, 1))
	assert.Equal(t, StateAwaiting, h.s.State())
	assert.Equal(t, 1, h.s.Round())
}
