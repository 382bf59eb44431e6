package scheduler

import (
	"context"

	"github.com/looplab/fsm"
)

type State string

const (
	StateIdle       State = "idle"
	StateRoundStart State = "round_start"
	StateUnitTurn   State = "unit_turn"
	// StateAwaiting 已提交一次动作，挂起等待外部确认
	StateAwaiting  State = "awaiting"
	StateRoundEnd  State = "round_end"
	StateBattleEnd State = "battle_end"
)

const (
	evStart      = "start"
	evBeginTurns = "begin_turns"
	evSuspend    = "suspend"
	evResume     = "resume"
	evEndRound   = "end_round"
	evNextRound  = "next_round"
	evFinish     = "finish"
	evStop       = "stop"
)

// 事件的 src 与 dst 不能相同，否则 fsm 会返回 NoTransitionError。
func transitions() fsm.Events {
	return fsm.Events{
		{Name: evStart, Src: states(StateIdle, StateBattleEnd), Dst: string(StateRoundStart)},
		{Name: evBeginTurns, Src: states(StateRoundStart), Dst: string(StateUnitTurn)},
		{Name: evSuspend, Src: states(StateUnitTurn), Dst: string(StateAwaiting)},
		{Name: evResume, Src: states(StateAwaiting), Dst: string(StateUnitTurn)},
		{Name: evEndRound, Src: states(StateUnitTurn), Dst: string(StateRoundEnd)},
		{Name: evNextRound, Src: states(StateRoundEnd), Dst: string(StateRoundStart)},
		{Name: evFinish, Src: states(StateRoundStart, StateUnitTurn, StateAwaiting, StateRoundEnd), Dst: string(StateBattleEnd)},
		{Name: evStop, Src: states(StateRoundStart, StateUnitTurn, StateAwaiting, StateRoundEnd, StateBattleEnd), Dst: string(StateIdle)},
	}
}

func states(ss ...State) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// Running 战斗已开始且尚未结束。
func (s State) Running() bool {
	return s != StateIdle && s != StateBattleEnd
}

func newMachine(onEnter func(ctx context.Context, from, to, event string)) *fsm.FSM {
	return fsm.NewFSM(string(StateIdle), transitions(), fsm.Callbacks{
		"enter_state": func(ctx context.Context, e *fsm.Event) {
			if onEnter != nil {
				onEnter(ctx, e.Src, e.Dst, e.Event)
			}
		},
	})
}
