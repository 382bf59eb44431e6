// Package event 定义战斗引擎对外发出的类型化事件，以及不阻塞生产者的事件队列。
package event

import (
	"time"

	"CardBattle/internal/battle/domain"
)

type Type string

const (
	TypeRoundChanged  Type = "round_changed"
	TypeTurnStarted   Type = "turn_started"
	TypeTurnSkipped   Type = "turn_skipped"
	TypeActionStarted Type = "action_started"
	TypeUnitDamaged   Type = "unit_damaged"
	TypeUnitHealed    Type = "unit_healed"
	TypeUnitDodged    Type = "unit_dodged"
	TypeUnitDied      Type = "unit_died"
	TypeUnitStunned   Type = "unit_stunned"
	TypeBattleEnded   Type = "battle_ended"
)

// Event 封闭集合，只有本包内的结构体实现。
type Event interface {
	Type() Type
	isEvent()
}

type RoundChanged struct {
	Round int `json:"round"`
}

type TurnStarted struct {
	Round int            `json:"round"`
	Unit  domain.UnitRef `json:"unit"`
}

// SkipReason 回合被跳过的原因。
type SkipReason string

const (
	SkipStunned   SkipReason = "stunned"
	SkipNoTargets SkipReason = "no_targets"
	SkipNoEffect  SkipReason = "no_effect"
)

// TurnSkipped 不需要确认的空回合。
type TurnSkipped struct {
	Round  int            `json:"round"`
	Unit   domain.UnitRef `json:"unit"`
	Reason SkipReason     `json:"reason"`
}

// ActionStarted 表现层收到后播放动作，结束时回一次 ActionCompleted。
type ActionStarted struct {
	Round    int              `json:"round"`
	Unit     domain.UnitRef   `json:"unit"`
	Strategy string           `json:"strategy"`
	Targets  []domain.UnitRef `json:"targets"`
}

// Delay 是相对动作开始的表现偏移，多段命中据此错开播放。
type UnitDamaged struct {
	Unit   domain.UnitRef `json:"unit"`
	Source domain.UnitRef `json:"source"`
	Amount int            `json:"amount"`
	Crit   bool           `json:"crit"`
	Health int            `json:"health"`
	Delay  time.Duration  `json:"delay"`
}

type UnitHealed struct {
	Unit   domain.UnitRef `json:"unit"`
	Source domain.UnitRef `json:"source"`
	Amount int            `json:"amount"`
	Health int            `json:"health"`
	Delay  time.Duration  `json:"delay"`
}

type UnitDodged struct {
	Unit   domain.UnitRef `json:"unit"`
	Source domain.UnitRef `json:"source"`
	Delay  time.Duration  `json:"delay"`
}

type UnitDied struct {
	Unit  domain.UnitRef `json:"unit"`
	Delay time.Duration  `json:"delay"`
}

type UnitStunned struct {
	Unit  domain.UnitRef `json:"unit"`
	Turns int            `json:"turns"`
}

type BattleEnded struct {
	Outcome    domain.Outcome `json:"outcome"`
	FinalRound int            `json:"final_round"`
}

func (RoundChanged) Type() Type  { return TypeRoundChanged }
func (TurnStarted) Type() Type   { return TypeTurnStarted }
func (TurnSkipped) Type() Type   { return TypeTurnSkipped }
func (ActionStarted) Type() Type { return TypeActionStarted }
func (UnitDamaged) Type() Type   { return TypeUnitDamaged }
func (UnitHealed) Type() Type    { return TypeUnitHealed }
func (UnitDodged) Type() Type    { return TypeUnitDodged }
func (UnitDied) Type() Type      { return TypeUnitDied }
func (UnitStunned) Type() Type   { return TypeUnitStunned }
func (BattleEnded) Type() Type   { return TypeBattleEnded }

func (RoundChanged) isEvent()  {}
func (TurnStarted) isEvent()   {}
func (TurnSkipped) isEvent()   {}
func (ActionStarted) isEvent() {}
func (UnitDamaged) isEvent()   {}
func (UnitHealed) isEvent()    {}
func (UnitDodged) isEvent()    {}
func (UnitDied) isEvent()      {}
func (UnitStunned) isEvent()   {}
func (BattleEnded) isEvent()   {}

// Envelope 事件的传输形态，Seq 在单场战斗内单调递增。
type Envelope struct {
	BattleID int64  `json:"battle_id,omitempty"`
	Seq      uint64 `json:"seq"`
	Type     Type   `json:"type"`
	Payload  Event  `json:"payload"`
}
