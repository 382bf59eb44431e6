package app

import (
	"CardBattle/internal/battle/domain"
	"CardBattle/internal/battle/scheduler"
)

// Snapshot 战斗只读快照，HTTP 查询和批量模拟统计用。
type Snapshot struct {
	State     scheduler.State `json:"state"`
	Round     int             `json:"round"`
	MaxRounds int             `json:"max_rounds"`
	Outcome   domain.Outcome  `json:"outcome"`
	Units     []UnitState     `json:"units"`
	TurnOrder []domain.UnitID `json:"turn_order,omitempty"`
	Pending   *domain.UnitID  `json:"pending,omitempty"`
}

type UnitState struct {
	domain.UnitView
	Strategy string `json:"strategy"`
}

// Alive 某方存活单位数。
func (s Snapshot) Alive(side domain.Side) int {
	n := 0
	for _, u := range s.Units {
		if u.Position.Side == side && u.Alive {
			n++
		}
	}
	return n
}
