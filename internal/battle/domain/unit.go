package domain

import (
	"fmt"
	"strings"
)

type Archetype uint8

const (
	Warrior Archetype = iota
	Archer
	Mage
	Assassin
	Healer
)

var archetypeNames = [...]string{"warrior", "archer", "mage", "assassin", "healer"}

func (a Archetype) String() string {
	if int(a) < len(archetypeNames) {
		return archetypeNames[a]
	}
	return fmt.Sprintf("archetype(%d)", uint8(a))
}

func ParseArchetype(s string) (Archetype, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range archetypeNames {
		if n == s {
			return Archetype(i), true
		}
	}
	return 0, false
}

func (a Archetype) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Archetype) UnmarshalText(b []byte) error {
	v, ok := ParseArchetype(string(b))
	if !ok {
		return fmt.Errorf("unknown archetype %q", b)
	}
	*a = v
	return nil
}

// Stats 单位数值。CritChance/DodgeChance 取值 [0,1]。
type Stats struct {
	Health      int     `json:"health" yaml:"health"`
	MaxHealth   int     `json:"max_health" yaml:"max_health"`
	Attack      int     `json:"attack" yaml:"attack"`
	Speed       int     `json:"speed" yaml:"speed"`
	CritChance  float64 `json:"crit_chance" yaml:"crit_chance"`
	DodgeChance float64 `json:"dodge_chance" yaml:"dodge_chance"`
	Armor       int     `json:"armor" yaml:"armor"`
	Resilience  int     `json:"resilience" yaml:"resilience"`
}

func DefaultStats() Stats {
	return Stats{
		Health:      100,
		MaxHealth:   100,
		Attack:      20,
		Speed:       5,
		CritChance:  0.1,
		DodgeChance: 0.05,
		Armor:       5,
		Resilience:  10,
	}
}

// Normalize 修正缺失或越界的数值：MaxHealth 缺省取 Health，Health 缺省满血。
func (s Stats) Normalize() Stats {
	if s.MaxHealth <= 0 {
		s.MaxHealth = max(s.Health, 1)
	}
	if s.Health <= 0 || s.Health > s.MaxHealth {
		s.Health = s.MaxHealth
	}
	s.CritChance = clamp01(s.CritChance)
	s.DodgeChance = clamp01(s.DodgeChance)
	s.Armor = max(s.Armor, 0)
	return s
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

type UnitID string

// Unit 战斗单位。死亡只是 Health 归零，从不销毁。
type Unit struct {
	ID        UnitID
	Name      string
	Archetype Archetype
	Stats     Stats
	Position  Position
	StunTurns int
	Enabled   bool
}

func NewUnit(id UnitID, name string, archetype Archetype, stats Stats) *Unit {
	return &Unit{
		ID:        id,
		Name:      name,
		Archetype: archetype,
		Stats:     stats.Normalize(),
		Enabled:   true,
	}
}

func (u *Unit) Alive() bool {
	return u != nil && u.Stats.Health > 0
}

// Eligible 存活且启用，才会进入出手顺序和目标选择。
func (u *Unit) Eligible() bool {
	return u.Alive() && u.Enabled
}

func (u *Unit) Stunned() bool {
	return u != nil && u.StunTurns > 0
}

func (u *Unit) IsHealer() bool {
	return u != nil && u.Archetype == Healer
}

func (u *Unit) Wounded() bool {
	return u.Alive() && u.Stats.Health < u.Stats.MaxHealth
}

// HealthRatio 当前血量占比，治疗按它升序选目标。
func (u *Unit) HealthRatio() float64 {
	if u.Stats.MaxHealth <= 0 {
		return 0
	}
	return float64(u.Stats.Health) / float64(u.Stats.MaxHealth)
}

// TakeDamage 扣血并返回是否因此死亡。
func (u *Unit) TakeDamage(amount int) (died bool) {
	if !u.Alive() || amount <= 0 {
		return false
	}
	u.Stats.Health = max(u.Stats.Health-amount, 0)
	return u.Stats.Health == 0
}

// Restore 回血，不超过上限，返回实际回复量。
func (u *Unit) Restore(amount int) int {
	if !u.Alive() || amount <= 0 {
		return 0
	}
	actual := min(amount, u.Stats.MaxHealth-u.Stats.Health)
	u.Stats.Health += actual
	return actual
}

// Stun 眩晕 turns 个回合，与剩余回合取大。
func (u *Unit) Stun(turns int) {
	if turns > u.StunTurns {
		u.StunTurns = turns
	}
}

// ConsumeStun 眩晕单位跳过一次出手时调用。
func (u *Unit) ConsumeStun() {
	if u.StunTurns > 0 {
		u.StunTurns--
	}
}

func (u *Unit) Side() Side {
	return u.Position.Side
}

func (u *Unit) Ref() UnitRef {
	return UnitRef{ID: u.ID, Name: u.Name, Position: u.Position}
}

func (u *Unit) String() string {
	if u == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s[%s]@%s", u.Name, u.ID, u.Position)
}

// UnitRef 事件里引用单位的轻量形态。
type UnitRef struct {
	ID       UnitID   `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// UnitView 单位只读快照。
type UnitView struct {
	ID        UnitID    `json:"id"`
	Name      string    `json:"name"`
	Archetype Archetype `json:"archetype"`
	Position  Position  `json:"position"`
	Stats     Stats     `json:"stats"`
	Alive     bool      `json:"alive"`
	Enabled   bool      `json:"enabled"`
	StunTurns int       `json:"stun_turns"`
}

func (u *Unit) View() UnitView {
	return UnitView{
		ID:        u.ID,
		Name:      u.Name,
		Archetype: u.Archetype,
		Position:  u.Position,
		Stats:     u.Stats,
		Alive:     u.Alive(),
		Enabled:   u.Enabled,
		StunTurns: u.StunTurns,
	}
}

// Outcome 战斗结果。
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	PlayerWin
	EnemyWin
	Draw
)

func (o Outcome) String() string {
	switch o {
	case PlayerWin:
		return "player_win"
	case EnemyWin:
		return "enemy_win"
	case Draw:
		return "draw"
	default:
		return "none"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
