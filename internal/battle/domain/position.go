package domain

import (
	"fmt"
	"strings"
)

const (
	Rows    = 2
	Columns = 3
)

// Side 把棋盘划分为两个独立的 2x3 子棋盘。
type Side uint8

const (
	Player Side = iota
	Enemy
)

func (s Side) Opponent() Side {
	if s == Player {
		return Enemy
	}
	return Player
}

func (s Side) Valid() bool {
	return s == Player || s == Enemy
}

// FrontRow 靠近对方的一行：Player 为 1，Enemy 为 0，双方前排相对。
func (s Side) FrontRow() int {
	if s == Player {
		return 1
	}
	return 0
}

func (s Side) BackRow() int {
	return 1 - s.FrontRow()
}

func (s Side) String() string {
	switch s {
	case Player:
		return "player"
	case Enemy:
		return "enemy"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player":
		return Player, true
	case "enemy":
		return Enemy, true
	}
	return 0, false
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	v, ok := ParseSide(string(b))
	if !ok {
		return fmt.Errorf("unknown side %q", b)
	}
	*s = v
	return nil
}

// Position 棋盘坐标，可比较，可直接作 map key。
type Position struct {
	Row    int  `json:"row" yaml:"row"`
	Column int  `json:"column" yaml:"column"`
	Side   Side `json:"side" yaml:"side"`
}

func NewPosition(side Side, row, column int) Position {
	return Position{Row: row, Column: column, Side: side}
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < Rows && p.Column >= 0 && p.Column < Columns && p.Side.Valid()
}

func (p Position) IsFront() bool {
	return p.Row == p.Side.FrontRow()
}

func (p Position) String() string {
	return fmt.Sprintf("%s(%d,%d)", p.Side, p.Row, p.Column)
}

// SidePositions 按行优先返回某一方全部 6 个坐标。
func SidePositions(side Side) []Position {
	out := make([]Position, 0, Rows*Columns)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			out = append(out, NewPosition(side, r, c))
		}
	}
	return out
}
