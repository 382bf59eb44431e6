package domain

// Board 位置到单位的映射，另维护 id 反查。
// 不做并发保护，只由调度器所在的控制流修改。
type Board struct {
	cells map[Position]*Unit
	index map[UnitID]*Unit
}

func NewBoard() *Board {
	return &Board{
		cells: make(map[Position]*Unit, Rows*Columns*2),
		index: make(map[UnitID]*Unit, Rows*Columns*2),
	}
}

// Place 放置单位；失败时棋盘不变。
func (b *Board) Place(u *Unit, pos Position) error {
	if !pos.Valid() {
		return ErrInvalidPosition.WithData("position", pos.String())
	}
	if u == nil || u.ID == "" {
		return ErrInvalidUnit
	}
	if occupant, ok := b.cells[pos]; ok {
		return ErrPositionOccupied.WithData("position", pos.String()).WithData("occupant", string(occupant.ID))
	}
	if _, ok := b.index[u.ID]; ok {
		return ErrUnitAlreadyPlaced.WithData("unit_id", string(u.ID))
	}
	u.Position = pos
	b.cells[pos] = u
	b.index[u.ID] = u
	return nil
}

// Remove 按 id 移除，不在棋盘上时什么都不做。
func (b *Board) Remove(u *Unit) {
	if u == nil {
		return
	}
	placed, ok := b.index[u.ID]
	if !ok {
		return
	}
	delete(b.cells, placed.Position)
	delete(b.index, u.ID)
}

func (b *Board) At(pos Position) (*Unit, bool) {
	u, ok := b.cells[pos]
	return u, ok
}

func (b *Board) PositionOf(u *Unit) (Position, bool) {
	if u == nil {
		return Position{}, false
	}
	placed, ok := b.index[u.ID]
	if !ok {
		return Position{}, false
	}
	return placed.Position, true
}

func (b *Board) Unit(id UnitID) (*Unit, bool) {
	u, ok := b.index[id]
	return u, ok
}

// Contains 报告该单位（同一指针）是否仍在棋盘上。
func (b *Board) Contains(u *Unit) bool {
	if u == nil {
		return false
	}
	placed, ok := b.index[u.ID]
	return ok && placed == u
}

// Row 某方某行存活且启用的单位，按列升序。
func (b *Board) Row(side Side, row int) []*Unit {
	var out []*Unit
	for c := 0; c < Columns; c++ {
		if u, ok := b.cells[NewPosition(side, row, c)]; ok && u.Eligible() {
			out = append(out, u)
		}
	}
	return out
}

func (b *Board) FrontRow(side Side) []*Unit {
	return b.Row(side, side.FrontRow())
}

func (b *Board) BackRow(side Side) []*Unit {
	return b.Row(side, side.BackRow())
}

// UnitsOnSide 某方存活且启用的单位，先前排后后排。
func (b *Board) UnitsOnSide(side Side) []*Unit {
	return append(b.FrontRow(side), b.BackRow(side)...)
}

// FreePosition 行优先第一个空位。
func (b *Board) FreePosition(side Side) (Position, bool) {
	for _, p := range SidePositions(side) {
		if _, ok := b.cells[p]; !ok {
			return p, true
		}
	}
	return Position{}, false
}

// All 棋盘上全部单位（含阵亡），Player 在前，各自行优先。
func (b *Board) All() []*Unit {
	out := make([]*Unit, 0, len(b.cells))
	for _, side := range []Side{Player, Enemy} {
		for _, p := range SidePositions(side) {
			if u, ok := b.cells[p]; ok {
				out = append(out, u)
			}
		}
	}
	return out
}

func (b *Board) Len() int {
	return len(b.cells)
}

func (b *Board) Clear() {
	clear(b.cells)
	clear(b.index)
}
