package dto

import "CardBattle/internal/battle/app"

type CreateBattleReq struct {
	Formation string `json:"formation"`
}

type CreateBattleResp struct {
	BattleID int64        `json:"battle_id,string"`
	Battle   app.Snapshot `json:"battle"`
}

type StrategyEntry struct {
	Name string `json:"name" binding:"required"`
	Uses int    `json:"uses"`
}

// PlaceUnitReq Auto 为 true 时忽略 row/column，落到该方第一个空位。
type PlaceUnitReq struct {
	Template            string          `json:"template" binding:"required"`
	Side                string          `json:"side" binding:"required"`
	Row                 int             `json:"row"`
	Column              int             `json:"column"`
	Auto                bool            `json:"auto"`
	Strategies          []StrategyEntry `json:"strategies"`
	RandomizeAfterCycle bool            `json:"randomize_after_cycle"`
}

type StunReq struct {
	Turns int `json:"turns" binding:"required"`
}

// StartBattleReq MaxRounds 为 0 取服务缺省。
type StartBattleReq struct {
	MaxRounds int `json:"max_rounds"`
}
