package actors

import (
	"CardBattle/internal/battle/catalogue"
	"CardBattle/internal/shared/serverconfig"
	"CardBattle/modules/kit/logx"
)

// Deps 战斗 actor 共享的只读依赖。
type Deps struct {
	Catalogue *catalogue.Catalogue
	Battle    serverconfig.BattleConfig
	Logger    logx.Logger
}
