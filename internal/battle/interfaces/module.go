package interfaces

import (
	"CardBattle/internal/battle/interfaces/handler"
	"CardBattle/internal/battle/interfaces/handler/http"
	battlews "CardBattle/internal/battle/interfaces/handler/ws"
	transporthttp "CardBattle/internal/shared/transport/http"
	"CardBattle/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *battlews.WsHandler
	httpHandler *http.HttpHandler
}

func New(rt handler.Runtime, l logx.Logger, eventBuffer int) *Module {
	battle := handler.NewBattle(rt, l, eventBuffer)
	return &Module{
		wsHandler:   battlews.NewWsHandler(battle),
		httpHandler: http.NewHttpHandler(battle),
	}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
	m.wsHandler.RegisterHTTP(g)
}

var _ transporthttp.Registrar = (*Module)(nil)
