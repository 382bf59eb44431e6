package http

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"strconv"

	"CardBattle/internal/battle/actor"
	"CardBattle/internal/battle/interfaces/handler"
	"CardBattle/internal/battle/interfaces/handler/http/dto"
	"CardBattle/internal/shared/actor/messages"
	"CardBattle/internal/shared/transport"
	transportdto "CardBattle/internal/shared/transport/http/dto"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	battle *handler.Battle
}

func NewHttpHandler(b *handler.Battle) *HttpHandler {
	return &HttpHandler{battle: b}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	g := group.Group("/battles")
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Close)
	g.POST("/:id/units", h.PlaceUnit)
	g.DELETE("/:id/units/:unit", h.RemoveUnit)
	g.POST("/:id/units/:unit/stun", h.Stun)
	g.POST("/:id/start", h.Start)
	g.POST("/:id/stop", h.Stop)
	g.POST("/:id/ack", h.Ack)
	g.POST("/:id/reset", h.Reset)
}

func (h *HttpHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBattleReq
	if !h.bindOptional(c, &req) {
		return
	}
	id, snap, err := h.battle.Runtime.Create(ctx, req.Formation)
	if err != nil {
		h.error(ctx, c, "battle create", err)
		return
	}
	h.ok(c, dto.CreateBattleResp{BattleID: id, Battle: snap})
}

func (h *HttpHandler) Get(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	snap, err := h.battle.Runtime.Snapshot(ctx, id)
	if err != nil {
		h.error(ctx, c, "battle snapshot", err)
		return
	}
	h.ok(c, snap)
}

func (h *HttpHandler) Close(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	h.ask(ctx, c, "battle close", &messages.CloseBattle{BattleBaseMessage: actor.Base(ctx, id)})
}

func (h *HttpHandler) PlaceUnit(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	var req dto.PlaceUnitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	msg := &messages.PlaceUnit{
		BattleBaseMessage:   actor.Base(ctx, id),
		Template:            req.Template,
		Side:                req.Side,
		Row:                 req.Row,
		Column:              req.Column,
		AutoPosition:        req.Auto,
		RandomizeAfterCycle: req.RandomizeAfterCycle,
	}
	for _, e := range req.Strategies {
		msg.Strategies = append(msg.Strategies, messages.StrategyEntry{Name: e.Name, Uses: e.Uses})
	}
	h.ask(ctx, c, "battle place unit", msg)
}

func (h *HttpHandler) RemoveUnit(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	h.ask(ctx, c, "battle remove unit", &messages.RemoveUnit{BattleBaseMessage: actor.Base(ctx, id), UnitID: c.Param("unit")})
}

func (h *HttpHandler) Stun(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	var req dto.StunReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	h.ask(ctx, c, "battle stun unit", &messages.StunUnit{BattleBaseMessage: actor.Base(ctx, id), UnitID: c.Param("unit"), Turns: req.Turns})
}

func (h *HttpHandler) Start(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	var req dto.StartBattleReq
	if !h.bindOptional(c, &req) {
		return
	}
	h.ask(ctx, c, "battle start", &messages.StartBattle{BattleBaseMessage: actor.Base(ctx, id), MaxRounds: req.MaxRounds})
}

func (h *HttpHandler) Stop(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	h.ask(ctx, c, "battle stop", &messages.StopBattle{BattleBaseMessage: actor.Base(ctx, id)})
}

func (h *HttpHandler) Ack(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	h.ask(ctx, c, "battle ack", &messages.AckAction{BattleBaseMessage: actor.Base(ctx, id)})
}

func (h *HttpHandler) Reset(c *gin.Context) {
	ctx, id, ok := h.battleCtx(c)
	if !ok {
		return
	}
	h.ask(ctx, c, "battle reset", &messages.ResetBattle{BattleBaseMessage: actor.Base(ctx, id)})
}

func (h *HttpHandler) ask(ctx context.Context, c *gin.Context, action string, msg messages.BattleMessage) {
	data, err := h.battle.Runtime.Ask(ctx, msg)
	if err != nil {
		h.error(ctx, c, action, err)
		return
	}
	h.ok(c, data)
}

// battleCtx 解析路径上的战斗 id 并写进 ctx。
func (h *HttpHandler) battleCtx(c *gin.Context) (context.Context, int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, transport.InvalidParam, "战斗 id 有误")
		return nil, 0, false
	}
	return transport.WithBattle(c.Request.Context(), id), id, true
}

// bindOptional 请求体可以为空。
func (h *HttpHandler) bindOptional(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, transport.InvalidParam, "参数有误")
		return false
	}
	return true
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, transportdto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, transportdto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg := handler.HandleError(ctx, h.battle.Log, action, err)
	h.fail(c, code, msg)
}
