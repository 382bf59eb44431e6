package ws

import (
	"context"
	nethttp "net/http"
	"strconv"

	"CardBattle/internal/battle/actor"
	"CardBattle/internal/battle/actors"
	"CardBattle/internal/battle/interfaces/handler"
	"CardBattle/internal/shared/actor/messages"
	"CardBattle/internal/shared/transport"
	transportdto "CardBattle/internal/shared/transport/http/dto"
	"CardBattle/internal/shared/transport/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ConnKeyBattleID 连接上绑定的战斗 id
	ConnKeyBattleID = "battle_id"
	// EventMsg 服务端推送事件帧的名字
	EventMsg = "battle.event"
)

// AckReq 客户端确认帧，Seq 为可选的事件序号，仅用于日志。
type AckReq struct {
	Seq uint64 `json:"seq"`
}

type WsHandler struct {
	battle *handler.Battle
	router *ws.Router
}

func NewWsHandler(b *handler.Battle) *WsHandler {
	h := &WsHandler{battle: b, router: ws.NewRouter(b.Log)}
	h.RegisterRoutes(h.router)
	return h
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	g := r.Group("battle")
	g.Handle("ack", h.ack)
	g.Handle("snapshot", h.snapshot)
}

// RegisterHTTP 事件流入口：GET /battles/:id/events 升级为 websocket。
func (h *WsHandler) RegisterHTTP(group *gin.RouterGroup) {
	group.GET("/battles/:id/events", h.Events)
}

func (h *WsHandler) Events(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(nethttp.StatusOK, transportdto.Error(transport.InvalidParam, "战斗 id 有误"))
		return
	}
	ctx := transport.WithBattle(c.Request.Context(), id)

	watch, err := h.battle.Runtime.Watch(ctx, id)
	if err != nil {
		code, msg := handler.HandleError(ctx, h.battle.Log, "battle watch", err)
		c.JSON(nethttp.StatusOK, transportdto.Error(code, msg))
		return
	}

	conn, err := ws.Upgrade(c.Writer, c.Request, h.router, h.battle.Log, h.battle.EventBuffer)
	if err != nil {
		watch.Cancel()
		h.battle.Log.WithContext(ctx).Warn("battle ws upgrade failed", zap.Error(err))
		return
	}
	conn.SetProperty(ConnKeyBattleID, id)
	conn.Run()
	go h.pump(ctx, conn, watch)
}

// pump 把事件流写到连接上，任一端结束即收尾。
func (h *WsHandler) pump(ctx context.Context, conn ws.WSConn, watch *actors.Watch) {
	defer watch.Cancel()
	l := h.battle.Log.WithContext(ctx)
	for {
		select {
		case env, ok := <-watch.Events:
			if !ok {
				conn.Close()
				return
			}
			if !conn.Push(EventMsg, env) {
				l.Warn("battle ws frame dropped, send buffer full",
					zap.Uint64("seq", env.Seq), zap.String("type", string(env.Type)))
			}
		case <-conn.Done():
			return
		}
	}
}

func (h *WsHandler) ack(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, ok := battleIDOf(wsReq)
	if !ok {
		h.fail(wsResp, transport.InvalidParam, "连接未绑定战斗")
		return
	}
	var req AckReq
	if wsReq.Body.Msg != nil {
		if err := ws.Bind(wsReq, &req); err != nil {
			h.fail(wsResp, transport.InvalidParam, "参数有误")
			return
		}
	}
	ctx = transport.WithBattle(ctx, id)
	data, err := h.battle.Runtime.Ask(ctx, &messages.AckAction{BattleBaseMessage: actor.Base(ctx, id)})
	if err != nil {
		h.error(ctx, wsResp, "battle ws ack", err, zap.Uint64("seq", req.Seq))
		return
	}
	h.ok(wsResp, data)
}

func (h *WsHandler) snapshot(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, ok := battleIDOf(wsReq)
	if !ok {
		h.fail(wsResp, transport.InvalidParam, "连接未绑定战斗")
		return
	}
	ctx = transport.WithBattle(ctx, id)
	snap, err := h.battle.Runtime.Snapshot(ctx, id)
	if err != nil {
		h.error(ctx, wsResp, "battle ws snapshot", err)
		return
	}
	h.ok(wsResp, snap)
}

func battleIDOf(wsReq *ws.WsMsgReq) (int64, bool) {
	if wsReq == nil || wsReq.Conn == nil {
		return 0, false
	}
	id, ok := wsReq.Conn.GetProperty(ConnKeyBattleID).(int64)
	return id, ok && id > 0
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, action string, err error, fields ...zap.Field) {
	if len(fields) > 0 {
		h.battle.Log.WithContext(ctx).Debug(action+" failed", fields...)
	}
	code, msg := handler.HandleError(ctx, h.battle.Log, action, err)
	h.fail(resp, code, msg)
}
