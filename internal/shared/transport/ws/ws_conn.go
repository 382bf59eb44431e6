package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"CardBattle/modules/kit/logx"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// 跨域由 http 层 Cors 控制
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WsConn 一个 websocket 连接：读协程解析 JSON 帧并分发，写协程串行写出。
type WsConn struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	log       logx.Logger
}

// Upgrade 把 HTTP 请求升级为 WsConn；调用方设置属性后再调用 Run。
func Upgrade(w http.ResponseWriter, r *http.Request, router *Router, l logx.Logger, buffer int) (*WsConn, error) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewWsConn(c, router, l, buffer), nil
}

func NewWsConn(wsConn *websocket.Conn, router *Router, l logx.Logger, buffer int) *WsConn {
	if buffer <= 0 {
		buffer = 256
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WsConn{
		conn:     wsConn,
		router:   router,
		outChan:  make(chan *WsMsgResp, buffer),
		property: make(map[string]any),
		ctx:      ctx,
		cancel:   cancel,
		log:      logx.OrNop(l),
	}
}

func (s *WsConn) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsConn) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsConn) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsConn) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsConn) Push(name string, data any) bool {
	return s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsConn) enqueue(msg *WsMsgResp) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	select {
	case s.outChan <- msg:
		return true
	default:
		s.log.Warn("ws_conn out buffer full, drop msg", zap.String("name", msg.Body.Name), zap.String("addr", s.Addr()))
		return false
	}
}

// Run 启动读写协程，不阻塞。
func (s *WsConn) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsConn) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	s.conn.SetReadLimit(64 * 1024)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("ws_conn read msg", zap.Error(err))
			}
			return
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			s.log.Warn("ws_conn unmarshal json error", zap.Error(err))
			continue
		}

		req := WsMsgReq{Body: &reqBody, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else if s.router != nil {
			s.router.Dispatch(s.ctx, &req, &resp)
		}
		s.enqueue(&resp)
	}
}

func (s *WsConn) writeMsgLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-s.outChan:
			if err := s.write(msg); err != nil {
				s.log.Warn("ws_conn write error", zap.Error(err))
				s.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *WsConn) write(msg *WsMsgResp) error {
	data, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_conn marshal json error", zap.Error(err), zap.String("name", msg.Body.Name))
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *WsConn) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		_ = s.conn.Close()
	})
}

func (s *WsConn) Done() <-chan struct{} {
	return s.ctx.Done()
}

var _ WSConn = (*WsConn)(nil)
