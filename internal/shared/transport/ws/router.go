package ws

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"CardBattle/internal/shared/transport"
	"CardBattle/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Router 按消息名 "组.动作" 分发上行消息，例如 battle.ack。
type Router struct {
	routes map[string]HandlerFunc
	log    logx.Logger
}

// Group 同一前缀下的路由注册器。
type Group struct {
	prefix string
	r      *Router
}

func NewRouter(l logx.Logger) *Router {
	return &Router{routes: make(map[string]HandlerFunc), log: logx.OrNop(l)}
}

func (r *Router) Group(prefix string) *Group {
	return &Group{prefix: prefix, r: r}
}

// Handle 重复注册或名字里带 "." 直接 panic，属于启动期编程错误。
func (g *Group) Handle(name string, h HandlerFunc) {
	route := g.prefix + "." + name
	if _, _, ok := splitRoute(route); !ok || h == nil {
		panic(fmt.Sprintf("ws: invalid route %q", route))
	}
	if _, dup := g.r.routes[route]; dup {
		panic(fmt.Sprintf("ws: route %q registered twice", route))
	}
	g.r.routes[route] = h
}

// Routes 已注册的路由名，按字典序。
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for k := range r.routes {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Dispatch 每条消息一条访问日志；handler 未回填业务码时按系统错误记。
func (r *Router) Dispatch(parent context.Context, req *WsMsgReq, resp *WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	name := ""
	if req != nil && req.Body != nil {
		name = req.Body.Name
	}
	ctx := transport.NewRequestContext(parent, transport.ProtoWS, "WS "+name)
	resp.Body.Code, resp.Body.Msg = transport.SystemError, nil
	defer func() {
		transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
		transport.WriteAccessLog(ctx, r.log)
	}()

	if req == nil || req.Body == nil {
		resp.Body.Code, resp.Body.Msg = transport.InvalidParam, "参数有误"
		return
	}
	if _, _, ok := splitRoute(name); !ok {
		resp.Body.Code, resp.Body.Msg = transport.InvalidParam, "路由参数有误"
		return
	}
	h := r.routes[name]
	if h == nil {
		resp.Body.Code, resp.Body.Msg = transport.InvalidParam, "路由不存在"
		return
	}
	h(ctx, req, resp)
}

func splitRoute(name string) (string, string, bool) {
	group, action, ok := strings.Cut(name, ".")
	if !ok || group == "" || action == "" || strings.Contains(action, ".") {
		return "", "", false
	}
	return group, action, true
}
