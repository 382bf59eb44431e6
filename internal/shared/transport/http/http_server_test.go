package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"CardBattle/internal/shared/transport/http/dto"

	"github.com/gin-gonic/gin"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

type pingModule struct{}

func (pingModule) HttpRegister(g *gin.RouterGroup) {
	g.GET("/ping", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, dto.Success(0, "pong"))
	})
}

func TestServer_Register挂载模块路由(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil)
	s.Register(pingModule{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/ping", nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCors_预检请求直接返回(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil, "http://localhost:5173")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("got=%d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin=%q", got)
	}
}
