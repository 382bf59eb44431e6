package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"CardBattle/internal/shared/transport"
	"CardBattle/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSniffBizCode(t *testing.T) {
	cases := []struct {
		body string
		code int
		ok   bool
	}{
		{`{"code":0,"msg":"ok"}`, 0, true},
		{`{"code":102,"msg":"位置已被占用"}`, 102, true},
		{`{"msg":"x","data":{"code":9},"code":104}`, 104, true},
		{`{"code":105,"data":{"units":[` + strings.Repeat("1,", 400), 105, true},
		{`{"status":"ok"}`, 0, false},
		{`not json`, 0, false},
		{`[1,2]`, 0, false},
		{``, 0, false},
	}
	for _, c := range cases {
		code, ok := sniffBizCode([]byte(c.body))
		if code != c.code || ok != c.ok {
			t.Fatalf("body=%q got=(%d,%v) want=(%d,%v)", c.body, code, ok, c.code, c.ok)
		}
	}
}

func TestAccessLog_带战斗与状态码(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	l := logx.NewZapLogger(zap.New(core))

	r := gin.New()
	r.Use(AccessLog(l))
	r.POST("/battles/:id/ack", func(c *gin.Context) {
		transport.WithBattle(c.Request.Context(), 77)
		c.JSON(http.StatusOK, gin.H{"code": transport.NoPendingAction, "msg": "当前没有待确认的动作"})
	})
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/battles/77/ack", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条访问日志, got=%d", len(entries))
	}
	first := entries[0].ContextMap()
	if entries[0].Level != zapcore.WarnLevel || first["battle_id"] != int64(77) || first["action"] != "POST /battles/:id/ack" {
		t.Fatalf("first=%v level=%v", first, entries[0].Level)
	}
	if first["biz_code"] != int64(transport.NoPendingAction) || first["status"] != int64(http.StatusOK) {
		t.Fatalf("first=%v", first)
	}
	second := entries[1].ContextMap()
	if entries[1].Level != zapcore.ErrorLevel || second["biz_code"] != int64(transport.SystemError) {
		t.Fatalf("second=%v level=%v", second, entries[1].Level)
	}
}
