package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"CardBattle/internal/shared/transport"
	"CardBattle/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// codeSniffer 只缓存响应体前 maxSniff 字节，够解析开头的 code 字段。
type codeSniffer struct {
	gin.ResponseWriter
	head bytes.Buffer
}

const maxSniff = 512

func (w *codeSniffer) Write(data []byte) (int, error) {
	w.keep(data)
	return w.ResponseWriter.Write(data)
}

func (w *codeSniffer) WriteString(s string) (int, error) {
	w.keep([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *codeSniffer) keep(data []byte) {
	if room := maxSniff - w.head.Len(); room > 0 {
		w.head.Write(data[:min(room, len(data))])
	}
}

// AccessLog 每个请求一条访问日志；业务码取自响应体 {"code":...}，
// 取不到时按 HTTP 状态推断。升级为 websocket 的请求只记握手。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		w := &codeSniffer{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := c.Writer.Status()
		transport.SetStatus(ctx, status)
		switch code, ok := sniffBizCode(w.head.Bytes()); {
		case ok:
			transport.SetBizCode(ctx, transport.BizCode(code))
		case status == http.StatusSwitchingProtocols || status < http.StatusBadRequest:
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		default:
			transport.SetBizCode(ctx, transport.BizCode(transport.SystemError))
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func sniffBizCode(body []byte) (int, bool) {
	if len(body) == 0 || body[0] != '{' {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return 0, false
	}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return 0, false
		}
		if key == "code" {
			var code int
			if err := dec.Decode(&code); err != nil {
				return 0, false
			}
			return code, true
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return 0, false
		}
	}
	return 0, false
}
