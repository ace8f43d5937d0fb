package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(mw gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders_GeolocationAllowedForSelf(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := serve(SecurityHeaders(), req)

	policy := w.Header().Get("Permissions-Policy")
	if !strings.Contains(policy, "geolocation=(self)") {
		t.Fatalf("打卡依赖浏览器定位，Permissions-Policy 应放开本站 geolocation，实际 = %q", policy)
	}
	if !strings.Contains(policy, "camera=()") || !strings.Contains(policy, "microphone=()") {
		t.Fatalf("其余能力应保持禁用，实际 = %q", policy)
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatal("X-Frame-Options 应为 DENY")
	}
}

func TestCORS_ExposesDownloadHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.jornixs.com")
	w := serve(CORS([]string{"https://app.jornixs.com"}), req)

	if w.Header().Get("Access-Control-Allow-Origin") != "https://app.jornixs.com" {
		t.Fatal("白名单来源应被放行")
	}
	exposed := w.Header().Get("Access-Control-Expose-Headers")
	if !strings.Contains(exposed, "Content-Disposition") {
		t.Fatalf("导出下载需要前端可读 Content-Disposition，实际 = %q", exposed)
	}
	if !strings.Contains(exposed, "X-Request-ID") {
		t.Fatalf("追踪 ID 应对前端可见，实际 = %q", exposed)
	}
}

func TestCORS_UnknownOriginRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := serve(CORS([]string{"https://app.jornixs.com"}), req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("未知来源不应出现在 Allow-Origin 中")
	}
}

func TestRequestID_GeneratedAndReadable(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = RequestIDFrom(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seen == "" {
		t.Fatal("未传入时应自动生成追踪 ID")
	}
	if w.Header().Get("X-Request-ID") != seen {
		t.Fatal("响应头应回写同一个追踪 ID")
	}

	// 传入合法 ID 时原样透传
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "trace-abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if seen != "trace-abc-123" {
		t.Fatalf("合法追踪 ID 应透传，实际 = %q", seen)
	}
}
