package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/config"
	"github.com/iliyamo/vaani/internal/logger"
	"github.com/iliyamo/vaani/internal/model"
	"github.com/iliyamo/vaani/internal/testutil"
)

const secret = "test-secret"

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func whoami(c echo.Context) error {
	id, ok := CurrentIdentity(c)
	if !ok {
		return c.String(http.StatusOK, "anonymous")
	}
	return c.String(http.StatusOK, id.Username)
}

func TestSessionAuth_RejectsMissingCookie(t *testing.T) {
	e := echo.New()
	e.GET("/api", whoami, SessionAuth(secret))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Unauthorized"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestSessionAuth_RejectsForeignSignature(t *testing.T) {
	e := echo.New()
	e.GET("/api", whoami, SessionAuth(secret))

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.AddCookie(testutil.SessionCookie(t, "other-secret", 1, "meera"))
	if rec := serve(e, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSessionAuth_SetsIdentity(t *testing.T) {
	e := echo.New()
	e.GET("/api", whoami, SessionAuth(secret))

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.AddCookie(testutil.SessionCookie(t, secret, 42, "meera"))
	rec := serve(e, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "meera" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSessionPage_RedirectsToLogin(t *testing.T) {
	e := echo.New()
	e.GET("/dashboard", whoami, SessionPage(secret))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("got %d location=%q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestOptionalSession_AllowsAnonymous(t *testing.T) {
	e := echo.New()
	e.GET("/", whoami, OptionalSession(secret))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestCurrentIdentity_IgnoresZeroUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetIdentity(c, model.Identity{})
	if _, ok := CurrentIdentity(c); ok {
		t.Fatalf("zero identity must not count as a session")
	}
}

func TestRequestLogger_AssignsAndPropagatesID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/x", func(c echo.Context) error {
		logger.FromContext(c.Request().Context()).Info("inside handler")
		return c.NoContent(http.StatusNoContent)
	})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
	rid := rec.Header().Get(RequestIDHeader)
	if rid == "" {
		t.Fatalf("no request id assigned")
	}
	out := buf.String()
	if strings.Count(out, `"request_id":"`+rid+`"`) != 2 {
		t.Fatalf("request id not on both log lines:\n%s", out)
	}
	if !strings.Contains(out, `"status":204`) {
		t.Fatalf("completion line missing status:\n%s", out)
	}
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	if got := serve(e, req).Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestRequestLogger_LogsErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(buf.String(), `"level":"ERROR"`) || !strings.Contains(buf.String(), `"status":502`) {
		t.Fatalf("log = %s", buf.String())
	}
}

func TestNewTokenBucket_PassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1}
	e.POST("/process-text", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, nil))

	for i := 0; i < 3; i++ {
		if rec := serve(e, httptest.NewRequest(http.MethodPost, "/process-text", nil)); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/process-audio", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/process-audio")
	SetIdentity(c, model.Identity{UserID: 9, Username: "meera"})

	cfg := config.RateLimitConfig{Prefix: "vaani:rl", KeyStrategy: "user_route"}
	if got, want := buildRateKey(cfg, c), "vaani:rl:user:9:route:POST /process-audio"; got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
	cfg.KeyStrategy = "user"
	if got := buildRateKey(cfg, c); got != "vaani:rl:user:9" {
		t.Fatalf("key = %q", got)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	for ms, want := range map[int64]int{0: 0, 1: 1, 1000: 1, 1001: 2, -5: 0} {
		if got := retryAfterSeconds(ms); got != want {
			t.Fatalf("retryAfterSeconds(%d) = %d, want %d", ms, got, want)
		}
	}
}
