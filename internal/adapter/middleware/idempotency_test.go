package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, ttl, nil))
	e.POST("/expenses", handler)
	e.GET("/expenses", handler) // non-mutating bypass
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func validHeaders() map[string]string {
	return map[string]string{
		HeaderRequestID:  strings.Repeat("a", 32),
		HeaderRequestAt:  time.Now().UTC().Format(time.RFC3339),
		HeaderActingUser: strings.Repeat("b", 32),
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/expenses", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	cases := []struct {
		name   string
		mutate func(h map[string]string)
	}{
		{"missing request id", func(h map[string]string) { delete(h, HeaderRequestID) }},
		{"invalid request id", func(h map[string]string) { h[HeaderRequestID] = "NOT-VALID" }},
		{"invalid request at", func(h map[string]string) { h[HeaderRequestAt] = "not-a-time" }},
		{"request at skewed", func(h map[string]string) {
			h[HeaderRequestAt] = time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)
		}},
		{"missing acting user", func(h map[string]string) { delete(h, HeaderActingUser) }},
		{"invalid acting user", func(h map[string]string) { h[HeaderActingUser] = "not32hex" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := validHeaders()
			tc.mutate(h)
			rec := doReq(t, e, http.MethodPost, "/expenses", mkJSONBody(t, map[string]int{"x": 1}), h)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	h := validHeaders()

	rec1 := doReq(t, e, http.MethodPost, "/expenses", mkJSONBody(t, map[string]any{"amount": 125.50}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	// same headers & body -> replay of the stored response
	rec2 := doReq(t, e, http.MethodPost, "/expenses", mkJSONBody(t, map[string]any{"amount": 125.50}), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	h := validHeaders()
	body := []byte(`{"x":1}`)

	// Seed a provisional in-progress entry so the SetNX lock is taken
	key := buildKey(http.MethodPost, "/expenses", h[HeaderActingUser], h[HeaderRequestID])
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash(body),
		RequestID:   h[HeaderRequestID],
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/expenses", bytes.NewReader(body), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	h := validHeaders()
	body1 := []byte(`{"x":1}`)
	body2 := []byte(`{"x":2}`)

	// Seed a final entry carrying body1's hash, then replay with body2
	key := buildKey(http.MethodPost, "/expenses", h[HeaderActingUser], h[HeaderRequestID])
	final := idempEntry{
		InProgress:  false,
		Code:        http.StatusCreated,
		Body:        []byte(`{"ok":true}`),
		BodySHA256:  bodyHash(body1),
		RequestID:   h[HeaderRequestID],
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/expenses", bytes.NewReader(body2), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same reqID => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// Client pointing at a closed port: SetNX errors and the request fails fast
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	e := setupEcho(rdb, time.Minute, okCreatedHandler)

	rec := doReq(t, e, http.MethodPost, "/expenses", bytes.NewReader([]byte(`{}`)), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
