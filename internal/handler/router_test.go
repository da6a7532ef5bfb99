package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/people-person/internal/handler/game"
	"github.com/zhouzirui/people-person/internal/model/score"
	"github.com/zhouzirui/people-person/internal/service/session"
)

type idleOracle struct{ session.Oracle }

func newTestRouter() http.Handler {
	scores := score.NewMemoryStore(map[string]int{"Bob": 4})
	engine := session.NewEngine(idleOracle{}, scores, session.Options{Player: "Alice"})
	return NewRouter(game.New(engine, scores, 30, nil), nil)
}

func TestHealthz(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAPIRoutesMounted(t *testing.T) {
	r := newTestRouter()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"player":"Alice"`)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[{"name":"Bob","score":4}]`, resp.Body.String())
}

func TestInputBeforeCallerIsConflict(t *testing.T) {
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/input", strings.NewReader(`{"text":"hello"}`))
	newTestRouter().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)
}
