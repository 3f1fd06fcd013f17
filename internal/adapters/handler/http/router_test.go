package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adapterHTTP "github.com/comitanigiacomo/kanso-tracker/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-tracker/internal/adapters/notify"
)

func TestRouter_Root(t *testing.T) {
	app := setupApp(t, adapterHTTP.RouterDependencies{})

	w := app.do("GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome")
	assert.Contains(t, w.Body.String(), "GET /api/v1/habits/report?date=")
}

func TestRouter_Health(t *testing.T) {
	app := setupApp(t, adapterHTTP.RouterDependencies{StartTime: time.Now().Add(-time.Minute)})

	w := app.do("GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "in-memory", body["database"])
	assert.Equal(t, "disabled", body["redis"])
	assert.NotEmpty(t, body["uptime"])
}

func TestRouter_Metrics(t *testing.T) {
	app := setupApp(t, adapterHTTP.RouterDependencies{})
	app.do("POST", "/api/v1/habits", `{"name": "Water", "daily_goal": 8}`)

	w := app.do("GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `kanso_http_requests_total{method="POST",route="/api/v1/habits",status="201"}`)
	assert.Contains(t, w.Body.String(), "kanso_habits_created_total")
}

func TestRouter_CORSPreflight(t *testing.T) {
	app := setupApp(t, adapterHTTP.RouterDependencies{})

	w := app.do("OPTIONS", "/api/v1/habits", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_LocalRateLimit(t *testing.T) {
	app := setupApp(t, adapterHTTP.RouterDependencies{
		RateLimit:  2,
		RateWindow: time.Minute,
		Logger:     zap.NewNop(),
	})

	assert.Equal(t, http.StatusOK, app.do("GET", "/api/v1/habits", "").Code)
	assert.Equal(t, http.StatusOK, app.do("GET", "/api/v1/habits", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, app.do("GET", "/api/v1/habits", "").Code)
}

func TestRouter_WebSocket(t *testing.T) {
	hub := notify.NewHub(zap.NewNop())
	defer hub.Close()

	app := setupApp(t, adapterHTTP.RouterDependencies{Notifications: hub})
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
}
