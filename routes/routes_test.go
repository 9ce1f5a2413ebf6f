package routes

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-scoreboard/brackets"
	"github.com/Dosada05/tournament-scoreboard/handlers"
	"github.com/Dosada05/tournament-scoreboard/metrics"
	"github.com/Dosada05/tournament-scoreboard/middleware"
	"github.com/Dosada05/tournament-scoreboard/repositories"
	"github.com/Dosada05/tournament-scoreboard/services"
)

var secret = []byte("routes-test-secret")

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := brackets.NewHub(logger)
	deps := services.Deps{
		Store:    repositories.NewMemoryBackedStore(),
		Notifier: hub,
		Metrics:  metrics.NewMock(),
		Logger:   logger,
	}

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Bracket:   handlers.NewBracketHandler(services.NewBracketService(deps)),
		Group:     handlers.NewGroupHandler(services.NewGroupService(deps)),
		Survival:  handlers.NewSurvivalHandler(services.NewSurvivalService(deps)),
		Overview:  handlers.NewOverviewHandler(services.NewOverviewService(deps), services.NewExportService(deps, nil)),
		WebSocket: handlers.NewWebSocketHandler(hub, logger),
	}, Options{JWTSecret: secret, AllowedOrigins: []string{"*"}})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.IssueToken(secret, "tester", middleware.RoleAdmin, time.Hour, time.Now())
	require.NoError(t, err)
	return token
}

func call(t *testing.T, srv *httptest.Server, method, path, body, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newServer(t)

	status, env := call(t, srv, http.MethodPost, "/api/admin/competitions/fifa/bracket", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, env = call(t, srv, http.MethodPost, "/api/admin/competitions/fifa/bracket", "", adminToken(t))
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
}

func TestBracketFlowOverHTTP(t *testing.T) {
	srv := newServer(t)
	token := adminToken(t)

	status, _ := call(t, srv, http.MethodPost, "/api/admin/competitions/fifa/bracket", "", token)
	require.Equal(t, http.StatusCreated, status)

	status, _ = call(t, srv, http.MethodPut, "/api/admin/competitions/fifa/matches/L-R16-1/players", `{"player1":"A","player2":"B"}`, token)
	require.Equal(t, http.StatusOK, status)

	status, env := call(t, srv, http.MethodPost, "/api/admin/competitions/fifa/matches/L-R16-1/result", `{"score1":3,"score2":1}`, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "result recorded", env.Message)

	status, env = call(t, srv, http.MethodGet, "/api/competitions/fifa/matches/L-QF-1", "", "")
	require.Equal(t, http.StatusOK, status)
	var qf struct {
		Player1 *string `json:"player1"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &qf))
	require.NotNil(t, qf.Player1)
	assert.Equal(t, "A", *qf.Player1)

	status, env = call(t, srv, http.MethodGet, "/api/competitions/fifa/matches?round=QF", "", "")
	require.Equal(t, http.StatusOK, status)
	var qfs []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &qfs))
	assert.Len(t, qfs, 4)
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newServer(t)
	token := adminToken(t)
	call(t, srv, http.MethodPost, "/api/admin/competitions/fifa/bracket", "", token)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown competition", http.MethodGet, "/api/competitions/golf/matches", "", http.StatusNotFound},
		{"unknown match", http.MethodGet, "/api/competitions/fifa/matches/L-R16-9", "", http.StatusNotFound},
		{"tie score", http.MethodPost, "/api/admin/competitions/fifa/matches/L-R16-1/result", `{"score1":1,"score2":1}`, http.StatusBadRequest},
		{"fractional score", http.MethodPost, "/api/admin/competitions/fifa/matches/L-R16-1/result", `{"score1":1.5,"score2":1}`, http.StatusBadRequest},
		{"missing score", http.MethodPost, "/api/admin/competitions/fifa/matches/L-R16-1/result", `{"score1":1}`, http.StatusBadRequest},
		{"unknown field", http.MethodPut, "/api/admin/competitions/fifa/matches/L-R16-1/players", `{"player1":"A","player2":"B","x":1}`, http.StatusBadRequest},
		{"players missing", http.MethodPost, "/api/admin/competitions/fifa/matches/L-R16-1/result", `{"score1":2,"score2":1}`, http.StatusConflict},
		{"survival not created", http.MethodGet, "/api/survival", "", http.StatusNotFound},
		{"uploads disabled", http.MethodPost, "/api/admin/competitions/fifa/exports/standings", "", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := ""
			if strings.HasPrefix(tt.path, "/api/admin") {
				auth = token
			}
			status, env := call(t, srv, tt.method, tt.path, tt.body, auth)
			assert.Equal(t, tt.want, status)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestSurvivalOverHTTP(t *testing.T) {
	srv := newServer(t)
	token := adminToken(t)

	status, _ := call(t, srv, http.MethodPost, "/api/admin/survival/reset", "", token)
	require.Equal(t, http.StatusCreated, status)

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		status, _ := call(t, srv, http.MethodPost, "/api/admin/survival/players", `{"name":"`+name+`"}`, token)
		require.Equal(t, http.StatusCreated, status)
	}
	for name, score := range map[string]string{"a": "10", "b": "8", "c": "8", "d": "5", "e": "2"} {
		status, _ := call(t, srv, http.MethodPut, "/api/admin/survival/rounds/1/players/"+name+"/score", `{"score":`+score+`}`, token)
		require.Equal(t, http.StatusOK, status)
	}

	status, env := call(t, srv, http.MethodPost, "/api/admin/survival/end-round", "", token)
	require.Equal(t, http.StatusOK, status)
	var res struct {
		Outcome struct {
			Qualified []struct {
				Name string `json:"name"`
			} `json:"qualified"`
			Threshold int `json:"threshold"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Len(t, res.Outcome.Qualified, 3)
	assert.Equal(t, 8, res.Outcome.Threshold)

	status, _ = call(t, srv, http.MethodPut, "/api/admin/survival/rounds/x/players/a/score", `{"score":1}`, token)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthAndSwagger(t *testing.T) {
	srv := newServer(t)

	status, env := call(t, srv, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	resp, err := srv.Client().Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "2.0", doc["swagger"])
}

func TestWebSocketUnknownRoom(t *testing.T) {
	srv := newServer(t)
	status, env := call(t, srv, http.MethodGet, "/ws/chess", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}
