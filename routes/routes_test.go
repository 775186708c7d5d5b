package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassam391/stead-backend/middlewares"
	"github.com/hassam391/stead-backend/services"
	"github.com/hassam391/stead-backend/store"
	"github.com/hassam391/stead-backend/utils"
)

var secret = []byte("routes-test-secret")

type testServer struct {
	router *gin.Engine
	store  *store.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)
	verifier, err := utils.NewJWTVerifier(utils.JWTConfig{Secret: secret})
	require.NoError(t, err)

	st := store.NewMemoryStore()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	opts := []services.Option{services.WithClock(func() time.Time { return now }), services.WithLogger(log)}

	r := SetupRouter(Deps{
		Log:         log,
		Verifier:    verifier,
		Limiter:     middlewares.NewRateLimiter(100, 100, log),
		Users:       services.NewUserService(st, opts...),
		Logs:        services.NewLogService(st, opts...),
		Metrics:     services.NewMetricsService(st, opts...),
		Leaderboard: services.NewLeaderboardService(st, opts...),
		Feedback:    services.NewFeedbackService(st, nil, "", opts...),
	})
	return &testServer{router: r, store: st}
}

func token(t *testing.T, email string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(secret, email, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, email string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, email))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPrometheusEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/health", "", nil)

	w := s.do(t, http.MethodGet, "/debug/prometheus", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "stead_http_requests_total"))
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/metrics/metrics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token provided", decode(t, w)["message"])

	req := httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decode(t, rec)["message"])
}

func TestRegisterAndJourneyFlow(t *testing.T) {
	s := newTestServer(t)
	const email = "sam@example.com"

	w := s.do(t, http.MethodGet, "/api/user/protected", email, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/user/register", email, map[string]string{"email": email, "username": "sam"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/user/register", "kim@example.com", map[string]string{"email": "kim@example.com", "username": "sam"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username already taken", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/user/register", email, map[string]string{"email": email, "username": "other"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Account already exists. Please log in instead.", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/user/register", email, map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/user/protected", email, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello sam@example.com, you are authenticated!", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/user/journey", email, map[string]any{"journey": "exercise"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Frequency is required for exercise journey.", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/user/journey", email, map[string]any{"journey": "exercise", "frequency": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/user/info", email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode(t, w)
	assert.Equal(t, "exercise", info["journey"])
	assert.Equal(t, float64(3), info["frequency"])
	assert.Equal(t, float64(0), info["currentStreak"])
	assert.Nil(t, info["goal"])
}

func TestLogActivityFlow(t *testing.T) {
	s := newTestServer(t)
	const email = "cal@example.com"

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/user/register", email, map[string]string{"email": email, "username": "cal"}).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/user/journey", email, map[string]any{
		"journey": "calorie tracking", "goal": "lose weight", "calorieGoal": 2000,
	}).Code)

	w := s.do(t, http.MethodPost, "/api/metrics/log-activity", email, map[string]any{"data": map[string]any{"valueLogged": "abc"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid value logged", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/metrics/log-activity", email, map[string]any{"data": map[string]any{"caloriesLogged": 2090, "details": "salad"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	assert.Equal(t, "Log saved", res["message"])
	assert.Equal(t, float64(1), res["streak"])
	assert.Equal(t, true, res["newRewardAlert"])

	w = s.do(t, http.MethodPost, "/api/metrics/log-activity", email, map[string]any{"data": map[string]any{"valueLogged": 1800}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Already logged today", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/api/metrics/metrics", email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode(t, w)
	assert.Equal(t, float64(1), view["streak"])
	assert.Equal(t, true, view["loggedToday"])
	assert.Equal(t, false, view["checkedInToday"])
	assert.Equal(t, "2026-10-16", view["lastLoggedDate"])

	w = s.do(t, http.MethodGet, "/api/log/check", email, nil)
	assert.JSONEq(t, `{"loggedToday":true}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/log", email, map[string]any{"journeyType": "calorie tracking", "data": map[string]any{"valueLogged": 1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You've already logged today!", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/api/metrics/title-display", email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"cal","latestTitle":"Day 1: Beginner","titlesUnlocked":["Day 1: Beginner"]}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/metrics/rewards-seen", email, nil)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/metrics/recent-logs", email, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "2026-10-16", logs[0]["date"])
	assert.Equal(t, map[string]any{"valueLogged": float64(2090), "details": "salad"}, logs[0]["data"])

	w = s.do(t, http.MethodGet, "/api/metrics/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board, 1)
	assert.Equal(t, "cal", board[0]["username"])
	assert.Equal(t, float64(1), board[0]["rank"])
	assert.Nil(t, board[0]["highestReward"])
}

func TestLogActivity_MissingData(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/metrics/log-activity", "sam@example.com", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetrics_UnknownUser(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/metrics/metrics", "ghost@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/feedback", "", map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Feedback cannot be empty.", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/feedback", "", map[string]string{"message": "more badges please"})
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, s.store.Feedback(), 1)
	assert.Equal(t, "more badges please", s.store.Feedback()[0].Message)
}
