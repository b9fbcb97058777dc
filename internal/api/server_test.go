package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/models"
	"github.com/mdemidenko/homework-bot/internal/observability"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

type fakeHealth struct {
	err error
}

func (f fakeHealth) HealthCheck() error { return f.err }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Enabled = true
	cfg.Server.GinMode = "test"
	cfg.Server.TrustedProxies = nil
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.Login = "admin"
	cfg.Auth.Password = "admin123"
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, health HealthChecker) (*Server, *repository.MemoryStorage) {
	t.Helper()
	storage := repository.NewMemoryStorage(10)
	metrics := observability.NewMetrics()
	return NewServer(cfg, health, storage, metrics.Handler(), zap.NewNop()), storage
}

func do(t *testing.T, s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, s *Server, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	return do(t, s, http.MethodPost, "/api/auth/login", string(body), "")
}

func tokenFor(t *testing.T, s *Server) string {
	t.Helper()
	w := login(t, s, "admin", "admin123")
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name       string
		mutate     func(cfg *config.Config)
		body       string
		wantStatus int
	}{
		{
			name:       "plain password",
			body:       `{"username":"admin","password":"admin123"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       `{"username":"admin","password":"nope"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong username",
			body:       `{"username":"root","password":"admin123"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing fields",
			body:       `{"username":"admin"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bcrypt hash",
			mutate:     func(cfg *config.Config) { cfg.Auth.PasswordHash = string(hash) },
			body:       `{"username":"admin","password":"hashed-pass"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "hash takes precedence over plain password",
			mutate:     func(cfg *config.Config) { cfg.Auth.PasswordHash = string(hash) },
			body:       `{"username":"admin","password":"admin123"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			s, _ := newTestServer(t, cfg, fakeHealth{})

			w := do(t, s, http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, "Bearer", resp.TokenType)
				assert.True(t, resp.ExpiresAt.After(time.Now()))
			} else {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.False(t, resp.Success)
				assert.Equal(t, tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestProtectedRoutes(t *testing.T) {
	s, storage := newTestServer(t, testConfig(), fakeHealth{})
	require.NoError(t, storage.Store(models.NewNotification("12345", "hello")))
	require.NoError(t, storage.Store(&models.SentNotification{MessageID: 7, ChatID: 12345, SentAt: time.Now()}))

	for _, path := range []string{"/api/status", "/api/notifications", "/api/notifications/sent"} {
		w := do(t, s, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), path)
		assert.Equal(t, models.ErrTypeUnauthorized, resp.ErrorType, path)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	token := tokenFor(t, s)

	w := do(t, s, http.MethodGet, "/api/notifications", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var notifications NotificationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifications))
	assert.Equal(t, 1, notifications.Data.Count)
	assert.Equal(t, "hello", notifications.Data.Notifications[0].Text)

	w = do(t, s, http.MethodGet, "/api/notifications/sent", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var sent SentNotificationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	assert.Equal(t, 1, sent.Data.Count)
	assert.Equal(t, int64(7), sent.Data.SentNotifications[0].MessageID)
}

func TestStatusHandler(t *testing.T) {
	s, storage := newTestServer(t, testConfig(), fakeHealth{})
	token := tokenFor(t, s)

	w := do(t, s, http.MethodGet, "/api/status", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "starting", resp.Data.Status)
	assert.Nil(t, resp.Data.LastPoll)

	require.NoError(t, storage.Store(models.PollState{
		Cycle:     3,
		StartedAt: time.Now(),
		FromDate:  1700000000,
		ErrorKind: "endpoint_unavailable",
		Error:     "API недоступен",
	}))

	w = do(t, s, http.MethodGet, "/api/status", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = StatusResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp.Data.Status)
	require.NotNil(t, resp.Data.LastPoll)
	assert.Equal(t, int64(3), resp.Data.LastPoll.Cycle)
	assert.Equal(t, "endpoint_unavailable", resp.Data.LastPoll.ErrorKind)
	assert.Equal(t, "homework-bot", resp.Data.Config.AppName)
}

func TestHealthHandler(t *testing.T) {
	t.Run("ok before first poll", func(t *testing.T) {
		s, _ := newTestServer(t, testConfig(), fakeHealth{})
		w := do(t, s, http.MethodGet, "/api/health", "", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Empty(t, resp.LastPoll)
	})

	t.Run("telegram unavailable", func(t *testing.T) {
		s, _ := newTestServer(t, testConfig(), fakeHealth{err: errors.New("Unauthorized")})
		w := do(t, s, http.MethodGet, "/api/health", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("fresh poll", func(t *testing.T) {
		s, storage := newTestServer(t, testConfig(), fakeHealth{})
		require.NoError(t, storage.Store(models.PollState{Cycle: 1, StartedAt: time.Now()}))
		w := do(t, s, http.MethodGet, "/api/health", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("stalled poll loop", func(t *testing.T) {
		cfg := testConfig()
		s, storage := newTestServer(t, cfg, fakeHealth{})
		started := time.Now().Add(-3 * cfg.Practicum.RetryTime)
		require.NoError(t, storage.Store(models.PollState{Cycle: 1, StartedAt: started}))

		w := do(t, s, http.MethodGet, "/api/health", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_MetricsAndFallbackRoutes(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), fakeHealth{})

	w := do(t, s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "homework_poll_duration_seconds")

	w = do(t, s, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/swagger/index.html")

	w = do(t, s, http.MethodGet, "/swagger/doc.json", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/auth/login")

	w = do(t, s, http.MethodGet, "/api/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ErrTypeNotFound, resp.ErrorType)
}
