package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voluntr_backend/internal/auth"
	"voluntr_backend/internal/config"
	"voluntr_backend/internal/friend"
	"voluntr_backend/internal/jobs"
	"voluntr_backend/internal/testutil"
	"voluntr_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:                 "Voluntr API Backend",
		GinMode:                 gin.TestMode,
		ServerHost:              "127.0.0.1",
		ServerPort:              "0",
		ServerTimeout:           5 * time.Second,
		CORSAllowedOrigins:      []string{"https://app.example.com"},
		FriendRequestRateLimit:  5,
		FriendRequestRateWindow: time.Minute,
	}
}

func newTestServer(t *testing.T) *Server {
	cfg := testConfig()
	logger := zap.NewNop()
	db := testutil.NewSQLiteDB(t, &user.User{}, &friend.FriendRequest{}, &friend.Friendship{})

	userSvc := user.NewService(user.NewGORMRepository(db), logger)
	authSvc := auth.NewService(nil, userSvc, logger)
	friendSvc := friend.NewService(friend.NewGORMRepository(db), logger)

	srv, err := NewServer(cfg, logger, db,
		auth.NewHandler(authSvc, logger),
		user.NewHandler(userSvc, logger),
		friend.NewHandler(friendSvc, logger),
		auth.NewGate(authSvc),
		NewFriendRequestLimiter(nil, cfg, logger),
		jobs.NewRequestPruneJob(friendSvc, logger, cfg),
	)
	require.NoError(t, err)
	return srv
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "UP", body["database"])
}

func TestServer_RoutingErrors(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"NOT_FOUND"`)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/friends/requests", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), `"METHOD_NOT_ALLOWED"`)
}

func TestServer_ProtectedRoutesRequireCredential(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/v1/friends", "/api/v1/friends/requests", "/api/v1/users/me"} {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Contains(t, w.Body.String(), `"MISSING_CREDENTIAL"`, path)
	}
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/friends", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
