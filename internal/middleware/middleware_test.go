package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/config"
	"voluntr_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGate struct {
	account *shared.Account
	err     error
	header  string
}

func (g *stubGate) Authenticate(_ context.Context, header string) (*shared.Account, error) {
	g.header = header
	return g.account, g.err
}

// fakeScripter counts INCRs per key in memory, standing in for the Lua script.
type fakeScripter struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]interface{}
	err    error
}

func newFakeScripter() *fakeScripter {
	return &fakeScripter{counts: map[string]int64{}, ttls: map[string]interface{}{}}
}

func (f *fakeScripter) run(ctx context.Context, keys []string, args ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[keys[0]]++
	if f.counts[keys[0]] == 1 && len(args) > 0 {
		f.ttls[keys[0]] = args[0]
	}
	cmd.SetVal(f.counts[keys[0]])
	return cmd
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	cmd := redis.NewBoolSliceCmd(ctx)
	cmd.SetVal([]bool{true})
	return cmd
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	cmd.SetVal("sha")
	return cmd
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) common.APIError {
	t.Helper()
	var body common.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware_StoresAccount(t *testing.T) {
	gate := &stubGate{account: &shared.Account{ID: 7, Email: "ada@example.com", IsActive: true}}
	r := gin.New()
	r.GET("/me", AuthMiddleware(gate, zap.NewNop()), func(c *gin.Context) {
		assert.Equal(t, int64(7), common.GetUserIDFromContext(c))
		assert.Equal(t, "ada@example.com", common.GetUserEmailFromContext(c))
		require.NotNil(t, common.GetAccountFromContext(c))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "Bearer tok", gate.header)
}

func TestAuthMiddleware_RejectsWithGateError(t *testing.T) {
	cases := []*common.APIError{
		common.ErrMissingCredential,
		common.ErrInvalidCredential,
		common.ErrAccountNotFound,
		common.ErrAccountInactive,
	}
	for _, want := range cases {
		called := false
		r := gin.New()
		r.GET("/me", AuthMiddleware(&stubGate{err: want}, zap.NewNop()), func(c *gin.Context) { called = true })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.False(t, called, want.Code)
		assert.Equal(t, want.StatusCode, w.Code, want.Code)
		assert.Equal(t, want.Code, decodeError(t, w).Code)
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/api", func(c *gin.Context) { _ = c.Error(common.ErrRequestNotFound) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("disk on fire")) })
	r.NoRoute(NoRoute)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REQUEST_NOT_FOUND", decodeError(t, w).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeError(t, w).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)
}

func TestZapLogger_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(ZapLogger(zap.NewNop(), &config.Config{GinMode: gin.ReleaseMode}))
	r.GET("/ping", func(c *gin.Context) {
		_, ok := c.Get(common.LoggerKey)
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func limitedRouter(rl *RateLimiter, userID int64) *gin.Engine {
	r := gin.New()
	r.POST("/requests", func(c *gin.Context) {
		common.SetAccountInContext(c, &shared.Account{ID: userID, IsActive: true})
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func TestRateLimiter_LimitsPerCaller(t *testing.T) {
	store := newFakeScripter()
	rl := NewRateLimiter(store, 2, time.Minute, "rl:friend_requests:", true, zap.NewNop())

	alice := limitedRouter(rl, 1)
	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		alice.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	assert.Equal(t, int64(60), store.ttls["rl:friend_requests:user:1"])

	w := httptest.NewRecorder()
	limitedRouter(rl, 2).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimiter_RedisFailure(t *testing.T) {
	store := newFakeScripter()
	store.err = errors.New("connection refused")

	w := httptest.NewRecorder()
	limitedRouter(NewRateLimiter(store, 1, time.Minute, "rl:", true, zap.NewNop()), 1).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	limitedRouter(NewRateLimiter(store, 1, time.Minute, "rl:", false, zap.NewNop()), 1).
		ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute, "rl:", true, zap.NewNop())
	r := limitedRouter(rl, 1)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}
