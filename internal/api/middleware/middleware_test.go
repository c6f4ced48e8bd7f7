package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	users map[string]*models.User
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, &services.Error{Kind: services.ErrUnauthorized, Message: "Could not validate credentials"}
}

func newAuthRouter(authn Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", JWTAuthMiddleware(authn), func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})
	router.POST("/jobs", JWTAuthMiddleware(authn), RequirePostingManager(services.RoleAuthorizer{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func serve(router http.Handler, method, path, authHeader string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		request.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestJWTAuthMiddleware(t *testing.T) {
	authn := &fakeAuthenticator{users: map[string]*models.User{
		"user-token": {ID: 1, Status: models.UserStatusActive, Role: models.UserRoleUser},
	}}
	router := newAuthRouter(authn)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid bearer", header: "Bearer user-token", wantStatus: http.StatusOK, wantBody: `{"user_id":1}`},
		{name: "scheme is case-insensitive", header: "bearer user-token", wantStatus: http.StatusOK, wantBody: `{"user_id":1}`},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Not authenticated"}`},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Not authenticated"}`},
		{name: "unknown token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Could not validate credentials"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(router, http.MethodGet, "/me", tt.header)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestJWTAuthMiddleware_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "inactive user", err: &services.Error{Kind: services.ErrForbidden, Message: "User is not active."}, wantStatus: http.StatusForbidden},
		{name: "store unavailable", err: &services.Error{Kind: services.ErrTransient, Message: "db down"}, wantStatus: http.StatusInternalServerError},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(&fakeAuthenticator{err: tt.err})
			recorder := serve(router, http.MethodGet, "/me", "Bearer anything")
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestRequirePostingManager(t *testing.T) {
	authn := &fakeAuthenticator{users: map[string]*models.User{
		"user":  {ID: 1, Status: models.UserStatusActive, Role: models.UserRoleUser},
		"admin": {ID: 2, Status: models.UserStatusActive, Role: models.UserRoleAdmin},
	}}
	router := newAuthRouter(authn)

	recorder := serve(router, http.MethodPost, "/jobs", "Bearer user")
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.JSONEq(t, `{"error":"Not authorized"}`, recorder.Body.String())

	recorder = serve(router, http.MethodPost, "/jobs", "Bearer admin")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetUserFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetUserFromContext(c)
	assert.Error(t, err)

	c.Set(userCtx, "not a user")
	_, err = GetUserFromContext(c)
	assert.Error(t, err)

	SetUserInContext(c, &models.User{ID: 3})
	user, err := GetUserFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
}

func TestLogger_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("echoes the caller's id", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)
		request.Header.Set(requestIDHeader, "req-123")
		router.ServeHTTP(recorder, request)
		assert.Equal(t, "req-123", recorder.Header().Get(requestIDHeader))
	})

	t.Run("generates one when absent", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/ping", "")
		_, err := uuid.Parse(recorder.Header().Get(requestIDHeader))
		assert.NoError(t, err)
	})
}

func TestRateLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewRateLimiter(nil, 5, time.Minute))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", LoginRateLimit(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		recorder := serve(router, http.MethodPost, "/auth/login", "")
		require.Equal(t, http.StatusOK, recorder.Code)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	defer client.Close()

	limiter := NewRateLimiter(client, 1, time.Minute)
	require.NotNil(t, limiter)

	allowed, _ := limiter.Allow(context.Background(), "ratelimit:test:unreachable")
	assert.True(t, allowed)
}

func TestRateLimiter_Redis(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	key := loginKeyPrefix + "192.0.2.1"
	require.NoError(t, client.Del(ctx, key).Err())
	t.Cleanup(func() { client.Del(context.Background(), key) })

	limiter := NewRateLimiter(client, 2, time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", LoginRateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	login := func() *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		request.RemoteAddr = "192.0.2.1:5555"
		router.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, login().Code)
	assert.Equal(t, http.StatusOK, login().Code)

	recorder := login()
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
}
