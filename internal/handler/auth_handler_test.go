package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/svec-cse/efacilities-api/internal/models"
	"github.com/svec-cse/efacilities-api/internal/service"
)

type stubUserRepo struct {
	users map[string]models.User
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func buildAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubUserRepo{users: map[string]models.User{
		"admin@sves.org.in": {
			ID:           "admin-1",
			Email:        "admin@sves.org.in",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Active:       true,
		},
	}}
	svc := service.NewAuthService(repo, nil, nil, service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "efacilities-api",
	})
	h := NewAuthHandler(svc)

	router := gin.New()
	router.POST("/auth/login", h.Login)
	return router
}

func TestLoginEndpoint(t *testing.T) {
	router := buildAuthRouter(t)

	resp := performRequest(router, http.MethodPost, "/auth/login",
		`{"email":"admin@sves.org.in","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "access_token")
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router := buildAuthRouter(t)

	resp := performRequest(router, http.MethodPost, "/auth/login",
		`{"email":"admin@sves.org.in","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "INVALID_CREDENTIALS")
}
