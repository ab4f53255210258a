package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/logger"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) ValidateAccessToken(token string) (*dto.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenClaims), args.Error(1)
}

func (m *mockIdentity) ResolveActor(ctx context.Context, userID string) (access.Actor, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(access.Actor), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordAuthDecision(decision string) {
	m.Called(decision)
}

// --- Helper ---

func setupGate(identity IdentityResolver, recorder DecisionRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", AuthMiddleware(identity, recorder, logger.Discard()))
	api.GET("/users/:id", func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"actor": actor.ID, "id": c.Param("id")})
	})
	api.DELETE("/users/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.GET("/auth/account", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func request(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	return body["message"].(string)
}

var reader = access.Actor{
	ID:   "u1",
	Role: access.RoleEmployee,
	Permissions: []models.Permission{
		{Method: "GET", APIPath: "/api/v1/users/:id"},
	},
}

// --- Tests ---

func TestAuthMiddleware_MissingToken(t *testing.T) {
	identity := new(mockIdentity)
	recorder := new(mockRecorder)
	recorder.On("RecordAuthDecision", observability.DecisionUnauthorized).Once()

	w := request(setupGate(identity, recorder), http.MethodGet, "/api/v1/users/42", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is invalid or expired", errorMessage(t, w))
	identity.AssertNotCalled(t, "ValidateAccessToken", mock.Anything)
	recorder.AssertExpectations(t)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	identity := new(mockIdentity)
	identity.On("ValidateAccessToken", "bad").Return(nil, common.Unauthorized("Token is invalid or expired"))

	w := request(setupGate(identity, nil), http.MethodGet, "/api/v1/users/42", "bad")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	identity.AssertExpectations(t)
}

func TestAuthMiddleware_UserGone(t *testing.T) {
	identity := new(mockIdentity)
	identity.On("ValidateAccessToken", "tok").Return(&dto.TokenClaims{UserID: "u1"}, nil)
	identity.On("ResolveActor", mock.Anything, "u1").Return(access.Actor{}, common.Unauthorized("User no longer exists"))

	w := request(setupGate(identity, nil), http.MethodGet, "/api/v1/users/42", "tok")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is invalid or expired", errorMessage(t, w))
}

func TestAuthMiddleware_StoreFailure(t *testing.T) {
	identity := new(mockIdentity)
	identity.On("ValidateAccessToken", "tok").Return(&dto.TokenClaims{UserID: "u1"}, nil)
	identity.On("ResolveActor", mock.Anything, "u1").Return(access.Actor{}, common.Internal(errors.New("db down")))

	w := request(setupGate(identity, nil), http.MethodGet, "/api/v1/users/42", "tok")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", errorMessage(t, w))
}

func TestAuthMiddleware_Allowed(t *testing.T) {
	identity := new(mockIdentity)
	identity.On("ValidateAccessToken", "tok").Return(&dto.TokenClaims{UserID: "u1"}, nil)
	identity.On("ResolveActor", mock.Anything, "u1").Return(reader, nil)
	recorder := new(mockRecorder)
	recorder.On("RecordAuthDecision", observability.DecisionAllowed).Once()

	w := request(setupGate(identity, recorder), http.MethodGet, "/api/v1/users/42", "tok")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["actor"])
	assert.Equal(t, "42", body["id"])
	recorder.AssertExpectations(t)
}

func TestAuthMiddleware_ForbiddenRoute(t *testing.T) {
	identity := new(mockIdentity)
	identity.On("ValidateAccessToken", "tok").Return(&dto.TokenClaims{UserID: "u1"}, nil)
	identity.On("ResolveActor", mock.Anything, "u1").Return(reader, nil)
	recorder := new(mockRecorder)
	recorder.On("RecordAuthDecision", observability.DecisionForbidden).Once()

	w := request(setupGate(identity, recorder), http.MethodDelete, "/api/v1/users/42", "tok")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden resource", errorMessage(t, w))
	recorder.AssertExpectations(t)
}

func TestAuthMiddleware_AuthRoutesNeedNoPermission(t *testing.T) {
	identity := new(mockIdentity)
	identity.On("ValidateAccessToken", "tok").Return(&dto.TokenClaims{UserID: "u1"}, nil)
	identity.On("ResolveActor", mock.Anything, "u1").Return(access.Actor{ID: "u1", Role: access.RoleEmployee}, nil)

	w := request(setupGate(identity, nil), http.MethodGet, "/api/v1/auth/account", "tok")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
	assert.Empty(t, bearerToken(""))
}
