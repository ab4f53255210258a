package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/logger"
	"github.com/staffhub-api/observability"
)

// ActorKey is the gin context key holding the resolved access.Actor
const ActorKey = "actor"

// IdentityResolver validates access tokens and loads the caller's live role
type IdentityResolver interface {
	ValidateAccessToken(token string) (*dto.TokenClaims, error)
	ResolveActor(ctx context.Context, userID string) (access.Actor, error)
}

// DecisionRecorder counts gate outcomes
type DecisionRecorder interface {
	RecordAuthDecision(decision string)
}

// AuthMiddleware authenticates the bearer token, reloads the caller's role and
// permissions, and checks the (method, route) pair against them
func AuthMiddleware(identity IdentityResolver, recorder DecisionRecorder, log logrus.FieldLogger) gin.HandlerFunc {
	record := func(decision string) {
		if recorder != nil {
			recorder.RecordAuthDecision(decision)
		}
	}

	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			record(observability.DecisionUnauthorized)
			abort(c, common.Unauthorized("Token is invalid or expired"))
			return
		}

		claims, err := identity.ValidateAccessToken(token)
		if err != nil {
			record(observability.DecisionUnauthorized)
			abort(c, common.Unauthorized("Token is invalid or expired"))
			return
		}

		actor, err := identity.ResolveActor(c.Request.Context(), claims.UserID)
		if err != nil {
			record(observability.DecisionUnauthorized)
			appErr := common.AsError(err)
			if appErr.StatusCode >= http.StatusInternalServerError {
				logger.FromGin(log, c).WithError(err).Error("❌ Failed to resolve caller")
				abort(c, appErr)
				return
			}
			abort(c, common.Unauthorized("Token is invalid or expired"))
			return
		}

		c.Set(ActorKey, actor)
		c.Set(logger.UserIDKey, actor.ID)

		if !actor.Allowed(c.Request.Method, c.FullPath()) {
			record(observability.DecisionForbidden)
			logger.FromGin(log, c).WithFields(logrus.Fields{
				"method": c.Request.Method,
				"route":  c.FullPath(),
				"role":   actor.Role.String(),
			}).Warn("⛔ Permission denied")
			abort(c, common.Forbidden("Forbidden resource"))
			return
		}

		record(observability.DecisionAllowed)
		c.Next()
	}
}

// ActorFrom returns the caller set by AuthMiddleware
func ActorFrom(c *gin.Context) (access.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abort(c *gin.Context, err *common.Error) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"status":  "error",
		"message": err.Message,
	})
}
