package middleware

import (
	"strings"

	"staffdir/internal/identity"
	"staffdir/internal/responses"
	"staffdir/internal/structs"
	"staffdir/pkg/logger"
	"staffdir/pkg/reply"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(NewMiddleware)
)

type (
	Middleware interface {
		CheckAuth() gin.HandlerFunc
		Ctx() gin.HandlerFunc
	}

	Params struct {
		fx.In

		Logger      logger.Logger
		IdentitySvc identity.Service
	}

	mw struct {
		logger      logger.Logger
		identitySvc identity.Service
	}
)

func NewMiddleware(params Params) Middleware {
	return &mw{
		logger:      params.Logger,
		identitySvc: params.IdentitySvc,
	}
}

// CheckAuth is the route guard: a protected route requires a resolvable
// session token. This is the only authorization check in the system.
func (m *mw) CheckAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			response structs.Response
			ctx      = c.Request.Context()
		)

		authToken := c.GetHeader("Authorization")
		if authToken == "" {
			m.logger.Warn(ctx, " empty auth token")
			response = responses.Unauthorized

			c.Abort()
			reply.Json(c.Writer, responses.UnauthorizedCode, &response)
			return
		}

		tokenString := strings.TrimPrefix(authToken, "Bearer ")
		user, err := m.identitySvc.Me(ctx, tokenString)
		if err != nil {
			m.logger.Warn(ctx, " token rejected", zap.Error(err))
			response = responses.Unauthorized

			c.Abort()
			reply.Json(c.Writer, responses.UnauthorizedCode, &response)
			return
		}

		c.Set("user_id", user.Id)
		c.Next()
	}
}

func (m *mw) Ctx() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := m.logger.Context(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
