package auth

import (
	"errors"
	"net/http"

	"staffdir/internal/appstate"
	"staffdir/internal/responses"
	"staffdir/internal/structs"
	"staffdir/pkg/logger"
	"staffdir/pkg/reply"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		Register(c *gin.Context)
		Login(c *gin.Context)
		Logout(c *gin.Context)
		GetSession(c *gin.Context)
	}

	Params struct {
		fx.In
		Logger logger.Logger
		Store  *appstate.Store
	}

	handler struct {
		logger logger.Logger
		store  *appstate.Store
	}
)

func New(p Params) Handler {
	return &handler{
		logger: p.Logger,
		store:  p.Store,
	}
}

func (h *handler) Register(c *gin.Context) {
	var (
		response structs.Response
		request  structs.RegisterRequest
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	session, err := h.store.Register(ctx, request)
	if err != nil {
		authErr := &structs.AuthError{}
		if errors.As(err, &authErr) {
			response = responses.BadRequest
			response.Description = authErr.Error()
			return
		}
		h.logger.Error(ctx, " err on store.Register", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = session
}

func (h *handler) Login(c *gin.Context) {
	var (
		response structs.Response
		request  structs.LoginRequest
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	session, err := h.store.Login(ctx, request)
	if err != nil {
		authErr := &structs.AuthError{}
		if errors.As(err, &authErr) {
			response = responses.Unauthorized
			response.Description = authErr.Error()
			return
		}
		h.logger.Error(ctx, " err on store.Login", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = session
}

func (h *handler) Logout(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := h.store.Logout(ctx); err != nil {
		h.logger.Error(ctx, " err on store.Logout", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}

func (h *handler) GetSession(c *gin.Context) {
	var response structs.Response
	defer reply.Json(c.Writer, http.StatusOK, &response)

	snapshot := h.store.Snapshot()
	if snapshot.Session == nil {
		response = responses.Unauthorized
		return
	}

	response = responses.Success
	response.Payload = snapshot.Session
}
