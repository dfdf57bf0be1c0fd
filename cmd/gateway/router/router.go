package router

import (
	"context"
	"net/http"

	"staffdir/apps/gateway/handlers/auth"
	"staffdir/apps/gateway/handlers/directory"
	"staffdir/apps/gateway/handlers/middleware"
	"staffdir/pkg/config"
	"staffdir/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Invoke(
		NewRouter,
	),
)

type Params struct {
	fx.In

	middleware.Middleware
	Lifecycle fx.Lifecycle
	Config    config.IConfig
	Logger    logger.Logger
	Auth      auth.Handler
	Directory directory.Handler
}

func NewRouter(params Params) {
	r := gin.New()
	baseUrl := "/api/v1"

	out := r.Group(baseUrl)
	out.Use(params.Ctx(), gin.Logger(), gin.Recovery())

	authGroup := out.Group("/auth")
	{
		authGroup.POST("/register", params.Auth.Register)
		authGroup.POST("/login", params.Auth.Login)
		authGroup.POST("/logout", params.Auth.Logout)
		authGroup.GET("/session", params.Auth.GetSession)
	}

	// every directory route is behind the session guard
	api := r.Group(baseUrl)
	api.Use(params.Ctx(), gin.Logger(), gin.Recovery())
	api.Use(params.CheckAuth())

	employeeGroup := api.Group("/employee")
	{
		employeeGroup.POST("/", params.Directory.CreateEmployee)
		employeeGroup.GET("/", params.Directory.GetListEmployee)
		employeeGroup.GET("/search", params.Directory.SearchEmployee)
		employeeGroup.DELETE("/search", params.Directory.ClearSearch)
		employeeGroup.GET("/:id", params.Directory.GetByIDEmployee)
		employeeGroup.PATCH("/:id", params.Directory.PatchEmployee)
		employeeGroup.DELETE("/:id", params.Directory.DeleteEmployee)
		employeeGroup.POST("/:id/picture", params.Directory.UploadProfilePicture)
		employeeGroup.DELETE("/:id/picture", params.Directory.DeleteProfilePicture)
	}

	stateGroup := api.Group("/state")
	{
		stateGroup.GET("/", params.Directory.GetState)
		stateGroup.DELETE("/error", params.Directory.ClearError)
		stateGroup.DELETE("/selected", params.Directory.ClearSelected)
	}

	allowedOrigins := params.Config.GetStringSlice("server.allowed_origins")
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173"}
	}

	server := http.Server{
		Addr: params.Config.GetString("server.port"),
		Handler: cors.New(cors.Options{
			AllowedHeaders:   []string{"*"},
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowCredentials: true,
		}).Handler(r),
	}

	params.Lifecycle.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Starting application")
				go func() {
					if err := server.ListenAndServe(); err != nil {
						params.Logger.Error(ctx, "Err on ListenAndServe", zap.Error(err))
					}
				}()

				params.Logger.Info(ctx, "Application starting on port", zap.String("port", params.Config.GetString("server.port")))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Application stopped")
				return server.Shutdown(ctx)
			},
		},
	)
}
