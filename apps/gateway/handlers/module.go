package handlers

import (
	"staffdir/apps/gateway/handlers/auth"
	"staffdir/apps/gateway/handlers/directory"
	"staffdir/apps/gateway/handlers/middleware"

	"go.uber.org/fx"
)

var Module = fx.Options(
	middleware.Module,
	auth.Module,
	directory.Module,
)
