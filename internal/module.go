package internal

import (
	"staffdir/internal/appstate"
	"staffdir/internal/directory"
	"staffdir/internal/identity"

	"go.uber.org/fx"
)

var Module = fx.Options(
	directory.Module,
	identity.Module,
	appstate.Module,
)
