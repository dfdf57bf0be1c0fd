package repository

import (
	"go.uber.org/fx"

	"staffdir/pkg/repository/postgres"
)

var Module = fx.Options(
	postgres.Module,
)
