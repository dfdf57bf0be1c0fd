package postgres

import (
	userRepo "staffdir/pkg/repository/postgres/user_repo"

	"go.uber.org/fx"
)

var Module = fx.Options(
	userRepo.Module,
)
