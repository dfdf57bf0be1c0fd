package pkg

import (
	"go.uber.org/fx"

	"staffdir/pkg/config"
	"staffdir/pkg/db"
	"staffdir/pkg/filestore"
	"staffdir/pkg/kvstore"
	"staffdir/pkg/logger"
	"staffdir/pkg/migration"
	"staffdir/pkg/reply"
	"staffdir/pkg/repository"
)

var Module = fx.Options(
	config.Module,
	logger.Module,
	migration.Module,
	repository.Module,
	db.Module,
	reply.Module,
	kvstore.Module,
	filestore.Module,
)
