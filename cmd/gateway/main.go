package main

import (
	"staffdir/apps/gateway"
	"staffdir/cmd/gateway/router"
	"staffdir/internal"
	"staffdir/pkg"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		gateway.Module,
		router.Module,
		pkg.Module,
		internal.Module,
	).Run()
}
