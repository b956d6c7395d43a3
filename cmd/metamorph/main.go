package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smitnayi/metamorph-inventory/internal/config"
	"github.com/smitnayi/metamorph-inventory/internal/migration"
	"github.com/smitnayi/metamorph-inventory/internal/observability"
	"github.com/smitnayi/metamorph-inventory/internal/server"
	"github.com/smitnayi/metamorph-inventory/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
