package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/clock"
	"github.com/smallbiznis/forecourt/internal/config"
	"github.com/smallbiznis/forecourt/internal/metrics"
	"github.com/smallbiznis/forecourt/internal/migration"
	"github.com/smallbiznis/forecourt/internal/server"
	"github.com/smallbiznis/forecourt/internal/stationlock"
	"github.com/smallbiznis/forecourt/pkg/db"
	"github.com/smallbiznis/forecourt/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		stationlock.Module,

		// Schema and bootstrap data
		migration.Module,

		// HTTP surface plus the domain modules it serves
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
