package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"authrel-demo/internal/config"
	"authrel-demo/internal/logging"
	"authrel-demo/internal/orm"
	"authrel-demo/internal/relations"
)

func main() {
	scenario := flag.StringP("scenario", "s", "all", "demo to run: relations, m2m or all")
	seed := flag.Bool("seed", false, "create the demo rows before querying")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *scenario, *seed); err != nil {
		logger.Fatalf("demo %s: %v", *scenario, err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger, scenario string, seed bool) error {
	sqlDB, err := orm.Connect(ctx, cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqlDB.Close()

	db, err := orm.Open(cfg.Database.Driver, sqlDB, logger, cfg.Database.LogLevel)
	if err != nil {
		return err
	}
	if err := orm.Migrate(ctx, db); err != nil {
		return err
	}

	q := relations.New(db, os.Stdout)
	logger.WithFields(logrus.Fields{"scenario": scenario, "seed": seed}).Info("running demo")

	switch scenario {
	case "relations":
		return q.MainRelations(ctx, seed)
	case "m2m":
		return q.DemoM2M(ctx, seed)
	case "all":
		if err := q.MainRelations(ctx, seed); err != nil {
			return err
		}
		return q.DemoM2M(ctx, seed)
	default:
		return fmt.Errorf("unknown scenario %q", scenario)
	}
}
