package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sentryforce/guard-payroll/internal/config"
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
	"github.com/sentryforce/guard-payroll/internal/fixtures"
	"github.com/sentryforce/guard-payroll/internal/pkg/database"
	"github.com/sentryforce/guard-payroll/internal/repository/postgresql"
)

func main() {
	seed := flag.Bool("seed", false, "insert default payroll rate settings that are not configured yet")
	flag.Parse()

	if err := run(*seed); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(seed bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	if !seed {
		return nil
	}

	rates, err := setting.LoadDefaults(cfg.Payroll.RatesFile)
	if err != nil {
		return err
	}

	seeder := postgresql.NewSettingSeeder(db)
	for _, s := range fixtures.DefaultSettings(rates) {
		inserted, err := seeder.InsertIfAbsent(ctx, s)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", s.Key, err)
		}
		slog.Info("setting seeded", "key", s.Key, "value", s.Value.String(), "inserted", inserted)
	}
	return nil
}
