package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sentryforce/guard-payroll/internal/config"
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
	appHTTP "github.com/sentryforce/guard-payroll/internal/handler/http"
	"github.com/sentryforce/guard-payroll/internal/pkg/cron"
	"github.com/sentryforce/guard-payroll/internal/pkg/database"
	"github.com/sentryforce/guard-payroll/internal/pkg/jwt"
	"github.com/sentryforce/guard-payroll/internal/repository/postgresql"
	payrollService "github.com/sentryforce/guard-payroll/internal/service/payroll"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.App.Name, cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	rateDefaults, err := setting.LoadDefaults(cfg.Payroll.RatesFile)
	if err != nil {
		return err
	}

	payrollRepo := postgresql.NewPayrollRepository(db)
	guardRepo := postgresql.NewGuardRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	settingRepo := postgresql.NewSettingRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	transactor := postgresql.NewTransactor(db)

	rateResolver := setting.NewResolver(settingRepo, rateDefaults)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		payrollRepo,
		guardRepo,
		attendanceRepo,
		rateResolver,
		auditRepo,
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(JWTService, payrollHandler, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	})

	scheduler := cron.NewScheduler(logger)
	if cfg.Payroll.AutoGenerateEnabled {
		cron.NewPayrollJobs(payrollSvc).RegisterJobs(scheduler, cfg.Payroll.AutoGenerateInterval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
