package http

import (
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sentryforce/guard-payroll/internal/domain/user"
	"github.com/sentryforce/guard-payroll/internal/handler/http/middleware"
	"github.com/sentryforce/guard-payroll/internal/pkg/jwt"
)

// RouterOptions carries the knobs NewRouter reads from config.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payrolls", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.ListPayrollRecords)
				r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/summary", payrollHandler.GetPayrollSummary)
				r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).Post("/", payrollHandler.GeneratePayroll)
				r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).Post("/bulk-generate", payrollHandler.BulkGeneratePayroll)
				r.With(middleware.RequirePermission(user.PermissionPayrollPay)).Post("/bulk-pay", payrollHandler.BulkPayPayroll)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.GetPayrollRecord)
					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/revisions", payrollHandler.GetRevisionHistory)

					// Managers
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionPayrollEdit))
						r.Put("/", payrollHandler.UpdatePayrollRecord)
						r.Post("/adjustments", payrollHandler.AddAdjustment)
					})
					r.With(middleware.RequirePermission(user.PermissionPayrollVerify)).Post("/verify", payrollHandler.VerifyPayroll)

					// Owner only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionPayrollApprove))
						r.Post("/approve", payrollHandler.ApprovePayroll)
						r.Post("/reject", payrollHandler.RejectPayroll)
					})
					r.With(middleware.RequirePermission(user.PermissionPayrollPay)).Post("/pay", payrollHandler.PayPayroll)
					r.With(middleware.RequirePermission(user.PermissionPayrollDelete)).Delete("/", payrollHandler.DeletePayrollRecord)
				})
			})
		})
	})
	return r
}

// NewLogger builds the JSON slog logger shared by the request logger and the
// rest of the process.
func NewLogger(w io.Writer, app, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env == "development")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("env", env),
	)
}
