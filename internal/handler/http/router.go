package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/paylane-hq/payroll-backend-go/internal/handler/http/middleware"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	ratesHandler RatesHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.List)
				r.Post("/", employeeHandler.Create)
				r.Post("/regrade", payrollHandler.Regrade)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.Get)
					r.Put("/", employeeHandler.Update)
					r.Delete("/", employeeHandler.Retire)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/sync", attendanceHandler.Sync)

				r.Route("/quarantine", func(r chi.Router) {
					r.Get("/", attendanceHandler.ListQuarantine)
					r.Post("/{key}/assign", attendanceHandler.AssignQuarantine)
				})

				r.Route("/{month}", func(r chi.Router) {
					r.Get("/", attendanceHandler.GetMonth)
					r.Put("/{employeeID}/adjustments", attendanceHandler.UpdateAdjustments)
				})
			})

			r.Route("/rates", func(r chi.Router) {
				r.Get("/config", ratesHandler.GetConfig)
				r.Put("/config", ratesHandler.SaveConfig)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/run", payrollHandler.Run)

				r.Route("/{month}", func(r chi.Router) {
					r.Get("/", payrollHandler.Get)
					r.Post("/confirm", payrollHandler.Confirm)
					r.Post("/unlock", payrollHandler.Unlock)
				})
			})
		})
	})
	return r
}
