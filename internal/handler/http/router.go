package http

import (
	"log/slog"
	"os"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/handler/http/middleware"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	AllowedOrigins []string
	Env            string
	LogLevel       slog.Level
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	authHandler AuthHandler,
	leaveHandler LeaveHandler,
	dashboardHandler DashboardHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "airalgerie-conges"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Get("/me", authHandler.Me)
				r.Get("/sse-token", authHandler.SSEToken)
			})
		})

		// EventSource authenticates with the short-lived token in the query
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", leaveHandler.SubmitRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/", leaveHandler.ListRequests)
				r.Post("/read-all", leaveHandler.MarkAllRead)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Delete("/", leaveHandler.DeleteRequest)
					r.Post("/read", leaveHandler.MarkRead)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
						r.Post("/approve", leaveHandler.ApproveRequest)
						r.Post("/reject", leaveHandler.RejectRequest)
					})

					r.Route("/document", func(r chi.Router) {
						r.With(middleware.RequirePermission(user.PermissionDocumentView)).Get("/", leaveHandler.DownloadDocument)

						r.Group(func(r chi.Router) {
							r.Use(middleware.RequirePermission(user.PermissionDocumentManage))
							r.Post("/", leaveHandler.GenerateDocument)
							r.Delete("/", leaveHandler.DeleteDocument)
						})
					})
				})
			})

			r.Route("/balances", func(r chi.Router) {
				r.Get("/me", leaveHandler.GetMyBalance)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewScope)).Get("/{userID}", leaveHandler.GetBalance)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDocumentManage))
				r.Post("/generate-all", leaveHandler.GenerateAllDocuments)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDashboardView))
				r.Get("/stats", dashboardHandler.GetDashboard)
			})
		})
	})
	return r
}
