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

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/config"
	appHTTP "github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/handler/http"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/cron"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/database"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/email"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/jwt"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/pdf"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/sse"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/repository/postgresql"
	serviceAuth "github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/service/auth"
	dashboardService "github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/service/dashboard"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/service/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("env", cfg.App.Env)))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(),
		database.WithPoolSize(cfg.Database.MaxConns, cfg.Database.MinConns),
	)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(context.Background()); err != nil {
			slog.Error("Error applying schema", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema applied")
	}

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()
	renderer := pdf.NewCertificateRenderer(cfg.Documents.Organisation)
	policy := cfg.LeavePolicy()

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		slog.Error("Failed to initialize email service", "error", err)
		os.Exit(1)
	}
	dispatcher := notification.NewDispatcher(hub, userRepo, emailService, notification.Config{
		Organisation: cfg.Documents.Organisation,
	})
	defer dispatcher.Close()

	authService := serviceAuth.NewAuthService(userRepo, refreshTokenRepo, JWTService, transactor)
	leaveService := leave.NewLeaveService(
		policy,
		leaveRequestRepo,
		leaveBalanceRepo,
		documentRepo,
		userRepo,
		transactor,
		renderer,
		dispatcher,
	)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, leaveBalanceRepo, policy)

	scheduler := cron.NewScheduler()
	cron.NewLeaveJobs(leaveService).RegisterJobs(scheduler, cfg.Documents.BatchInterval, cfg.Documents.OnLeaveInterval)
	cron.NewSessionJobs(refreshTokenRepo).RegisterJobs(scheduler, cfg.JWT.PurgeInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Env:            cfg.App.Env,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		appHTTP.NewAuthHandler(JWTService, authService),
		appHTTP.NewLeaveHandler(leaveService),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewNotificationHandler(hub, JWTService),
	)

	// No write timeout: notification streams stay open
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
