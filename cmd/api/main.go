package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/clockport/attendance-backend-go/internal/config"
	appHTTP "github.com/clockport/attendance-backend-go/internal/handler/http"
	"github.com/clockport/attendance-backend-go/internal/pkg/cron"
	"github.com/clockport/attendance-backend-go/internal/pkg/database"
	"github.com/clockport/attendance-backend-go/internal/pkg/jwt"
	"github.com/clockport/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/clockport/attendance-backend-go/internal/service/attendance"
	"github.com/clockport/attendance-backend-go/internal/service/autocheckout"
	"github.com/clockport/attendance-backend-go/internal/service/geofence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.OpTimeout)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)
	officeRepo := postgresql.NewOfficeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	geofenceConfig := geofence.DefaultConfig()
	geofenceConfig.MinOfficeConfidence = cfg.Engine.MinOfficeConfidence
	classifier := geofence.NewClassifier(geofenceConfig)

	scheduler := autocheckout.New(30 * time.Second)
	svc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		policyRepo,
		officeRepo,
		classifier,
		scheduler,
		cfg.Engine.AutoCheckoutLinger,
	)
	scheduler.Bind(svc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The reconcile job runs once at start, re-arming timers for sessions
	// left open across the restart.
	runner := cron.NewRunner()
	runner.AddJob("timer-reconcile", cfg.Engine.ReconcileInterval, svc.ReconcileTimers)
	runner.Start()

	handler := appHTTP.NewAttendanceHandler(svc)
	router := appHTTP.NewRouter(jwtService, handler, cfg.App.Env)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	runner.Stop()
	scheduler.Stop()
}
