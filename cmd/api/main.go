package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/attendance-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/queue"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	alertService "github.com/cmlabs-hris/attendance-engine-go/internal/service/alert"
	attendanceService "github.com/cmlabs-hris/attendance-engine-go/internal/service/attendance"
	correctionService "github.com/cmlabs-hris/attendance-engine-go/internal/service/correction"
	geofenceService "github.com/cmlabs-hris/attendance-engine-go/internal/service/geofence"
	reportService "github.com/cmlabs-hris/attendance-engine-go/internal/service/report"
	shiftService "github.com/cmlabs-hris/attendance-engine-go/internal/service/shift"
	summaryService "github.com/cmlabs-hris/attendance-engine-go/internal/service/summary"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	location, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		slog.Error("Invalid timezone", "timezone", cfg.Attendance.Timezone, "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.Database.DSN, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var cache *redis.Client
	if cfg.ShiftCache.Enabled {
		cache = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
		})
		defer cache.Close()
	}

	var gateway notification.Gateway = queue.NewLogGateway()
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			slog.Error("Error connecting to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			slog.Error("Error opening RabbitMQ channel", "error", err)
			os.Exit(1)
		}
		defer ch.Close()

		gateway, err = queue.NewPublisher(ch)
		if err != nil {
			slog.Error("Error declaring notification queue", "error", err)
			os.Exit(1)
		}
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	shiftPolicyRepo := postgresql.NewShiftPolicyRepository(db)
	shiftAssignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	geofenceRepo := postgresql.NewGeofenceRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)
	alertRepo := postgresql.NewAlertRepository(db)
	directory := postgresql.NewEmployeeDirectory(db)
	workCalendar := postgresql.NewWorkCalendarRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	shiftSvc := shiftService.NewShiftService(
		shiftPolicyRepo, shiftAssignmentRepo, directory,
		cache, time.Duration(cfg.ShiftCache.TTLMinutes)*time.Minute,
	)
	geofenceSvc := geofenceService.NewGeofenceService(geofenceRepo)
	alertSvc := alertService.NewAlertService(alertRepo, attendanceRepo, gateway)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo, shiftSvc, geofenceSvc, alertSvc,
		directory, workCalendar, location, cfg.Attendance.EnforceHolidays,
	)
	correctionSvc := correctionService.NewCorrectionService(
		db, correctionRepo, attendanceRepo, shiftSvc, directory, gateway, location,
	)
	summarySvc := summaryService.NewSummaryService(
		summaryRepo, attendanceRepo, workCalendar, directory, location,
	)
	reportSvc := reportService.NewReportService(attendanceRepo, location)

	scheduler := cron.NewScheduler()
	jobs := cron.NewAttendanceJobs(attendanceRepo, directory, workCalendar, summarySvc, alertSvc, location)
	jobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(jwtService, cfg.Environment, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Shift:      appHTTP.NewShiftHandler(shiftSvc),
		Correction: appHTTP.NewCorrectionHandler(correctionSvc),
		Geofence:   appHTTP.NewGeofenceHandler(geofenceSvc),
		Summary:    appHTTP.NewSummaryHandler(summarySvc),
		Alert:      appHTTP.NewAlertHandler(alertSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Calendar:   appHTTP.NewCalendarHandler(workCalendar),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
