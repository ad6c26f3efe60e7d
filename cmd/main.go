package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	cancelReservationHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_availability"
	getReservationHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_reservation"
	listActiveReservationsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/list_active_reservations"
	listNotificationsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/list_notifications"
	listReservationsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/list_reservations"
	listUserReservationsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/list_user_reservations"
	markNotificationReadHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/mark_notification_read"
	reviewReservationHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/review_reservation"
	triggerSweepHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/trigger_sweep"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomServiceClient "github.com/m04kA/SMC-RoomBookingService/internal/integrations/roomservice"
	"github.com/m04kA/SMC-RoomBookingService/internal/scheduler"
	lifecycleService "github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle"
	notificationsService "github.com/m04kA/SMC-RoomBookingService/internal/service/notifications"
	createReservationUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_availability"
	sweepUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/sweep"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to the TOML config file")
	migrateOnly := pflag.Bool("migrate", false, "apply database migrations and exit")
	pflag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-RoomBookingService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var store *storage
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		if *migrateOnly {
			log.Fatal("--migrate requires storage.driver = %q", config.StorageDriverPostgres)
		}
		store = newMemoryStorage()
		log.Warn("Using in-memory storage: reservations are lost on restart")

	default:
		db, err := openDatabase(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if *migrateOnly || cfg.Database.AutoMigrate {
			if err := runMigrations(db); err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Database migrations applied")
		}
		if *migrateOnly {
			return
		}

		store = newPostgresStorage(cfg, db, metricsCollector, log)
	}
	defer store.close()

	// Каталог комнат
	var rooms roomServiceClient.Provider
	if cfg.RoomService.URL != "" {
		client := roomServiceClient.NewClient(
			cfg.RoomService.URL,
			time.Duration(cfg.RoomService.TimeoutSeconds)*time.Second,
			log,
		)
		rooms = roomServiceClient.NewCachedProvider(client, time.Duration(cfg.RoomService.CacheTTLSeconds)*time.Second)
		log.Info("Room catalog client initialized (RoomService=%s timeout=%ds cache_ttl=%ds)",
			cfg.RoomService.URL, cfg.RoomService.TimeoutSeconds, cfg.RoomService.CacheTTLSeconds)
	} else {
		rooms = roomServiceClient.NewStaticProvider(cfg.RoomService.DomainRooms())
		log.Info("Static room catalog loaded: %d rooms", len(cfg.RoomService.Rooms))
	}

	calendar := domain.NewCalendar(cfg.Booking.Location())

	// Инициализируем сервисы
	notificationSvc := notificationsService.NewService(store.notifications, metricsCollector, log)
	lifecycleSvc := lifecycleService.NewService(
		store.reservations,
		store.notifications,
		store.txManager,
		cfg.Booking.MaxActiveReservations,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		store.reservations,
		rooms,
		notificationSvc,
		store.txManager,
		calendar,
		createReservationUC.Rules{
			MaxActiveReservations: cfg.Booking.MaxActiveReservations,
			AdvanceBookingDays:    cfg.Booking.AdvanceBookingDays,
		},
		metricsCollector,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(store.reservations, rooms, calendar, log)
	sweepUseCase := sweepUC.NewUseCase(
		store.reservations,
		lifecycleSvc,
		sweepUC.Config{BatchSize: cfg.Sweep.BatchSize, Workers: cfg.Sweep.Workers},
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getReservation := getReservationHandler.NewHandler(lifecycleSvc, log)
	listActive := listActiveReservationsHandler.NewHandler(lifecycleSvc, log)
	listUserReservations := listUserReservationsHandler.NewHandler(lifecycleSvc, log)
	listReservations := listReservationsHandler.NewHandler(lifecycleSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(lifecycleSvc, log)
	reviewReservation := reviewReservationHandler.NewHandler(lifecycleSvc, log)
	triggerSweep := triggerSweepHandler.NewHandler(sweepUseCase, log)
	listNotifications := listNotificationsHandler.NewHandler(notificationSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/rooms/{roomId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailability.HandleOverview).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Мутирующие маршруты под лимитом запросов на пользователя
	limited := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewUserRateLimiter(
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleSeconds)*time.Second,
		)
		rateLimit := middleware.RateLimit(limiter)
		limited = func(h http.HandlerFunc) http.Handler { return rateLimit(h) }
		log.Info("Rate limit enabled: %.1f rps, burst %d per user", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler { return middleware.AdminOnly(limited(h)) }

	// --- Бронирования ---
	protected.Handle("/reservations", limited(createReservation.Handle)).Methods(http.MethodPost)
	protected.HandleFunc("/reservations", listUserReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/active", listActive.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/active/count", listActive.HandleCount).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}", getReservation.Handle).Methods(http.MethodGet)
	protected.Handle("/reservations/{reservationId:[0-9]+}/cancel", limited(cancelReservation.Handle)).Methods(http.MethodPatch)
	protected.Handle("/sweep", limited(triggerSweep.Handle)).Methods(http.MethodPost)

	// --- Администратор ---
	protected.Handle("/admin/reservations", middleware.AdminOnly(http.HandlerFunc(listReservations.Handle))).Methods(http.MethodGet)
	protected.Handle("/reservations/{reservationId:[0-9]+}/approve", adminOnly(reviewReservation.Approve)).Methods(http.MethodPatch)
	protected.Handle("/reservations/{reservationId:[0-9]+}/reject", adminOnly(reviewReservation.Reject)).Methods(http.MethodPatch)
	protected.Handle("/reservations/{reservationId:[0-9]+}/start", adminOnly(reviewReservation.Start)).Methods(http.MethodPatch)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", listNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/unread-count", listNotifications.HandleUnread).Methods(http.MethodGet)
	protected.Handle("/notifications/read-all", limited(markNotificationRead.HandleAll)).Methods(http.MethodPatch)
	protected.Handle("/notifications/{notificationId:[0-9]+}/read", limited(markNotificationRead.Handle)).Methods(http.MethodPatch)

	// Фоновый sweep
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	schedDone := make(chan struct{})
	if cfg.Sweep.Enabled {
		sched := scheduler.New(sweepUseCase, cfg.Sweep.Interval(), 0, log)
		go func() {
			defer close(schedDone)
			sched.Start(schedCtx)
		}()
	} else {
		close(schedDone)
		log.Warn("Background sweep disabled: expired reservations move only via POST /sweep")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopScheduler()
	<-schedDone

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func runMigrations(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return migrate(ctx, db)
}
