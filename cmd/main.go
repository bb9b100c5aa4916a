package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/delete_booking"
	getBookingHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/get_booking"
	getClassSlotsHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/get_class_slots"
	getUserBookingsHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/list_bookings"
	updateBookingHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/update_booking"
	updateBookingStatusHandler "github.com/m04kA/FitClub-BookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/FitClub-BookingService/internal/api/middleware"
	"github.com/m04kA/FitClub-BookingService/internal/config"
	bookingRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/catalog"
	membershipRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/membership"
	sequenceRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/sequence"
	"github.com/m04kA/FitClub-BookingService/internal/scheduler"
	bookingsService "github.com/m04kA/FitClub-BookingService/internal/service/bookings"
	"github.com/m04kA/FitClub-BookingService/internal/sweeps"
	createBookingUC "github.com/m04kA/FitClub-BookingService/internal/usecase/create_booking"
	getClassSlotsUC "github.com/m04kA/FitClub-BookingService/internal/usecase/get_class_slots"
	updateBookingUC "github.com/m04kA/FitClub-BookingService/internal/usecase/update_booking"
	"github.com/m04kA/FitClub-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FitClub-BookingService/pkg/logger"
	"github.com/m04kA/FitClub-BookingService/pkg/metrics"
	"github.com/m04kA/FitClub-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/FitClub-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting FitClub-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository    *bookingRepo.Repository
		catalogRepository    *catalogRepo.Repository
		membershipRepository *membershipRepo.Repository
		sequenceRepository   *sequenceRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		membershipRepository = membershipRepo.NewRepository(wrappedDB)
		sequenceRepository = sequenceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		membershipRepository = membershipRepo.NewRepository(db)
		sequenceRepository = sequenceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		sequenceRepository,
		txMgr,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		txMgr,
		log,
	)
	getClassSlotsUseCase := getClassSlotsUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getClassSlots := getClassSlotsHandler.NewHandler(getClassSlotsUseCase, log)

	// Инициализируем фоновые задачи
	timeProvider := &sweeps.RealTimeProvider{}
	var sweepMetrics sweeps.Metrics
	var schedMetrics scheduler.Metrics
	if cfg.Metrics.Enabled {
		sweepMetrics = metricsCollector
		schedMetrics = metricsCollector
	}

	sched := scheduler.New(log, schedMetrics)
	if cfg.Scheduler.Enabled {
		bookingSweep := sweeps.NewBookingLifecycleSweep(
			bookingRepository, timeProvider, log, sweepMetrics,
			cfg.Scheduler.BookingRetentionMonths,
		)
		renewalSweep := sweeps.NewMembershipRenewalSweep(
			membershipRepository, catalogRepository, timeProvider, log, sweepMetrics,
			cfg.Scheduler.RenewalWindowDays,
		)
		retentionSweep := sweeps.NewMembershipRetentionSweep(
			membershipRepository, timeProvider, log, sweepMetrics,
			cfg.Scheduler.MembershipRetentionMonths,
		)

		sched.Register(bookingSweep, time.Duration(cfg.Scheduler.BookingSweepInterval)*time.Minute)
		sched.Register(renewalSweep, time.Duration(cfg.Scheduler.MembershipSweepInterval)*time.Minute)
		sched.Register(retentionSweep, time.Duration(cfg.Scheduler.RetentionSweepInterval)*time.Minute)

		sched.Start(context.Background())
		log.Info("Background sweeps scheduled (booking=%dm, renewal=%dm, retention=%dm)",
			cfg.Scheduler.BookingSweepInterval, cfg.Scheduler.MembershipSweepInterval, cfg.Scheduler.RetentionSweepInterval)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Вхождения слотов занятия с остатком мест
	api.HandleFunc("/classes/{classId}/slots", getClassSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Административная выборка бронирований
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Частичное обновление бронирования
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Физическое удаление бронирования (администратор)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Смена статуса бронирования (администратор)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи
	if cfg.Scheduler.Enabled {
		sched.Stop()
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
