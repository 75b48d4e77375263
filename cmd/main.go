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
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	acceptReservationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/accept_reservation"
	cancelReservationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_reservation"
	claimReservationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/claim_reservation"
	completeReservationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/complete_reservation"
	createReservationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_reservation"
	decideAbsenceHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/decide_absence"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_availability"
	getClientReservationsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_client_reservations"
	getReservationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_reservation"
	getWorkerAbsencesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_worker_absences"
	getWorkerAgendaHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_worker_agenda"
	rejectReservationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/reject_reservation"
	requestAbsenceHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/request_absence"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/lock"
	absenceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/absence"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	workerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/worker"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	absencesService "github.com/m04kA/SMC-SalonBooking/internal/service/absences"
	"github.com/m04kA/SMC-SalonBooking/internal/service/conflicts"
	"github.com/m04kA/SMC-SalonBooking/internal/service/penalty"
	reservationsService "github.com/m04kA/SMC-SalonBooking/internal/service/reservations"
	createReservationUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from config.toml")

	salonLocation, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid salon timezone: %v", err)
	}
	defaultPolicy, err := domain.ParseCancellationPolicy(cfg.Cancellation.DefaultPolicy)
	if err != nil {
		log.Fatal("Invalid default cancellation policy: %v", err)
	}

	// Инициализируем метрики
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Connected to database %s:%d/%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками запросов, если включены)
	var (
		reservationRepository *reservationRepo.Repository
		workerRepository      *workerRepo.Repository
		catalogRepository     *catalogRepo.Repository
		absenceRepository     *absenceRepo.Repository
		txBeginner            dbmetrics.TxBeginner
	)

	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		workerRepository = workerRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		absenceRepository = absenceRepo.NewRepository(wrappedDB)
		txBeginner = wrappedDB
	} else {
		plainDB := dbmetrics.Plain(db)
		reservationRepository = reservationRepo.NewRepository(plainDB)
		workerRepository = workerRepo.NewRepository(plainDB)
		catalogRepository = catalogRepo.NewRepository(plainDB)
		absenceRepository = absenceRepo.NewRepository(plainDB)
		txBeginner = plainDB
	}

	txManager := txmanager.NewTransactionManager(txBeginner, log)

	// Блокировки: Redis для нескольких экземпляров, иначе в памяти процесса
	var (
		locker      reservationsService.Locker
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		locker = lock.NewRedis(
			redisClient,
			time.Duration(cfg.Redis.LockTTLMs)*time.Millisecond,
			time.Duration(cfg.Redis.RetryIntervalMs)*time.Millisecond,
			cfg.Redis.KeyPrefix,
			log,
		)
		log.Info("Using redis locks at %s", cfg.Redis.Addr)
	} else {
		locker = lock.NewLocal()
		log.Info("Using in-process locks")
	}

	// Публикация событий
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(
			cfg.Kafka.Brokers,
			cfg.Kafka.Topic,
			time.Duration(cfg.Kafka.WriteTimeoutMs)*time.Millisecond,
			log,
		)
		log.Info("Publishing events to kafka topic %s", cfg.Kafka.Topic)
	}

	// Штрафы за отмену: без стратегий любая политика бесплатна
	var strategies map[domain.CancellationPolicy]penalty.Strategy
	if cfg.Cancellation.PenaltiesEnabled {
		strategies = map[domain.CancellationPolicy]penalty.Strategy{
			domain.PolicyFlexible: thresholdStrategy(cfg.Cancellation.Flexible),
			domain.PolicyModerate: thresholdStrategy(cfg.Cancellation.Moderate),
			domain.PolicyStrict:   thresholdStrategy(cfg.Cancellation.Strict),
		}
	}
	penaltyEngine := penalty.NewEngine(salonLocation, strategies)

	// Инициализируем сервисы
	absencesSvc := absencesService.NewService(
		absenceRepository,
		workerRepository,
		txManager,
		publisher,
		log,
	)

	guard := conflicts.NewGuard(reservationRepository, metricsCollector, log)

	reservationsSvc := reservationsService.NewService(
		reservationsService.Dependencies{
			Reservations: reservationRepository,
			Workers:      workerRepository,
			Catalog:      catalogRepository,
			Absences:     absenceRepository,
			Guard:        guard,
			Penalty:      penaltyEngine,
			Locker:       locker,
			TxManager:    txManager,
			Publisher:    publisher,
			Metrics:      metricsCollector,
			Logger:       log,
		},
		reservationsService.Config{
			Location:      salonLocation,
			DefaultPolicy: defaultPolicy,
		},
	)

	// Инициализируем use cases
	getAvailability := getAvailabilityUC.NewUseCase(
		catalogRepository,
		workerRepository,
		absencesSvc,
		reservationRepository,
		getAvailabilityUC.Config{
			Location:           salonLocation,
			SlotStepMinutes:    cfg.Booking.SlotStepMinutes,
			AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		},
		log,
	)

	createReservation := createReservationUC.NewUseCase(
		reservationRepository,
		catalogRepository,
		workerRepository,
		absencesSvc,
		guard,
		locker,
		txManager,
		publisher,
		metricsCollector,
		createReservationUC.Config{
			Location:           salonLocation,
			AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		},
		log,
	)

	// Инициализируем handlers
	getAvailabilityH := getAvailabilityHandler.NewHandler(getAvailability, log)
	createReservationH := createReservationHandler.NewHandler(createReservation, log)
	getReservationH := getReservationHandler.NewHandler(reservationsSvc, log)
	getClientReservationsH := getClientReservationsHandler.NewHandler(reservationsSvc, log)
	getWorkerAgendaH := getWorkerAgendaHandler.NewHandler(reservationsSvc, log)
	acceptReservationH := acceptReservationHandler.NewHandler(reservationsSvc, log)
	rejectReservationH := rejectReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservationH := cancelReservationHandler.NewHandler(reservationsSvc, log)
	claimReservationH := claimReservationHandler.NewHandler(reservationsSvc, log)
	completeReservationH := completeReservationHandler.NewHandler(reservationsSvc, log)
	requestAbsenceH := requestAbsenceHandler.NewHandler(absencesSvc, log)
	getWorkerAbsencesH := getWorkerAbsencesHandler.NewHandler(absencesSvc, log)
	decideAbsenceH := decideAbsenceHandler.NewHandler(absencesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware (применяется ко всем роутам)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
	}

	// Prometheus metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты по услуге и дате
	api.HandleFunc("/availability", getAvailabilityH.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(workerRepository, log))

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservationH.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservationH.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/accept", acceptReservationH.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/reject", rejectReservationH.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservationH.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/claim", claimReservationH.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/complete", completeReservationH.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/users/{userId}/reservations", getClientReservationsH.Handle).Methods(http.MethodGet)

	// --- Мастера ---
	protected.HandleFunc("/workers/{workerId}/agenda", getWorkerAgendaH.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/workers/{workerId}/absences", requestAbsenceH.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/workers/{workerId}/absences", getWorkerAbsencesH.Handle).Methods(http.MethodGet)

	// Решение администратора по заявке на отсутствие
	protected.HandleFunc("/absences/{absenceId}/decision", decideAbsenceH.Handle).Methods(http.MethodPatch)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}

func thresholdStrategy(p config.PolicyPenaltyConfig) penalty.ThresholdStrategy {
	return penalty.ThresholdStrategy{
		ThresholdHours: float64(p.ThresholdHours),
		Percent:        decimal.NewFromFloat(p.Percent),
	}
}
