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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/cancel_reservation"
	clearRateLimitHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/clear_ratelimit"
	createReservationHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/create_reservation"
	deleteReservationHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/delete_reservation"
	getAvailableUnitsHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/get_available_units"
	getRateLimitStatusHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/get_ratelimit_status"
	getReservationHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/get_reservation"
	listReservationsHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/list_reservations"
	updateReservationHandler "github.com/apartmani-bj/booking-service/internal/api/handlers/update_reservation"
	"github.com/apartmani-bj/booking-service/internal/api/middleware"
	"github.com/apartmani-bj/booking-service/internal/config"
	"github.com/apartmani-bj/booking-service/internal/domain"
	ratelimitStore "github.com/apartmani-bj/booking-service/internal/infra/ratelimit"
	guestRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/guest"
	reservationRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/reservation"
	unitRepo "github.com/apartmani-bj/booking-service/internal/infra/storage/unit"
	"github.com/apartmani-bj/booking-service/internal/integrations/notifier"
	ratelimitService "github.com/apartmani-bj/booking-service/internal/service/ratelimit"
	reservationsService "github.com/apartmani-bj/booking-service/internal/service/reservations"
	createReservationUC "github.com/apartmani-bj/booking-service/internal/usecase/create_reservation"
	getAvailableUnitsUC "github.com/apartmani-bj/booking-service/internal/usecase/get_available_units"
	"github.com/apartmani-bj/booking-service/pkg/dbmetrics"
	"github.com/apartmani-bj/booking-service/pkg/logger"
	"github.com/apartmani-bj/booking-service/pkg/metrics"
	"github.com/apartmani-bj/booking-service/pkg/simpletxmanager"
	"github.com/apartmani-bj/booking-service/pkg/txmanager"
)

// realTimeProvider реальный провайдер времени для production
type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

// notificationClient общий интерфейс Kafka-клиента и заглушки
type notificationClient interface {
	NotifyReservationRequested(ctx context.Context, info notifier.ReservationInfo) error
	NotifyReservationConfirmed(ctx context.Context, info notifier.ReservationInfo) error
	NotifyReviewRequested(ctx context.Context, info notifier.ReservationInfo) error
	Close() error
}

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

	log.Info("Starting booking-service...")
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

	// Подключаемся к Redis (счетчики rate limiting).
	// Недоступный Redis не блокирует старт: limiter работает в режиме fail-open.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable at %s, rate limiter will fail open: %v", cfg.Redis.Addr, err)
	} else {
		log.Info("Successfully connected to Redis (addr=%s)", cfg.Redis.Addr)
	}
	cancelPing()

	// Инициализируем клиента уведомлений
	var notifyClient notificationClient
	if cfg.Kafka.Enabled {
		client, err := notifier.NewClient(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Fatal("Failed to create Kafka producer: %v", err)
		}
		notifyClient = client
		log.Info("Kafka producer connected (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		notifyClient = notifier.NewNoopClient(log)
		log.Info("Kafka disabled, notifications are logged and dropped")
	}
	defer notifyClient.Close()

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		guestRepository       *guestRepo.Repository
		unitRepository        *unitRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		guestRepository = guestRepo.NewRepository(wrappedDB)
		unitRepository = unitRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		guestRepository = guestRepo.NewRepository(db)
		unitRepository = unitRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	rateLimitSvc := ratelimitService.NewService(
		ratelimitStore.NewStore(redisClient),
		rateLimitRules(cfg.RateLimit),
		realTimeProvider{},
		log,
	)

	reservationSvc := reservationsService.NewService(
		reservationRepository,
		guestRepository,
		unitRepository,
		notifyClient,
		txMgr,
		realTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		guestRepository,
		unitRepository,
		rateLimitSvc,
		notifyClient,
		txMgr,
		log,
	)

	getAvailableUnitsUseCase := getAvailableUnitsUC.NewUseCase(unitRepository, log)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailableUnits := getAvailableUnitsHandler.NewHandler(getAvailableUnitsUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	updateReservation := updateReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	deleteReservation := deleteReservationHandler.NewHandler(reservationSvc, log)
	getRateLimitStatus := getRateLimitStatusHandler.NewHandler(rateLimitSvc, log)
	clearRateLimit := clearRateLimitHandler.NewHandler(rateLimitSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Клиентский контекст нужен всем публичным маршрутам
	r.Use(middleware.ClientInfo)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (гостевой сайт)
	// ============================================================

	// Создание заявки на бронирование
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Поиск свободных апартаментов
	api.HandleFunc("/units/available", getAvailableUnits.Handle).Methods(http.MethodGet)

	// ============================================================
	// STAFF ROUTES (требуют X-Admin-Token)
	// ============================================================

	staff := api.PathPrefix("").Subrouter()
	staff.Use(middleware.Auth(cfg.Auth.AdminToken))

	// Список бронирований с фильтрацией
	staff.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)

	// Карточка бронирования
	staff.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Обновление бронирования (статус, даты, гость, опции)
	staff.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	staff.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Физическое удаление ошибочной записи
	staff.HandleFunc("/reservations/{reservationId}", deleteReservation.Handle).Methods(http.MethodDelete)

	// Диагностика и ручной сброс rate limiter
	staff.HandleFunc("/ratelimit/{kind}/{identifier}", getRateLimitStatus.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/ratelimit/{kind}/{identifier}", clearRateLimit.Handle).Methods(http.MethodDelete)

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

// rateLimitRules конвертирует конфигурацию в пороги сервиса rate limiting
func rateLimitRules(cfg config.RateLimitConfig) ratelimitService.Rules {
	toRule := func(r config.RateLimitRule) ratelimitService.Rule {
		return ratelimitService.Rule{
			MaxAttempts: r.MaxAttempts,
			Window:      time.Duration(r.WindowMinutes) * time.Minute,
			BlockFor:    time.Duration(r.BlockMinutes) * time.Minute,
		}
	}

	return ratelimitService.Rules{
		domain.KindIP:          toRule(cfg.IP),
		domain.KindEmail:       toRule(cfg.Email),
		domain.KindFingerprint: toRule(cfg.Fingerprint),
	}
}
