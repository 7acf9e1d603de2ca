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

	addBlockedPeriodHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/add_blocked_period"
	cancelAppointmentHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/create_appointment"
	decideChangeRequestHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/decide_change_request"
	getAppointmentHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/get_available_slots"
	getChangeSettingsHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/get_change_settings"
	getClientAppointmentsHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/get_client_appointments"
	getManagedAppointmentHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/get_managed_appointment"
	getScheduleHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/get_schedule"
	getSpecialistAppointmentsHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/get_specialist_appointments"
	removeBlockedPeriodHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/remove_blocked_period"
	submitChangeRequestHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/submit_change_request"
	updateAppointmentStatusHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/update_appointment_status"
	updateChangeSettingsHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/update_change_settings"
	updateScheduleHandler "github.com/avorotn/SBP-SchedulingService/internal/api/handlers/update_schedule"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	"github.com/avorotn/SBP-SchedulingService/internal/config"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	appointmentRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/appointment"
	changeRequestRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changerequest"
	changeSettingsRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changesettings"
	scheduleRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/schedule"
	businessServiceClient "github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	appointmentsService "github.com/avorotn/SBP-SchedulingService/internal/service/appointments"
	changeSettingsService "github.com/avorotn/SBP-SchedulingService/internal/service/changesettings"
	scheduleService "github.com/avorotn/SBP-SchedulingService/internal/service/schedule"
	createAppointmentUC "github.com/avorotn/SBP-SchedulingService/internal/usecase/create_appointment"
	decideChangeRequestUC "github.com/avorotn/SBP-SchedulingService/internal/usecase/decide_change_request"
	getAvailableSlotsUC "github.com/avorotn/SBP-SchedulingService/internal/usecase/get_available_slots"
	submitChangeRequestUC "github.com/avorotn/SBP-SchedulingService/internal/usecase/submit_change_request"
	"github.com/avorotn/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/avorotn/SBP-SchedulingService/pkg/logger"
	"github.com/avorotn/SBP-SchedulingService/pkg/managetoken"
	"github.com/avorotn/SBP-SchedulingService/pkg/metrics"
	"github.com/avorotn/SBP-SchedulingService/pkg/simpletxmanager"
	"github.com/avorotn/SBP-SchedulingService/pkg/txmanager"
)

// TxManager объединяет обычные и serializable транзакции,
// реализуется обоими менеджерами из pkg
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher абстракция публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
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

	log.Info("Starting SBP-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиент BusinessService
	bizClient := businessServiceClient.NewClient(
		cfg.BusinessService.URL,
		time.Duration(cfg.BusinessService.Timeout)*time.Second,
		log,
	)
	log.Info("BusinessService client initialized (url=%s, timeout=%ds)",
		cfg.BusinessService.URL, cfg.BusinessService.Timeout)

	// Инициализируем публикацию доменных событий
	var publisher EventPublisher
	if cfg.Events.Enabled {
		kafkaPublisher := events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("Kafka event publisher initialized (brokers=%v, topic=%s)",
			cfg.Events.Brokers, cfg.Events.Topic)
	} else {
		publisher = events.NopPublisher{}
		log.Info("Event publishing disabled")
	}

	// Инициализируем выпуск manage-токенов
	tokenIssuer := managetoken.NewIssuer(
		cfg.ManageTokens.Secret,
		time.Duration(cfg.ManageTokens.TTLHours)*time.Hour,
	)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository    *appointmentRepo.Repository
		scheduleRepository       *scheduleRepo.Repository
		changeRequestRepository  *changeRequestRepo.Repository
		changeSettingsRepository *changeSettingsRepo.Repository
		txMgr                    TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		changeRequestRepository = changeRequestRepo.NewRepository(wrappedDB)
		changeSettingsRepository = changeSettingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		changeRequestRepository = changeRequestRepo.NewRepository(db)
		changeSettingsRepository = changeSettingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		scheduleRepository,
		bizClient,
		publisher,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		bizClient,
		txMgr,
		log,
	)
	settingsSvc := changeSettingsService.NewService(
		changeSettingsRepository,
		bizClient,
		log,
	)

	// Инициализируем use cases
	// decide собирается раньше submit: submit использует его для автоодобрения
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleRepository,
		appointmentRepository,
		bizClient,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		bizClient,
		txMgr,
		publisher,
		tokenIssuer,
		log,
	)
	decideChangeRequestUseCase := decideChangeRequestUC.NewUseCase(
		changeRequestRepository,
		appointmentRepository,
		scheduleRepository,
		bizClient,
		txMgr,
		publisher,
		log,
	)
	submitChangeRequestUseCase := submitChangeRequestUC.NewUseCase(
		changeRequestRepository,
		appointmentRepository,
		changeSettingsRepository,
		decideChangeRequestUseCase,
		publisher,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getSpecialistAppointments := getSpecialistAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	addBlockedPeriod := addBlockedPeriodHandler.NewHandler(scheduleSvc, log)
	removeBlockedPeriod := removeBlockedPeriodHandler.NewHandler(scheduleSvc, log)
	getChangeSettings := getChangeSettingsHandler.NewHandler(settingsSvc, log)
	updateChangeSettings := updateChangeSettingsHandler.NewHandler(settingsSvc, log)
	submitChangeRequest := submitChangeRequestHandler.NewHandler(submitChangeRequestUseCase, tokenIssuer, log)
	getManagedAppointment := getManagedAppointmentHandler.NewHandler(appointmentSvc, changeRequestRepository, tokenIssuer, log)
	decideChangeRequest := decideChangeRequestHandler.NewHandler(decideChangeRequestUseCase, log)

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

	// Получение доступных слотов специалиста
	api.HandleFunc("/businesses/{businessId}/specialists/{specialistId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Управление записью по подписанному токену из ссылки
	api.HandleFunc("/manage/{token}/appointment",
		getManagedAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/manage/{token}/change-requests",
		submitChangeRequest.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Записи текущего клиента
	protected.HandleFunc("/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Смена статуса записи (подтверждение, завершение)
	protected.HandleFunc("/appointments/{appointmentId}/status",
		updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Управление специалистом (для менеджеров) ---
	// Записи специалиста за период
	protected.HandleFunc("/specialists/{specialistId}/appointments",
		getSpecialistAppointments.Handle).Methods(http.MethodGet)

	// Расписание специалиста
	protected.HandleFunc("/specialists/{specialistId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/specialists/{specialistId}/schedule",
		updateSchedule.Handle).Methods(http.MethodPut)

	// Блокировки времени
	protected.HandleFunc("/specialists/{specialistId}/blocked-periods",
		addBlockedPeriod.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/specialists/{specialistId}/blocked-periods/{periodId}",
		removeBlockedPeriod.Handle).Methods(http.MethodDelete)

	// --- Настройки клиентских изменений (для менеджеров) ---
	protected.HandleFunc("/businesses/{businessId}/change-settings",
		getChangeSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/change-settings",
		updateChangeSettings.Handle).Methods(http.MethodPut)

	// --- Запросы на изменение (для менеджеров) ---
	protected.HandleFunc("/change-requests/{requestId}/decide",
		decideChangeRequest.Handle).Methods(http.MethodPost)

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
