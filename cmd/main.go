package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	createInterventionHandler "github.com/m04kA/SAV-InterventionService/internal/api/handlers/create_intervention"
	createInvoiceHandler "github.com/m04kA/SAV-InterventionService/internal/api/handlers/create_invoice"
	deleteInterventionHandler "github.com/m04kA/SAV-InterventionService/internal/api/handlers/delete_intervention"
	getInterventionHandler "github.com/m04kA/SAV-InterventionService/internal/api/handlers/get_intervention"
	getInvoiceHandler "github.com/m04kA/SAV-InterventionService/internal/api/handlers/get_invoice"
	healthHandler "github.com/m04kA/SAV-InterventionService/internal/api/handlers/health"
	updateInterventionHandler "github.com/m04kA/SAV-InterventionService/internal/api/handlers/update_intervention"
	"github.com/m04kA/SAV-InterventionService/internal/api/middleware"
	"github.com/m04kA/SAV-InterventionService/internal/config"
	"github.com/m04kA/SAV-InterventionService/internal/domain"
	interventionRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/intervention"
	invoiceRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/invoice"
	outboxRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/outbox"
	"github.com/m04kA/SAV-InterventionService/internal/infra/storage/sequence"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/articleservice"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/clientservice"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/complaintservice"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/notificationservice"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/transport"
	"github.com/m04kA/SAV-InterventionService/internal/service/estimate"
	interventionsService "github.com/m04kA/SAV-InterventionService/internal/service/interventions"
	"github.com/m04kA/SAV-InterventionService/internal/service/invoicenumber"
	"github.com/m04kA/SAV-InterventionService/internal/service/warranty"
	autoInvoiceUC "github.com/m04kA/SAV-InterventionService/internal/usecase/auto_invoice"
	createInterventionUC "github.com/m04kA/SAV-InterventionService/internal/usecase/create_intervention"
	updateInterventionUC "github.com/m04kA/SAV-InterventionService/internal/usecase/update_intervention"
	outboxWorker "github.com/m04kA/SAV-InterventionService/internal/worker/outbox"
	"github.com/m04kA/SAV-InterventionService/pkg/dbmetrics"
	"github.com/m04kA/SAV-InterventionService/pkg/logger"
	"github.com/m04kA/SAV-InterventionService/pkg/metrics"
	"github.com/m04kA/SAV-InterventionService/pkg/txmanager"
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

	log.Info("Starting SAV-InterventionService...")

	rules, err := cfg.BillingRules()
	if err != nil {
		log.Fatal("Invalid billing rules: %v", err)
	}

	// Инициализируем метрики (если включены); nil-коллектор ничего не пишет
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	interventionRepository := interventionRepo.NewRepository(wrappedDB)
	invoiceRepository := invoiceRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)

	// Интеграционные клиенты; bearer входящего запроса пересылается как есть
	articleClient := articleservice.NewClient(
		transport.New(cfg.ArticleService.URL, cfg.ArticleService.TimeoutDuration()),
		log,
	)
	complaintClient := complaintservice.NewClient(
		transport.New(cfg.ComplaintService.URL, cfg.ComplaintService.TimeoutDuration()),
		log,
	)
	clientClient := clientservice.NewClient(
		transport.New(cfg.ClientService.URL, cfg.ClientService.TimeoutDuration()),
		log,
	)
	notificationClient := notificationservice.NewClient(
		transport.New(cfg.NotificationService.URL, cfg.NotificationService.TimeoutDuration(),
			transport.WithStaticToken(cfg.NotificationService.Token)),
	)
	log.Info("Integration clients initialized (ArticleService=%s, ComplaintService=%s, ClientService=%s, NotificationService=%s)",
		cfg.ArticleService.URL, cfg.ComplaintService.URL, cfg.ClientService.URL, cfg.NotificationService.URL)

	// Нумерация счетов
	var (
		counter     invoicenumber.Counter
		redisClient *redis.Client
	)
	switch cfg.InvoiceNumber.Strategy {
	case domain.NumberStrategyRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		counter = sequence.NewRedisCounter(redisClient, 0)
	case domain.NumberStrategyCount:
		log.Warn("Invoice numbering strategy %q is not safe under concurrent writers", domain.NumberStrategyCount)
		counter = invoicenumber.NewCountingCounter(invoiceRepository)
	default:
		counter = sequence.NewPostgresCounter(wrappedDB)
	}
	numbers := invoicenumber.NewGenerator(cfg.InvoiceNumber.Prefix, cfg.InvoiceNumber.Strategy, counter)
	log.Info("Invoice numbering: prefix=%s, strategy=%s", cfg.InvoiceNumber.Prefix, numbers.Strategy())

	// Сервисы
	warrantyResolver := warranty.NewResolver(articleClient, warranty.Config{
		Retries: cfg.Warranty.Retries,
		Backoff: time.Duration(cfg.Warranty.RetryBackoffMs) * time.Millisecond,
	}, metricsCollector, log)
	estimator := estimate.NewEstimator(articleClient, rules, metricsCollector, log)
	interventionSvc := interventionsService.NewService(
		interventionRepository,
		invoiceRepository,
		txMgr,
		rules.LateAfter,
		log,
	)

	// Use cases
	autoInvoiceUseCase := autoInvoiceUC.NewUseCase(
		interventionRepository,
		invoiceRepository,
		outboxRepository,
		complaintClient,
		clientClient,
		numbers,
		txMgr,
		rules,
		metricsCollector,
		log,
	)
	createInterventionUseCase := createInterventionUC.NewUseCase(
		interventionRepository,
		outboxRepository,
		complaintClient,
		warrantyResolver,
		estimator,
		autoInvoiceUseCase,
		txMgr,
		rules,
		log,
	)
	updateInterventionUseCase := updateInterventionUC.NewUseCase(
		interventionRepository,
		invoiceRepository,
		autoInvoiceUseCase,
		txMgr,
		log,
	)

	// Handlers
	createIntervention := createInterventionHandler.NewHandler(createInterventionUseCase, rules.LateAfter, log)
	updateIntervention := updateInterventionHandler.NewHandler(updateInterventionUseCase, rules.LateAfter, log)
	getIntervention := getInterventionHandler.NewHandler(interventionSvc, log)
	deleteIntervention := deleteInterventionHandler.NewHandler(interventionSvc, log)
	getInvoice := getInvoiceHandler.NewHandler(interventionSvc, log)
	createInvoice := createInvoiceHandler.NewHandler(autoInvoiceUseCase, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(log), middleware.Metrics(metricsCollector))

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API (требует Authorization: Bearer ...)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(log))

	// --- Выезды ---
	api.HandleFunc("/interventions", createIntervention.Handle).Methods(http.MethodPost)
	api.HandleFunc("/interventions/{interventionId}", getIntervention.Handle).Methods(http.MethodGet)
	api.HandleFunc("/interventions/{interventionId}", updateIntervention.Handle).Methods(http.MethodPut)
	api.HandleFunc("/interventions/{interventionId}", deleteIntervention.Handle).Methods(http.MethodDelete)

	// --- Счета ---
	api.HandleFunc("/interventions/{interventionId}/invoice", getInvoice.Handle).Methods(http.MethodGet)
	api.HandleFunc("/interventions/{interventionId}/invoice", createInvoice.Handle).Methods(http.MethodPost)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
	}).Handler(r)

	// Фоновая доставка уведомлений
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	if cfg.Outbox.Enabled {
		dispatcher := outboxWorker.NewDispatcher(outboxRepository, notificationClient, txMgr, outboxWorker.Config{
			PollInterval: time.Duration(cfg.Outbox.PollIntervalMs) * time.Millisecond,
			BatchSize:    cfg.Outbox.BatchSize,
			MaxAttempts:  cfg.Outbox.MaxAttempts,
		}, metricsCollector, log)

		workers.Add(1)
		go func() {
			defer workers.Done()
			dispatcher.Run(workerCtx)
		}()
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopWorker()
	workers.Wait()
	log.Info("Outbox dispatcher stopped")

	close(stopMetricsCh)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
