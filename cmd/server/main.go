package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/mrson-dev/crm-ju-ai/api/handler"
	"github.com/mrson-dev/crm-ju-ai/internal/config"
	"github.com/mrson-dev/crm-ju-ai/internal/infrastructure/buffer"
	"github.com/mrson-dev/crm-ju-ai/internal/infrastructure/monitor"
	pgInfra "github.com/mrson-dev/crm-ju-ai/internal/infrastructure/postgres"
	redisInfra "github.com/mrson-dev/crm-ju-ai/internal/infrastructure/redis"
	"github.com/mrson-dev/crm-ju-ai/internal/middleware"
	"github.com/mrson-dev/crm-ju-ai/internal/router"
	"github.com/mrson-dev/crm-ju-ai/internal/services"
	"github.com/mrson-dev/crm-ju-ai/internal/services/lifecycle"
	"github.com/mrson-dev/crm-ju-ai/pkg/httpcontext"
	"github.com/mrson-dev/crm-ju-ai/pkg/logger"
	"github.com/mrson-dev/crm-ju-ai/repository/postgres"
	redisRepo "github.com/mrson-dev/crm-ju-ai/repository/redis"
	authUC "github.com/mrson-dev/crm-ju-ai/usecase/auth"
	billingUC "github.com/mrson-dev/crm-ju-ai/usecase/billing"
	caseUC "github.com/mrson-dev/crm-ju-ai/usecase/casefile"
	clientUC "github.com/mrson-dev/crm-ju-ai/usecase/client"
	documentUC "github.com/mrson-dev/crm-ju-ai/usecase/document"
	profileUC "github.com/mrson-dev/crm-ju-ai/usecase/profile"
	statsUC "github.com/mrson-dev/crm-ju-ai/usecase/stats"
	taskUC "github.com/mrson-dev/crm-ju-ai/usecase/task"
	templateUC "github.com/mrson-dev/crm-ju-ai/usecase/template"
	timesheetUC "github.com/mrson-dev/crm-ju-ai/usecase/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	caseRepo := postgres.NewCaseRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	entryRepo := postgres.NewTimeEntryRepository(pool)
	feeRepo := postgres.NewFeeRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)
	statsCache := redisRepo.NewStatsCache(redisClient, cfg.Cache.DashboardTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		entryRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	clientUseCase := clientUC.New(clientRepo, zapLogger)
	caseUseCase := caseUC.New(caseRepo, clientRepo, zapLogger)
	documentUseCase := documentUC.New(documentRepo, caseRepo, zapLogger)
	templateUseCase := templateUC.New(templateRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, bufferBridge, zapLogger)
	timesheetUseCase := timesheetUC.New(entryRepo, bufferBridge, cfg.Billing.DefaultHourlyRateCents, zapLogger)
	billingUseCase := billingUC.New(feeRepo, expenseRepo, invoiceRepo, paymentRepo, zapLogger)
	statsUseCase := statsUC.New(statsRepo, statsCache, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.SessionTTL),
		Profile:   apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Client:    apiHandler.NewClientHandler(clientUseCase, ctxAdapter, zapLogger),
		Case:      apiHandler.NewCaseHandler(caseUseCase, ctxAdapter, zapLogger),
		Document:  apiHandler.NewDocumentHandler(documentUseCase, ctxAdapter, zapLogger),
		Template:  apiHandler.NewTemplateHandler(templateUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Timesheet: apiHandler.NewTimesheetHandler(timesheetUseCase, ctxAdapter, zapLogger),
		Billing:   apiHandler.NewBillingHandler(billingUseCase, ctxAdapter, zapLogger),
		Stats:     apiHandler.NewStatsHandler(statsUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, zapLogger)
	limiter.Start()
	manager.Register("rate_limiter", func(ctx context.Context) error {
		limiter.Stop()
		return nil
	})

	server := &fasthttp.Server{
		Handler:      limiter.Middleware(fasthttp.CompressHandler(r.Handler)),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
