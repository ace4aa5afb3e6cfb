package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/config"
	"github.com/MSNanda515/StockFlow/internal/locking"
	"github.com/MSNanda515/StockFlow/internal/repository"
	"github.com/MSNanda515/StockFlow/internal/repository/memory"
	"github.com/MSNanda515/StockFlow/internal/repository/mongodb"
	"github.com/MSNanda515/StockFlow/internal/repository/sheets"
	"github.com/MSNanda515/StockFlow/internal/scheduler"
	"github.com/MSNanda515/StockFlow/internal/server/handlers"
	"github.com/MSNanda515/StockFlow/internal/server/router"
	itemsvc "github.com/MSNanda515/StockFlow/internal/service/items"
	reportingsvc "github.com/MSNanda515/StockFlow/internal/service/reporting"
	shippingsvc "github.com/MSNanda515/StockFlow/internal/service/shipping"
	warehousesvc "github.com/MSNanda515/StockFlow/internal/service/warehouse"
	"github.com/MSNanda515/StockFlow/pkg/clients/notifier"
	"github.com/MSNanda515/StockFlow/pkg/logger"
)

// store is everything the services persist through.
type store interface {
	repository.Store
	repository.ReportRepository
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var db store
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		baseLogger.Warn("using in-memory storage, data is lost on restart")
		db = memory.NewStore()
	default:
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		db = mongoRepo
	}

	var sheetRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetRepo = repo
	} else {
		baseLogger.Info("google sheets not configured, capacity report export disabled")
	}

	var notifyClient notifier.Client
	if cfg.Notifier.Enabled() {
		notifyClient = notifier.NewClient(cfg.Notifier)
	} else {
		baseLogger.Info("notify webhook not configured, capacity report delivery disabled")
	}

	locks := locking.NewTable()
	warehouseSvc := warehousesvc.NewService(db, locks, baseLogger.Named("svc.warehouse"))
	itemSvc := itemsvc.NewService(db, warehouseSvc, locks, baseLogger.Named("svc.items"))
	shippingSvc := shippingsvc.NewService(db, warehouseSvc, locks, baseLogger.Named("svc.shipping"))
	reportingSvc := reportingsvc.NewService(db, db, sheetRepo, notifyClient, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Warehouses: handlers.NewWarehouseHandler(warehouseSvc, itemSvc, baseLogger.Named("handlers.warehouses")),
		Items:      handlers.NewItemHandler(itemSvc, baseLogger.Named("handlers.items")),
		Shipments:  handlers.NewShipmentHandler(shippingSvc, baseLogger.Named("handlers.shipments")),
		Reports:    handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
