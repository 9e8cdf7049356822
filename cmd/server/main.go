package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	billingapp "github.com/fieldledger/backend/internal/application/billing"
	"github.com/fieldledger/backend/internal/application/effects"
	fieldapp "github.com/fieldledger/backend/internal/application/field"
	jobcostapp "github.com/fieldledger/backend/internal/application/jobcost"
	numberingapp "github.com/fieldledger/backend/internal/application/numbering"
	partnerapp "github.com/fieldledger/backend/internal/application/partner"
	"github.com/fieldledger/backend/internal/application/reconcile"
	reportapp "github.com/fieldledger/backend/internal/application/report"
	tradeapp "github.com/fieldledger/backend/internal/application/trade"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/fieldledger/backend/internal/infrastructure/auth"
	"github.com/fieldledger/backend/internal/infrastructure/cache"
	"github.com/fieldledger/backend/internal/infrastructure/config"
	"github.com/fieldledger/backend/internal/infrastructure/event"
	"github.com/fieldledger/backend/internal/infrastructure/logger"
	"github.com/fieldledger/backend/internal/infrastructure/persistence"
	"github.com/fieldledger/backend/internal/infrastructure/scheduler"
	"github.com/fieldledger/backend/internal/infrastructure/storage"
	"github.com/fieldledger/backend/internal/infrastructure/telemetry"
	"github.com/fieldledger/backend/internal/interfaces/http/handler"
	"github.com/fieldledger/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	metrics, err := telemetry.NewBusinessMetrics()
	if err != nil {
		log.Warn("business metrics disabled", zap.Error(err))
	}
	persistence.SetMetrics(metrics)

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB, log)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB, log)
	saleRepo := persistence.NewGormMaterialSaleRepository(db.DB, log)
	jobCostRepo := persistence.NewGormJobCostRepository(db.DB, log)
	visitRepo := persistence.NewGormSiteVisitRepository(db.DB, log)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	statsRepo := persistence.NewGormStatsRepository(db.DB)
	allocator := persistence.NewGormSequenceAllocator(db.DB, log)
	counterSync := persistence.NewGormCounterSync(db.DB, log)

	// Read cache and post-write collaborators
	readCache := cache.NewReadCache(cfg.Redis, log)

	bus := event.NewBus(log)
	logNotifier := event.NewLogNotifier(log)
	bus.Subscribe(func(ctx context.Context, n shared.Notification) {
		_ = logNotifier.Notify(ctx, n)
	})

	recorder := effects.NewRecorder(counterSync, readCache, bus, log)
	recorder.SetMetrics(metrics)

	fileStore, err := storage.NewFileStore(cfg.Storage, log)
	if err != nil {
		log.Fatal("failed to initialize file storage", zap.Error(err))
	}

	// Application services
	numbering := numberingapp.NewService(allocator, tenantRepo, log)
	propagator := jobcostapp.NewPropagator(jobCostRepo, log)

	invoiceService := billingapp.NewInvoiceService(invoiceRepo, numbering, recorder, log)
	invoiceService.SetFileStore(fileStore)

	orderService := tradeapp.NewPurchaseOrderService(orderRepo, numbering, propagator, recorder, log)
	orderService.SetFileStore(fileStore)

	saleService := tradeapp.NewMaterialSaleService(saleRepo, numbering, recorder, log)
	jobCostService := jobcostapp.NewService(jobCostRepo, numbering, recorder, log)
	visitService := fieldapp.NewService(visitRepo, numbering, recorder, log)

	partnerService := partnerapp.NewService(supplierRepo, customerRepo, categoryRepo, orderRepo, recorder, log)
	partnerService.AddCustomerReferenceCounter(invoiceRepo)
	partnerService.AddCustomerReferenceCounter(saleRepo)
	partnerService.AddCustomerReferenceCounter(visitRepo)

	dashboardService := reportapp.NewDashboardService(statsRepo, counterSync, log)
	dashboardService.SetCache(readCache)
	dashboardService.SetMetrics(metrics)

	reconciler := reconcile.NewReconciler(tenantRepo, counterSync, log)
	reconciler.SetMetrics(metrics)
	reconciler.Register(tenant.CountInvoices, invoiceRepo)
	reconciler.Register(tenant.CountPurchaseOrders, orderRepo)
	reconciler.Register(tenant.CountMaterialSales, saleRepo)
	reconciler.Register(tenant.CountJobCosts, jobCostRepo)
	reconciler.Register(tenant.CountSiteVisits, visitRepo)
	reconciler.Register(tenant.CountSuppliers, supplierRepo)
	reconciler.Register(tenant.CountCustomers, customerRepo)

	var reconcileSched *scheduler.ReconciliationScheduler
	if cfg.Reconciliation.Enabled {
		reconcileSched = scheduler.NewReconciliationScheduler(cfg.Reconciliation, reconciler, log)
		if err := reconcileSched.Start(); err != nil {
			log.Fatal("failed to start reconciliation scheduler", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(cfg, jwtService, log, router.Handlers{
		System:        handler.NewSystemHandler(db.DB),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		MaterialSale:  handler.NewMaterialSaleHandler(saleService),
		JobCost:       handler.NewJobCostHandler(jobCostService),
		SiteVisit:     handler.NewSiteVisitHandler(visitService),
		Partner:       handler.NewPartnerHandler(partnerService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		Admin:         handler.NewAdminHandler(reconciler, reconcileSched),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if reconcileSched != nil {
		if err := reconcileSched.Stop(ctx); err != nil {
			log.Warn("reconciliation scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
