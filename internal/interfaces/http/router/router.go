package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/infrastructure/auth"
	"github.com/fieldledger/backend/internal/infrastructure/config"
	"github.com/fieldledger/backend/internal/infrastructure/logger"
	"github.com/fieldledger/backend/internal/interfaces/http/handler"
	"github.com/fieldledger/backend/internal/interfaces/http/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	System        *handler.SystemHandler
	Invoice       *handler.InvoiceHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	MaterialSale  *handler.MaterialSaleHandler
	JobCost       *handler.JobCostHandler
	SiteVisit     *handler.SiteVisitHandler
	Partner       *handler.PartnerHandler
	Dashboard     *handler.DashboardHandler
	Admin         *handler.AdminHandler
}

// New builds the gin engine with the full middleware chain and route table
func New(cfg *config.Config, jwtService *auth.JWTService, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWT(middleware.JWTConfig{Service: jwtService}))

	documents := api.Group("/documents")
	{
		documents.POST("/quotations", h.Invoice.Create)
		documents.GET("", h.Invoice.List)
		documents.GET("/:id", h.Invoice.GetByID)
		documents.GET("/number/:number", h.Invoice.GetByNumber)
		documents.PUT("/:id", h.Invoice.Update)
		documents.POST("/:id/convert", h.Invoice.Convert)
		documents.POST("/:id/payments", h.Invoice.RecordPayment)
		documents.PUT("/:id/status", h.Invoice.ChangeStatus)
		documents.POST("/:id/attachments", h.Invoice.AddAttachment)
		documents.DELETE("/:id/attachments/:attachmentId", h.Invoice.RemoveAttachment)
		documents.DELETE("/:id", h.Invoice.Delete)
	}

	orders := api.Group("/purchase-orders")
	{
		orders.POST("", h.PurchaseOrder.Create)
		orders.GET("", h.PurchaseOrder.List)
		orders.GET("/:id", h.PurchaseOrder.GetByID)
		orders.GET("/number/:number", h.PurchaseOrder.GetByNumber)
		orders.PUT("/:id", h.PurchaseOrder.Update)
		orders.PUT("/:id/status", h.PurchaseOrder.ChangeStatus)
		orders.PUT("/:id/image", h.PurchaseOrder.ReplaceImage)
		orders.DELETE("/:id", h.PurchaseOrder.Delete)
	}

	sales := api.Group("/material-sales")
	{
		sales.POST("", h.MaterialSale.Create)
		sales.GET("", h.MaterialSale.List)
		sales.GET("/:id", h.MaterialSale.GetByID)
		sales.PUT("/:id", h.MaterialSale.Update)
		sales.PUT("/:id/status", h.MaterialSale.ChangeStatus)
		sales.DELETE("/:id", h.MaterialSale.Delete)
	}

	jobCosts := api.Group("/job-costs")
	{
		jobCosts.POST("", h.JobCost.Create)
		jobCosts.GET("", h.JobCost.List)
		jobCosts.GET("/:id", h.JobCost.GetByID)
		jobCosts.GET("/quotation/:ref", h.JobCost.GetByQuotationRef)
		jobCosts.PUT("/:id", h.JobCost.Update)
		jobCosts.POST("/:id/expenses", h.JobCost.AddExpense)
		jobCosts.DELETE("/:id", h.JobCost.Delete)
	}

	visits := api.Group("/site-visits")
	{
		visits.POST("", h.SiteVisit.Create)
		visits.GET("", h.SiteVisit.List)
		visits.GET("/:id", h.SiteVisit.GetByID)
		visits.PUT("/:id", h.SiteVisit.Update)
		visits.PUT("/:id/status", h.SiteVisit.ChangeStatus)
		visits.DELETE("/:id", h.SiteVisit.Delete)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", h.Partner.CreateSupplier)
		suppliers.GET("", h.Partner.ListSuppliers)
		suppliers.GET("/:id", h.Partner.GetSupplier)
		suppliers.PUT("/:id", h.Partner.UpdateSupplier)
		suppliers.DELETE("/:id", h.Partner.DeleteSupplier)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", h.Partner.CreateCustomer)
		customers.GET("", h.Partner.ListCustomers)
		customers.GET("/:id", h.Partner.GetCustomer)
		customers.PUT("/:id", h.Partner.UpdateCustomer)
		customers.DELETE("/:id", h.Partner.DeleteCustomer)
	}

	categories := api.Group("/categories")
	{
		categories.POST("", h.Partner.CreateCategory)
		categories.GET("", h.Partner.ListCategories)
		categories.PUT("/:id", h.Partner.UpdateCategory)
		categories.DELETE("/:id", h.Partner.DeleteCategory)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/counters", h.Dashboard.GetCounters)
		dashboard.GET("/stats", h.Dashboard.GetStats)
		dashboard.GET("/grouped-by-customer", h.Dashboard.GetGroupedByCustomer)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/reconcile", h.Admin.TriggerReconciliation)
		admin.POST("/reconcile/:tenantId", h.Admin.ReconcileTenant)
		admin.GET("/reconcile/status", h.Admin.ReconciliationStatus)
	}

	return engine
}
