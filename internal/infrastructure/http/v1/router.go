// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"shopbooks/internal/domain/backup"
	"shopbooks/internal/domain/documents/bill"
	"shopbooks/internal/domain/documents/expense"
	"shopbooks/internal/domain/documents/payment"
	"shopbooks/internal/domain/documents/purchase"
	"shopbooks/internal/domain/documents/receipt"
	"shopbooks/internal/domain/instrument"
	"shopbooks/internal/domain/ledger"
	"shopbooks/internal/domain/party"
	"shopbooks/internal/domain/stock"
	"shopbooks/internal/infrastructure/http/v1/handlers"
	"shopbooks/internal/infrastructure/http/v1/middleware"
	"shopbooks/internal/store"
	"shopbooks/pkg/logger"
)

// RouterConfig holds every engine the API surfaces.
type RouterConfig struct {
	Logger *logger.Logger

	Store       store.Store
	Ledgers     *ledger.Service
	Customers   *party.Service
	Vendors     *party.Service
	Receivables *instrument.Service
	Payables    *instrument.Service
	Stock       *stock.Service
	Bills       *bill.Service
	Purchases   *purchase.Service
	Payments    *payment.Service
	Receipts    *receipt.Service
	Expenses    *expense.Service
	Backup      *backup.Engine

	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Store)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		registerLedgerRoutes(api, base, cfg)
		registerPartyRoutes(api, base, cfg)
		registerInstrumentRoutes(api, base, cfg)
		registerStockRoutes(api, base, cfg)
		registerDocumentRoutes(api, base, cfg)
		registerBackupRoutes(api, base, cfg)
	}

	return router
}

func registerLedgerRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewLedgerHandler(base, cfg.Ledgers)
	ledgers := rg.Group("/ledgers/:kind")
	{
		ledgers.GET("", h.List)
		ledgers.POST("", h.Post)
		ledgers.DELETE("/entries/:reference", h.Reverse)
	}
}

func registerPartyRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	for path, svc := range map[string]*party.Service{
		"/customers": cfg.Customers,
		"/vendors":   cfg.Vendors,
	} {
		h := handlers.NewPartyHandler(base, svc)
		group := rg.Group(path)
		{
			group.GET("", h.List)
			group.POST("", h.Create)
			group.GET("/:id", h.Get)
			group.POST("/:id/transactions", h.PostTransaction)
		}
	}
}

func registerInstrumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	for path, svc := range map[string]*instrument.Service{
		"/receivables": cfg.Receivables,
		"/payables":    cfg.Payables,
	} {
		h := handlers.NewInstrumentHandler(base, svc)
		group := rg.Group(path)
		{
			group.GET("", h.List)
			group.POST("", h.Create)
			group.GET("/summary", h.Summary)
			group.GET("/:id", h.Get)
			group.POST("/:id/payments", h.Pay)
			group.POST("/:id/reverse", h.Reverse)
		}
	}
}

func registerStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewStockHandler(base, cfg.Stock)
	st := rg.Group("/stock")
	{
		st.GET("/lots", h.ListLots)
		st.POST("/lots", h.AddLot)
		st.GET("/items", h.ListItems)
		st.POST("/reductions", h.Reduce)
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	billHandler := handlers.NewBillHandler(base, cfg.Bills)
	bills := rg.Group("/bills")
	{
		bills.GET("", billHandler.List)
		bills.POST("", billHandler.Create)
		bills.GET("/:id", billHandler.Get)
		bills.DELETE("/:id", billHandler.Delete)
	}

	purchaseHandler := handlers.NewPurchaseHandler(base, cfg.Purchases)
	purchases := rg.Group("/purchases")
	{
		purchases.GET("", purchaseHandler.List)
		purchases.POST("", purchaseHandler.Create)
		purchases.GET("/:id", purchaseHandler.Get)
		purchases.DELETE("/:id", purchaseHandler.Delete)
	}

	paymentHandler := handlers.NewPaymentHandler(base, cfg.Payments)
	payments := rg.Group("/payments")
	{
		payments.GET("", paymentHandler.List)
		payments.POST("", paymentHandler.Create)
		payments.GET("/:id", paymentHandler.Get)
		payments.DELETE("/:id", paymentHandler.Delete)
	}

	receiptHandler := handlers.NewReceiptHandler(base, cfg.Receipts)
	receipts := rg.Group("/receipts")
	{
		receipts.GET("", receiptHandler.List)
		receipts.POST("", receiptHandler.Create)
		receipts.GET("/:id", receiptHandler.Get)
		receipts.DELETE("/:id", receiptHandler.Delete)
	}

	expenseHandler := handlers.NewExpenseHandler(base, cfg.Expenses)
	expenses := rg.Group("/expenses")
	{
		expenses.GET("", expenseHandler.List)
		expenses.POST("", expenseHandler.Create)
		expenses.GET("/:id", expenseHandler.Get)
		expenses.PUT("/:id", expenseHandler.Update)
		expenses.DELETE("/:id", expenseHandler.Delete)
	}
}

func registerBackupRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewBackupHandler(base, cfg.Backup)
	bk := rg.Group("/backup")
	{
		bk.GET("", h.Export)
		bk.POST("/restore", h.Restore)
		bk.GET("/history", h.History)
	}
}
