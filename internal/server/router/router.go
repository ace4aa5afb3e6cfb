package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Warehouses *handlers.WarehouseHandler
	Items      *handlers.ItemHandler
	Shipments  *handlers.ShipmentHandler
	Reports    *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	wares := api.Group("/warehouses")
	wares.GET("", h.Warehouses.List)
	wares.POST("", h.Warehouses.Create)
	wares.GET("/next-number", h.Warehouses.NextNumber)
	wares.GET("/:wareNo", h.Warehouses.Get)
	wares.PUT("/:wareNo", h.Warehouses.Edit)
	wares.GET("/:wareNo/slots", h.Warehouses.Slots)
	wares.GET("/:wareNo/items", h.Warehouses.Items)
	wares.GET("/:wareNo/csv", h.Warehouses.CSV)
	wares.GET("/:wareNo/receivable", h.Shipments.Receivable)
	wares.POST("/:wareNo/receive", h.Shipments.Receive)

	items := api.Group("/items")
	items.GET("", h.Items.List)
	items.POST("", h.Items.Create)
	items.GET("/next-number", h.Items.NextNumber)
	items.GET("/:itemNo", h.Items.Get)
	items.PUT("/:itemNo", h.Items.Edit)
	items.DELETE("/:itemNo", h.Items.Delete)
	items.POST("/:itemNo/inventory", h.Items.AddInventory)
	items.GET("/:itemNo/units", h.Items.Units)

	api.POST("/shipments", h.Shipments.Ship)
	api.GET("/reports/capacity", h.Reports.Capacity)

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

// requestIDMiddleware propagates the caller's request id or mints a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")))
	}
}
