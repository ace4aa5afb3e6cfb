package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

// WarehouseService is the warehouse capacity manager as seen by HTTP.
type WarehouseService interface {
	Create(ctx context.Context, req models.CreateWarehouseRequest) (*models.Warehouse, error)
	Get(ctx context.Context, wareNo int64) (*models.Warehouse, error)
	GetAll(ctx context.Context) ([]*models.Warehouse, error)
	NextWarehouseNo(ctx context.Context) (int64, error)
	Edit(ctx context.Context, wareNo int64, req models.EditWarehouseRequest) (*models.Warehouse, error)
	GetAvailablePalletPos(ctx context.Context, count int, wareNo int64) ([]models.PalletLoc, error)
}

// WarehouseItemsService is the part of the item manager the warehouse routes use.
type WarehouseItemsService interface {
	GetActiveItemsInWarehouse(ctx context.Context, wareNo int64) ([]*models.Item, error)
	ExportWarehouseCSV(ctx context.Context, wareNo int64) (string, []byte, error)
}

// WarehouseHandler serves the warehouse routes.
type WarehouseHandler struct {
	svc    WarehouseService
	items  WarehouseItemsService
	logger *zap.Logger
}

// NewWarehouseHandler constructs the HTTP handler adapter.
func NewWarehouseHandler(svc WarehouseService, items WarehouseItemsService, logger *zap.Logger) *WarehouseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarehouseHandler{svc: svc, items: items, logger: logger}
}

// List returns every warehouse ordered by number.
func (h *WarehouseHandler) List(c *gin.Context) {
	wares, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, wares)
}

// Create registers a warehouse.
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req models.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	ware, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ware)
}

// NextNumber suggests the next free warehouse number.
func (h *WarehouseHandler) NextNumber(c *gin.Context) {
	next, err := h.svc.NextWarehouseNo(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wareNo": next})
}

// Get returns one warehouse.
func (h *WarehouseHandler) Get(c *gin.Context) {
	wareNo, err := pathNo(c, "wareNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ware, err := h.svc.Get(c.Request.Context(), wareNo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ware)
}

// Edit updates name, location and capacity, relocating pallets when the box shrinks.
func (h *WarehouseHandler) Edit(c *gin.Context) {
	wareNo, err := pathNo(c, "wareNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req models.EditWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	ware, err := h.svc.Edit(c.Request.Context(), wareNo, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ware)
}

// Slots previews the next free pallet positions without reserving them.
func (h *WarehouseHandler) Slots(c *gin.Context) {
	wareNo, err := pathNo(c, "wareNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	count, err := queryNo(c, "count")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	locs, err := h.svc.GetAvailablePalletPos(c.Request.Context(), int(count), wareNo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, locs)
}

// Items lists active items holding stock in the warehouse.
func (h *WarehouseHandler) Items(c *gin.Context) {
	wareNo, err := pathNo(c, "wareNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items, err := h.items.GetActiveItemsInWarehouse(c.Request.Context(), wareNo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CSV downloads the warehouse inventory as a CSV attachment.
func (h *WarehouseHandler) CSV(c *gin.Context) {
	wareNo, err := pathNo(c, "wareNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename, data, err := h.items.ExportWarehouseCSV(c.Request.Context(), wareNo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
