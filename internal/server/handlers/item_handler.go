package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

// ItemService is the item inventory manager as seen by HTTP.
type ItemService interface {
	CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.Item, error)
	AddInventory(ctx context.Context, itemNo int64, req models.InventoryRequest) (*models.Item, error)
	EditItem(ctx context.Context, itemNo int64, req models.EditItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, itemNo int64) error
	GetItem(ctx context.Context, itemNo int64) (*models.Item, error)
	GetAllActiveItems(ctx context.Context) ([]*models.Item, error)
	GetUnitsInWarehouse(ctx context.Context, itemNo, wareNo int64) (int, error)
	GetTotalUnits(ctx context.Context, itemNo int64) (int, error)
	NextItemNo(ctx context.Context) (int64, error)
}

// ItemHandler serves the item routes.
type ItemHandler struct {
	svc    ItemService
	logger *zap.Logger
}

// NewItemHandler constructs the HTTP handler adapter.
func NewItemHandler(svc ItemService, logger *zap.Logger) *ItemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemHandler{svc: svc, logger: logger}
}

// List returns the active items.
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.svc.GetAllActiveItems(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create registers an item, stocking it when units are given.
func (h *ItemHandler) Create(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	item, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// NextNumber suggests the next free item number.
func (h *ItemHandler) NextNumber(c *gin.Context) {
	next, err := h.svc.NextItemNo(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemNo": next})
}

// Get returns one item, active or not.
func (h *ItemHandler) Get(c *gin.Context) {
	itemNo, err := pathNo(c, "itemNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	item, err := h.svc.GetItem(c.Request.Context(), itemNo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Edit changes an item's name and description.
func (h *ItemHandler) Edit(c *gin.Context) {
	itemNo, err := pathNo(c, "itemNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req models.EditItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	item, err := h.svc.EditItem(c.Request.Context(), itemNo, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete deactivates an item and frees its pallets.
func (h *ItemHandler) Delete(c *gin.Context) {
	itemNo, err := pathNo(c, "itemNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), itemNo); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddInventory stocks more units of an item in a warehouse.
func (h *ItemHandler) AddInventory(c *gin.Context) {
	itemNo, err := pathNo(c, "itemNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req models.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	item, err := h.svc.AddInventory(c.Request.Context(), itemNo, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Units reports how many units of an item a warehouse holds, or all warehouses
// together when no wareNo is given.
func (h *ItemHandler) Units(c *gin.Context) {
	itemNo, err := pathNo(c, "itemNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if _, ok := c.GetQuery("wareNo"); !ok {
		total, err := h.svc.GetTotalUnits(c.Request.Context(), itemNo)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"itemNo": itemNo, "units": total})
		return
	}

	wareNo, err := queryNo(c, "wareNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	units, err := h.svc.GetUnitsInWarehouse(c.Request.Context(), itemNo, wareNo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemNo": itemNo, "wareNo": wareNo, "units": units})
}
