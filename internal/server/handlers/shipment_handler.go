package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

// ShippingService is the shipment coordinator as seen by HTTP.
type ShippingService interface {
	ShipItems(ctx context.Context, from, to int64, units map[int64]int) (models.Shipment, error)
	GetReceivable(ctx context.Context, wareNo int64) ([]models.Receivable, error)
	ReceiveShipment(ctx context.Context, wareNo int64, shipmentIDs []string) (int, error)
}

// ShipmentHandler serves shipping and receiving.
type ShipmentHandler struct {
	svc    ShippingService
	logger *zap.Logger
}

// NewShipmentHandler constructs the HTTP handler adapter.
func NewShipmentHandler(svc ShippingService, logger *zap.Logger) *ShipmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShipmentHandler{svc: svc, logger: logger}
}

// Ship moves units of several items from one warehouse to another.
func (h *ShipmentHandler) Ship(c *gin.Context) {
	var req models.ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	units, err := req.UnitsByItem()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	shipment, err := h.svc.ShipItems(c.Request.Context(), req.From, req.To, units)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"shipmentId": shipment.ID.Hex(),
		"from":       shipment.From,
		"to":         shipment.To,
		"units":      shipment.Units,
	})
}

// Receivable lists shipments on their way to the warehouse.
func (h *ShipmentHandler) Receivable(c *gin.Context) {
	wareNo, err := pathNo(c, "wareNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recv, err := h.svc.GetReceivable(c.Request.Context(), wareNo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recv)
}

// Receive shelves the pallets of the listed shipments in the warehouse.
func (h *ShipmentHandler) Receive(c *gin.Context) {
	wareNo, err := pathNo(c, "wareNo")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req models.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	pallets, err := h.svc.ReceiveShipment(c.Request.Context(), wareNo, req.ShipmentIDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wareNo": wareNo, "pallets": pallets})
}
