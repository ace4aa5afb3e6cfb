package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

// ReportService produces capacity reports on demand.
type ReportService interface {
	GenerateCapacityReport(ctx context.Context) (*models.CapacityReport, error)
}

// ReportHandler serves the reporting routes.
type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// Capacity returns the current slot utilization of every warehouse.
func (h *ReportHandler) Capacity(c *gin.Context) {
	report, err := h.svc.GenerateCapacityReport(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
