package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidRequest),
		errors.Is(err, models.ErrInvalidCapacity),
		errors.Is(err, models.ErrDepartmentMismatch),
		errors.Is(err, models.ErrCapacityExceeded):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDoesNotExist):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// kindOf names the error kind reported to clients.
func kindOf(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, models.ErrInvalidCapacity):
		return "invalid_capacity"
	case errors.Is(err, models.ErrDepartmentMismatch):
		return "department_mismatch"
	case errors.Is(err, models.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, models.ErrDoesNotExist):
		return "does_not_exist"
	case errors.Is(err, models.ErrAlreadyExists):
		return "already_exists"
	default:
		return "internal"
	}
}

// respondError writes err as JSON. Internal errors are logged and hidden from the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error", "kind": kindOf(err)})
		return
	}

	logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	body := gin.H{"error": err.Error(), "kind": kindOf(err)}
	var capErr *models.CapacityExceededError
	if errors.As(err, &capErr) {
		body["wareNo"] = capErr.WareNo
		body["pallets"] = capErr.Pallets
		body["slots"] = capErr.Slots
		body["requested"] = capErr.Requested
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	respondError(c, logger, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err))
}

// pathNo parses a positive numeric path parameter.
func pathNo(c *gin.Context, name string) (int64, error) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", models.ErrInvalidRequest, name, c.Param(name))
	}
	return n, nil
}

// queryNo parses a positive numeric query parameter.
func queryNo(c *gin.Context, name string) (int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return 0, fmt.Errorf("%w: query parameter %s is required", models.ErrInvalidRequest, name)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", models.ErrInvalidRequest, name, raw)
	}
	return n, nil
}
