package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{fmt.Errorf("wrap: %w", models.ErrInvalidRequest), http.StatusBadRequest, "invalid_request"},
		{models.ErrInvalidCapacity, http.StatusBadRequest, "invalid_capacity"},
		{models.ErrDepartmentMismatch, http.StatusBadRequest, "department_mismatch"},
		{&models.CapacityExceededError{WareNo: 1}, http.StatusBadRequest, "capacity_exceeded"},
		{fmt.Errorf("item 9: %w", models.ErrDoesNotExist), http.StatusNotFound, "does_not_exist"},
		{models.ErrAlreadyExists, http.StatusConflict, "already_exists"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, statusFor(tc.err), tc.err.Error())
		assert.Equal(t, tc.kind, kindOf(tc.err), tc.err.Error())
	}
}
