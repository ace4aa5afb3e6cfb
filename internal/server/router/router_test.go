package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MSNanda515/StockFlow/internal/server/handlers"
	"github.com/MSNanda515/StockFlow/internal/service/reporting"
	"github.com/MSNanda515/StockFlow/internal/service/servicetest"
)

type api struct {
	t      *testing.T
	engine *gin.Engine
	fix    *servicetest.Fixture
}

func newAPI(t *testing.T) *api {
	t.Helper()
	f := servicetest.New()
	reports := reporting.NewService(f.Store, f.Store, nil, nil, nil)
	engine := New(Handlers{
		Warehouses: handlers.NewWarehouseHandler(f.Warehouses, f.Items, nil),
		Items:      handlers.NewItemHandler(f.Items, nil),
		Shipments:  handlers.NewShipmentHandler(f.Shipping, nil),
		Reports:    handlers.NewReportHandler(reports, nil),
	}, nil)
	gin.SetMode(gin.TestMode)
	return &api{t: t, engine: engine, fix: f}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz_RequestID(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestWarehouseRoutes(t *testing.T) {
	a := newAPI(t)
	create := map[string]any{"wareNo": 1, "name": "North", "location": "Waterloo"}

	rec := a.do(http.MethodPost, "/api/v1/warehouses", create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ware := decode[map[string]any](t, rec)
	assert.Equal(t, map[string]any{"aisle": 200.0, "section": 10.0, "level": 4.0}, ware["capacity"])

	rec = a.do(http.MethodPost, "/api/v1/warehouses", create)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_exists", decode[map[string]any](t, rec)["kind"])

	rec = a.do(http.MethodPost, "/api/v1/warehouses", map[string]any{"wareNo": 2, "name": "x", "location": "y", "aisle": 10, "section": 1, "level": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_capacity", decode[map[string]any](t, rec)["kind"])

	rec = a.do(http.MethodGet, "/api/v1/warehouses/next-number", nil)
	assert.Equal(t, map[string]any{"wareNo": 2.0}, decode[map[string]any](t, rec))

	rec = a.do(http.MethodGet, "/api/v1/warehouses/1/slots?count=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = a.do(http.MethodGet, "/api/v1/warehouses/1/slots", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, "/api/v1/warehouses/1", map[string]any{"name": "North", "location": "Kitchener", "aisle": 300, "section": 10, "level": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Kitchener", decode[map[string]any](t, rec)["location"])

	rec = a.do(http.MethodGet, "/api/v1/warehouses/9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/warehouses/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/warehouses", nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestItemRoutes(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/warehouses", map[string]any{"wareNo": 1, "name": "N", "location": "W"}).Code)

	rec := a.do(http.MethodPost, "/api/v1/items", map[string]any{
		"itemNo": 5, "name": "Rice", "description": "5kg bag", "department": "grocery", "wareNo": 1, "units": 120,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, decode[map[string]any](t, rec)["pallets"], 3)

	rec = a.do(http.MethodPost, "/api/v1/items/5/inventory", map[string]any{"wareNo": 1, "units": 30})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/v1/items/5/units?wareNo=1", nil)
	assert.Equal(t, 150.0, decode[map[string]any](t, rec)["units"])

	rec = a.do(http.MethodGet, "/api/v1/items/5/units", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{"itemNo": 5.0, "units": 150.0}, decode[map[string]any](t, rec))

	rec = a.do(http.MethodGet, "/api/v1/items/5/units?wareNo=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/items/5/inventory", map[string]any{"wareNo": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, "/api/v1/items/5", map[string]any{"name": "Rice", "description": "10kg", "department": "misc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "department_mismatch", decode[map[string]any](t, rec)["kind"])

	rec = a.do(http.MethodGet, "/api/v1/items/next-number", nil)
	assert.Equal(t, map[string]any{"itemNo": 6.0}, decode[map[string]any](t, rec))

	rec = a.do(http.MethodGet, "/api/v1/warehouses/1/items", nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = a.do(http.MethodGet, "/api/v1/warehouses/1/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "stockflow_warehouse_1_")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "item_no,name,department,units,pallets\n"))

	rec = a.do(http.MethodDelete, "/api/v1/items/5", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/items", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = a.do(http.MethodGet, "/api/v1/items/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inactive", decode[map[string]any](t, rec)["status"])

	rec = a.do(http.MethodGet, "/api/v1/items/5/units", nil)
	assert.Equal(t, 0.0, decode[map[string]any](t, rec)["units"])

	rec = a.do(http.MethodGet, "/api/v1/items/77", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCapacityExceededBody(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/warehouses", map[string]any{"wareNo": 1, "name": "N", "location": "W"}).Code)

	rec := a.do(http.MethodPost, "/api/v1/items", map[string]any{
		"itemNo": 1, "name": "Sofa", "description": "3 seat", "department": "household", "wareNo": 1, "units": 8001,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "capacity_exceeded", body["kind"])
	assert.Equal(t, 8000.0, body["slots"])
	assert.Equal(t, 8001.0, body["requested"])

	rec = a.do(http.MethodGet, "/api/v1/items/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShipmentRoutes(t *testing.T) {
	a := newAPI(t)
	for _, no := range []int{1, 2} {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/warehouses", map[string]any{"wareNo": no, "name": "W", "location": "L"}).Code)
	}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/v1/items", map[string]any{
		"itemNo": 1, "name": "TV", "description": "55in", "department": "electric", "wareNo": 1, "units": 25,
	}).Code)

	rec := a.do(http.MethodPost, "/api/v1/shipments", map[string]any{"from": 1, "to": 2, "items": []map[string]any{{"itemNo": 1, "units": 26}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/shipments", map[string]any{"from": 1, "to": 2, "items": []map[string]any{{"itemNo": 1, "units": 15}}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	shipment := decode[map[string]any](t, rec)
	assert.Equal(t, 15.0, shipment["units"])

	rec = a.do(http.MethodGet, "/api/v1/warehouses/2/receivable", nil)
	recv := decode[[]map[string]any](t, rec)
	require.Len(t, recv, 1)
	assert.Equal(t, shipment["shipmentId"], recv[0]["shipmentId"])

	rec = a.do(http.MethodPost, "/api/v1/warehouses/2/receive", map[string]any{"shipmentIds": []any{shipment["shipmentId"]}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2.0, decode[map[string]any](t, rec)["pallets"])

	rec = a.do(http.MethodGet, "/api/v1/items/1/units?wareNo=2", nil)
	assert.Equal(t, 15.0, decode[map[string]any](t, rec)["units"])
	a.fix.RequireMirrored(t)

	rec = a.do(http.MethodGet, "/api/v1/reports/capacity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[map[string]any](t, rec)
	assert.Equal(t, 4.0, report["totalPallets"], "two left in warehouse 1 and two received")
	assert.Len(t, report["warehouses"], 2)
	assert.Equal(t, fmt.Sprint(16000), fmt.Sprint(report["totalSlots"]))
}
