package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MSNanda515/StockFlow/internal/domain/grid"
	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/repository/memory"
	"github.com/MSNanda515/StockFlow/pkg/clients/notifier"
)

var reportTime = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

type fakeSheet struct {
	sheetRange string
	rows       [][]interface{}
	err        error
}

func (f *fakeSheet) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	f.sheetRange = sheetRange
	f.rows = rows
	return f.err
}

type fakeNotifier struct {
	sent []notifier.NotifyRequest
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, req notifier.NotifyRequest) error {
	f.sent = append(f.sent, req)
	return f.err
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	small, err := models.NewWarehouse(1, "North", "Waterloo", models.MinCapacity, reportTime)
	require.NoError(t, err)
	locs, err := small.AvailablePalletPos(3)
	require.NoError(t, err)
	small.AddPallets(models.NewPalletsForItem(7, 30, locs, 10, reportTime), reportTime)
	require.NoError(t, store.SaveWarehouse(ctx, small))

	big, err := models.NewWarehouse(2, "South", "Guelph", grid.Box{Aisle: 400, Section: 10, Level: 4}, reportTime)
	require.NoError(t, err)
	require.NoError(t, store.SaveWarehouse(ctx, big))
	return store
}

func newTestService(store *memory.Store, sheet *fakeSheet, notify *fakeNotifier) *Service {
	svc := NewService(store, store, nil, nil, nil)
	if sheet != nil {
		svc.sheet = sheet
	}
	if notify != nil {
		svc.notifier = notify
	}
	svc.now = func() time.Time { return reportTime }
	return svc
}

func TestGenerateCapacityReport(t *testing.T) {
	svc := newTestService(seedStore(t), nil, nil)

	report, err := svc.GenerateCapacityReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, reportTime, report.GeneratedAt)
	assert.Equal(t, int64(24000), report.TotalSlots)
	assert.Equal(t, 3, report.TotalPallets)
	assert.Equal(t, "0.01", report.Utilization.StringFixed(2))

	require.Len(t, report.Warehouses, 2)
	north := report.Warehouses[0]
	assert.Equal(t, int64(1), north.WareNo)
	assert.Equal(t, "(200, 10, 4)", north.Capacity)
	assert.Equal(t, int64(7997), north.FreeSlots)
	assert.Equal(t, "0.04", north.Utilization.StringFixed(2))
	assert.True(t, report.Warehouses[1].Utilization.IsZero())
}

func TestGenerateCapacityReport_Empty(t *testing.T) {
	svc := newTestService(memory.NewStore(), nil, nil)

	report, err := svc.GenerateCapacityReport(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Warehouses)
	assert.True(t, report.Utilization.IsZero())
	assert.Equal(t, "Capacity (2026-03-14 20:00 UTC): no warehouses yet.", Summary(report))
}

func TestPublish_DeliversEverywhere(t *testing.T) {
	store := seedStore(t)
	sheet, notify := &fakeSheet{}, &fakeNotifier{}
	svc := newTestService(store, sheet, notify)

	report, err := svc.Publish(context.Background())
	require.NoError(t, err)

	require.Len(t, store.CapacityReports(), 1)
	assert.Equal(t, report.TotalPallets, store.CapacityReports()[0].TotalPallets)

	assert.Equal(t, "Capacity!A:H", sheet.sheetRange)
	require.Len(t, sheet.rows, 2)
	assert.Equal(t, []interface{}{"2026-03-14T20:00:00Z", int64(1), "North", "(200, 10, 4)", int64(8000), 3, int64(7997), "0.04"}, sheet.rows[0])

	require.Len(t, notify.sent, 1)
	assert.Equal(t, "stockflow", notify.sent[0].Source)
	assert.Equal(t,
		"Capacity (2026-03-14 20:00 UTC): 3 of 24000 slots used (0.01%) across 2 warehouses.\n"+
			"#1 North (200, 10, 4): 3/8000 (0.04%)\n"+
			"#2 South (400, 10, 4): 0/16000 (0.00%)",
		notify.sent[0].Text)
}

func TestPublish_DeliveryFailureKeepsStoredReport(t *testing.T) {
	store := seedStore(t)
	sheet := &fakeSheet{err: errors.New("quota exceeded")}
	notify := &fakeNotifier{}
	svc := newTestService(store, sheet, notify)

	report, err := svc.Publish(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.NotNil(t, report)
	assert.Len(t, store.CapacityReports(), 1)
	assert.Len(t, notify.sent, 1, "notification still attempted")
}

func TestPublish_NoSinks(t *testing.T) {
	store := seedStore(t)
	svc := newTestService(store, nil, nil)

	_, err := svc.Publish(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.CapacityReports(), 1)
}
