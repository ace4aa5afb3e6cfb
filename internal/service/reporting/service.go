package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/repository"
	"github.com/MSNanda515/StockFlow/internal/repository/sheets"
	"github.com/MSNanda515/StockFlow/pkg/clients/notifier"
)

const (
	timeLayout       = "2006-01-02 15:04 MST"
	notifySource     = "stockflow"
	percentPrecision = 2
)

var hundred = decimal.NewFromInt(100)

// Service computes slot utilization across warehouses and publishes it.
type Service struct {
	wares    repository.WarehouseRepository
	reports  repository.ReportRepository
	sheet    sheets.Repository
	notifier notifier.Client
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. sheet and notify may be nil,
// in which case publishing skips the export or the notification.
func NewService(wares repository.WarehouseRepository, reports repository.ReportRepository, sheet sheets.Repository, notify notifier.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		wares:    wares,
		reports:  reports,
		sheet:    sheet,
		notifier: notify,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateCapacityReport reads every warehouse without locks and summarises its slot usage.
func (s *Service) GenerateCapacityReport(ctx context.Context) (*models.CapacityReport, error) {
	wares, err := s.wares.FindWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load warehouses: %w", err)
	}

	report := &models.CapacityReport{
		GeneratedAt: s.now().UTC(),
		Utilization: decimal.Zero,
		Warehouses:  make([]models.WarehouseUtilization, 0, len(wares)),
	}

	for _, w := range wares {
		slots := w.Capacity.Slots()
		pallets := len(w.Pallets)
		report.Warehouses = append(report.Warehouses, models.WarehouseUtilization{
			WareNo:      w.WareNo,
			Name:        w.Name,
			Capacity:    w.Capacity.String(),
			Slots:       slots,
			Pallets:     pallets,
			FreeSlots:   slots - int64(pallets),
			Utilization: percent(int64(pallets), slots),
		})
		report.TotalSlots += slots
		report.TotalPallets += pallets
	}
	report.Utilization = percent(int64(report.TotalPallets), report.TotalSlots)

	return report, nil
}

// Publish generates a report, stores it, and delivers it to the configured sheet and
// webhook. Delivery failures do not undo the stored report; they are joined into the
// returned error.
func (s *Service) Publish(ctx context.Context) (*models.CapacityReport, error) {
	report, err := s.GenerateCapacityReport(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.reports.SaveCapacityReport(ctx, *report); err != nil {
		return nil, fmt.Errorf("save capacity report: %w", err)
	}

	var errs []error
	if s.sheet != nil {
		if err := s.sheet.AppendRows(ctx, sheets.CapacityRange, Rows(report)); err != nil {
			s.logger.Warn("capacity report export failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("export capacity report: %w", err))
		}
	}
	if s.notifier != nil {
		req := notifier.NotifyRequest{Text: Summary(report), Source: notifySource}
		if err := s.notifier.Notify(ctx, req); err != nil {
			s.logger.Warn("capacity report notification failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("notify capacity report: %w", err))
		}
	}

	s.logger.Info("capacity report published",
		zap.Int("warehouses", len(report.Warehouses)),
		zap.Int("pallets", report.TotalPallets),
		zap.Int64("slots", report.TotalSlots),
		zap.String("utilization", report.Utilization.StringFixed(percentPrecision)))
	return report, errors.Join(errs...)
}

// Summary renders a report as a short multi-line message.
func Summary(r *models.CapacityReport) string {
	var b strings.Builder
	if len(r.Warehouses) == 0 {
		fmt.Fprintf(&b, "Capacity (%s): no warehouses yet.", r.GeneratedAt.Format(timeLayout))
		return b.String()
	}

	fmt.Fprintf(&b, "Capacity (%s): %d of %d slots used (%s%%) across %d warehouses.",
		r.GeneratedAt.Format(timeLayout), r.TotalPallets, r.TotalSlots,
		r.Utilization.StringFixed(percentPrecision), len(r.Warehouses))
	for _, w := range r.Warehouses {
		fmt.Fprintf(&b, "\n#%d %s %s: %d/%d (%s%%)",
			w.WareNo, w.Name, w.Capacity, w.Pallets, w.Slots, w.Utilization.StringFixed(percentPrecision))
	}
	return b.String()
}

// Rows flattens a report into spreadsheet rows, one per warehouse.
func Rows(r *models.CapacityReport) [][]interface{} {
	stamp := r.GeneratedAt.Format(time.RFC3339)
	rows := make([][]interface{}, 0, len(r.Warehouses))
	for _, w := range r.Warehouses {
		rows = append(rows, []interface{}{
			stamp,
			w.WareNo,
			w.Name,
			w.Capacity,
			w.Slots,
			w.Pallets,
			w.FreeSlots,
			w.Utilization.StringFixed(percentPrecision),
		})
	}
	return rows
}

func percent(part, whole int64) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)).Round(percentPrecision)
}
