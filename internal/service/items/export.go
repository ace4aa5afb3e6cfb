package items

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

var csvHeader = []string{"item_no", "name", "department", "units", "pallets"}

// ExportWarehouseCSV renders the active stock of a warehouse as CSV and suggests a file name.
func (s *Service) ExportWarehouseCSV(ctx context.Context, wareNo int64) (string, []byte, error) {
	if _, err := s.warehouses.Get(ctx, wareNo); err != nil {
		return "", nil, err
	}

	items, err := s.GetActiveItemsInWarehouse(ctx, wareNo)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range items {
		row := []string{
			strconv.FormatInt(item.ItemNo, 10),
			item.Name,
			item.Department.DisplayName(),
			strconv.Itoa(item.UnitsInWarehouse(wareNo)),
			strconv.Itoa(len(item.PalletsInWarehouse(wareNo))),
		}
		if err := w.Write(row); err != nil {
			return "", nil, fmt.Errorf("write csv row for item %d: %w", item.ItemNo, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("flush csv: %w", err)
	}

	filename := fmt.Sprintf("stockflow_warehouse_%d_%d.csv", wareNo, s.now().Unix())
	return filename, buf.Bytes(), nil
}
