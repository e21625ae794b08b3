package recon

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandangops/kandang-backend/internal/ledger"
	"github.com/kandangops/kandang-backend/pkg/enums"
	"github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
	"github.com/kandangops/kandang-backend/pkg/sheets"
)

type fakeReader struct {
	tables map[string]sheets.Table
	errs   map[string]error
}

func (f *fakeReader) Read(_ context.Context, rangeName string) (sheets.Table, error) {
	if err := f.errs[rangeName]; err != nil {
		return sheets.Table{}, err
	}
	return f.tables[rangeName], nil
}

func newTestService(t *testing.T, reader *fakeReader) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(reader, testRegistry(t), "Form Masuk", "Form Keluar", logg)
	require.NoError(t, err)
	return svc
}

func inboundRow(animal, vendor, category, qty, date string) []string {
	return []string{date + " 09:00:00", "NT-1", animal, vendor, category, qty, "", "", "", "", date, ""}
}

func TestOrderStatus(t *testing.T) {
	reader := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk": {
				Header: ledger.InboundSchema.Fields,
				Rows: [][]string{
					inboundRow("Goat/Sheep", "V1", "Category-X", "10", "2026-05-20"),
					inboundRow("Goat/Sheep", "V1", "Category-X", "15", "2026-05-21"),
				},
			},
			"Form Keluar": {
				Header: ledger.OutboundSchema.Fields,
				Rows: [][]string{
					{"2026-05-22 08:00:00", "Goat/Sheep", "Category-X", "5", "B 1 X", "2026-05-22", "", "", ""},
				},
			},
		},
	}

	report, err := newTestService(t, reader).OrderStatus(context.Background(), enums.AnimalTypeGoatSheep)
	require.NoError(t, err)
	assert.False(t, report.Degraded)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, 25, report.Rows[0].Delivered)
	assert.Equal(t, 5, report.Rows[0].Outbound)
}

func TestOrderStatusInvalidFilter(t *testing.T) {
	svc := newTestService(t, &fakeReader{})
	_, err := svc.OrderStatus(context.Background(), enums.AnimalType("Llama"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, errors.As(err).Code())
}

func TestOrderStatusDegradedWhenLedgerUnreachable(t *testing.T) {
	reader := &fakeReader{
		errs: map[string]error{
			"Form Masuk": errors.New(errors.CodeLedgerUnavailable, "ledger append retries exhausted"),
		},
	}

	report, err := newTestService(t, reader).OrderStatus(context.Background(), enums.AnimalTypeGoatSheep)
	require.NoError(t, err)
	assert.True(t, report.Degraded)
	// Planned orders are still synthesized from the registry.
	require.Len(t, report.Rows, 2)
	for _, row := range report.Rows {
		assert.Equal(t, 0, row.Delivered)
	}
}

func TestOrderStatusHardFailurePropagates(t *testing.T) {
	reader := &fakeReader{
		errs: map[string]error{
			"Form Masuk": errors.New(errors.CodeDependency, "boom"),
		},
	}

	_, err := newTestService(t, reader).OrderStatus(context.Background(), "")
	assert.Error(t, err)
}

func TestStockSummary(t *testing.T) {
	reader := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk": {
				Header: ledger.InboundSchema.Fields,
				Rows: [][]string{
					inboundRow("Goat/Sheep", "V1", "Category-X", "30", "2026-05-20"),
					inboundRow("Cattle", "CV Maju", "Limousin", "10", "2026-05-20"),
				},
			},
			"Form Keluar": {
				Header: ledger.OutboundSchema.Fields,
				Rows: [][]string{
					{"2026-05-22 08:00:00", "Goat/Sheep", "Category-X", "12", "", "2026-05-22", "", "", ""},
				},
			},
		},
	}

	report, err := newTestService(t, reader).StockSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Lines, 2)

	assert.Equal(t, StockLine{enums.AnimalTypeGoatSheep, 30, 12, 18}, report.Lines[0])
	assert.Equal(t, StockLine{enums.AnimalTypeCattle, 10, 0, 10}, report.Lines[1])

	// 30 of 90 goat units plus 10 of 20 cattle units.
	assert.Equal(t, 110, report.TotalOrdered)
	assert.Equal(t, 40, report.TotalDelivered)
	assert.InDelta(t, 36.36, report.OverallCompletion, 0.01)
}

func TestDailyArrivals(t *testing.T) {
	reader := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk": {
				Header: ledger.InboundSchema.Fields,
				Rows: [][]string{
					inboundRow("Goat/Sheep", "V1", "Category-X", "10", "2026-05-20"),
					inboundRow("Goat/Sheep", "V1", "Category-X", "15", "2026-05-20"),
					inboundRow("Goat/Sheep", "V2", "Category-Y", "5", "2026-05-21"),
					// Missing delivery date falls back to the timestamp day.
					{"2026-05-23 07:00:00", "NT-9", "Goat/Sheep", "V1", "Category-X", "2", "", "", "", "", "", ""},
					// No parseable date at all is skipped.
					{"", "NT-10", "Goat/Sheep", "V1", "Category-X", "99", "", "", "", "", "not-a-date", ""},
				},
			},
		},
	}

	report, err := newTestService(t, reader).DailyArrivals(context.Background(), DailyFilter{})
	require.NoError(t, err)
	require.Len(t, report.Days, 3)

	assert.Equal(t, DailyArrival{"2026-05-20", 25, 2}, report.Days[0])
	assert.Equal(t, DailyArrival{"2026-05-21", 5, 1}, report.Days[1])
	assert.Equal(t, DailyArrival{"2026-05-23", 2, 1}, report.Days[2])
}

func TestDailyArrivalsFiltered(t *testing.T) {
	reader := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk": {
				Header: ledger.InboundSchema.Fields,
				Rows: [][]string{
					inboundRow("Goat/Sheep", "V1", "Category-X", "10", "2026-05-20"),
					inboundRow("Goat/Sheep", "V2", "Category-Y", "5", "2026-05-20"),
					inboundRow("Cattle", "CV Maju", "Limousin", "3", "2026-05-20"),
				},
			},
		},
	}

	report, err := newTestService(t, reader).DailyArrivals(context.Background(), DailyFilter{Vendor: "V1"})
	require.NoError(t, err)
	require.Len(t, report.Days, 1)
	assert.Equal(t, 10, report.Days[0].Quantity)

	report, err = newTestService(t, reader).DailyArrivals(context.Background(), DailyFilter{AnimalType: enums.AnimalTypeCattle})
	require.NoError(t, err)
	require.Len(t, report.Days, 1)
	assert.Equal(t, 3, report.Days[0].Quantity)
}

func TestVendorSummary(t *testing.T) {
	reader := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk": {
				Header: ledger.InboundSchema.Fields,
				Rows: [][]string{
					inboundRow("Goat/Sheep", "V1", "Category-X", "50", "2026-05-20"),
					inboundRow("Goat/Sheep", "V2", "Category-Y", "10", "2026-05-20"),
				},
			},
		},
	}

	report, err := newTestService(t, reader).VendorSummary(context.Background(), enums.AnimalTypeGoatSheep)
	require.NoError(t, err)
	require.Len(t, report.Vendors, 2)

	assert.Equal(t, "V1", report.Vendors[0].Vendor)
	assert.Equal(t, 100.0, report.Vendors[0].Completion)
	assert.Equal(t, enums.OrderStatusComplete, report.Vendors[0].Status)

	assert.Equal(t, "V2", report.Vendors[1].Vendor)
	assert.Equal(t, 30, report.Vendors[1].Remaining)
	assert.Equal(t, enums.OrderStatusLow, report.Vendors[1].Status)
}

func TestValidateHeaders(t *testing.T) {
	good := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk":  {Header: ledger.InboundSchema.Fields, Rows: [][]string{}},
			"Form Keluar": {Header: ledger.OutboundSchema.Fields, Rows: [][]string{}},
		},
	}
	assert.NoError(t, newTestService(t, good).ValidateHeaders(context.Background()))

	bad := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk":  {Header: []string{"Totally", "Different"}, Rows: [][]string{}},
			"Form Keluar": {Header: ledger.OutboundSchema.Fields, Rows: [][]string{}},
		},
	}
	assert.Error(t, newTestService(t, bad).ValidateHeaders(context.Background()))

	// A fresh season sheet carries the header row and nothing else; its
	// header is still checked.
	headerOnly := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk":  {Header: []string{"Completely", "Wrong", "Header"}, Rows: nil},
			"Form Keluar": {Header: ledger.OutboundSchema.Fields, Rows: nil},
		},
	}
	assert.Error(t, newTestService(t, headerOnly).ValidateHeaders(context.Background()))

	// An empty remote sheet has nothing to validate yet.
	empty := &fakeReader{tables: map[string]sheets.Table{}}
	assert.NoError(t, newTestService(t, empty).ValidateHeaders(context.Background()))
}
