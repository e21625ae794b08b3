package intake

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandangops/kandang-backend/internal/ledger"
	"github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
	"github.com/kandangops/kandang-backend/pkg/sheets"
)

type appendCall struct {
	rangeName string
	row       []any
}

type fakeAppender struct {
	calls   []appendCall
	failAt  int
	failErr error
}

func (f *fakeAppender) Append(_ context.Context, rangeName string, row []any) error {
	if f.failErr != nil && len(f.calls) == f.failAt {
		return f.failErr
	}
	f.calls = append(f.calls, appendCall{rangeName, row})
	return nil
}

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

func newTestService(t *testing.T, appender *fakeAppender, reader *fakeReader) *service {
	t.Helper()
	if reader == nil {
		reader = &fakeReader{}
	}
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(appender, reader, "Form Masuk", "Form Keluar", jakarta, logg)
	require.NoError(t, err)

	impl := svc.(*service)
	impl.now = func() time.Time {
		return time.Date(2026, 5, 20, 2, 30, 0, 0, time.UTC) // 09:30 in Jakarta
	}
	return impl
}

func TestSubmitDelivery(t *testing.T) {
	appender := &fakeAppender{}
	svc := newTestService(t, appender, nil)

	result, err := svc.SubmitDelivery(context.Background(), DeliveryInput{
		ReceiptNumber: "NT-001",
		Vendor:        "Pak Budi",
		Orderer:       "Ibu Sari",
		DeliveryDate:  "2026-05-19",
		Entries: []DeliveryEntry{
			{AnimalType: "Goat/Sheep", Category: "Standard", Quantity: 10},
			{AnimalType: "Goat/Sheep", Category: "Premium", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowsAppended)
	assert.Equal(t, "2026-05-20 09:30:00", result.Timestamp)

	require.Len(t, appender.calls, 2)
	assert.Equal(t, "Form Masuk", appender.calls[0].rangeName)

	row := appender.calls[0].row
	require.Len(t, row, len(ledger.InboundSchema.Fields))
	assert.Equal(t, "2026-05-20 09:30:00", row[ledger.InboundColTimestamp])
	assert.Equal(t, "NT-001", row[ledger.InboundColReceiptNumber])
	assert.Equal(t, "Pak Budi", row[ledger.InboundColVendor])
	assert.Equal(t, "10", row[ledger.InboundColQuantity])
	assert.Equal(t, "2026-05-19", row[ledger.InboundColDeliveryDate])

	assert.Equal(t, "Premium", appender.calls[1].row[ledger.InboundColCategory])
}

func TestSubmitDeliveryDefaultsDate(t *testing.T) {
	appender := &fakeAppender{}
	svc := newTestService(t, appender, nil)

	_, err := svc.SubmitDelivery(context.Background(), DeliveryInput{
		ReceiptNumber: "NT-002",
		Vendor:        "Pak Budi",
		Entries:       []DeliveryEntry{{AnimalType: "Cattle", Category: "Limousin", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-20", appender.calls[0].row[ledger.InboundColDeliveryDate])
}

func TestSubmitDeliveryValidation(t *testing.T) {
	svc := newTestService(t, &fakeAppender{}, nil)

	tests := []struct {
		name  string
		input DeliveryInput
	}{
		{"missing receipt number", DeliveryInput{Vendor: "V", Entries: []DeliveryEntry{{AnimalType: "Cattle", Category: "c", Quantity: 1}}}},
		{"missing vendor", DeliveryInput{ReceiptNumber: "N", Entries: []DeliveryEntry{{AnimalType: "Cattle", Category: "c", Quantity: 1}}}},
		{"no entries", DeliveryInput{ReceiptNumber: "N", Vendor: "V"}},
		{"invalid animal type", DeliveryInput{ReceiptNumber: "N", Vendor: "V", Entries: []DeliveryEntry{{AnimalType: "Llama", Category: "c", Quantity: 1}}}},
		{"zero quantity", DeliveryInput{ReceiptNumber: "N", Vendor: "V", Entries: []DeliveryEntry{{AnimalType: "Cattle", Category: "c", Quantity: 0}}}},
		{"bad date", DeliveryInput{ReceiptNumber: "N", Vendor: "V", DeliveryDate: "20/05/2026", Entries: []DeliveryEntry{{AnimalType: "Cattle", Category: "c", Quantity: 1}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitDelivery(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, errors.CodeValidation, errors.As(err).Code())
		})
	}
}

func TestSubmitDeliveryStopsOnAppendFailure(t *testing.T) {
	appender := &fakeAppender{
		failAt:  1,
		failErr: errors.New(errors.CodeLedgerUnavailable, "ledger append retries exhausted"),
	}
	svc := newTestService(t, appender, nil)

	_, err := svc.SubmitDelivery(context.Background(), DeliveryInput{
		ReceiptNumber: "NT-003",
		Vendor:        "Pak Budi",
		Entries: []DeliveryEntry{
			{AnimalType: "Goat/Sheep", Category: "Standard", Quantity: 5},
			{AnimalType: "Goat/Sheep", Category: "Premium", Quantity: 3},
			{AnimalType: "Cattle", Category: "Limousin", Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.IsLedgerUnavailable(err))
	// First row landed before the failure; nothing was written after it.
	assert.Len(t, appender.calls, 1)
}

func TestSubmitDispatch(t *testing.T) {
	appender := &fakeAppender{}
	svc := newTestService(t, appender, nil)

	result, err := svc.SubmitDispatch(context.Background(), DispatchInput{
		VehicleNumber:  "B 1234 XY",
		DispatchDate:   "2026-05-21",
		DispatchReason: "distribution",
		Entries:        []DeliveryEntry{{AnimalType: "Goat/Sheep", Category: "Standard", Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowsAppended)

	require.Len(t, appender.calls, 1)
	assert.Equal(t, "Form Keluar", appender.calls[0].rangeName)

	row := appender.calls[0].row
	require.Len(t, row, len(ledger.OutboundSchema.Fields))
	assert.Equal(t, "B 1234 XY", row[ledger.OutboundColVehicleNumber])
	assert.Equal(t, "4", row[ledger.OutboundColQuantity])
	assert.Equal(t, "2026-05-21", row[ledger.OutboundColDispatchDate])
}

func TestListDeliveries(t *testing.T) {
	reader := &fakeReader{
		tables: map[string]sheets.Table{
			"Form Masuk": {
				Header: ledger.InboundSchema.Fields,
				Rows: [][]string{
					{"2026-05-20 09:00:00", "NT-1", "Goat/Sheep", "Pak Budi", "Standard", "10", "", "", "", "", "2026-05-20", ""},
				},
			},
		},
	}
	svc := newTestService(t, &fakeAppender{}, reader)

	list, err := svc.ListDeliveries(context.Background())
	require.NoError(t, err)
	assert.False(t, list.Degraded)
	require.Len(t, list.Records, 1)
	assert.Equal(t, "Pak Budi", list.Records[0].Vendor)
	assert.Equal(t, 10, list.Records[0].Quantity)
}

func TestListDeliveriesDegraded(t *testing.T) {
	reader := &fakeReader{
		errs: map[string]error{
			"Form Masuk": errors.New(errors.CodeLedgerUnavailable, "unreachable"),
		},
	}
	svc := newTestService(t, &fakeAppender{}, reader)

	list, err := svc.ListDeliveries(context.Background())
	require.NoError(t, err)
	assert.True(t, list.Degraded)
	assert.Empty(t, list.Records)
}

func TestListDispatchesHardFailure(t *testing.T) {
	reader := &fakeReader{
		errs: map[string]error{
			"Form Keluar": fmt.Errorf("boom"),
		},
	}
	svc := newTestService(t, &fakeAppender{}, reader)

	_, err := svc.ListDispatches(context.Background())
	assert.Error(t, err)
}
