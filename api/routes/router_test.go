package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandangops/kandang-backend/api/controllers"
	"github.com/kandangops/kandang-backend/internal/intake"
	"github.com/kandangops/kandang-backend/internal/recon"
	"github.com/kandangops/kandang-backend/internal/receipts"
	"github.com/kandangops/kandang-backend/pkg/config"
	"github.com/kandangops/kandang-backend/pkg/enums"
	pkgerrors "github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
	"github.com/kandangops/kandang-backend/pkg/types"
)

type fakeIntake struct {
	submitResult *intake.SubmitResult
	submitErr    error
	lastDelivery intake.DeliveryInput
	lastDispatch intake.DispatchInput
}

func (f *fakeIntake) SubmitDelivery(_ context.Context, input intake.DeliveryInput) (*intake.SubmitResult, error) {
	f.lastDelivery = input
	return f.submitResult, f.submitErr
}

func (f *fakeIntake) SubmitDispatch(_ context.Context, input intake.DispatchInput) (*intake.SubmitResult, error) {
	f.lastDispatch = input
	return f.submitResult, f.submitErr
}

func (f *fakeIntake) ListDeliveries(context.Context) (*intake.DeliveryList, error) {
	return &intake.DeliveryList{}, nil
}

func (f *fakeIntake) ListDispatches(context.Context) (*intake.DispatchList, error) {
	return &intake.DispatchList{}, nil
}

type fakeRecon struct {
	orderReport *recon.OrderStatusReport
	lastFilter  enums.AnimalType
}

func (f *fakeRecon) OrderStatus(_ context.Context, filter enums.AnimalType) (*recon.OrderStatusReport, error) {
	f.lastFilter = filter
	return f.orderReport, nil
}

func (f *fakeRecon) StockSummary(context.Context) (*recon.StockReport, error) {
	return &recon.StockReport{}, nil
}

func (f *fakeRecon) DailyArrivals(context.Context, recon.DailyFilter) (*recon.DailyReport, error) {
	return &recon.DailyReport{}, nil
}

func (f *fakeRecon) VendorSummary(context.Context, enums.AnimalType) (*recon.VendorReport, error) {
	return &recon.VendorReport{}, nil
}

func (f *fakeRecon) ValidateHeaders(context.Context) error { return nil }

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

func newTestRouter(t *testing.T, intakeSvc intake.Service, reconSvc recon.Service, ledger controllers.Pinger) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	receiptSvc := receipts.NewService(nil, nil, logg)
	return NewRouter(cfg, logg, prometheus.NewRegistry(), ledger, nil, nil, intakeSvc, reconSvc, receiptSvc)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, &fakeIntake{}, &fakeRecon{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Kandang-Env"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestHealthReadyWithFailingLedger(t *testing.T) {
	router := newTestRouter(t, &fakeIntake{}, &fakeRecon{}, &fakePinger{err: pkgerrors.New(pkgerrors.CodeLedgerUnavailable, "down")})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ledger":"down"`)
	assert.Contains(t, rec.Body.String(), `"cache":"disabled"`)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeIntake{}, &fakeRecon{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitDelivery(t *testing.T) {
	svc := &fakeIntake{submitResult: &intake.SubmitResult{RowsAppended: 2, Timestamp: "2026-05-20 09:30:00"}}
	router := newTestRouter(t, svc, &fakeRecon{}, nil)

	body := `{
		"receipt_number": "NT-001",
		"vendor": "Pak Budi",
		"entries": [
			{"animal_type": "Goat/Sheep", "category": "Standard", "quantity": 10},
			{"animal_type": "Goat/Sheep", "category": "Premium", "quantity": 2}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deliveries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "NT-001", svc.lastDelivery.ReceiptNumber)
	require.Len(t, svc.lastDelivery.Entries, 2)
	assert.Equal(t, 10, svc.lastDelivery.Entries[0].Quantity)
}

func TestSubmitDeliveryRejectsBadBody(t *testing.T) {
	router := newTestRouter(t, &fakeIntake{}, &fakeRecon{}, nil)

	body := `{"vendor": "Pak Budi", "entries": []}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deliveries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}

func TestSubmitDeliveryLedgerUnavailable(t *testing.T) {
	svc := &fakeIntake{submitErr: pkgerrors.New(pkgerrors.CodeLedgerUnavailable, "retries exhausted")}
	router := newTestRouter(t, svc, &fakeRecon{}, nil)

	body := `{"receipt_number": "NT-1", "vendor": "V", "entries": [{"animal_type": "Cattle", "category": "c", "quantity": 1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deliveries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "LEDGER_UNAVAILABLE")
}

func TestOrderStatusFilter(t *testing.T) {
	svc := &fakeRecon{orderReport: &recon.OrderStatusReport{}}
	router := newTestRouter(t, &fakeIntake{}, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reconciliation/orders?animal_type=Goat%2FSheep", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.AnimalTypeGoatSheep, svc.lastFilter)
}

func TestOrderStatusRejectsUnknownFilter(t *testing.T) {
	router := newTestRouter(t, &fakeIntake{}, &fakeRecon{orderReport: &recon.OrderStatusReport{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reconciliation/orders?animal_type=Llama", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadReceiptWithoutStorage(t *testing.T) {
	router := newTestRouter(t, &fakeIntake{}, &fakeRecon{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Either the form parse or the disabled storage rejects it; never a panic.
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
