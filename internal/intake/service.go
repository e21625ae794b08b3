package intake

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/kandangops/kandang-backend/internal/ledger"
	"github.com/kandangops/kandang-backend/pkg/enums"
	"github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
	"github.com/kandangops/kandang-backend/pkg/sheets"
)

const timestampLayout = "2006-01-02 15:04:05"

// Appender writes one row to a ledger range.
type Appender interface {
	Append(ctx context.Context, rangeName string, row []any) error
}

// Service records deliveries and dispatches on the remote ledgers and
// lists what has been recorded.
type Service interface {
	SubmitDelivery(ctx context.Context, input DeliveryInput) (*SubmitResult, error)
	SubmitDispatch(ctx context.Context, input DispatchInput) (*SubmitResult, error)
	ListDeliveries(ctx context.Context) (*DeliveryList, error)
	ListDispatches(ctx context.Context) (*DispatchList, error)
}

type service struct {
	appender      Appender
	reader        sheets.Reader
	inboundRange  string
	outboundRange string
	location      *time.Location
	logg          *logger.Logger
	now           func() time.Time
}

// DeliveryEntry is one animal line within a delivery submission.
type DeliveryEntry struct {
	AnimalType string `json:"animal_type"`
	Category   string `json:"category"`
	Quantity   int    `json:"quantity"`
}

// DeliveryInput is a delivery submission: shared receipt fields plus
// one or more animal entries, each persisted as its own ledger row.
type DeliveryInput struct {
	ReceiptNumber string          `json:"receipt_number"`
	Vendor        string          `json:"vendor"`
	Orderer       string          `json:"orderer"`
	Sender        string          `json:"sender"`
	Receiver      string          `json:"receiver"`
	ReceiptRef    string          `json:"receipt_ref"`
	DeliveryDate  string          `json:"delivery_date"`
	Note          string          `json:"note"`
	Entries       []DeliveryEntry `json:"entries"`
}

// DispatchInput is an outbound dispatch submission.
type DispatchInput struct {
	VehicleNumber  string          `json:"vehicle_number"`
	DispatchDate   string          `json:"dispatch_date"`
	DispatchReason string          `json:"dispatch_reason"`
	ShipmentDocRef string          `json:"shipment_doc_ref"`
	Note           string          `json:"note"`
	Entries        []DeliveryEntry `json:"entries"`
}

// SubmitResult reports how many ledger rows a submission produced.
type SubmitResult struct {
	RowsAppended int    `json:"rows_appended"`
	Timestamp    string `json:"timestamp"`
}

type DeliveryList struct {
	Records  []ledger.DeliveryRecord `json:"records"`
	Degraded bool                    `json:"degraded"`
}

type DispatchList struct {
	Records  []ledger.DispatchRecord `json:"records"`
	Degraded bool                    `json:"degraded"`
}

// NewService wires the intake service. location controls submission
// timestamps; the operation runs on West Indonesia Time.
func NewService(appender Appender, reader sheets.Reader, inboundRange, outboundRange string, location *time.Location, logg *logger.Logger) (Service, error) {
	if appender == nil {
		return nil, fmt.Errorf("ledger appender required")
	}
	if reader == nil {
		return nil, fmt.Errorf("ledger reader required")
	}
	if inboundRange == "" || outboundRange == "" {
		return nil, fmt.Errorf("ledger range names required")
	}
	if location == nil {
		location = time.UTC
	}
	return &service{
		appender:      appender,
		reader:        reader,
		inboundRange:  inboundRange,
		outboundRange: outboundRange,
		location:      location,
		logg:          logg,
		now:           time.Now,
	}, nil
}

func validateEntries(entries []DeliveryEntry) error {
	if len(entries) == 0 {
		return errors.New(errors.CodeValidation, "at least one animal entry is required")
	}
	var errs error
	for i, entry := range entries {
		if !enums.AnimalType(entry.AnimalType).IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: invalid animal type %q", i, entry.AnimalType))
		}
		if entry.Category == "" {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: category is required", i))
		}
		if entry.Quantity <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: quantity must be positive", i))
		}
	}
	if errs != nil {
		return errors.Wrap(errors.CodeValidation, errs, "invalid animal entries")
	}
	return nil
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return errors.New(errors.CodeValidation, fmt.Sprintf("%s must be an ISO date (YYYY-MM-DD)", field))
	}
	return nil
}

func (s *service) SubmitDelivery(ctx context.Context, input DeliveryInput) (*SubmitResult, error) {
	if input.ReceiptNumber == "" {
		return nil, errors.New(errors.CodeValidation, "receipt number is required")
	}
	if input.Vendor == "" {
		return nil, errors.New(errors.CodeValidation, "vendor is required")
	}
	if err := validateEntries(input.Entries); err != nil {
		return nil, err
	}
	if err := validateDate("delivery_date", input.DeliveryDate); err != nil {
		return nil, err
	}

	timestamp := s.now().In(s.location).Format(timestampLayout)
	deliveryDate := input.DeliveryDate
	if deliveryDate == "" {
		deliveryDate = s.now().In(s.location).Format("2006-01-02")
	}

	ctx = s.logg.WithVendor(s.logg.WithLedger(ctx, s.inboundRange), input.Vendor)
	appended := 0
	for _, entry := range input.Entries {
		record := ledger.DeliveryRecord{
			Timestamp:     timestamp,
			ReceiptNumber: input.ReceiptNumber,
			AnimalType:    entry.AnimalType,
			Vendor:        input.Vendor,
			Category:      entry.Category,
			Quantity:      entry.Quantity,
			Orderer:       input.Orderer,
			Sender:        input.Sender,
			Receiver:      input.Receiver,
			ReceiptRef:    input.ReceiptRef,
			DeliveryDate:  deliveryDate,
			Note:          input.Note,
		}
		if err := s.appender.Append(ctx, s.inboundRange, toCells(record.Row())); err != nil {
			s.logg.Error(ctx, "delivery append failed", err)
			return nil, fmt.Errorf("appending delivery entry %d of %d: %w", appended+1, len(input.Entries), err)
		}
		appended++
	}

	s.logg.Info(ctx, fmt.Sprintf("recorded delivery %s (%d rows)", input.ReceiptNumber, appended))
	return &SubmitResult{RowsAppended: appended, Timestamp: timestamp}, nil
}

func (s *service) SubmitDispatch(ctx context.Context, input DispatchInput) (*SubmitResult, error) {
	if err := validateEntries(input.Entries); err != nil {
		return nil, err
	}
	if err := validateDate("dispatch_date", input.DispatchDate); err != nil {
		return nil, err
	}

	timestamp := s.now().In(s.location).Format(timestampLayout)
	dispatchDate := input.DispatchDate
	if dispatchDate == "" {
		dispatchDate = s.now().In(s.location).Format("2006-01-02")
	}

	ctx = s.logg.WithLedger(ctx, s.outboundRange)
	appended := 0
	for _, entry := range input.Entries {
		record := ledger.DispatchRecord{
			Timestamp:      timestamp,
			AnimalType:     entry.AnimalType,
			Category:       entry.Category,
			Quantity:       entry.Quantity,
			VehicleNumber:  input.VehicleNumber,
			DispatchDate:   dispatchDate,
			DispatchReason: input.DispatchReason,
			ShipmentDocRef: input.ShipmentDocRef,
			Note:           input.Note,
		}
		if err := s.appender.Append(ctx, s.outboundRange, toCells(record.Row())); err != nil {
			s.logg.Error(ctx, "dispatch append failed", err)
			return nil, fmt.Errorf("appending dispatch entry %d of %d: %w", appended+1, len(input.Entries), err)
		}
		appended++
	}

	s.logg.Info(ctx, fmt.Sprintf("recorded dispatch (%d rows)", appended))
	return &SubmitResult{RowsAppended: appended, Timestamp: timestamp}, nil
}

func (s *service) ListDeliveries(ctx context.Context) (*DeliveryList, error) {
	table, err := s.reader.Read(ctx, s.inboundRange)
	if err != nil {
		if !errors.IsLedgerUnavailable(err) {
			return nil, err
		}
		return &DeliveryList{Records: []ledger.DeliveryRecord{}, Degraded: true}, nil
	}
	return &DeliveryList{Records: ledger.ParseDeliveries(table)}, nil
}

func (s *service) ListDispatches(ctx context.Context) (*DispatchList, error) {
	table, err := s.reader.Read(ctx, s.outboundRange)
	if err != nil {
		if !errors.IsLedgerUnavailable(err) {
			return nil, err
		}
		return &DispatchList{Records: []ledger.DispatchRecord{}, Degraded: true}, nil
	}
	return &DispatchList{Records: ledger.ParseDispatches(table)}, nil
}

func toCells(row []string) []any {
	cells := make([]any, len(row))
	for i, cell := range row {
		cells[i] = cell
	}
	return cells
}
