package recon

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kandangops/kandang-backend/internal/ledger"
	"github.com/kandangops/kandang-backend/internal/plan"
	"github.com/kandangops/kandang-backend/pkg/enums"
	"github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
	"github.com/kandangops/kandang-backend/pkg/sheets"
)

// Service exposes the reconciliation views built from the two ledgers
// and the order plan.
type Service interface {
	OrderStatus(ctx context.Context, filter enums.AnimalType) (*OrderStatusReport, error)
	StockSummary(ctx context.Context) (*StockReport, error)
	DailyArrivals(ctx context.Context, filter DailyFilter) (*DailyReport, error)
	VendorSummary(ctx context.Context, filter enums.AnimalType) (*VendorReport, error)
	ValidateHeaders(ctx context.Context) error
}

type service struct {
	reader        sheets.Reader
	registry      *plan.Registry
	inboundRange  string
	outboundRange string
	logg          *logger.Logger
}

// OrderStatusReport carries reconciled rows plus a degraded marker set
// when a ledger read exhausted its retries and the view was built from
// empty data.
type OrderStatusReport struct {
	Rows     []Row `json:"rows"`
	Degraded bool  `json:"degraded"`
}

// StockLine is the in/out/current position for one animal type.
type StockLine struct {
	AnimalType   enums.AnimalType `json:"animal_type"`
	TotalIn      int              `json:"total_in"`
	TotalOut     int              `json:"total_out"`
	CurrentStock int              `json:"current_stock"`
}

// StockReport is the dashboard stock view: per-type positions plus the
// overall order completion across every reconciled row.
type StockReport struct {
	Lines             []StockLine `json:"lines"`
	TotalOrdered      int         `json:"total_ordered"`
	TotalDelivered    int         `json:"total_delivered"`
	OverallCompletion float64     `json:"overall_completion"`
	Degraded          bool        `json:"degraded"`
}

// DailyFilter narrows the daily arrivals view. Empty fields match
// everything.
type DailyFilter struct {
	Vendor     string
	AnimalType enums.AnimalType
	Category   string
}

// DailyArrival is the delivered total for one calendar day.
type DailyArrival struct {
	Date          string `json:"date"`
	Quantity      int    `json:"quantity"`
	DeliveryCount int    `json:"delivery_count"`
}

type DailyReport struct {
	Days     []DailyArrival `json:"days"`
	Degraded bool           `json:"degraded"`
}

// VendorRollup aggregates a vendor's order rows into one line.
type VendorRollup struct {
	Vendor     string            `json:"vendor"`
	Ordered    int               `json:"ordered"`
	Delivered  int               `json:"delivered"`
	Remaining  int               `json:"remaining"`
	Completion float64           `json:"completion"`
	OrderCount int               `json:"order_count"`
	Status     enums.OrderStatus `json:"status"`
}

type VendorReport struct {
	Vendors  []VendorRollup `json:"vendors"`
	Degraded bool           `json:"degraded"`
}

// NewService wires the reconciliation service.
func NewService(reader sheets.Reader, registry *plan.Registry, inboundRange, outboundRange string, logg *logger.Logger) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("ledger reader required")
	}
	if registry == nil {
		return nil, fmt.Errorf("order plan registry required")
	}
	if inboundRange == "" || outboundRange == "" {
		return nil, fmt.Errorf("ledger range names required")
	}
	return &service{
		reader:        reader,
		registry:      registry,
		inboundRange:  inboundRange,
		outboundRange: outboundRange,
		logg:          logg,
	}, nil
}

// readLedgers loads both ledgers. A read that exhausted its retries
// degrades to an empty table so aggregation yields "no data" instead of
// failing the whole view.
func (s *service) readLedgers(ctx context.Context) (in []ledger.DeliveryRecord, out []ledger.DispatchRecord, degraded bool, err error) {
	inTable, inErr := s.reader.Read(ctx, s.inboundRange)
	if inErr != nil {
		if !errors.IsLedgerUnavailable(inErr) {
			return nil, nil, false, inErr
		}
		s.logg.Warn(s.logg.WithLedger(ctx, s.inboundRange), "inbound ledger unreachable, serving degraded view")
		degraded = true
	}
	outTable, outErr := s.reader.Read(ctx, s.outboundRange)
	if outErr != nil {
		if !errors.IsLedgerUnavailable(outErr) {
			return nil, nil, false, outErr
		}
		s.logg.Warn(s.logg.WithLedger(ctx, s.outboundRange), "outbound ledger unreachable, serving degraded view")
		degraded = true
	}
	return ledger.ParseDeliveries(inTable), ledger.ParseDispatches(outTable), degraded, nil
}

func (s *service) OrderStatus(ctx context.Context, filter enums.AnimalType) (*OrderStatusReport, error) {
	if filter != "" && !filter.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid animal type %q", filter))
	}
	in, out, degraded, err := s.readLedgers(ctx)
	if err != nil {
		return nil, err
	}
	return &OrderStatusReport{
		Rows:     Reconcile(in, out, s.registry, filter),
		Degraded: degraded,
	}, nil
}

func (s *service) StockSummary(ctx context.Context) (*StockReport, error) {
	in, out, degraded, err := s.readLedgers(ctx)
	if err != nil {
		return nil, err
	}

	inTotals := map[enums.AnimalType]int{}
	for _, record := range in {
		if animal, perr := enums.ParseAnimalType(record.AnimalType); perr == nil {
			inTotals[animal] += record.Quantity
		}
	}
	outTotals := map[enums.AnimalType]int{}
	for _, record := range out {
		if animal, perr := enums.ParseAnimalType(record.AnimalType); perr == nil {
			outTotals[animal] += record.Quantity
		}
	}

	report := &StockReport{Degraded: degraded}
	for _, animal := range enums.AnimalTypes() {
		report.Lines = append(report.Lines, StockLine{
			AnimalType:   animal,
			TotalIn:      inTotals[animal],
			TotalOut:     outTotals[animal],
			CurrentStock: inTotals[animal] - outTotals[animal],
		})
	}

	for _, row := range Reconcile(in, out, s.registry, "") {
		report.TotalOrdered += row.Ordered
		report.TotalDelivered += row.Delivered
	}
	if report.TotalOrdered > 0 {
		report.OverallCompletion = float64(report.TotalDelivered) / float64(report.TotalOrdered) * 100
	}
	return report, nil
}

func (s *service) DailyArrivals(ctx context.Context, filter DailyFilter) (*DailyReport, error) {
	if filter.AnimalType != "" && !filter.AnimalType.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid animal type %q", filter.AnimalType))
	}
	in, _, degraded, err := s.readLedgers(ctx)
	if err != nil {
		return nil, err
	}

	totals := map[string]*DailyArrival{}
	for _, record := range in {
		if filter.Vendor != "" && record.Vendor != filter.Vendor {
			continue
		}
		if filter.AnimalType != "" && record.AnimalType != string(filter.AnimalType) {
			continue
		}
		if filter.Category != "" && record.Category != filter.Category {
			continue
		}
		day, ok := arrivalDay(record)
		if !ok {
			continue
		}
		arrival, ok := totals[day]
		if !ok {
			arrival = &DailyArrival{Date: day}
			totals[day] = arrival
		}
		arrival.Quantity += record.Quantity
		arrival.DeliveryCount++
	}

	report := &DailyReport{Degraded: degraded}
	for _, arrival := range totals {
		report.Days = append(report.Days, *arrival)
	}
	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date < report.Days[j].Date
	})
	return report, nil
}

// arrivalDay resolves the calendar day of a delivery, preferring the
// explicit delivery date and falling back to the submission timestamp.
// Rows with no parseable date are skipped.
func arrivalDay(record ledger.DeliveryRecord) (string, bool) {
	if _, err := time.Parse("2006-01-02", record.DeliveryDate); err == nil {
		return record.DeliveryDate, true
	}
	if len(record.Timestamp) >= 10 {
		day := record.Timestamp[:10]
		if _, err := time.Parse("2006-01-02", day); err == nil {
			return day, true
		}
	}
	return "", false
}

func (s *service) VendorSummary(ctx context.Context, filter enums.AnimalType) (*VendorReport, error) {
	status, err := s.OrderStatus(ctx, filter)
	if err != nil {
		return nil, err
	}

	rollups := map[string]*VendorRollup{}
	var vendors []string
	for _, row := range status.Rows {
		if row.Vendor == "" {
			continue
		}
		rollup, ok := rollups[row.Vendor]
		if !ok {
			rollup = &VendorRollup{Vendor: row.Vendor}
			rollups[row.Vendor] = rollup
			vendors = append(vendors, row.Vendor)
		}
		rollup.Ordered += row.Ordered
		rollup.Delivered += row.Delivered
		rollup.OrderCount++
	}

	report := &VendorReport{Degraded: status.Degraded}
	for _, vendor := range vendors {
		rollup := rollups[vendor]
		rollup.Remaining = rollup.Ordered - rollup.Delivered
		if rollup.Remaining < 0 {
			rollup.Remaining = 0
		}
		if rollup.Ordered > 0 {
			rollup.Completion = float64(rollup.Delivered) / float64(rollup.Ordered) * 100
		}
		rollup.Status = Classify(rollup.Ordered, rollup.Delivered, rollup.Completion)
		report.Vendors = append(report.Vendors, *rollup)
	}
	sort.SliceStable(report.Vendors, func(i, j int) bool {
		if report.Vendors[i].Completion != report.Vendors[j].Completion {
			return report.Vendors[i].Completion > report.Vendors[j].Completion
		}
		return report.Vendors[i].Vendor < report.Vendors[j].Vendor
	})
	return report, nil
}

// ValidateHeaders reads both ledger headers and checks them against the
// typed schemas. Intended for startup: a mismatch means the remote
// sheets no longer match the persisted layout.
func (s *service) ValidateHeaders(ctx context.Context) error {
	inTable, err := s.reader.Read(ctx, s.inboundRange)
	if err != nil {
		return err
	}
	if len(inTable.Header) > 0 {
		if verr := ledger.InboundSchema.Validate(inTable.Header); verr != nil {
			return verr
		}
	}
	outTable, err := s.reader.Read(ctx, s.outboundRange)
	if err != nil {
		return err
	}
	if len(outTable.Header) > 0 {
		if verr := ledger.OutboundSchema.Validate(outTable.Header); verr != nil {
			return verr
		}
	}
	return nil
}
