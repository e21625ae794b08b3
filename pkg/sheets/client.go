package sheets

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/kandangops/kandang-backend/pkg/config"
	pkgerrors "github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
	"github.com/kandangops/kandang-backend/pkg/metrics"
)

const (
	opAppend = "append"
	opRead   = "read"

	// valueInputUserEntered lets the remote store interpret numbers and
	// dates instead of storing raw text.
	valueInputUserEntered = "USER_ENTERED"

	// firstDataRow is where writes land when the next-row probe fails:
	// row 1 is reserved for the header.
	firstDataRow = 2
)

// RetryPolicy bounds how often a transient remote fault is retried.
// The delay is fixed between attempts, not exponential.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// valuesAPI is the slice of the Sheets API the client depends on; tests
// substitute a fake.
type valuesAPI interface {
	Get(ctx context.Context, spreadsheetID, readRange string) (*gsheets.ValueRange, error)
	Update(ctx context.Context, spreadsheetID, writeRange string, vr *gsheets.ValueRange) error
	Metadata(ctx context.Context, spreadsheetID string) error
}

type googleValues struct {
	svc *gsheets.Service
}

func (g *googleValues) Get(ctx context.Context, spreadsheetID, readRange string) (*gsheets.ValueRange, error) {
	return g.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
}

func (g *googleValues) Update(ctx context.Context, spreadsheetID, writeRange string, vr *gsheets.ValueRange) error {
	_, err := g.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, vr).
		ValueInputOption(valueInputUserEntered).
		Context(ctx).
		Do()
	return err
}

func (g *googleValues) Metadata(ctx context.Context, spreadsheetID string) error {
	_, err := g.svc.Spreadsheets.Get(spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

// Client appends to and reads from a single spreadsheet, tolerating
// transient connectivity faults with a bounded fixed-delay retry.
type Client struct {
	values        valuesAPI
	spreadsheetID string
	retry         RetryPolicy
	timeout       time.Duration
	metrics       *metrics.LedgerMetrics
	logg          *logger.Logger
	sleep         func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Sheets-backed ledger client from configuration.
func NewClient(ctx context.Context, cfg config.SheetsConfig, google config.GoogleConfig, m *metrics.LedgerMetrics, logg *logger.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	switch {
	case google.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(google.CredentialsJSON)))
	case google.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(google.CredentialsFile))
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("building sheets service: %w", err)
	}

	return newClient(&googleValues{svc: svc}, cfg, m, logg), nil
}

func newClient(values valuesAPI, cfg config.SheetsConfig, m *metrics.LedgerMetrics, logg *logger.Logger) *Client {
	retry := RetryPolicy{Attempts: cfg.RetryAttempts, Delay: cfg.RetryDelay}
	if retry.Attempts <= 0 {
		retry.Attempts = 3
	}
	if retry.Delay <= 0 {
		retry.Delay = 2 * time.Second
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		values:        values,
		spreadsheetID: cfg.SpreadsheetID,
		retry:         retry,
		timeout:       timeout,
		metrics:       m,
		logg:          logg,
		sleep:         sleepContext,
	}
}

// Append writes row as a single new row at the logical end of the named
// range. The position comes from counting the first column; if that probe
// fails the write falls back to the first data row. Appends are
// at-least-once: calling twice appends twice.
func (c *Client) Append(ctx context.Context, rangeName string, row []any) error {
	if len(row) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot append an empty row")
	}

	next := c.nextRow(ctx, rangeName)
	writeRange := fmt.Sprintf("%s!A%d:%s%d", rangeName, next, columnLetter(len(row)-1), next)
	vr := &gsheets.ValueRange{Values: [][]any{row}}

	started := time.Now()
	err := c.withRetry(ctx, opAppend, func(callCtx context.Context) error {
		return c.values.Update(callCtx, c.spreadsheetID, writeRange, vr)
	})
	c.metrics.ObserveDuration(opAppend, time.Since(started))
	if err != nil {
		return err
	}

	if c.logg != nil {
		c.logg.Debug(c.logg.WithLedger(ctx, writeRange), "ledger row appended")
	}
	return nil
}

// Read fetches the named range as a normalized table. A range with no
// values yields an empty table and no error. When retries are exhausted
// the empty table is paired with a LEDGER_UNAVAILABLE error so callers
// can degrade to "no data" instead of crashing.
func (c *Client) Read(ctx context.Context, rangeName string) (Table, error) {
	var result *gsheets.ValueRange

	started := time.Now()
	err := c.withRetry(ctx, opRead, func(callCtx context.Context) error {
		vr, getErr := c.values.Get(callCtx, c.spreadsheetID, rangeName)
		if getErr != nil {
			return getErr
		}
		result = vr
		return nil
	})
	c.metrics.ObserveDuration(opRead, time.Since(started))
	if err != nil {
		return Table{}, err
	}

	if result == nil || len(result.Values) == 0 {
		return Table{}, nil
	}
	return Normalize(result.Values), nil
}

// Ping fetches spreadsheet metadata for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.values == nil {
		return errors.New("sheets client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.values.Metadata(ctx, c.spreadsheetID)
}

// nextRow counts entries in the first column to find the next empty row.
// A failed probe falls back to the first data row, mirroring how the
// ledger behaves against a freshly created sheet.
func (c *Client) nextRow(ctx context.Context, rangeName string) int {
	probeRange := rangeName + "!A:A"
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	vr, err := c.values.Get(callCtx, c.spreadsheetID, probeRange)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(c.logg.WithLedger(ctx, probeRange), "next-row probe failed, assuming empty ledger")
		}
		return firstDataRow
	}
	return len(vr.Values) + 1
}

func (c *Client) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		c.metrics.IncAttempt(op)

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("ledger %s failed", op))
		}
		if attempt == c.retry.Attempts {
			break
		}

		c.metrics.IncRetry(op)
		if c.logg != nil {
			lctx := c.logg.WithFields(ctx, map[string]any{"op": op, "attempt": attempt})
			c.logg.Warn(lctx, "transient ledger fault, retrying")
		}
		if sleepErr := c.sleep(ctx, c.retry.Delay); sleepErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeLedgerUnavailable, sleepErr, fmt.Sprintf("ledger %s canceled during retry wait", op))
		}
	}

	c.metrics.IncFailure(op)
	return pkgerrors.Wrap(pkgerrors.CodeLedgerUnavailable, lastErr,
		fmt.Sprintf("ledger %s failed after %d attempts", op, c.retry.Attempts)).
		WithDetails(map[string]any{"attempts": c.retry.Attempts})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isTransient classifies faults worth retrying: network and TLS layer
// failures, timeouts, and retryable HTTP statuses from the API.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableHTTPCode(apiErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// The Google client sometimes wraps handshake failures in plain
	// errors; match on the TLS prefix as a last resort.
	msg := err.Error()
	return strings.Contains(msg, "tls:") || strings.Contains(msg, "handshake failure")
}

func isRetryableHTTPCode(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusRequestTimeout,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// columnLetter converts a zero-based column index into its A1-notation
// letter ("A", "B", ..., "Z", "AA").
func columnLetter(index int) string {
	if index < 0 {
		return "A"
	}
	letters := ""
	n := index
	for {
		letters = string(rune('A'+n%26)) + letters
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return letters
}
