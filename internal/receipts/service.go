package receipts

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
)

// Uploader stores a receipt file and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, data io.Reader) (string, error)
}

// Service stores receipt photos referenced by delivery rows.
type Service interface {
	Store(ctx context.Context, input StoreInput) (*StoredReceipt, error)
	Enabled() bool
}

type service struct {
	uploader Uploader
	location *time.Location
	logg     *logger.Logger
	now      func() time.Time
}

// StoreInput is one receipt file upload.
type StoreInput struct {
	ReceiptNumber string
	Filename      string
	ContentType   string
	Data          io.Reader
}

// StoredReceipt points at the stored copy; URL goes into the ledger's
// receipt reference column.
type StoredReceipt struct {
	ObjectName string `json:"object_name"`
	URL        string `json:"url"`
}

// NewService wires the receipt store. uploader may be nil when no
// bucket is configured; Store then rejects uploads and Enabled reports
// false so the intake flow can skip the receipt column.
func NewService(uploader Uploader, location *time.Location, logg *logger.Logger) Service {
	if location == nil {
		location = time.UTC
	}
	return &service{
		uploader: uploader,
		location: location,
		logg:     logg,
		now:      time.Now,
	}
}

func (s *service) Enabled() bool {
	return s.uploader != nil
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

func (s *service) Store(ctx context.Context, input StoreInput) (*StoredReceipt, error) {
	if s.uploader == nil {
		return nil, errors.New(errors.CodeDependency, "receipt storage is not configured")
	}
	if input.Data == nil {
		return nil, errors.New(errors.CodeValidation, "receipt file is required")
	}

	ext := strings.ToLower(path.Ext(input.Filename))
	if !allowedExtensions[ext] {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unsupported receipt file type %q", ext))
	}

	objectName := s.objectName(input.ReceiptNumber, ext)
	url, err := s.uploader.Upload(ctx, objectName, input.ContentType, input.Data)
	if err != nil {
		s.logg.Error(ctx, "receipt upload failed", err)
		return nil, errors.Wrap(errors.CodeDependency, err, "storing receipt")
	}

	s.logg.Info(ctx, fmt.Sprintf("stored receipt %s", objectName))
	return &StoredReceipt{ObjectName: objectName, URL: url}, nil
}

// objectName derives the stored name from the receipt number, with a
// timestamp fallback when no number was provided.
func (s *service) objectName(receiptNumber, ext string) string {
	base := sanitize(receiptNumber)
	if base == "" {
		base = s.now().In(s.location).Format("20060102-150405")
	}
	return "nota/" + base + ext
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ' || r == '/':
			b.WriteRune('-')
		}
	}
	return b.String()
}
