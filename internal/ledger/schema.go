package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// Schema is the fixed ordered field list of one ledger sheet. Column
// positions are resolved from this list, never from runtime lookup by
// configured name.
type Schema struct {
	Name   string
	Fields []string
}

// Inbound delivery ledger column positions.
const (
	InboundColTimestamp = iota
	InboundColReceiptNumber
	InboundColAnimalType
	InboundColVendor
	InboundColCategory
	InboundColQuantity
	InboundColOrderer
	InboundColSender
	InboundColReceiver
	InboundColReceiptRef
	InboundColDeliveryDate
	InboundColNote
)

// Outbound dispatch ledger column positions.
const (
	OutboundColTimestamp = iota
	OutboundColAnimalType
	OutboundColCategory
	OutboundColQuantity
	OutboundColVehicleNumber
	OutboundColDispatchDate
	OutboundColDispatchReason
	OutboundColShipmentDocRef
	OutboundColNote
)

var InboundSchema = Schema{
	Name: "inbound",
	Fields: []string{
		"Timestamp",
		"Receipt Number",
		"Animal Type",
		"Vendor",
		"Category",
		"Quantity",
		"Orderer",
		"Sender",
		"Receiver",
		"Receipt Ref",
		"Delivery Date",
		"Note",
	},
}

var OutboundSchema = Schema{
	Name: "outbound",
	Fields: []string{
		"Timestamp",
		"Animal Type",
		"Category",
		"Quantity",
		"Vehicle Number",
		"Dispatch Date",
		"Dispatch Reason",
		"Shipment Doc Ref",
		"Note",
	},
}

// Validate checks a remote header row against the schema. Comparison is
// case-insensitive and ignores surrounding whitespace; trailing columns
// beyond the schema are tolerated only when empty.
func (s Schema) Validate(header []string) error {
	if len(header) < len(s.Fields) {
		return fmt.Errorf("%s ledger header has %d columns, want %d", s.Name, len(header), len(s.Fields))
	}
	for i, want := range s.Fields {
		got := strings.TrimSpace(header[i])
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("%s ledger column %d is %q, want %q", s.Name, i, got, want)
		}
	}
	for i := len(s.Fields); i < len(header); i++ {
		if strings.TrimSpace(header[i]) != "" {
			return fmt.Errorf("%s ledger has unexpected column %d: %q", s.Name, i, header[i])
		}
	}
	return nil
}

// coerceQuantity turns a raw quantity cell into a count. Unparsable
// values become 0 rather than failing a whole aggregation run.
func coerceQuantity(cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return int(f)
	}
	return 0
}
