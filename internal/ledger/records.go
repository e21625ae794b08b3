package ledger

import (
	"strconv"

	"github.com/kandangops/kandang-backend/pkg/sheets"
)

// DeliveryRecord is one row of the inbound delivery ledger.
type DeliveryRecord struct {
	Timestamp     string `json:"timestamp"`
	ReceiptNumber string `json:"receipt_number"`
	AnimalType    string `json:"animal_type"`
	Vendor        string `json:"vendor"`
	Category      string `json:"category"`
	Quantity      int    `json:"quantity"`
	Orderer       string `json:"orderer"`
	Sender        string `json:"sender"`
	Receiver      string `json:"receiver"`
	ReceiptRef    string `json:"receipt_ref"`
	DeliveryDate  string `json:"delivery_date"`
	Note          string `json:"note"`
}

// Row renders the record as the ordered cell list persisted to the
// inbound ledger.
func (r DeliveryRecord) Row() []string {
	return []string{
		r.Timestamp,
		r.ReceiptNumber,
		r.AnimalType,
		r.Vendor,
		r.Category,
		strconv.Itoa(r.Quantity),
		r.Orderer,
		r.Sender,
		r.Receiver,
		r.ReceiptRef,
		r.DeliveryDate,
		r.Note,
	}
}

// DispatchRecord is one row of the outbound dispatch ledger.
type DispatchRecord struct {
	Timestamp      string `json:"timestamp"`
	AnimalType     string `json:"animal_type"`
	Category       string `json:"category"`
	Quantity       int    `json:"quantity"`
	VehicleNumber  string `json:"vehicle_number"`
	DispatchDate   string `json:"dispatch_date"`
	DispatchReason string `json:"dispatch_reason"`
	ShipmentDocRef string `json:"shipment_doc_ref"`
	Note           string `json:"note"`
}

// Row renders the record as the ordered cell list persisted to the
// outbound ledger.
func (r DispatchRecord) Row() []string {
	return []string{
		r.Timestamp,
		r.AnimalType,
		r.Category,
		strconv.Itoa(r.Quantity),
		r.VehicleNumber,
		r.DispatchDate,
		r.DispatchReason,
		r.ShipmentDocRef,
		r.Note,
	}
}

// ParseDeliveries converts a normalized inbound table into typed
// records. The table header is assumed already validated against
// InboundSchema; quantity cells coerce to 0 when unparsable.
func ParseDeliveries(table sheets.Table) []DeliveryRecord {
	records := make([]DeliveryRecord, 0, len(table.Rows))
	for i := range table.Rows {
		records = append(records, DeliveryRecord{
			Timestamp:     table.Cell(i, InboundColTimestamp),
			ReceiptNumber: table.Cell(i, InboundColReceiptNumber),
			AnimalType:    table.Cell(i, InboundColAnimalType),
			Vendor:        table.Cell(i, InboundColVendor),
			Category:      table.Cell(i, InboundColCategory),
			Quantity:      coerceQuantity(table.Cell(i, InboundColQuantity)),
			Orderer:       table.Cell(i, InboundColOrderer),
			Sender:        table.Cell(i, InboundColSender),
			Receiver:      table.Cell(i, InboundColReceiver),
			ReceiptRef:    table.Cell(i, InboundColReceiptRef),
			DeliveryDate:  table.Cell(i, InboundColDeliveryDate),
			Note:          table.Cell(i, InboundColNote),
		})
	}
	return records
}

// ParseDispatches converts a normalized outbound table into typed
// records.
func ParseDispatches(table sheets.Table) []DispatchRecord {
	records := make([]DispatchRecord, 0, len(table.Rows))
	for i := range table.Rows {
		records = append(records, DispatchRecord{
			Timestamp:      table.Cell(i, OutboundColTimestamp),
			AnimalType:     table.Cell(i, OutboundColAnimalType),
			Category:       table.Cell(i, OutboundColCategory),
			Quantity:       coerceQuantity(table.Cell(i, OutboundColQuantity)),
			VehicleNumber:  table.Cell(i, OutboundColVehicleNumber),
			DispatchDate:   table.Cell(i, OutboundColDispatchDate),
			DispatchReason: table.Cell(i, OutboundColDispatchReason),
			ShipmentDocRef: table.Cell(i, OutboundColShipmentDocRef),
			Note:           table.Cell(i, OutboundColNote),
		})
	}
	return records
}
