package recon

import (
	"sort"

	"github.com/kandangops/kandang-backend/internal/ledger"
	"github.com/kandangops/kandang-backend/internal/plan"
	"github.com/kandangops/kandang-backend/pkg/enums"
)

// Row is one reconciled order line: observed deliveries merged with the
// order plan. Outbound is the animal-type-wide dispatch total; dispatch
// records carry no vendor or category attribution, so every row for an
// animal type repeats the same number.
type Row struct {
	Vendor        string            `json:"vendor"`
	AnimalType    string            `json:"animal_type"`
	Category      string            `json:"category"`
	Ordered       int               `json:"ordered"`
	Delivered     int               `json:"delivered"`
	Outbound      int               `json:"outbound"`
	DeliveryCount int               `json:"delivery_count"`
	Remaining     int               `json:"remaining"`
	Completion    float64           `json:"completion"`
	Status        enums.OrderStatus `json:"status"`
}

type rowKey struct {
	vendor   string
	animal   string
	category string
}

// Reconcile joins observed deliveries and dispatches against the order
// plan. filter narrows the result to one animal type; the zero value
// means all. Planned orders with no observed deliveries are synthesized
// as zero-delivery rows. Output is sorted by completion rate descending.
func Reconcile(inbound []ledger.DeliveryRecord, outbound []ledger.DispatchRecord, registry *plan.Registry, filter enums.AnimalType) []Row {
	type aggregate struct {
		quantity int
		count    int
	}

	observed := map[rowKey]*aggregate{}
	var keys []rowKey
	for _, record := range inbound {
		if filter != "" && record.AnimalType != string(filter) {
			continue
		}
		key := rowKey{record.Vendor, record.AnimalType, record.Category}
		agg, ok := observed[key]
		if !ok {
			agg = &aggregate{}
			observed[key] = agg
			keys = append(keys, key)
		}
		agg.quantity += record.Quantity
		agg.count++
	}

	dispatched := map[string]int{}
	for _, record := range outbound {
		if filter != "" && record.AnimalType != string(filter) {
			continue
		}
		dispatched[record.AnimalType] += record.Quantity
	}

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		agg := observed[key]
		ordered := 0
		if animal, err := enums.ParseAnimalType(key.animal); err == nil {
			ordered = registry.OrderedQuantity(animal, key.vendor, key.category)
		}
		rows = append(rows, buildRow(key, ordered, agg.quantity, agg.count, dispatched[key.animal]))
	}

	for _, entry := range registry.Entries() {
		if filter != "" && entry.AnimalType != filter {
			continue
		}
		key := rowKey{entry.Vendor, string(entry.AnimalType), entry.Category}
		if _, ok := observed[key]; ok {
			continue
		}
		rows = append(rows, buildRow(key, entry.Quantity, 0, 0, dispatched[key.animal]))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Completion != rows[j].Completion {
			return rows[i].Completion > rows[j].Completion
		}
		if rows[i].Vendor != rows[j].Vendor {
			return rows[i].Vendor < rows[j].Vendor
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

func buildRow(key rowKey, ordered, delivered, count, outbound int) Row {
	remaining := ordered - delivered
	if remaining < 0 {
		remaining = 0
	}
	completion := 0.0
	if ordered > 0 {
		completion = float64(delivered) / float64(ordered) * 100
	}
	return Row{
		Vendor:        key.vendor,
		AnimalType:    key.animal,
		Category:      key.category,
		Ordered:       ordered,
		Delivered:     delivered,
		Outbound:      outbound,
		DeliveryCount: count,
		Remaining:     remaining,
		Completion:    completion,
		Status:        Classify(ordered, delivered, completion),
	}
}
