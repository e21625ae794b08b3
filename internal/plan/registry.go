package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/kandangops/kandang-backend/pkg/enums"
)

// Order is one planned line: a category label and the quantity expected
// from each vendor.
type Order struct {
	Category string         `json:"category"`
	Vendors  map[string]int `json:"vendors"`
}

// Registry holds the static order plan: expected quantities per
// (animal type, vendor, category). It is immutable once loaded.
type Registry struct {
	orders map[enums.AnimalType][]Order
}

// Load reads the order plan file and validates it. The file maps plan
// animal keys to order lists:
//
//	{"Goat": [{"category": "Standard", "vendors": {"Pak Budi": 50}}], "Cattle": []}
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading order plan: %w", err)
	}
	return Parse(raw)
}

// Parse builds a registry from raw JSON plan data.
func Parse(raw []byte) (*Registry, error) {
	var byKey map[string][]Order
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, fmt.Errorf("parsing order plan: %w", err)
	}

	orders := make(map[enums.AnimalType][]Order, len(byKey))
	var errs error
	for key, planned := range byKey {
		animal, ok := enums.AnimalTypeForPlanKey(key)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("unknown animal key %q", key))
			continue
		}
		for _, order := range planned {
			if strings.TrimSpace(order.Category) == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s: order with empty category", key))
			}
			for vendor, qty := range order.Vendors {
				if qty < 0 {
					errs = multierr.Append(errs, fmt.Errorf("%s/%s: negative quantity for vendor %q", key, order.Category, vendor))
				}
			}
		}
		orders[animal] = planned
	}
	if errs != nil {
		return nil, fmt.Errorf("invalid order plan: %w", errs)
	}

	return &Registry{orders: orders}, nil
}

// OrderedQuantity returns the planned quantity for the given vendor and
// observed category. The configured category label matches by prefix:
// observed labels may carry free-text suffixes such as weight
// annotations. Unknown keys yield 0, never an error.
func (r *Registry) OrderedQuantity(animal enums.AnimalType, vendor, category string) int {
	if r == nil {
		return 0
	}
	for _, order := range r.orders[animal] {
		if !strings.HasPrefix(category, order.Category) {
			continue
		}
		if qty, ok := order.Vendors[vendor]; ok {
			return qty
		}
	}
	return 0
}

// Entry is one flattened plan line used for synthesizing undelivered
// orders.
type Entry struct {
	AnimalType enums.AnimalType
	Category   string
	Vendor     string
	Quantity   int
}

// Entries flattens the plan into deterministic order. Vendors with empty
// names or zero quantity are excluded: they never synthesize rows.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	var entries []Entry
	for _, animal := range enums.AnimalTypes() {
		for _, order := range r.orders[animal] {
			vendors := make([]string, 0, len(order.Vendors))
			for vendor := range order.Vendors {
				vendors = append(vendors, vendor)
			}
			sort.Strings(vendors)
			for _, vendor := range vendors {
				qty := order.Vendors[vendor]
				if vendor == "" || qty <= 0 {
					continue
				}
				entries = append(entries, Entry{
					AnimalType: animal,
					Category:   order.Category,
					Vendor:     vendor,
					Quantity:   qty,
				})
			}
		}
	}
	return entries
}

// Vendors lists the configured vendor names for an animal type.
func (r *Registry) Vendors(animal enums.AnimalType) []string {
	if r == nil {
		return nil
	}
	seen := map[string]bool{}
	var vendors []string
	for _, order := range r.orders[animal] {
		for vendor := range order.Vendors {
			if vendor == "" || seen[vendor] {
				continue
			}
			seen[vendor] = true
			vendors = append(vendors, vendor)
		}
	}
	sort.Strings(vendors)
	return vendors
}

// Categories lists the configured category labels for an animal type.
func (r *Registry) Categories(animal enums.AnimalType) []string {
	if r == nil {
		return nil
	}
	categories := make([]string, 0, len(r.orders[animal]))
	for _, order := range r.orders[animal] {
		categories = append(categories, order.Category)
	}
	return categories
}
