package enums

// OrderStatus buckets an order's delivery completion for filtering and
// coloring on the dashboard.
type OrderStatus string

const (
	OrderStatusNone         OrderStatus = "none"
	OrderStatusNotStarted   OrderStatus = "not_started"
	OrderStatusLow          OrderStatus = "low"
	OrderStatusPartial      OrderStatus = "partial"
	OrderStatusNearComplete OrderStatus = "near_complete"
	OrderStatusComplete     OrderStatus = "complete"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNone,
	OrderStatusNotStarted,
	OrderStatusLow,
	OrderStatusPartial,
	OrderStatusNearComplete,
	OrderStatusComplete,
}

// IsValid reports whether the value matches a known status bucket.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
