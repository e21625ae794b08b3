package recon

import "github.com/kandangops/kandang-backend/pkg/enums"

// Classify buckets a reconciliation row by its completion rate.
// completion is a percentage in [0, 100+]; bucket lower bounds are
// inclusive.
func Classify(ordered, delivered int, completion float64) enums.OrderStatus {
	switch {
	case ordered == 0:
		return enums.OrderStatusNone
	case delivered == 0:
		return enums.OrderStatusNotStarted
	case completion >= 100:
		return enums.OrderStatusComplete
	case completion >= 80:
		return enums.OrderStatusNearComplete
	case completion >= 50:
		return enums.OrderStatusPartial
	case completion > 0:
		return enums.OrderStatusLow
	}
	return enums.OrderStatusNotStarted
}
