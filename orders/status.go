package orders

import "dukaan/models"

// transitions is the status graph, one adjacency set per state. Every
// transition request is checked against this table; there are no ad hoc
// status comparisons anywhere else.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:    {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:  {models.StatusProcessing, models.StatusShipped, models.StatusCancelled},
	models.StatusProcessing: {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:    {models.StatusDelivered},
	models.StatusDelivered:  {},
	models.StatusCancelled:  {},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the edge from -> to exists in the graph.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
