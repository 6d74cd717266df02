package domain

// DeliveryStatus is the fulfillment state of an order.
type DeliveryStatus string

const (
	StatusPending    DeliveryStatus = "pending"
	StatusPreparing  DeliveryStatus = "preparing"
	StatusInDelivery DeliveryStatus = "in_delivery"
	StatusDelivered  DeliveryStatus = "delivered"
	StatusCancelled  DeliveryStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusInDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether to is reachable from from in one step.
// The chain is pending → preparing → in_delivery → delivered; cancelled is
// reachable from any non-terminal state.
func CanTransition(from, to DeliveryStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusPreparing
	case StatusPreparing:
		return to == StatusInDelivery
	case StatusInDelivery:
		return to == StatusDelivered
	}
	return false
}
