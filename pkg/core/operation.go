package core

// Operation represents a type of action that can be performed on an exchange.
type Operation int

// Operation constants define all supported exchange operations.
const (
	// OpGetFills retrieves the account's trade execution history.
	OpGetFills Operation = iota
	// OpGetOrders retrieves orders, optionally filtered by status and product.
	OpGetOrders
	// OpGetOrder retrieves details of a specific order.
	OpGetOrder
	// OpPlaceOrder submits a new order to the exchange.
	OpPlaceOrder
	// OpCancelOrder cancels an existing order.
	OpCancelOrder
	// OpCancelAllOrders cancels every open order on the account.
	OpCancelAllOrders
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"GET_FILLS",
		"GET_ORDERS",
		"GET_ORDER",
		"PLACE_ORDER",
		"CANCEL_ORDER",
		"CANCEL_ALL_ORDERS",
	}[o]
}

// Mutates returns true for operations that change account state. Exchanges
// commonly hold these to a stricter rate limit than read-only calls.
func (o Operation) Mutates() bool {
	return o == OpPlaceOrder || o == OpCancelOrder || o == OpCancelAllOrders
}
