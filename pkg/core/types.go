package core

import (
	"time"

	"github.com/cockroachdb/apd/v3"
)

// OrderSide represents the direction of an order (buy or sell).
type OrderSide int

// Order side constants define the direction of a trade.
const (
	// SideBuy indicates an order to purchase an asset.
	SideBuy OrderSide = iota
	// SideSell indicates an order to sell an asset.
	SideSell
)

// String returns the string representation of the order side ("BUY" or "SELL").
func (s OrderSide) String() string {
	return [...]string{"BUY", "SELL"}[s]
}

// MarshalJSON implements json.Marshaler for OrderSide.
func (s OrderSide) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderSide.
// It accepts both uppercase and lowercase formats.
func (s *OrderSide) UnmarshalJSON(data []byte) error {
	str := string(data)
	switch str {
	case `"BUY"`, `"buy"`:
		*s = SideBuy
	case `"SELL"`, `"sell"`:
		*s = SideSell
	}
	return nil
}

// OrderType represents the type of order to place on an exchange.
type OrderType int

// Order type constants define how an order is executed.
const (
	// TypeMarket executes immediately at the best available price.
	TypeMarket OrderType = iota
	// TypeLimit executes at a specified price or better.
	TypeLimit
	// TypeStop triggers a market order when price reaches the stop price.
	TypeStop
)

// String returns the string representation of the order type.
func (t OrderType) String() string {
	return [...]string{"MARKET", "LIMIT", "STOP"}[t]
}

// MarshalJSON implements json.Marshaler for OrderType.
func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderType.
// It accepts both uppercase and lowercase formats.
func (t *OrderType) UnmarshalJSON(data []byte) error {
	str := string(data)
	switch str {
	case `"MARKET"`, `"market"`:
		*t = TypeMarket
	case `"LIMIT"`, `"limit"`:
		*t = TypeLimit
	case `"STOP"`, `"stop"`:
		*t = TypeStop
	}
	return nil
}

// OrderStatus represents the current state of an order.
type OrderStatus int

// Order status constants define the lifecycle state of an order.
const (
	// StatusOpen indicates the order is resting on the book.
	StatusOpen OrderStatus = iota
	// StatusPending indicates the order has been received but not yet booked.
	StatusPending
	// StatusActive indicates a stop order waiting for its trigger price.
	StatusActive
	// StatusDone indicates the order has finished executing.
	StatusDone
	// StatusCanceled indicates the order has been canceled.
	StatusCanceled
	// StatusRejected indicates the order was rejected by the exchange.
	StatusRejected
)

// String returns the string representation of the order status.
func (s OrderStatus) String() string {
	return [...]string{"OPEN", "PENDING", "ACTIVE", "DONE", "CANCELED", "REJECTED"}[s]
}

// IsTerminal returns true if the order is in a terminal state (no further changes possible).
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled || s == StatusRejected
}

// MarshalJSON implements json.Marshaler for OrderStatus.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderStatus.
// It accepts both uppercase and lowercase formats.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	str := string(data)
	switch str {
	case `"OPEN"`, `"open"`:
		*s = StatusOpen
	case `"PENDING"`, `"pending"`:
		*s = StatusPending
	case `"ACTIVE"`, `"active"`:
		*s = StatusActive
	case `"DONE"`, `"done"`:
		*s = StatusDone
	case `"CANCELED"`, `"canceled"`:
		*s = StatusCanceled
	case `"REJECTED"`, `"rejected"`:
		*s = StatusRejected
	}
	return nil
}

// TimeInForce defines how long an order remains active.
type TimeInForce int

// Time in force constants define order lifetime behavior.
const (
	// GTC (Good Till Canceled) keeps the order active until filled or canceled.
	GTC TimeInForce = iota
	// IOC (Immediate Or Cancel) requires immediate execution; unfilled portion is canceled.
	IOC
	// FOK (Fill Or Kill) requires complete immediate execution or cancellation.
	FOK
)

// String returns the string representation of time in force.
func (t TimeInForce) String() string {
	return [...]string{"GTC", "IOC", "FOK"}[t]
}

// MarshalJSON implements json.Marshaler for TimeInForce.
func (t TimeInForce) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for TimeInForce.
// It accepts both uppercase and lowercase formats.
func (t *TimeInForce) UnmarshalJSON(data []byte) error {
	str := string(data)
	switch str {
	case `"GTC"`, `"gtc"`:
		*t = GTC
	case `"IOC"`, `"ioc"`:
		*t = IOC
	case `"FOK"`, `"fok"`:
		*t = FOK
	}
	return nil
}

// RecordKind discriminates the two payload shapes an exchange returns for
// trade history and order endpoints.
type RecordKind int

// Record kind constants identify which variant of a Record is populated.
const (
	// KindFill is an execution record: one match on the book.
	KindFill RecordKind = iota
	// KindOrder is an order record: the full lifecycle state of one order.
	KindOrder
)

// String returns the string representation of the record kind.
func (k RecordKind) String() string {
	return [...]string{"FILL", "ORDER"}[k]
}

// MarshalJSON implements json.Marshaler for RecordKind.
func (k RecordKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Fill represents a single execution normalized from an exchange payload.
// Pair remains in the exchange-native format; translation to a standard
// symbology is the caller's concern.
type Fill struct {
	// ID is the identifier of the order this execution belongs to.
	ID string `json:"id"`
	// Pair is the exchange-native trading pair (e.g. "BTC-USD").
	Pair string `json:"pair"`
	// Feed identifies the exchange that produced this record.
	Feed string `json:"feed"`
	// Side indicates whether the filled order was a buy or sell.
	Side OrderSide `json:"side"`
	// Amount is the quantity executed.
	Amount apd.Decimal `json:"amount"`
	// Price is the execution price.
	Price apd.Decimal `json:"price"`
	// Timestamp is when the execution occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Order represents an order's lifecycle state normalized from an exchange payload.
// It carries the same identity fields as a Fill plus execution progress.
type Order struct {
	// ID is the exchange-assigned order identifier.
	ID string `json:"id"`
	// Pair is the exchange-native trading pair (e.g. "BTC-USD").
	Pair string `json:"pair"`
	// Feed identifies the exchange that produced this record.
	Feed string `json:"feed"`
	// Side indicates whether this is a buy or sell order.
	Side OrderSide `json:"side"`
	// Type defines how the order executes (market, limit, stop).
	Type OrderType `json:"type"`
	// Amount is the total order quantity.
	Amount apd.Decimal `json:"amount"`
	// Price is the limit price for limit orders.
	Price apd.Decimal `json:"price"`
	// FillFees is the total fees charged across this order's executions.
	FillFees apd.Decimal `json:"fill_fees"`
	// FilledSize is the quantity executed so far.
	FilledSize apd.Decimal `json:"filled_size"`
	// ExecutedValue is the quote-currency value executed so far.
	ExecutedValue apd.Decimal `json:"executed_value"`
	// Status is the current state of the order.
	Status OrderStatus `json:"status"`
	// Settled indicates whether all funds have cleared.
	Settled bool `json:"settled"`
	// Timestamp is when the order was created.
	Timestamp time.Time `json:"timestamp"`
}

// Record is a tagged union over the two normalized payload shapes.
// Exactly one of Fill or Order is non-nil, selected by Kind.
type Record struct {
	// Kind identifies which variant is populated.
	Kind RecordKind `json:"kind"`
	// Fill is populated when Kind is KindFill.
	Fill *Fill `json:"fill,omitempty"`
	// Order is populated when Kind is KindOrder.
	Order *Order `json:"order,omitempty"`
}

// FillRecord wraps a Fill in a Record.
func FillRecord(f *Fill) Record {
	return Record{Kind: KindFill, Fill: f}
}

// OrderRecord wraps an Order in a Record.
func OrderRecord(o *Order) Record {
	return Record{Kind: KindOrder, Order: o}
}
