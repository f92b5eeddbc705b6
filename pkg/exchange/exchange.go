package exchange

import (
	"context"

	"github.com/cockroachdb/apd/v3"

	"restfeed/pkg/core"
)

// Exchange defines the unified interface for the authenticated REST surface
// of a cryptocurrency exchange: trade execution history, order listing and
// lookup, order placement, and cancellation.
type Exchange interface {
	Name() string
	Close() error

	// Fills returns the account's trade executions, optionally filtered by
	// symbol and, client-side, by an inclusive creation time range.
	Fills(ctx context.Context, opts ...Option) ([]core.Record, error)
	// Orders returns the account's orders, optionally filtered by status
	// and symbol.
	Orders(ctx context.Context, opts ...Option) ([]core.Record, error)
	// Order returns a single order by exchange-assigned id.
	Order(ctx context.Context, orderID string, opts ...Option) (*core.Record, error)

	// PlaceOrder submits one order and returns the exchange's view of it.
	PlaceOrder(ctx context.Context, req *OrderRequest, opts ...Option) (*core.Record, error)
	// ExecuteTrades submits orders sequentially, aborting on the first failure.
	ExecuteTrades(ctx context.Context, reqs []*OrderRequest, opts ...Option) ([]core.Record, error)
	// CancelOrder cancels a single order by exchange-assigned id.
	CancelOrder(ctx context.Context, orderID string, opts ...Option) error
	// CancelAllOrders cancels every open order on the account.
	CancelAllOrders(ctx context.Context, opts ...Option) error
}

// OrderRequest contains the parameters required to place a new order on an exchange.
type OrderRequest struct {
	Symbol        string
	Side          core.OrderSide
	Type          core.OrderType
	Price         apd.Decimal
	Size          apd.Decimal
	TimeInForce   core.TimeInForce
	ClientOrderID string
}

// Translator converts trading pair symbols between the caller's standard
// format and the exchange-native format. The surrounding application chooses
// the standard; exchanges only see their native spelling.
type Translator interface {
	// ToExchange converts a standard symbol to the exchange-native format.
	ToExchange(symbol string) string
	// ToStandard converts an exchange-native symbol to the standard format.
	ToStandard(symbol string) string
}
