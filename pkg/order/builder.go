package order

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"restfeed/pkg/core"
	"restfeed/pkg/exchange"
)

// Builder provides a fluent interface for constructing order requests.
// It accumulates validation errors and reports them on Build.
//
// Example:
//
//	req, err := order.NewBuilder("BTC/USD").
//	    Buy().
//	    Limit().
//	    Price("100.5").
//	    Size("0.25").
//	    Build()
type Builder struct {
	req *exchange.OrderRequest
	err error
}

// NewBuilder creates a new order request builder for the given symbol.
func NewBuilder(symbol string) *Builder {
	return &Builder{
		req: &exchange.OrderRequest{
			Symbol:      symbol,
			Type:        core.TypeLimit,
			TimeInForce: core.GTC,
		},
	}
}

// Side sets the order side (buy or sell).
func (b *Builder) Side(side core.OrderSide) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Side = side
	return b
}

// Buy sets the order side to buy.
func (b *Builder) Buy() *Builder {
	return b.Side(core.SideBuy)
}

// Sell sets the order side to sell.
func (b *Builder) Sell() *Builder {
	return b.Side(core.SideSell)
}

// Type sets the order type.
func (b *Builder) Type(orderType core.OrderType) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Type = orderType
	return b
}

// Market sets the order type to market.
func (b *Builder) Market() *Builder {
	return b.Type(core.TypeMarket)
}

// Limit sets the order type to limit.
func (b *Builder) Limit() *Builder {
	return b.Type(core.TypeLimit)
}

// Stop sets the order type to stop.
func (b *Builder) Stop() *Builder {
	return b.Type(core.TypeStop)
}

// Price sets the order price from a string representation.
func (b *Builder) Price(price string) *Builder {
	if b.err != nil {
		return b
	}
	_, _, err := b.req.Price.SetString(price)
	if err != nil {
		b.err = fmt.Errorf("parse price: %w", err)
	}
	return b
}

// PriceDecimal sets the order price from an apd.Decimal value.
func (b *Builder) PriceDecimal(price apd.Decimal) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Price.Set(&price)
	return b
}

// Size sets the order size from a string representation.
func (b *Builder) Size(size string) *Builder {
	if b.err != nil {
		return b
	}
	_, _, err := b.req.Size.SetString(size)
	if err != nil {
		b.err = fmt.Errorf("parse size: %w", err)
	}
	return b
}

// SizeDecimal sets the order size from an apd.Decimal value.
func (b *Builder) SizeDecimal(size apd.Decimal) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Size.Set(&size)
	return b
}

// TimeInForce sets the time-in-force policy for the order.
func (b *Builder) TimeInForce(tif core.TimeInForce) *Builder {
	if b.err != nil {
		return b
	}
	b.req.TimeInForce = tif
	return b
}

// GTC sets the time-in-force to Good-Till-Canceled.
func (b *Builder) GTC() *Builder {
	return b.TimeInForce(core.GTC)
}

// IOC sets the time-in-force to Immediate-Or-Cancel.
func (b *Builder) IOC() *Builder {
	return b.TimeInForce(core.IOC)
}

// FOK sets the time-in-force to Fill-Or-Kill.
func (b *Builder) FOK() *Builder {
	return b.TimeInForce(core.FOK)
}

// ClientOrderID sets a client-assigned identifier for order tracking.
func (b *Builder) ClientOrderID(id string) *Builder {
	if b.err != nil {
		return b
	}
	b.req.ClientOrderID = id
	return b
}

// Build validates and returns the constructed order request.
// Returns an error if any required field is missing or invalid.
func (b *Builder) Build() (*exchange.OrderRequest, error) {
	if b.err != nil {
		return nil, b.err
	}

	if err := validateRequest(b.req); err != nil {
		return nil, err
	}

	return b.req, nil
}

func validateRequest(req *exchange.OrderRequest) error {
	if req.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if req.Size.IsZero() || req.Size.Negative {
		return fmt.Errorf("size must be positive")
	}

	if req.Type == core.TypeLimit || req.Type == core.TypeStop {
		if req.Price.IsZero() || req.Price.Negative {
			return fmt.Errorf("price must be positive for %s orders", req.Type)
		}
	}

	if req.Side != core.SideBuy && req.Side != core.SideSell {
		return fmt.Errorf("invalid order side")
	}

	if req.Type < core.TypeMarket || req.Type > core.TypeStop {
		return fmt.Errorf("invalid order type")
	}

	return nil
}
