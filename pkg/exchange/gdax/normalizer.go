package gdax

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"restfeed/pkg/core"
	"restfeed/pkg/exchange"
)

// createdAtLayout is the fixed fractional-seconds format the exchange uses
// for record timestamps, e.g. "2014-11-07T22:19:28.578544Z". A payload that
// does not match it exactly is treated as malformed.
const createdAtLayout = "2006-01-02T15:04:05.000000Z"

// gdaxRecord is the raw payload shape shared by the fills and orders
// endpoints. The two variants overlap: a fill carries order_id, trade_id,
// liquidity, and fee; an order carries id, type, and execution progress.
// Presence of order_id versus id+type discriminates them.
type gdaxRecord struct {
	TradeID   int64  `json:"trade_id"`
	ProductID string `json:"product_id"`
	Price     string `json:"price"`
	Size      string `json:"size"`
	OrderID   string `json:"order_id"`
	CreatedAt string `json:"created_at"`
	Liquidity string `json:"liquidity"`
	Fee       string `json:"fee"`
	Settled   bool   `json:"settled"`
	Side      string `json:"side"`

	ID            string `json:"id"`
	Type          string `json:"type"`
	FillFees      string `json:"fill_fees"`
	FilledSize    string `json:"filled_size"`
	ExecutedValue string `json:"executed_value"`
	Status        string `json:"status"`
}

// rawOrderRequest is the wire shape for order placement. Field order matters:
// the marshaled bytes are signed and transmitted as-is.
type rawOrderRequest struct {
	ProductID   string `json:"product_id"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	Price       string `json:"price,omitempty"`
	Size        string `json:"size"`
	TimeInForce string `json:"time_in_force,omitempty"`
	ClientOID   string `json:"client_oid,omitempty"`
}

// Normalizer converts exchange-specific payloads to canonical core types.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeRecord converts a raw record into the matching Record variant.
// A record with order_id is a fill; one with id and type is an order;
// anything else is a malformed payload.
func (n *Normalizer) NormalizeRecord(data *gdaxRecord) (*core.Record, error) {
	switch {
	case data.OrderID != "":
		fill, err := n.normalizeFill(data)
		if err != nil {
			return nil, err
		}
		rec := core.FillRecord(fill)
		return &rec, nil
	case data.ID != "" && data.Type != "":
		order, err := n.normalizeOrder(data)
		if err != nil {
			return nil, err
		}
		rec := core.OrderRecord(order)
		return &rec, nil
	default:
		return nil, invalidResponse("record is neither fill nor order shaped")
	}
}

func (n *Normalizer) normalizeFill(data *gdaxRecord) (*core.Fill, error) {
	side, err := parseSide(data.Side)
	if err != nil {
		return nil, err
	}

	ts, err := parseCreatedAt(data.CreatedAt)
	if err != nil {
		return nil, err
	}

	fill := &core.Fill{
		ID:        data.OrderID,
		Pair:      data.ProductID,
		Feed:      FeedID,
		Side:      side,
		Timestamp: ts,
	}

	if err := parseDecimal(&fill.Amount, data.Size); err != nil {
		return nil, invalidResponse("parse size: %v", err)
	}
	if err := parseDecimal(&fill.Price, data.Price); err != nil {
		return nil, invalidResponse("parse price: %v", err)
	}

	return fill, nil
}

func (n *Normalizer) normalizeOrder(data *gdaxRecord) (*core.Order, error) {
	side, err := parseSide(data.Side)
	if err != nil {
		return nil, err
	}

	orderType, err := parseOrderType(data.Type)
	if err != nil {
		return nil, err
	}

	status, err := parseOrderStatus(data.Status)
	if err != nil {
		return nil, err
	}

	ts, err := parseCreatedAt(data.CreatedAt)
	if err != nil {
		return nil, err
	}

	order := &core.Order{
		ID:        data.ID,
		Pair:      data.ProductID,
		Feed:      FeedID,
		Side:      side,
		Type:      orderType,
		Status:    status,
		Settled:   data.Settled,
		Timestamp: ts,
	}

	if err := parseDecimal(&order.Amount, data.Size); err != nil {
		return nil, invalidResponse("parse size: %v", err)
	}
	if err := parseDecimal(&order.Price, data.Price); err != nil {
		return nil, invalidResponse("parse price: %v", err)
	}
	if err := parseDecimal(&order.FillFees, data.FillFees); err != nil {
		return nil, invalidResponse("parse fill_fees: %v", err)
	}
	if err := parseDecimal(&order.FilledSize, data.FilledSize); err != nil {
		return nil, invalidResponse("parse filled_size: %v", err)
	}
	if err := parseDecimal(&order.ExecutedValue, data.ExecutedValue); err != nil {
		return nil, invalidResponse("parse executed_value: %v", err)
	}

	return order, nil
}

// DenormalizeOrder converts an order request into the exchange wire shape.
// The product id must already be in exchange-native format.
func (n *Normalizer) DenormalizeOrder(req *exchange.OrderRequest, productID string) *rawOrderRequest {
	raw := &rawOrderRequest{
		ProductID: productID,
		Side:      formatSide(req.Side),
		Type:      formatOrderType(req.Type),
		Size:      req.Size.String(),
	}

	if !req.Price.IsZero() {
		raw.Price = req.Price.String()
	}

	if req.TimeInForce != core.GTC && req.Type == core.TypeLimit {
		raw.TimeInForce = req.TimeInForce.String()
	}

	if req.ClientOrderID != "" {
		raw.ClientOID = req.ClientOrderID
	}

	return raw
}

func invalidResponse(format string, args ...any) *core.ExchangeError {
	return core.NewExchangeErrorWithCode(exchangeName, core.ErrorTypeInvalidResponse, 0,
		string(core.ErrCodeInvalidResponse), fmt.Sprintf(format, args...))
}

func parseDecimal(dest *apd.Decimal, s string) error {
	if s == "" {
		*dest = apd.Decimal{}
		return nil
	}

	_, _, err := apd.BaseContext.SetString(dest, s)
	if err != nil {
		return fmt.Errorf("set decimal from string: %w", err)
	}

	return nil
}

func parseCreatedAt(s string) (time.Time, error) {
	ts, err := time.Parse(createdAtLayout, s)
	if err != nil {
		return time.Time{}, invalidResponse("parse created_at %q: %v", s, err)
	}
	return ts, nil
}

func parseSide(s string) (core.OrderSide, error) {
	switch s {
	case "buy":
		return core.SideBuy, nil
	case "sell":
		return core.SideSell, nil
	default:
		return core.SideBuy, invalidResponse("unknown side %q", s)
	}
}

func parseOrderType(s string) (core.OrderType, error) {
	switch s {
	case "market":
		return core.TypeMarket, nil
	case "limit":
		return core.TypeLimit, nil
	case "stop":
		return core.TypeStop, nil
	default:
		return core.TypeMarket, invalidResponse("unknown order type %q", s)
	}
}

func parseOrderStatus(s string) (core.OrderStatus, error) {
	switch s {
	case "open":
		return core.StatusOpen, nil
	case "pending":
		return core.StatusPending, nil
	case "active":
		return core.StatusActive, nil
	case "done":
		return core.StatusDone, nil
	case "canceled":
		return core.StatusCanceled, nil
	case "rejected":
		return core.StatusRejected, nil
	default:
		return core.StatusOpen, invalidResponse("unknown order status %q", s)
	}
}

func formatSide(s core.OrderSide) string {
	return strings.ToLower(s.String())
}

func formatOrderType(t core.OrderType) string {
	return strings.ToLower(t.String())
}

func formatStatus(s core.OrderStatus) string {
	return strings.ToLower(s.String())
}
