package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restfeed/pkg/core"
)

type mockExchange struct {
	name   string
	closed bool
}

func (m *mockExchange) Name() string { return m.name }
func (m *mockExchange) Close() error {
	m.closed = true
	return nil
}
func (m *mockExchange) Fills(ctx context.Context, opts ...Option) ([]core.Record, error) {
	return nil, nil
}
func (m *mockExchange) Orders(ctx context.Context, opts ...Option) ([]core.Record, error) {
	return nil, nil
}
func (m *mockExchange) Order(ctx context.Context, orderID string, opts ...Option) (*core.Record, error) {
	return nil, nil
}
func (m *mockExchange) PlaceOrder(ctx context.Context, req *OrderRequest, opts ...Option) (*core.Record, error) {
	return nil, nil
}
func (m *mockExchange) ExecuteTrades(ctx context.Context, reqs []*OrderRequest, opts ...Option) ([]core.Record, error) {
	return nil, nil
}
func (m *mockExchange) CancelOrder(ctx context.Context, orderID string, opts ...Option) error {
	return nil
}
func (m *mockExchange) CancelAllOrders(ctx context.Context, opts ...Option) error {
	return nil
}

var _ Exchange = (*mockExchange)(nil)

func TestContainer_NewContainer(t *testing.T) {
	c := NewContainer()
	assert.NotNil(t, c)
	assert.NotNil(t, c.exchanges)
}

func TestContainer_Register(t *testing.T) {
	c := NewContainer()
	ex := &mockExchange{name: "gdax"}

	c.Register(ex)

	assert.True(t, c.Exists("gdax"))
}

func TestContainer_Get(t *testing.T) {
	c := NewContainer()
	ex := &mockExchange{name: "gdax"}
	c.Register(ex)

	got, err := c.Get("gdax")
	require.NoError(t, err)
	assert.Equal(t, "gdax", got.Name())

	_, err = c.Get("notfound")
	assert.Error(t, err)
}

func TestContainer_Names(t *testing.T) {
	c := NewContainer()
	c.Register(&mockExchange{name: "gdax"})
	c.Register(&mockExchange{name: "gdax-sandbox"})

	names := c.Names()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "gdax")
	assert.Contains(t, names, "gdax-sandbox")
}

func TestContainer_Unregister(t *testing.T) {
	c := NewContainer()
	c.Register(&mockExchange{name: "gdax"})

	c.Unregister("gdax")

	assert.False(t, c.Exists("gdax"))
}

func TestContainer_Close(t *testing.T) {
	c := NewContainer()
	a := &mockExchange{name: "a"}
	b := &mockExchange{name: "b"}
	c.Register(a)
	c.Register(b)

	err := c.Close()

	assert.NoError(t, err)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.Empty(t, c.Names())
}

func TestApplyOptions(t *testing.T) {
	t.Run("nil defaults", func(t *testing.T) {
		opts := ApplyOptions(nil)
		assert.Equal(t, "", opts.Symbol)
		assert.Equal(t, 0, opts.Retry)
	})

	t.Run("defaults are copied", func(t *testing.T) {
		defaults := &Options{Retry: 3, RetryWait: 10 * time.Second}
		opts := ApplyOptions(defaults)
		assert.Equal(t, 3, opts.Retry)
		assert.Equal(t, 10*time.Second, opts.RetryWait)
	})

	t.Run("explicit zero overrides default", func(t *testing.T) {
		defaults := &Options{Retry: 3}
		opts := ApplyOptions(defaults, WithRetry(0))
		assert.Equal(t, 0, opts.Retry)
	})

	t.Run("with all options", func(t *testing.T) {
		start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2018, 2, 1, 0, 0, 0, 0, time.UTC)
		opts := ApplyOptions(nil,
			WithSymbol("BTC/USD"),
			WithStatuses(core.StatusOpen, core.StatusPending),
			WithTimeRange(start, end),
			WithRetry(5),
			WithRetryWait(2*time.Second),
		)
		assert.Equal(t, "BTC/USD", opts.Symbol)
		assert.Equal(t, []core.OrderStatus{core.StatusOpen, core.StatusPending}, opts.Statuses)
		assert.Equal(t, start, opts.StartTime)
		assert.Equal(t, end, opts.EndTime)
		assert.Equal(t, 5, opts.Retry)
		assert.Equal(t, 2*time.Second, opts.RetryWait)
	})

	t.Run("unlimited retry", func(t *testing.T) {
		opts := ApplyOptions(nil, WithUnlimitedRetry())
		assert.Equal(t, core.RetryUnlimited, opts.Retry)
	})
}

func TestOrderRequest(t *testing.T) {
	var price, size apd.Decimal
	price.SetString("100.00")
	size.SetString("0.01")

	req := &OrderRequest{
		Symbol:      "BTC/USD",
		Side:        core.SideBuy,
		Type:        core.TypeLimit,
		Price:       price,
		Size:        size,
		TimeInForce: core.GTC,
	}
	assert.Equal(t, "BTC/USD", req.Symbol)
	assert.Equal(t, core.SideBuy, req.Side)
	assert.Equal(t, core.TypeLimit, req.Type)
}
