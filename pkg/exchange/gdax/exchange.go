package gdax

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	httpClient "restfeed/internal/http"
	"restfeed/internal/ratelimit"
	"restfeed/pkg/core"
	"restfeed/pkg/exchange"
)

const (
	exchangeName = "gdax"

	// FeedID tags normalized records with the exchange they came from.
	FeedID = "GDAX"
)

// GDAXExchange implements the exchange.Exchange interface for the GDAX
// (Coinbase Pro) REST API. All operations require credentials: the exchange
// exposes no unauthenticated REST surface worth wrapping.
type GDAXExchange struct {
	config      *core.Config
	protocol    *Protocol
	normalizer  *Normalizer
	translator  exchange.Translator
	httpClient  *httpClient.Client
	rateLimiter *ratelimit.RateLimiter
	logger      zerolog.Logger
	now         func() time.Time
}

var _ exchange.Exchange = (*GDAXExchange)(nil)

// Options configures optional exchange behavior.
type Options struct {
	Logger     zerolog.Logger
	Translator exchange.Translator
	Clock      func() time.Time
	BaseURL    string
}

// Option is a functional option for configuring the exchange.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithBaseURL overrides the API base URL. Useful for proxies and tests;
// when unset the production or sandbox URL is chosen from the config.
func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.BaseURL = baseURL
	}
}

// WithTranslator sets a custom symbol translator.
func WithTranslator(translator exchange.Translator) Option {
	return func(o *Options) {
		o.Translator = translator
	}
}

// WithClock sets the time source used for signing timestamps. Tests use this
// to make signatures deterministic.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

// New creates a new GDAX exchange client.
func New(config *core.Config, options ...Option) (*GDAXExchange, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if config.Credentials == nil || config.Credentials.APIKey == "" ||
		config.Credentials.SecretKey == "" || config.Credentials.Passphrase == "" {
		return nil, core.ErrNoCredentials
	}

	opts := &Options{
		Logger:     zerolog.Nop(),
		Translator: defaultTranslator{},
		Clock:      time.Now,
	}
	for _, opt := range options {
		opt(opts)
	}

	logger := opts.Logger.With().Str("exchange", exchangeName).Logger()
	if config.LogLevel != "" {
		if level, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			logger = logger.Level(level)
		}
	}

	protocol := NewProtocol()

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = protocol.BaseURL(config.Sandbox)
	}

	client, err := httpClient.NewClient(&httpClient.Config{
		BaseURL: baseURL,
		Timeout: config.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	// The configured global limit can be tuned per deployment; the stricter
	// order lane always follows the exchange's published limit.
	limits := protocol.RateLimits()
	limiter := ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod, limits.Burst)
	limiter.SetOrdersLimit(limits.OrdersPerSecond, time.Second, limits.Burst)

	return &GDAXExchange{
		config:      config,
		protocol:    protocol,
		normalizer:  NewNormalizer(),
		translator:  opts.Translator,
		httpClient:  client,
		rateLimiter: limiter,
		logger:      logger,
		now:         opts.Clock,
	}, nil
}

// Register creates a GDAX exchange from config and adds it to the container.
func Register(container *exchange.Container, config *core.Config, options ...Option) error {
	ex, err := New(config, options...)
	if err != nil {
		return fmt.Errorf("create gdax exchange: %w", err)
	}
	container.Register(ex)
	return nil
}

// Name returns the exchange identifier.
func (e *GDAXExchange) Name() string {
	return exchangeName
}

// Close releases the underlying HTTP client.
func (e *GDAXExchange) Close() error {
	return e.httpClient.Close()
}

// Fills returns executed trades for the authenticated account, normalized to
// fill records. An empty result is logged but is not an error. When both ends
// of a time range are set, records outside the inclusive window are dropped
// client side; the endpoint itself has no time filter.
func (e *GDAXExchange) Fills(ctx context.Context, opts ...exchange.Option) ([]core.Record, error) {
	options := e.callOptions(opts...)

	params := core.Params{}
	if options.Symbol != "" {
		params["product_id"] = e.translator.ToExchange(options.Symbol)
	}

	resp, err := e.do(ctx, core.OpGetFills, params, options)
	if err != nil {
		return nil, err
	}

	result, err := e.protocol.ParseResponse(core.OpGetFills, resp)
	if err != nil {
		return nil, fmt.Errorf("parse fills response: %w", err)
	}

	records, ok := result.([]core.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected response type for fills")
	}

	if len(records) == 0 {
		e.logger.Warn().Str("symbol", options.Symbol).Msg("no data")
		return records, nil
	}

	return filterByTimeRange(records, options.StartTime, options.EndTime), nil
}

// Orders returns orders for the authenticated account, normalized to order
// records. Requested statuses are passed through as repeated query
// parameters in the order given.
func (e *GDAXExchange) Orders(ctx context.Context, opts ...exchange.Option) ([]core.Record, error) {
	options := e.callOptions(opts...)

	params := core.Params{}
	if len(options.Statuses) > 0 {
		statuses := make([]string, 0, len(options.Statuses))
		for _, status := range options.Statuses {
			statuses = append(statuses, formatStatus(status))
		}
		params["status"] = statuses
	}
	if options.Symbol != "" {
		params["product_id"] = e.translator.ToExchange(options.Symbol)
	}

	resp, err := e.do(ctx, core.OpGetOrders, params, options)
	if err != nil {
		return nil, err
	}

	result, err := e.protocol.ParseResponse(core.OpGetOrders, resp)
	if err != nil {
		return nil, fmt.Errorf("parse orders response: %w", err)
	}

	records, ok := result.([]core.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected response type for orders")
	}

	return records, nil
}

// Order returns a single order by exchange order id.
func (e *GDAXExchange) Order(ctx context.Context, orderID string, opts ...exchange.Option) (*core.Record, error) {
	options := e.callOptions(opts...)

	resp, err := e.do(ctx, core.OpGetOrder, core.Params{"order_id": orderID}, options)
	if err != nil {
		return nil, err
	}

	result, err := e.protocol.ParseResponse(core.OpGetOrder, resp)
	if err != nil {
		return nil, fmt.Errorf("parse order response: %w", err)
	}

	record, ok := result.(*core.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected response type for order")
	}

	return record, nil
}

// PlaceOrder submits a new order and returns the normalized order record the
// exchange acknowledges with. The order payload is serialized exactly once;
// the signature covers the same bytes that are transmitted.
func (e *GDAXExchange) PlaceOrder(ctx context.Context, req *exchange.OrderRequest, opts ...exchange.Option) (*core.Record, error) {
	if req == nil {
		return nil, fmt.Errorf("order request is required")
	}

	options := e.callOptions(opts...)

	productID := e.translator.ToExchange(req.Symbol)
	raw := e.normalizer.DenormalizeOrder(req, productID)

	resp, err := e.do(ctx, core.OpPlaceOrder, core.Params{"order": raw}, options)
	if err != nil {
		return nil, err
	}

	result, err := e.protocol.ParseResponse(core.OpPlaceOrder, resp)
	if err != nil {
		return nil, fmt.Errorf("parse place order response: %w", err)
	}

	record, ok := result.(*core.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected response type for place order")
	}

	return record, nil
}

// ExecuteTrades submits a batch of orders sequentially. The first failure
// aborts the batch and no partial results are returned; orders already
// accepted by the exchange remain live.
func (e *GDAXExchange) ExecuteTrades(ctx context.Context, reqs []*exchange.OrderRequest, opts ...exchange.Option) ([]core.Record, error) {
	records := make([]core.Record, 0, len(reqs))
	for _, req := range reqs {
		record, err := e.PlaceOrder(ctx, req, opts...)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// CancelOrder cancels a single order by exchange order id.
func (e *GDAXExchange) CancelOrder(ctx context.Context, orderID string, opts ...exchange.Option) error {
	options := e.callOptions(opts...)

	resp, err := e.do(ctx, core.OpCancelOrder, core.Params{"order_id": orderID}, options)
	if err != nil {
		return err
	}

	_, err = e.protocol.ParseResponse(core.OpCancelOrder, resp)
	return err
}

// CancelAllOrders cancels every open order on the account.
func (e *GDAXExchange) CancelAllOrders(ctx context.Context, opts ...exchange.Option) error {
	options := e.callOptions(opts...)

	resp, err := e.do(ctx, core.OpCancelAllOrders, core.Params{}, options)
	if err != nil {
		return err
	}

	_, err = e.protocol.ParseResponse(core.OpCancelAllOrders, resp)
	return err
}

// callOptions merges per-call options over the configured defaults.
func (e *GDAXExchange) callOptions(opts ...exchange.Option) *exchange.Options {
	return exchange.ApplyOptions(&exchange.Options{
		Retry:     e.config.MaxRetries,
		RetryWait: e.config.RetryWait,
	}, opts...)
}

// do runs one operation against the exchange. Only transport failures are
// retried; any HTTP status is a final answer. Each attempt is signed fresh
// because the signature binds the timestamp.
func (e *GDAXExchange) do(ctx context.Context, op core.Operation, params core.Params, options *exchange.Options) (*resty.Response, error) {
	req, err := e.protocol.BuildRequest(ctx, op, params)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	switch req.Method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return nil, core.NewExchangeErrorWithCode(e.Name(), core.ErrorTypeBadRequest, 0,
			string(core.ErrCodeUnsupported), fmt.Sprintf("unsupported method: %s", req.Method))
	}

	retries := options.Retry
	wait := options.RetryWait
	endpoint := req.Endpoint()

	for {
		if err := e.waitRateLimit(ctx, op); err != nil {
			return nil, err
		}

		if err := e.protocol.SignRequest(req, *e.config.Credentials, e.now()); err != nil {
			return nil, err
		}

		resp, err := e.send(ctx, req)
		if err == nil {
			if resp.StatusCode() != http.StatusOK {
				return nil, e.classifyResponse(resp)
			}
			return resp, nil
		}

		if errors.Is(err, httpClient.ErrClosed) {
			return nil, core.NewExchangeErrorWithCode(e.Name(), core.ErrorTypeUnknown, 0,
				string(core.ErrCodeClientClosed), core.ErrClientClosed.Error())
		}

		exchErr := e.classifyTransport(err)
		if exchErr.Type == core.ErrorTypeTimeout {
			e.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("request timed out")
		} else {
			e.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("connection error")
		}

		if ctx.Err() != nil || retries == 0 {
			return nil, exchErr
		}
		if retries > 0 {
			retries--
		}

		e.logger.Info().Str("endpoint", endpoint).Dur("wait", wait).Msg("retrying request")
		if err := sleepContext(ctx, wait); err != nil {
			return nil, exchErr
		}
	}
}

func (e *GDAXExchange) waitRateLimit(ctx context.Context, op core.Operation) error {
	if op.Mutates() {
		if err := e.rateLimiter.WaitOrders(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		return nil
	}
	if err := e.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// send performs exactly one HTTP attempt. The signed headers and, for
// placement, the exact signed body bytes go on the wire unchanged.
func (e *GDAXExchange) send(ctx context.Context, req *core.Request) (*resty.Response, error) {
	endpoint := req.Endpoint()
	opts := []httpClient.RequestOption{httpClient.WithHeaders(req.Headers)}

	switch req.Method {
	case http.MethodGet:
		return e.httpClient.Get(ctx, endpoint, opts...)
	case http.MethodPost:
		return e.httpClient.Post(ctx, endpoint, req.Body, opts...)
	case http.MethodDelete:
		return e.httpClient.Delete(ctx, endpoint, opts...)
	default:
		return nil, fmt.Errorf("unsupported method: %s", req.Method)
	}
}

// classifyTransport maps a failed attempt to its error category. Timeouts
// and connection failures are the only retryable categories.
func (e *GDAXExchange) classifyTransport(err error) *core.ExchangeError {
	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
		return core.NewExchangeErrorWithCode(e.Name(), core.ErrorTypeTimeout, 0,
			string(core.ErrCodeTimeout), err.Error())
	}
	return core.NewExchangeErrorWithCode(e.Name(), core.ErrorTypeNetwork, 0,
		string(core.ErrCodeNetwork), err.Error())
}

// classifyResponse turns a non-200 answer into a typed error. How much of
// the response gets logged depends on the status. Client mistakes and
// unexpected statuses log the full body; auth and missing-resource answers
// log headers only; a plain 500 logs just the status line.
func (e *GDAXExchange) classifyResponse(resp *resty.Response) error {
	status := resp.StatusCode()

	switch {
	case status == http.StatusBadRequest:
		e.logger.Error().Int("status", status).
			Interface("headers", resp.Header()).
			Str("body", resp.String()).
			Msg("bad request")
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		e.logger.Error().Int("status", status).
			Interface("headers", resp.Header()).
			Msg("authentication failed")
	case status == http.StatusNotFound:
		e.logger.Error().Int("status", status).
			Interface("headers", resp.Header()).
			Msg("not found")
	case status == http.StatusInternalServerError:
		e.logger.Error().Int("status", status).Msg("server error")
	default:
		e.logger.Error().Int("status", status).
			Interface("headers", resp.Header()).
			Str("body", resp.String()).
			Msg("request failed")
	}

	message := fmt.Sprintf("HTTP error: %s", resp.Status())
	var apiErr gdaxAPIError
	if err := sonic.Unmarshal(resp.Bytes(), &apiErr); err == nil && apiErr.Message != "" {
		message = apiErr.Message
	}

	return core.NewExchangeErrorWithCode(e.Name(), classifyStatus(status), status,
		string(errorCodeForStatus(status)), message)
}

// filterByTimeRange keeps records whose timestamp falls inside the inclusive
// [start, end] window. Both bounds must be set for filtering to apply.
func filterByTimeRange(records []core.Record, start, end time.Time) []core.Record {
	if start.IsZero() || end.IsZero() {
		return records
	}

	filtered := make([]core.Record, 0, len(records))
	for _, record := range records {
		ts := recordTime(record)
		if ts.Before(start) || ts.After(end) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

func recordTime(record core.Record) time.Time {
	switch record.Kind {
	case core.KindFill:
		if record.Fill != nil {
			return record.Fill.Timestamp
		}
	case core.KindOrder:
		if record.Order != nil {
			return record.Order.Timestamp
		}
	}
	return time.Time{}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// defaultTranslator maps the conventional "BASE/QUOTE" spelling to the
// dash-separated product ids GDAX uses, e.g. "BTC/USD" to "BTC-USD".
type defaultTranslator struct{}

func (defaultTranslator) ToExchange(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "-")
}

func (defaultTranslator) ToStandard(symbol string) string {
	return strings.ReplaceAll(symbol, "-", "/")
}
