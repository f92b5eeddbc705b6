package gdax

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"resty.dev/v3"

	"restfeed/pkg/core"
)

const (
	// ProductionURL is the live trading endpoint.
	ProductionURL = "https://api.gdax.com"
	// SandboxURL is the paper trading endpoint.
	SandboxURL = "https://api-public.sandbox.gdax.com"
)

// Protocol implements the core.Protocol interface for the GDAX REST API.
type Protocol struct{}

var _ core.Protocol = (*Protocol)(nil)

// NewProtocol creates a new GDAX protocol instance.
func NewProtocol() *Protocol {
	return &Protocol{}
}

// Name returns the protocol identifier.
func (p *Protocol) Name() string {
	return exchangeName
}

// BaseURL returns the API base URL.
func (p *Protocol) BaseURL(sandbox bool) string {
	if sandbox {
		return SandboxURL
	}
	return ProductionURL
}

// SupportedOperations returns the operations this protocol supports.
func (p *Protocol) SupportedOperations() []core.Operation {
	return []core.Operation{
		core.OpGetFills,
		core.OpGetOrders,
		core.OpGetOrder,
		core.OpPlaceOrder,
		core.OpCancelOrder,
		core.OpCancelAllOrders,
	}
}

// RateLimits returns the exchange rate limit configuration. GDAX allows
// 10 requests per second overall and holds order mutations to 5 per second.
func (p *Protocol) RateLimits() core.RateLimitConfig {
	return core.RateLimitConfig{
		RequestsPerSecond: 10,
		OrdersPerSecond:   5,
		Burst:             10,
	}
}

// BuildRequest builds an unsigned request for the given operation.
func (p *Protocol) BuildRequest(ctx context.Context, op core.Operation, params core.Params) (*core.Request, error) {
	switch op {
	case core.OpGetFills:
		return p.buildFillsRequest(params)
	case core.OpGetOrders:
		return p.buildOrdersRequest(params)
	case core.OpGetOrder:
		return p.buildOrderRequest(params)
	case core.OpPlaceOrder:
		return p.buildPlaceOrderRequest(params)
	case core.OpCancelOrder:
		return p.buildCancelOrderRequest(params)
	case core.OpCancelAllOrders:
		return p.buildCancelAllOrdersRequest(params)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

func (p *Protocol) buildFillsRequest(params core.Params) (*core.Request, error) {
	req := core.NewRequest(http.MethodGet, "/fills")

	if productID := getStringParamWithDefault(params, "product_id", ""); productID != "" {
		req.AddQuery("product_id", productID)
	}

	return req, nil
}

func (p *Protocol) buildOrdersRequest(params core.Params) (*core.Request, error) {
	req := core.NewRequest(http.MethodGet, "/orders")

	// Each requested status becomes its own query parameter, in caller order.
	if statuses, ok := params["status"].([]string); ok {
		for _, status := range statuses {
			req.AddQuery("status", status)
		}
	}

	if productID := getStringParamWithDefault(params, "product_id", ""); productID != "" {
		req.AddQuery("product_id", productID)
	}

	return req, nil
}

func (p *Protocol) buildOrderRequest(params core.Params) (*core.Request, error) {
	orderID, err := getRequiredStringParam(params, "order_id")
	if err != nil {
		return nil, err
	}

	return core.NewRequest(http.MethodGet, "/orders/"+orderID), nil
}

func (p *Protocol) buildPlaceOrderRequest(params core.Params) (*core.Request, error) {
	raw, ok := params["order"].(*rawOrderRequest)
	if !ok {
		return nil, fmt.Errorf("missing required parameter: order")
	}

	// Marshal exactly once. The same bytes are signed and transmitted, so
	// re-serializing anywhere downstream would invalidate the signature.
	body, err := sonic.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req := core.NewRequest(http.MethodPost, "/orders")
	req.SetBody(body)

	return req, nil
}

func (p *Protocol) buildCancelOrderRequest(params core.Params) (*core.Request, error) {
	orderID, err := getRequiredStringParam(params, "order_id")
	if err != nil {
		return nil, err
	}

	return core.NewRequest(http.MethodDelete, "/orders/"+orderID), nil
}

func (p *Protocol) buildCancelAllOrdersRequest(_ core.Params) (*core.Request, error) {
	return core.NewRequest(http.MethodDelete, "/orders"), nil
}

// SignRequest signs a request with HMAC-SHA256 and attaches the CB-ACCESS
// headers. The signature covers timestamp, method, endpoint, and body with
// no separators, so the endpoint and body must be the exact bytes that go
// on the wire. The timestamp is bound into the signature: sign immediately
// before transmitting, and re-sign on every retry.
func (p *Protocol) SignRequest(req *core.Request, creds core.Credentials, now time.Time) error {
	key, err := base64.StdEncoding.DecodeString(creds.SecretKey)
	if err != nil {
		exchErr := core.NewExchangeErrorWithCode(exchangeName, core.ErrorTypeAuthentication, 0,
			string(core.ErrCodeInvalidSecret), "api secret is not valid base64")
		exchErr.RawError = err.Error()
		return exchErr
	}

	timestamp := formatTimestamp(now)
	message := timestamp + req.Method + req.Endpoint() + string(req.Body)

	req.SetHeader("CB-ACCESS-KEY", creds.APIKey)
	req.SetHeader("CB-ACCESS-SIGN", signHMAC(message, key))
	req.SetHeader("CB-ACCESS-TIMESTAMP", timestamp)
	req.SetHeader("CB-ACCESS-PASSPHRASE", creds.Passphrase)
	req.SetHeader("Content-Type", "Application/JSON")

	return nil
}

// ParseResponse parses a successful API response for the given operation.
// Status classification happens before this is called, so only 200 bodies
// arrive here. Cancel operations return no payload worth keeping.
func (p *Protocol) ParseResponse(op core.Operation, resp *resty.Response) (any, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil response")
	}

	normalizer := NewNormalizer()

	switch op {
	case core.OpGetFills, core.OpGetOrders:
		var rawRecords []gdaxRecord
		if err := sonic.Unmarshal(resp.Bytes(), &rawRecords); err != nil {
			return nil, invalidResponse("unmarshal records: %v", err)
		}

		records := make([]core.Record, 0, len(rawRecords))
		for i := range rawRecords {
			rec, err := normalizer.NormalizeRecord(&rawRecords[i])
			if err != nil {
				return nil, err
			}
			records = append(records, *rec)
		}
		return records, nil

	case core.OpGetOrder, core.OpPlaceOrder:
		var raw gdaxRecord
		if err := sonic.Unmarshal(resp.Bytes(), &raw); err != nil {
			return nil, invalidResponse("unmarshal record: %v", err)
		}
		return normalizer.NormalizeRecord(&raw)

	case core.OpCancelOrder, core.OpCancelAllOrders:
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

// gdaxAPIError is the error payload shape the exchange returns alongside
// non-200 statuses.
type gdaxAPIError struct {
	Message string `json:"message"`
}

// classifyStatus maps an HTTP status to the error category it represents.
// Every non-200 answer is final; none of these categories is retried.
func classifyStatus(status int) core.ErrorType {
	switch {
	case status == http.StatusBadRequest:
		return core.ErrorTypeBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrorTypeAuthentication
	case status == http.StatusNotFound:
		return core.ErrorTypeNotFound
	case status == http.StatusTooManyRequests:
		return core.ErrorTypeRateLimit
	case status >= http.StatusInternalServerError:
		return core.ErrorTypeServerError
	default:
		return core.ErrorTypeUnknown
	}
}

func errorCodeForStatus(status int) core.ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return core.ErrCodeBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrCodeAuth
	case status == http.StatusNotFound:
		return core.ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		return core.ErrCodeRateLimit
	case status >= http.StatusInternalServerError:
		return core.ErrCodeServerError
	default:
		return ""
	}
}

// formatTimestamp renders a wall-clock time as fractional unix seconds,
// the representation the signature scheme expects.
func formatTimestamp(now time.Time) string {
	return strconv.FormatFloat(float64(now.UnixNano())/1e9, 'f', -1, 64)
}

func signHMAC(message string, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func getRequiredStringParam(params core.Params, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}
	return value, nil
}

func getStringParamWithDefault(params core.Params, key, defaultValue string) string {
	if value, ok := params[key].(string); ok && value != "" {
		return value
	}
	return defaultValue
}
