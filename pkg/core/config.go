package core

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// RetryUnlimited makes the dispatcher retry transport failures forever.
// Use it deliberately: combined with a connection-level outage it blocks
// the calling goroutine until the context is canceled.
const RetryUnlimited = -1

// Credentials holds API authentication credentials for an exchange.
type Credentials struct {
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key"`
	// SecretKey is the base64-encoded private key used for signing requests.
	SecretKey string `json:"secret_key"`
	// Passphrase is the additional credential chosen when the API key was created.
	Passphrase string `json:"passphrase,omitempty"`
}

// String implements fmt.Stringer with the secret material masked, so that
// credentials passed to a log statement never leak the key or passphrase.
func (c *Credentials) String() string {
	return "Credentials{APIKey:" + maskKey(c.APIKey) + "}"
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains all configuration options for an exchange client.
// It covers authentication, environment selection, networking, the default
// transport retry policy, and rate limiting.
type Config struct {
	Exchange    string       `json:"exchange" validate:"required"`
	Sandbox     bool         `json:"sandbox"`
	Credentials *Credentials `json:"credentials,omitempty"`

	// Timeout bounds a single HTTP attempt. Retries are not covered: the
	// dispatcher re-attempts with a fresh timeout.
	Timeout time.Duration `json:"timeout" validate:"min=1ms"`

	// MaxRetries is the default transport retry budget per call: the number
	// of re-attempts after the first failure. RetryUnlimited retries forever.
	// HTTP error statuses are never retried regardless of this value.
	MaxRetries int `json:"max_retries" validate:"min=-1"`
	// RetryWait is the fixed pause between transport retries. There is no
	// backoff schedule; the exchange asks clients to hold a constant pace.
	RetryWait time.Duration `json:"retry_wait" validate:"min=0"`

	RateLimitRequests int           `json:"rate_limit_requests" validate:"min=1"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" validate:"min=1ms"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with sensible defaults for the
// specified exchange: 10s timeout, no transport retries, 10s retry wait,
// 10 requests/second rate limit.
func DefaultConfig(exchange string) *Config {
	return &Config{
		Exchange:   exchange,
		Sandbox:    false,
		Timeout:    10 * time.Second,
		MaxRetries: 0,
		RetryWait:  10 * time.Second,

		RateLimitRequests: 10,
		RateLimitPeriod:   time.Second,

		LogLevel: "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validate.Struct(c)
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithSandbox enables or disables sandbox mode and returns the config for chaining.
func (c *Config) WithSandbox(sandbox bool) *Config {
	c.Sandbox = sandbox
	return c
}

// WithTimeout sets the per-attempt timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRetry sets the default transport retry budget and wait, and returns
// the config for chaining.
func (c *Config) WithRetry(retries int, wait time.Duration) *Config {
	c.MaxRetries = retries
	c.RetryWait = wait
	return c
}

// WithRateLimit sets the rate limiting parameters and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}
