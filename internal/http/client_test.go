package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Logger:  zerolog.Nop(),
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(testConfig("https://api.example.com"))

	assert.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"missing_base_url", &Config{Timeout: time.Second}},
		{"bad_base_url", &Config{BaseURL: "not a url", Timeout: time.Second}},
		{"zero_timeout", &Config{BaseURL: "https://api.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/fills", r.URL.Path)
		assert.Equal(t, "BTC-USD", r.URL.Query().Get("product_id"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Get(context.Background(), "/fills?product_id=BTC-USD")

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, 200, resp.StatusCode())
}

func TestClient_Get_PreservesRawQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "status=open&status=pending&product_id=BTC-USD", r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Get(context.Background(), "/orders?status=open&status=pending&product_id=BTC-USD")

	assert.NoError(t, err)
}

func TestClient_Post_SendsBodyVerbatim(t *testing.T) {
	body := []byte(`{"product_id":"BTC-USD","side":"buy","size":"0.1","price":"100.0"}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		got, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, body, got)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Post(context.Background(), "/orders", body)

	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())
}

func TestClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, "/orders/123", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`["123"]`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Delete(context.Background(), "/orders/123")

	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())
}

func TestClient_RequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("CB-ACCESS-KEY"))
		assert.Equal(t, "sig", r.Header.Get("CB-ACCESS-SIGN"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Get(context.Background(), "/fills", WithHeaders(map[string]string{
		"CB-ACCESS-KEY":  "test-key",
		"CB-ACCESS-SIGN": "sig",
	}))

	assert.NoError(t, err)
}

func TestClient_Closed(t *testing.T) {
	client, err := NewClient(testConfig("https://api.example.com"))
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = client.Get(context.Background(), "/fills")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = client.Post(context.Background(), "/orders", []byte(`{}`))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = client.Delete(context.Background(), "/orders/123")
	assert.ErrorIs(t, err, ErrClosed)

	assert.NoError(t, client.Close())
}
