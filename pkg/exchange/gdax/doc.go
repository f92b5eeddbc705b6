// Package gdax implements the Exchange interface for the GDAX (Coinbase Pro)
// cryptocurrency exchange. It covers the authenticated REST API: fills,
// orders, order placement, and cancellation.
//
// GDAX API Documentation: https://docs.gdax.com
package gdax
