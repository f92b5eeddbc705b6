package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want string
	}{
		{"get_fills", OpGetFills, "GET_FILLS"},
		{"get_orders", OpGetOrders, "GET_ORDERS"},
		{"get_order", OpGetOrder, "GET_ORDER"},
		{"place_order", OpPlaceOrder, "PLACE_ORDER"},
		{"cancel_order", OpCancelOrder, "CANCEL_ORDER"},
		{"cancel_all_orders", OpCancelAllOrders, "CANCEL_ALL_ORDERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestOperation_Mutates(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		mutates bool
	}{
		{"get_fills", OpGetFills, false},
		{"get_orders", OpGetOrders, false},
		{"get_order", OpGetOrder, false},
		{"place_order", OpPlaceOrder, true},
		{"cancel_order", OpCancelOrder, true},
		{"cancel_all_orders", OpCancelAllOrders, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mutates, tt.op.Mutates())
		})
	}
}
