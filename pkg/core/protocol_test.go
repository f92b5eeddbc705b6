package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitConfig(t *testing.T) {
	config := RateLimitConfig{
		RequestsPerSecond: 10,
		OrdersPerSecond:   5,
		Burst:             10,
	}

	assert.Equal(t, 10, config.RequestsPerSecond)
	assert.Equal(t, 5, config.OrdersPerSecond)
	assert.Equal(t, 10, config.Burst)
}
