package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{name: "thousands", amount: 650000, want: "$650,000"},
		{name: "millions", amount: 13300000, want: "$13,300,000"},
		{name: "small", amount: 999, want: "$999"},
		{name: "exact thousand", amount: 1000, want: "$1,000"},
		{name: "drops cents", amount: 4543210.49, want: "$4,543,210"},
		{name: "rounds half up", amount: 1234.5, want: "$1,235"},
		{name: "negative", amount: -2500, want: "-$2,500"},
		{name: "zero", amount: 0, want: "$0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUSD(tt.amount))
		})
	}
}

func TestFormatUSDDecimal(t *testing.T) {
	assert.Equal(t, "$1,000,001", FormatUSDDecimal(decimal.RequireFromString("1000000.75")))
}
