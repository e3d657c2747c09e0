package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"1999", 1999, false},
		{"₹1,999", 1999, false},
		{" Rs. 2,499.90 ", 2499, false},
		{"INR 500", 500, false},
		{"about two thousand", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"-Inf", 0, true},
		{"1e30", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceRange_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want PriceRange
	}{
		{"numbers", `{"min": 1500, "max": 2500}`, PriceRange{1500, 2500}},
		{"float numbers", `{"min": 1500.5, "max": 2500.9}`, PriceRange{1500, 2500}},
		{"currency strings", `{"min": "₹1,500", "max": "₹2,500"}`, PriceRange{1500, 2500}},
		{"malformed bound zeroes both", `{"min": "₹1,500", "max": "varies"}`, PriceRange{0, 0}},
		{"missing bounds", `{}`, PriceRange{0, 0}},
		{"out of range number zeroes both", `{"min": 1e300, "max": 2500}`, PriceRange{0, 0}},
		{"not an object", `"cheap"`, PriceRange{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got PriceRange
			require.NoError(t, json.Unmarshal([]byte(tt.json), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBudget_UnmarshalJSON(t *testing.T) {
	var req GiftRequest
	require.NoError(t, json.Unmarshal([]byte(`{"budget": {"min": "N/A", "max": "3,000"}}`), &req))
	assert.Equal(t, Budget{Min: 0, Max: 3000}, req.Budget)

	var b Budget
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &b))
}

func TestProductIdeas_DecodeCoercesPrices(t *testing.T) {
	raw := `{"product_ideas": [
		{"name": "JBL Flip 6", "estimated_price_range": {"min": "₹9,999", "max": "₹11,999"}},
		{"name": "Mystery Box", "estimated_price_range": {"min": "ask", "max": 10}}
	]}`

	var ideas ProductIdeas
	require.NoError(t, json.Unmarshal([]byte(raw), &ideas))
	require.Len(t, ideas.ProductIdeas, 2)
	assert.Equal(t, PriceRange{9999, 11999}, ideas.ProductIdeas[0].EstimatedPriceRange)
	assert.Equal(t, PriceRange{0, 0}, ideas.ProductIdeas[1].EstimatedPriceRange)
}
