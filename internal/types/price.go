package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var currencyNoise = strings.NewReplacer("₹", "", "Rs.", "", "INR", "", ",", "")

// ParseAmount parses a price string such as "₹1,999" or "2499.00" into whole currency units.
func ParseAmount(s string) (int, error) {
	cleaned := strings.TrimSpace(currencyNoise.Replace(s))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return wholeUnits(f)
}

// wholeUnits truncates f, rejecting NaN, infinities and values outside the int32 range.
func wholeUnits(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("amount %v out of range", f)
	}
	return int(f), nil
}

// amountFromJSON decodes a JSON number or string into whole currency units. null decodes to 0.
func amountFromJSON(data json.RawMessage) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return wholeUnits(val)
	case string:
		return ParseAmount(val)
	default:
		return 0, fmt.Errorf("invalid amount %s", string(data))
	}
}

type rawRange struct {
	Min json.RawMessage `json:"min"`
	Max json.RawMessage `json:"max"`
}

func decodeRange(data []byte) (minVal, maxVal int, err error) {
	var raw rawRange
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, 0, err
	}
	if minVal, err = amountFromJSON(raw.Min); err != nil {
		return 0, 0, err
	}
	if maxVal, err = amountFromJSON(raw.Max); err != nil {
		return 0, 0, err
	}
	return minVal, maxVal, nil
}

// UnmarshalJSON accepts numeric or string bounds. A malformed bound collapses the range to 0/0.
func (p *PriceRange) UnmarshalJSON(data []byte) error {
	minVal, maxVal, err := decodeRange(data)
	if err != nil {
		*p = PriceRange{}
		return nil
	}
	*p = PriceRange{Min: minVal, Max: maxVal}
	return nil
}

// UnmarshalJSON accepts numeric or string bounds. Malformed bounds decode as 0 and are
// replaced by the default range on Normalize.
func (b *Budget) UnmarshalJSON(data []byte) error {
	var raw rawRange
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	minVal, errMin := amountFromJSON(raw.Min)
	maxVal, errMax := amountFromJSON(raw.Max)
	if errMin != nil {
		minVal = 0
	}
	if errMax != nil {
		maxVal = 0
	}
	*b = Budget{Min: minVal, Max: maxVal}
	return nil
}
