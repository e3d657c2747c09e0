// Package types provides type definitions for structured data used throughout the gift-finder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Default budget used when a request names no budget at all.
const (
	DefaultBudgetMin = 2000
	DefaultBudgetMax = 3000
)

// GiftRequest is the structured form of a free-text gift request.
type GiftRequest struct {
	Recipient      Recipient `json:"recipient"`
	Occasion       string    `json:"occasion"`
	Budget         Budget    `json:"budget"`
	SearchQueries  []string  `json:"search_queries,omitempty"`
	GiftCategories []string  `json:"gift_categories" validate:"dive,required"`
}

// Recipient describes who the gift is for.
type Recipient struct {
	Gender       string    `json:"gender,omitempty"`
	AgeGroup     string    `json:"age_group,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
	Interests    Interests `json:"interests,omitempty"`
}

// Budget is a currency-agnostic integer price range.
type Budget struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gte=0,gtefield=Min"`
}

// Normalize clamps negative bounds to zero and swaps inverted bounds so Min <= Max holds.
// A zero budget falls back to the default range.
func (b *Budget) Normalize() {
	if b.Min < 0 {
		b.Min = 0
	}
	if b.Max < 0 {
		b.Max = 0
	}
	if b.Min > b.Max {
		b.Min, b.Max = b.Max, b.Min
	}
	if b.Min == 0 && b.Max == 0 {
		b.Min, b.Max = DefaultBudgetMin, DefaultBudgetMax
	}
}

// Validate validates the GiftRequest using the validator.
func (r *GiftRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Interests accepts either a JSON list of strings or a single comma separated string.
// LLMs return both shapes for the same prompt.
type Interests []string

// UnmarshalJSON implements json.Unmarshaler.
func (i *Interests) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*i = cleanInterests(list)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*i = cleanInterests(strings.Split(single, ","))
	return nil
}

func cleanInterests(raw []string) Interests {
	out := make(Interests, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "N/A") {
			continue
		}
		out = append(out, s)
	}
	return out
}
