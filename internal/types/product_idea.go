package types

import "github.com/go-playground/validator/v10"

// ProductIdea is a single gift idea produced by the idea generator and reformatted into structure.
// Name is the identity of the idea; duplicates are allowed and treated as independent items.
type ProductIdea struct {
	Name                string     `json:"name" validate:"required"`
	Category            string     `json:"category,omitempty"`
	EstimatedPriceRange PriceRange `json:"estimated_price_range"`
	WhyRecommended      string     `json:"why_recommended,omitempty"`
	SearchKeywords      []string   `json:"search_keywords,omitempty"`
}

// PriceRange is an estimated integer price range. Malformed inputs are coerced to 0/0.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ProductIdeas is the envelope returned by the reformatting step.
type ProductIdeas struct {
	ProductIdeas []ProductIdea `json:"product_ideas" validate:"dive"`
}

// Validate validates the ProductIdea using the validator.
func (p *ProductIdea) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// IdeasFromNames builds bare ideas from a list of names.
func IdeasFromNames(names ...string) []ProductIdea {
	ideas := make([]ProductIdea, len(names))
	for i, name := range names {
		ideas[i] = ProductIdea{Name: name}
	}
	return ideas
}
