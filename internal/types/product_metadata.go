package types

import "strings"

// ProductMetadata is the structured record extracted from a product page.
// Every field defaults to its zero value when the extractor cannot determine it.
type ProductMetadata struct {
	// Basic product info
	Product                 string   `json:"product"`
	Brand                   string   `json:"brand"`
	ProductDescription      string   `json:"product_description"`
	EverythingYouNeedToKnow string   `json:"everything_you_need_to_know"`
	WhyWeLoveIt             string   `json:"why_we_love_it"`
	Price                   string   `json:"price"`
	Website                 string   `json:"website"`
	DeliveryTimeline        string   `json:"delivery_timeline"`
	ImageLinks              []string `json:"image_links"`

	// Demographics
	AgeKids      string `json:"age_kids"`
	Gender       string `json:"gender"`
	PriceBracket string `json:"price_bracket"`
	Cities       string `json:"cities"`

	// Style and occasion
	Occasion  string `json:"occasion"`
	StyleTags string `json:"style_tags"`
	Personas  string `json:"personas"`

	OccasionFit
	PersonalityFit
}

// OccasionFit flags the occasions a product suits.
type OccasionFit struct {
	Valentines            bool `json:"valentines"`
	BabyShower            bool `json:"baby_shower"`
	AnniversariesWeddings bool `json:"anniversaries_weddings"`
	Birthdays             bool `json:"birthdays"`
	HouseWarmings         bool `json:"house_warmings"`
	Festivals             bool `json:"festivals"`
}

// PersonalityFit flags the personalities a product suits.
type PersonalityFit struct {
	FitnessSportsEnthusiast bool `json:"fitness_sports_enthusiast"`
	Aesthete                bool `json:"aesthete"`
	MinimalistFunctional    bool `json:"minimalist_functional"`
	Maximalist              bool `json:"maximalist"`
	Fashionable             bool `json:"fashionable"`
	Foodie                  bool `json:"foodie"`
	WellnessSeeker          bool `json:"wellness_seeker"`
	NewParent               bool `json:"new_parent"`
	Teenagers               bool `json:"teenagers"`
	WorkingProfessionals    bool `json:"working_professionals"`
	Parents                 bool `json:"parents"`
	BrideGroomToBe          bool `json:"bride_groom_to_be"`
}

// Closed demographic tag sets.
var (
	Genders       = []string{"Men", "Women", "Unisex", "Kids"}
	PriceBrackets = []string{"Budget", "Mid-range", "Premium", "Luxury"}
)

// Normalize canonicalizes closed-set tags and strips currency noise from the price.
// Unknown tag values are cleared rather than rejected.
func (m *ProductMetadata) Normalize() {
	m.Gender = matchTag(m.Gender, Genders)
	m.PriceBracket = matchTag(m.PriceBracket, PriceBrackets)
	m.Price = strings.TrimSpace(strings.NewReplacer("₹", "", "Rs.", "", "INR", "").Replace(m.Price))

	images := m.ImageLinks[:0]
	for _, link := range m.ImageLinks {
		link = strings.TrimSpace(link)
		if link != "" {
			images = append(images, link)
		}
	}
	m.ImageLinks = images
}

func matchTag(value string, allowed []string) string {
	value = strings.TrimSpace(value)
	for _, tag := range allowed {
		if strings.EqualFold(value, tag) {
			return tag
		}
	}
	return ""
}
