package response_models

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PlaceReview struct {
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
	When   string  `json:"when,omitempty"`
}

// VerifiedPlace merges the discovery fields with the provider-verified ones.
// It lives for the duration of one pipeline run; the registry keeps its own
// persistent copy keyed by PlaceID.
type VerifiedPlace struct {
	Name            string  `json:"name"`
	Address         string  `json:"address,omitempty"`
	Type            string  `json:"type,omitempty"`
	Cuisine         string  `json:"cuisine,omitempty"`
	EstimatedCost   float64 `json:"estimated_cost,omitempty"`
	WhySpecial      string  `json:"why_special,omitempty"`
	UniquenessScore float64 `json:"uniqueness_score,omitempty"`

	PlaceID          string        `json:"place_id"`
	VerifiedName     string        `json:"verified_name"`
	FormattedAddress string        `json:"formatted_address"`
	Coordinates      Coordinates   `json:"coordinates"`
	Rating           float64       `json:"rating,omitempty"`
	ReviewCount      int           `json:"review_count,omitempty"`
	PriceLevel       int           `json:"price_level,omitempty"`
	Types            []string      `json:"types,omitempty"`
	OpeningHours     []string      `json:"opening_hours,omitempty"`
	Photos           []string      `json:"photos,omitempty"`
	GoogleMapsURL    string        `json:"google_maps_url,omitempty"`
	Website          string        `json:"website,omitempty"`
	Phone            string        `json:"phone,omitempty"`
	TopReviews       []PlaceReview `json:"top_reviews,omitempty"`
	BusinessStatus   string        `json:"business_status,omitempty"`
	QualityScore     float64       `json:"quality_score"`
	ValidatedAt      int64         `json:"validated_at"`
}

type BatchValidationSummary struct {
	Total          int             `json:"total"`
	Validated      []VerifiedPlace `json:"validated"`
	NotFound       []string        `json:"not_found"`
	Ambiguous      []string        `json:"ambiguous"`
	Errors         []string        `json:"errors"`
	ValidationRate float64         `json:"validation_rate"`
	AverageQuality float64         `json:"average_quality"`
}

// RegistryPlace is the read-side projection of a stored registry row.
type RegistryPlace struct {
	PlaceID      string  `json:"place_id"`
	Name         string  `json:"name"`
	VerifiedName string  `json:"verified_name"`
	Address      string  `json:"address"`
	Rating       float64 `json:"rating,omitempty"`
	ReviewCount  int     `json:"review_count,omitempty"`
	QualityScore float64 `json:"quality_score"`
	UsedCount    int     `json:"used_count"`
	LastUsedAt   int64   `json:"last_used_at"`
}
