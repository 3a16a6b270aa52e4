package response_models

import "veritrip/internal/models/request_models"

// Enriched items keep every original field untouched and only add verified
// data next to it. Callers must tolerate the additive fields.

type EnrichedActivity struct {
	request_models.ActivityItem

	ValidationStatus string  `json:"validation_status"`
	ValidationError  string  `json:"validation_error,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`

	PlaceID       string             `json:"place_id,omitempty"`
	Coordinates   *Coordinates       `json:"coordinates,omitempty"`
	Rating        float64            `json:"rating,omitempty"`
	ReviewCount   int                `json:"review_count,omitempty"`
	ImageURL      string             `json:"image_url,omitempty"`
	OpeningHours  []string           `json:"opening_hours,omitempty"`
	GoogleMapsURL string             `json:"google_maps_url,omitempty"`
	Website       string             `json:"website,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	PriceLevel    int                `json:"price_level,omitempty"`
	QualityScore  float64            `json:"quality_score,omitempty"`
	Availability  *AvailabilityCheck `json:"availability,omitempty"`
}

type EnrichedActivitySet struct {
	Day        int                `json:"day"`
	Date       string             `json:"date"`
	Activities []EnrichedActivity `json:"activities"`
}

type EnrichedRestaurant struct {
	request_models.RestaurantItem

	ValidationStatus string  `json:"validation_status"`
	ValidationError  string  `json:"validation_error,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`

	PlaceID       string             `json:"place_id,omitempty"`
	Coordinates   *Coordinates       `json:"coordinates,omitempty"`
	Rating        float64            `json:"rating,omitempty"`
	ReviewCount   int                `json:"review_count,omitempty"`
	OpeningHours  []string           `json:"opening_hours,omitempty"`
	GoogleMapsURL string             `json:"google_maps_url,omitempty"`
	Website       string             `json:"website,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	PriceRange    string             `json:"price_range,omitempty"`
	QualityScore  float64            `json:"quality_score,omitempty"`
	Availability  *AvailabilityCheck `json:"availability,omitempty"`
}

type EnrichedDayRestaurants struct {
	Day         int                  `json:"day"`
	Date        string               `json:"date"`
	Restaurants []EnrichedRestaurant `json:"restaurants"`
}

type PipelineStats struct {
	Total              int     `json:"total"`
	Validated          int     `json:"validated"`
	Failed             int     `json:"failed"`
	Enriched           int     `json:"enriched"`
	AvailabilityIssues int     `json:"availability_issues"`
	Regenerated        int     `json:"regenerated"`
	ValidationRate     float64 `json:"validation_rate"`
	EnrichmentRate     float64 `json:"enrichment_rate"`
}

type ValidateItineraryResponse struct {
	ItineraryID string                   `json:"itinerary_id"`
	Days        []EnrichedActivitySet    `json:"days,omitempty"`
	Restaurants []EnrichedDayRestaurants `json:"restaurants,omitempty"`
	Stats       PipelineStats            `json:"stats"`
}
