package db_models

import "github.com/lib/pq"

// ValidatedPlace is the persistent registry row for a place that passed
// matching at least once. Rows are upserted by PlaceID; UsedCount grows by
// one per successful validation.
type ValidatedPlace struct {
	BaseModel
	PlaceID          string `gorm:"uniqueIndex;not null"`
	Name             string
	VerifiedName     string
	FormattedAddress string
	Latitude         float64
	Longitude        float64
	Rating           float64
	ReviewCount      int
	PriceLevel       int
	BusinessStatus   string
	Types            pq.StringArray `gorm:"type:text[]"`
	WeekdayText      pq.StringArray `gorm:"type:text[]"`
	Photos           pq.StringArray `gorm:"type:text[]"`
	GoogleMapsURL    string
	Website          string
	Phone            string
	QualityScore     float64
	UsedCount        int
	LastUsedAt       int64
	ValidatedAt      int64
}

// ValidationHistory is append-only; one row per validation attempt that was
// tied to an itinerary.
type ValidationHistory struct {
	BaseModel
	ItineraryID    string `gorm:"index"`
	PlaceID        string
	DiscoveredName string
	Status         string
	Confidence     float64
	QualityScore   float64
}
