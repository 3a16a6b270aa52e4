package request_models

// DiscoveredPlace is an unverified suggestion produced upstream. Fields are
// untrusted and may be incomplete or slightly wrong.
type DiscoveredPlace struct {
	Name            string  `json:"name" binding:"required"`
	Address         string  `json:"address"`
	Type            string  `json:"type"`
	Cuisine         string  `json:"cuisine"`
	EstimatedCost   float64 `json:"estimated_cost"`
	WhySpecial      string  `json:"why_special"`
	UniquenessScore float64 `json:"uniqueness_score"`
}

type ActivityItem struct {
	Name            string  `json:"name" binding:"required"`
	Address         string  `json:"address"`
	Type            string  `json:"type"`
	Description     string  `json:"description"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	EstimatedCost   float64 `json:"estimated_cost"`
	WhySpecial      string  `json:"why_special"`
	UniquenessScore float64 `json:"uniqueness_score"`
}

func (a ActivityItem) Discovered() DiscoveredPlace {
	return DiscoveredPlace{
		Name:            a.Name,
		Address:         a.Address,
		Type:            a.Type,
		EstimatedCost:   a.EstimatedCost,
		WhySpecial:      a.WhySpecial,
		UniquenessScore: a.UniquenessScore,
	}
}

type RestaurantItem struct {
	Name            string  `json:"name" binding:"required"`
	Address         string  `json:"address"`
	Cuisine         string  `json:"cuisine"`
	MealType        string  `json:"meal_type"`
	Time            string  `json:"time"`
	EstimatedCost   float64 `json:"estimated_cost"`
	WhySpecial      string  `json:"why_special"`
	UniquenessScore float64 `json:"uniqueness_score"`
}

func (r RestaurantItem) Discovered() DiscoveredPlace {
	return DiscoveredPlace{
		Name:            r.Name,
		Address:         r.Address,
		Type:            "restaurant",
		Cuisine:         r.Cuisine,
		EstimatedCost:   r.EstimatedCost,
		WhySpecial:      r.WhySpecial,
		UniquenessScore: r.UniquenessScore,
	}
}

type ActivitySet struct {
	Day        int            `json:"day"`
	Date       string         `json:"date"`
	Activities []ActivityItem `json:"activities"`
}

type DayRestaurants struct {
	Day         int              `json:"day"`
	Date        string           `json:"date"`
	Restaurants []RestaurantItem `json:"restaurants"`
}

type ValidationOptions struct {
	MinConfidence           float64 `json:"min_confidence"`
	MaxRegenerationAttempts int     `json:"max_regeneration_attempts"`
}

type ValidateItineraryRequest struct {
	Destination string             `json:"destination" binding:"required"`
	Days        []ActivitySet      `json:"days"`
	Restaurants []DayRestaurants   `json:"restaurants"`
	Options     *ValidationOptions `json:"options"`
}

type ValidatePlaceRequest struct {
	Place       DiscoveredPlace `json:"place" binding:"required"`
	Destination string          `json:"destination" binding:"required"`
	ItineraryID string          `json:"itinerary_id"`
}

// AvailabilityEntry describes one already-verified place and the wall-clock
// time a visit is scheduled for. ScheduledAt uses "2006-01-02 15:04".
type AvailabilityEntry struct {
	Name           string   `json:"name" binding:"required"`
	BusinessStatus string   `json:"business_status"`
	OpeningHours   []string `json:"opening_hours"`
	ScheduledAt    string   `json:"scheduled_at" binding:"required"`
}

type AvailabilityReportRequest struct {
	Entries []AvailabilityEntry `json:"entries" binding:"required"`
}
