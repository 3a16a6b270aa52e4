package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"veritrip/internal/models/request_models"
	"veritrip/internal/models/response_models"
)

const defaultMinConfidence = 0.5

// PipelineOptions control one orchestrator run. MaxRegenerationAttempts is
// accepted for forward compatibility but currently a no-op: no regeneration
// policy exists, so the Regenerated counter always stays at zero.
type PipelineOptions struct {
	MinConfidence           float64
	MaxRegenerationAttempts int
}

func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{MinConfidence: defaultMinConfidence}
}

type PipelineServiceInterface interface {
	ValidateActivities(ctx context.Context, destination string, sets []request_models.ActivitySet, itineraryID string, opts PipelineOptions) ([]response_models.EnrichedActivitySet, error)
	ValidateRestaurants(ctx context.Context, destination string, days []request_models.DayRestaurants, itineraryID string, opts PipelineOptions) ([]response_models.EnrichedDayRestaurants, error)
	Stats() response_models.PipelineStats
	ResetStats()
}

type runStats struct {
	total              int
	validated          int
	failed             int
	enriched           int
	availabilityIssues int
	regenerated        int
}

type PipelineService struct {
	validator    ValidationServiceInterface
	availability AvailabilityServiceInterface

	mu    sync.Mutex
	stats runStats
}

func NewPipelineService(validator ValidationServiceInterface, availability AvailabilityServiceInterface) PipelineServiceInterface {
	return &PipelineService{
		validator:    validator,
		availability: availability,
	}
}

func (p *PipelineService) ValidateActivities(ctx context.Context, destination string, sets []request_models.ActivitySet, itineraryID string, opts PipelineOptions) ([]response_models.EnrichedActivitySet, error) {
	if opts.MinConfidence == 0 {
		opts.MinConfidence = defaultMinConfidence
	}

	enrichedSets := make([]response_models.EnrichedActivitySet, 0, len(sets))
	for _, set := range sets {
		enrichedSet := response_models.EnrichedActivitySet{
			Day:        set.Day,
			Date:       set.Date,
			Activities: make([]response_models.EnrichedActivity, 0, len(set.Activities)),
		}
		for _, item := range set.Activities {
			enrichedSet.Activities = append(enrichedSet.Activities,
				p.processActivity(ctx, destination, set.Date, item, itineraryID, opts))
		}
		enrichedSets = append(enrichedSets, enrichedSet)
	}
	return enrichedSets, nil
}

func (p *PipelineService) ValidateRestaurants(ctx context.Context, destination string, days []request_models.DayRestaurants, itineraryID string, opts PipelineOptions) ([]response_models.EnrichedDayRestaurants, error) {
	if opts.MinConfidence == 0 {
		opts.MinConfidence = defaultMinConfidence
	}

	enrichedDays := make([]response_models.EnrichedDayRestaurants, 0, len(days))
	for _, day := range days {
		enrichedDay := response_models.EnrichedDayRestaurants{
			Day:         day.Day,
			Date:        day.Date,
			Restaurants: make([]response_models.EnrichedRestaurant, 0, len(day.Restaurants)),
		}
		for _, item := range day.Restaurants {
			enrichedDay.Restaurants = append(enrichedDay.Restaurants,
				p.processRestaurant(ctx, destination, day.Date, item, itineraryID, opts))
		}
		enrichedDays = append(enrichedDays, enrichedDay)
	}
	return enrichedDays, nil
}

// processActivity never lets a per-item failure escape: the original item is
// returned annotated, and the loop above continues.
func (p *PipelineService) processActivity(ctx context.Context, destination, date string, item request_models.ActivityItem, itineraryID string, opts PipelineOptions) (enriched response_models.EnrichedActivity) {
	enriched = response_models.EnrichedActivity{ActivityItem: item}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Validation panic for %q: %v", item.Name, r)
			enriched.ValidationStatus = "error"
			enriched.ValidationError = fmt.Sprintf("%v", r)
			p.count(func(s *runStats) { s.total++; s.failed++ })
		}
	}()

	outcome, err := p.validator.ValidatePlace(ctx, item.Discovered(), destination, itineraryID)
	if err != nil {
		enriched.ValidationStatus = "error"
		enriched.ValidationError = err.Error()
		p.count(func(s *runStats) { s.total++; s.failed++ })
		return enriched
	}

	switch outcome.Status {
	case StatusValidated:
		enriched.ValidationStatus = string(StatusValidated)
		enriched.Confidence = outcome.Confidence
		if outcome.Confidence < opts.MinConfidence {
			log.Printf("Low confidence %.2f for %q", outcome.Confidence, item.Name)
		}
		p.mergeActivity(&enriched, outcome.Place)

		check := p.maybeCheckAvailability(outcome.Place, date, item.StartTime)
		enriched.Availability = check

		issue := check != nil && (check.Critical || check.Warning != "" ||
			check.Status == response_models.AvailabilityClosed)
		p.count(func(s *runStats) {
			s.total++
			s.validated++
			s.enriched++
			if issue {
				s.availabilityIssues++
			}
		})
	case StatusNotFound, StatusAmbiguous:
		enriched.ValidationStatus = "unvalidated"
		enriched.ValidationError = outcome.Reason
		p.count(func(s *runStats) { s.total++ })
	default:
		enriched.ValidationStatus = "error"
		enriched.ValidationError = outcome.Reason
		p.count(func(s *runStats) { s.total++; s.failed++ })
	}
	return enriched
}

func (p *PipelineService) processRestaurant(ctx context.Context, destination, date string, item request_models.RestaurantItem, itineraryID string, opts PipelineOptions) (enriched response_models.EnrichedRestaurant) {
	enriched = response_models.EnrichedRestaurant{RestaurantItem: item}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Validation panic for %q: %v", item.Name, r)
			enriched.ValidationStatus = "error"
			enriched.ValidationError = fmt.Sprintf("%v", r)
			p.count(func(s *runStats) { s.total++; s.failed++ })
		}
	}()

	outcome, err := p.validator.ValidatePlace(ctx, item.Discovered(), destination, itineraryID)
	if err != nil {
		enriched.ValidationStatus = "error"
		enriched.ValidationError = err.Error()
		p.count(func(s *runStats) { s.total++; s.failed++ })
		return enriched
	}

	switch outcome.Status {
	case StatusValidated:
		enriched.ValidationStatus = string(StatusValidated)
		enriched.Confidence = outcome.Confidence
		p.mergeRestaurant(&enriched, outcome.Place)

		check := p.maybeCheckAvailability(outcome.Place, date, item.Time)
		enriched.Availability = check

		issue := check != nil && (check.Critical || check.Warning != "" ||
			check.Status == response_models.AvailabilityClosed)
		p.count(func(s *runStats) {
			s.total++
			s.validated++
			s.enriched++
			if issue {
				s.availabilityIssues++
			}
		})
	case StatusNotFound, StatusAmbiguous:
		enriched.ValidationStatus = "unvalidated"
		enriched.ValidationError = outcome.Reason
		p.count(func(s *runStats) { s.total++ })
	default:
		enriched.ValidationStatus = "error"
		enriched.ValidationError = outcome.Reason
		p.count(func(s *runStats) { s.total++; s.failed++ })
	}
	return enriched
}

// mergeActivity copies verified fields onto the enriched item. Zero values
// stay absent so the original content is never clobbered.
func (p *PipelineService) mergeActivity(e *response_models.EnrichedActivity, place *response_models.VerifiedPlace) {
	if place == nil {
		return
	}
	e.PlaceID = place.PlaceID
	if place.Coordinates.Latitude != 0 || place.Coordinates.Longitude != 0 {
		coords := place.Coordinates
		e.Coordinates = &coords
	}
	e.Rating = place.Rating
	e.ReviewCount = place.ReviewCount
	if len(place.Photos) > 0 {
		e.ImageURL = place.Photos[0]
	}
	e.OpeningHours = place.OpeningHours
	e.GoogleMapsURL = place.GoogleMapsURL
	e.Website = place.Website
	e.Phone = place.Phone
	e.PriceLevel = place.PriceLevel
	e.QualityScore = place.QualityScore
}

// Restaurant merges translate the 0-4 price level to a price range and carry
// no photos.
func (p *PipelineService) mergeRestaurant(e *response_models.EnrichedRestaurant, place *response_models.VerifiedPlace) {
	if place == nil {
		return
	}
	e.PlaceID = place.PlaceID
	if place.Coordinates.Latitude != 0 || place.Coordinates.Longitude != 0 {
		coords := place.Coordinates
		e.Coordinates = &coords
	}
	e.Rating = place.Rating
	e.ReviewCount = place.ReviewCount
	e.OpeningHours = place.OpeningHours
	e.GoogleMapsURL = place.GoogleMapsURL
	e.Website = place.Website
	e.Phone = place.Phone
	e.PriceRange = priceRangeFromLevel(place.PriceLevel)
	e.QualityScore = place.QualityScore
}

func priceRangeFromLevel(level int) string {
	if level <= 0 {
		return ""
	}
	if level > 4 {
		level = 4
	}
	return strings.Repeat("$", level)
}

func (p *PipelineService) maybeCheckAvailability(place *response_models.VerifiedPlace, date, startTime string) *response_models.AvailabilityCheck {
	scheduledAt, ok := parseScheduledAt(date, startTime)
	if !ok {
		return nil
	}
	check := p.availability.CheckAvailability(place, scheduledAt)
	return &check
}

func parseScheduledAt(date, clock string) (time.Time, bool) {
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04 PM"} {
		if t, err := time.Parse(layout, date+" "+clock); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (p *PipelineService) count(update func(*runStats)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update(&p.stats)
}

// Stats returns a snapshot; the derived rates are computed on read.
func (p *PipelineService) Stats() response_models.PipelineStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := response_models.PipelineStats{
		Total:              p.stats.total,
		Validated:          p.stats.validated,
		Failed:             p.stats.failed,
		Enriched:           p.stats.enriched,
		AvailabilityIssues: p.stats.availabilityIssues,
		Regenerated:        p.stats.regenerated,
	}
	if snapshot.Total > 0 {
		snapshot.ValidationRate = float64(snapshot.Validated) / float64(snapshot.Total)
		snapshot.EnrichmentRate = float64(snapshot.Enriched) / float64(snapshot.Total)
	}
	return snapshot
}

func (p *PipelineService) ResetStats() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = runStats{}
}
