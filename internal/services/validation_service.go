package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"veritrip/internal/models/db_models"
	"veritrip/internal/models/request_models"
	"veritrip/internal/models/response_models"
	"veritrip/internal/repositories"
	"veritrip/pkg/googleplaces"
	"veritrip/pkg/utils"
)

const (
	// matchThreshold is inclusive: a total of exactly 0.5 passes.
	matchThreshold = 0.5

	ambiguousCandidateCap = 3
	maxPhotos             = 5
	maxReviews            = 3

	validationBatchSize  = 5
	validationBatchDelay = 200 * time.Millisecond
)

// Component weights for the match score.
const (
	weightName    = 0.5
	weightAddress = 0.2
	weightCity    = 0.1
	weightType    = 0.1
	weightStatus  = 0.1
)

type ValidationStatus string

const (
	StatusValidated ValidationStatus = "validated"
	StatusNotFound  ValidationStatus = "not_found"
	StatusAmbiguous ValidationStatus = "ambiguous"
	StatusError     ValidationStatus = "error"
)

type MatchScore struct {
	Name    float64 `json:"name"`
	Address float64 `json:"address"`
	City    float64 `json:"city"`
	Type    float64 `json:"type"`
	Status  float64 `json:"status"`
	Total   float64 `json:"total"`
}

// ValidationOutcome is the tagged result of matching one discovered place.
// Exactly one of the four statuses applies; Place is set only for
// StatusValidated and Candidates only for StatusAmbiguous.
type ValidationOutcome struct {
	Status     ValidationStatus               `json:"status"`
	Reason     string                         `json:"reason,omitempty"`
	Confidence float64                        `json:"confidence,omitempty"`
	Score      *MatchScore                    `json:"match_score,omitempty"`
	Place      *response_models.VerifiedPlace `json:"place,omitempty"`
	Candidates []googleplaces.Candidate       `json:"candidates,omitempty"`
}

type ValidationServiceInterface interface {
	ValidatePlace(ctx context.Context, discovered request_models.DiscoveredPlace, destination, itineraryID string) (*ValidationOutcome, error)
	ValidateBatch(ctx context.Context, places []request_models.DiscoveredPlace, destination, itineraryID string) (*response_models.BatchValidationSummary, error)
	TopPlaces(ctx context.Context, limit int) ([]response_models.RegistryPlace, error)
}

type ValidationService struct {
	provider googleplaces.Provider
	registry repositories.PlaceRegistryRepository
}

func NewValidationService(provider googleplaces.Provider, registry repositories.PlaceRegistryRepository) ValidationServiceInterface {
	return &ValidationService{
		provider: provider,
		registry: registry,
	}
}

func (v *ValidationService) ValidatePlace(ctx context.Context, discovered request_models.DiscoveredPlace, destination, itineraryID string) (*ValidationOutcome, error) {
	if strings.TrimSpace(discovered.Name) == "" {
		return nil, utils.ErrInvalidInput
	}

	query := buildSearchQuery(discovered, destination)
	candidates, err := v.provider.TextSearch(ctx, query)
	if err != nil {
		log.Printf("Text search failed for %q: %v", query, err)
		return &ValidationOutcome{Status: StatusError, Reason: err.Error()}, nil
	}
	if len(candidates) == 0 {
		return &ValidationOutcome{
			Status: StatusNotFound,
			Reason: fmt.Sprintf("no search results for %q", query),
		}, nil
	}

	scored := scoreCandidates(discovered, candidates, destination)
	best := scored[0]
	for _, s := range scored[1:] {
		// Strictly greater wins, so ties keep provider order.
		if s.score.Total > best.score.Total {
			best = s
		}
	}

	if best.score.Total < matchThreshold {
		return &ValidationOutcome{
			Status:     StatusAmbiguous,
			Reason:     fmt.Sprintf("best match %q scored %.2f, below threshold", best.candidate.Name, best.score.Total),
			Confidence: best.score.Total,
			Score:      &best.score,
			Candidates: topCandidates(scored, ambiguousCandidateCap),
		}, nil
	}

	details, err := v.provider.GetDetails(ctx, best.candidate.PlaceID)
	if err != nil {
		log.Printf("Detail fetch failed for %s: %v", best.candidate.PlaceID, err)
		return &ValidationOutcome{Status: StatusError, Reason: err.Error()}, nil
	}
	if details == nil {
		return &ValidationOutcome{
			Status: StatusError,
			Reason: fmt.Sprintf("details for %s no longer available", best.candidate.PlaceID),
		}, nil
	}

	place := v.buildVerifiedPlace(discovered, details)

	// Best-effort side channel: the registry must never fail a validation.
	go v.persist(place, itineraryID, best.score.Total)

	return &ValidationOutcome{
		Status:     StatusValidated,
		Confidence: best.score.Total,
		Score:      &best.score,
		Place:      place,
	}, nil
}

func (v *ValidationService) ValidateBatch(ctx context.Context, places []request_models.DiscoveredPlace, destination, itineraryID string) (*response_models.BatchValidationSummary, error) {
	outcomes := make([]*ValidationOutcome, len(places))

	for start := 0; start < len(places); start += validationBatchSize {
		if ctx.Err() != nil {
			break
		}
		end := min(start+validationBatchSize, len(places))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				out, err := v.ValidatePlace(ctx, places[i], destination, itineraryID)
				if err != nil {
					out = &ValidationOutcome{Status: StatusError, Reason: err.Error()}
				}
				outcomes[i] = out
			}(i)
		}
		wg.Wait()

		if end < len(places) {
			time.Sleep(validationBatchDelay)
		}
	}

	summary := &response_models.BatchValidationSummary{Total: len(places)}
	var qualitySum float64
	for i, out := range outcomes {
		if out == nil {
			out = &ValidationOutcome{Status: StatusError, Reason: "cancelled before validation"}
		}
		switch out.Status {
		case StatusValidated:
			summary.Validated = append(summary.Validated, *out.Place)
			qualitySum += out.Place.QualityScore
		case StatusNotFound:
			summary.NotFound = append(summary.NotFound, places[i].Name)
		case StatusAmbiguous:
			summary.Ambiguous = append(summary.Ambiguous, places[i].Name)
		default:
			summary.Errors = append(summary.Errors, places[i].Name)
		}
	}
	if summary.Total > 0 {
		summary.ValidationRate = float64(len(summary.Validated)) / float64(summary.Total)
	}
	if n := len(summary.Validated); n > 0 {
		summary.AverageQuality = qualitySum / float64(n)
	}
	return summary, nil
}

func (v *ValidationService) TopPlaces(ctx context.Context, limit int) ([]response_models.RegistryPlace, error) {
	rows, err := v.registry.ListMostUsed(ctx, limit)
	if err != nil {
		log.Printf("Error listing registry places: %v", err)
		return nil, utils.ErrDatabaseError
	}

	places := make([]response_models.RegistryPlace, 0, len(rows))
	for _, row := range rows {
		places = append(places, response_models.RegistryPlace{
			PlaceID:      row.PlaceID,
			Name:         row.Name,
			VerifiedName: row.VerifiedName,
			Address:      row.FormattedAddress,
			Rating:       row.Rating,
			ReviewCount:  row.ReviewCount,
			QualityScore: row.QualityScore,
			UsedCount:    row.UsedCount,
			LastUsedAt:   row.LastUsedAt,
		})
	}
	return places, nil
}

// ----------------------------------------------------------------
// Query construction and scoring
// ----------------------------------------------------------------

// buildSearchQuery concatenates name and locality, adds the address only when
// it does not already mention the locality, and the type for disambiguation.
func buildSearchQuery(d request_models.DiscoveredPlace, destination string) string {
	parts := []string{d.Name, destination}
	if d.Address != "" && !strings.Contains(strings.ToLower(d.Address), strings.ToLower(destination)) {
		parts = append(parts, d.Address)
	}
	if d.Type != "" {
		parts = append(parts, d.Type)
	}
	return strings.Join(parts, " ")
}

type scoredCandidate struct {
	candidate googleplaces.Candidate
	score     MatchScore
}

func scoreCandidates(d request_models.DiscoveredPlace, candidates []googleplaces.Candidate, destination string) []scoredCandidate {
	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, scoredCandidate{candidate: c, score: scoreCandidate(d, c, destination)})
	}
	return scored
}

func scoreCandidate(d request_models.DiscoveredPlace, c googleplaces.Candidate, destination string) MatchScore {
	s := MatchScore{
		Name:    nameSimilarity(d.Name, c.Name),
		Address: addressSimilarity(d.Address, c.FormattedAddress),
		City:    citySimilarity(c.FormattedAddress, destination),
		Type:    typeSimilarity(d.Type, c.Types),
		Status:  statusScore(c.BusinessStatus),
	}
	s.Total = weightName*s.Name + weightAddress*s.Address + weightCity*s.City +
		weightType*s.Type + weightStatus*s.Status
	return s
}

func topCandidates(scored []scoredCandidate, limit int) []googleplaces.Candidate {
	ordered := make([]scoredCandidate, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].score.Total > ordered[j].score.Total
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	out := make([]googleplaces.Candidate, 0, len(ordered))
	for _, s := range ordered {
		out = append(out, s.candidate)
	}
	return out
}

func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r > 127:
			// Keep accented letters; only ASCII punctuation is stripped.
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func nameSimilarity(discovered, candidate string) float64 {
	a, b := normalizeName(discovered), normalizeName(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	wordsA, wordsB := strings.Fields(a), strings.Fields(b)
	seen := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		seen[w] = true
	}
	common := 0
	for _, w := range wordsB {
		if seen[w] {
			common++
			seen[w] = false
		}
	}
	return float64(common) / float64(max(len(wordsA), len(wordsB)))
}

var leadingNumber = func(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func addressSimilarity(discovered, candidate string) float64 {
	if discovered == "" {
		// Missing data is neutral, not a penalty.
		return 0.5
	}
	a, b := strings.ToLower(discovered), strings.ToLower(candidate)
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1.0
	}
	if na, nb := leadingNumber(a), leadingNumber(b); na != "" && na == nb {
		return 0.8
	}
	return 0.3
}

func citySimilarity(formattedAddress, destination string) float64 {
	if destination != "" && strings.Contains(strings.ToLower(formattedAddress), strings.ToLower(destination)) {
		return 1.0
	}
	return 0.5
}

func normalizeType(s string) string {
	s = strings.ToLower(s)
	for _, sep := range []string{"_", "-", " "} {
		s = strings.ReplaceAll(s, sep, "")
	}
	return s
}

func typeSimilarity(discoveredType string, candidateTypes []string) float64 {
	if discoveredType == "" {
		return 0.5
	}
	want := normalizeType(discoveredType)
	best := 0.3
	for _, t := range candidateTypes {
		got := normalizeType(t)
		if got == "" {
			continue
		}
		switch {
		case got == want:
			return 1.0
		case strings.Contains(got, want) || strings.Contains(want, got):
			if best < 0.8 {
				best = 0.8
			}
		}
	}
	return best
}

func statusScore(businessStatus string) float64 {
	// Results routinely omit business_status; missing is taken as operational.
	if businessStatus == "" || businessStatus == googleplaces.BusinessStatusOperational {
		return 1.0
	}
	return 0.0
}

// ----------------------------------------------------------------
// Enrichment
// ----------------------------------------------------------------

func (v *ValidationService) buildVerifiedPlace(d request_models.DiscoveredPlace, details *googleplaces.PlaceDetails) *response_models.VerifiedPlace {
	hours := googleplaces.NormalizeHours(details)

	place := &response_models.VerifiedPlace{
		Name:            d.Name,
		Address:         d.Address,
		Type:            d.Type,
		Cuisine:         d.Cuisine,
		EstimatedCost:   d.EstimatedCost,
		WhySpecial:      d.WhySpecial,
		UniquenessScore: d.UniquenessScore,

		PlaceID:          details.PlaceID,
		VerifiedName:     details.Name,
		FormattedAddress: details.FormattedAddress,
		Coordinates: response_models.Coordinates{
			Latitude:  details.Geometry.Location.Lat,
			Longitude: details.Geometry.Location.Lng,
		},
		Rating:         details.Rating,
		ReviewCount:    details.UserRatingsTotal,
		PriceLevel:     details.PriceLevel,
		Types:          details.Types,
		OpeningHours:   hours.WeekdayText,
		Photos:         v.provider.PhotoURLs(details, maxPhotos),
		GoogleMapsURL:  details.URL,
		Website:        details.Website,
		Phone:          details.FormattedPhoneNumber,
		BusinessStatus: details.BusinessStatus,
		ValidatedAt:    time.Now().Unix(),
	}

	for _, r := range googleplaces.TopReviews(details, maxReviews) {
		place.TopReviews = append(place.TopReviews, response_models.PlaceReview{
			Author: r.AuthorName,
			Rating: r.Rating,
			Text:   r.Text,
			When:   r.RelativeTime,
		})
	}

	place.QualityScore = qualityScore(place)
	return place
}

// qualityScore combines popularity, rating, uniqueness and data completeness.
// Each term counts only when its source datum exists; weights renormalize
// over the present terms.
func qualityScore(p *response_models.VerifiedPlace) float64 {
	var sum, weight float64

	if p.Rating > 0 {
		sum += p.Rating / 5 * 0.35
		weight += 0.35
	}
	if p.ReviewCount > 0 {
		// Diminishing returns, saturating around 10,000 reviews.
		volume := math.Log10(float64(p.ReviewCount)) / 4
		if volume > 1 {
			volume = 1
		}
		sum += volume * 0.25
		weight += 0.25
	}
	if p.UniquenessScore > 0 {
		uniq := p.UniquenessScore / 10
		if uniq > 1 {
			uniq = 1
		}
		sum += uniq * 0.2
		weight += 0.2
	}
	sum += completeness(p) * 0.2
	weight += 0.2

	if weight == 0 {
		return 0.5
	}
	return sum / weight
}

func completeness(p *response_models.VerifiedPlace) float64 {
	present := 0
	if p.FormattedAddress != "" {
		present++
	}
	if p.Coordinates.Latitude != 0 || p.Coordinates.Longitude != 0 {
		present++
	}
	if p.Rating > 0 {
		present++
	}
	if p.ReviewCount > 0 {
		present++
	}
	if len(p.OpeningHours) > 0 {
		present++
	}
	if len(p.Photos) > 0 {
		present++
	}
	if p.Website != "" {
		present++
	}
	if p.Phone != "" {
		present++
	}
	if len(p.Types) > 0 {
		present++
	}
	return float64(present) / 9.0
}

// ----------------------------------------------------------------
// Best-effort persistence
// ----------------------------------------------------------------

func (v *ValidationService) persist(place *response_models.VerifiedPlace, itineraryID string, confidence float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := &db_models.ValidatedPlace{
		PlaceID:          place.PlaceID,
		Name:             place.Name,
		VerifiedName:     place.VerifiedName,
		FormattedAddress: place.FormattedAddress,
		Latitude:         place.Coordinates.Latitude,
		Longitude:        place.Coordinates.Longitude,
		Rating:           place.Rating,
		ReviewCount:      place.ReviewCount,
		PriceLevel:       place.PriceLevel,
		BusinessStatus:   place.BusinessStatus,
		Types:            pq.StringArray(place.Types),
		WeekdayText:      pq.StringArray(place.OpeningHours),
		Photos:           pq.StringArray(place.Photos),
		GoogleMapsURL:    place.GoogleMapsURL,
		Website:          place.Website,
		Phone:            place.Phone,
		QualityScore:     place.QualityScore,
		UsedCount:        1,
		LastUsedAt:       time.Now().Unix(),
		ValidatedAt:      place.ValidatedAt,
	}
	if err := v.registry.UpsertValidatedPlace(ctx, row); err != nil {
		log.Printf("Registry upsert failed for %s: %v", place.PlaceID, err)
	}

	if itineraryID == "" {
		return
	}
	history := &db_models.ValidationHistory{
		ItineraryID:    itineraryID,
		PlaceID:        place.PlaceID,
		DiscoveredName: place.Name,
		Status:         string(StatusValidated),
		Confidence:     confidence,
		QualityScore:   place.QualityScore,
	}
	if err := v.registry.AppendValidationHistory(ctx, history); err != nil {
		log.Printf("Validation history append failed for %s: %v", place.PlaceID, err)
	}
}
