package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritrip/internal/models/db_models"
	"veritrip/internal/models/request_models"
	"veritrip/pkg/googleplaces"
	"veritrip/pkg/utils"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeProvider struct {
	search  func(ctx context.Context, query string) ([]googleplaces.Candidate, error)
	details func(ctx context.Context, placeID string) (*googleplaces.PlaceDetails, error)

	mu          sync.Mutex
	lastQueries []string
}

func (f *fakeProvider) TextSearch(ctx context.Context, query string) ([]googleplaces.Candidate, error) {
	f.mu.Lock()
	f.lastQueries = append(f.lastQueries, query)
	f.mu.Unlock()
	if f.search == nil {
		return []googleplaces.Candidate{}, nil
	}
	return f.search(ctx, query)
}

func (f *fakeProvider) GetDetails(ctx context.Context, placeID string) (*googleplaces.PlaceDetails, error) {
	if f.details == nil {
		return nil, nil
	}
	return f.details(ctx, placeID)
}

func (f *fakeProvider) PhotoURLs(details *googleplaces.PlaceDetails, max int) []string {
	if details == nil {
		return nil
	}
	var urls []string
	for _, p := range details.Photos {
		if len(urls) == max {
			break
		}
		urls = append(urls, "https://photos.test/"+p.PhotoReference)
	}
	return urls
}

type fakeRegistry struct {
	mu        sync.Mutex
	upserts   []*db_models.ValidatedPlace
	histories []*db_models.ValidationHistory
}

func (f *fakeRegistry) UpsertValidatedPlace(ctx context.Context, place *db_models.ValidatedPlace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, place)
	return nil
}

func (f *fakeRegistry) AppendValidationHistory(ctx context.Context, record *db_models.ValidationHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, record)
	return nil
}

func (f *fakeRegistry) GetByPlaceID(ctx context.Context, placeID string) (*db_models.ValidatedPlace, error) {
	return nil, nil
}

func (f *fakeRegistry) ListMostUsed(ctx context.Context, limit int) ([]db_models.ValidatedPlace, error) {
	return nil, nil
}

func (f *fakeRegistry) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func operationalCandidate(placeID, name, address string) googleplaces.Candidate {
	return googleplaces.Candidate{
		PlaceID:          placeID,
		Name:             name,
		FormattedAddress: address,
		BusinessStatus:   googleplaces.BusinessStatusOperational,
	}
}

func detailsFor(c googleplaces.Candidate) *googleplaces.PlaceDetails {
	return &googleplaces.PlaceDetails{
		PlaceID:          c.PlaceID,
		Name:             c.Name,
		FormattedAddress: c.FormattedAddress,
		Geometry:         googleplaces.Geometry{Location: googleplaces.LatLng{Lat: 48.858, Lng: 2.294}},
		Rating:           4.6,
		UserRatingsTotal: 140000,
		BusinessStatus:   c.BusinessStatus,
	}
}

func newTestService(provider *fakeProvider) (ValidationServiceInterface, *fakeRegistry) {
	registry := &fakeRegistry{}
	return NewValidationService(provider, registry), registry
}

// ==========================
// Scoring
// ==========================

func TestNameSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, nameSimilarity("Le Jardin", "le jardin"), 1e-9)
	assert.InDelta(t, 1.0, nameSimilarity("Café Rouge!", "café rouge"), 1e-9)
	assert.InDelta(t, 0.9, nameSimilarity("Eiffel Tower", "Eiffel Tower - Official"), 1e-9)
	assert.InDelta(t, 0.4, nameSimilarity("alpha beta gamma delta epsilon", "alpha beta zeta eta theta"), 1e-9)
	assert.InDelta(t, 0.0, nameSimilarity("one two", "three four"), 1e-9)
}

func TestAddressSimilarity(t *testing.T) {
	assert.InDelta(t, 0.5, addressSimilarity("", "12 Main St"), 1e-9, "missing address is neutral")
	assert.InDelta(t, 1.0, addressSimilarity("12 Main St", "12 Main St, Springfield"), 1e-9)
	assert.InDelta(t, 0.8, addressSimilarity("12 Main Street", "12 Rue Principale"), 1e-9, "matching street numbers")
	assert.InDelta(t, 0.3, addressSimilarity("12 Main St", "44 Elm Ave"), 1e-9)
}

func TestTypeSimilarity(t *testing.T) {
	assert.InDelta(t, 0.5, typeSimilarity("", []string{"museum"}), 1e-9)
	assert.InDelta(t, 1.0, typeSimilarity("art gallery", []string{"art_gallery", "museum"}), 1e-9)
	assert.InDelta(t, 0.8, typeSimilarity("gallery", []string{"art_gallery"}), 1e-9)
	assert.InDelta(t, 0.3, typeSimilarity("bakery", []string{"museum"}), 1e-9)
}

func TestBuildSearchQuery(t *testing.T) {
	t.Run("address appended when it lacks the locality", func(t *testing.T) {
		q := buildSearchQuery(request_models.DiscoveredPlace{
			Name: "Blue Door", Address: "12 Harbor Rd", Type: "cafe",
		}, "Lisbon")
		assert.Equal(t, "Blue Door Lisbon 12 Harbor Rd cafe", q)
	})

	t.Run("address skipped when it already names the locality", func(t *testing.T) {
		q := buildSearchQuery(request_models.DiscoveredPlace{
			Name: "Blue Door", Address: "12 Harbor Rd, Lisbon",
		}, "Lisbon")
		assert.Equal(t, "Blue Door Lisbon", q)
	})
}

// ==========================
// Validation outcomes
// ==========================

func TestValidatePlace_NotFound(t *testing.T) {
	provider := &fakeProvider{}
	svc, _ := newTestService(provider)

	outcome, err := svc.ValidatePlace(context.Background(), request_models.DiscoveredPlace{Name: "Ghost Bar"}, "Lisbon", "")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, outcome.Status)
	assert.NotEmpty(t, outcome.Reason)
}

func TestValidatePlace_EmptyNameRejected(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{})

	_, err := svc.ValidatePlace(context.Background(), request_models.DiscoveredPlace{Name: "  "}, "Lisbon", "")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestValidatePlace_ThresholdBoundary(t *testing.T) {
	// name overlap 2/5 = 0.4, neutral address/city/type, operational status:
	// total lands exactly on the inclusive 0.5 threshold.
	boundary := operationalCandidate("pid-1", "alpha beta zeta eta theta", "somewhere else")

	t.Run("exactly at threshold validates", func(t *testing.T) {
		provider := &fakeProvider{
			search: func(ctx context.Context, query string) ([]googleplaces.Candidate, error) {
				return []googleplaces.Candidate{boundary}, nil
			},
			details: func(ctx context.Context, placeID string) (*googleplaces.PlaceDetails, error) {
				return detailsFor(boundary), nil
			},
		}
		svc, _ := newTestService(provider)

		outcome, err := svc.ValidatePlace(context.Background(),
			request_models.DiscoveredPlace{Name: "alpha beta gamma delta epsilon"}, "Lisbon", "")
		require.NoError(t, err)
		assert.Equal(t, StatusValidated, outcome.Status)
		assert.InDelta(t, 0.5, outcome.Confidence, 1e-9)
	})

	t.Run("just below threshold is ambiguous", func(t *testing.T) {
		notOperational := boundary
		notOperational.BusinessStatus = googleplaces.BusinessStatusClosedTemporarily
		provider := &fakeProvider{
			search: func(ctx context.Context, query string) ([]googleplaces.Candidate, error) {
				return []googleplaces.Candidate{notOperational}, nil
			},
		}
		svc, _ := newTestService(provider)

		outcome, err := svc.ValidatePlace(context.Background(),
			request_models.DiscoveredPlace{Name: "alpha beta gamma delta epsilon"}, "Lisbon", "")
		require.NoError(t, err)
		assert.Equal(t, StatusAmbiguous, outcome.Status)
		assert.Less(t, outcome.Confidence, 0.5)
		require.NotEmpty(t, outcome.Candidates)
	})
}

func TestValidatePlace_ContainmentMatch(t *testing.T) {
	candidate := operationalCandidate("pid-eiffel", "Eiffel Tower - Official",
		"Champ de Mars, 5 Av. Anatole France, 75007 Paris, France")
	candidate.Types = []string{"tourist_attraction"}

	provider := &fakeProvider{
		search: func(ctx context.Context, query string) ([]googleplaces.Candidate, error) {
			return []googleplaces.Candidate{candidate}, nil
		},
		details: func(ctx context.Context, placeID string) (*googleplaces.PlaceDetails, error) {
			d := detailsFor(candidate)
			d.Photos = []googleplaces.Photo{{PhotoReference: "ref1"}, {PhotoReference: "ref2"}}
			d.Reviews = []googleplaces.Review{
				{AuthorName: "a", Rating: 5, Text: "great"},
				{AuthorName: "b", Rating: 4, Text: "good"},
				{AuthorName: "c", Rating: 5, Text: "wow"},
				{AuthorName: "d", Rating: 3, Text: "ok"},
			}
			return d, nil
		},
	}
	svc, registry := newTestService(provider)

	outcome, err := svc.ValidatePlace(context.Background(),
		request_models.DiscoveredPlace{Name: "Eiffel Tower", UniquenessScore: 9}, "Paris", "itin-1")
	require.NoError(t, err)
	require.Equal(t, StatusValidated, outcome.Status)

	require.NotNil(t, outcome.Score)
	assert.InDelta(t, 0.9, outcome.Score.Name, 1e-9)
	assert.GreaterOrEqual(t, outcome.Score.Total, 0.5)

	place := outcome.Place
	require.NotNil(t, place)
	assert.Equal(t, "pid-eiffel", place.PlaceID)
	assert.Equal(t, "Eiffel Tower", place.Name, "discovery name kept")
	assert.Equal(t, "Eiffel Tower - Official", place.VerifiedName)
	assert.Len(t, place.TopReviews, 3, "reviews capped")
	assert.Len(t, place.Photos, 2)
	assert.Greater(t, place.QualityScore, 0.5)

	// Persistence is fire-and-forget but should land shortly.
	assert.Eventually(t, func() bool { return registry.upsertCount() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestValidatePlace_TiesKeepProviderOrder(t *testing.T) {
	first := operationalCandidate("pid-first", "Twin Cafe", "1 A St")
	second := operationalCandidate("pid-second", "Twin Cafe", "1 A St")

	var fetched string
	provider := &fakeProvider{
		search: func(ctx context.Context, query string) ([]googleplaces.Candidate, error) {
			return []googleplaces.Candidate{first, second}, nil
		},
		details: func(ctx context.Context, placeID string) (*googleplaces.PlaceDetails, error) {
			fetched = placeID
			return detailsFor(first), nil
		},
	}
	svc, _ := newTestService(provider)

	outcome, err := svc.ValidatePlace(context.Background(),
		request_models.DiscoveredPlace{Name: "Twin Cafe"}, "Lisbon", "")
	require.NoError(t, err)
	require.Equal(t, StatusValidated, outcome.Status)
	assert.Equal(t, "pid-first", fetched)
}

func TestValidatePlace_DetailFetchFailure(t *testing.T) {
	candidate := operationalCandidate("pid-x", "Blue Door", "12 Harbor Rd")
	provider := &fakeProvider{
		search: func(ctx context.Context, query string) ([]googleplaces.Candidate, error) {
			return []googleplaces.Candidate{candidate}, nil
		},
		details: func(ctx context.Context, placeID string) (*googleplaces.PlaceDetails, error) {
			return nil, errors.New("boom")
		},
	}
	svc, registry := newTestService(provider)

	outcome, err := svc.ValidatePlace(context.Background(),
		request_models.DiscoveredPlace{Name: "Blue Door"}, "Lisbon", "")
	require.NoError(t, err)
	assert.Equal(t, StatusError, outcome.Status)
	assert.Equal(t, 0, registry.upsertCount())
}

func TestValidatePlace_SearchFailureBecomesErrorOutcome(t *testing.T) {
	provider := &fakeProvider{
		search: func(ctx context.Context, query string) ([]googleplaces.Candidate, error) {
			return nil, utils.ErrProviderUnavailable
		},
	}
	svc, _ := newTestService(provider)

	outcome, err := svc.ValidatePlace(context.Background(),
		request_models.DiscoveredPlace{Name: "Blue Door"}, "Lisbon", "")
	require.NoError(t, err)
	assert.Equal(t, StatusError, outcome.Status)
}

// ==========================
// Batch mode
// ==========================

func TestValidateBatch_Buckets(t *testing.T) {
	good := operationalCandidate("pid-good", "Good Place", "1 A St")
	provider := &fakeProvider{
		search: func(ctx context.Context, query string) ([]googleplaces.Candidate, error) {
			switch {
			case strings.Contains(query, "Good Place"):
				return []googleplaces.Candidate{good}, nil
			case strings.Contains(query, "Ghost Bar"):
				return []googleplaces.Candidate{}, nil
			case strings.Contains(query, "Vague Spot"):
				weak := operationalCandidate("pid-weak", "Entirely Different Name", "9 Z St")
				weak.BusinessStatus = googleplaces.BusinessStatusClosedTemporarily
				return []googleplaces.Candidate{weak}, nil
			default:
				return nil, errors.New("provider down")
			}
		},
		details: func(ctx context.Context, placeID string) (*googleplaces.PlaceDetails, error) {
			return detailsFor(good), nil
		},
	}
	svc, _ := newTestService(provider)

	places := []request_models.DiscoveredPlace{
		{Name: "Good Place"},
		{Name: "Ghost Bar"},
		{Name: "Vague Spot"},
		{Name: "Broken"},
	}
	summary, err := svc.ValidateBatch(context.Background(), places, "Lisbon", "")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	require.Len(t, summary.Validated, 1)
	assert.Equal(t, []string{"Ghost Bar"}, summary.NotFound)
	assert.Equal(t, []string{"Vague Spot"}, summary.Ambiguous)
	assert.Equal(t, []string{"Broken"}, summary.Errors)
	assert.InDelta(t, 0.25, summary.ValidationRate, 1e-9)
	assert.InDelta(t, summary.Validated[0].QualityScore, summary.AverageQuality, 1e-9)
}

func TestValidateBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, _ := newTestService(&fakeProvider{})
	summary, err := svc.ValidateBatch(ctx, []request_models.DiscoveredPlace{
		{Name: "A"}, {Name: "B"},
	}, "Lisbon", "")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Len(t, summary.Errors, 2, "unprocessed items are still reported")
}
