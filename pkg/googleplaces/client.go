package googleplaces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	mem "veritrip/pkg/memcache"
	"veritrip/pkg/utils"
)

// Provider is the search collaborator consumed by the validation engine.
// TextSearch returns an empty slice (nil error) on zero results; transport
// and provider failures come back as errors wrapping the utils sentinels.
type Provider interface {
	TextSearch(ctx context.Context, query string) ([]Candidate, error)
	GetDetails(ctx context.Context, placeID string) (*PlaceDetails, error)
	PhotoURLs(details *PlaceDetails, max int) []string
}

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

var detailFields = "place_id,name,formatted_address,geometry,rating," +
	"user_ratings_total,price_level,types,business_status,opening_hours," +
	"photos,reviews,website,formatted_phone_number,url"

type Client struct {
	HTTP       *http.Client
	APIKey     string
	BaseURL    string
	Cache      mem.SearchCache
	DefaultTTL time.Duration
}

func NewClient(cache mem.SearchCache) *Client {
	key := os.Getenv("GOOGLE_PLACES_API_KEY")
	if key == "" {
		panic("GOOGLE_PLACES_API_KEY is empty")
	}
	base := os.Getenv("GOOGLE_PLACES_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		HTTP:       &http.Client{Timeout: 15 * time.Second},
		APIKey:     key,
		BaseURL:    base,
		Cache:      cache,
		DefaultTTL: 30 * time.Minute,
	}
}

func (c *Client) TextSearch(ctx context.Context, query string) ([]Candidate, error) {
	if c.Cache != nil {
		if cached, ok := c.Cache.Get(query); ok {
			if results, ok := cached.([]Candidate); ok {
				return results, nil
			}
		}
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("key", c.APIKey)

	var payload searchResponse
	if err := c.getJSON(ctx, "/textsearch/json", q, &payload); err != nil {
		return nil, err
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []Candidate{}, nil
	default:
		return nil, fmt.Errorf("places textsearch status %s (%s): %w",
			payload.Status, payload.ErrorMessage, utils.ErrProviderUnavailable)
	}

	if c.Cache != nil {
		c.Cache.Set(query, payload.Results, c.DefaultTTL)
	}
	return payload.Results, nil
}

// GetDetails returns (nil, nil) when the place id is gone; errors are
// reserved for transport or provider failure. Details are never cached so
// hours and business status stay fresh.
func (c *Client) GetDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailFields)
	q.Set("key", c.APIKey)

	var payload detailsResponse
	if err := c.getJSON(ctx, "/details/json", q, &payload); err != nil {
		return nil, err
	}

	switch payload.Status {
	case "OK":
		return payload.Result, nil
	case "NOT_FOUND", "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("places details status %s (%s): %w",
			payload.Status, payload.ErrorMessage, utils.ErrDetailFetch)
	}
}

func (c *Client) PhotoURLs(details *PlaceDetails, max int) []string {
	if details == nil || len(details.Photos) == 0 {
		return nil
	}
	urls := make([]string, 0, max)
	for _, p := range details.Photos {
		if len(urls) == max {
			break
		}
		if p.PhotoReference == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf(
			"%s/photo?maxwidth=800&photoreference=%s&key=%s",
			c.BaseURL, url.QueryEscape(p.PhotoReference), c.APIKey))
	}
	return urls
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("places request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("places http error: %v: %w", err, utils.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("places bad status %s: %w", resp.Status, utils.ErrProviderUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("places decode: %v: %w", err, utils.ErrProviderUnavailable)
	}
	return nil
}
