package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/saan-system/hos-trip-service/internal/apperr"
	"github.com/saan-system/hos-trip-service/internal/cache"
	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/retry"
)

const cacheTTL = 7 * 24 * time.Hour

// NominatimGeocoder calls a Nominatim-class search endpoint, rate-limited
// to the 1 request/second ceiling public instances require.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     *cache.Cache
	limiter   *rate.Limiter
}

// NewNominatimGeocoder builds a geocoder against baseURL, e.g.
// "https://nominatim.openstreetmap.org".
func NewNominatimGeocoder(baseURL, userAgent string, c *cache.Cache) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
		cache:     c,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Geocode implements Geocoder.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (geo.NamedPlace, error) {
	results, err := g.Search(ctx, address, 1)
	if err != nil {
		return geo.NamedPlace{}, err
	}
	if len(results) == 0 {
		return geo.NamedPlace{}, apperr.New(apperr.KindUpstreamInvalid, "no geocoding result for address").
			WithDetails(map[string]any{"address": address})
	}
	return results[0], nil
}

// Search implements Geocoder.
func (g *NominatimGeocoder) Search(ctx context.Context, address string, limit int) ([]geo.NamedPlace, error) {
	key := fmt.Sprintf("geocode:%d:%s", limit, address)

	return cache.ReadThrough(ctx, g.cache, key, cacheTTL, func(ctx context.Context) ([]geo.NamedPlace, error) {
		return g.fetch(ctx, address, limit)
	})
}

func (g *NominatimGeocoder) fetch(ctx context.Context, address string, limit int) ([]geo.NamedPlace, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindRateLimited, "geocoder rate budget exceeded", err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))

	var results []nominatimResult
	err := retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to build geocode request", err)
		}
		req.Header.Set("User-Agent", g.userAgent)

		resp, err := g.client.Do(req)
		if err != nil {
			return apperr.Wrap(apperr.KindUpstreamTimeout, "geocode request failed", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return apperr.New(apperr.KindUpstreamInvalid, "geocoder rejected request").
				WithDetails(map[string]any{"status": resp.StatusCode})
		}
		if resp.StatusCode >= 500 {
			return apperr.New(apperr.KindUpstreamTimeout, "geocoder upstream error").
				WithDetails(map[string]any{"status": resp.StatusCode})
		}

		if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
			return apperr.Wrap(apperr.KindUpstreamInvalid, "failed to decode geocode response", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	places := make([]geo.NamedPlace, 0, len(results))
	for _, r := range results {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			continue
		}
		places = append(places, geo.NewNamedPlace(address, r.DisplayName, geo.Coordinate{Lat: lat, Lng: lon}))
	}
	return places, nil
}
