package reststop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saan-system/hos-trip-service/internal/apperr"
	"github.com/saan-system/hos-trip-service/internal/cache"
	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/retry"
)

const (
	cacheTTL      = 24 * time.Hour
	searchRadiusM = 8000
)

// OverpassLocator queries an Overpass-API-class endpoint for fuel/truck-stop
// points of interest near a coordinate.
type OverpassLocator struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

// NewOverpassLocator builds a locator against baseURL, e.g.
// "https://overpass-api.de/api/interpreter".
func NewOverpassLocator(baseURL string, c *cache.Cache) *OverpassLocator {
	return &OverpassLocator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   c,
	}
}

type overpassResponse struct {
	Elements []struct {
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

func amenityTag(kind StopKind) string {
	if kind == KindFuel {
		return "fuel"
	}
	return "truck"
}

// Locate implements Locator.
func (l *OverpassLocator) Locate(ctx context.Context, coord geo.Coordinate, kind StopKind) (geo.NamedPlace, error) {
	key := fmt.Sprintf("reststop:%s:%s", kind, coord.Round().String())

	return cache.ReadThrough(ctx, l.cache, key, cacheTTL, func(ctx context.Context) (geo.NamedPlace, error) {
		return l.fetch(ctx, coord, kind)
	})
}

func (l *OverpassLocator) fetch(ctx context.Context, coord geo.Coordinate, kind StopKind) (geo.NamedPlace, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:10];node["amenity"="%s"](around:%d,%f,%f);out 1;`,
		amenityTag(kind), searchRadiusM, coord.Lat, coord.Lng,
	)

	var parsed overpassResponse
	err := retry.Do(ctx, func(ctx context.Context) error {
		form := url.Values{"data": {query}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to build rest-stop request", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := l.client.Do(req)
		if err != nil {
			return apperr.Wrap(apperr.KindUpstreamTimeout, "rest-stop request failed", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return apperr.New(apperr.KindUpstreamInvalid, "rest-stop locator rejected request")
		}
		if resp.StatusCode >= 500 {
			return apperr.New(apperr.KindUpstreamTimeout, "rest-stop locator upstream error")
		}

		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return apperr.Wrap(apperr.KindUpstreamInvalid, "failed to decode rest-stop response", err)
		}
		return nil
	})
	if err != nil {
		return geo.NamedPlace{}, err
	}

	if len(parsed.Elements) == 0 {
		return geo.NamedPlace{}, apperr.New(apperr.KindUpstreamInvalid, "no rest stop found nearby")
	}

	el := parsed.Elements[0]
	name := el.Tags["name"]
	if name == "" {
		name = fmt.Sprintf("%s stop near %.4f,%.4f", amenityTag(kind), el.Lat, el.Lon)
	}
	return geo.NewNamedPlace(name, name, geo.Coordinate{Lat: el.Lat, Lng: el.Lon}), nil
}
