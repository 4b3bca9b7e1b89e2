package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	polyline "github.com/twpayne/go-polyline"

	"github.com/saan-system/hos-trip-service/internal/apperr"
	"github.com/saan-system/hos-trip-service/internal/cache"
	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/retry"
)

// cacheTTL matches the Geocoder's — process-local, read-mostly.
const cacheTTL = 24 * time.Hour

// OSRMRouter calls an OSRM/Valhalla-class HTTP routing endpoint with
// costing=truck semantics.
type OSRMRouter struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

// NewOSRMRouter builds a router against baseURL, e.g.
// "https://router.project-osrm.org".
func NewOSRMRouter(baseURL string, c *cache.Cache) *OSRMRouter {
	return &OSRMRouter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   c,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry string  `json:"geometry"` // encoded polyline, precision 5
	} `json:"routes"`
}

func (r *OSRMRouter) cacheKey(origin, destination geo.NamedPlace) string {
	return fmt.Sprintf("route:%s:%s", origin.Coordinate.String(), destination.Coordinate.String())
}

// Route implements Router.
func (r *OSRMRouter) Route(ctx context.Context, origin, destination geo.NamedPlace) (Segment, error) {
	key := r.cacheKey(origin, destination)

	return cache.ReadThrough(ctx, r.cache, key, cacheTTL, func(ctx context.Context) (Segment, error) {
		return r.fetch(ctx, origin, destination)
	})
}

func (r *OSRMRouter) fetch(ctx context.Context, origin, destination geo.NamedPlace) (Segment, error) {
	coords := fmt.Sprintf("%s;%s",
		formatLngLat(origin.Coordinate), formatLngLat(destination.Coordinate))

	reqURL := fmt.Sprintf("%s/route/v1/driving/%s", r.baseURL, url.PathEscape(coords))
	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "polyline")

	var parsed osrmResponse
	err := retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+q.Encode(), nil)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to build router request", err)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return apperr.Wrap(apperr.KindUpstreamTimeout, "router request failed", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return apperr.New(apperr.KindUpstreamInvalid, "router rejected request").
				WithDetails(map[string]any{"status": resp.StatusCode})
		}
		if resp.StatusCode >= 500 {
			return apperr.New(apperr.KindUpstreamTimeout, "router upstream error").
				WithDetails(map[string]any{"status": resp.StatusCode})
		}

		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return apperr.Wrap(apperr.KindUpstreamInvalid, "failed to decode router response", err)
		}
		return nil
	})
	if err != nil {
		return Segment{}, err
	}

	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return Segment{}, apperr.New(apperr.KindUpstreamInvalid, "router returned no route")
	}

	route := parsed.Routes[0]
	return Segment{
		Origin:        origin,
		Destination:   destination,
		DistanceMiles: route.Distance / 1609.344,
		DurationHours: route.Duration / 3600.0,
		Polyline:      route.Geometry,
	}, nil
}

func formatLngLat(c geo.Coordinate) string {
	return strconv.FormatFloat(c.Lng, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lat, 'f', 6, 64)
}

// DecodePolyline decodes an encoded polyline into a [lat, lng] coordinate
// list, used by the rest-stop locator to interpolate a point along the
// route.
func DecodePolyline(encoded string) ([]geo.Coordinate, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	out := make([]geo.Coordinate, len(coords))
	for i, c := range coords {
		out[i] = geo.Coordinate{Lat: c[0], Lng: c[1]}
	}
	return out, nil
}

// EncodePolyline encodes a [lat, lng] coordinate list.
func EncodePolyline(coords []geo.Coordinate) string {
	pairs := make([][]float64, len(coords))
	for i, c := range coords {
		pairs[i] = []float64{c.Lat, c.Lng}
	}
	return string(polyline.EncodeCoords(pairs))
}
