package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saan-system/hos-trip-service/internal/application"
	"github.com/saan-system/hos-trip-service/internal/auth"
	"github.com/saan-system/hos-trip-service/internal/geo"
	"github.com/saan-system/hos-trip-service/internal/hos"
	"github.com/saan-system/hos-trip-service/internal/repository"
	"github.com/saan-system/hos-trip-service/internal/routing"
	"github.com/saan-system/hos-trip-service/internal/scheduler"
	"github.com/saan-system/hos-trip-service/internal/transport/http/handler"
	"github.com/saan-system/hos-trip-service/internal/trip"
)

// --- fakes, in lieu of the live Nominatim/OSRM/Overpass/Postgres adapters ---

type fakeGeocoder struct{}

func (fakeGeocoder) Geocode(ctx context.Context, address string) (geo.NamedPlace, error) {
	return geo.NewNamedPlace(address, address, geo.Coordinate{Lat: 39.0, Lng: -94.0}), nil
}

func (f fakeGeocoder) Search(ctx context.Context, address string, limit int) ([]geo.NamedPlace, error) {
	p, _ := f.Geocode(ctx, address)
	return []geo.NamedPlace{p}, nil
}

type fakeRouter struct{}

func (fakeRouter) Route(ctx context.Context, origin, destination geo.NamedPlace) (routing.Segment, error) {
	return routing.Segment{Origin: origin, Destination: destination, DistanceMiles: 100, DurationHours: 2}, nil
}

type fakeTripRepository struct {
	trips map[uuid.UUID]*trip.Trip
}

func newFakeTripRepository() *fakeTripRepository {
	return &fakeTripRepository{trips: make(map[uuid.UUID]*trip.Trip)}
}

func (f *fakeTripRepository) Create(ctx context.Context, t *trip.Trip) error {
	f.trips[t.ID] = t
	return nil
}

func (f *fakeTripRepository) GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	if t, ok := f.trips[id]; ok {
		return t, nil
	}
	return nil, repository.ErrTripNotFound
}

func (f *fakeTripRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*trip.Trip, error) {
	var out []*trip.Trip
	for _, t := range f.trips {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.trips[id]; !ok {
		return repository.ErrTripNotFound
	}
	delete(f.trips, id)
	return nil
}

type fakeUserRepository struct {
	byEmail map[string]*auth.User
	byID    map[uuid.UUID]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byEmail: make(map[string]*auth.User), byID: make(map[uuid.UUID]*auth.User)}
}

func (r *fakeUserRepository) Create(ctx context.Context, u *auth.User) error {
	r.byEmail[u.Email] = u
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

func (r *fakeUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

type fakeRefreshTokenRepository struct {
	byHash map[string]*auth.RefreshToken
}

func newFakeRefreshTokenRepository() *fakeRefreshTokenRepository {
	return &fakeRefreshTokenRepository{byHash: make(map[string]*auth.RefreshToken)}
}

func (r *fakeRefreshTokenRepository) Create(ctx context.Context, t *auth.RefreshToken) error {
	r.byHash[t.TokenHash] = t
	return nil
}

func (r *fakeRefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	if t, ok := r.byHash[tokenHash]; ok {
		return t, nil
	}
	return nil, auth.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	for _, t := range r.byHash {
		if t.ID == id {
			now := time.Now()
			t.RevokedAt = &now
			return nil
		}
	}
	return nil
}

// --- test harness ---

func newTestRouter(t *testing.T) (router *mux.Router, issuer *auth.TokenIssuer) {
	t.Helper()

	issuer = auth.NewTokenIssuer("test-signing-key", time.Hour, 24*time.Hour)

	tripUseCase := application.NewTripUseCase(
		fakeGeocoder{},
		fakeRouter{},
		scheduler.New(hos.Default, nil),
		newFakeTripRepository(),
		nil, // publisher: Calculate tolerates a nil publisher
		hos.Default,
	)
	geocodeUseCase := application.NewGeocodeUseCase(fakeGeocoder{})
	authService := auth.NewService(newFakeUserRepository(), newFakeRefreshTokenRepository(), issuer, 4)

	tripHandler := handler.NewTripHandler(tripUseCase)
	geocodeHandler := handler.NewGeocodeHandler(geocodeUseCase)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(nil, nil, nil)

	router = mux.NewRouter()
	setupRoutes(router, tripHandler, geocodeHandler, authHandler, healthHandler, issuer, []string{"*"}, zap.NewNop())
	return router, issuer
}

func bearerToken(t *testing.T, issuer *auth.TokenIssuer, ownerID uuid.UUID) string {
	t.Helper()
	token, err := issuer.IssueAccessToken(ownerID, "driver@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCalculate_EndToEndHandlerFlow(t *testing.T) {
	router, issuer := newTestRouter(t)
	ownerID := uuid.New()

	reqBody, err := json.Marshal(application.CalculateRequest{
		CurrentLocation:   "Kansas City, MO",
		PickupLocation:    "Topeka, KS",
		DropoffLocation:   "Omaha, NE",
		CurrentCycleHours: 10,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/trips/calculate", bytes.NewReader(reqBody))
	req.Header.Set("Authorization", bearerToken(t, issuer, ownerID))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["trip_id"])
	assert.Contains(t, body, "summary")
	assert.Contains(t, body, "route")
	assert.Contains(t, body, "stops")
	assert.Contains(t, body, "daily_logs")
}

func TestCalculate_MissingBearerTokenRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCalculate_InvalidBodyRejected(t *testing.T) {
	router, issuer := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/trips/calculate", bytes.NewReader([]byte("not json")))
	req.Header.Set("Authorization", bearerToken(t, issuer, uuid.New()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculate_GetAndDeleteRoundTrip(t *testing.T) {
	router, issuer := newTestRouter(t)
	ownerID := uuid.New()
	token := bearerToken(t, issuer, ownerID)

	reqBody, err := json.Marshal(application.CalculateRequest{
		CurrentLocation:   "Kansas City, MO",
		PickupLocation:    "Topeka, KS",
		DropoffLocation:   "Omaha, NE",
		CurrentCycleHours: 5,
	})
	require.NoError(t, err)

	createReq := httptest.NewRequest(http.MethodPost, "/trips/calculate", bytes.NewReader(reqBody))
	createReq.Header.Set("Authorization", token)
	createRec := httptest.NewRecorder()
	router.ServeHTTP(createRec, createReq)
	require.Equal(t, http.StatusOK, createRec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))
	tripID := created["trip_id"].(string)

	getReq := httptest.NewRequest(http.MethodGet, "/trips/"+tripID, nil)
	getReq.Header.Set("Authorization", token)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)

	deleteReq := httptest.NewRequest(http.MethodDelete, "/trips/"+tripID, nil)
	deleteReq.Header.Set("Authorization", token)
	deleteRec := httptest.NewRecorder()
	router.ServeHTTP(deleteRec, deleteReq)
	assert.Equal(t, http.StatusNoContent, deleteRec.Code)

	getAgainReq := httptest.NewRequest(http.MethodGet, "/trips/"+tripID, nil)
	getAgainReq.Header.Set("Authorization", token)
	getAgainRec := httptest.NewRecorder()
	router.ServeHTTP(getAgainRec, getAgainReq)
	assert.Equal(t, http.StatusNotFound, getAgainRec.Code)
}
