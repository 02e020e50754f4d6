package place

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MockPlaceRepo is a mock implementation of Repository
type MockPlaceRepo struct {
	mock.Mock
}

func (m *MockPlaceRepo) SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]types.Place, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceRepo) FindActiveByTags(ctx context.Context, tags []string, limit int) ([]types.Place, error) {
	args := m.Called(ctx, tags, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceRepo) UpsertPlace(ctx context.Context, req types.UpsertPlaceRequest) (uuid.UUID, bool, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func newTestService(repo Repository) *ServiceImpl {
	s := NewServiceImpl(repo, slog.Default())
	// Tuesday noon, so "tue" opening-hours entries decide open-now.
	s.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func geoPlace(name string, lat, lng float64, placeTypes []string, rating float64) types.Place {
	r := rating
	return types.Place{
		ID: uuid.New(), Status: types.PlaceStatusActive, Name: name,
		City: "Paris", Country: "France",
		Lat: &lat, Lng: &lng, Types: placeTypes, Rating: &r,
	}
}

func TestSearchPlacesShufflesAndLimits(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	pool := make([]types.Place, 0, 100)
	for i := 0; i < 100; i++ {
		pool = append(pool, geoPlace("Place", 48.85, 2.35, []string{"cafe"}, 4.0))
	}
	mockRepo.On("SearchPlaces", mock.Anything, mock.MatchedBy(func(f types.PlaceFilter) bool {
		return f.City == "Paris" && f.Limit == searchSampleSize
	})).Return(pool, nil)

	service := newTestService(mockRepo)
	places, err := service.SearchPlaces(context.Background(), types.PlaceFilter{City: "Paris"})
	require.NoError(t, err)
	assert.Len(t, places, searchMaxResults)
	mockRepo.AssertExpectations(t)
}

func TestSearchPlacesConcurrent(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	pool := make([]types.Place, 0, 100)
	for i := 0; i < 100; i++ {
		pool = append(pool, geoPlace("Place", 48.85, 2.35, []string{"cafe"}, 4.0))
	}
	mockRepo.On("SearchPlaces", mock.Anything, mock.Anything).Return(pool, nil)

	service := newTestService(mockRepo)

	// Run with -race: the shuffle must not share generator state
	// across requests.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				places, err := service.SearchPlaces(context.Background(), types.PlaceFilter{City: "Paris"})
				assert.NoError(t, err)
				assert.Len(t, places, searchMaxResults)
			}
		}()
	}
	wg.Wait()
}

func TestSearchPlacesRequiresCity(t *testing.T) {
	service := newTestService(new(MockPlaceRepo))
	_, err := service.SearchPlaces(context.Background(), types.PlaceFilter{})
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestNearbyRadiusFilterAndSort(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	// 0.001 degrees of latitude is roughly 110 meters.
	pool := []types.Place{
		geoPlace("Far Cafe", 49.5, 2.35, []string{"cafe"}, 4.9),
		geoPlace("Near Cafe", 48.851, 2.35, []string{"cafe"}, 4.0),
		geoPlace("Nearest Cafe", 48.8501, 2.35, []string{"cafe"}, 3.5),
	}
	mockRepo.On("FindActiveByTags", mock.Anything, []string{"coffee", "cafe"}, nearbyPoolSize).
		Return(pool, nil)

	service := newTestService(mockRepo)
	results, err := service.Nearby(context.Background(), types.NearbyRequest{
		Lat: 48.85, Lng: 2.35, RadiusKm: 2, Tags: []string{"coffee"},
	})
	require.NoError(t, err)

	require.Len(t, results, 2, "the cafe 70km away is outside the radius")
	assert.Equal(t, "Nearest Cafe", results[0].Name)
	assert.Equal(t, "Near Cafe", results[1].Name)
	assert.Less(t, results[0].DistanceKm, results[1].DistanceKm)
}

func TestNearbyOpenNowFilter(t *testing.T) {
	open := geoPlace("Open", 48.8505, 2.35, []string{"cafe"}, 4.0)
	open.OpeningHours = map[string]string{"tue": "09:00-18:00"}
	closed := geoPlace("Closed", 48.8505, 2.35, []string{"cafe"}, 4.5)
	closed.OpeningHours = map[string]string{"tue": "closed"}
	unknown := geoPlace("Unknown", 48.8505, 2.35, []string{"cafe"}, 4.2)

	mockRepo := new(MockPlaceRepo)
	mockRepo.On("FindActiveByTags", mock.Anything, mock.Anything, nearbyPoolSize).
		Return([]types.Place{open, closed, unknown}, nil)

	service := newTestService(mockRepo)
	results, err := service.Nearby(context.Background(), types.NearbyRequest{
		Lat: 48.85, Lng: 2.35, OpenNow: true,
	})
	require.NoError(t, err)

	// Unknown hours cannot be vouched for, so open-now drops them too.
	require.Len(t, results, 1)
	assert.Equal(t, "Open", results[0].Name)
	assert.True(t, results[0].IsOpen)
}

func TestNearbySkipsPlacesWithoutCoords(t *testing.T) {
	noCoords := types.Place{
		ID: uuid.New(), Status: types.PlaceStatusActive,
		Name: "No Pin", City: "Paris", Types: []string{"cafe"},
	}
	mockRepo := new(MockPlaceRepo)
	mockRepo.On("FindActiveByTags", mock.Anything, mock.Anything, nearbyPoolSize).
		Return([]types.Place{noCoords}, nil)

	service := newTestService(mockRepo)
	results, err := service.Nearby(context.Background(), types.NearbyRequest{Lat: 48.85, Lng: 2.35})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNearbyRejectsBadCoords(t *testing.T) {
	service := newTestService(new(MockPlaceRepo))
	_, err := service.Nearby(context.Background(), types.NearbyRequest{Lat: 95, Lng: 2.35})
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestFoldTags(t *testing.T) {
	assert.Equal(t, []string{"coffee", "cafe"}, foldTags([]string{"Coffee"}))
	assert.Equal(t, []string{"nightlife", "bar", "club"}, foldTags([]string{"nightlife"}))
	assert.Equal(t, []string{"museum"}, foldTags([]string{"museum", " museum "}))
}

func TestUpsertValidation(t *testing.T) {
	service := newTestService(new(MockPlaceRepo))

	tests := []struct {
		name string
		req  types.UpsertPlaceRequest
	}{
		{"missing name", types.UpsertPlaceRequest{City: "Paris", Country: "France"}},
		{"missing city", types.UpsertPlaceRequest{Name: "Cafe", Country: "France"}},
		{"bad price level", types.UpsertPlaceRequest{Name: "Cafe", City: "Paris", Country: "France", PriceLevel: intPtr(7)}},
		{"bad status", types.UpsertPlaceRequest{Name: "Cafe", City: "Paris", Country: "France", Status: "archived"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Upsert(context.Background(), tt.req)
			assert.ErrorIs(t, err, types.ErrBadRequest)
		})
	}
}

func TestUpsertDefaultsToDraft(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	id := uuid.New()
	mockRepo.On("UpsertPlace", mock.Anything, mock.MatchedBy(func(req types.UpsertPlaceRequest) bool {
		return req.Status == types.PlaceStatusDraft
	})).Return(id, true, nil)

	service := newTestService(mockRepo)
	saved, created, err := service.Upsert(context.Background(), types.UpsertPlaceRequest{
		Name: "New Cafe", City: "Paris", Country: "France",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, types.PlaceStatusDraft, saved.Status)
	mockRepo.AssertExpectations(t)
}

func TestUpsertRepositoryFailure(t *testing.T) {
	mockRepo := new(MockPlaceRepo)
	mockRepo.On("UpsertPlace", mock.Anything, mock.Anything).
		Return(uuid.Nil, false, errors.New("constraint violation"))

	service := newTestService(mockRepo)
	_, _, err := service.Upsert(context.Background(), types.UpsertPlaceRequest{
		Name: "Cafe", City: "Paris", Country: "France",
	})
	assert.ErrorIs(t, err, types.ErrRepository)
}

func intPtr(v int) *int { return &v }
