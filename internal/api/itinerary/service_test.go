package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindActivePlaces(ctx context.Context, city string, typeFilter []string, priceMin, priceMax, limit int) ([]types.Place, error) {
	args := m.Called(ctx, city, typeFilter, priceMin, priceMax, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockRepository) SaveRequest(ctx context.Context, req types.GenerateItineraryRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func newTestService(repo Repository) *ServiceImpl {
	s := NewServiceImpl(repo, slog.Default(), Options{})
	// Pin the clock so the start weekday (and with it the
	// opening-hours day sequence) is stable: Monday, June 9th 2025.
	s.now = func() time.Time { return time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC) }
	return s
}

func parisFixture() []types.Place {
	hours := func(spec string) map[string]string {
		return map[string]string{
			"mon": spec, "tue": spec, "wed": spec, "thu": spec,
			"fri": spec, "sat": spec, "sun": "closed",
		}
	}
	places := []types.Place{
		testPlace("Cafe de Flore", []string{"cafe"}, 4.2, 3),
		testPlace("Musee d'Orsay", []string{"museum"}, 4.8, 3),
		testPlace("Le Comptoir", []string{"restaurant", "bistro"}, 4.5, 3),
		testPlace("Jardin du Luxembourg", []string{"park", "garden"}, 4.7, 1),
		testPlace("Musee Rodin", []string{"museum", "garden"}, 4.6, 2),
		testPlace("Septime", []string{"restaurant", "fine_dining"}, 4.6, 4),
		testPlace("Le Baron Rouge", []string{"wine_bar", "bar"}, 4.4, 2),
		testPlace("Boulangerie Utopie", []string{"bakery", "cafe"}, 4.7, 1),
		testPlace("Galerie Perrotin", []string{"gallery"}, 4.3, 2),
		testPlace("Canal Walk", []string{"walk", "neighborhood_walk"}, 4.1, 1),
	}
	for i := range places {
		places[i].OpeningHours = hours("09:00-22:00")
	}
	return places
}

func seedReq(seed int64) types.GenerateItineraryRequest {
	return types.GenerateItineraryRequest{
		City:      "Paris",
		Days:      2,
		Budget:    3,
		Pace:      types.PaceBalanced,
		Wake:      types.WakeStandard,
		Interests: []string{"museums", "restaurants"},
		Seed:      &seed,
	}
}

func TestGenerateParisTwoDays(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindActivePlaces", mock.Anything, "Paris", mock.Anything, 2, 4, mock.Anything).
		Return(parisFixture(), nil)
	mockRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(uuid.New(), nil)

	service := newTestService(mockRepo)
	plan, err := service.Generate(context.Background(), seedReq(42))
	require.NoError(t, err)
	require.NotNil(t, plan)

	// Day count always equals the request.
	require.Len(t, plan.Days, 2)
	assert.NotEmpty(t, plan.Notes)

	// No place appears twice anywhere in the trip.
	seen := make(map[string]bool)
	total := 0
	for _, day := range plan.Days {
		assert.NotEmpty(t, day.Activities)
		for _, a := range day.Activities {
			assert.False(t, seen[a.Title], "place %q scheduled twice across the trip", a.Title)
			seen[a.Title] = true
			assert.NotEmpty(t, a.Time)
			total++
		}
	}
	assert.LessOrEqual(t, total, len(parisFixture()))
	mockRepo.AssertExpectations(t)
}

func TestGenerateParisDaysCoverMuseumsAndCafes(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindActivePlaces", mock.Anything, "Paris", mock.Anything, 2, 4, mock.Anything).
		Return(parisFixture(), nil)
	mockRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(uuid.New(), nil)

	service := newTestService(mockRepo)
	plan, err := service.Generate(context.Background(), seedReq(42))
	require.NoError(t, err)
	require.Len(t, plan.Days, 2)

	hasTag := func(a types.Activity, tag string) bool {
		for _, t := range a.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}

	// Every day of the Paris trip schedules at least one museum or
	// cafe outside the evening slots.
	for i, day := range plan.Days {
		found := false
		for _, a := range day.Activities {
			if classifyAnchor(minuteOf(a.Time)) == slotEvening {
				continue
			}
			if hasTag(a, "museum") || hasTag(a, "cafe") {
				found = true
				break
			}
		}
		assert.True(t, found, "day %d has no daytime or meal-slot museum/cafe", i+1)
	}
}

func TestGenerateDeterministicUnderFixedSeed(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindActivePlaces", mock.Anything, "Paris", mock.Anything, 2, 4, mock.Anything).
		Return(parisFixture(), nil)
	mockRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(uuid.New(), nil)

	service := newTestService(mockRepo)
	first, err := service.Generate(context.Background(), seedReq(99))
	require.NoError(t, err)
	second, err := service.Generate(context.Background(), seedReq(99))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateEmptyCityStillReturnsDays(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindActivePlaces", mock.Anything, "Nowhere", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]types.Place{}, nil)
	mockRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(uuid.New(), nil)

	service := newTestService(mockRepo)
	plan, err := service.Generate(context.Background(), types.GenerateItineraryRequest{City: "Nowhere", Days: 3})
	require.NoError(t, err)

	require.Len(t, plan.Days, 3)
	for _, day := range plan.Days {
		assert.NotNil(t, day.Activities)
		assert.Empty(t, day.Activities)
	}
}

func TestGenerateAppliesDefaults(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindActivePlaces", mock.Anything, "Paris", mock.Anything, 2, 4, mock.Anything).
		Return(parisFixture(), nil)
	mockRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(uuid.New(), nil)

	service := newTestService(mockRepo)
	plan, err := service.Generate(context.Background(), types.GenerateItineraryRequest{City: "Paris"})
	require.NoError(t, err)
	assert.Len(t, plan.Days, types.DefaultTripDays)
}

func TestGenerateValidation(t *testing.T) {
	service := newTestService(new(MockRepository))

	tests := []struct {
		name string
		req  types.GenerateItineraryRequest
	}{
		{"missing city", types.GenerateItineraryRequest{Days: 2}},
		{"too many days", types.GenerateItineraryRequest{City: "Paris", Days: 30}},
		{"negative days", types.GenerateItineraryRequest{City: "Paris", Days: -1}},
		{"budget out of range", types.GenerateItineraryRequest{City: "Paris", Days: 2, Budget: 9}},
		{"unknown pace", types.GenerateItineraryRequest{City: "Paris", Days: 2, Pace: "turbo"}},
		{"unknown wake", types.GenerateItineraryRequest{City: "Paris", Days: 2, Wake: "noon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, types.ErrBadRequest)
		})
	}
}

func TestGenerateRepositoryFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindActivePlaces", mock.Anything, "Paris", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	service := newTestService(mockRepo)
	_, err := service.Generate(context.Background(), seedReq(1))
	assert.ErrorIs(t, err, types.ErrRepository)
}

func TestGenerateSaveRequestFailureIsNonFatal(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindActivePlaces", mock.Anything, "Paris", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(parisFixture(), nil)
	mockRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("insert failed"))

	service := newTestService(mockRepo)
	plan, err := service.Generate(context.Background(), seedReq(5))
	require.NoError(t, err)
	assert.Len(t, plan.Days, 2)
}

func TestGenerateBudgetShiftsCandidateWindow(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindActivePlaces", mock.Anything, "Paris", mock.Anything, 1, 2, mock.Anything).
		Return(parisFixture(), nil).Once()
	mockRepo.On("SaveRequest", mock.Anything, mock.Anything).Return(uuid.New(), nil)

	service := newTestService(mockRepo)
	req := seedReq(3)
	req.Budget = 1
	_, err := service.Generate(context.Background(), req)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
