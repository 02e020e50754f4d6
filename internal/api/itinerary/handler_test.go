package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Generate(ctx context.Context, req types.GenerateItineraryRequest) (*types.Itinerary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func postItinerary(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/itinerary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Generate(rec, req)
	return rec
}

func TestGenerateHandlerOK(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Generate", mock.Anything, mock.Anything).Return(&types.Itinerary{
		Days: []types.DayPlan{{Activities: []types.Activity{{Time: "09:30", Title: "Cafe de Flore"}}}},
	}, nil)

	handler := NewHandler(mockService, slog.Default())
	rec := postItinerary(t, handler, `{"city":"Paris","days":1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cafe de Flore")
}

func TestGenerateHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", fmt.Errorf("%w: city is required", types.ErrBadRequest), http.StatusBadRequest},
		{"repository down", fmt.Errorf("%w: timeout", types.ErrRepository), http.StatusBadGateway},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)

			handler := NewHandler(mockService, slog.Default())
			rec := postItinerary(t, handler, `{"city":"Paris"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGenerateHandlerMalformedBody(t *testing.T) {
	handler := NewHandler(new(MockService), slog.Default())
	rec := postItinerary(t, handler, `{"city":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
