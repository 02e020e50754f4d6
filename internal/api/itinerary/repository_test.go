package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var placeRowColumns = []string{
	"id", "status", "name", "description", "address", "neighborhood",
	"city", "country", "lat", "lng", "website", "google_place_id",
	"types", "cuisines", "themes", "rating", "price_level",
	"opening_hours", "image_url",
}

func addPlaceRow(rows *pgxmock.Rows, id uuid.UUID, name string, hoursJSON []byte) *pgxmock.Rows {
	rating := 4.5
	price := 3
	return rows.AddRow(
		id, types.PlaceStatusActive, name, (*string)(nil), (*string)(nil), (*string)(nil),
		"Paris", "France", (*float64)(nil), (*float64)(nil), (*string)(nil), (*string)(nil),
		[]string{"cafe"}, []string(nil), []string(nil), &rating, &price,
		hoursJSON, (*string)(nil),
	)
}

func TestFindActivePlaces(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	rows := pgxmock.NewRows(placeRowColumns)
	addPlaceRow(rows, uuid.New(), "Cafe de Flore", []byte(`{"mon":"08:00-20:00"}`))
	addPlaceRow(rows, uuid.New(), "Boulangerie Utopie", nil)

	mockPool.ExpectQuery("FROM places").
		WithArgs("Paris", []string{"cafe"}, 2, 4, 200).
		WillReturnRows(rows)

	places, err := repo.FindActivePlaces(context.Background(), "Paris", []string{"cafe"}, 2, 4, 200)
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Cafe de Flore", places[0].Name)
	assert.Equal(t, "08:00-20:00", places[0].OpeningHours["mon"])
	assert.Nil(t, places[1].OpeningHours)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestFindActivePlacesNilFilterPassesNull(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	mockPool.ExpectQuery("FROM places").
		WithArgs("Paris", nil, 1, 5, 50).
		WillReturnRows(pgxmock.NewRows(placeRowColumns))

	places, err := repo.FindActivePlaces(context.Background(), "Paris", nil, 1, 5, 50)
	require.NoError(t, err)
	assert.Empty(t, places)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestFindActivePlacesToleratesMalformedHours(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	rows := pgxmock.NewRows(placeRowColumns)
	addPlaceRow(rows, uuid.New(), "Broken Hours", []byte(`not json`))

	mockPool.ExpectQuery("FROM places").
		WithArgs("Paris", nil, 1, 5, 50).
		WillReturnRows(rows)

	places, err := repo.FindActivePlaces(context.Background(), "Paris", nil, 1, 5, 50)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Nil(t, places[0].OpeningHours)
}

func TestFindActivePlacesQueryError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	mockPool.ExpectQuery("FROM places").
		WithArgs("Paris", nil, 1, 5, 50).
		WillReturnError(errors.New("connection refused"))

	_, err = repo.FindActivePlaces(context.Background(), "Paris", nil, 1, 5, 50)
	assert.Error(t, err)
}

func TestSaveRequest(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	want := uuid.New()
	mockPool.ExpectQuery("INSERT INTO requests").
		WithArgs("Paris", 2, 3, "balanced", "standard", []string{"museums"}).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(want))

	got, err := repo.SaveRequest(context.Background(), types.GenerateItineraryRequest{
		City: "Paris", Days: 2, Budget: 3,
		Pace: types.PaceBalanced, Wake: types.WakeStandard,
		Interests: []string{"museums"},
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
