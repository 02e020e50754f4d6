package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the only data contract the planning core needs: one
// broad candidate query per generation call, plus a best-effort record
// of the request itself.
type Repository interface {
	FindActivePlaces(ctx context.Context, city string, typeFilter []string, priceMin, priceMax, limit int) ([]types.Place, error)
	SaveRequest(ctx context.Context, req types.GenerateItineraryRequest) (uuid.UUID, error)
}

// PGXPool is the subset of pgxpool.Pool the repository uses, narrow so
// pgxmock can stand in during tests.
type PGXPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGXPool
}

func NewRepository(pgpool PGXPool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const findActivePlacesQuery = `
        SELECT id, status, name, description, address, neighborhood, city, country,
               lat, lng, website, google_place_id, types, cuisines, themes,
               rating, price_level, opening_hours, image_url
        FROM places
        WHERE status = 'active'
          AND LOWER(city) = LOWER($1)
          AND ($2::text[] IS NULL OR types && $2)
          AND (price_level IS NULL OR price_level BETWEEN $3 AND $4)
        ORDER BY rating DESC NULLS LAST
        LIMIT $5
    `

// FindActivePlaces fetches the candidate pool for one generation call:
// active places in the city, optionally narrowed by tag overlap and a
// budget window, best rated first.
func (r *RepositoryImpl) FindActivePlaces(ctx context.Context, city string, typeFilter []string, priceMin, priceMax, limit int) ([]types.Place, error) {
	ctx, span := otel.Tracer("ItineraryRepository").Start(ctx, "FindActivePlaces")
	defer span.End()
	span.SetAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("city", city),
		attribute.Int("limit", limit),
	)

	start := time.Now()
	var filterArg any
	if len(typeFilter) > 0 {
		filterArg = typeFilter
	}
	rows, err := r.pgpool.Query(ctx, findActivePlacesQuery, city, filterArg, priceMin, priceMax, limit)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query candidate places: %w", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		var p types.Place
		var hoursRaw []byte
		err := rows.Scan(
			&p.ID, &p.Status, &p.Name, &p.Description, &p.Address, &p.Neighborhood,
			&p.City, &p.Country, &p.Lat, &p.Lng, &p.Website, &p.GooglePlaceID,
			&p.Types, &p.Cuisines, &p.Themes, &p.Rating, &p.PriceLevel,
			&hoursRaw, &p.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		if len(hoursRaw) > 0 {
			if err := json.Unmarshal(hoursRaw, &p.OpeningHours); err != nil {
				// Malformed hours just mean "unknown", not a dead row.
				r.logger.WarnContext(ctx, "Skipping unparsable opening_hours",
					slog.String("place_id", p.ID.String()), slog.Any("error", err))
				p.OpeningHours = nil
			}
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed reading candidate places: %w", err)
	}
	return places, nil
}

// SaveRequest records one generation request for later analysis.
func (r *RepositoryImpl) SaveRequest(ctx context.Context, req types.GenerateItineraryRequest) (uuid.UUID, error) {
	query := `
        INSERT INTO requests (city, days, budget, pace, wake, interests)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		req.City, req.Days, req.Budget, string(req.Pace), string(req.Wake), req.Interests,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert request: %w", err)
	}
	return id, nil
}
