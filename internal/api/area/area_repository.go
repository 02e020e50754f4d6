package area

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetAreaStats(ctx context.Context, city string) ([]types.AreaStats, error)
	GetPlacesByArea(ctx context.Context, areaID uuid.UUID, limit int) ([]types.Place, error)
}

// PGXQuerier is the subset of pgxpool.Pool the repository uses, narrow
// so pgxmock can stand in during tests.
type PGXQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGXQuerier
}

func NewRepository(pgpool PGXQuerier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// GetAreaStats pulls the aggregated per-area rollup for a city.
func (r *RepositoryImpl) GetAreaStats(ctx context.Context, city string) ([]types.AreaStats, error) {
	ctx, span := otel.Tracer("AreaRepository").Start(ctx, "GetAreaStats")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("city", city))

	query := `
        SELECT area_id, city, country, area_name, area_slug, description,
               vibe_tags, image_url, lat, lng, total_places, avg_rating,
               types_distinct, themes_distinct, median_price_level
        FROM area_stats
        WHERE LOWER(city) = LOWER($1)
    `
	start := time.Now()
	rows, err := r.pgpool.Query(ctx, query, city)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query area stats: %w", err)
	}
	defer rows.Close()

	var stats []types.AreaStats
	for rows.Next() {
		var s types.AreaStats
		var median *float64
		err := rows.Scan(
			&s.AreaID, &s.City, &s.Country, &s.AreaName, &s.AreaSlug, &s.Description,
			&s.VibeTags, &s.ImageURL, &s.Lat, &s.Lng, &s.TotalPlaces, &s.AvgRating,
			&s.TypesDistinct, &s.ThemesDistinct, &median,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan area stats row: %w", err)
		}
		// percentile_cont yields a float; the 1..5 scale wants an int.
		if median != nil {
			m := int(*median + 0.5)
			s.MedianPriceLevel = &m
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed reading area stats: %w", err)
	}
	return stats, nil
}

// GetPlacesByArea fetches active places belonging to one area, best
// rated first.
func (r *RepositoryImpl) GetPlacesByArea(ctx context.Context, areaID uuid.UUID, limit int) ([]types.Place, error) {
	ctx, span := otel.Tracer("AreaRepository").Start(ctx, "GetPlacesByArea")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("area.id", areaID.String()))

	query := `
        SELECT id, name, description, lat, lng, types, themes, price_level,
               google_place_id, city
        FROM places
        WHERE area_id = $1 AND status = 'active'
        ORDER BY rating DESC NULLS LAST
        LIMIT $2
    `
	start := time.Now()
	rows, err := r.pgpool.Query(ctx, query, areaID, limit)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query area places: %w", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		var p types.Place
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Lat, &p.Lng,
			&p.Types, &p.Themes, &p.PriceLevel, &p.GooglePlaceID, &p.City,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan area place row: %w", err)
		}
		p.Status = types.PlaceStatusActive
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed reading area places: %w", err)
	}
	return places, nil
}
