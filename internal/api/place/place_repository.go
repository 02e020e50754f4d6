package place

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]types.Place, error)
	FindActiveByTags(ctx context.Context, tags []string, limit int) ([]types.Place, error)
	UpsertPlace(ctx context.Context, req types.UpsertPlaceRequest) (uuid.UUID, bool, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const placeColumns = `id, status, name, description, address, neighborhood, city, country,
               lat, lng, website, google_place_id, types, cuisines, themes,
               rating, rating_source, price_level, opening_hours, image_url, created_at`

const searchPlacesQuery = `
        SELECT ` + placeColumns + `
        FROM places
        WHERE status = 'active'
          AND LOWER(city) = LOWER($1)
          AND ($2::text[] IS NULL OR types && $2)
          AND ($3::text[] IS NULL OR themes && $3)
        ORDER BY created_at DESC
        LIMIT $4
    `

// SearchPlaces lists active catalog entries for a city, optionally
// narrowed by type/theme overlap.
func (r *RepositoryImpl) SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepository").Start(ctx, "SearchPlaces")
	defer span.End()
	span.SetAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("city", filter.City),
	)

	var typesArg, themesArg any
	if len(filter.Types) > 0 {
		typesArg = filter.Types
	}
	if len(filter.Themes) > 0 {
		themesArg = filter.Themes
	}

	start := time.Now()
	rows, err := r.pgpool.Query(ctx, searchPlacesQuery, filter.City, typesArg, themesArg, filter.Limit)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()
	return r.scanPlaces(ctx, rows)
}

const findActiveByTagsQuery = `
        SELECT ` + placeColumns + `
        FROM places
        WHERE status = 'active'
          AND lat IS NOT NULL AND lng IS NOT NULL
          AND ($1::text[] IS NULL OR types && $1 OR themes && $1 OR cuisines && $1)
        LIMIT $2
    `

// FindActiveByTags fetches geocoded active places whose types, themes
// or cuisines overlap the tag set. Radius filtering happens in the
// service, so this errs on the side of too many rows.
func (r *RepositoryImpl) FindActiveByTags(ctx context.Context, tags []string, limit int) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepository").Start(ctx, "FindActiveByTags")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.Int("limit", limit))

	var tagsArg any
	if len(tags) > 0 {
		tagsArg = tags
	}

	start := time.Now()
	rows, err := r.pgpool.Query(ctx, findActiveByTagsQuery, tagsArg, limit)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query places by tags: %w", err)
	}
	defer rows.Close()
	return r.scanPlaces(ctx, rows)
}

// UpsertPlace inserts or updates a catalog entry. An existing row is
// matched by name plus address, falling back to name plus city and
// country when no address is stored. Returns the row id and whether a
// new row was created.
func (r *RepositoryImpl) UpsertPlace(ctx context.Context, req types.UpsertPlaceRequest) (uuid.UUID, bool, error) {
	ctx, span := otel.Tracer("PlaceRepository").Start(ctx, "UpsertPlace")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("city", req.City))

	var existingID uuid.UUID
	var err error
	if req.Address != nil && *req.Address != "" {
		err = r.pgpool.QueryRow(ctx,
			`SELECT id FROM places WHERE LOWER(name) = LOWER($1) AND LOWER(address) = LOWER($2)`,
			req.Name, *req.Address,
		).Scan(&existingID)
	} else {
		err = r.pgpool.QueryRow(ctx,
			`SELECT id FROM places
             WHERE LOWER(name) = LOWER($1) AND LOWER(city) = LOWER($2) AND LOWER(country) = LOWER($3)`,
			req.Name, req.City, req.Country,
		).Scan(&existingID)
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return uuid.Nil, false, fmt.Errorf("failed to look up existing place: %w", err)
	}

	hoursJSON, err := marshalHours(req.OpeningHours)
	if err != nil {
		return uuid.Nil, false, err
	}

	if existingID != uuid.Nil {
		_, err = r.pgpool.Exec(ctx, `
            UPDATE places
            SET status = $2, description = $3, address = $4, neighborhood = $5,
                city = $6, country = $7, lat = $8, lng = $9, website = $10,
                google_place_id = $11, types = $12, cuisines = $13, themes = $14,
                rating = $15, rating_source = $16, price_level = $17,
                opening_hours = $18
            WHERE id = $1`,
			existingID, string(req.Status), req.Description, req.Address, req.Neighborhood,
			req.City, req.Country, req.Lat, req.Lng, req.Website,
			req.GooglePlaceID, req.Types, req.Cuisines, req.Themes,
			req.Rating, req.RatingSource, req.PriceLevel, hoursJSON,
		)
		if err != nil {
			span.RecordError(err)
			return uuid.Nil, false, fmt.Errorf("failed to update place: %w", err)
		}
		return existingID, false, nil
	}

	var id uuid.UUID
	err = r.pgpool.QueryRow(ctx, `
        INSERT INTO places (status, name, description, address, neighborhood, city, country,
                            lat, lng, website, google_place_id, types, cuisines, themes,
                            rating, rating_source, price_level, opening_hours)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
        RETURNING id`,
		string(req.Status), req.Name, req.Description, req.Address, req.Neighborhood,
		req.City, req.Country, req.Lat, req.Lng, req.Website, req.GooglePlaceID,
		req.Types, req.Cuisines, req.Themes, req.Rating, req.RatingSource,
		req.PriceLevel, hoursJSON,
	).Scan(&id)
	if err != nil {
		span.RecordError(err)
		return uuid.Nil, false, fmt.Errorf("failed to insert place: %w", err)
	}
	return id, true, nil
}

func (r *RepositoryImpl) scanPlaces(ctx context.Context, rows pgx.Rows) ([]types.Place, error) {
	var places []types.Place
	for rows.Next() {
		var p types.Place
		var hoursRaw []byte
		err := rows.Scan(
			&p.ID, &p.Status, &p.Name, &p.Description, &p.Address, &p.Neighborhood,
			&p.City, &p.Country, &p.Lat, &p.Lng, &p.Website, &p.GooglePlaceID,
			&p.Types, &p.Cuisines, &p.Themes, &p.Rating, &p.RatingSource,
			&p.PriceLevel, &hoursRaw, &p.ImageURL, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}
		if len(hoursRaw) > 0 {
			if err := json.Unmarshal(hoursRaw, &p.OpeningHours); err != nil {
				r.logger.WarnContext(ctx, "Skipping unparsable opening_hours",
					slog.String("place_id", p.ID.String()), slog.Any("error", err))
				p.OpeningHours = nil
			}
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed reading place rows: %w", err)
	}
	return places, nil
}

func marshalHours(hours map[string]string) ([]byte, error) {
	if len(hours) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(hours)
	if err != nil {
		return nil, fmt.Errorf("failed to encode opening hours: %w", err)
	}
	return raw, nil
}
