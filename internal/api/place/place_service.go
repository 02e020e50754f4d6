package place

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	searchSampleSize = 200
	searchMaxResults = 60

	nearbyPoolSize      = 500
	nearbyDefaultRadius = 2.0
	nearbyMaxRadius     = 10.0
	nearbyDefaultLimit  = 20
	nearbyMaxLimit      = 50
)

// tagAliases folds loose query tags onto the catalog's canonical type
// vocabulary.
var tagAliases = map[string][]string{
	"food":      {"restaurant"},
	"coffee":    {"cafe"},
	"nightlife": {"bar", "club"},
	"wine":      {"wine_bar"},
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]types.Place, error)
	Nearby(ctx context.Context, req types.NearbyRequest) ([]types.NearbyPlace, error)
	Upsert(ctx context.Context, req types.UpsertPlaceRequest) (*types.Place, bool, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	now    func() time.Time
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

// SearchPlaces samples the city catalog and returns a shuffled slice,
// so repeated browsing surfaces different entries.
func (s *ServiceImpl) SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "SearchPlaces", trace.WithAttributes(
		attribute.String("city", filter.City),
	))
	defer span.End()

	if strings.TrimSpace(filter.City) == "" {
		return nil, fmt.Errorf("%w: city is required", types.ErrBadRequest)
	}
	if filter.Limit <= 0 || filter.Limit > searchMaxResults {
		filter.Limit = searchMaxResults
	}
	limit := filter.Limit

	sampled := filter
	sampled.Limit = searchSampleSize
	places, err := s.repo.SearchPlaces(ctx, sampled)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place search failed")
		return nil, fmt.Errorf("%w: %v", types.ErrRepository, err)
	}

	// rand.Rand is not goroutine-safe, so each call gets its own
	// generator and shuffles its own copy.
	shuffled := make([]types.Place, len(places))
	copy(shuffled, places)
	rng := rand.New(rand.NewSource(s.now().UnixNano()))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > limit {
		shuffled = shuffled[:limit]
	}

	span.SetAttributes(attribute.Int("results", len(shuffled)))
	span.SetStatus(codes.Ok, "Places searched")
	return shuffled, nil
}

// Nearby returns geocoded places within the radius whose tags overlap
// the query, closest first.
func (s *ServiceImpl) Nearby(ctx context.Context, req types.NearbyRequest) ([]types.NearbyPlace, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "Nearby", trace.WithAttributes(
		attribute.Float64("lat", req.Lat),
		attribute.Float64("lng", req.Lng),
	))
	defer span.End()

	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return nil, fmt.Errorf("%w: lat/lng out of range", types.ErrBadRequest)
	}
	if req.RadiusKm <= 0 {
		req.RadiusKm = nearbyDefaultRadius
	}
	if req.RadiusKm > nearbyMaxRadius {
		req.RadiusKm = nearbyMaxRadius
	}
	if req.Limit <= 0 {
		req.Limit = nearbyDefaultLimit
	}
	if req.Limit > nearbyMaxLimit {
		req.Limit = nearbyMaxLimit
	}

	tags := foldTags(req.Tags)
	places, err := s.repo.FindActiveByTags(ctx, tags, nearbyPoolSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby query failed")
		return nil, fmt.Errorf("%w: %v", types.ErrRepository, err)
	}

	now := s.now()
	var results []types.NearbyPlace
	for i := range places {
		p := &places[i]
		if !p.HasCoords() {
			continue
		}
		dist := api.DistanceKm(req.Lat, req.Lng, *p.Lat, *p.Lng)
		if dist > req.RadiusKm {
			continue
		}
		open := types.IsOpenNow(p.OpeningHours, now)
		if req.OpenNow && !open {
			continue
		}
		results = append(results, types.NearbyPlace{
			ID:         p.ID,
			Name:       p.Name,
			Lat:        *p.Lat,
			Lng:        *p.Lng,
			Tags:       placeTags(p),
			Summary:    p.Description,
			URL:        p.Website,
			DistanceKm: dist,
			IsOpen:     open,
			Rating:     p.Rating,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return ratingOf(&results[i]) > ratingOf(&results[j])
	})
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	span.SetAttributes(attribute.Int("results", len(results)))
	span.SetStatus(codes.Ok, "Nearby places found")
	return results, nil
}

// Upsert validates and stores an admin-submitted catalog entry.
func (s *ServiceImpl) Upsert(ctx context.Context, req types.UpsertPlaceRequest) (*types.Place, bool, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "Upsert", trace.WithAttributes(
		attribute.String("city", req.City),
	))
	defer span.End()

	if err := validateUpsert(&req); err != nil {
		return nil, false, err
	}
	if req.Status == "" {
		req.Status = types.PlaceStatusDraft
	}

	id, created, err := s.repo.UpsertPlace(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place upsert failed")
		return nil, false, fmt.Errorf("%w: %v", types.ErrRepository, err)
	}

	s.logger.InfoContext(ctx, "Place upserted",
		slog.String("place_id", id.String()),
		slog.Bool("created", created))
	span.SetStatus(codes.Ok, "Place upserted")

	return &types.Place{
		ID:            id,
		Status:        req.Status,
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		Neighborhood:  req.Neighborhood,
		City:          req.City,
		Country:       req.Country,
		Lat:           req.Lat,
		Lng:           req.Lng,
		Website:       req.Website,
		GooglePlaceID: req.GooglePlaceID,
		Types:         req.Types,
		Cuisines:      req.Cuisines,
		Themes:        req.Themes,
		Rating:        req.Rating,
		RatingSource:  req.RatingSource,
		PriceLevel:    req.PriceLevel,
		OpeningHours:  req.OpeningHours,
	}, created, nil
}

func validateUpsert(req *types.UpsertPlaceRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", types.ErrBadRequest)
	}
	if strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Country) == "" {
		return fmt.Errorf("%w: city and country are required", types.ErrBadRequest)
	}
	if req.PriceLevel != nil && (*req.PriceLevel < types.MinBudgetLevel || *req.PriceLevel > types.MaxBudgetLevel) {
		return fmt.Errorf("%w: price_level must be between %d and %d",
			types.ErrBadRequest, types.MinBudgetLevel, types.MaxBudgetLevel)
	}
	switch req.Status {
	case "", types.PlaceStatusDraft, types.PlaceStatusActive, types.PlaceStatusHidden:
	default:
		return fmt.Errorf("%w: unknown status %q", types.ErrBadRequest, req.Status)
	}
	return nil
}

// foldTags lowercases, dedupes and expands alias tags.
func foldTags(tags []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(tag string) {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		add(t)
		for _, alias := range tagAliases[t] {
			add(alias)
		}
	}
	return out
}

func placeTags(p *types.Place) []string {
	tags := make([]string, 0, len(p.Types)+len(p.Themes))
	tags = append(tags, p.Types...)
	tags = append(tags, p.Themes...)
	return tags
}

func ratingOf(p *types.NearbyPlace) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
