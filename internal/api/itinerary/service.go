package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const itineraryNotes = "Opening hours are best-effort: double-check before heading out, especially on Sundays and holidays."

var _ Service = (*ServiceImpl)(nil)

// Service defines the itinerary-generation contract.
type Service interface {
	Generate(ctx context.Context, req types.GenerateItineraryRequest) (*types.Itinerary, error)
}

// Options carries the planner knobs from configuration.
type Options struct {
	MaxCandidates int
	QueryTimeout  time.Duration
	PoolCacheTTL  time.Duration
}

func (o *Options) fillDefaults() {
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = 200
	}
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = 5 * time.Second
	}
	if o.PoolCacheTTL <= 0 {
		o.PoolCacheTTL = 10 * time.Minute
	}
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
	opts   Options

	// now is injectable so tests can pin the trip's start weekday.
	now func() time.Time
}

func NewServiceImpl(repo Repository, logger *slog.Logger, opts Options) *ServiceImpl {
	opts.fillDefaults()
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(opts.PoolCacheTTL, opts.PoolCacheTTL),
		opts:   opts,
		now:    time.Now,
	}
}

// Generate builds a day-by-day plan: one candidate-pool query, then one
// slot-planning pass per day sharing a trip-wide used-place set.
func (s *ServiceImpl) Generate(ctx context.Context, req types.GenerateItineraryRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("city", req.City),
		attribute.Int("days", req.Days),
	))
	defer span.End()
	start := s.now()

	req.Normalize()
	if err := validateRequest(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		metrics.Get().ItineraryRequestsTotal.Add(ctx, 1, attributeStatus("invalid"))
		return nil, err
	}

	wanted := wantedTypes(req.Interests)
	pool, err := s.candidatePool(ctx, &req, wanted)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidate query failed")
		metrics.Get().ItineraryRequestsTotal.Add(ctx, 1, attributeStatus("repo_error"))
		return nil, err
	}
	metrics.Get().CandidatePoolSize.Record(ctx, int64(len(pool)))

	seed := start.UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	// The trip is assumed to start today; weekday advances per day for
	// the opening-hours check.
	startWeekday := int(start.Weekday())
	used := make(map[uuid.UUID]bool)
	days := make([]types.DayPlan, 0, req.Days)
	for i := 0; i < req.Days; i++ {
		weekday := time.Weekday((startWeekday + i) % 7)
		days = append(days, planDay(pool, &req, wanted, weekday, used, rng))
	}

	if _, err := s.repo.SaveRequest(ctx, req); err != nil {
		// Analytics only, never fails the generation.
		s.logger.WarnContext(ctx, "Failed to record generation request", slog.Any("error", err))
	}

	span.SetAttributes(attribute.Int("pool.size", len(pool)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	metrics.Get().ItineraryRequestsTotal.Add(ctx, 1, attributeStatus("ok"))
	metrics.Get().ItineraryDurationSeconds.Record(ctx, time.Since(start).Seconds())

	return &types.Itinerary{Days: days, Notes: itineraryNotes}, nil
}

// candidatePool fetches (or reuses) the single broad query every day of
// the trip draws from. One query per call keeps cross-day dedup a plain
// in-memory set and avoids N+1 fetching.
func (s *ServiceImpl) candidatePool(ctx context.Context, req *types.GenerateItineraryRequest, wanted map[string]bool) ([]types.Place, error) {
	typeFilter := sortedKeys(wanted)
	priceMin := max(types.MinBudgetLevel, req.Budget-1)
	priceMax := min(types.MaxBudgetLevel, req.Budget+1)

	cacheKey := fmt.Sprintf("pool:%s|b%d-%d|%s",
		strings.ToLower(req.City), priceMin, priceMax, strings.Join(typeFilter, ","))
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]types.Place), nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()
	pool, err := s.repo.FindActivePlaces(queryCtx, req.City, typeFilter, priceMin, priceMax, s.opts.MaxCandidates)
	if err != nil {
		// A timeout is just another repository failure here.
		s.logger.ErrorContext(ctx, "Candidate pool query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", types.ErrRepository, err)
	}

	s.cache.Set(cacheKey, pool, cache.DefaultExpiration)
	return pool, nil
}

func validateRequest(req *types.GenerateItineraryRequest) error {
	if strings.TrimSpace(req.City) == "" {
		return fmt.Errorf("%w: city is required", types.ErrBadRequest)
	}
	if req.Days < types.MinTripDays || req.Days > types.MaxTripDays {
		return fmt.Errorf("%w: days must be between %d and %d", types.ErrBadRequest, types.MinTripDays, types.MaxTripDays)
	}
	if req.Budget < types.MinBudgetLevel || req.Budget > types.MaxBudgetLevel {
		return fmt.Errorf("%w: budget must be between %d and %d", types.ErrBadRequest, types.MinBudgetLevel, types.MaxBudgetLevel)
	}
	switch req.Pace {
	case types.PaceRelaxed, types.PaceBalanced, types.PacePacked:
	default:
		return fmt.Errorf("%w: unknown pace %q", types.ErrBadRequest, req.Pace)
	}
	switch req.Wake {
	case types.WakeEarly, types.WakeStandard, types.WakeLate:
	default:
		return fmt.Errorf("%w: unknown wake preference %q", types.ErrBadRequest, req.Wake)
	}
	return nil
}

func attributeStatus(status string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("status", status))
}
