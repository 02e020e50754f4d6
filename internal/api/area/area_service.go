package area

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Ranking weights. Tunable, but keep the relative ordering: interest
// overlap dominates, the price-mismatch penalty outweighs rating and
// density, and rating and density sit together.
const (
	weightInterest = 0.55
	weightRating   = 0.20
	weightDensity  = 0.20
	weightPrice    = 0.35

	densityCap      = 50
	noInterestPrior = 0.3
	noRatingPrior   = 0.4

	placesPerArea  = 80
	picksPerBucket = 4
	areasPerDay    = 2
)

// interestMatch maps user interests to the place types and themes that
// count as a hit for an area.
var interestMatch = map[string]struct {
	Types  []string
	Themes []string
}{
	"cafes":        {Types: []string{"cafe", "bakery"}},
	"restaurants":  {Types: []string{"restaurant"}},
	"bars":         {Types: []string{"bar", "wine_bar", "club"}},
	"nightlife":    {Themes: []string{"nightlife"}},
	"museums":      {Types: []string{"museum"}},
	"galleries":    {Types: []string{"gallery"}},
	"architecture": {Themes: []string{"architecture"}},
	"parks":        {Types: []string{"park", "garden"}},
	"walks":        {Types: []string{"neighborhood_walk", "landmark"}},
	"photo_spots":  {Themes: []string{"photo_spot"}},
}

var _ Service = (*ServiceImpl)(nil)

// Service is the area-density ranking mode: days built around one or
// two neighborhoods instead of a flat time-slot schedule.
type Service interface {
	Suggest(ctx context.Context, req types.AreaSuggestRequest) (*types.AreaSuggestResponse, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// Suggest ranks the city's areas for the given preferences, picks
// roughly one and a half per trip day, fills each with bucketed place
// picks and groups them into days.
func (s *ServiceImpl) Suggest(ctx context.Context, req types.AreaSuggestRequest) (*types.AreaSuggestResponse, error) {
	ctx, span := otel.Tracer("AreaService").Start(ctx, "Suggest", trace.WithAttributes(
		attribute.String("city", req.City),
		attribute.Int("days", req.Days),
	))
	defer span.End()

	if strings.TrimSpace(req.City) == "" {
		return nil, fmt.Errorf("%w: city is required", types.ErrBadRequest)
	}
	if req.Days < 1 {
		req.Days = 1
	}
	if req.Budget < types.MinBudgetLevel || req.Budget > types.MaxBudgetLevel {
		req.Budget = types.DefaultBudgetLevel
	}

	stats, err := s.repo.GetAreaStats(ctx, req.City)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "area stats query failed")
		return nil, fmt.Errorf("%w: %v", types.ErrRepository, err)
	}

	ranked := rankAreas(stats, &req)
	topCount := req.Days
	if c := int(math.Ceil(float64(req.Days) * 1.5)); c > topCount {
		topCount = c
	}
	if topCount > len(ranked) {
		topCount = len(ranked)
	}
	ranked = ranked[:topCount]

	// Scoring already happened; the per-area place fetches are
	// independent, so they can run concurrently.
	areaDays := make([]types.AreaDay, len(ranked))
	g, gctx := errgroup.WithContext(ctx)
	for i := range ranked {
		g.Go(func() error {
			places, err := s.repo.GetPlacesByArea(gctx, ranked[i].stats.AreaID, placesPerArea)
			if err != nil {
				return err
			}
			areaDays[i] = buildAreaDay(req.City, ranked[i].stats, places)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "area places query failed")
		return nil, fmt.Errorf("%w: %v", types.ErrRepository, err)
	}

	resp := &types.AreaSuggestResponse{
		City:      req.City,
		Days:      req.Days,
		DayGroups: groupIntoDays(areaDays, req.Days),
	}
	for _, ra := range ranked {
		resp.AreasRanked = append(resp.AreasRanked, types.RankedArea{
			ID:    ra.stats.AreaID,
			Name:  ra.stats.AreaName,
			Score: ra.score,
		})
	}

	span.SetAttributes(attribute.Int("areas.ranked", len(ranked)))
	span.SetStatus(codes.Ok, "Areas suggested")
	metrics.Get().AreaSuggestRequestsTotal.Add(ctx, 1)
	return resp, nil
}

type scoredArea struct {
	stats types.AreaStats
	score float64
}

func rankAreas(stats []types.AreaStats, req *types.AreaSuggestRequest) []scoredArea {
	ranked := make([]scoredArea, 0, len(stats))
	for _, a := range stats {
		ranked = append(ranked, scoredArea{stats: a, score: scoreArea(&a, req)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	return ranked
}

// scoreArea combines interest overlap, normalized rating and
// log-scaled density, minus a budget mismatch penalty.
func scoreArea(a *types.AreaStats, req *types.AreaSuggestRequest) float64 {
	typeSet := toSet(a.TypesDistinct)
	themeSet := toSet(a.ThemesDistinct)

	interestHits, interestTotal := 0, 0
	for _, k := range req.Interests {
		m, ok := interestMatch[k]
		if !ok {
			continue
		}
		interestTotal++
		if anyIn(m.Types, typeSet) || anyIn(m.Themes, themeSet) {
			interestHits++
		}
	}
	interestScore := noInterestPrior
	if interestTotal > 0 {
		interestScore = float64(interestHits) / float64(interestTotal)
	}

	ratingScore := noRatingPrior
	if a.AvgRating != nil {
		ratingScore = clamp01((*a.AvgRating - 3.5) / 1.5)
	}

	densityScore := math.Log(1+float64(a.TotalPlaces)) / math.Log(1+densityCap)
	if densityScore > 1 {
		densityScore = 1
	}

	median := types.DefaultBudgetLevel
	if a.MedianPriceLevel != nil {
		median = *a.MedianPriceLevel
	}
	priceMismatch := math.Abs(float64(median-req.Budget)) / 4
	if priceMismatch > 1 {
		priceMismatch = 1
	}

	score := weightInterest*interestScore + weightRating*ratingScore +
		weightDensity*densityScore - weightPrice*priceMismatch
	return math.Round(score*10000) / 10000
}

// buildAreaDay buckets an area's places into the fixed category slots,
// keeping the top few per bucket.
func buildAreaDay(city string, stats types.AreaStats, places []types.Place) types.AreaDay {
	slots := map[string][]types.AreaPlace{
		types.BucketCafes:     {},
		types.BucketFoodDrink: {},
		types.BucketMuseums:   {},
		types.BucketGalleries: {},
		types.BucketOutdoors:  {},
		types.BucketNightlife: {},
		types.BucketOther:     {},
	}
	for i := range places {
		p := &places[i]
		b := pickBucket(p.Types, p.Themes)
		if len(slots[b]) >= picksPerBucket {
			continue
		}
		slots[b] = append(slots[b], types.AreaPlace{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Lat:         p.Lat,
			Lng:         p.Lng,
			Types:       p.Types,
			Themes:      p.Themes,
			PriceLevel:  p.PriceLevel,
			GoogleURL:   googleURL(p),
		})
	}

	area := types.Area{
		ID:          stats.AreaID,
		Name:        stats.AreaName,
		Slug:        stats.AreaSlug,
		ImageURL:    stats.ImageURL,
		Vibe:        stats.VibeTags,
		Description: stats.Description,
	}
	if stats.Lat != nil && stats.Lng != nil {
		area.Center = []float64{*stats.Lat, *stats.Lng}
	} else if canonical := AreaInfo(city, stats.AreaName); canonical != nil {
		// Curated centroid fills in for areas missing coordinates.
		area.Center = []float64{canonical.Center[0], canonical.Center[1]}
		if area.ImageURL == nil && canonical.Image != "" {
			img := canonical.Image
			area.ImageURL = &img
		}
	}

	vibe := "walking, cafés and culture"
	if len(stats.VibeTags) > 0 {
		n := len(stats.VibeTags)
		if n > 3 {
			n = 3
		}
		vibe = strings.Join(stats.VibeTags[:n], ", ")
	}
	return types.AreaDay{
		Area:    area,
		Summary: fmt.Sprintf("Explore %s: great for %s.", stats.AreaName, vibe),
		Slots:   slots,
	}
}

// pickBucket assigns a place to one of the fixed category buckets.
func pickBucket(placeTypes, placeThemes []string) string {
	t := toSet(placeTypes)
	h := toSet(placeThemes)
	switch {
	case t["cafe"] || t["bakery"]:
		return types.BucketCafes
	case t["restaurant"] || t["wine_bar"] || t["bar"] || t["club"]:
		return types.BucketFoodDrink
	case t["museum"]:
		return types.BucketMuseums
	case t["gallery"]:
		return types.BucketGalleries
	case t["park"] || t["garden"] || t["neighborhood_walk"]:
		return types.BucketOutdoors
	case h["nightlife"]:
		return types.BucketNightlife
	default:
		return types.BucketOther
	}
}

// groupIntoDays chunks the picked areas into one-to-two-area days.
func groupIntoDays(areaDays []types.AreaDay, days int) [][]types.AreaDay {
	grouped := make([][]types.AreaDay, 0, days)
	i := 0
	for d := 0; d < days; d++ {
		end := i + areasPerDay
		if end > len(areaDays) {
			end = len(areaDays)
		}
		grouped = append(grouped, areaDays[i:end])
		i = end
	}
	return grouped
}

func googleURL(p *types.Place) string {
	if p.GooglePlaceID != nil && *p.GooglePlaceID != "" {
		return fmt.Sprintf("https://www.google.com/maps/place/?q=place_id:%s", *p.GooglePlaceID)
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(p.Name+" "+p.City)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func anyIn(items []string, set map[string]bool) bool {
	for _, it := range items {
		if set[it] {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
