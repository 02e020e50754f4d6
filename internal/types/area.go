package types

import "github.com/google/uuid"

// Area is a named neighborhood/district with a centroid, used by the
// density-based ranking mode.
type Area struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        *string   `json:"slug,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Center      []float64 `json:"center"` // [lat, lng]
	Vibe        []string  `json:"vibe"`
	Description *string   `json:"description,omitempty"`
}

// AreaStats is one row of the aggregated per-area view used for ranking.
type AreaStats struct {
	AreaID           uuid.UUID
	City             string
	Country          string
	AreaName         string
	AreaSlug         *string
	Description      *string
	VibeTags         []string
	ImageURL         *string
	Lat              *float64
	Lng              *float64
	TotalPlaces      int
	AvgRating        *float64
	TypesDistinct    []string
	ThemesDistinct   []string
	MedianPriceLevel *int
}

// Bucket names for the category slot layout of an AreaDay.
const (
	BucketCafes     = "cafes"
	BucketFoodDrink = "food_drink"
	BucketMuseums   = "museums"
	BucketGalleries = "galleries"
	BucketOutdoors  = "outdoors"
	BucketNightlife = "nightlife"
	BucketOther     = "other"
)

// AreaPlace is the trimmed place projection shown inside an AreaDay slot.
type AreaPlace struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	Types       []string  `json:"types"`
	Themes      []string  `json:"themes,omitempty"`
	PriceLevel  *int      `json:"price_level,omitempty"`
	GoogleURL   string    `json:"google_url"`
}

// AreaDay pairs an area with its per-category slot picks.
type AreaDay struct {
	Area    Area                   `json:"area"`
	Summary string                 `json:"summary"`
	Slots   map[string][]AreaPlace `json:"slots"`
}

// RankedArea is an area name/score pair echoed back for debugging the
// ranking.
type RankedArea struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Score float64   `json:"score"`
}

// AreaSuggestRequest is one area-mode suggestion call.
type AreaSuggestRequest struct {
	City      string
	Days      int
	Budget    int
	Pace      Pace
	Interests []string
}

// AreaSuggestResponse groups the picked areas into day-sized chunks of
// one to two areas each.
type AreaSuggestResponse struct {
	City        string       `json:"city"`
	Days        int          `json:"days"`
	AreasRanked []RankedArea `json:"areasRanked"`
	DayGroups   [][]AreaDay  `json:"dayGroups"`
}
