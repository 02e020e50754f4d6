package types

import (
	"time"

	"github.com/google/uuid"
)

// PlaceStatus is the lifecycle flag of a catalog entry. Only active
// places are eligible for itinerary planning.
type PlaceStatus string

const (
	PlaceStatusDraft  PlaceStatus = "draft"
	PlaceStatusActive PlaceStatus = "active"
	PlaceStatusHidden PlaceStatus = "hidden"
)

// Place is a single point of interest in the catalog.
type Place struct {
	ID            uuid.UUID         `json:"id"`
	Status        PlaceStatus       `json:"status"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	Address       *string           `json:"address,omitempty"`
	Neighborhood  *string           `json:"neighborhood,omitempty"`
	City          string            `json:"city"`
	Country       string            `json:"country"`
	Lat           *float64          `json:"lat,omitempty"`
	Lng           *float64          `json:"lng,omitempty"`
	Website       *string           `json:"website,omitempty"`
	GooglePlaceID *string           `json:"google_place_id,omitempty"`
	Types         []string          `json:"types"`
	Cuisines      []string          `json:"cuisines,omitempty"`
	Themes        []string          `json:"themes,omitempty"`
	Rating        *float64          `json:"rating,omitempty"`
	RatingSource  *string           `json:"rating_source,omitempty"`
	PriceLevel    *int              `json:"price_level,omitempty"` // 1..5
	OpeningHours  map[string]string `json:"opening_hours,omitempty"`
	ImageURL      *string           `json:"image_url,omitempty"`
	CreatedAt     time.Time         `json:"created_at,omitempty"`
}

// HasCoords reports whether the place carries a usable lat/lng pair.
// Places without coordinates are excluded from distance-aware logic and
// appear in plans as title-only entries.
func (p *Place) HasCoords() bool {
	return p.Lat != nil && p.Lng != nil
}

// PrimaryType returns the first category tag, or "" when untagged.
func (p *Place) PrimaryType() string {
	if len(p.Types) == 0 {
		return ""
	}
	return p.Types[0]
}

// UpsertPlaceRequest is the admin payload for creating or updating a place.
type UpsertPlaceRequest struct {
	Name          string            `json:"name"`
	City          string            `json:"city"`
	Country       string            `json:"country"`
	Neighborhood  *string           `json:"neighborhood,omitempty"`
	Address       *string           `json:"address,omitempty"`
	Lat           *float64          `json:"lat"`
	Lng           *float64          `json:"lng"`
	PriceLevel    *int              `json:"price_level"`
	Types         []string          `json:"types"`
	Cuisines      []string          `json:"cuisines,omitempty"`
	Themes        []string          `json:"themes,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Website       *string           `json:"website,omitempty"`
	Rating        *float64          `json:"rating,omitempty"`
	RatingSource  *string           `json:"rating_source,omitempty"`
	OpeningHours  map[string]string `json:"opening_hours,omitempty"`
	Status        PlaceStatus       `json:"status,omitempty"`
	GooglePlaceID *string           `json:"google_place_id,omitempty"`
}

// PlaceFilter narrows a catalog query. Empty slices/zero values are
// ignored by the repository.
type PlaceFilter struct {
	City       string
	Types      []string
	Themes     []string
	PriceMin   int
	PriceMax   int
	Limit      int
}

// NearbyRequest is one nearby search call. Tags are matched against
// types, themes and cuisines after alias folding.
type NearbyRequest struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	Tags     []string
	OpenNow  bool
	Limit    int
}

// NearbyPlace is the projection returned by the nearby search.
type NearbyPlace struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Tags       []string  `json:"tags"`
	Summary    *string   `json:"summary"`
	URL        *string   `json:"url"`
	DistanceKm float64   `json:"distance_km"`
	IsOpen     bool      `json:"is_open"`
	Rating     *float64  `json:"rating,omitempty"`
}
