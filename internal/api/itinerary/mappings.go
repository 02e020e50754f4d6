package itinerary

import (
	"sort"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// interestToTypes maps user interest tags to the place category tags
// they match. Static configuration, swappable per locale.
var interestToTypes = map[string][]string{
	"cafes":        {"cafe", "bakery", "coffee"},
	"coffee":       {"cafe", "coffee"},
	"restaurants":  {"restaurant", "bistro", "fine_dining"},
	"food":         {"restaurant", "bistro", "market"},
	"bars":         {"bar", "wine_bar", "cocktail"},
	"wine":         {"wine_bar"},
	"nightlife":    {"bar", "club"},
	"galleries":    {"gallery"},
	"museums":      {"museum"},
	"art":          {"museum", "gallery"},
	"parks":        {"park", "garden"},
	"walks":        {"walk", "neighborhood_walk", "lookout"},
	"architecture": {"architecture", "landmark"},
	"photo_spots":  {"photo_spot", "lookout"},
	"hidden gems":  {"neighborhood_walk", "wine_bar", "gallery"},
}

// wantedTypes folds a list of interest tags into the set of matching
// place category tags. Unknown interests are ignored.
func wantedTypes(interests []string) map[string]bool {
	wanted := make(map[string]bool)
	for _, interest := range interests {
		for _, t := range interestToTypes[interest] {
			wanted[t] = true
		}
	}
	return wanted
}

// sortedKeys returns the wanted set as a sorted slice, used for the
// repository tag filter and for stable cache keys.
func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// slotKind classifies a time anchor; it only biases the scoring
// tie-break, it never filters candidates.
type slotKind int

const (
	slotDaytime slotKind = iota
	slotMeal
	slotEvening
)

// slotPreferredTypes holds the category tags that get the slot-affinity
// bonus for each slot kind.
var slotPreferredTypes = map[slotKind][]string{
	slotMeal:    {"restaurant", "bistro", "fine_dining", "cafe", "bakery", "market"},
	slotEvening: {"bar", "wine_bar", "cocktail", "club"},
	slotDaytime: {"museum", "gallery", "park", "garden", "walk", "neighborhood_walk", "landmark", "lookout"},
}

// dayAnchors is the static time-anchor table: one ordered "HH:MM" list
// per pace and wake-preference combination. Relaxed days carry two
// fewer anchors than balanced ones, packed days one more.
var dayAnchors = map[types.Pace]map[types.WakePreference][]string{
	types.PaceRelaxed: {
		types.WakeEarly:    {"09:00", "12:00", "15:00", "18:30"},
		types.WakeStandard: {"10:00", "13:00", "16:00", "19:30"},
		types.WakeLate:     {"11:30", "14:30", "17:30", "21:00"},
	},
	types.PaceBalanced: {
		types.WakeEarly:    {"08:30", "10:30", "12:30", "15:00", "18:00", "20:30"},
		types.WakeStandard: {"09:30", "11:30", "13:00", "15:30", "19:00", "21:30"},
		types.WakeLate:     {"11:00", "13:00", "15:00", "17:30", "20:30", "22:30"},
	},
	types.PacePacked: {
		types.WakeEarly:    {"08:00", "10:00", "12:00", "14:30", "17:00", "19:00", "21:30"},
		types.WakeStandard: {"09:00", "11:00", "13:00", "15:30", "18:00", "20:00", "22:30"},
		types.WakeLate:     {"10:30", "12:30", "14:30", "17:00", "19:30", "21:30", "23:30"},
	},
}

// anchorsFor returns the anchor list for the given preferences, falling
// back to balanced/standard for unknown values.
func anchorsFor(pace types.Pace, wake types.WakePreference) []string {
	byWake, ok := dayAnchors[pace]
	if !ok {
		byWake = dayAnchors[types.PaceBalanced]
	}
	anchors, ok := byWake[wake]
	if !ok {
		anchors = byWake[types.WakeStandard]
	}
	return anchors
}
