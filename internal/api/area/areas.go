package area

import (
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
)

// CanonicalArea is a curated neighborhood entry: alias spellings that
// should collapse into it, a representative centroid, and a cover image.
type CanonicalArea struct {
	Name    string
	Aliases []string
	Center  [2]float64
	Image   string
}

var parisAreas = []CanonicalArea{
	{
		Name:    "Le Marais",
		Aliases: []string{"Marais", "3rd arrondissement", "4th arrondissement", "Le Haut Marais"},
		Center:  [2]float64{48.859, 2.361},
		Image:   "https://images.unsplash.com/photo-1542038784456-1ea8e935640e?auto=format&fit=crop&w=1600&q=80",
	},
	{
		Name:    "Saint-Germain",
		Aliases: []string{"Saint-Germain-des-Prés", "6th arrondissement"},
		Center:  [2]float64{48.853, 2.334},
		Image:   "https://images.unsplash.com/photo-1467269204594-9661b134dd2b?auto=format&fit=crop&w=1600&q=80",
	},
	{
		Name:    "Canal Saint-Martin",
		Aliases: []string{"10th arrondissement", "Canal Saint Martin"},
		Center:  [2]float64{48.872, 2.364},
		Image:   "https://images.unsplash.com/photo-1471623432079-b009d30b6729?auto=format&fit=crop&w=1600&q=80",
	},
	{
		Name:    "Montmartre",
		Aliases: []string{"18th arrondissement"},
		Center:  [2]float64{48.8867, 2.3431},
		Image:   "https://images.unsplash.com/photo-1464790719320-516ecd75af6c?auto=format&fit=crop&w=1600&q=80",
	},
}

var canonicalByCity = map[string][]CanonicalArea{
	"paris": parisAreas,
	// Add more cities as the catalog expands
}

// AreaFromNeighborhood maps a raw neighborhood string onto a canonical
// area for the city, or nil when nothing matches.
func AreaFromNeighborhood(city, neighborhood string) *CanonicalArea {
	list := canonicalByCity[strings.ToLower(city)]
	if len(list) == 0 || neighborhood == "" {
		return nil
	}
	n := strings.ToLower(strings.TrimSpace(neighborhood))
	for i := range list {
		a := &list[i]
		if strings.ToLower(a.Name) == n {
			return a
		}
		for _, alias := range a.Aliases {
			if strings.ToLower(alias) == n {
				return a
			}
		}
	}
	return nil
}

// BestAreaForCoords picks the canonical area whose centroid is nearest
// to the given point.
func BestAreaForCoords(city string, lat, lng float64) *CanonicalArea {
	list := canonicalByCity[strings.ToLower(city)]
	if len(list) == 0 {
		return nil
	}
	best := &list[0]
	bestD := api.DistanceKm(lat, lng, best.Center[0], best.Center[1])
	for i := 1; i < len(list); i++ {
		a := &list[i]
		if d := api.DistanceKm(lat, lng, a.Center[0], a.Center[1]); d < bestD {
			best = a
			bestD = d
		}
	}
	return best
}

// AreaInfo looks a canonical area up by name.
func AreaInfo(city, name string) *CanonicalArea {
	list := canonicalByCity[strings.ToLower(city)]
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return &list[i]
		}
	}
	return nil
}
