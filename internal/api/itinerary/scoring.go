package itinerary

import (
	"math"
	"math/rand"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Scoring weights. Tunable, but the relative ordering matters:
// interest match dominates, the repetition and closed penalties are
// large enough to override it after a couple of repeats, and the
// affinity bonus plus jitter only break ties.
const (
	ratingBandLow      = 3.8
	ratingBandHigh     = 5.0
	missingRatingPrior = 0.5

	priceWeight      = 0.6
	interestWeight   = 1.2
	untaggedPrior    = 0.1
	repetitionWeight = 0.45
	closedPenalty    = 0.8
	affinityBonus    = 0.15
	paceNudge        = 0.06
	nightOwlBonus    = 0.05
	jitterAmplitude  = 0.01
)

// Category sets used by the pace nudge: fast stops suit packed days,
// slow ones suit relaxed days.
var (
	fastTypes = map[string]bool{"walk": true, "lookout": true, "cafe": true, "bakery": true, "market": true}
	slowTypes = map[string]bool{"museum": true, "gallery": true, "restaurant": true, "fine_dining": true}
)

// slotContext carries the per-day, per-slot transient state the scorer
// needs: which weekday the day falls on, the anchor being filled, and
// how often each category has already been used today.
type slotContext struct {
	weekday        time.Weekday
	anchor         string
	minuteOfDay    int
	kind           slotKind
	categoryCounts map[string]int
}

// scorePlace computes the desirability of one candidate for one slot.
// Higher is better; only relative ordering within a slot matters, so
// the result is not normalized.
func scorePlace(p *types.Place, req *types.GenerateItineraryRequest, wanted map[string]bool, sc *slotContext, rng *rand.Rand) float64 {
	score := 0.0

	// 1) Rating, normalized against the expected band. Unrated places
	// get a mid prior instead of zero so they are not shut out.
	rating := missingRatingPrior
	if p.Rating != nil {
		rating = clamp01((*p.Rating - ratingBandLow) / (ratingBandHigh - ratingBandLow))
	}
	score += rating

	// 2) Price proximity: zero penalty on exact budget match, maximum
	// at the opposite end of the 1..5 scale.
	if p.PriceLevel != nil {
		score -= priceWeight * math.Abs(float64(*p.PriceLevel-req.Budget)) / 4
	}

	// 3) Interest match: share of the place's categories that the user
	// asked for. Untagged places get a small neutral prior.
	if len(wanted) > 0 {
		if len(p.Types) == 0 {
			score += untaggedPrior
		} else {
			hits := 0
			for _, t := range p.Types {
				if wanted[t] {
					hits++
				}
			}
			score += interestWeight * float64(hits) / float64(len(p.Types))
		}
	}

	// 4) Category repetition: the first pick of a category today is
	// free, every further one costs more.
	if used := sc.categoryCounts[p.PrimaryType()]; used >= 1 {
		score -= repetitionWeight * float64(used)
	}

	// 5) Opening hours: unknown data counts as open on purpose.
	if types.OpeningState(p.OpeningHours, sc.weekday, sc.minuteOfDay) == types.HoursClosed {
		score -= closedPenalty
	}

	// 6) Slot affinity, tie-break only.
	primary := p.PrimaryType()
	for _, t := range slotPreferredTypes[sc.kind] {
		if t == primary {
			score += affinityBonus
			break
		}
	}

	// Pace and night-owl nudges.
	switch req.Pace {
	case types.PaceRelaxed:
		if hasAnyType(p.Types, slowTypes) {
			score += paceNudge
		}
	case types.PacePacked:
		if hasAnyType(p.Types, fastTypes) {
			score += paceNudge
		}
	}
	if req.Wake == types.WakeLate && isNightSpot(p) {
		score += nightOwlBonus
	}

	// 7) Bounded jitter so equal candidates don't always resolve in
	// array order. The rand source is injected, so a fixed seed makes
	// the whole generation reproducible.
	score += (rng.Float64()*2 - 1) * jitterAmplitude

	return score
}

func hasAnyType(placeTypes []string, set map[string]bool) bool {
	for _, t := range placeTypes {
		if set[t] {
			return true
		}
	}
	return false
}

func isNightSpot(p *types.Place) bool {
	for _, th := range p.Themes {
		if th == "nightlife" {
			return true
		}
	}
	for _, t := range p.Types {
		if t == "bar" || t == "club" {
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
