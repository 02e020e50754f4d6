package itinerary

import (
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/google/uuid"
)

const maxActivityTags = 3

// minuteOf parses an "HH:MM" anchor into minutes past midnight.
func minuteOf(anchor string) int {
	parts := strings.SplitN(anchor, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

// classifyAnchor buckets a time anchor into meal-adjacent, evening or
// daytime. Evening wraps past midnight.
func classifyAnchor(minuteOfDay int) slotKind {
	switch {
	case minuteOfDay >= 21*60 || minuteOfDay < 5*60:
		return slotEvening
	case (minuteOfDay >= 11*60 && minuteOfDay <= 14*60) ||
		(minuteOfDay >= 18*60 && minuteOfDay <= 21*60):
		return slotMeal
	default:
		return slotDaytime
	}
}

// planDay fills one day's anchors from the pool, marking every pick in
// the caller-owned used set so no place repeats across the trip. An
// anchor with no eligible candidate is dropped; a day that fills no
// anchors at all still comes back with an empty activity list.
func planDay(pool []types.Place, req *types.GenerateItineraryRequest, wanted map[string]bool, weekday time.Weekday, used map[uuid.UUID]bool, rng *rand.Rand) types.DayPlan {
	day := types.DayPlan{Activities: []types.Activity{}}
	categoryCounts := make(map[string]int)

	for _, anchor := range anchorsFor(req.Pace, req.Wake) {
		minute := minuteOf(anchor)
		sc := &slotContext{
			weekday:        weekday,
			anchor:         anchor,
			minuteOfDay:    minute,
			kind:           classifyAnchor(minute),
			categoryCounts: categoryCounts,
		}

		bestIdx := -1
		bestScore := 0.0
		for i := range pool {
			p := &pool[i]
			if p.Status != types.PlaceStatusActive || used[p.ID] {
				continue
			}
			s := scorePlace(p, req, wanted, sc, rng)
			if bestIdx == -1 || s > bestScore {
				bestIdx = i
				bestScore = s
			}
		}
		if bestIdx == -1 {
			continue
		}

		pick := &pool[bestIdx]
		used[pick.ID] = true
		categoryCounts[pick.PrimaryType()]++
		day.Activities = append(day.Activities, makeActivity(pick, anchor))
	}

	return day
}

// makeActivity projects a selected place onto its time slot.
func makeActivity(p *types.Place, anchor string) types.Activity {
	a := types.Activity{
		Time:  anchor,
		Title: p.Name,
		Tags:  activityTags(p),
	}
	if p.Description != nil && *p.Description != "" {
		a.Details = *p.Description
	} else if p.Address != nil {
		a.Details = *p.Address
	}
	// Places without coordinates stay title-only: no map link, no pin.
	if p.HasCoords() {
		a.Lat = p.Lat
		a.Lng = p.Lng
		a.MapURL = mapURL(p)
	}
	return a
}

func activityTags(p *types.Place) []string {
	tags := make([]string, 0, maxActivityTags)
	for _, t := range append(append([]string{}, p.Types...), p.Cuisines...) {
		if len(tags) == maxActivityTags {
			break
		}
		tags = append(tags, t)
	}
	return tags
}

func mapURL(p *types.Place) string {
	if p.GooglePlaceID != nil && *p.GooglePlaceID != "" {
		return fmt.Sprintf("https://www.google.com/maps/place/?q=place_id:%s", *p.GooglePlaceID)
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(p.Name+" "+p.City)
}
