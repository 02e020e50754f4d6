package types

// Pace controls how many time slots get scheduled per day.
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceBalanced Pace = "balanced"
	PacePacked   Pace = "packed"
)

// WakePreference shifts the day's time anchors earlier or later.
type WakePreference string

const (
	WakeEarly    WakePreference = "early"
	WakeStandard WakePreference = "standard"
	WakeLate     WakePreference = "late"
)

const (
	MinTripDays     = 1
	MaxTripDays     = 14
	DefaultTripDays = 3

	MinBudgetLevel     = 1
	MaxBudgetLevel     = 5
	DefaultBudgetLevel = 3
)

// GenerateItineraryRequest is one itinerary-generation call. It is
// immutable for the duration of the call.
type GenerateItineraryRequest struct {
	City      string         `json:"city"`
	Days      int            `json:"days,omitempty"`
	Budget    int            `json:"budget,omitempty"`
	Pace      Pace           `json:"pace,omitempty"`
	Wake      WakePreference `json:"wake,omitempty"`
	Interests []string       `json:"interests,omitempty"`
	// Seed fixes the tie-break jitter so a regenerate call with the same
	// seed reproduces the exact same plan. Zero means "pick one".
	Seed *int64 `json:"seed,omitempty"`
}

// Normalize applies defaults in place. It does not validate; out of
// range values are rejected by the service.
func (r *GenerateItineraryRequest) Normalize() {
	if r.Days == 0 {
		r.Days = DefaultTripDays
	}
	if r.Budget == 0 {
		r.Budget = DefaultBudgetLevel
	}
	if r.Pace == "" {
		r.Pace = PaceBalanced
	}
	if r.Wake == "" {
		r.Wake = WakeStandard
	}
}

// Activity is a Place projected onto the time slot it was assigned to.
type Activity struct {
	Time    string   `json:"time"`
	Title   string   `json:"title"`
	Details string   `json:"details,omitempty"`
	MapURL  string   `json:"mapUrl,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// DayPlan is the ordered activity list for one calendar day. A day with
// nothing schedulable still appears with an empty list so the response
// day count always equals the requested day count.
type DayPlan struct {
	Date       string     `json:"date,omitempty"`
	Activities []Activity `json:"activities"`
}

// Itinerary is the full generated plan. Built fresh per request, never
// mutated afterwards.
type Itinerary struct {
	Days  []DayPlan `json:"days"`
	Notes string    `json:"notes,omitempty"`
}
