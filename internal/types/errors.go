package types

import "errors"

// Error kinds the planning core distinguishes at its boundary. Handlers
// map ErrBadRequest to a 4xx response and ErrRepository to a 5xx one;
// an empty candidate pool is NOT an error (it yields an itinerary of
// empty days), so a data-layer outage stays distinguishable from a city
// that genuinely has no places.
var (
	ErrBadRequest = errors.New("invalid request")
	ErrRepository = errors.New("repository failure")
)
