package place

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Search handles GET /api/v1/places.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "Search", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Search"))

	q := r.URL.Query()
	filter := types.PlaceFilter{
		City:   strings.TrimSpace(q.Get("city")),
		Types:  splitCSV(q.Get("types")),
		Themes: splitCSV(q.Get("themes")),
		Limit:  atoiDefault(q.Get("limit"), 0),
	}

	places, err := h.service.SearchPlaces(ctx, filter)
	if err != nil {
		h.writeServiceError(ctx, l, w, r, err, "failed to search places")
		return
	}

	l.InfoContext(ctx, "Places searched",
		slog.String("city", filter.City), slog.Int("results", len(places)))
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"places": places})
}

// Nearby handles GET /api/v1/places/nearby.
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "Nearby", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/nearby"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Nearby"))

	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lng query parameters are required")
		return
	}

	req := types.NearbyRequest{
		Lat:     lat,
		Lng:     lng,
		Tags:    splitCSV(q.Get("tags")),
		OpenNow: q.Get("open_now") == "true" || q.Get("open_now") == "1",
		Limit:   atoiDefault(q.Get("limit"), 0),
	}
	if radius, err := strconv.ParseFloat(q.Get("radius_km"), 64); err == nil {
		req.RadiusKm = radius
	}

	results, err := h.service.Nearby(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, l, w, r, err, "failed to find nearby places")
		return
	}

	l.InfoContext(ctx, "Nearby places found", slog.Int("results", len(results)))
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"places": results})
}

// Upsert handles POST /api/v1/admin/places.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "Upsert", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/admin/places"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Upsert"))

	var req types.UpsertPlaceRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, created, err := h.service.Upsert(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, l, w, r, err, "failed to upsert place")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	l.InfoContext(ctx, "Place upserted",
		slog.String("place_id", saved.ID.String()), slog.Bool("created", created))
	api.WriteJSONResponse(w, r, status, saved)
}

func (h *Handler) writeServiceError(ctx context.Context, l *slog.Logger, w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, types.ErrBadRequest):
		l.WarnContext(ctx, "Invalid place request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrRepository):
		l.ErrorContext(ctx, "Place repository unavailable", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "place data temporarily unavailable")
	default:
		l.ErrorContext(ctx, fallback, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
	}
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
