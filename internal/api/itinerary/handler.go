package itinerary

import (
	"errors"
	"log/slog"
	"net/http"

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

// Generate handles POST /api/v1/itinerary.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Generate", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Generate"))
	l.DebugContext(ctx, "Generate itinerary handler invoked")

	var req types.GenerateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.Generate(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrBadRequest):
			l.WarnContext(ctx, "Invalid generation request", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrRepository):
			l.ErrorContext(ctx, "Place repository unavailable", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "place data temporarily unavailable")
		default:
			l.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to generate itinerary")
		}
		return
	}

	l.InfoContext(ctx, "Itinerary generated", slog.Int("days", len(plan.Days)))
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}
