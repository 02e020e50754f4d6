package area

import (
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

// Suggest handles GET /api/v1/areas/suggest.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AreaHandler").Start(r.Context(), "Suggest", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/areas/suggest"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Suggest"))
	l.DebugContext(ctx, "Area suggest handler invoked")

	q := r.URL.Query()
	city := strings.TrimSpace(q.Get("city"))
	if city == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "city query parameter is required")
		return
	}

	req := types.AreaSuggestRequest{
		City:   city,
		Days:   atoiDefault(q.Get("days"), types.DefaultTripDays),
		Budget: atoiDefault(q.Get("budget"), types.DefaultBudgetLevel),
		Pace:   types.Pace(q.Get("pace")),
	}
	if req.Days < types.MinTripDays {
		req.Days = types.MinTripDays
	}
	if req.Budget < types.MinBudgetLevel {
		req.Budget = types.MinBudgetLevel
	}
	if req.Budget > types.MaxBudgetLevel {
		req.Budget = types.MaxBudgetLevel
	}
	if req.Pace == "" {
		req.Pace = types.PaceBalanced
	}
	if raw := strings.TrimSpace(q.Get("interests")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				req.Interests = append(req.Interests, strings.ToLower(part))
			}
		}
	}

	resp, err := h.service.Suggest(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrBadRequest):
			l.WarnContext(ctx, "Invalid area suggest request", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrRepository):
			l.ErrorContext(ctx, "Area repository unavailable", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadGateway, "area data temporarily unavailable")
		default:
			l.ErrorContext(ctx, "Failed to suggest areas", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to suggest areas")
		}
		return
	}

	l.InfoContext(ctx, "Areas suggested",
		slog.String("city", resp.City),
		slog.Int("areas", len(resp.AreasRanked)))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
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
