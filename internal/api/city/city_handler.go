package city

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-api/internal/api"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewCityHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GetCities godoc
// @Summary      List cities
// @Description  Returns every city sorted by name, without points of interest.
// @Tags         Cities
// @Produce      json
// @Success      200 {array}  types.CityWithoutPointsOfInterestDto
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities [get]
func (h *Handler) GetCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCities", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetCities"))
	l.DebugContext(ctx, "Retrieving all cities")

	cities, err := h.service.ListCities(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteServiceError(w, r, l, err)
		return
	}

	l.InfoContext(ctx, "Successfully returned cities", slog.Int("count", len(cities)))
	span.SetStatus(codes.Ok, "Cities returned successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ToCitiesWithoutPointsOfInterest(cities))
}

// GetCity godoc
// @Summary      Get a city
// @Description  Returns one city. With includePointsOfInterest=true the nested points of interest are included; otherwise only the scalar fields are returned.
// @Tags         Cities
// @Produce      json
// @Param        cityId                  path  int  true  "City ID"
// @Param        includePointsOfInterest query bool false "Include points of interest"
// @Success      200 {object} types.CityDto "City with points of interest"
// @Success      200 {object} types.CityWithoutPointsOfInterestDto "City without points of interest"
// @Failure      400 {object} api.Response "Invalid includePointsOfInterest value"
// @Failure      404 "City not found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities/{cityId} [get]
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities/{cityId}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetCity"))

	cityID, ok := api.IDParam(r, "cityID")
	if !ok {
		span.SetStatus(codes.Error, "Invalid city id")
		api.NotFound(w)
		return
	}

	include := false
	if raw := r.URL.Query().Get("includePointsOfInterest"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			l.WarnContext(ctx, "Invalid includePointsOfInterest value", slog.String("value", raw))
			span.SetStatus(codes.Error, "Invalid query parameter")
			api.ErrorResponse(w, r, http.StatusBadRequest, "includePointsOfInterest must be true or false")
			return
		}
		include = v
	}
	span.SetAttributes(attribute.Int("city.id", cityID), attribute.Bool("include_points_of_interest", include))
	l = l.With(slog.Int("cityID", cityID))

	city, err := h.service.GetCity(ctx, cityID, include)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "City returned successfully")
	if include {
		api.WriteJSONResponse(w, r, http.StatusOK, types.ToCityDto(*city))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.ToCityWithoutPointsOfInterest(*city))
}
