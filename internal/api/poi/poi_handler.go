package poi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-api/internal/api"
	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

func (h *HandlerImpl) start(r *http.Request, name, route string) (*http.Request, trace.Span, *slog.Logger) {
	ctx, span := otel.Tracer("PointOfInterestHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span, h.logger.With(slog.String("handler", name))
}

// ids reads the city id and, when poiParam is set, the point of interest id.
// Unparseable ids are answered with 404.
func ids(w http.ResponseWriter, r *http.Request, span trace.Span, poiParam bool) (cityID, poiID int, ok bool) {
	if cityID, ok = api.IDParam(r, "cityID"); !ok {
		span.SetStatus(codes.Error, "Invalid city id")
		api.NotFound(w)
		return 0, 0, false
	}
	span.SetAttributes(attribute.Int("city.id", cityID))
	if !poiParam {
		return cityID, 0, true
	}
	if poiID, ok = api.IDParam(r, "poiID"); !ok {
		span.SetStatus(codes.Error, "Invalid point of interest id")
		api.NotFound(w)
		return 0, 0, false
	}
	span.SetAttributes(attribute.Int("poi.id", poiID))
	return cityID, poiID, true
}

func (h *HandlerImpl) fail(w http.ResponseWriter, r *http.Request, span trace.Span, l *slog.Logger, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "Service operation failed")
	api.WriteServiceError(w, r, l, err)
}

// GetPointsOfInterest godoc
// @Summary      List points of interest
// @Description  Returns the points of interest of a city.
// @Tags         PointsOfInterest
// @Produce      json
// @Param        cityId path int true "City ID"
// @Success      200 {array}  types.PointOfInterestDto
// @Failure      404 "City not found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities/{cityId}/pointsofinterest [get]
func (h *HandlerImpl) GetPointsOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.start(r, "GetPointsOfInterest", "/cities/{cityId}/pointsofinterest")
	defer span.End()

	cityID, _, ok := ids(w, r, span, false)
	if !ok {
		return
	}

	pois, err := h.service.GetPointsOfInterest(r.Context(), cityID)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Points of interest returned")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ToPointOfInterestDtos(pois))
}

// GetPointOfInterest godoc
// @Summary      Get a point of interest
// @Tags         PointsOfInterest
// @Produce      json
// @Param        cityId path int true "City ID"
// @Param        poiId  path int true "Point of interest ID"
// @Success      200 {object} types.PointOfInterestDto
// @Failure      404 "City or point of interest not found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities/{cityId}/pointsofinterest/{poiId} [get]
func (h *HandlerImpl) GetPointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.start(r, "GetPointOfInterest", "/cities/{cityId}/pointsofinterest/{poiId}")
	defer span.End()

	cityID, poiID, ok := ids(w, r, span, true)
	if !ok {
		return
	}

	poi, err := h.service.GetPointOfInterest(r.Context(), cityID, poiID)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Point of interest returned")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ToPointOfInterestDto(*poi))
}

// CreatePointOfInterest godoc
// @Summary      Create a point of interest
// @Description  Adds a point of interest to a city. The id is one more than the largest id in the store.
// @Tags         PointsOfInterest
// @Accept       json
// @Produce      json
// @Param        cityId path int true "City ID"
// @Param        pointOfInterest body types.PointOfInterestForCreation true "Point of interest"
// @Success      201 {object} types.PointOfInterestDto
// @Header       201 {string} Location "URL of the created point of interest"
// @Failure      400 {object} api.ValidationResponse "Invalid payload"
// @Failure      404 "City not found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities/{cityId}/pointsofinterest [post]
func (h *HandlerImpl) CreatePointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.start(r, "CreatePointOfInterest", "/cities/{cityId}/pointsofinterest")
	defer span.End()

	cityID, _, ok := ids(w, r, span, false)
	if !ok {
		return
	}

	var req types.PointOfInterestForCreation
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreatePointOfInterest(r.Context(), cityID, req)
	if err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/cities/%d/pointsofinterest/%d", cityID, created.ID))
	span.SetStatus(codes.Ok, "Point of interest created")
	api.WriteJSONResponse(w, r, http.StatusCreated, types.ToPointOfInterestDto(*created))
}

// UpdatePointOfInterest godoc
// @Summary      Replace a point of interest
// @Description  Replaces name and description. Both fields are required.
// @Tags         PointsOfInterest
// @Accept       json
// @Param        cityId path int true "City ID"
// @Param        poiId  path int true "Point of interest ID"
// @Param        pointOfInterest body types.PointOfInterestForUpdate true "Point of interest"
// @Success      204
// @Failure      400 {object} api.ValidationResponse "Invalid payload"
// @Failure      404 "City or point of interest not found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities/{cityId}/pointsofinterest/{poiId} [put]
func (h *HandlerImpl) UpdatePointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.start(r, "UpdatePointOfInterest", "/cities/{cityId}/pointsofinterest/{poiId}")
	defer span.End()

	cityID, poiID, ok := ids(w, r, span, true)
	if !ok {
		return
	}

	var req types.PointOfInterestForUpdate
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdatePointOfInterest(r.Context(), cityID, poiID, req); err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Point of interest updated")
	w.WriteHeader(http.StatusNoContent)
}

// PartiallyUpdatePointOfInterest godoc
// @Summary      Patch a point of interest
// @Description  Applies a JSON Patch document (RFC 6902) to /name and /description. Nothing is stored unless the result validates.
// @Tags         PointsOfInterest
// @Accept       json
// @Param        cityId path int true "City ID"
// @Param        poiId  path int true "Point of interest ID"
// @Param        patch  body []object true "JSON Patch operations"
// @Success      204
// @Failure      400 {object} api.ValidationResponse "Invalid patch document or result"
// @Failure      404 "City or point of interest not found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities/{cityId}/pointsofinterest/{poiId} [patch]
func (h *HandlerImpl) PartiallyUpdatePointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.start(r, "PartiallyUpdatePointOfInterest", "/cities/{cityId}/pointsofinterest/{poiId}")
	defer span.End()

	cityID, poiID, ok := ids(w, r, span, true)
	if !ok {
		return
	}

	raw, err := api.ReadBody(w, r)
	if err != nil {
		l.WarnContext(r.Context(), "Failed to read patch document", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := DecodePatch(raw)
	if err != nil {
		if errors.Is(err, ErrEmptyPatch) {
			span.SetStatus(codes.Error, "Missing patch document")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.fail(w, r, span, l, err)
		return
	}

	if err := h.service.PatchPointOfInterest(r.Context(), cityID, poiID, patch); err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Point of interest patched")
	w.WriteHeader(http.StatusNoContent)
}

// DeletePointOfInterest godoc
// @Summary      Delete a point of interest
// @Description  Deletes the point of interest and notifies the administrator.
// @Tags         PointsOfInterest
// @Param        cityId path int true "City ID"
// @Param        poiId  path int true "Point of interest ID"
// @Success      204
// @Failure      404 "City or point of interest not found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities/{cityId}/pointsofinterest/{poiId} [delete]
func (h *HandlerImpl) DeletePointOfInterest(w http.ResponseWriter, r *http.Request) {
	r, span, l := h.start(r, "DeletePointOfInterest", "/cities/{cityId}/pointsofinterest/{poiId}")
	defer span.End()

	cityID, poiID, ok := ids(w, r, span, true)
	if !ok {
		return
	}

	if err := h.service.DeletePointOfInterest(r.Context(), cityID, poiID); err != nil {
		h.fail(w, r, span, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Point of interest deleted")
	w.WriteHeader(http.StatusNoContent)
}
