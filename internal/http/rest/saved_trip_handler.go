package rest

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pukarojha/wherewego_api/internal/model"
	"github.com/pukarojha/wherewego_api/util"
	"github.com/pukarojha/wherewego_api/util/tracing"
	"github.com/pukarojha/wherewego_api/util/values"
)

func (api *API) SavedTripRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/", Handler(api.GetSavedTrips))
		r.Method(http.MethodDelete, "/", Handler(api.ClearSavedTrips))
		r.Method(http.MethodPut, "/{slot}", Handler(api.SetSavedTrip))
		r.Method(http.MethodDelete, "/{slot}", Handler(api.RemoveSavedTrip))
	})

	return mux
}

// GetSavedTrips returns all four shortcut slots; unset slots come back null
// so the client can render placeholders.
func (api *API) GetSavedTrips(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		log.Println("unable to get user ID from context", err)
		return respondWithError(err, "Not authorized", values.NotAuthorised, &tc)
	}

	trips, err := api.GetSavedTripsRepo(r.Context(), userID)
	if err != nil {
		log.Println("failed to get saved trips", err)
		return respondWithError(err, "failed to get saved trips", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Saved trips retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       trips,
	}
}

func (api *API) SetSavedTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	slot := chi.URLParam(r, "slot")
	if !model.ValidSavedTripSlot(slot) {
		return respondWithError(nil, "unknown saved trip slot", values.BadRequestBody, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		log.Println("unable to get user ID from context", err)
		return respondWithError(err, "Not authorized", values.NotAuthorised, &tc)
	}

	var req model.SavedTripRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	savedTrip := model.SavedTrip{
		UserID:   userID,
		Slot:     slot,
		Name:     req.Name,
		Address:  req.Address,
		Location: util.PointFromLatLon(req.Latitude, req.Longitude),
	}
	if req.PlaceID != "" {
		savedTrip.PlaceID = &req.PlaceID
	}

	if err := api.UpsertSavedTripRepo(r.Context(), savedTrip); err != nil {
		return respondWithError(err, "failed to save trip location", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Trip location saved successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       savedTripResponse(savedTrip),
	}
}

// savedTripResponse projects a stored slot back into the shape the client
// reads, recovering latitude/longitude from the stored point.
func savedTripResponse(trip model.SavedTrip) model.SavedTripResponse {
	lat, lon := util.PointToLatLon(trip.Location)
	return model.SavedTripResponse{
		Slot:      trip.Slot,
		Name:      trip.Name,
		Address:   trip.Address,
		Latitude:  lat,
		Longitude: lon,
		PlaceID:   trip.PlaceID,
	}
}

func (api *API) RemoveSavedTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	slot := chi.URLParam(r, "slot")
	if !model.ValidSavedTripSlot(slot) {
		return respondWithError(nil, "unknown saved trip slot", values.BadRequestBody, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "Not authorized", values.NotAuthorised, &tc)
	}

	if err := api.DeleteSavedTripRepo(r.Context(), userID, slot); err != nil {
		return respondWithError(err, "failed to remove saved trip", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Saved trip removed",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) ClearSavedTrips(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "Not authorized", values.NotAuthorised, &tc)
	}

	if err := api.ClearSavedTripsRepo(r.Context(), userID); err != nil {
		return respondWithError(err, "failed to clear saved trips", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Saved trips cleared",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}
