package rest

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	googlemaps "github.com/pukarojha/wherewego_api/internal/http/google"
	"github.com/pukarojha/wherewego_api/internal/model"
	"github.com/pukarojha/wherewego_api/internal/trip"
	"github.com/pukarojha/wherewego_api/util"
	"github.com/pukarojha/wherewego_api/util/tracing"
	"github.com/pukarojha/wherewego_api/util/values"
)

func (api *API) TripRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Get("/ws", api.Deps.WebSocket.HandleConnections)

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/preview", Handler(api.PreviewTripHandler))
		r.Method(http.MethodGet, "/{id}", Handler(api.GetTripHandler))
		r.Method(http.MethodDelete, "/{id}", Handler(api.EndTripHandler))
		r.Method(http.MethodPost, "/{id}/waypoints", Handler(api.AddWaypointHandler))
		r.Method(http.MethodDelete, "/{id}/waypoints/{index}", Handler(api.RemoveWaypointHandler))
		r.Method(http.MethodPost, "/{id}/select", Handler(api.SelectRouteHandler))
	})

	return mux
}

// PreviewTripHandler starts a trip session and fetches its candidate routes.
// A directions failure does not fail the preview: the session is seeded with
// a single fallback route and marked degraded so the failure stays visible in
// logs while the screen still renders.
func (api *API) PreviewTripHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.PreviewTripRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	alternatives := true
	if req.Alternatives != nil {
		alternatives = *req.Alternatives
	}
	opts := googlemaps.DirectionsOptions{
		Avoid:        req.Avoid,
		Mode:         req.Mode,
		Alternatives: alternatives,
	}

	session := trip.NewSession(req.Origin, req.Destination, opts, api.Deps.Google.GetDirections)

	degraded := false
	if err := session.Start(r.Context()); err != nil {
		log.Printf("[%s] directions fetch failed, serving fallback route: %v", tc.RequestID, err)
		session.SeedCandidates(trip.FallbackCandidates(time.Now()))
		degraded = true
	}

	if !degraded && len(req.Waypoints) > 0 {
		if err := session.SetWaypoints(r.Context(), req.Waypoints); err != nil {
			return respondWithError(err, "failed to calculate route with stops", values.Error, &tc)
		}
	}

	session.Subscribe(func(u trip.Update) {
		api.Deps.WebSocket.PublishTripUpdate(u.SessionID.String(), u)
	})
	api.Deps.Trips.Put(session)

	resp := session.Snapshot()
	resp.Degraded = degraded

	return &ServerResponse{
		Message:    "Trip preview created successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       resp,
	}
}

func (api *API) GetTripHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	session, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}

	return &ServerResponse{
		Message:    "Trip retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       session.Snapshot(),
	}
}

func (api *API) EndTripHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	session, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}

	api.Deps.Trips.Delete(session.ID)

	return &ServerResponse{
		Message:    "Trip ended",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

// AddWaypointHandler appends a stop and returns the recalculated candidates.
// On a provider failure the previous candidates are untouched; the error is
// surfaced so the caller can decide whether to retry.
func (api *API) AddWaypointHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	session, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.AddWaypointRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	if err := session.AddWaypoint(r.Context(), req.Waypoint); err != nil {
		return respondWithError(err, "failed to recalculate route", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Waypoint added",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       session.Snapshot(),
	}
}

func (api *API) RemoveWaypointHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	session, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return respondWithError(err, "invalid waypoint index", values.BadRequestBody, &tc)
	}

	if err := session.RemoveWaypoint(r.Context(), index); err != nil {
		return respondWithError(err, "failed to recalculate route", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Waypoint removed",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       session.Snapshot(),
	}
}

// SelectRouteHandler marks a candidate as selected. An out-of-range index is
// a no-op, not an error: the UI may be referencing a candidate list a
// recalculation just replaced.
func (api *API) SelectRouteHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	session, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req model.SelectRouteRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	session.Select(req.Index)

	return &ServerResponse{
		Message:    "Route selection updated",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       session.Snapshot(),
	}
}

func (api *API) sessionFromRequest(r *http.Request, tc *tracing.Context) (*trip.Session, *ServerResponse) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, respondWithError(err, "invalid session id", values.BadRequestBody, tc)
	}

	session, ok := api.Deps.Trips.Get(id)
	if !ok {
		return nil, respondWithError(nil, "trip session not found", values.NotFound, tc)
	}
	return session, nil
}
