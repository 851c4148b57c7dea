package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pukarojha/wherewego_api/internal/model"
	"github.com/pukarojha/wherewego_api/util"
	"github.com/pukarojha/wherewego_api/util/tracing"
	"github.com/pukarojha/wherewego_api/util/values"
)

const defaultSearchRadiusMeters = 5000

func (api *API) PlacesRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)

		// Query Params: ?query=...&lat=...&lng=...&radius=...&type=...
		r.Method(http.MethodGet, "/search", Handler(api.SearchPlacesHandler))

		// Query Params: ?input=...&lat=...&lng=...&radius=...
		r.Method(http.MethodGet, "/autocomplete", Handler(api.AutocompletePlaceHandler))

		// Query Params: ?place_id=...
		r.Method(http.MethodGet, "/details", Handler(api.PlaceDetailHandler))

		// Query Params: ?lat=...&lng=...&radius=...&type=...
		r.Method(http.MethodGet, "/nearby", Handler(api.NearbyPlacesHandler))

		// Query Params: ?address=...
		r.Method(http.MethodGet, "/geocode", Handler(api.GeocodeHandler))

		// Query Params: ?lat=...&lng=...
		r.Method(http.MethodGet, "/reverse", Handler(api.ReverseGeocodeHandler))
	})
	return mux
}

func (api *API) SearchPlacesHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	text := strings.TrimSpace(r.URL.Query().Get("query"))
	if text == "" {
		return respondWithError(nil, "Missing or empty 'query' parameter", values.BadRequestBody, &tc)
	}

	location, radius, errResp := optionalLocationBias(r, &tc)
	if errResp != nil {
		return errResp
	}

	places, err := api.Deps.Google.SearchPlaces(r.Context(), text, location, radius, r.URL.Query().Get("type"))
	if err != nil {
		return respondWithProviderError(err, "Failed to search places", &tc)
	}

	return &ServerResponse{
		Message:    "Places retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       places,
	}
}

func (api *API) AutocompletePlaceHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	input := strings.TrimSpace(r.URL.Query().Get("input"))
	if input == "" {
		return respondWithError(nil, "Missing or empty 'input' parameter", values.BadRequestBody, &tc)
	}

	location, radius, errResp := optionalLocationBias(r, &tc)
	if errResp != nil {
		return errResp
	}

	predictions, err := api.Deps.Google.Autocomplete(r.Context(), input, location, radius)
	if err != nil {
		return respondWithProviderError(err, "Failed to get autocomplete", &tc)
	}

	return &ServerResponse{
		Message:    "Autocomplete retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       predictions,
	}
}

func (api *API) PlaceDetailHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	placeID := r.URL.Query().Get("place_id")
	if placeID == "" {
		return respondWithError(nil, "Missing 'place_id' parameter", values.BadRequestBody, &tc)
	}

	place, err := api.Deps.Google.GetPlaceDetails(r.Context(), placeID)
	if err != nil {
		return respondWithProviderError(err, "Failed to get place details", &tc)
	}

	return &ServerResponse{
		Message:    "Place details retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       place,
	}
}

func (api *API) NearbyPlacesHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	location, radius, errResp := optionalLocationBias(r, &tc)
	if errResp != nil {
		return errResp
	}
	if location == nil {
		return respondWithError(nil, "Missing 'lat'/'lng' parameters", values.BadRequestBody, &tc)
	}

	places, err := api.Deps.Google.NearbyPlaces(r.Context(), *location, radius, r.URL.Query().Get("type"))
	if err != nil {
		return respondWithProviderError(err, "Failed to get nearby places", &tc)
	}

	return &ServerResponse{
		Message:    "Nearby places retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       places,
	}
}

func (api *API) GeocodeHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		return respondWithError(nil, "Missing or empty 'address' parameter", values.BadRequestBody, &tc)
	}

	result, err := api.Deps.Google.Geocode(r.Context(), address)
	if err != nil {
		return respondWithProviderError(err, "Failed to geocode address", &tc)
	}

	return &ServerResponse{
		Message:    "Address geocoded successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       result,
	}
}

func (api *API) ReverseGeocodeHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	location, _, errResp := optionalLocationBias(r, &tc)
	if errResp != nil {
		return errResp
	}
	if location == nil {
		return respondWithError(nil, "Missing 'lat'/'lng' parameters", values.BadRequestBody, &tc)
	}

	result, err := api.Deps.Google.ReverseGeocode(r.Context(), *location)
	if err != nil {
		return respondWithProviderError(err, "Failed to reverse geocode", &tc)
	}

	return &ServerResponse{
		Message:    "Coordinates reverse geocoded successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       result,
	}
}

// optionalLocationBias parses the lat/lng/radius triple shared by the place
// endpoints. Absent coordinates are not an error; callers decide whether the
// bias is required.
func optionalLocationBias(r *http.Request, tc *tracing.Context) (*model.GeoPoint, int, *ServerResponse) {
	queryParams := r.URL.Query()

	radius := defaultSearchRadiusMeters
	if radiusStr := queryParams.Get("radius"); radiusStr != "" {
		parsed, err := strconv.Atoi(radiusStr)
		if err != nil || parsed <= 0 {
			return nil, 0, respondWithError(err, "Invalid 'radius' parameter", values.BadRequestBody, tc)
		}
		radius = parsed
	}

	latStr, lngStr := queryParams.Get("lat"), queryParams.Get("lng")
	if latStr == "" && lngStr == "" {
		return nil, radius, nil
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, 0, respondWithError(nil, "Invalid 'lat'/'lng' parameters", values.BadRequestBody, tc)
	}

	return &model.GeoPoint{Latitude: lat, Longitude: lng}, radius, nil
}
