package googlemaps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pukarojha/wherewego_api/internal/model"
)

// --- Places / Geocoding Structures ---

// Geometry contains location information
type Geometry struct {
	Location LatLng `json:"location"`
	Viewport Bounds `json:"viewport"`
}

// AddressComponent represents a component of an address
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Geometry         Geometry `json:"geometry"`
	Types            []string `json:"types"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	FormattedPhone   string   `json:"formatted_phone_number"`
	OpeningHours     *struct {
		OpenNow *bool `json:"open_now,omitempty"`
	} `json:"opening_hours,omitempty"`
	Icon string `json:"icon"`
}

type placesSearchResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Results      []placeResult `json:"results"`
}

type placeDetailsResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       placeResult `json:"result"`
}

type autocompleteResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Predictions  []struct {
		PlaceID              string `json:"place_id"`
		Description          string `json:"description"`
		StructuredFormatting struct {
			MainText      string `json:"main_text"`
			SecondaryText string `json:"secondary_text"`
		} `json:"structured_formatting"`
		Types []string `json:"types"`
	} `json:"predictions"`
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Results      []struct {
		FormattedAddress  string             `json:"formatted_address"`
		Geometry          Geometry           `json:"geometry"`
		PlaceID           string             `json:"place_id"`
		AddressComponents []AddressComponent `json:"address_components"`
	} `json:"results"`
}

// Place is the projection of a provider place result the app consumes.
type Place struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Address          string         `json:"address"`
	Location         model.GeoPoint `json:"location"`
	Types            []string       `json:"types,omitempty"`
	Rating           float64        `json:"rating,omitempty"`
	UserRatingsTotal int            `json:"user_ratings_total,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	OpenNow          *bool          `json:"open_now,omitempty"`
}

// Prediction is one autocomplete suggestion.
type Prediction struct {
	ID            string   `json:"id"`
	Description   string   `json:"description"`
	MainText      string   `json:"main_text"`
	SecondaryText string   `json:"secondary_text"`
	Types         []string `json:"types,omitempty"`
}

// GeocodeResult is the first match of a forward or reverse geocode.
type GeocodeResult struct {
	Address           string             `json:"address"`
	Location          model.GeoPoint     `json:"location"`
	PlaceID           string             `json:"place_id"`
	AddressComponents []AddressComponent `json:"address_components,omitempty"`
}

type placesQuery struct {
	Query    string `url:"query,omitempty"`
	Input    string `url:"input,omitempty"`
	Location string `url:"location,omitempty"`
	Radius   int    `url:"radius,omitempty"`
	Type     string `url:"type,omitempty"`
	RankBy   string `url:"rankby,omitempty"`
	PlaceID  string `url:"place_id,omitempty"`
	Fields   string `url:"fields,omitempty"`
	Key      string `url:"key"`
}

type geocodeQuery struct {
	Address string `url:"address,omitempty"`
	LatLng  string `url:"latlng,omitempty"`
	Key     string `url:"key"`
}

func latLngParam(p model.GeoPoint) string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(p.Latitude, 'f', 6, 64),
		strconv.FormatFloat(p.Longitude, 'f', 6, 64))
}

func toPlace(r placeResult) Place {
	place := Place{
		ID:               r.PlaceID,
		Name:             r.Name,
		Address:          r.FormattedAddress,
		Location:         model.GeoPoint{Latitude: r.Geometry.Location.Lat, Longitude: r.Geometry.Location.Lng},
		Types:            r.Types,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		Phone:            r.FormattedPhone,
	}
	if place.Address == "" {
		place.Address = r.Vicinity
	}
	if r.OpeningHours != nil {
		place.OpenNow = r.OpeningHours.OpenNow
	}
	return place
}

// SearchPlaces runs a text search, optionally biased around a location.
// ZERO_RESULTS is a successful empty result, not an error.
func (gc *GoogleMapsClient) SearchPlaces(ctx context.Context, text string, location *model.GeoPoint, radius int, placeType string) ([]Place, error) {
	q := placesQuery{Query: text, Type: placeType, Key: gc.APIKey}
	if location != nil {
		q.Location = latLngParam(*location)
		q.Radius = radius
	}

	var resp placesSearchResponse
	if err := gc.getJSON(ctx, "/place/textsearch/json", q, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusOK && resp.Status != StatusZeroResults {
		return nil, &ProviderError{Code: resp.Status, Message: providerMessage(resp.ErrorMessage, "Failed to search places")}
	}

	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, toPlace(r))
	}
	return places, nil
}

// NearbyPlaces returns prominent places around a location.
func (gc *GoogleMapsClient) NearbyPlaces(ctx context.Context, location model.GeoPoint, radius int, placeType string) ([]Place, error) {
	q := placesQuery{
		Location: latLngParam(location),
		Radius:   radius,
		Type:     placeType,
		RankBy:   "prominence",
		Key:      gc.APIKey,
	}

	var resp placesSearchResponse
	if err := gc.getJSON(ctx, "/place/nearbysearch/json", q, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusOK && resp.Status != StatusZeroResults {
		return nil, &ProviderError{Code: resp.Status, Message: providerMessage(resp.ErrorMessage, "Failed to get nearby places")}
	}

	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, toPlace(r))
	}
	return places, nil
}

// Autocomplete returns suggestions for a partial query, optionally biased
// around a location.
func (gc *GoogleMapsClient) Autocomplete(ctx context.Context, input string, location *model.GeoPoint, radius int) ([]Prediction, error) {
	q := placesQuery{Input: input, Key: gc.APIKey}
	if location != nil {
		q.Location = latLngParam(*location)
		q.Radius = radius
	}

	var resp autocompleteResponse
	if err := gc.getJSON(ctx, "/place/autocomplete/json", q, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusOK && resp.Status != StatusZeroResults {
		return nil, &ProviderError{Code: resp.Status, Message: providerMessage(resp.ErrorMessage, "Failed to get autocomplete")}
	}

	predictions := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		predictions = append(predictions, Prediction{
			ID:            p.PlaceID,
			Description:   p.Description,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
			Types:         p.Types,
		})
	}
	return predictions, nil
}

// GetPlaceDetails fetches detailed information about a place using its Place ID.
// Requesting specific fields is REQUIRED and helps manage costs.
func (gc *GoogleMapsClient) GetPlaceDetails(ctx context.Context, placeID string) (*Place, error) {
	if placeID == "" {
		return nil, fmt.Errorf("placeID cannot be empty")
	}

	q := placesQuery{
		PlaceID: placeID,
		Fields:  "name,formatted_address,geometry,place_id,types,rating,opening_hours,formatted_phone_number",
		Key:     gc.APIKey,
	}

	var resp placeDetailsResponse
	if err := gc.getJSON(ctx, "/place/details/json", q, &resp); err != nil {
		return nil, err
	}
	if resp.Status != StatusOK {
		return nil, &ProviderError{Code: resp.Status, Message: providerMessage(resp.ErrorMessage, "Failed to get place details")}
	}

	place := toPlace(resp.Result)
	return &place, nil
}

// Geocode resolves a free-text address to coordinates (first match only).
func (gc *GoogleMapsClient) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	var resp geocodeResponse
	if err := gc.getJSON(ctx, "/geocode/json", geocodeQuery{Address: address, Key: gc.APIKey}, &resp); err != nil {
		return nil, err
	}
	return firstGeocodeResult(&resp, "Failed to geocode address")
}

// ReverseGeocode resolves coordinates to the nearest address (first match only).
func (gc *GoogleMapsClient) ReverseGeocode(ctx context.Context, location model.GeoPoint) (*GeocodeResult, error) {
	var resp geocodeResponse
	if err := gc.getJSON(ctx, "/geocode/json", geocodeQuery{LatLng: latLngParam(location), Key: gc.APIKey}, &resp); err != nil {
		return nil, err
	}
	return firstGeocodeResult(&resp, "Failed to reverse geocode")
}

func firstGeocodeResult(resp *geocodeResponse, fallback string) (*GeocodeResult, error) {
	if resp.Status != StatusOK || len(resp.Results) == 0 {
		return nil, &ProviderError{Code: resp.Status, Message: providerMessage(resp.ErrorMessage, fallback)}
	}
	r := resp.Results[0]
	return &GeocodeResult{
		Address:           r.FormattedAddress,
		Location:          model.GeoPoint{Latitude: r.Geometry.Location.Lat, Longitude: r.Geometry.Location.Lng},
		PlaceID:           r.PlaceID,
		AddressComponents: r.AddressComponents,
	}, nil
}
