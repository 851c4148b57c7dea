package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pukarojha/wherewego_api/internal/model"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Provider status codes surfaced through ProviderError.Code.
const (
	StatusOK            = "OK"
	StatusZeroResults   = "ZERO_RESULTS"
	StatusRequestFailed = "REQUEST_FAILED"
)

// ProviderError covers both halves of the failure taxonomy: transport
// failures (network error, non-2xx) carry Code REQUEST_FAILED with the
// underlying message; provider-level failures carry the provider status
// (ZERO_RESULTS, NOT_FOUND, OVER_QUERY_LIMIT, ...) and its error_message.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("google maps: %s: %s", e.Code, e.Message)
}

// IsRequestFailed reports whether the failure happened below the provider,
// i.e. the request never produced a decodable status envelope.
func (e *ProviderError) IsRequestFailed() bool {
	return e.Code == StatusRequestFailed
}

// GoogleMapsClient handles communication with Google Maps APIs
type GoogleMapsClient struct {
	APIKey  string // IMPORTANT: Handle your API Key securely! Do not hardcode.
	BaseURL string
	Client  *http.Client
}

// NewGoogleMapsClient creates a new client instance
// apiKey should be loaded securely (e.g., from environment variable)
func NewGoogleMapsClient(apiKey string) *GoogleMapsClient {
	if apiKey == "" {
		log.Println("Warning: Google Maps API Key is empty.")
	}
	return &GoogleMapsClient{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// --- Directions Structures ---

// LatLng represents latitude and longitude
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds represents a viewport bounding box
type Bounds struct {
	NorthEast LatLng `json:"northeast"`
	SouthWest LatLng `json:"southwest"`
}

// TextValue is the provider's {"text": "6.2 km", "value": 6200} pair.
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// EncodedPolyline holds a compact path encoding.
type EncodedPolyline struct {
	Points string `json:"points"`
}

// Step is one turn-by-turn instruction within a leg.
type Step struct {
	Distance         TextValue       `json:"distance"`
	Duration         TextValue       `json:"duration"`
	HTMLInstructions string          `json:"html_instructions"`
	Maneuver         string          `json:"maneuver,omitempty"`
	StartLocation    LatLng          `json:"start_location"`
	EndLocation      LatLng          `json:"end_location"`
	Polyline         EncodedPolyline `json:"polyline"`
}

// Leg is one origin-to-waypoint or waypoint-to-destination segment.
type Leg struct {
	Distance      TextValue `json:"distance"`
	Duration      TextValue `json:"duration"`
	StartAddress  string    `json:"start_address"`
	EndAddress    string    `json:"end_address"`
	StartLocation LatLng    `json:"start_location"`
	EndLocation   LatLng    `json:"end_location"`
	Steps         []Step    `json:"steps"`
}

// Route is one raw candidate route, exactly as the provider returned it.
type Route struct {
	OverviewPolyline EncodedPolyline `json:"overview_polyline"`
	Legs             []Leg           `json:"legs"`
	Summary          string          `json:"summary"`
	Bounds           Bounds          `json:"bounds"`
	Warnings         []string        `json:"warnings,omitempty"`
	WaypointOrder    []int           `json:"waypoint_order,omitempty"`
}

// DirectionsResponse represents the top-level response for a Directions request
type DirectionsResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Routes       []Route `json:"routes"`
}

// DirectionsOptions carries the optional parts of a directions request.
type DirectionsOptions struct {
	Waypoints     []model.LocationRef
	Avoid         []string // tolls, highways, ferries
	Mode          string   // defaults to "driving"
	Alternatives  bool
	DepartureTime string // defaults to "now"
}

type directionsQuery struct {
	Origin        string `url:"origin"`
	Destination   string `url:"destination"`
	Waypoints     string `url:"waypoints,omitempty"`
	Avoid         string `url:"avoid,omitempty"`
	Mode          string `url:"mode"`
	Alternatives  bool   `url:"alternatives"`
	DepartureTime string `url:"departure_time,omitempty"`
	Key           string `url:"key"`
}

// locationParam serializes a LocationRef the way the provider expects:
// "lat,lng" when coordinates are resolved, the raw address string otherwise.
func locationParam(ref model.LocationRef) string {
	if ref.Coordinates != nil {
		return fmt.Sprintf("%s,%s",
			strconv.FormatFloat(ref.Coordinates.Latitude, 'f', 6, 64),
			strconv.FormatFloat(ref.Coordinates.Longitude, 'f', 6, 64))
	}
	return ref.Address
}

// GetDirections requests candidate routes between origin and destination and
// returns the routes array unnormalized; normalization is a separate stage so
// it can be unit-tested without network behavior.
func (gc *GoogleMapsClient) GetDirections(ctx context.Context, origin, destination model.LocationRef, opts DirectionsOptions) ([]Route, error) {
	if gc.APIKey == "" {
		return nil, fmt.Errorf("google maps API key is not set")
	}

	q := directionsQuery{
		Origin:        locationParam(origin),
		Destination:   locationParam(destination),
		Mode:          opts.Mode,
		Alternatives:  opts.Alternatives,
		DepartureTime: opts.DepartureTime,
		Key:           gc.APIKey,
	}
	if q.Mode == "" {
		q.Mode = "driving"
	}
	if q.DepartureTime == "" {
		q.DepartureTime = "now"
	}
	if len(opts.Waypoints) > 0 {
		params := make([]string, len(opts.Waypoints))
		for i, wp := range opts.Waypoints {
			params[i] = locationParam(wp)
		}
		q.Waypoints = strings.Join(params, "|")
	}
	if len(opts.Avoid) > 0 {
		q.Avoid = strings.Join(opts.Avoid, "|")
	}

	var directionsResponse DirectionsResponse
	if err := gc.getJSON(ctx, "/directions/json", q, &directionsResponse); err != nil {
		return nil, err
	}

	if directionsResponse.Status != StatusOK {
		log.Printf("Google Maps Directions returned status: %s\n", directionsResponse.Status)
		return nil, &ProviderError{
			Code:    directionsResponse.Status,
			Message: providerMessage(directionsResponse.ErrorMessage, "Failed to get directions"),
		}
	}

	return directionsResponse.Routes, nil
}

// getJSON issues a GET against the API and decodes the body. All failures up
// to (and including) JSON decoding are transport failures.
func (gc *GoogleMapsClient) getJSON(ctx context.Context, path string, params interface{}, target interface{}) error {
	values, err := query.Values(params)
	if err != nil {
		return &ProviderError{Code: StatusRequestFailed, Message: err.Error()}
	}

	fullURL := fmt.Sprintf("%s%s?%s", gc.BaseURL, path, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &ProviderError{Code: StatusRequestFailed, Message: err.Error()}
	}

	resp, err := gc.Client.Do(req)
	if err != nil {
		log.Printf("Error making Google Maps request: %v\n", err)
		return &ProviderError{Code: StatusRequestFailed, Message: err.Error()}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Code: StatusRequestFailed, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Google Maps request failed with status %d: %s\n", resp.StatusCode, string(bodyBytes))
		return &ProviderError{
			Code:    StatusRequestFailed,
			Message: fmt.Sprintf("status code %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		log.Printf("Error decoding Google Maps response: %v\n", err)
		return &ProviderError{Code: StatusRequestFailed, Message: err.Error()}
	}

	return nil
}

func providerMessage(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
