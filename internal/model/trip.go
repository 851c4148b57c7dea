package model

// GeoPoint is an immutable latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// LocationRef is either a free-text address, a named place or a resolved
// coordinate. Coordinates may be absent, in which case the raw address string
// is sent to the directions provider as-is.
type LocationRef struct {
	Address     string    `json:"address" validate:"required"`
	Name        string    `json:"name,omitempty"`
	Coordinates *GeoPoint `json:"coordinates,omitempty"`
}

// RouteStep is a single turn-by-turn instruction.
type RouteStep struct {
	InstructionHTML  string   `json:"instruction_html"`
	InstructionPlain string   `json:"instruction"`
	DistanceText     string   `json:"distance_text"`
	DistanceMeters   int      `json:"distance_meters"`
	DurationSeconds  int      `json:"duration_seconds"`
	Maneuver         string   `json:"maneuver,omitempty"`
	StartLocation    GeoPoint `json:"start_location"`
	EndLocation      GeoPoint `json:"end_location"`
}

// CandidateRoute is one of the alternative routes returned for a single
// origin/destination/waypoint query. IDs are 0-based in provider order; the
// provider gives no ordering guarantee, so the order is never changed here.
type CandidateRoute struct {
	ID              int         `json:"id"`
	Polyline        []GeoPoint  `json:"polyline"`
	Steps           []RouteStep `json:"steps"`
	DurationText    string      `json:"duration"`
	DurationSeconds int         `json:"duration_seconds"`
	DistanceText    string      `json:"distance"`
	DistanceMeters  int         `json:"distance_meters"`
	Summary         string      `json:"summary,omitempty"`
	Description     string      `json:"description"`
	ArrivalTime     string      `json:"arrival_time"`
	StartLocation   GeoPoint    `json:"start_location"`
	EndLocation     GeoPoint    `json:"end_location"`
}

// MapRegion is the viewport that fits a route's polyline.
type MapRegion struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

type PreviewTripRequest struct {
	Origin       LocationRef   `json:"origin" validate:"required"`
	Destination  LocationRef   `json:"destination" validate:"required"`
	Waypoints    []LocationRef `json:"waypoints,omitempty" validate:"omitempty,dive"`
	Avoid        []string      `json:"avoid,omitempty" validate:"dive,oneof=tolls highways ferries"`
	Mode         string        `json:"mode,omitempty" validate:"omitempty,oneof=driving walking bicycling transit"`
	Alternatives *bool         `json:"alternatives,omitempty"`
}

type AddWaypointRequest struct {
	Waypoint LocationRef `json:"waypoint" validate:"required"`
}

type SelectRouteRequest struct {
	Index int `json:"index"`
}

// TripResponse is the session snapshot returned by the trip endpoints.
type TripResponse struct {
	SessionID     string           `json:"session_id"`
	Origin        LocationRef      `json:"origin"`
	Destination   LocationRef      `json:"destination"`
	Waypoints     []LocationRef    `json:"waypoints"`
	Candidates    []CandidateRoute `json:"candidates"`
	SelectedIndex int              `json:"selected_index"`
	Recalculating bool             `json:"recalculating"`
	Region        *MapRegion       `json:"region,omitempty"`
	Degraded      bool             `json:"degraded,omitempty"`
}
