package trip

import (
	"math"
	"testing"
	"time"

	googlemaps "github.com/pukarojha/wherewego_api/internal/http/google"
	"github.com/pukarojha/wherewego_api/internal/model"
)

func rawLeg(durationSec, distanceMeters int, steps ...googlemaps.Step) googlemaps.Leg {
	return googlemaps.Leg{
		Distance:      googlemaps.TextValue{Text: "1 km", Value: distanceMeters},
		Duration:      googlemaps.TextValue{Text: "5 min", Value: durationSec},
		StartLocation: googlemaps.LatLng{Lat: 40.0, Lng: -75.0},
		EndLocation:   googlemaps.LatLng{Lat: 40.1, Lng: -75.1},
		Steps:         steps,
	}
}

func rawStep(instruction string) googlemaps.Step {
	return googlemaps.Step{
		Distance:         googlemaps.TextValue{Text: "500 m", Value: 500},
		Duration:         googlemaps.TextValue{Text: "1 min", Value: 60},
		HTMLInstructions: instruction,
	}
}

func TestNormalizeRoutesTotals(t *testing.T) {
	now := time.Date(2025, 4, 5, 14, 30, 0, 0, time.UTC)
	raw := []googlemaps.Route{
		{
			Summary: "I-95 N",
			Legs: []googlemaps.Leg{
				rawLeg(300, 1200, rawStep("<b>Head</b> north")),
				rawLeg(400, 1800, rawStep("Turn <b>left</b>"), rawStep("Arrive")),
			},
		},
	}

	candidates, err := NormalizeRoutes(raw, 1, now)
	if err != nil {
		t.Fatalf("NormalizeRoutes returned error %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}

	c := candidates[0]
	if c.DurationSeconds != 700 {
		t.Errorf("DurationSeconds = %d, want 700", c.DurationSeconds)
	}
	if c.DistanceMeters != 3000 {
		t.Errorf("DistanceMeters = %d, want 3000", c.DistanceMeters)
	}
	if c.ArrivalTime != "2:41 PM" {
		t.Errorf("ArrivalTime = %q, want %q", c.ArrivalTime, "2:41 PM")
	}
	if len(c.Steps) != 3 {
		t.Fatalf("got %d steps, want 3 (both legs flattened)", len(c.Steps))
	}
	if c.Steps[0].InstructionPlain != "Head north" {
		t.Errorf("step 0 instruction = %q, want %q", c.Steps[0].InstructionPlain, "Head north")
	}
	if c.Steps[1].InstructionPlain != "Turn left" || c.Steps[2].InstructionPlain != "Arrive" {
		t.Errorf("second leg steps out of order: %q, %q", c.Steps[1].InstructionPlain, c.Steps[2].InstructionPlain)
	}
	if c.Description != "1 stop via I-95 N" {
		t.Errorf("Description = %q", c.Description)
	}
}

func TestNormalizeRoutesDescriptions(t *testing.T) {
	now := time.Now()
	raw := []googlemaps.Route{
		{Summary: "I-95 N", Legs: []googlemaps.Leg{rawLeg(300, 1000)}},
		{Summary: "US-1", Legs: []googlemaps.Leg{rawLeg(350, 1100)}},
	}

	candidates, err := NormalizeRoutes(raw, 0, now)
	if err != nil {
		t.Fatalf("NormalizeRoutes returned error %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].Description != "Fastest route, the usual traffic" {
		t.Errorf("primary description = %q", candidates[0].Description)
	}
	if candidates[1].Description != "Via US-1" {
		t.Errorf("alternate description = %q", candidates[1].Description)
	}
	// Provider order is preserved as-is, never re-sorted by duration.
	if candidates[0].ID != 0 || candidates[1].ID != 1 {
		t.Errorf("IDs = %d, %d; want provider order", candidates[0].ID, candidates[1].ID)
	}
}

func TestNormalizeRoutesEmpty(t *testing.T) {
	candidates, err := NormalizeRoutes(nil, 0, time.Now())
	if err != nil {
		t.Fatalf("NormalizeRoutes(nil) returned error %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(candidates))
	}
}

func TestNormalizeRoutesMalformedPolyline(t *testing.T) {
	raw := []googlemaps.Route{
		{
			OverviewPolyline: googlemaps.EncodedPolyline{Points: "abc"},
			Legs:             []googlemaps.Leg{rawLeg(300, 1000)},
		},
	}
	if _, err := NormalizeRoutes(raw, 0, time.Now()); err == nil {
		t.Error("expected decode error for malformed polyline, got nil")
	}
}

func TestNormalizeRoutesStartEndLocations(t *testing.T) {
	first := rawLeg(300, 1000)
	last := rawLeg(400, 1500)
	last.EndLocation = googlemaps.LatLng{Lat: 41.0, Lng: -76.0}

	candidates, err := NormalizeRoutes([]googlemaps.Route{{Legs: []googlemaps.Leg{first, last}}}, 0, time.Now())
	if err != nil {
		t.Fatalf("NormalizeRoutes returned error %v", err)
	}
	c := candidates[0]
	if c.StartLocation.Latitude != 40.0 || c.StartLocation.Longitude != -75.0 {
		t.Errorf("StartLocation = %v, want first leg start", c.StartLocation)
	}
	if c.EndLocation.Latitude != 41.0 || c.EndLocation.Longitude != -76.0 {
		t.Errorf("EndLocation = %v, want last leg end", c.EndLocation)
	}
}

func TestRegionForPolyline(t *testing.T) {
	if region := RegionForPolyline(nil); region != nil {
		t.Errorf("RegionForPolyline(nil) = %v, want nil", region)
	}

	region := RegionForPolyline([]model.GeoPoint{
		{Latitude: 40.0, Longitude: -75.0},
		{Latitude: 40.2, Longitude: -75.4},
	})
	if region == nil {
		t.Fatal("RegionForPolyline returned nil for non-empty path")
	}
	if math.Abs(region.Latitude-40.1) > 1e-9 {
		t.Errorf("center latitude = %v, want 40.1", region.Latitude)
	}
	if region.LongitudeDelta < 0.59 || region.LongitudeDelta > 0.61 {
		t.Errorf("longitude delta = %v, want ~0.6", region.LongitudeDelta)
	}
}
