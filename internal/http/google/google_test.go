package googlemaps

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pukarojha/wherewego_api/internal/model"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripFunc) *GoogleMapsClient {
	client := NewGoogleMapsClient("test-key")
	client.Client = &http.Client{Transport: fn}
	return client
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func coords(lat, lng float64) *model.GeoPoint {
	return &model.GeoPoint{Latitude: lat, Longitude: lng}
}

func TestGetDirectionsRequestSerialization(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotQuery = map[string]string{}
		for k, v := range req.URL.Query() {
			gotQuery[k] = v[0]
		}
		if req.URL.Path != "/maps/api/directions/json" {
			t.Errorf("path = %q", req.URL.Path)
		}
		return jsonResponse(`{"status":"OK","routes":[{"summary":"I-95 N","legs":[]}]}`), nil
	})

	origin := model.LocationRef{Address: "Origin", Coordinates: coords(40.0, -75.0)}
	destination := model.LocationRef{Address: "123 Main St"} // no coordinates: address goes through verbatim

	routes, err := client.GetDirections(context.Background(), origin, destination, DirectionsOptions{
		Waypoints: []model.LocationRef{
			{Address: "Stop 1", Coordinates: coords(40.02, -75.02)},
			{Address: "Stop 2"},
		},
		Avoid:        []string{"tolls", "ferries"},
		Alternatives: true,
	})
	if err != nil {
		t.Fatalf("GetDirections returned error %v", err)
	}
	if len(routes) != 1 || routes[0].Summary != "I-95 N" {
		t.Fatalf("unexpected routes: %+v", routes)
	}

	expect := map[string]string{
		"origin":         "40.000000,-75.000000",
		"destination":    "123 Main St",
		"waypoints":      "40.020000,-75.020000|Stop 2",
		"avoid":          "tolls|ferries",
		"mode":           "driving",
		"alternatives":   "true",
		"departure_time": "now",
		"key":            "test-key",
	}
	for k, want := range expect {
		if gotQuery[k] != want {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], want)
		}
	}
}

func TestGetDirectionsOmitsEmptyAvoid(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Has("avoid") {
			t.Error("avoid parameter present for empty avoid list")
		}
		if req.URL.Query().Has("waypoints") {
			t.Error("waypoints parameter present for empty waypoint list")
		}
		return jsonResponse(`{"status":"OK","routes":[]}`), nil
	})

	_, err := client.GetDirections(context.Background(),
		model.LocationRef{Address: "A"}, model.LocationRef{Address: "B"}, DirectionsOptions{})
	if err != nil {
		t.Fatalf("GetDirections returned error %v", err)
	}
}

func TestGetDirectionsProviderStatus(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(`{"status":"ZERO_RESULTS","error_message":"no route"}`), nil
	})

	_, err := client.GetDirections(context.Background(),
		model.LocationRef{Address: "A"}, model.LocationRef{Address: "B"}, DirectionsOptions{})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if provErr.Code != "ZERO_RESULTS" || provErr.Message != "no route" {
		t.Errorf("unexpected provider error: %+v", provErr)
	}
	if provErr.IsRequestFailed() {
		t.Error("provider status classified as transport failure")
	}
}

func TestGetDirectionsTransportFailure(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.GetDirections(context.Background(),
		model.LocationRef{Address: "A"}, model.LocationRef{Address: "B"}, DirectionsOptions{})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if !provErr.IsRequestFailed() {
		t.Errorf("Code = %q, want %q", provErr.Code, StatusRequestFailed)
	}
	if !strings.Contains(provErr.Message, "connection refused") {
		t.Errorf("Message = %q, want the underlying failure", provErr.Message)
	}
}
