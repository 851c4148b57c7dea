package trip

import (
	"context"
	"fmt"
	"sync"
	"testing"

	googlemaps "github.com/pukarojha/wherewego_api/internal/http/google"
	"github.com/pukarojha/wherewego_api/internal/model"
)

func ref(address string, lat, lng float64) model.LocationRef {
	return model.LocationRef{
		Address:     address,
		Coordinates: &model.GeoPoint{Latitude: lat, Longitude: lng},
	}
}

func routesWithSummary(summary string, legs int) []googlemaps.Route {
	route := googlemaps.Route{Summary: summary}
	for i := 0; i < legs; i++ {
		route.Legs = append(route.Legs, rawLeg(300, 1000, rawStep(fmt.Sprintf("Leg %d step", i))))
	}
	return []googlemaps.Route{route}
}

// fakeFetcher counts calls and replies per waypoint count.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	results map[int][]googlemaps.Route // keyed by waypoint count
	err     error
}

func (f *fakeFetcher) fetch(_ context.Context, _, _ model.LocationRef, opts googlemaps.DirectionsOptions) ([]googlemaps.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results[len(opts.Waypoints)], nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newStartedSession(t *testing.T, f *fakeFetcher) *Session {
	t.Helper()
	s := NewSession(ref("Origin", 40.0, -75.0), ref("Destination", 40.1, -75.1), googlemaps.DirectionsOptions{Alternatives: true}, f.fetch)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error %v", err)
	}
	return s
}

func TestRecalculationReplacementIsAtomic(t *testing.T) {
	f := &fakeFetcher{results: map[int][]googlemaps.Route{
		0: routesWithSummary("base", 1),
	}}
	s := newStartedSession(t, f)

	before := s.Candidates()
	if len(before) != 1 || before[0].Summary != "base" {
		t.Fatalf("unexpected initial candidates: %+v", before)
	}

	f.mu.Lock()
	f.err = &googlemaps.ProviderError{Code: googlemaps.StatusRequestFailed, Message: "network down"}
	f.mu.Unlock()

	if err := s.AddWaypoint(context.Background(), ref("Stop", 40.05, -75.05)); err == nil {
		t.Fatal("expected recalculation error, got nil")
	}

	after := s.Candidates()
	if len(after) != 1 || after[0].Summary != "base" {
		t.Errorf("candidates changed after failed recalculation: %+v", after)
	}
	if s.Recalculating() {
		t.Error("recalculating flag stuck after failure")
	}
	if len(s.Waypoints()) != 1 {
		t.Errorf("waypoint list = %v, want the added stop kept", s.Waypoints())
	}
}

func TestClearingWaypointsRestoresBaseWithoutFetch(t *testing.T) {
	f := &fakeFetcher{results: map[int][]googlemaps.Route{
		0: routesWithSummary("base", 1),
		1: routesWithSummary("detour", 2),
	}}
	s := newStartedSession(t, f)

	if err := s.AddWaypoint(context.Background(), ref("Stop", 40.05, -75.05)); err != nil {
		t.Fatalf("AddWaypoint returned error %v", err)
	}
	if got := s.Candidates()[0].Summary; got != "detour" {
		t.Fatalf("candidates after add = %q, want detour", got)
	}
	calls := f.callCount()

	if err := s.RemoveWaypoint(context.Background(), 0); err != nil {
		t.Fatalf("RemoveWaypoint returned error %v", err)
	}
	if got := s.Candidates()[0].Summary; got != "base" {
		t.Errorf("candidates after clear = %q, want base", got)
	}
	if f.callCount() != calls {
		t.Errorf("clearing waypoints issued a fetch: %d calls, want %d", f.callCount(), calls)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	started := make(chan int, 2)
	release := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}

	var mu sync.Mutex
	call := 0
	fetch := func(_ context.Context, _, _ model.LocationRef, opts googlemaps.DirectionsOptions) ([]googlemaps.Route, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n > 1 {
			started <- n
			<-release[n-1]
		}
		return routesWithSummary(fmt.Sprintf("result-%d", n), len(opts.Waypoints)+1), nil
	}

	s := NewSession(ref("Origin", 40.0, -75.0), ref("Destination", 40.1, -75.1), googlemaps.DirectionsOptions{}, fetch)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.AddWaypoint(context.Background(), ref("Stop A", 40.02, -75.02))
	}()
	<-started

	go func() {
		defer wg.Done()
		_ = s.AddWaypoint(context.Background(), ref("Stop B", 40.04, -75.04))
	}()
	<-started

	// Let request #2 (the newer one, fetch call 3) finish first, then release
	// the superseded request #1 (fetch call 2).
	close(release[2])
	close(release[1])
	wg.Wait()

	got := s.Candidates()[0].Summary
	if got != "result-3" {
		t.Errorf("final candidates = %q, want the latest request's result-3", got)
	}
	if s.Recalculating() {
		t.Error("recalculating flag stuck after stale discard")
	}
}

func TestSelectionBounds(t *testing.T) {
	f := &fakeFetcher{results: map[int][]googlemaps.Route{
		0: {
			{Summary: "one", Legs: []googlemaps.Leg{rawLeg(300, 1000)}},
			{Summary: "two", Legs: []googlemaps.Leg{rawLeg(400, 1200)}},
		},
	}}
	s := newStartedSession(t, f)

	s.Select(1)
	if got := s.SelectedIndex(); got != 1 {
		t.Fatalf("SelectedIndex = %d, want 1", got)
	}

	for _, index := range []int{-1, 2, 99} {
		s.Select(index)
		if got := s.SelectedIndex(); got != 1 {
			t.Errorf("Select(%d) changed index to %d", index, got)
		}
	}
}

func TestSelectionResetOnRecalculation(t *testing.T) {
	f := &fakeFetcher{results: map[int][]googlemaps.Route{
		0: {
			{Summary: "one", Legs: []googlemaps.Leg{rawLeg(300, 1000)}},
			{Summary: "two", Legs: []googlemaps.Leg{rawLeg(400, 1200)}},
		},
		1: routesWithSummary("detour", 2),
	}}
	s := newStartedSession(t, f)

	s.Select(1)
	if err := s.AddWaypoint(context.Background(), ref("Stop", 40.05, -75.05)); err != nil {
		t.Fatalf("AddWaypoint returned error %v", err)
	}
	if got := s.SelectedIndex(); got != 0 {
		t.Errorf("SelectedIndex after recalculation = %d, want 0", got)
	}
}

func TestWaypointChangeTriggersOneFetch(t *testing.T) {
	f := &fakeFetcher{results: map[int][]googlemaps.Route{
		0: routesWithSummary("base", 1),
		1: routesWithSummary("detour", 2),
	}}
	s := newStartedSession(t, f)

	if got := f.callCount(); got != 1 {
		t.Fatalf("Start issued %d fetches, want 1", got)
	}

	if err := s.AddWaypoint(context.Background(), ref("Stop", 40.05, -75.05)); err != nil {
		t.Fatalf("AddWaypoint returned error %v", err)
	}
	if got := f.callCount(); got != 2 {
		t.Errorf("waypoint add issued %d additional fetches, want exactly 1", got-1)
	}

	// Two legs flattened in leg order.
	steps := s.Candidates()[0].Steps
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2 (one per leg)", len(steps))
	}
	if steps[0].InstructionPlain != "Leg 0 step" || steps[1].InstructionPlain != "Leg 1 step" {
		t.Errorf("steps out of leg order: %q, %q", steps[0].InstructionPlain, steps[1].InstructionPlain)
	}
}

func TestSubscribeNotify(t *testing.T) {
	f := &fakeFetcher{results: map[int][]googlemaps.Route{
		0: routesWithSummary("base", 1),
		1: routesWithSummary("detour", 2),
	}}
	s := newStartedSession(t, f)

	var mu sync.Mutex
	var updates []Update
	unsubscribe := s.Subscribe(func(u Update) {
		mu.Lock()
		updates = append(updates, u)
		mu.Unlock()
	})

	if err := s.AddWaypoint(context.Background(), ref("Stop", 40.05, -75.05)); err != nil {
		t.Fatalf("AddWaypoint returned error %v", err)
	}

	mu.Lock()
	count := len(updates)
	last := updates[count-1]
	mu.Unlock()
	if count != 1 {
		t.Fatalf("got %d updates, want 1", count)
	}
	if last.Candidates[0].Summary != "detour" || last.SelectedIndex != 0 {
		t.Errorf("unexpected update payload: %+v", last)
	}

	unsubscribe()
	if err := s.RemoveWaypoint(context.Background(), 0); err != nil {
		t.Fatalf("RemoveWaypoint returned error %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(updates) != count {
		t.Errorf("received update after unsubscribe")
	}
}
