package trip

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	googlemaps "github.com/pukarojha/wherewego_api/internal/http/google"
	"github.com/pukarojha/wherewego_api/internal/model"
)

// DirectionsFunc fetches raw candidate routes. It is the session's only
// suspension point; the Google client satisfies it, tests substitute fakes.
type DirectionsFunc func(ctx context.Context, origin, destination model.LocationRef, opts googlemaps.DirectionsOptions) ([]googlemaps.Route, error)

// Update is pushed to subscribers whenever a recalculation settles.
type Update struct {
	SessionID     uuid.UUID              `json:"session_id"`
	Candidates    []model.CandidateRoute `json:"candidates"`
	Waypoints     []model.LocationRef    `json:"waypoints"`
	SelectedIndex int                    `json:"selected_index"`
	Err           error                  `json:"-"`
	ErrMessage    string                 `json:"error,omitempty"`
}

// UpdateFunc receives session updates. Called outside the session lock.
type UpdateFunc func(Update)

// Session owns the mutable state of one active navigation flow: the current
// candidate routes, the waypoint list and the selected route. It is created
// when a route preview is requested and destroyed when navigation ends; it is
// never shared across concurrent flows.
type Session struct {
	ID uuid.UUID

	fetch DirectionsFunc

	mu            sync.Mutex
	origin        model.LocationRef
	destination   model.LocationRef
	opts          googlemaps.DirectionsOptions
	waypoints     []model.LocationRef
	base          []model.CandidateRoute // candidates fetched with no waypoints
	candidates    []model.CandidateRoute
	selected      int
	recalculating bool
	seq           int // latest issued fetch; responses for older seqs are stale

	subMu   sync.Mutex
	subs    map[int]UpdateFunc
	nextSub int
}

// NewSession builds a session for one origin/destination pair. Call Start to
// populate the initial candidate set.
func NewSession(origin, destination model.LocationRef, opts googlemaps.DirectionsOptions, fetch DirectionsFunc) *Session {
	return &Session{
		ID:          uuid.New(),
		fetch:       fetch,
		origin:      origin,
		destination: destination,
		opts:        opts,
		subs:        make(map[int]UpdateFunc),
	}
}

// Start fetches and normalizes the initial candidates. The no-waypoint result
// is kept as the base set so clearing waypoints later needs no network call.
func (s *Session) Start(ctx context.Context) error {
	routes, err := s.fetch(ctx, s.origin, s.destination, s.opts)
	if err != nil {
		return err
	}

	candidates, err := NormalizeRoutes(routes, 0, time.Now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.base = candidates
	s.candidates = candidates
	s.selected = 0
	s.mu.Unlock()
	return nil
}

// SeedCandidates installs a candidate set without a fetch. Used for the
// degraded fallback when the initial directions request fails.
func (s *Session) SeedCandidates(candidates []model.CandidateRoute) {
	s.mu.Lock()
	s.base = candidates
	s.candidates = candidates
	s.selected = 0
	s.mu.Unlock()
}

// Select marks a candidate as the one to display/start. Out-of-range indexes
// are ignored: a stale UI callback may reference a candidate list that a
// recalculation just replaced.
func (s *Session) Select(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index >= 0 && index < len(s.candidates) {
		s.selected = index
	}
}

// AddWaypoint appends a stop and recalculates.
func (s *Session) AddWaypoint(ctx context.Context, wp model.LocationRef) error {
	s.mu.Lock()
	waypoints := make([]model.LocationRef, 0, len(s.waypoints)+1)
	waypoints = append(waypoints, s.waypoints...)
	waypoints = append(waypoints, wp)
	s.mu.Unlock()
	return s.setWaypoints(ctx, waypoints)
}

// RemoveWaypoint deletes the stop at index and recalculates.
func (s *Session) RemoveWaypoint(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.waypoints) {
		s.mu.Unlock()
		return fmt.Errorf("waypoint index %d out of range", index)
	}
	waypoints := make([]model.LocationRef, 0, len(s.waypoints)-1)
	waypoints = append(waypoints, s.waypoints[:index]...)
	waypoints = append(waypoints, s.waypoints[index+1:]...)
	s.mu.Unlock()
	return s.setWaypoints(ctx, waypoints)
}

// SetWaypoints replaces the waypoint list wholesale and recalculates.
func (s *Session) SetWaypoints(ctx context.Context, waypoints []model.LocationRef) error {
	return s.setWaypoints(ctx, waypoints)
}

// setWaypoints is the recalculation state machine. The candidate set is only
// ever replaced wholesale; on any failure the previous set stays untouched
// and the recalculating flag is cleared so the UI never sticks in a loading
// state. A newer call supersedes an in-flight one: responses are applied only
// if their sequence number is still the latest issued.
func (s *Session) setWaypoints(ctx context.Context, waypoints []model.LocationRef) error {
	s.mu.Lock()
	if s.origin.Address == "" || s.destination.Address == "" {
		s.waypoints = waypoints
		s.mu.Unlock()
		return fmt.Errorf("origin and destination must be set before adding stops")
	}

	s.waypoints = waypoints

	// Clearing all stops falls back to the base candidates without a fetch.
	if len(waypoints) == 0 {
		s.seq++ // supersedes any in-flight recalculation
		s.candidates = s.base
		s.selected = 0
		s.recalculating = false
		update := s.snapshotUpdateLocked()
		s.mu.Unlock()
		s.notify(update)
		return nil
	}

	s.seq++
	seq := s.seq
	s.recalculating = true
	origin, destination := s.origin, s.destination
	opts := s.opts
	opts.Waypoints = waypoints
	s.mu.Unlock()

	routes, err := s.fetch(ctx, origin, destination, opts)

	s.mu.Lock()
	if seq != s.seq {
		// Superseded while in flight; the latest request owns the state.
		s.mu.Unlock()
		return nil
	}
	s.recalculating = false

	if err == nil {
		var candidates []model.CandidateRoute
		if candidates, err = NormalizeRoutes(routes, len(waypoints), time.Now()); err == nil {
			s.candidates = candidates
			s.selected = 0
		}
	}

	update := s.snapshotUpdateLocked()
	s.mu.Unlock()

	if err != nil {
		update.Err = err
		update.ErrMessage = err.Error()
	}
	s.notify(update)
	return err
}

// Subscribe registers fn for recalculation updates and returns its removal
// function.
func (s *Session) Subscribe(fn UpdateFunc) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) notify(update Update) {
	s.subMu.Lock()
	fns := make([]UpdateFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(update)
	}
}

func (s *Session) snapshotUpdateLocked() Update {
	return Update{
		SessionID:     s.ID,
		Candidates:    s.candidates,
		Waypoints:     s.waypoints,
		SelectedIndex: s.selected,
	}
}

// Candidates returns the current candidate set.
func (s *Session) Candidates() []model.CandidateRoute {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates
}

// SelectedIndex returns the index of the selected candidate.
func (s *Session) SelectedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectedRoute returns the selected candidate, if any.
func (s *Session) SelectedRoute() (model.CandidateRoute, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.candidates) {
		return model.CandidateRoute{}, false
	}
	return s.candidates[s.selected], true
}

// Waypoints returns the current stop list.
func (s *Session) Waypoints() []model.LocationRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waypoints
}

// Recalculating reports whether a fetch is in flight.
func (s *Session) Recalculating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recalculating
}

// Snapshot builds the REST view of the session.
func (s *Session) Snapshot() model.TripResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := model.TripResponse{
		SessionID:     s.ID.String(),
		Origin:        s.origin,
		Destination:   s.destination,
		Waypoints:     s.waypoints,
		Candidates:    s.candidates,
		SelectedIndex: s.selected,
		Recalculating: s.recalculating,
	}
	if resp.Waypoints == nil {
		resp.Waypoints = []model.LocationRef{}
	}
	if s.selected >= 0 && s.selected < len(s.candidates) {
		resp.Region = RegionForPolyline(s.candidates[s.selected].Polyline)
	}
	return resp
}
