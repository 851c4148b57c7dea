package trip

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pukarojha/wherewego_api/internal/model"
	"github.com/pukarojha/wherewego_api/util"
)

// Store holds the active sessions by ID. In practice one navigation flow is
// active at a time, but sessions never share state so concurrent flows are
// safe.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// FallbackCandidates is the degraded-mode candidate set served when the
// directions provider is unreachable during preview: one synthetic route so
// the screen still renders. Callers log the failure before using it.
func FallbackCandidates(now time.Time) []model.CandidateRoute {
	const durationSeconds = 12 * 60
	return []model.CandidateRoute{
		{
			ID:              0,
			Polyline:        []model.GeoPoint{},
			Steps:           []model.RouteStep{},
			DurationText:    "12 min",
			DurationSeconds: durationSeconds,
			DistanceText:    "6.2 km",
			DistanceMeters:  6200,
			Description:     "Fastest route, the usual traffic",
			ArrivalTime:     util.FormatArrival(now, durationSeconds),
		},
	}
}
