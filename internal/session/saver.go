package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSaveInFlight rejects a save while another one for the same staff member
// is still running. Saves are never queued.
var ErrSaveInFlight = errors.New("a save for this staff member is already in progress")

// Assigner replaces the permissions granted to a staff member.
type Assigner interface {
	AssignPermissions(ctx context.Context, staffID uuid.UUID, ids []int) error
}

// Saver submits full permission sets, at most one per staff member at a time.
// One Saver may be shared by several sessions.
type Saver struct {
	assigner Assigner

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewSaver(assigner Assigner) *Saver {
	return &Saver{assigner: assigner, inFlight: make(map[uuid.UUID]struct{})}
}

// Save sends ids as the complete grant list of staffID.
func (s *Saver) Save(ctx context.Context, staffID uuid.UUID, ids []int) error {
	s.mu.Lock()
	if _, busy := s.inFlight[staffID]; busy {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.inFlight[staffID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, staffID)
		s.mu.Unlock()
	}()

	return s.assigner.AssignPermissions(ctx, staffID, ids)
}

// Saving reports whether a save for staffID is running.
func (s *Saver) Saving(staffID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[staffID]
	return busy
}
