// Package session ties the catalog pager, the assignment state and the saver
// together for one staff member, from opening the permission screen until it
// is closed.
package session

import (
	"context"
	"sync"

	"go-staff-permissions/internal/assignment"
	"go-staff-permissions/internal/catalog"
	"go-staff-permissions/internal/model"
	"go-staff-permissions/internal/remote"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNotReady is returned for edits and saves before the baseline is loaded.
var ErrNotReady = errors.New("assigned permissions are not loaded yet")

// Remote is the part of the permission API a session uses.
type Remote interface {
	catalog.PageFetcher
	Assigner
	FetchAssigned(ctx context.Context, staffID uuid.UUID) ([]model.Permission, error)
}

type Option func(*Session)

func WithLogger(log *logrus.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithSaver shares a saver between sessions so that the one-save-per-staff
// rule holds across them.
func WithSaver(saver *Saver) Option {
	return func(s *Session) { s.saver = saver }
}

// WithLoader shares a catalog loader between sessions, so sessions opening
// at the same time fetch each catalog page once.
func WithLoader(loader *catalog.Loader) Option {
	return func(s *Session) { s.loader = loader }
}

type Session struct {
	staffID uuid.UUID
	remote  Remote
	loader  *catalog.Loader
	pager   *catalog.Pager
	saver   *Saver
	log     *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	state          *assignment.State
	baselineLoaded bool
	query          string
	generation     uint64
	closed         bool
	subscribers    []subscriber
	nextSubID      int
}

func New(staffID uuid.UUID, r Remote, opts ...Option) *Session {
	s := &Session{
		staffID: staffID,
		remote:  r,
		state:   assignment.NewState(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.saver == nil {
		s.saver = NewSaver(r)
	}
	if s.loader == nil {
		s.loader = catalog.NewLoader(r, s.log)
	}
	s.pager = catalog.NewPager(s.loader)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

func (s *Session) StaffID() uuid.UUID { return s.staffID }

// Open loads the assigned permissions and the first catalog page side by
// side. Calling it again retries whichever of the two has not succeeded.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return remote.ErrStaleOperation
	}
	needBaseline := !s.baselineLoaded
	gen := s.generation
	s.mu.Unlock()

	ctx, done := s.bind(ctx)
	defer done()

	var g errgroup.Group
	if needBaseline {
		g.Go(func() error { return s.loadBaseline(ctx, gen) })
	}
	if s.pager.CurrentPage() == 0 {
		g.Go(func() error {
			_, err := s.pager.Next(ctx)
			return err
		})
	}
	return g.Wait()
}

func (s *Session) loadBaseline(ctx context.Context, gen uint64) error {
	permissions, err := s.remote.FetchAssigned(ctx, s.staffID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return remote.ErrStaleOperation
	}
	if err != nil {
		s.log.WithError(err).WithField("staff_id", s.staffID).Warn("failed to load assigned permissions")
		return err
	}
	s.state.Initialize(model.PermissionIDs(permissions))
	s.baselineLoaded = true
	return nil
}

// LoadMore asks for the next catalog page. It returns false when nothing was
// fetched because all pages are loaded or a fetch is already running.
func (s *Session) LoadMore(ctx context.Context) (bool, error) {
	ctx, done := s.bind(ctx)
	defer done()
	return s.pager.Next(ctx)
}

// LoadAll fetches the remaining catalog pages one after another.
func (s *Session) LoadAll(ctx context.Context) error {
	ctx, done := s.bind(ctx)
	defer done()
	return s.pager.LoadAll(ctx)
}

func (s *Session) HasMore() bool { return s.pager.HasMore() }

func (s *Session) Loading() bool { return s.pager.Loading() }

func (s *Session) Saving() bool { return s.saver.Saving(s.staffID) }

// Catalog returns every permission loaded so far, in arrival order.
func (s *Session) Catalog() []model.Permission { return s.pager.Items() }

func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// View computes the list to display from the current catalog, baseline and
// query. Nothing is cached between calls.
func (s *Session) View() []model.Permission {
	s.mu.Lock()
	baseline := s.state.Baseline()
	query := s.query
	s.mu.Unlock()
	return assignment.View(s.pager.Items(), baseline, query)
}

func (s *Session) Toggle(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.baselineLoaded {
		return false, ErrNotReady
	}
	return s.state.Toggle(id), nil
}

func (s *Session) IsSelected(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsSelected(id)
}

// IsGranted reports whether id is in the saved baseline.
func (s *Session) IsGranted(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Baseline().Contains(id)
}

func (s *Session) CountSelected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CountSelected()
}

func (s *Session) SelectedIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedIDs()
}

// Reset drops unsaved edits.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Dirty()
}

// Changes lists the pending grants and revocations.
func (s *Session) Changes() (added, removed []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Added(), s.state.Removed()
}

// Save replaces the staff member's grants with the current selection. While
// one save runs, further calls fail with ErrSaveInFlight. On failure the
// selection is kept for a retry.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return remote.ErrStaleOperation
	}
	if !s.baselineLoaded {
		s.mu.Unlock()
		return ErrNotReady
	}
	snapshot := s.state.Selection()
	gen := s.generation
	s.mu.Unlock()

	ctx, done := s.bind(ctx)
	defer done()
	err := s.saver.Save(ctx, s.staffID, snapshot.Values())

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.WithField("staff_id", s.staffID).Debug("dropping save result of closed session")
		return remote.ErrStaleOperation
	}
	if err != nil {
		s.mu.Unlock()
		if !errors.Is(err, ErrSaveInFlight) {
			s.log.WithError(err).WithField("staff_id", s.staffID).Warn("failed to save permissions")
		}
		return err
	}
	s.state.Commit(snapshot)
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"staff_id":    s.staffID,
		"permissions": snapshot.Len(),
	}).Info("permissions saved")
	publish(s.log, subs, PermissionsUpdated{StaffID: s.staffID, PermissionIDs: snapshot.Values()})
	return nil
}

// Subscribe registers handler for PermissionsUpdated events and returns a
// function removing it.
func (s *Session) Subscribe(handler func(PermissionsUpdated)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, handler: handler})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Close ends the session. Operations still running finish on their own but
// their results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.generation++
	s.subscribers = nil
	s.pager.Close()
	s.cancel()
}

// bind derives a context that is also cancelled when the session closes.
func (s *Session) bind(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
