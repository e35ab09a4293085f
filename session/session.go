// Package session holds the loaded dataset for the lifetime of the process.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/badgerinventory/perfdash/dataset"
	"github.com/badgerinventory/perfdash/engine"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the load lifecycle of a session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

var (
	// ErrNotReady is returned when the dataset is requested before a
	// successful load.
	ErrNotReady = errors.New("session not ready")
	// ErrAlreadyLoaded is returned by a second call to Load.
	ErrAlreadyLoaded = errors.New("session already loaded")
)

// Recorder observes load outcomes. internal/metrics satisfies it.
type Recorder interface {
	RecordLoad(state string, records int, d time.Duration)
}

// Session owns the immutable base dataset and its derived selection values.
// Load runs once; ready and failed are terminal.
type Session struct {
	mu       sync.RWMutex
	id       string
	state    State
	records  []engine.EmployeeRecord
	unique   engine.UniqueValues
	loadErr  error
	loadedAt time.Time

	logger   *zap.Logger
	recorder Recorder
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder reports load outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// New creates an uninitialized session.
func New(opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		state:  StateUninitialized,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session_id", s.id))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Load fetches src and moves the session to ready or failed. It may be
// called once; later calls return ErrAlreadyLoaded.
func (s *Session) Load(ctx context.Context, src dataset.Source) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.state = StateLoading
	s.mu.Unlock()

	start := time.Now()
	s.logger.Info("loading dataset", zap.String("source", src.Location()))

	records, err := dataset.Load(ctx, src)
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateFailed
		s.loadErr = err
		s.logger.Error("dataset load failed",
			zap.String("source", src.Location()),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		s.record(elapsed)
		return fmt.Errorf("load session: %w", err)
	}

	s.records = records
	s.unique = engine.UniqueValuesOf(records)
	s.state = StateReady
	s.loadedAt = time.Now()
	s.logger.Info("dataset loaded",
		zap.Int("records", len(records)),
		zap.Int("employees", len(s.unique.Employees)),
		zap.Duration("duration", elapsed),
	)
	s.record(elapsed)
	return nil
}

// record must be called with mu held.
func (s *Session) record(d time.Duration) {
	if s.recorder != nil {
		s.recorder.RecordLoad(string(s.state), len(s.records), d)
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Records returns the base dataset. The slice is shared and must not be
// modified.
func (s *Session) Records() ([]engine.EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, ErrNotReady
	}
	return s.records, nil
}

// UniqueValues returns the selection values derived at load time.
func (s *Session) UniqueValues() (engine.UniqueValues, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return engine.UniqueValues{}, ErrNotReady
	}
	return s.unique, nil
}

// Status is a point-in-time description of the session.
type Status struct {
	ID       string     `json:"id"`
	State    State      `json:"state"`
	Records  int        `json:"records"`
	Error    string     `json:"error,omitempty"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
}

// Status snapshots the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{ID: s.id, State: s.state, Records: len(s.records)}
	if s.loadErr != nil {
		st.Error = s.loadErr.Error()
	}
	if s.state == StateReady {
		t := s.loadedAt
		st.LoadedAt = &t
	}
	return st
}

// Compute runs the dashboard controller over the session dataset.
func (s *Session) Compute(view engine.ViewConfig, opts ...engine.Option) (*engine.DashboardView, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	return engine.Compute(records, view, opts...)
}
