package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/badgerinventory/perfdash/dataset"
	"github.com/badgerinventory/perfdash/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubSource struct {
	payload []byte
	err     error
}

func (s stubSource) Location() string { return "stub" }

func (s stubSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.payload, s.err
}

type recorderFunc func(state string, records int, d time.Duration)

func (f recorderFunc) RecordLoad(state string, records int, d time.Duration) { f(state, records, d) }

const payload = `{"a": [
	{"Employee": 1, "FirstName": "Ann", "LastName": "Smith", "AccountName": "Kroger", "StoreName": "K-1", "DateOfInv": "2024-01-02 00:00:00", "PiecesPerHr": 100, "SupervisorNumber": 2},
	{"Employee": 2, "FirstName": "Pat", "LastName": "Lee", "AccountName": "Kroger", "StoreName": "K-2", "DateOfInv": "2024-01-01 00:00:00", "PiecesPerHr": 50, "SupervisorNumber": 2}
]}`

func TestSessionLifecycle(t *testing.T) {
	s := New()
	assert.Equal(t, StateUninitialized, s.State())
	assert.NotEmpty(t, s.ID())

	_, err := s.Records()
	assert.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, s.Load(context.Background(), stubSource{payload: []byte(payload)}))
	assert.Equal(t, StateReady, s.State())

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-01", records[0].Date)

	u, err := s.UniqueValues()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann Smith", "Pat Lee"}, u.Employees)
	assert.Equal(t, []string{"Pat Lee"}, u.Supervisors)

	st := s.Status()
	assert.Equal(t, 2, st.Records)
	assert.NotNil(t, st.LoadedAt)
	assert.Empty(t, st.Error)

	assert.ErrorIs(t, s.Load(context.Background(), stubSource{}), ErrAlreadyLoaded)
}

func TestSessionLoadFailureIsTerminal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var recorded string
	s := New(
		WithLogger(zap.New(core)),
		WithRecorder(recorderFunc(func(state string, _ int, _ time.Duration) { recorded = state })),
	)

	err := s.Load(context.Background(), stubSource{err: errors.New("connection refused")})
	require.Error(t, err)

	var le *dataset.LoadError
	assert.True(t, errors.As(err, &le))
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, "failed", recorded)
	assert.Contains(t, s.Status().Error, "connection refused")
	assert.Equal(t, 1, logs.FilterMessage("dataset load failed").Len())

	_, err = s.Compute(engine.DefaultViewConfig())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, s.Load(context.Background(), stubSource{payload: []byte(payload)}), ErrAlreadyLoaded)
}

func TestSessionCompute(t *testing.T) {
	s := New()
	require.NoError(t, s.Load(context.Background(), stubSource{payload: []byte(payload)}))

	v := engine.DefaultViewConfig()
	v.Filters.Timeframe = engine.TimeframeAll

	view, err := s.Compute(v)
	require.NoError(t, err)
	assert.Equal(t, 2, view.RecordCount)
	assert.Equal(t, "Ann Smith", view.KPIs.BestPerformer.Employee)
}

func TestSessionConcurrentReads(t *testing.T) {
	s := New()
	require.NoError(t, s.Load(context.Background(), stubSource{payload: []byte(payload)}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := s.Records()
			assert.NoError(t, err)
			assert.Len(t, records, 2)
			_ = s.Status()
		}()
	}
	wg.Wait()
}
