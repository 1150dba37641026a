// Package mirror copies the catalog to a cloud document after every change.
// The local store stays authoritative; the mirror is best effort.
package mirror

import (
	"context"
	"errors"
	"sync"
	"time"

	"ktmobile/internal/domain"
	"ktmobile/internal/events"
	"ktmobile/internal/metrics"
	"ktmobile/internal/repos"

	"go.uber.org/zap"
)

// DocName is the cloud document holding the catalog.
const DocName = "priceDatabase"

// Snapshotter loads the current catalog blob.
type Snapshotter func(ctx context.Context) ([]byte, error)

type Mirror struct {
	Docs     DocStore
	Snapshot Snapshotter
	Attempts int
	Backoff  time.Duration
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	// Async pushes from OnCatalogChanged on a new goroutine.
	Async bool

	mu      sync.Mutex
	pending []byte
}

func New(docs DocStore, repo *repos.CatalogRepo, lg *zap.Logger) *Mirror {
	if lg == nil {
		lg = zap.NewNop()
	}
	m := &Mirror{
		Docs:     docs,
		Attempts: 3,
		Backoff:  time.Second,
		Log:      lg,
		Async:    true,
	}
	if repo != nil {
		m.Snapshot = func(ctx context.Context) ([]byte, error) {
			recs, err := repo.LoadAll(ctx)
			if err != nil {
				return nil, err
			}
			return repos.EncodeCatalog(recs)
		}
	}
	return m
}

func (m *Mirror) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Push uploads data, retrying with linear backoff. On failure data stays
// pending until a later Push or Flush succeeds.
func (m *Mirror) Push(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = data
	return m.pushLocked(ctx)
}

// PushLatest snapshots the catalog and pushes it. The snapshot is taken under
// the push lock so concurrent callers never upload an older catalog last.
func (m *Mirror) PushLatest(ctx context.Context) error {
	if m.Snapshot == nil {
		return errors.New("mirror: no snapshot source")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := m.Snapshot(ctx)
	if err != nil {
		return err
	}
	m.pending = data
	return m.pushLocked(ctx)
}

func (m *Mirror) pushLocked(ctx context.Context) error {
	attempts := m.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = m.Docs.Put(ctx, DocName, m.pending); err == nil {
			m.pending = nil
			m.Metrics.MirrorPush(metrics.ResultOK)
			m.Log.Debug("mirror.push", zap.Int("attempt", i))
			return nil
		}
		m.Metrics.MirrorPush(metrics.ResultError)
		m.Log.Warn("mirror.push.failed", zap.Int("attempt", i), zap.Error(err))
		if i < attempts {
			if werr := m.wait(ctx, m.Backoff*time.Duration(i)); werr != nil {
				return werr
			}
		}
	}
	return err
}

// Flush retries the pending snapshot, if any.
func (m *Mirror) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil
	}
	return m.pushLocked(ctx)
}

func (m *Mirror) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Pull reads the cloud copy. ok is false when nothing was ever mirrored.
func (m *Mirror) Pull(ctx context.Context) ([]domain.PhoneRecord, bool, error) {
	raw, ok, err := m.Docs.Get(ctx, DocName)
	if err != nil || !ok {
		return nil, false, err
	}
	recs, err := repos.DecodeCatalog(raw)
	if err != nil {
		return nil, false, err
	}
	return recs, true, nil
}

// OnCatalogChanged is an events.Handler that pushes the latest catalog.
func (m *Mirror) OnCatalogChanged(ev events.Event) {
	if ev.Kind != events.CatalogChanged || m.Snapshot == nil {
		return
	}
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := m.PushLatest(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.Log.Warn("mirror.pending", zap.String("reason", ev.Reason), zap.Error(err))
		}
	}
	if m.Async {
		go run()
		return
	}
	run()
}
