package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"otcrates-service/internal/domain"
)

var (
	ErrUpstream = errors.New("upstream error")
)

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

type fakeRateProvider struct {
	out domain.MarketSnapshot
	err error
	// block, when set, makes Get wait for ctx to finish.
	block bool
}

func (f *fakeRateProvider) Get(ctx context.Context) (domain.MarketSnapshot, error) {
	if f.block {
		<-ctx.Done()
		return domain.MarketSnapshot{}, ctx.Err()
	}
	if f.err != nil {
		return domain.MarketSnapshot{}, f.err
	}
	return f.out, nil
}

type fakeIdem struct{ seen map[string]bool }

func (f *fakeIdem) TryReserve(_ context.Context, k string) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[k] {
		return false, nil
	}
	f.seen[k] = true
	return true, nil
}

type failingIdem struct{}

func (failingIdem) TryReserve(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type fakeTrigger struct {
	calls int
	seq   uint64
	err   error
}

func (f *fakeTrigger) Trigger() (uint64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.seq++
	return f.seq, nil
}

type memRecorder struct {
	mu        sync.Mutex
	fetches   []domain.MarketSnapshot
	applied   []uint64
	discarded int
}

func (m *memRecorder) FetchObserved(s domain.MarketSnapshot, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, s)
}

func (m *memRecorder) SnapshotApplied(v domain.Versioned) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, v.Seq)
}

func (m *memRecorder) ResultDiscarded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded++
}
