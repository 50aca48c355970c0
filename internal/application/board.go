package application

import (
	"context"
	"sync/atomic"
	"time"

	"otcrates-service/internal/domain"
)

type boardState struct {
	v       domain.Versioned
	changed chan struct{} // closed when this state is replaced
}

// Board holds the current versioned snapshot. Apply only accepts strictly
// increasing sequence numbers, so a slow older fetch can never overwrite a
// newer result. Reads are lock-free.
type Board struct {
	state atomic.Pointer[boardState]
}

// NewBoard starts at sequence 0 with the pending fallback pair.
func NewBoard(now time.Time) *Board {
	b := &Board{}
	b.state.Store(&boardState{
		v:       domain.Versioned{Seq: 0, Snapshot: domain.FallbackSnapshot(now, domain.FallbackPending)},
		changed: make(chan struct{}),
	})
	return b
}

func (b *Board) Current() domain.Versioned { return b.state.Load().v }

// Ready reports whether at least one fetch result has been applied.
func (b *Board) Ready() bool { return b.state.Load().v.Seq > 0 }

// Apply installs v if its sequence is newer than the current one.
func (b *Board) Apply(v domain.Versioned) bool {
	next := &boardState{v: v, changed: make(chan struct{})}
	for {
		cur := b.state.Load()
		if v.Seq <= cur.v.Seq {
			return false
		}
		if b.state.CompareAndSwap(cur, next) {
			close(cur.changed)
			return true
		}
	}
}

// Wait blocks until a snapshot with sequence >= seq is applied.
func (b *Board) Wait(ctx context.Context, seq uint64) (domain.Versioned, error) {
	for {
		cur := b.state.Load()
		if cur.v.Seq >= seq {
			return cur.v, nil
		}
		select {
		case <-cur.changed:
		case <-ctx.Done():
			return domain.Versioned{}, ctx.Err()
		}
	}
}
