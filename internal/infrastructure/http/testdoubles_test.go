package httpserver

import (
	"sync"
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/domain"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func liveSnapshot() domain.MarketSnapshot {
	return domain.MarketSnapshot{
		BuyReferenceRate:  decimal.RequireFromString("7.84"),
		SellReferenceRate: decimal.RequireFromString("7.80"),
		Summary:           "Slab 7.84, Grp 7.80",
		Sources:           []domain.Source{{URI: "https://otcrate.com/slab", Title: "Slab", Domain: "otcrate.com"}},
		FetchedAt:         testNow,
		Provenance:        domain.ProvenanceLive,
	}
}

// applyingTrigger applies a live snapshot to the board for every trigger,
// either inline or from a goroutine when async is set.
type applyingTrigger struct {
	mu    sync.Mutex
	board *application.Board
	seq   uint64
	async bool
}

func (t *applyingTrigger) Trigger() (uint64, error) {
	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	apply := func() { t.board.Apply(domain.Versioned{Seq: seq, Snapshot: liveSnapshot()}) }
	if t.async {
		go func() {
			time.Sleep(10 * time.Millisecond)
			apply()
		}()
	} else {
		apply()
	}
	return seq, nil
}
