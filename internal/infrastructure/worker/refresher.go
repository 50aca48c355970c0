package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/domain"
	infraconfig "otcrates-service/internal/infrastructure/config"

	"go.uber.org/zap"
)

var (
	_ application.Worker         = (*Refresher)(nil)
	_ application.RefreshTrigger = (*Refresher)(nil)
)

// Refresher runs the rate fetcher on start, on every tick and on demand.
// Every fetch gets a sequence number when it starts. A manual fetch cancels
// the one in flight; a tick is skipped while a fetch is still running. Results are applied to the board by a single
// goroutine in arrival order, and the board rejects anything older than
// what it already holds.
type Refresher struct {
	fetcher  application.SnapshotFetcher
	board    *application.Board
	interval time.Duration
	recorder application.Recorder
	log      *zap.Logger

	seq atomic.Uint64

	mu             sync.Mutex
	running        bool
	runCtx         context.Context
	cancelInFlight context.CancelFunc
	active         uint64 // seq of the fetch in flight, 0 when idle
	results        chan domain.Versioned
	wg             sync.WaitGroup
}

func NewRefresher(fetcher application.SnapshotFetcher, board *application.Board, interval time.Duration, recorder application.Recorder, log *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = infraconfig.DefaultRefreshInterval
	}
	if recorder == nil {
		recorder = application.NoopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Refresher{
		fetcher:  fetcher,
		board:    board,
		interval: interval,
		recorder: recorder,
		log:      log.With(zap.String("worker", "refresher")),
	}
}

// Start blocks until ctx is done. On return the ticker is stopped, the
// in-flight fetch is cancelled and every goroutine has exited.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.runCtx = ctx
	r.results = make(chan domain.Versioned)
	results := r.results
	r.mu.Unlock()

	applied := make(chan struct{})
	go func() {
		defer close(applied)
		r.applyLoop(results)
	}()

	r.log.Info("refresher.start", zap.Duration("interval", r.interval))
	_, _ = r.launch("startup", true)

	t := time.NewTicker(r.interval)
	defer t.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-t.C:
			_, _ = r.launch("tick", false)
		}
	}

	r.mu.Lock()
	r.running = false
	if r.cancelInFlight != nil {
		r.cancelInFlight()
		r.cancelInFlight = nil
	}
	r.active = 0
	r.mu.Unlock()

	r.wg.Wait()
	close(results)
	<-applied
	r.log.Info("refresher.stop")
}

// Trigger starts a manual fetch and returns its sequence number.
func (r *Refresher) Trigger() (uint64, error) {
	return r.launch("manual", true)
}

func (r *Refresher) launch(cause string, supersede bool) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return 0, application.ErrNotRunning
	}
	if r.active != 0 {
		if !supersede {
			r.log.Debug("refresh.skipped", zap.Uint64("in_flight", r.active), zap.String("cause", cause))
			return r.active, nil
		}
		r.cancelInFlight()
	}
	fctx, cancel := context.WithCancel(r.runCtx)
	r.cancelInFlight = cancel
	seq := r.seq.Add(1)
	r.active = seq

	r.wg.Add(1)
	go r.fetch(fctx, cancel, seq, r.results)

	r.log.Debug("refresh.started", zap.Uint64("seq", seq), zap.String("cause", cause))
	return seq, nil
}

func (r *Refresher) fetch(ctx context.Context, cancel context.CancelFunc, seq uint64, results chan<- domain.Versioned) {
	defer r.wg.Done()
	defer r.finish(seq)
	defer cancel()

	snap := r.fetcher.FetchLiveOTCRates(ctx)
	if ctx.Err() != nil {
		// superseded or shutting down
		r.log.Info("refresh.superseded", zap.Uint64("seq", seq))
		r.recorder.ResultDiscarded()
		return
	}
	results <- domain.Versioned{Seq: seq, Snapshot: snap}
}

func (r *Refresher) finish(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == seq {
		r.active = 0
		r.cancelInFlight = nil
	}
}

func (r *Refresher) applyLoop(results <-chan domain.Versioned) {
	for v := range results {
		if !r.board.Apply(v) {
			r.log.Info("refresh.stale", zap.Uint64("seq", v.Seq), zap.Uint64("current", r.board.Current().Seq))
			r.recorder.ResultDiscarded()
			continue
		}
		r.recorder.SnapshotApplied(v)
		r.log.Info("refresh.applied",
			zap.Uint64("seq", v.Seq),
			zap.String("provenance", string(v.Snapshot.Provenance)),
			zap.String("buy_ref", v.Snapshot.BuyReferenceRate.String()),
			zap.String("sell_ref", v.Snapshot.SellReferenceRate.String()),
		)
	}
}
