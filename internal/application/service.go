package application

import (
	"context"
	"fmt"

	"otcrates-service/internal/domain"
)

// OTCService is what the HTTP layer talks to: read the current snapshot,
// price it, and request manual refreshes.
type OTCService struct {
	board   *Board
	trigger RefreshTrigger
	idem    IdempotencyStore
}

func NewOTCService(board *Board, trigger RefreshTrigger, idem IdempotencyStore) *OTCService {
	if idem == nil {
		idem = NoopIdempotency{}
	}
	return &OTCService{board: board, trigger: trigger, idem: idem}
}

func (s *OTCService) Ready() bool { return s.board.Ready() }

func (s *OTCService) Current() domain.Versioned { return s.board.Current() }

func (s *OTCService) Quote() (domain.Versioned, domain.Quote) {
	v := s.board.Current()
	return v, domain.NewQuote(v.Snapshot)
}

func (s *OTCService) Convert(req domain.ConversionRequest) (domain.Versioned, domain.ConversionResult) {
	v, q := s.Quote()
	return v, domain.Convert(q, req)
}

// RequestRefresh starts a manual fetch. A repeated idempotency key within
// the store's TTL is rejected with ErrConflict.
func (s *OTCService) RequestRefresh(ctx context.Context, idem *string) (uint64, error) {
	if idem != nil && *idem != "" {
		ok, err := s.idem.TryReserve(ctx, *idem)
		if err != nil {
			return 0, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !ok {
			return 0, ErrConflict
		}
	}
	if s.trigger == nil {
		return 0, ErrNotRunning
	}
	return s.trigger.Trigger()
}

// WaitFor blocks until the refresh with the given sequence, or a newer one,
// has been applied.
func (s *OTCService) WaitFor(ctx context.Context, seq uint64) (domain.Versioned, error) {
	return s.board.Wait(ctx, seq)
}
