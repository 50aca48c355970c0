package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/domain"
	"otcrates-service/internal/infrastructure/logx"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultAmount = "10000"

type Server struct {
	svc         *application.OTCService
	metrics     http.Handler
	ping        func(ctx context.Context) error
	pageRefresh time.Duration
	zone        *time.Location
	limiter     *rate.Limiter
}

type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithReadinessCheck adds a dependency check to /readyz.
func WithReadinessCheck(ping func(ctx context.Context) error) Option {
	return func(s *Server) { s.ping = ping }
}

// WithPageRefresh sets the dashboard's meta refresh interval.
func WithPageRefresh(d time.Duration) Option { return func(s *Server) { s.pageRefresh = d } }

// WithDisplayZone sets the zone timestamps are rendered in on the dashboard.
func WithDisplayZone(loc *time.Location) Option { return func(s *Server) { s.zone = loc } }

// WithRefreshLimiter caps how often manual refreshes reach the upstream.
func WithRefreshLimiter(l *rate.Limiter) Option { return func(s *Server) { s.limiter = l } }

func NewServer(svc *application.OTCService, opts ...Option) *Server {
	s := &Server{svc: svc, pageRefresh: time.Minute, zone: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type sourceJSON struct {
	URI    string `json:"uri"`
	Title  string `json:"title"`
	Domain string `json:"domain,omitempty"`
}

type quoteResponse struct {
	Sequence          uint64       `json:"sequence"`
	BuyPrice          string       `json:"buy_price"`
	SellPrice         string       `json:"sell_price"`
	BuyReferenceRate  string       `json:"buy_reference_rate"`
	SellReferenceRate string       `json:"sell_reference_rate"`
	Summary           string       `json:"summary"`
	Sources           []sourceJSON `json:"sources"`
	FetchedAt         time.Time    `json:"fetched_at"`
	Provenance        string       `json:"provenance"`
	FallbackReason    string       `json:"fallback_reason,omitempty"`
}

func newQuoteResponse(v domain.Versioned) quoteResponse {
	q := domain.NewQuote(v.Snapshot)
	sources := make([]sourceJSON, 0, len(v.Snapshot.Sources))
	for _, src := range v.Snapshot.Sources {
		sources = append(sources, sourceJSON{URI: src.URI, Title: src.Title, Domain: src.Domain})
	}
	return quoteResponse{
		Sequence:          v.Seq,
		BuyPrice:          q.BuyDisplay(),
		SellPrice:         q.SellDisplay(),
		BuyReferenceRate:  v.Snapshot.BuyReferenceRate.String(),
		SellReferenceRate: v.Snapshot.SellReferenceRate.String(),
		Summary:           v.Snapshot.Summary,
		Sources:           sources,
		FetchedAt:         v.Snapshot.FetchedAt,
		Provenance:        string(v.Snapshot.Provenance),
		FallbackReason:    string(v.Snapshot.FallbackReason),
	}
}

type conversionResponse struct {
	Sequence     uint64 `json:"sequence"`
	Direction    string `json:"direction"`
	Amount       string `json:"amount"`
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Price        string `json:"price"`
	Result       string `json:"result"`
	Provenance   string `json:"provenance"`
}

type refreshResponse struct {
	Sequence uint64 `json:"sequence"`
}

func (s *Server) GetQuote(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newQuoteResponse(s.svc.Current()))
}

func (s *Server) GetConversion(w http.ResponseWriter, r *http.Request) {
	req := conversionRequestFrom(r.URL.Query().Get("direction"), r.URL.Query().Get("amount"), "")
	v, res := s.svc.Convert(req)
	writeJSON(w, http.StatusOK, conversionResponse{
		Sequence:     v.Seq,
		Direction:    string(res.Direction),
		Amount:       res.Amount.String(),
		FromCurrency: res.Direction.InputCurrency(),
		ToCurrency:   res.Direction.OutputCurrency(),
		Price:        res.Price.StringFixed(domain.PriceDisplayPlaces),
		Result:       res.Display(),
		Provenance:   string(v.Snapshot.Provenance),
	})
}

// RequestRefresh starts a manual refresh. With ?wait=true it responds once
// that refresh, or a newer one, has been applied.
func (s *Server) RequestRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.allowRefresh() {
		writeError(w, http.StatusTooManyRequests, "too many refresh requests")
		return
	}
	var idem *string
	if k := r.Header.Get("X-Idempotency-Key"); k != "" {
		idem = &k
	}
	seq, err := s.svc.RequestRefresh(r.Context(), idem)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrConflict):
			writeError(w, http.StatusConflict, "duplicate idempotency key")
		case errors.Is(err, application.ErrNotRunning):
			writeError(w, http.StatusServiceUnavailable, "refresher not running")
		default:
			logx.WithFields(r.Context()).Error("refresh.request_failed", zap.Error(err))
			internalError(w)
		}
		return
	}

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		writeJSON(w, http.StatusAccepted, refreshResponse{Sequence: seq})
		return
	}
	v, err := s.svc.WaitFor(r.Context(), seq)
	if err != nil {
		writeError(w, http.StatusGatewayTimeout, "refresh still running")
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(v))
}

func (s *Server) allowRefresh() bool {
	return s.limiter == nil || s.limiter.Allow()
}

func conversionRequestFrom(direction, amount, def string) domain.ConversionRequest {
	if amount == "" {
		amount = def
	}
	return domain.ConversionRequest{
		Direction: domain.ParseDirection(direction),
		Amount:    domain.ParseAmount(amount),
	}
}
