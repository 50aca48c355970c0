package metrics

import (
	"time"

	"otcrates-service/internal/application"
	"otcrates-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RefreshMetrics exports fetch and snapshot telemetry.
type RefreshMetrics struct {
	FetchesTotal     *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	ReferenceRate    *prometheus.GaugeVec
	QuotedPrice      *prometheus.GaugeVec
	SnapshotSequence prometheus.Gauge
	SnapshotLive     prometheus.Gauge
	DiscardedTotal   prometheus.Counter
}

var _ application.Recorder = (*RefreshMetrics)(nil)

func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	f := promauto.With(reg)
	return &RefreshMetrics{
		FetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otc_rate_fetches_total",
				Help: "Rate fetches by provenance and fallback reason",
			},
			[]string{"provenance", "reason"},
		),
		FetchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "otc_rate_fetch_duration_seconds",
				Help:    "Wall time of one rate fetch including the upstream call",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),
		ReferenceRate: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "otc_reference_rate",
				Help: "Reference rate of the applied snapshot",
			},
			[]string{"side"},
		),
		QuotedPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "otc_quoted_price",
				Help: "House price after spread for the applied snapshot",
			},
			[]string{"side"},
		),
		SnapshotSequence: f.NewGauge(prometheus.GaugeOpts{
			Name: "otc_snapshot_sequence",
			Help: "Sequence number of the applied snapshot",
		}),
		SnapshotLive: f.NewGauge(prometheus.GaugeOpts{
			Name: "otc_snapshot_live",
			Help: "1 when the applied snapshot came from a live fetch, 0 for fallback",
		}),
		DiscardedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "otc_refresh_results_discarded_total",
			Help: "Fetch results dropped because a newer fetch superseded them",
		}),
	}
}

func (m *RefreshMetrics) FetchObserved(s domain.MarketSnapshot, took time.Duration) {
	m.FetchesTotal.WithLabelValues(string(s.Provenance), string(s.FallbackReason)).Inc()
	m.FetchDuration.Observe(took.Seconds())
}

func (m *RefreshMetrics) SnapshotApplied(v domain.Versioned) {
	q := domain.NewQuote(v.Snapshot)
	m.ReferenceRate.WithLabelValues("buy").Set(v.Snapshot.BuyReferenceRate.InexactFloat64())
	m.ReferenceRate.WithLabelValues("sell").Set(v.Snapshot.SellReferenceRate.InexactFloat64())
	m.QuotedPrice.WithLabelValues("buy").Set(q.BuyPrice.InexactFloat64())
	m.QuotedPrice.WithLabelValues("sell").Set(q.SellPrice.InexactFloat64())
	m.SnapshotSequence.Set(float64(v.Seq))
	if v.Snapshot.IsLive() {
		m.SnapshotLive.Set(1)
	} else {
		m.SnapshotLive.Set(0)
	}
}

func (m *RefreshMetrics) ResultDiscarded() { m.DiscardedTotal.Inc() }
