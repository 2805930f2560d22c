package replication

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("landscaper.replication")

var (
	// messagesTotal counts envelopes by direction, event and outcome.
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscaper_replication_messages_total",
		Help: "Replicated envelopes by direction, event and result",
	}, []string{"direction", "event", "result"})

	// divergenceTotal counts inbound edits that referenced an id this
	// replica does not have.
	divergenceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscaper_replication_divergence_total",
		Help: "Inbound edits that missed a local entity or log entry",
	}, []string{"event"})

	applyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "landscaper_replication_apply_duration_seconds",
		Help:    "Time to apply an inbound edit",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	}, []string{"event"})
)

const (
	directionIn  = "in"
	directionOut = "out"

	resultApplied   = "applied"
	resultEcho      = "echo"
	resultDuplicate = "duplicate"
	resultForeign   = "foreign_token"
	resultInvalid   = "invalid"
	resultDiverged  = "diverged"
	resultFailed    = "failed"
	resultSent      = "sent"
)
