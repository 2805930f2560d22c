package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	peersConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "landscaper_relay_peers",
		Help: "Connected participants across all rooms",
	})

	roomsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "landscaper_relay_rooms",
		Help: "Landscapes with at least one connected participant",
	})

	// envelopesForwarded counts fan-out deliveries, one per receiving peer.
	envelopesForwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscaper_relay_envelopes_forwarded_total",
		Help: "Envelopes delivered to peers by event",
	}, []string{"event"})

	envelopesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscaper_relay_envelopes_dropped_total",
		Help: "Envelopes dropped by reason",
	}, []string{"reason"})
)
