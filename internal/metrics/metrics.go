// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "omnirag_console"

var (
	// StreamsTotal counts chat-stream sends by outcome: ok, failed, cancelled.
	StreamsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_streams_total",
		Help:      "Chat stream sends by outcome.",
	}, []string{"outcome"})

	// StreamsInFlight is the number of chat streams currently being read.
	StreamsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chat_streams_in_flight",
		Help:      "Chat streams currently open.",
	})

	// MalformedLines counts data lines skipped because their payload did not parse.
	MalformedLines = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_malformed_lines_total",
		Help:      "Stream data lines skipped as malformed.",
	})

	// SessionActions counts session management calls by action and result.
	SessionActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_actions_total",
		Help:      "Session list, history, delete and clear calls by result.",
	}, []string{"action", "result"})

	// OpenViews is the number of mounted bot chat views.
	OpenViews = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_views",
		Help:      "Bot chat views currently mounted.",
	})
)

// ObserveSessionAction records one session management call.
func ObserveSessionAction(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SessionActions.WithLabelValues(action, result).Inc()
}
