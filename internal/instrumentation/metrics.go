package instrumentation

import (
	"errors"

	"schwabstream/pkg/schwab"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics for the streamer. It implements schwab.Observer.
type Metrics struct {
	FramesReceived *prometheus.CounterVec
	CommandsSent   *prometheus.CounterVec
	StaleDropped   *prometheus.CounterVec
	Reconnects     prometheus.Counter
	ProtocolErrors *prometheus.CounterVec
	LoggedInState  prometheus.Gauge

	FeedLagMs  *prometheus.HistogramVec
	SinkErrors *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FramesReceived: f.NewCounterVec(prometheus.CounterOpts{
			Name: "schwabstream_frames_received_total",
			Help: "Inbound websocket messages by frame kind",
		}, []string{"kind"}),

		CommandsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "schwabstream_commands_sent_total",
			Help: "Commands written to the streamer by service and command",
		}, []string{"service", "command"}),

		StaleDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "schwabstream_stale_records_dropped_total",
			Help: "Records dropped because their key was no longer subscribed",
		}, []string{"service"}),

		Reconnects: f.NewCounter(prometheus.CounterOpts{
			Name: "schwabstream_reconnects_total",
			Help: "Successful transport reopenings after a drop",
		}),

		ProtocolErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "schwabstream_protocol_errors_total",
			Help: "Fatal protocol errors by cause",
		}, []string{"cause"}),

		LoggedInState: f.NewGauge(prometheus.GaugeOpts{
			Name: "schwabstream_logged_in",
			Help: "1 while the login gate is open",
		}),

		// Frame timestamp to callback delivery
		FeedLagMs: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schwabstream_feed_lag_ms",
			Help:    "Time between the server frame timestamp and local processing in milliseconds",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2000, 5000},
		}, []string{"service"}),

		SinkErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "schwabstream_sink_errors_total",
			Help: "Failed writes to downstream sinks",
		}, []string{"sink"}),
	}
}

func (m *Metrics) CommandSent(service schwab.Service, command schwab.CommandKind) {
	m.CommandsSent.WithLabelValues(string(service), string(command)).Inc()
}

func (m *Metrics) FrameReceived(kind schwab.FrameKind) {
	m.FramesReceived.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) StaleRecordDropped(service schwab.Service) {
	m.StaleDropped.WithLabelValues(string(service)).Inc()
}

func (m *Metrics) Reconnected() {
	m.Reconnects.Inc()
}

func (m *Metrics) LoggedIn(loggedIn bool) {
	if loggedIn {
		m.LoggedInState.Set(1)
		return
	}
	m.LoggedInState.Set(0)
}

func (m *Metrics) ProtocolFault(err error) {
	m.ProtocolErrors.WithLabelValues(protocolCause(err)).Inc()
}

// RecordFeedLag records how far behind the server clock a delivered snapshot is.
func (m *Metrics) RecordFeedLag(service schwab.Service, lagMs float64) {
	m.FeedLagMs.WithLabelValues(string(service)).Observe(lagMs)
}

// RecordSinkError increments the error counter for a sink (postgres, redis, kafka).
func (m *Metrics) RecordSinkError(sink string) {
	m.SinkErrors.WithLabelValues(sink).Inc()
}

func protocolCause(err error) string {
	switch {
	case errors.Is(err, schwab.ErrUnknownService):
		return "unknown_service"
	case errors.Is(err, schwab.ErrUnexpectedFrame):
		return "unexpected_frame"
	case errors.Is(err, schwab.ErrMalformedFrame):
		return "malformed_frame"
	case errors.Is(err, schwab.ErrCommandFailed):
		return "command_failed"
	case errors.Is(err, schwab.ErrLoginDenied):
		return "login_denied"
	}
	return "other"
}
