// Package metrics defines the Prometheus registry exposed by the admin HTTP surface
// (§4.5, §6). Names and label sets are fixed; every component that touches the stream
// lifecycle or the store increments these instead of rolling its own counters, the way
// the teacher's storage package centralizes its db_exec_* family.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// StreamsTotal counts every PublishBuildToolEventStream call that started.
	StreamsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bep_streams_total",
		Help: "Total number of build event streams accepted.",
	})

	// ActiveStreams tracks streams currently open.
	ActiveStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bep_active_streams",
		Help: "Number of build event streams currently open.",
	})

	// StreamErrorsTotal counts streams that ended in an error, by gRPC status code.
	StreamErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bep_stream_errors_total",
		Help: "Total number of build event streams that ended in error, by status code.",
	}, []string{"code"})

	// MessageHandlerErrorsTotal counts event-handler failures. Handlers never propagate
	// errors to the stream; this counter is the only record of them.
	MessageHandlerErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bep_message_handler_errors_total",
		Help: "Total number of errors returned by an individual event handler.",
	})

	// DBExecTotal counts synchronous store calls made outside a transaction group.
	DBExecTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "db_exec_total",
		Help: "Total number of individual store operations executed.",
	})

	// DBExecGroupedTotal counts store calls made as part of a multi-statement group.
	DBExecGroupedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "db_exec_grouped_total",
		Help: "Total number of grouped store operations executed.",
	})

	// DBBlockingInflight tracks store calls currently in flight.
	DBBlockingInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "db_blocking_inflight",
		Help: "Number of store operations currently executing.",
	})

	// DBExecDuration buckets wall time spent inside a single store operation.
	DBExecDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "db_exec_duration_seconds",
		Help:    "Duration of a single store operation.",
		Buckets: []float64{0.001, 0.005, 0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0},
	})
)

// Registry is the registry every metric above is registered to, and the one the admin
// HTTP surface renders via promhttp or a manual OpenMetrics encoder.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		StreamsTotal,
		ActiveStreams,
		StreamErrorsTotal,
		MessageHandlerErrorsTotal,
		DBExecTotal,
		DBExecGroupedTotal,
		DBBlockingInflight,
		DBExecDuration,
	)
}
