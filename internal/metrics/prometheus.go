package metrics

import (
	"sync"

	"github.com/ofranc1208/leadsync/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// It instruments the assignment engine, the broadcast transport, and the
// sync hooks. Registration is deferred until first use so constructing the
// collector never fails on a registry conflict.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Engine metrics
	assignmentOutcomes *prometheus.CounterVec
	reassignments      prometheus.Counter
	completions        prometheus.Counter
	queueDepth         *prometheus.GaugeVec

	// Broadcast metrics
	messagesSent      *prometheus.CounterVec
	messageBytes      *prometheus.HistogramVec
	messagesReceived  *prometheus.CounterVec
	selfEchoesDropped prometheus.Counter
	decodeErrors      *prometheus.CounterVec
	handlerPanics     *prometheus.CounterVec

	// Sync metrics
	snapshotsApplied  prometheus.Counter
	snapshotLeadCount prometheus.Histogram
	leadsMaterialized prometheus.Counter
	deltasDropped     prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "leadsync" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "leadsync"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.assignmentOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "assignments_total",
			Help:      "Total assignment attempts by outcome.",
		}, []string{"outcome"})

		p.reassignments = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "reassignments_total",
			Help:      "Total leads moved between reps.",
		})

		p.completions = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "completions_total",
			Help:      "Total assignments completed via terminal lead status.",
		})

		p.queueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "rep_queue_depth",
			Help:      "Current queue depth per rep.",
		}, []string{"rep"})

		p.messagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "broadcast",
			Name:      "messages_sent_total",
			Help:      "Total outbound broadcast messages by type.",
		}, []string{"type"})

		p.messageBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "broadcast",
			Name:      "message_bytes",
			Help:      "Encoded envelope sizes in bytes by type.",
			Buckets:   []float64{128, 512, 2048, 8192, 32768, 131072},
		}, []string{"type"})

		p.messagesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "broadcast",
			Name:      "messages_received_total",
			Help:      "Total inbound broadcast messages dispatched by type.",
		}, []string{"type"})

		p.selfEchoesDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "broadcast",
			Name:      "self_echoes_dropped_total",
			Help:      "Total messages discarded because they originated from this process.",
		})

		p.decodeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "broadcast",
			Name:      "decode_errors_total",
			Help:      "Total inbound messages that failed to decode by type.",
		}, []string{"type"})

		p.handlerPanics = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "broadcast",
			Name:      "handler_panics_total",
			Help:      "Total subscriber callback panics caught by the dispatcher.",
		}, []string{"type"})

		p.snapshotsApplied = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "sync",
			Name:      "snapshots_applied_total",
			Help:      "Total inbound snapshots that replaced the local cache.",
		})

		p.snapshotLeadCount = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "sync",
			Name:      "snapshot_lead_count",
			Help:      "Number of leads carried by applied snapshots.",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
		})

		p.leadsMaterialized = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "sync",
			Name:      "leads_materialized_total",
			Help:      "Total leads added to the local store from assignment deltas.",
		})

		p.deltasDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "sync",
			Name:      "deltas_dropped_total",
			Help:      "Total assignment deltas that could not be applied.",
		})

		collectors := []prometheus.Collector{
			p.assignmentOutcomes, p.reassignments, p.completions, p.queueDepth,
			p.messagesSent, p.messageBytes, p.messagesReceived,
			p.selfEchoesDropped, p.decodeErrors, p.handlerPanics,
			p.snapshotsApplied, p.snapshotLeadCount, p.leadsMaterialized,
			p.deltasDropped,
		}
		for _, c := range collectors {
			// AlreadyRegisteredError is tolerated so two collectors sharing a
			// registry and namespace don't panic the process.
			if err := p.reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	})
}

// RecordAssignment increments the assignment outcome counter.
func (p *PrometheusCollector) RecordAssignment(outcome string) {
	p.ensureRegistered()
	p.assignmentOutcomes.WithLabelValues(outcome).Inc()
}

// RecordReassignment increments the reassignment counter.
func (p *PrometheusCollector) RecordReassignment() {
	p.ensureRegistered()
	p.reassignments.Inc()
}

// RecordCompletion increments the completion counter.
func (p *PrometheusCollector) RecordCompletion() {
	p.ensureRegistered()
	p.completions.Inc()
}

// SetQueueDepth sets the per-rep queue depth gauge.
func (p *PrometheusCollector) SetQueueDepth(repID string, depth int) {
	p.ensureRegistered()
	p.queueDepth.WithLabelValues(repID).Set(float64(depth))
}

// RecordMessageSent increments the outbound message counter and observes the
// envelope size.
func (p *PrometheusCollector) RecordMessageSent(msgType string, bytes int) {
	p.ensureRegistered()
	p.messagesSent.WithLabelValues(msgType).Inc()
	p.messageBytes.WithLabelValues(msgType).Observe(float64(bytes))
}

// RecordMessageReceived increments the inbound message counter.
func (p *PrometheusCollector) RecordMessageReceived(msgType string) {
	p.ensureRegistered()
	p.messagesReceived.WithLabelValues(msgType).Inc()
}

// RecordSelfEchoDropped increments the self-echo counter.
func (p *PrometheusCollector) RecordSelfEchoDropped() {
	p.ensureRegistered()
	p.selfEchoesDropped.Inc()
}

// RecordDecodeError increments the decode error counter.
func (p *PrometheusCollector) RecordDecodeError(msgType string) {
	p.ensureRegistered()
	p.decodeErrors.WithLabelValues(msgType).Inc()
}

// RecordHandlerPanic increments the handler panic counter.
func (p *PrometheusCollector) RecordHandlerPanic(msgType string) {
	p.ensureRegistered()
	p.handlerPanics.WithLabelValues(msgType).Inc()
}

// RecordSnapshotApplied increments the snapshot counter and observes the
// carried lead count.
func (p *PrometheusCollector) RecordSnapshotApplied(leadCount int) {
	p.ensureRegistered()
	p.snapshotsApplied.Inc()
	p.snapshotLeadCount.Observe(float64(leadCount))
}

// RecordLeadMaterialized increments the materialization counter.
func (p *PrometheusCollector) RecordLeadMaterialized() {
	p.ensureRegistered()
	p.leadsMaterialized.Inc()
}

// RecordDeltaDropped increments the dropped delta counter.
func (p *PrometheusCollector) RecordDeltaDropped() {
	p.ensureRegistered()
	p.deltasDropped.Inc()
}
