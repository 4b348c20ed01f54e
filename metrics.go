package mqttcore

import (
	"time"
)

// MetricType represents the type of metric.
type MetricType int

const (
	// MetricTypeCounter is a monotonically increasing counter.
	MetricTypeCounter MetricType = 0
	// MetricTypeGauge is a value that can go up and down.
	MetricTypeGauge MetricType = 1
	// MetricTypeHistogram tracks distribution of values.
	MetricTypeHistogram MetricType = 2
)

// String returns the string representation of the metric type.
func (t MetricType) String() string {
	switch t {
	case MetricTypeCounter:
		return "counter"
	case MetricTypeGauge:
		return "gauge"
	case MetricTypeHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// MetricLabels represents key-value pairs for metric labels.
type MetricLabels map[string]string

// Metrics defines the interface for collecting metrics.
type Metrics interface {
	// Counter returns a counter metric.
	Counter(name string, labels MetricLabels) Counter

	// Gauge returns a gauge metric.
	Gauge(name string, labels MetricLabels) Gauge

	// Histogram returns a histogram metric.
	Histogram(name string, labels MetricLabels) Histogram
}

// Counter is a monotonically increasing counter.
type Counter interface {
	// Inc increments the counter by 1.
	Inc()

	// Add adds the given value to the counter.
	Add(delta float64)

	// Value returns the current value.
	Value() float64
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	// Set sets the gauge to the given value.
	Set(value float64)

	// Inc increments the gauge by 1.
	Inc()

	// Dec decrements the gauge by 1.
	Dec()

	// Add adds the given value to the gauge.
	Add(delta float64)

	// Sub subtracts the given value from the gauge.
	Sub(delta float64)

	// Value returns the current value.
	Value() float64
}

// Histogram tracks the distribution of values.
type Histogram interface {
	// Observe records a value.
	Observe(value float64)

	// ObserveDuration records a duration in seconds.
	ObserveDuration(d time.Duration)

	// Count returns the number of observations.
	Count() uint64

	// Sum returns the sum of all observations.
	Sum() float64
}

// NoOpMetrics is a no-op implementation of Metrics.
type NoOpMetrics struct{}

// Counter returns a no-op counter.
func (n *NoOpMetrics) Counter(_ string, _ MetricLabels) Counter {
	return &noOpCounter{}
}

// Gauge returns a no-op gauge.
func (n *NoOpMetrics) Gauge(_ string, _ MetricLabels) Gauge {
	return &noOpGauge{}
}

// Histogram returns a no-op histogram.
func (n *NoOpMetrics) Histogram(_ string, _ MetricLabels) Histogram {
	return &noOpHistogram{}
}

type noOpCounter struct{}

func (n *noOpCounter) Inc()           {}
func (n *noOpCounter) Add(_ float64)  {}
func (n *noOpCounter) Value() float64 { return 0 }

type noOpGauge struct{}

func (n *noOpGauge) Set(_ float64)  {}
func (n *noOpGauge) Inc()           {}
func (n *noOpGauge) Dec()           {}
func (n *noOpGauge) Add(_ float64)  {}
func (n *noOpGauge) Sub(_ float64)  {}
func (n *noOpGauge) Value() float64 { return 0 }

type noOpHistogram struct{}

func (n *noOpHistogram) Observe(_ float64)            {}
func (n *noOpHistogram) ObserveDuration(_ time.Duration) {}
func (n *noOpHistogram) Count() uint64                { return 0 }
func (n *noOpHistogram) Sum() float64                 { return 0 }

// Standard metric names for the client engine.
const (
	// MetricPacketsSent is the total number of packets written to the
	// transport, by type.
	MetricPacketsSent = "mqttcore_packets_sent_total"

	// MetricPacketsReceived is the total number of packets read from the
	// transport, by type.
	MetricPacketsReceived = "mqttcore_packets_received_total"

	// MetricBytesSent is the total bytes written to the transport.
	MetricBytesSent = "mqttcore_bytes_sent_total"

	// MetricBytesReceived is the total bytes read from the transport.
	MetricBytesReceived = "mqttcore_bytes_received_total"

	// MetricPings is the total number of PINGREQ packets sent.
	MetricPings = "mqttcore_pings_total"

	// MetricReconnectReplays is the total number of times a reconnect
	// replayed the single outstanding inflight message.
	MetricReconnectReplays = "mqttcore_reconnect_replays_total"

	// MetricQoS2Dedup is the total number of inbound QoS 2 PUBLISH
	// packets not delivered, either because their packet ID was already
	// in the receive-id set or because the set was full.
	MetricQoS2Dedup = "mqttcore_qos2_dedup_total"

	// MetricCommandLatency is the time a blocking command spent waiting
	// for its matching acknowledgement.
	MetricCommandLatency = "mqttcore_command_latency_seconds"
)

// Standard metric labels.
const (
	// LabelPacketType is the packet type label.
	LabelPacketType = "packet_type"

	// LabelQoS is the QoS level label.
	LabelQoS = "qos"
)

// EngineMetrics provides convenience methods for the cycle engine and
// command facade's instrumentation, wrapping a Metrics sink.
type EngineMetrics struct {
	metrics Metrics
}

// NewEngineMetrics creates a new EngineMetrics instance.
func NewEngineMetrics(m Metrics) *EngineMetrics {
	if m == nil {
		m = &NoOpMetrics{}
	}
	return &EngineMetrics{metrics: m}
}

// PacketSent records a packet written to the transport.
func (e *EngineMetrics) PacketSent(packetType PacketType, n int) {
	labels := MetricLabels{LabelPacketType: packetType.String()}
	e.metrics.Counter(MetricPacketsSent, labels).Inc()
	e.metrics.Counter(MetricBytesSent, nil).Add(float64(n))
}

// PacketReceived records a packet read from the transport.
func (e *EngineMetrics) PacketReceived(packetType PacketType, n int) {
	labels := MetricLabels{LabelPacketType: packetType.String()}
	e.metrics.Counter(MetricPacketsReceived, labels).Inc()
	e.metrics.Counter(MetricBytesReceived, nil).Add(float64(n))
}

// Ping records a PINGREQ being sent.
func (e *EngineMetrics) Ping() {
	e.metrics.Counter(MetricPings, nil).Inc()
}

// ReconnectReplay records a reconnect replaying the inflight message.
func (e *EngineMetrics) ReconnectReplay() {
	e.metrics.Counter(MetricReconnectReplays, nil).Inc()
}

// QoS2Dedup records a QoS 2 PUBLISH being dropped as a duplicate or
// because the receive-id set was full.
func (e *EngineMetrics) QoS2Dedup() {
	e.metrics.Counter(MetricQoS2Dedup, nil).Inc()
}

// CommandLatency records how long a blocking command waited.
func (e *EngineMetrics) CommandLatency(d time.Duration) {
	e.metrics.Histogram(MetricCommandLatency, nil).ObserveDuration(d)
}
