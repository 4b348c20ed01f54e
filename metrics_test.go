package mqttcore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMetrics_CounterAccumulates(t *testing.T) {
	m := NewMemoryMetrics()

	m.Counter("reqs", nil).Inc()
	m.Counter("reqs", nil).Add(4)

	c := m.GetCounter("reqs", nil)
	require.NotNil(t, c)
	assert.Equal(t, 5.0, c.Value())
}

func TestMemoryMetrics_CounterWithDistinctLabelsAreSeparate(t *testing.T) {
	m := NewMemoryMetrics()

	m.Counter("pkts", MetricLabels{LabelPacketType: "PUBLISH"}).Inc()
	m.Counter("pkts", MetricLabels{LabelPacketType: "PINGREQ"}).Inc()
	m.Counter("pkts", MetricLabels{LabelPacketType: "PINGREQ"}).Inc()

	assert.Equal(t, 1.0, m.GetCounter("pkts", MetricLabels{LabelPacketType: "PUBLISH"}).Value())
	assert.Equal(t, 2.0, m.GetCounter("pkts", MetricLabels{LabelPacketType: "PINGREQ"}).Value())
}

func TestMemoryMetrics_GaugeSetIncDec(t *testing.T) {
	m := NewMemoryMetrics()

	g := m.Gauge("inflight", nil)
	g.Set(3)
	g.Inc()
	g.Dec()
	g.Sub(0.5)
	assert.Equal(t, 2.5, g.Value())
}

func TestMemoryMetrics_HistogramObserveDuration(t *testing.T) {
	m := NewMemoryMetrics()

	h := m.Histogram("latency", nil)
	h.ObserveDuration(250 * time.Millisecond)
	h.Observe(1.0)

	assert.Equal(t, uint64(2), h.Count())
	assert.InDelta(t, 1.25, h.Sum(), 0.001)
}

func TestMemoryMetrics_SameKeyReturnsSameInstance(t *testing.T) {
	m := NewMemoryMetrics()

	a := m.Counter("x", nil)
	b := m.Counter("x", nil)
	a.Inc()

	assert.Equal(t, 1.0, b.Value())
}

func TestEngineMetrics_NilSinkFallsBackToNoOp(t *testing.T) {
	e := NewEngineMetrics(nil)
	assert.NotPanics(t, func() {
		e.PacketSent(PacketPUBLISH, 10)
		e.PacketReceived(PacketPUBACK, 4)
		e.Ping()
		e.ReconnectReplay()
		e.QoS2Dedup()
		e.CommandLatency(time.Millisecond)
	})
}

func TestEngineMetrics_PacketSentRecordsCountAndBytes(t *testing.T) {
	m := NewMemoryMetrics()
	e := NewEngineMetrics(m)

	e.PacketSent(PacketPUBLISH, 37)

	assert.Equal(t, 1.0, m.GetCounter(MetricPacketsSent, MetricLabels{LabelPacketType: PacketPUBLISH.String()}).Value())
	assert.Equal(t, 37.0, m.GetCounter(MetricBytesSent, nil).Value())
}

func TestEngineMetrics_QoS2DedupIncrementsCounter(t *testing.T) {
	m := NewMemoryMetrics()
	e := NewEngineMetrics(m)

	e.QoS2Dedup()
	e.QoS2Dedup()

	assert.Equal(t, 2.0, m.GetCounter(MetricQoS2Dedup, nil).Value())
}
