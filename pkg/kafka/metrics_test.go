package kafka

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherMetricNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	return names
}

func counterValue(t *testing.T, c *prometheus.CounterVec, topic string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.WithLabelValues(topic).Write(m))
	return m.GetCounter().GetValue()
}

func TestProducerMetrics_Registered(t *testing.T) {
	ProducerMessagesPublished.WithLabelValues("registered-topic").Add(0)
	ProducerPublishErrors.WithLabelValues("registered-topic").Add(0)
	ProducerPublishDuration.WithLabelValues("registered-topic").Observe(0)
	ProducerMessageBytes.WithLabelValues("registered-topic").Observe(0)

	names := gatherMetricNames(t)
	for _, want := range []string{
		"storefront_kafka_producer_messages_published_total",
		"storefront_kafka_producer_publish_errors_total",
		"storefront_kafka_producer_publish_duration_seconds",
		"storefront_kafka_producer_message_bytes",
	} {
		assert.True(t, names[want], "expected %s to be registered", want)
	}
}

func TestProducerMetrics_IncrementAndCollect(t *testing.T) {
	topic := Topic("metrics", "test")

	initialPublished := counterValue(t, ProducerMessagesPublished, topic)
	initialErrors := counterValue(t, ProducerPublishErrors, topic)

	ProducerMessagesPublished.WithLabelValues(topic).Inc()
	ProducerMessagesPublished.WithLabelValues(topic).Inc()
	ProducerPublishErrors.WithLabelValues(topic).Inc()

	assert.InDelta(t, initialPublished+2, counterValue(t, ProducerMessagesPublished, topic), 0.001)
	assert.InDelta(t, initialErrors+1, counterValue(t, ProducerPublishErrors, topic), 0.001)
}
