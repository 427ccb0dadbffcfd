package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Publish(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	messages, err := pubSub.Subscribe(context.Background(), TopicActivityMemberJoined)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	collector := NewPrometheusCollector("test", reg)
	client := NewClientWithPublisher(Config{ServiceName: "activity-api", EnableMetrics: true}, pubSub, collector)

	payload, err := json.Marshal(ActivityMemberJoinedEvent{ActivityID: 3, UserID: 8, JoinedAt: time.Unix(1700000000, 0)})
	require.NoError(t, err)
	require.NoError(t, client.Publish(context.Background(), TopicActivityMemberJoined, payload))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "activity-api", msg.Metadata.Get("service"))
		assert.Equal(t, TopicActivityMemberJoined, msg.Metadata.Get("topic"))

		var evt ActivityMemberJoinedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		assert.Equal(t, uint64(3), evt.ActivityID)
		assert.Equal(t, int64(8), evt.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.publishTotal.WithLabelValues(TopicActivityMemberJoined, "success")))
}

func TestClient_MetricsDisabled(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	client := NewClientWithPublisher(Config{}, pubSub, NewPrometheusCollector("off", prometheus.NewRegistry()))
	assert.IsType(t, NoOpMetricsCollector{}, client.metrics)
	assert.Equal(t, 3*time.Second, client.PublishTimeout())
	assert.NoError(t, client.Close())
}
