package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Wepsel/Ouderenapp/common/messaging"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_PublishesEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	joined, err := pubSub.Subscribe(context.Background(), messaging.TopicActivityMemberJoined)
	require.NoError(t, err)
	left, err := pubSub.Subscribe(context.Background(), messaging.TopicActivityMemberLeft)
	require.NoError(t, err)

	client := messaging.NewClientWithPublisher(messaging.Config{ServiceName: "test"}, pubSub, nil)
	p := NewProducer(client, time.Second)

	// a cancelled request context must not stop the event
	ctx, cancel := context.WithCancel(context.Background())
	p.MemberJoined(ctx, 4, 21)
	cancel()
	p.MemberLeft(context.Background(), 4, 21)

	select {
	case msg := <-joined:
		msg.Ack()
		var evt messaging.ActivityMemberJoinedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		assert.Equal(t, uint64(4), evt.ActivityID)
		assert.Equal(t, int64(21), evt.UserID)
		assert.False(t, evt.JoinedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("joined event not delivered")
	}

	select {
	case msg := <-left:
		msg.Ack()
		var evt messaging.ActivityMemberLeftEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		assert.Equal(t, int64(21), evt.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("left event not delivered")
	}
}

type failingPublisher struct {
	calls chan string
}

func (f *failingPublisher) Publish(_ context.Context, topic string, _ []byte) error {
	f.calls <- topic
	return errors.New("redis unavailable")
}

func TestProducer_FailureIsSwallowed(t *testing.T) {
	f := &failingPublisher{calls: make(chan string, 1)}
	p := NewProducer(f, 0)

	assert.NotPanics(t, func() { p.MemberJoined(context.Background(), 1, 1) })
	select {
	case topic := <-f.calls:
		assert.Equal(t, messaging.TopicActivityMemberJoined, topic)
	case <-time.After(2 * time.Second):
		t.Fatal("publish not attempted")
	}
}

func TestProducer_NilSafe(t *testing.T) {
	var p *Producer
	assert.Nil(t, NewProducer(nil, time.Second))
	assert.NotPanics(t, func() {
		p.MemberJoined(context.Background(), 1, 1)
		p.MemberLeft(context.Background(), 1, 1)
	})
}
