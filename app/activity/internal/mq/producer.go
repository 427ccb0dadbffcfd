package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"
	"github.com/Wepsel/Ouderenapp/common/messaging"

	"github.com/zeromicro/go-zero/core/logx"
)

// Publisher is the part of messaging.Client the producer needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Producer publishes registration events.
// nil-safe: a nil Producer or client drops every event silently.
type Producer struct {
	client  Publisher
	timeout time.Duration
	now     func() time.Time
}

var _ registration.EventPublisher = (*Producer)(nil)

// NewProducer returns nil when client is nil.
func NewProducer(client Publisher, timeout time.Duration) *Producer {
	if client == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Producer{client: client, timeout: timeout, now: time.Now}
}

// publishAsync publishes on its own goroutine so the caller never waits.
// Failures and panics are logged and never reach the business operation.
func (p *Producer) publishAsync(ctx context.Context, topic string, payload interface{}) {
	if p == nil || p.client == nil {
		return
	}
	// keep trace values, drop the request's cancellation
	pubCtx := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logx.WithContext(pubCtx).Errorf("[MQ-Producer] panic recovered: topic=%s, err=%v", topic, r)
			}
		}()

		data, err := json.Marshal(payload)
		if err != nil {
			logx.WithContext(pubCtx).Errorf("[MQ-Producer] marshal failed: topic=%s, err=%v", topic, err)
			return
		}

		tctx, cancel := context.WithTimeout(pubCtx, p.timeout)
		defer cancel()

		if err := p.client.Publish(tctx, topic, data); err != nil {
			logx.WithContext(tctx).Errorf("[MQ-Producer] publish failed: topic=%s, err=%v", topic, err)
			return
		}
		logx.WithContext(tctx).Infof("[MQ-Producer] published: topic=%s, size=%d", topic, len(data))
	}()
}

// MemberJoined publishes activity.member.joined.
func (p *Producer) MemberJoined(ctx context.Context, activityID uint64, userID int64) {
	if p == nil {
		return
	}
	p.publishAsync(ctx, messaging.TopicActivityMemberJoined, messaging.ActivityMemberJoinedEvent{
		ActivityID: activityID,
		UserID:     userID,
		JoinedAt:   p.now(),
	})
}

// MemberLeft publishes activity.member.left.
func (p *Producer) MemberLeft(ctx context.Context, activityID uint64, userID int64) {
	if p == nil {
		return
	}
	p.publishAsync(ctx, messaging.TopicActivityMemberLeft, messaging.ActivityMemberLeftEvent{
		ActivityID: activityID,
		UserID:     userID,
		LeftAt:     p.now(),
	})
}
