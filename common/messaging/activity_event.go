package messaging

import "time"

// ==================== topics ====================

const (
	TopicActivityMemberJoined = "activity.member.joined"
	TopicActivityMemberLeft   = "activity.member.left"
)

// ==================== events ====================

// ActivityMemberJoinedEvent is published after a registration is stored.
type ActivityMemberJoinedEvent struct {
	ActivityID uint64    `json:"activity_id"`
	UserID     int64     `json:"user_id"`
	JoinedAt   time.Time `json:"joined_at"`
}

// ActivityMemberLeftEvent is published after a registration is cancelled.
type ActivityMemberLeftEvent struct {
	ActivityID uint64    `json:"activity_id"`
	UserID     int64     `json:"user_id"`
	LeftAt     time.Time `json:"left_at"`
}
