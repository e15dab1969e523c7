package domain

import "context"

// Notifier pushes realtime events to subscribed clients. Delivery is best
// effort: implementations log failures and never surface them to callers.
type Notifier interface {
	Push(ctx context.Context, channel, event string, payload interface{})
}

// Event names and channel prefixes used with the push relay.
const (
	EventNewMessage = "new-message"
	EventNewStatus  = "new-status"
	EventPresence   = "presence-changed"

	ChatRoomChannelPrefix = "chat-room-"
	StatusFeedChannel     = "status-feed"
)

// ChatRoomChannel returns the relay channel for a room id.
func ChatRoomChannel(roomID string) string {
	return ChatRoomChannelPrefix + roomID
}
