package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

type messageServiceFixture struct {
	svc      *domain.MessageService
	rooms    *fakeChatRepo
	messages *fakeMessageRepo
	notifier *fakeNotifier

	room  *domain.ChatRoom
	alice uuid.UUID
	bob   uuid.UUID
}

func newMessageServiceFixture(t *testing.T) *messageServiceFixture {
	t.Helper()

	rooms := newFakeChatRepo()
	messages := newFakeMessageRepo()
	notifier := &fakeNotifier{}

	alice := uuid.New()
	bob := uuid.New()
	room := rooms.seed(alice, bob)

	return &messageServiceFixture{
		svc:      domain.NewMessageService(rooms, messages, notifier, zap.NewNop()),
		rooms:    rooms,
		messages: messages,
		notifier: notifier,
		room:     room,
		alice:    alice,
		bob:      bob,
	}
}

// seedHistory inserts n messages alternating between the two participants,
// one hour apart starting at base. Message ids are 1..n.
func (f *messageServiceFixture) seedHistory(n int, base time.Time) {
	for i := 0; i < n; i++ {
		sender := f.alice
		if i%2 == 1 {
			sender = f.bob
		}
		f.messages.seed(f.room.ID, sender, "message", base.Add(time.Duration(i)*time.Hour))
	}
}

func flatten(groups []domain.DayGroup) []int64 {
	var ids []int64
	for _, g := range groups {
		for _, m := range g.Messages {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func TestFetchMessagesInitialPage(t *testing.T) {
	f := newMessageServiceFixture(t)
	// 30 hourly messages crossing one UTC midnight
	f.seedHistory(30, day("2026-01-01T00:00:00Z"))

	page, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:  f.room.ID,
		RequesterID: f.alice,
		Limit:       10,
	})

	require.NoError(t, err)
	require.NotNil(t, page.ChatRoom)

	// Newest 10 messages, chronological within the page
	assert.Equal(t, []int64{21, 22, 23, 24, 25, 26, 27, 28, 29, 30}, flatten(page.Messages))

	// Ids 21-24 land on Jan 1, 25-30 on Jan 2
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "2026-01-01", page.Messages[0].Date)
	assert.Len(t, page.Messages[0].Messages, 4)
	assert.Equal(t, "2026-01-02", page.Messages[1].Date)
	assert.Len(t, page.Messages[1].Messages, 6)
}

func TestFetchMessagesOlder(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(15, day("2026-01-01T00:00:00Z"))

	anchor := int64(6)
	page, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:  f.room.ID,
		RequesterID: f.alice,
		AnchorID:    &anchor,
		Direction:   domain.FetchOlder,
		Limit:       10,
	})

	require.NoError(t, err)
	// Strictly below the cursor, chronological
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, flatten(page.Messages))
}

func TestFetchMessagesOlderPagesToExhaustion(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(25, day("2026-01-01T00:00:00Z"))

	// Walk the whole history backwards: start at the newest page, then
	// follow the smallest id of each page down until nothing comes back.
	page, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:  f.room.ID,
		RequesterID: f.alice,
		Limit:       10,
	})
	require.NoError(t, err)

	var collected []int64
	for {
		ids := flatten(page.Messages)
		if len(ids) == 0 {
			break
		}
		collected = append(append([]int64{}, ids...), collected...)

		anchor := ids[0]
		page, err = f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
			ChatRoomID:  f.room.ID,
			RequesterID: f.alice,
			AnchorID:    &anchor,
			Direction:   domain.FetchOlder,
			Limit:       10,
		})
		require.NoError(t, err)
	}

	// Every message exactly once, no gaps, chronological
	want := make([]int64, 0, 25)
	for id := int64(1); id <= 25; id++ {
		want = append(want, id)
	}
	assert.Equal(t, want, collected)
}

func TestFetchMessagesNewer(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(15, day("2026-01-01T00:00:00Z"))

	anchor := int64(12)
	page, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:  f.room.ID,
		RequesterID: f.alice,
		AnchorID:    &anchor,
		Direction:   domain.FetchNewer,
		Limit:       10,
	})

	require.NoError(t, err)
	// Strictly above the cursor
	assert.Equal(t, []int64{13, 14, 15}, flatten(page.Messages))

	// Anchored at the newest message there is nothing further
	anchor = int64(15)
	page, err = f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:  f.room.ID,
		RequesterID: f.alice,
		AnchorID:    &anchor,
		Direction:   domain.FetchNewer,
		Limit:       10,
	})
	require.NoError(t, err)
	assert.Empty(t, flatten(page.Messages))
}

func TestFetchMessagesAnchorWindow(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(20, day("2026-01-01T00:00:00Z"))

	anchor := int64(10)
	page, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:   f.room.ID,
		RequesterID:  f.alice,
		AnchorID:     &anchor,
		SearchAnchor: true,
		Limit:        10,
	})

	require.NoError(t, err)

	// The window straddles the anchor: 5 at or below it, 5 above it
	assert.Equal(t, []int64{6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, flatten(page.Messages))

	// No date appears twice even though both halves touch the same days
	seen := make(map[string]bool)
	for _, g := range page.Messages {
		assert.False(t, seen[g.Date], "duplicate date %s", g.Date)
		seen[g.Date] = true
	}
}

func TestFetchMessagesAnchorWindowAtHistoryStart(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(5, day("2026-01-01T00:00:00Z"))

	anchor := int64(1)
	page, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:   f.room.ID,
		RequesterID:  f.alice,
		AnchorID:     &anchor,
		SearchAnchor: true,
		Limit:        10,
	})

	require.NoError(t, err)
	// Anchor itself is always present
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, flatten(page.Messages))
}

func TestFetchMessagesAnchorWindowOfOne(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(5, day("2026-01-01T00:00:00Z"))

	anchor := int64(3)
	page, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:   f.room.ID,
		RequesterID:  f.alice,
		AnchorID:     &anchor,
		SearchAnchor: true,
		Limit:        1,
	})

	require.NoError(t, err)
	// A window of one is just the anchor, never the anchor plus a neighbour
	assert.Equal(t, []int64{3}, flatten(page.Messages))
}

func TestFetchMessagesRejectsNonParticipant(t *testing.T) {
	f := newMessageServiceFixture(t)

	_, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:  f.room.ID,
		RequesterID: uuid.New(),
		Limit:       10,
	})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFetchMessagesRejectsUnknownDirection(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(3, day("2026-01-01T00:00:00Z"))

	anchor := int64(2)
	_, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:  f.room.ID,
		RequesterID: f.alice,
		AnchorID:    &anchor,
		Direction:   "sideways",
		Limit:       10,
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFetchMessagesMarksIncomingRead(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(4, day("2026-01-01T00:00:00Z"))

	_, err := f.svc.FetchMessages(context.Background(), domain.FetchMessagesParams{
		ChatRoomID:  f.room.ID,
		RequesterID: f.alice,
		Limit:       10,
	})
	require.NoError(t, err)

	// Everything bob sent is now read; alice's own messages are untouched
	for _, m := range f.messages.messages {
		if m.SenderID == f.bob {
			assert.True(t, m.IsRead)
		} else {
			assert.False(t, m.IsRead)
		}
	}

	// A second fetch finds nothing left to mark
	count, err := f.svc.MarkMessagesRead(context.Background(), f.room.ID, f.alice)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSendMessageReplacesLonePlaceholder(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.messages.seed(f.room.ID, f.alice, "", time.Now())

	msg, err := f.svc.SendMessage(context.Background(), domain.CreateMessageParams{
		ChatRoomID: f.room.ID,
		SenderID:   f.alice,
		Content:    "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.MessageTypeText, msg.Type)

	// The placeholder is gone and the room points at the real message
	remaining, err := f.messages.GetLatestMessages(context.Background(), f.room.ID, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "hello", remaining[0].Content)

	room, err := f.rooms.GetRoomByID(context.Background(), f.room.ID)
	require.NoError(t, err)
	require.NotNil(t, room.LastMessageID)
	assert.Equal(t, msg.ID, *room.LastMessageID)
}

func TestSendMessageKeepsEstablishedHistory(t *testing.T) {
	f := newMessageServiceFixture(t)
	f.seedHistory(2, day("2026-01-01T00:00:00Z"))

	_, err := f.svc.SendMessage(context.Background(), domain.CreateMessageParams{
		ChatRoomID: f.room.ID,
		SenderID:   f.bob,
		Content:    "third",
	})
	require.NoError(t, err)

	remaining, err := f.messages.GetLatestMessages(context.Background(), f.room.ID, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
}

func TestSendMessageValidation(t *testing.T) {
	f := newMessageServiceFixture(t)

	_, err := f.svc.SendMessage(context.Background(), domain.CreateMessageParams{
		ChatRoomID: f.room.ID,
		SenderID:   f.alice,
		Content:    "",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.SendMessage(context.Background(), domain.CreateMessageParams{
		ChatRoomID: f.room.ID,
		SenderID:   f.alice,
		Content:    "hi",
		Type:       "sticker",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.SendMessage(context.Background(), domain.CreateMessageParams{
		ChatRoomID: f.room.ID,
		SenderID:   uuid.New(),
		Content:    "hi",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSendMessagePushesToRoomChannel(t *testing.T) {
	f := newMessageServiceFixture(t)

	_, err := f.svc.SendMessage(context.Background(), domain.CreateMessageParams{
		ChatRoomID: f.room.ID,
		SenderID:   f.alice,
		Content:    "hello",
	})
	require.NoError(t, err)

	// The push runs off the request goroutine
	assert.Eventually(t, func() bool { return f.notifier.count() == 1 }, time.Second, 10*time.Millisecond)
	pushed := f.notifier.last()
	assert.Equal(t, domain.ChatRoomChannel(f.room.ID.String()), pushed.Channel)
	assert.Equal(t, domain.EventNewMessage, pushed.Event)
}
