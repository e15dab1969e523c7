package domain_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

// In-memory fakes for the repository interfaces. They mirror the store
// semantics the services rely on: monotonic message ids, canonical room
// pairs with uniqueness, idempotent read marking.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) seed(u *domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, email string) (*domain.User, error) {
	return f.seed(&domain.User{Email: email, OnlineStatus: domain.OnlineStatusOffline}), nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetActiveUsers(ctx context.Context, excludeUserID uuid.UUID) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.User
	for _, u := range f.users {
		if u.IsActive && u.ID != excludeUserID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ActivateUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = true
	return u, nil
}

func (f *fakeUserRepo) UpdateUserName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name = &name
	return u, nil
}

func (f *fakeUserRepo) UpdateUserProfilePicture(ctx context.Context, id uuid.UUID, pictureURL string) (*domain.User, error) {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.ProfilePicture = &pictureURL
	return u, nil
}

func (f *fakeUserRepo) UpdateUserUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Username = &username
	return u, nil
}

func (f *fakeUserRepo) UpdateUserOnlineStatus(ctx context.Context, id uuid.UUID, status domain.OnlineStatus) error {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	u.OnlineStatus = status
	return nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

type fakeChatRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*domain.ChatRoom

	// createErr, when set, is returned by the next CreateRoom call, and
	// missNextLookup makes the next GetRoomByParticipants miss. Together
	// they simulate losing the creation race: the lookup misses, the insert
	// collides, the re-fetch finds the winner's room.
	createErr      error
	missNextLookup bool
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{rooms: make(map[uuid.UUID]*domain.ChatRoom)}
}

func (f *fakeChatRepo) seed(a, b uuid.UUID) *domain.ChatRoom {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, b = domain.CanonicalPair(a, b)
	room := &domain.ChatRoom{ID: uuid.New(), ParticipantA: a, ParticipantB: b, CreatedAt: time.Now()}
	f.rooms[room.ID] = room
	return room
}

func (f *fakeChatRepo) CreateRoom(ctx context.Context, a, b uuid.UUID) (*domain.ChatRoom, error) {
	f.mu.Lock()
	if err := f.createErr; err != nil {
		f.createErr = nil
		f.mu.Unlock()
		return nil, err
	}
	for _, room := range f.rooms {
		if room.ParticipantA == a && room.ParticipantB == b {
			f.mu.Unlock()
			return nil, domain.ErrChatRoomExists
		}
	}
	f.mu.Unlock()
	return f.seed(a, b), nil
}

func (f *fakeChatRepo) GetRoomByID(ctx context.Context, roomID uuid.UUID) (*domain.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok := f.rooms[roomID]; ok {
		return room, nil
	}
	return nil, domain.ErrChatRoomNotFound
}

func (f *fakeChatRepo) GetRoomByParticipants(ctx context.Context, a, b uuid.UUID) (*domain.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missNextLookup {
		f.missNextLookup = false
		return nil, domain.ErrChatRoomNotFound
	}
	for _, room := range f.rooms {
		if room.ParticipantA == a && room.ParticipantB == b {
			return room, nil
		}
	}
	return nil, domain.ErrChatRoomNotFound
}

func (f *fakeChatRepo) SetLastMessage(ctx context.Context, roomID uuid.UUID, messageID int64) error {
	room, err := f.GetRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	room.LastMessageID = &messageID
	return nil
}

func (f *fakeChatRepo) GetRoomView(ctx context.Context, roomID, viewerID uuid.UUID) (*domain.ChatRoomView, error) {
	room, err := f.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &domain.ChatRoomView{ID: room.ID, CreatedAt: room.CreatedAt}, nil
}

func (f *fakeChatRepo) ListRoomViews(ctx context.Context, viewerID uuid.UUID, search string, limit, offset int) ([]*domain.ChatRoomView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var views []*domain.ChatRoomView
	for _, room := range f.rooms {
		if room.HasParticipant(viewerID) {
			views = append(views, &domain.ChatRoomView{ID: room.ID, CreatedAt: room.CreatedAt})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID.String() < views[j].ID.String() })
	if offset >= len(views) {
		return nil, nil
	}
	views = views[offset:]
	if len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

func (f *fakeChatRepo) CountRooms(ctx context.Context, viewerID uuid.UUID, search string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, room := range f.rooms {
		if room.HasParticipant(viewerID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeChatRepo) ChatPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, room := range f.rooms {
		if !room.HasParticipant(userID) {
			continue
		}
		other := room.ParticipantA
		if other == userID {
			other = room.ParticipantB
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	nextID   int64
	messages []*domain.MessageView
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

// seed appends a message with the next id and the given creation time,
// keeping the slice ascending by id.
func (f *fakeMessageRepo) seed(roomID, senderID uuid.UUID, content string, createdAt time.Time) *domain.MessageView {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	view := &domain.MessageView{
		Message: domain.Message{
			ID:         f.nextID,
			ChatRoomID: roomID,
			SenderID:   senderID,
			Content:    content,
			Type:       domain.MessageTypeText,
			CreatedAt:  createdAt,
		},
	}
	f.messages = append(f.messages, view)
	return view
}

func (f *fakeMessageRepo) CreateMessage(ctx context.Context, params domain.CreateMessageParams) (*domain.Message, error) {
	view := f.seed(params.ChatRoomID, params.SenderID, params.Content, time.Now())
	view.Type = params.Type
	return &view.Message, nil
}

func (f *fakeMessageRepo) roomMessages(roomID uuid.UUID) []*domain.MessageView {
	var out []*domain.MessageView
	for _, m := range f.messages {
		if m.ChatRoomID == roomID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessageRepo) GetLatestMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]*domain.MessageView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.roomMessages(roomID)
	var out []*domain.MessageView
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	return out, nil
}

func (f *fakeMessageRepo) GetMessagesBefore(ctx context.Context, roomID uuid.UUID, cursor int64, limit int, inclusive bool) ([]*domain.MessageView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.roomMessages(roomID)
	var out []*domain.MessageView
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if msgs[i].ID < cursor || (inclusive && msgs[i].ID == cursor) {
			out = append(out, msgs[i])
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) GetMessagesAfter(ctx context.Context, roomID uuid.UUID, cursor int64, limit int) ([]*domain.MessageView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.MessageView
	for _, m := range f.roomMessages(roomID) {
		if m.ID > cursor {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) DeleteLonePlaceholder(ctx context.Context, roomID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.roomMessages(roomID)
	if len(msgs) != 1 || msgs[0].Content != "" {
		return false, nil
	}
	for i, m := range f.messages {
		if m == msgs[0] {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			break
		}
	}
	return true, nil
}

func (f *fakeMessageRepo) MarkMessagesRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, m := range f.roomMessages(roomID) {
		if m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageRepo) SearchMessages(ctx context.Context, userID uuid.UUID, term string, limit int) ([]*domain.MessageView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.MessageView
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := f.messages[i]
		if m.Content != "" && strings.Contains(strings.ToLower(m.Content), strings.ToLower(term)) {
			out = append(out, m)
		}
	}
	return out, nil
}

type pushedEvent struct {
	Channel string
	Event   string
}

type fakeNotifier struct {
	mu     sync.Mutex
	pushed []pushedEvent
}

func (f *fakeNotifier) Push(ctx context.Context, channel, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, pushedEvent{Channel: channel, Event: event})
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushed)
}

func (f *fakeNotifier) last() pushedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushed[len(f.pushed)-1]
}
