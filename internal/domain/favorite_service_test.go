package domain_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AhsanHasan/Chatteree-BE/internal/domain"
)

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[uuid.UUID]map[uuid.UUID]*domain.FavoriteChatRoom
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[uuid.UUID]map[uuid.UUID]*domain.FavoriteChatRoom)}
}

func (f *fakeFavoriteRepo) GetFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) (*domain.FavoriteChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.favorites[userID][chatRoomID], nil
}

func (f *fakeFavoriteRepo) CreateFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) (*domain.FavoriteChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.favorites[userID] == nil {
		f.favorites[userID] = make(map[uuid.UUID]*domain.FavoriteChatRoom)
	}
	fav := &domain.FavoriteChatRoom{ID: uuid.New(), UserID: userID, ChatRoomID: chatRoomID, CreatedAt: time.Now()}
	f.favorites[userID][chatRoomID] = fav
	return fav, nil
}

func (f *fakeFavoriteRepo) DeleteFavorite(ctx context.Context, userID, chatRoomID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favorites[userID], chatRoomID)
	return nil
}

func (f *fakeFavoriteRepo) ListFavoriteRoomViews(ctx context.Context, userID uuid.UUID) ([]*domain.ChatRoomView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var views []*domain.ChatRoomView
	for roomID := range f.favorites[userID] {
		views = append(views, &domain.ChatRoomView{ID: roomID, IsFavorite: true})
	}
	return views, nil
}

func TestFavoriteToggle(t *testing.T) {
	rooms := newFakeChatRepo()
	favorites := newFakeFavoriteRepo()
	svc := domain.NewFavoriteService(favorites, rooms)

	alice := uuid.New()
	bob := uuid.New()
	room := rooms.seed(alice, bob)

	// First toggle favorites the room
	fav, err := svc.Toggle(context.Background(), alice, room.ID)
	require.NoError(t, err)
	require.NotNil(t, fav)
	assert.Equal(t, room.ID, fav.ChatRoomID)

	listed, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// Second toggle removes it
	fav, err = svc.Toggle(context.Background(), alice, room.ID)
	require.NoError(t, err)
	assert.Nil(t, fav)

	listed, err = svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestFavoriteToggleRequiresParticipant(t *testing.T) {
	rooms := newFakeChatRepo()
	svc := domain.NewFavoriteService(newFakeFavoriteRepo(), rooms)

	room := rooms.seed(uuid.New(), uuid.New())

	_, err := svc.Toggle(context.Background(), uuid.New(), room.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFavoriteToggleUnknownRoom(t *testing.T) {
	svc := domain.NewFavoriteService(newFakeFavoriteRepo(), newFakeChatRepo())

	_, err := svc.Toggle(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrChatRoomNotFound)
}
