package services

import (
	"context"
	"testing"

	"highfive_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(store *memStore) *UserService {
	svc := NewUserService(store)
	svc.Now = clockAt(1_000_000)
	nextID := 0
	svc.NewID = func() string {
		nextID++
		return map[int]string{1: "u1", 2: "u2", 3: "u3"}[nextID]
	}
	return svc
}

func TestLoginCreatesUserOnFirstSight(t *testing.T) {
	store := newMemStore()
	svc := newTestUserService(store)

	user, err := svc.Login(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(1_000_000), user.LastHeartbeat)
}

func TestLoginFindsExistingUser(t *testing.T) {
	store := newMemStore()
	svc := newTestUserService(store)

	first, err := svc.Login(context.Background(), "alice")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.users, 1)
}

func TestLoginUsernamesAreCaseSensitive(t *testing.T) {
	store := newMemStore()
	svc := newTestUserService(store)

	lower, err := svc.Login(context.Background(), "alice")
	require.NoError(t, err)
	upper, err := svc.Login(context.Background(), "Alice")
	require.NoError(t, err)

	assert.NotEqual(t, lower.ID, upper.ID)
}

func TestHeartbeatDrivesPresence(t *testing.T) {
	store := newMemStore()
	svc := newTestUserService(store)

	user, err := svc.Login(context.Background(), "alice")
	require.NoError(t, err)
	require.NoError(t, svc.Heartbeat(context.Background(), user.ID))

	svc.Now = clockAt(1_000_000 + 4_999)
	presence, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, presence.Online)

	// the threshold itself is offline: strict less-than
	svc.Now = clockAt(1_000_000 + 5_000)
	presence, err = svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, presence.Online)
}

func TestHeartbeatUnknownUser(t *testing.T) {
	svc := newTestUserService(newMemStore())
	assert.ErrorIs(t, svc.Heartbeat(context.Background(), "ghost"), ErrNotFound)
}

func TestAddFriendIsSymmetric(t *testing.T) {
	store := newMemStore()
	svc := newTestUserService(store)
	ctx := context.Background()

	alice, err := svc.Login(ctx, "alice")
	require.NoError(t, err)
	bob, err := svc.Login(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, svc.AddFriend(ctx, alice.ID, bob.ID))

	assert.Equal(t, []string{bob.ID}, store.users[alice.ID].FriendIDs)
	assert.Equal(t, []string{alice.ID}, store.users[bob.ID].FriendIDs)

	// adding again must not duplicate
	require.NoError(t, svc.AddFriend(ctx, bob.ID, alice.ID))
	assert.Len(t, store.users[alice.ID].FriendIDs, 1)
	assert.Len(t, store.users[bob.ID].FriendIDs, 1)
}

func TestRemoveFriendIsSymmetric(t *testing.T) {
	store := newMemStore()
	svc := newTestUserService(store)
	ctx := context.Background()

	alice, err := svc.Login(ctx, "alice")
	require.NoError(t, err)
	bob, err := svc.Login(ctx, "bob")
	require.NoError(t, err)
	require.NoError(t, svc.AddFriend(ctx, alice.ID, bob.ID))

	require.NoError(t, svc.RemoveFriend(ctx, alice.ID, bob.ID))
	assert.Empty(t, store.users[alice.ID].FriendIDs)
	assert.Empty(t, store.users[bob.ID].FriendIDs)
}

func TestFriendsSkipsDanglingIDs(t *testing.T) {
	store := newMemStore()
	svc := newTestUserService(store)
	ctx := context.Background()

	require.NoError(t, store.PutUser(ctx, &models.User{
		ID:        "alice",
		Username:  "alice",
		FriendIDs: []string{"bob", "gone"},
	}))
	require.NoError(t, store.PutUser(ctx, &models.User{ID: "bob", Username: "bob"}))

	friends, err := svc.Friends(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].ID)
}
