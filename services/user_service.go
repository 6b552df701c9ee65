package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"highfive_server/models"

	"github.com/google/uuid"
)

// UserService owns the identity/heartbeat layer: login-or-create by display
// name, liveness heartbeats and the symmetric friend relation.
type UserService struct {
	Store UserStore
	Now   func() time.Time
	NewID func() string
}

func NewUserService(store UserStore) *UserService {
	return &UserService{Store: store, Now: time.Now, NewID: uuid.NewString}
}

// UserPresence is a user document with the derived online flag attached.
type UserPresence struct {
	models.User
	Online bool `json:"isOnline"`
}

// Login finds the user with the given display name (case-sensitive, as
// stored) or creates one with a generated id. No credential verification
// beyond the chosen name.
func (us *UserService) Login(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	existing, err := us.Store.FindUserByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up username '%s': %w", username, err)
	}

	user := &models.User{
		ID:            us.NewID(),
		Username:      username,
		LastHeartbeat: us.Now().UnixMilli(),
	}
	if err := us.Store.PutUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Heartbeat bumps the user's liveness timestamp. Clients call this on a ~1s
// cadence; IsOnline derives from it.
func (us *UserService) Heartbeat(ctx context.Context, userID string) error {
	return us.Store.UpdateHeartbeat(ctx, userID, us.Now().UnixMilli())
}

// GetUser returns one user with presence.
func (us *UserService) GetUser(ctx context.Context, userID string) (*UserPresence, error) {
	user, err := us.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserPresence{User: *user, Online: user.IsOnline(us.Now())}, nil
}

// ListUsers returns every user with presence.
func (us *UserService) ListUsers(ctx context.Context) ([]UserPresence, error) {
	users, err := us.Store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	now := us.Now()
	out := make([]UserPresence, 0, len(users))
	for _, u := range users {
		out = append(out, UserPresence{User: u, Online: u.IsOnline(now)})
	}
	return out, nil
}

// AddFriend records the friendship on both sides. The relation is symmetric:
// a one-sided entry is a bug, so both documents are written.
func (us *UserService) AddFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return errors.New("cannot befriend yourself")
	}
	user, err := us.Store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	friend, err := us.Store.GetUser(ctx, friendID)
	if err != nil {
		return err
	}

	if err := us.Store.SetFriends(ctx, userID, appendUnique(user.FriendIDs, friendID)); err != nil {
		return fmt.Errorf("failed to update friend list for '%s': %w", userID, err)
	}
	if err := us.Store.SetFriends(ctx, friendID, appendUnique(friend.FriendIDs, userID)); err != nil {
		return fmt.Errorf("failed to update friend list for '%s': %w", friendID, err)
	}
	return nil
}

// RemoveFriend removes the friendship from both sides.
func (us *UserService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	user, err := us.Store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	friend, err := us.Store.GetUser(ctx, friendID)
	if err != nil {
		return err
	}

	if err := us.Store.SetFriends(ctx, userID, removeID(user.FriendIDs, friendID)); err != nil {
		return fmt.Errorf("failed to update friend list for '%s': %w", userID, err)
	}
	if err := us.Store.SetFriends(ctx, friendID, removeID(friend.FriendIDs, userID)); err != nil {
		return fmt.Errorf("failed to update friend list for '%s': %w", friendID, err)
	}
	return nil
}

// Friends returns the user's friends with presence, skipping dangling ids.
func (us *UserService) Friends(ctx context.Context, userID string) ([]UserPresence, error) {
	user, err := us.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := us.Now()
	friends := make([]UserPresence, 0, len(user.FriendIDs))
	for _, id := range user.FriendIDs {
		friend, err := us.Store.GetUser(ctx, id)
		if err != nil {
			continue
		}
		friends = append(friends, UserPresence{User: *friend, Online: friend.IsOnline(now)})
	}
	return friends, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
