package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"highfive_server/models"
	"highfive_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UsernameIndex is the GSI on Users keyed by username.
const UsernameIndex = "UsernameIndex"

// DynamoStore implements UserStore, SessionStore, HighFiveStore and
// NotificationStore on top of the generic DynamoService wrapper.
type DynamoStore struct {
	Dynamo *DynamoService
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// --- UserStore ---

func (s *DynamoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	item, err := s.Dynamo.GetItem(ctx, models.UsersTable, idKey(id))
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user '%s': %w", id, err)
	}
	return &user, nil
}

func (s *DynamoStore) PutUser(ctx context.Context, user *models.User) error {
	return s.Dynamo.PutItem(ctx, models.UsersTable, user)
}

func (s *DynamoStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(
		ctx,
		models.UsersTable,
		UsernameIndex,
		"username = :username",
		map[string]types.AttributeValue{
			":username": &types.AttributeValueMemberS{Value: username},
		},
		nil,
		1,
	)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user '%s': %w", username, err)
	}
	return &user, nil
}

func (s *DynamoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.Dynamo.ScanWithFilter(ctx, models.UsersTable, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *DynamoStore) UpdateHeartbeat(ctx context.Context, id string, ts int64) error {
	_, err := s.Dynamo.UpdateItem(
		ctx,
		models.UsersTable,
		idKey(id),
		"SET lastHeartbeat = :ts",
		"attribute_exists(id)",
		map[string]types.AttributeValue{
			":ts": &types.AttributeValueMemberN{Value: strconv.FormatInt(ts, 10)},
		},
		nil,
	)
	if errors.Is(err, ErrConditionFailed) {
		return ErrNotFound
	}
	return err
}

func (s *DynamoStore) SetFriends(ctx context.Context, id string, friendIDs []string) error {
	friends, err := attributevalue.Marshal(friendIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal friend ids: %w", err)
	}
	_, err = s.Dynamo.UpdateItem(
		ctx,
		models.UsersTable,
		idKey(id),
		"SET friendIds = :friendIds",
		"attribute_exists(id)",
		map[string]types.AttributeValue{":friendIds": friends},
		nil,
	)
	if errors.Is(err, ErrConditionFailed) {
		return ErrNotFound
	}
	return err
}

// --- SessionStore ---

func (s *DynamoStore) GetSession(ctx context.Context, id string) (*models.HighFiveSession, error) {
	item, err := s.Dynamo.GetItem(ctx, models.SessionsTable, idKey(id))
	if err != nil {
		return nil, err
	}
	var session models.HighFiveSession
	if err := attributevalue.UnmarshalMap(item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session '%s': %w", id, err)
	}
	return &session, nil
}

func (s *DynamoStore) PutSession(ctx context.Context, session *models.HighFiveSession) error {
	return s.Dynamo.PutItem(ctx, models.SessionsTable, session)
}

func (s *DynamoStore) SetReadySlot(ctx context.Context, sessionID string, slot ReadySlot, ready bool, updatedAt int64) (*models.HighFiveSession, error) {
	readyAttr := "readyA"
	if slot == SlotB {
		readyAttr = "readyB"
	}
	attrs, err := s.Dynamo.UpdateItem(
		ctx,
		models.SessionsTable,
		idKey(sessionID),
		"SET #ready = :ready, lastUpdated = :ts",
		"attribute_exists(id)",
		map[string]types.AttributeValue{
			":ready": &types.AttributeValueMemberBOOL{Value: ready},
			":ts":    &types.AttributeValueMemberN{Value: strconv.FormatInt(updatedAt, 10)},
		},
		map[string]string{"#ready": readyAttr},
	)
	if errors.Is(err, ErrConditionFailed) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var session models.HighFiveSession
	if err := attributevalue.UnmarshalMap(attrs, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session '%s': %w", sessionID, err)
	}
	return &session, nil
}

func (s *DynamoStore) SessionsUpdatedSince(ctx context.Context, since int64) ([]models.HighFiveSession, error) {
	var sessions []models.HighFiveSession
	err := s.Dynamo.ScanWithFilter(ctx, models.SessionsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractNumber(item, "lastUpdated") >= since
	}, &sessions)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *DynamoStore) SessionsUpdatedBefore(ctx context.Context, before int64) ([]models.HighFiveSession, error) {
	var sessions []models.HighFiveSession
	err := s.Dynamo.ScanWithFilter(ctx, models.SessionsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractNumber(item, "lastUpdated") < before
	}, &sessions)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *DynamoStore) DeleteSession(ctx context.Context, id string) error {
	return s.Dynamo.DeleteItem(ctx, models.SessionsTable, idKey(id))
}

// --- HighFiveStore ---

func (s *DynamoStore) GetHighFive(ctx context.Context, id string) (*models.HighFive, error) {
	item, err := s.Dynamo.GetItem(ctx, models.HighFivesTable, idKey(id))
	if err != nil {
		return nil, err
	}
	return unmarshalHighFive(item, id)
}

func (s *DynamoStore) PutHighFive(ctx context.Context, highFive *models.HighFive) error {
	return s.Dynamo.PutItem(ctx, models.HighFivesTable, highFive)
}

func (s *DynamoStore) MarkMatched(ctx context.Context, id string, receiverTimestamp int64) (*models.HighFive, error) {
	attrs, err := s.Dynamo.UpdateItem(
		ctx,
		models.HighFivesTable,
		idKey(id),
		"SET #status = :matched, receiverTimestamp = :ts",
		"#status = :pending",
		map[string]types.AttributeValue{
			":matched": &types.AttributeValueMemberS{Value: models.StatusMatched},
			":pending": &types.AttributeValueMemberS{Value: models.StatusPending},
			":ts":      &types.AttributeValueMemberN{Value: strconv.FormatInt(receiverTimestamp, 10)},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return nil, err
	}
	return unmarshalHighFive(attrs, id)
}

func (s *DynamoStore) MarkCompleted(ctx context.Context, id string, quality float64) (*models.HighFive, error) {
	attrs, err := s.Dynamo.UpdateItem(
		ctx,
		models.HighFivesTable,
		idKey(id),
		"SET #status = :completed, quality = :quality",
		"#status = :matched",
		map[string]types.AttributeValue{
			":completed": &types.AttributeValueMemberS{Value: models.StatusCompleted},
			":matched":   &types.AttributeValueMemberS{Value: models.StatusMatched},
			":quality":   &types.AttributeValueMemberN{Value: strconv.FormatFloat(quality, 'f', -1, 64)},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return nil, err
	}
	return unmarshalHighFive(attrs, id)
}

func (s *DynamoStore) MarkExpired(ctx context.Context, id string, from string, reason string) (*models.HighFive, error) {
	attrs, err := s.Dynamo.UpdateItem(
		ctx,
		models.HighFivesTable,
		idKey(id),
		"SET #status = :expired, #reason = :reason",
		"#status = :from",
		map[string]types.AttributeValue{
			":expired": &types.AttributeValueMemberS{Value: models.StatusExpired},
			":from":    &types.AttributeValueMemberS{Value: from},
			":reason":  &types.AttributeValueMemberS{Value: reason},
		},
		map[string]string{"#status": "status", "#reason": "reason"},
	)
	if err != nil {
		return nil, err
	}
	return unmarshalHighFive(attrs, id)
}

func unmarshalHighFive(item map[string]types.AttributeValue, id string) (*models.HighFive, error) {
	var highFive models.HighFive
	if err := attributevalue.UnmarshalMap(item, &highFive); err != nil {
		return nil, fmt.Errorf("failed to unmarshal high five '%s': %w", id, err)
	}
	return &highFive, nil
}

// --- NotificationStore ---

func (s *DynamoStore) PutNotification(ctx context.Context, notification *models.Notification) error {
	return s.Dynamo.PutItem(ctx, models.NotificationsTable, notification)
}
