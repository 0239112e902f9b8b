package users

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/logging"
	"github.com/reelmates/backend/internal/models"
)

// UserStore captures persistence for user accounts.
type UserStore interface {
	Insert(ctx context.Context, user models.User) (int64, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (models.User, error)
	All(ctx context.Context) ([]models.User, error)
	ByIDs(ctx context.Context, userIDs []int64) ([]models.User, error)
}

// EdgeStore captures persistence for friend edges. Mutate must load the
// pair's current edge under a lock that serializes concurrent mutations of
// the same pair, apply fn's mutation and commit atomically.
type EdgeStore interface {
	Mutate(ctx context.Context, a, b int64, fn func(current *models.FriendEdge) models.EdgeMutation) (models.EdgeMutation, error)
	// FriendIDs returns every user the given user considers a friend: the
	// targets of edges they own (any status) plus the owners of confirmed
	// edges targeting them.
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
}

// FeedStore appends and reads activity events.
type FeedStore interface {
	Append(ctx context.Context, event models.FeedEvent) error
	ForUser(ctx context.Context, userID int64) ([]models.FeedEvent, error)
}

// Service implements user accounts and the friend graph on top of the
// stores.
type Service struct {
	users   UserStore
	edges   EdgeStore
	feed    FeedStore
	nowFunc func() time.Time
}

// NewService constructs a user service. nowFunc may be nil.
func NewService(users UserStore, edges EdgeStore, feed FeedStore, nowFunc func() time.Time) *Service {
	if nowFunc == nil {
		nowFunc = func() time.Time { return time.Now().UTC() }
	}
	return &Service{users: users, edges: edges, feed: feed, nowFunc: nowFunc}
}

// AddUser persists a new user. A blank display name defaults to the login.
func (s *Service) AddUser(ctx context.Context, user models.User) (models.User, error) {
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return user, nil
}

// UpdateUser rewrites an existing user record.
func (s *Service) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID <= 0 {
		return models.User{}, domain.BadParameter("id", user.ID)
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.User{}, domain.NotFound(domain.KindUser, user.ID)
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// User fetches a single user by id.
func (s *Service) User(ctx context.Context, userID int64) (models.User, error) {
	if userID <= 0 {
		return models.User{}, domain.BadParameter("id", userID)
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.User{}, domain.NotFound(domain.KindUser, userID)
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Users lists every user sorted by id ascending.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	all, err := s.users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// DeleteUser removes a user and their dependent rows.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return domain.BadParameter("id", userID)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.KindUser, userID)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// AddFriend records that userID wants friendID as a friend. A first request
// creates a pending edge; a reciprocal request confirms the existing one;
// anything else is a no-op. A feed event is emitted only when the pair's
// state changed.
func (s *Service) AddFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkPair(ctx, userID, friendID); err != nil {
		return err
	}

	mutation, err := s.edges.Mutate(ctx, userID, friendID, func(current *models.FriendEdge) models.EdgeMutation {
		return resolveAdd(current, userID, friendID)
	})
	if err != nil {
		return fmt.Errorf("add friend: %w", err)
	}

	if mutation.Changed {
		s.emitFeed(ctx, userID, models.OperationAdd, friendID)
	}
	return nil
}

// DeleteFriend removes the edge between the pair, if any. A confirmed
// friendship downgrades to a pending request owned by the side that did not
// initiate the removal.
func (s *Service) DeleteFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkPair(ctx, userID, friendID); err != nil {
		return err
	}

	mutation, err := s.edges.Mutate(ctx, userID, friendID, func(current *models.FriendEdge) models.EdgeMutation {
		return resolveRemove(current, userID, friendID)
	})
	if err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}

	if mutation.Changed {
		s.emitFeed(ctx, userID, models.OperationRemove, friendID)
	}
	return nil
}

// Friends lists the user's friends: outbound requests in any status plus
// confirmed inbound ones, sorted by id ascending.
func (s *Service) Friends(ctx context.Context, userID int64) ([]models.User, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.edges.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load friend ids: %w", err)
	}
	return s.resolveUsers(ctx, ids)
}

// CommonFriends returns the intersection of both users' friend lists.
func (s *Service) CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	if err := s.checkPair(ctx, userID, otherID); err != nil {
		return nil, err
	}

	mine, err := s.edges.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load friend ids of user %d: %w", userID, err)
	}
	theirs, err := s.edges.FriendIDs(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("load friend ids of user %d: %w", otherID, err)
	}

	inMine := make(map[int64]struct{}, len(mine))
	for _, id := range mine {
		inMine[id] = struct{}{}
	}
	var common []int64
	for _, id := range theirs {
		if _, ok := inMine[id]; ok {
			common = append(common, id)
		}
	}
	return s.resolveUsers(ctx, common)
}

// Feed returns the user's activity feed. Lookup failures degrade to an empty
// feed; events are best-effort, never worth failing a read for.
func (s *Service) Feed(ctx context.Context, userID int64) ([]models.FeedEvent, error) {
	if _, err := s.User(ctx, userID); err != nil {
		return nil, err
	}

	events, err := s.feed.ForUser(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Warn("load feed", "userId", userID, "error", err)
		return nil, nil
	}
	return events, nil
}

func (s *Service) checkPair(ctx context.Context, userID, otherID int64) error {
	if userID <= 0 {
		return domain.BadParameter("userId", userID)
	}
	if otherID <= 0 {
		return domain.BadParameter("friendId", otherID)
	}
	if userID == otherID {
		return domain.Validation("user with id=%d cannot befriend themselves", userID)
	}

	if _, err := s.User(ctx, userID); err != nil {
		return err
	}
	if _, err := s.User(ctx, otherID); err != nil {
		return err
	}
	return nil
}

func (s *Service) resolveUsers(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resolved, err := s.users.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	sort.Slice(resolved, func(i, j int) bool { return resolved[i].ID < resolved[j].ID })
	return resolved, nil
}

func (s *Service) emitFeed(ctx context.Context, userID int64, operation string, entityID int64) {
	if s.feed == nil {
		return
	}
	event := models.FeedEvent{
		UserID:    userID,
		EventType: models.EventFriend,
		Operation: operation,
		EntityID:  entityID,
		Timestamp: s.nowFunc(),
	}
	if err := s.feed.Append(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("append feed event", "userId", userID, "eventType", models.EventFriend, "error", err)
	}
}
