package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reelmates/backend/internal/domain"
	"github.com/reelmates/backend/internal/models"
)

// inMemoryEdgeStore keeps one edge per unordered pair, mirroring the
// database constraint.
type inMemoryEdgeStore struct {
	edges map[[2]int64]models.FriendEdge
}

func newInMemoryEdgeStore() *inMemoryEdgeStore {
	return &inMemoryEdgeStore{edges: make(map[[2]int64]models.FriendEdge)}
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

func (s *inMemoryEdgeStore) Mutate(_ context.Context, a, b int64, fn func(*models.FriendEdge) models.EdgeMutation) (models.EdgeMutation, error) {
	key := pairKey(a, b)

	var current *models.FriendEdge
	if edge, ok := s.edges[key]; ok {
		copied := edge
		current = &copied
	}

	mutation := fn(current)
	if mutation.DeletePair {
		delete(s.edges, key)
	}
	if mutation.Confirm != nil {
		s.edges[key] = *mutation.Confirm
	}
	if mutation.Insert != nil {
		s.edges[key] = *mutation.Insert
	}
	return mutation, nil
}

func (s *inMemoryEdgeStore) FriendIDs(_ context.Context, userID int64) ([]int64, error) {
	var out []int64
	for _, edge := range s.edges {
		switch {
		case edge.OwnerID == userID:
			out = append(out, edge.TargetID)
		case edge.TargetID == userID && edge.Confirmed:
			out = append(out, edge.OwnerID)
		}
	}
	return out, nil
}

type inMemoryUserStore struct {
	nextID int64
	users  map[int64]models.User
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{nextID: 1, users: make(map[int64]models.User)}
}

func (s *inMemoryUserStore) Insert(_ context.Context, user models.User) (int64, error) {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *inMemoryUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *inMemoryUserStore) Delete(_ context.Context, userID int64) error {
	if _, ok := s.users[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, userID)
	return nil
}

func (s *inMemoryUserStore) Get(_ context.Context, userID int64) (models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return models.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (s *inMemoryUserStore) All(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *inMemoryUserStore) ByIDs(_ context.Context, userIDs []int64) ([]models.User, error) {
	var out []models.User
	for _, id := range userIDs {
		if user, ok := s.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

type recordingFeedStore struct {
	events  []models.FeedEvent
	readErr error
}

func (s *recordingFeedStore) Append(_ context.Context, event models.FeedEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *recordingFeedStore) ForUser(_ context.Context, userID int64) ([]models.FeedEvent, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	var out []models.FeedEvent
	for _, event := range s.events {
		if event.UserID == userID {
			out = append(out, event)
		}
	}
	return out, nil
}

type userFixture struct {
	store   *inMemoryUserStore
	edges   *inMemoryEdgeStore
	feed    *recordingFeedStore
	service *Service
}

func newUserFixture(t *testing.T, logins ...string) *userFixture {
	t.Helper()
	f := &userFixture{
		store: newInMemoryUserStore(),
		edges: newInMemoryEdgeStore(),
		feed:  &recordingFeedStore{},
	}
	now := func() time.Time { return time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC) }
	f.service = NewService(f.store, f.edges, f.feed, now)

	for _, login := range logins {
		user := models.User{Email: login + "@example.com", Login: login}
		if _, err := f.service.AddUser(context.Background(), user); err != nil {
			t.Fatalf("add user %s: %v", login, err)
		}
	}
	return f
}

func friendIDList(t *testing.T, f *userFixture, userID int64) []int64 {
	t.Helper()
	friends, err := f.service.Friends(context.Background(), userID)
	if err != nil {
		t.Fatalf("friends of %d: %v", userID, err)
	}
	var ids []int64
	for _, friend := range friends {
		ids = append(ids, friend.ID)
	}
	return ids
}

func TestAddUserDefaultsNameToLogin(t *testing.T) {
	f := newUserFixture(t)

	created, err := f.service.AddUser(context.Background(), models.User{Email: "a@example.com", Login: "alice"})
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if created.Name != "alice" {
		t.Fatalf("expected blank name to default to login, got %q", created.Name)
	}
}

func TestAddFriendIsAsymmetric(t *testing.T) {
	f := newUserFixture(t, "alice", "bob")

	if err := f.service.AddFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("add friend: %v", err)
	}

	if ids := friendIDList(t, f, 1); len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("expected requester to list the target, got %v", ids)
	}
	if ids := friendIDList(t, f, 2); ids != nil {
		t.Fatalf("expected pending target to list nobody, got %v", ids)
	}
}

func TestReciprocalAddConfirmsFriendship(t *testing.T) {
	f := newUserFixture(t, "alice", "bob")

	if err := f.service.AddFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	if err := f.service.AddFriend(context.Background(), 2, 1); err != nil {
		t.Fatalf("reciprocal add: %v", err)
	}

	if ids := friendIDList(t, f, 1); len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("expected [2], got %v", ids)
	}
	if ids := friendIDList(t, f, 2); len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("expected [1], got %v", ids)
	}
}

func TestDeleteFriendDowngradesConfirmedPair(t *testing.T) {
	f := newUserFixture(t, "alice", "bob")

	for _, pair := range [][2]int64{{1, 2}, {2, 1}} {
		if err := f.service.AddFriend(context.Background(), pair[0], pair[1]); err != nil {
			t.Fatalf("add friend %v: %v", pair, err)
		}
	}

	if err := f.service.DeleteFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("delete friend: %v", err)
	}

	// Bob keeps a pending request at Alice; Alice sees nobody.
	if ids := friendIDList(t, f, 1); ids != nil {
		t.Fatalf("expected initiator to list nobody, got %v", ids)
	}
	if ids := friendIDList(t, f, 2); len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("expected the other side to keep a pending request, got %v", ids)
	}
}

func TestAddFriendValidations(t *testing.T) {
	f := newUserFixture(t, "alice")

	var validation *domain.ValidationError
	if err := f.service.AddFriend(context.Background(), 1, 1); !errors.As(err, &validation) {
		t.Fatalf("expected validation error for self-friendship, got %v", err)
	}
	if err := f.service.AddFriend(context.Background(), 1, 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for missing friend, got %v", err)
	}
	if err := f.service.AddFriend(context.Background(), 99, 1); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for missing user, got %v", err)
	}
}

func TestFriendFeedEventsOnlyOnChange(t *testing.T) {
	f := newUserFixture(t, "alice", "bob")

	if err := f.service.AddFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	if err := f.service.AddFriend(context.Background(), 1, 2); err != nil {
		t.Fatalf("repeat add friend: %v", err)
	}
	if err := f.service.DeleteFriend(context.Background(), 2, 1); err != nil {
		t.Fatalf("delete friend without edge ownership: %v", err)
	}
	if err := f.service.DeleteFriend(context.Background(), 2, 1); err != nil {
		t.Fatalf("repeat delete friend: %v", err)
	}

	if len(f.feed.events) != 2 {
		t.Fatalf("expected exactly 2 feed events, got %d: %+v", len(f.feed.events), f.feed.events)
	}
	if f.feed.events[0].Operation != models.OperationAdd || f.feed.events[1].Operation != models.OperationRemove {
		t.Fatalf("unexpected event operations: %+v", f.feed.events)
	}
}

func TestCommonFriends(t *testing.T) {
	f := newUserFixture(t, "alice", "bob", "carol")

	// Alice and Bob both request Carol.
	if err := f.service.AddFriend(context.Background(), 1, 3); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	if err := f.service.AddFriend(context.Background(), 2, 3); err != nil {
		t.Fatalf("add friend: %v", err)
	}

	common, err := f.service.CommonFriends(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("common friends: %v", err)
	}
	if len(common) != 1 || common[0].ID != 3 {
		t.Fatalf("expected [3], got %+v", common)
	}
}

func TestFeedDegradesToEmptyOnReadFailure(t *testing.T) {
	f := newUserFixture(t, "alice")
	f.feed.readErr = errors.New("feed table unavailable")

	events, err := f.service.Feed(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected degraded read to succeed, got %v", err)
	}
	if events != nil {
		t.Fatalf("expected empty feed, got %+v", events)
	}
}

func TestFeedUnknownUser(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.service.Feed(context.Background(), 42); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUsersSortedByID(t *testing.T) {
	f := newUserFixture(t, "carol", "alice", "bob")

	all, err := f.service.Users(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("expected ascending ids, got %+v", all)
		}
	}
}
