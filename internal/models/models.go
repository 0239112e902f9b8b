package models

import "time"

// Film is a catalogue entry together with its reference attributes. Genres
// and Directors never contain two entries with the same id.
type Film struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ReleaseDate time.Time  `json:"releaseDate"`
	Duration    int        `json:"duration"`
	Rate        int        `json:"rate"`
	Mpa         MPA        `json:"mpa"`
	Genres      []Genre    `json:"genres"`
	Directors   []Director `json:"directors"`
	PosterURL   string     `json:"posterUrl,omitempty"`
}

// Genre is immutable reference data seeded by migrations.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MPA is a film's age-rating classification.
type MPA struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Director of one or more films.
type Director struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User represents a platform account.
type User struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	Login    string    `json:"login"`
	Name     string    `json:"name"`
	Birthday time.Time `json:"birthday"`
}

// Like records that a user endorsed a film. At most one row exists per
// (film, user) pair.
type Like struct {
	FilmID int64 `json:"filmId"`
	UserID int64 `json:"userId"`
}

// FriendEdge is the directed relationship record between two users. The owner
// is whichever side issued the first request; confirmation never flips it. At
// most one edge exists per unordered pair.
type FriendEdge struct {
	OwnerID   int64 `json:"ownerId"`
	TargetID  int64 `json:"targetId"`
	Confirmed bool  `json:"confirmed"`
}

// EdgeMutation describes how an edge store should rewrite the single edge of
// an unordered user pair. DeletePair removes whatever edge exists, Confirm
// flips an existing edge to confirmed, and Insert adds a fresh pending edge
// after any delete. Changed reports whether the pair's state moved at all.
type EdgeMutation struct {
	DeletePair bool
	Confirm    *FriendEdge
	Insert     *FriendEdge
	Changed    bool
}

// Feed event and operation kinds.
const (
	EventLike   = "LIKE"
	EventFriend = "FRIEND"

	OperationAdd    = "ADD"
	OperationRemove = "REMOVE"
)

// FeedEvent is an append-only activity record produced as a side effect of
// like and friend mutations.
type FeedEvent struct {
	EventID   int64     `json:"eventId"`
	UserID    int64     `json:"userId"`
	EventType string    `json:"eventType"`
	Operation string    `json:"operation"`
	EntityID  int64     `json:"entityId"`
	Timestamp time.Time `json:"timestamp"`
}
