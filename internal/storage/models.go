package storage

import (
	"strings"
	"time"
)

// DefaultLevel is the level of a user with no XP.
const DefaultLevel = 1

type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
	Level int `json:"level"`
}

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Streak      int        `json:"streak"`
	Pinned      bool       `json:"is_pinned"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// CompletedOn is the day key (YYYY-MM-DD) of the last completion.
	CompletedOn string `json:"completed_on,omitempty"`
}

// IsCompleted reports whether the task was completed on the given day.
func (t Task) IsCompleted(day string) bool {
	return day != "" && t.CompletedOn == day
}

type Reward struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        string     `json:"type"`
	Label       string     `json:"label"`
	ValidWindow string     `json:"valid_window"`
	IssuedAt    time.Time  `json:"issued_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Redeemed    bool       `json:"is_redeemed"`
	RedeemedAt  *time.Time `json:"redeemed_at,omitempty"`
}

type Session struct {
	UserID        string `json:"user_id"`
	LastVisitDate string `json:"last_visit_date,omitempty"`
	Locked        bool   `json:"is_locked"`
	Mood          string `json:"mood,omitempty"`
}

// DayCount is the number of completions recorded for one day.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Coins    int    `json:"coins"`
	Level    int    `json:"level"`
}

// Snapshot is everything a store holds for one user.
// Tasks and Rewards come back in insertion order.
type Snapshot struct {
	Profile Profile
	Stats   Stats
	Tasks   []Task
	Rewards []Reward
	Session Session
}

func (s *Snapshot) FindTask(id string) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

func (s *Snapshot) FindReward(id string) *Reward {
	for i := range s.Rewards {
		if s.Rewards[i].ID == id {
			return &s.Rewards[i]
		}
	}
	return nil
}

// CompletionDelta moves the completion counter of a day by Delta.
// Counters never go below zero.
type CompletionDelta struct {
	Day   string
	Delta int
}

// Mutation is one unit of work against a single user's state.
// Stores apply it atomically: all of it or none of it.
type Mutation struct {
	Tasks           []Task
	DeleteTaskIDs   []string
	Stats           *Stats
	Rewards         []Reward
	DeleteRewardIDs []string
	Completions     []CompletionDelta
	Session         *Session
}

func (m Mutation) IsEmpty() bool {
	return len(m.Tasks) == 0 &&
		len(m.DeleteTaskIDs) == 0 &&
		m.Stats == nil &&
		len(m.Rewards) == 0 &&
		len(m.DeleteRewardIDs) == 0 &&
		len(m.Completions) == 0 &&
		m.Session == nil
}

// NewSnapshot returns the state of a user that has never been stored.
func NewSnapshot(userID string) *Snapshot {
	return &Snapshot{
		Profile: Profile{UserID: userID},
		Stats:   Stats{Level: DefaultLevel},
		Session: Session{UserID: userID},
	}
}

// DisplayName picks the public name of a user: the username when set, else the
// local part of the email address.
func DisplayName(username, email string) string {
	if username != "" {
		return username
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	if email != "" {
		return email
	}
	return "Anonymous"
}
