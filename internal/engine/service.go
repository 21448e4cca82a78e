package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"dailyquest/internal/storage"
)

// DefaultLeaderboardSize is the number of entries returned when no limit is given.
const DefaultLeaderboardSize = 10

// Store persists user state. Apply must be atomic: either the whole mutation
// is visible afterwards or none of it is.
type Store interface {
	Load(ctx context.Context, userID string) (*storage.Snapshot, error)
	Apply(ctx context.Context, userID string, m storage.Mutation) error
	EnsureProfile(ctx context.Context, p storage.Profile) error
	Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
	Completions(ctx context.Context, userID string, from, to string) ([]storage.DayCount, error)
}

type Service struct {
	store    Store
	rules    Rules
	clock    Clock
	notifier Notifier
	log      *log.Logger
	locks    userLocks
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(store Store, rules Rules, opts ...Option) *Service {
	if rules.Curve == nil {
		rules.Curve = FlatCurve{Step: DefaultLevelStep}
	}
	if rules.Rewards == nil {
		rules.Rewards = NoRewards{}
	}
	if rules.Decay == nil {
		rules.Decay = NoDecay{}
	}
	s := &Service{
		store:    store,
		rules:    rules,
		clock:    SystemClock{},
		notifier: NopNotifier{},
		log:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Rules() Rules { return s.rules }

func (s *Service) now() time.Time { return s.clock.Now() }

// Today is the current day key in the configured location.
func (s *Service) Today() string { return s.rules.Day(s.now()) }

func (s *Service) load(ctx context.Context, userID string) (*storage.Snapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return snap, nil
}

func (s *Service) commit(ctx context.Context, op string, userID string, m storage.Mutation) error {
	if m.IsEmpty() {
		return nil
	}
	if err := s.store.Apply(ctx, userID, m); err != nil {
		s.log.Printf("[WARN] %s for %s: %v", op, userID, err)
		return &CommitError{Op: op, Err: err}
	}
	return nil
}

// RegisterProfile records who a user is. Stats are left untouched.
func (s *Service) RegisterProfile(ctx context.Context, p storage.Profile) error {
	if p.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if p.Username == "" {
		p.Username = storage.DisplayName("", p.Email)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if err := s.store.EnsureProfile(ctx, p); err != nil {
		return fmt.Errorf("register profile %s: %w", p.UserID, err)
	}
	return nil
}

type StatusResult struct {
	Profile        storage.Profile `json:"profile"`
	Stats          storage.Stats   `json:"stats"`
	LevelInto      int             `json:"level_into"`
	LevelSpan      int             `json:"level_span"`
	Session        storage.Session `json:"session"`
	Today          string          `json:"today"`
	TotalTasks     int             `json:"total_tasks"`
	CompletedToday int             `json:"completed_today"`
	BestStreak     int             `json:"best_streak"`
	OpenRewards    int             `json:"open_rewards"`
}

func (s *Service) Status(ctx context.Context, userID string) (*StatusResult, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	into, span := s.rules.Curve.Progress(snap.Stats)
	res := &StatusResult{
		Profile:    snap.Profile,
		Stats:      snap.Stats,
		LevelInto:  into,
		LevelSpan:  span,
		Session:    snap.Session,
		Today:      today,
		TotalTasks: len(snap.Tasks),
	}
	for _, t := range snap.Tasks {
		if t.IsCompleted(today) {
			res.CompletedToday++
		}
		if t.Streak > res.BestStreak {
			res.BestStreak = t.Streak
		}
	}
	now := s.now()
	for _, rw := range snap.Rewards {
		if !rw.Redeemed && !now.After(rw.ExpiresAt) {
			res.OpenRewards++
		}
	}
	return res, nil
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	entries, err := s.store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}

// Calendar returns the completion count of every day in from..to, including
// days without completions.
func (s *Service) Calendar(ctx context.Context, userID string, from, to string) ([]storage.DayCount, error) {
	days, err := DaysBetween(from, to)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Completions(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("completions for %s: %w", userID, err)
	}
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
	}
	out := make([]storage.DayCount, 0, len(days))
	for _, d := range days {
		out = append(out, storage.DayCount{Day: d, Count: byDay[d]})
	}
	return out, nil
}

// WeekStrip is the calendar of the seven days ending today.
func (s *Service) WeekStrip(ctx context.Context, userID string) ([]storage.DayCount, error) {
	today := s.Today()
	t, err := ParseDay(today)
	if err != nil {
		return nil, err
	}
	return s.Calendar(ctx, userID, t.AddDate(0, 0, -6).Format(DayLayout), today)
}
