// Package firestore stores user state in Cloud Firestore.
//
// Layout:
//
//	users/{uid}                      profile, stats and session
//	users/{uid}/tasks/{taskID}
//	users/{uid}/rewards/{rewardID}
//	users/{uid}/completions/{day}    {day, count}
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"dailyquest/internal/storage"
)

const (
	usersCollection       = "users"
	tasksCollection       = "tasks"
	rewardsCollection     = "rewards"
	completionsCollection = "completions"
)

type userDoc struct {
	Email         string    `firestore:"email"`
	Username      string    `firestore:"username"`
	XP            int       `firestore:"xp"`
	Coins         int       `firestore:"coins"`
	Level         int       `firestore:"level"`
	CreatedAt     time.Time `firestore:"createdAt"`
	LastVisitDate string    `firestore:"lastVisitDate"`
	IsLocked      bool      `firestore:"isLocked"`
	Mood          string    `firestore:"mood"`
}

type taskDoc struct {
	Title             string     `firestore:"title"`
	Streak            int        `firestore:"streak"`
	IsPinned          bool       `firestore:"isPinned"`
	CreatedAt         time.Time  `firestore:"createdAt"`
	CompletedAt       *time.Time `firestore:"completedAt"`
	LastCompletedDate string     `firestore:"lastCompletedDate"`
}

type rewardDoc struct {
	Type        string     `firestore:"type"`
	Label       string     `firestore:"label"`
	ValidWindow string     `firestore:"validWindow"`
	IssuedAt    time.Time  `firestore:"issuedAt"`
	ExpiresAt   time.Time  `firestore:"expiresAt"`
	IsRedeemed  bool       `firestore:"isRedeemed"`
	RedeemedAt  *time.Time `firestore:"redeemedAt"`
}

type completionDoc struct {
	Day   string `firestore:"day"`
	Count int    `firestore:"count"`
}

// Store implements the engine's store contract on Firestore. Every Apply is
// one Firestore transaction.
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

func New(client *firestore.Client) *Store {
	return &Store{client: client, now: time.Now}
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) user(userID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(userID)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *Store) Load(ctx context.Context, userID string) (*storage.Snapshot, error) {
	snap := storage.NewSnapshot(userID)

	doc, err := s.user(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return snap, nil
		}
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	var u userDoc
	if err := doc.DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	snap.Profile = storage.Profile{UserID: userID, Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt}
	snap.Stats = storage.Stats{XP: u.XP, Coins: u.Coins, Level: u.Level}
	if snap.Stats.Level < storage.DefaultLevel {
		snap.Stats.Level = storage.DefaultLevel
	}
	snap.Session = storage.Session{UserID: userID, LastVisitDate: u.LastVisitDate, Locked: u.IsLocked, Mood: u.Mood}

	tasks := s.user(userID).Collection(tasksCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer tasks.Stop()
	for {
		d, err := tasks.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list tasks %s: %w", userID, err)
		}
		var t taskDoc
		if err := d.DataTo(&t); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", d.Ref.ID, err)
		}
		snap.Tasks = append(snap.Tasks, storage.Task{
			ID:          d.Ref.ID,
			UserID:      userID,
			Title:       t.Title,
			Streak:      t.Streak,
			Pinned:      t.IsPinned,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
			CompletedOn: t.LastCompletedDate,
		})
	}

	rewards := s.user(userID).Collection(rewardsCollection).OrderBy("issuedAt", firestore.Asc).Documents(ctx)
	defer rewards.Stop()
	for {
		d, err := rewards.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list rewards %s: %w", userID, err)
		}
		var r rewardDoc
		if err := d.DataTo(&r); err != nil {
			return nil, fmt.Errorf("decode reward %s: %w", d.Ref.ID, err)
		}
		snap.Rewards = append(snap.Rewards, storage.Reward{
			ID:          d.Ref.ID,
			UserID:      userID,
			Type:        r.Type,
			Label:       r.Label,
			ValidWindow: r.ValidWindow,
			IssuedAt:    r.IssuedAt,
			ExpiresAt:   r.ExpiresAt,
			Redeemed:    r.IsRedeemed,
			RedeemedAt:  r.RedeemedAt,
		})
	}
	return snap, nil
}

// Apply writes the mutation in one transaction. All reads happen before the
// first write, as Firestore transactions require.
func (s *Store) Apply(ctx context.Context, userID string, m storage.Mutation) error {
	if m.IsEmpty() {
		return nil
	}
	for _, t := range m.Tasks {
		if t.UserID != userID {
			return fmt.Errorf("task %s belongs to user %q, not %q", t.ID, t.UserID, userID)
		}
	}
	for _, rw := range m.Rewards {
		if rw.UserID != userID {
			return fmt.Errorf("reward %s belongs to user %q, not %q", rw.ID, rw.UserID, userID)
		}
	}

	userRef := s.user(userID)
	now := s.now().UTC()

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(userRef)
		exists := err == nil
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("get user %s: %w", userID, err)
		}

		counts := make(map[string]int, len(m.Completions))
		for _, c := range m.Completions {
			if _, seen := counts[c.Day]; seen {
				continue
			}
			ref := userRef.Collection(completionsCollection).Doc(c.Day)
			d, err := tx.Get(ref)
			switch {
			case err == nil:
				var cd completionDoc
				if err := d.DataTo(&cd); err != nil {
					return fmt.Errorf("decode completion %s: %w", c.Day, err)
				}
				counts[c.Day] = cd.Count
			case isNotFound(err):
				counts[c.Day] = 0
			default:
				return fmt.Errorf("get completion %s: %w", c.Day, err)
			}
		}

		fields := map[string]interface{}{"lastActive": now}
		if !exists {
			fields["createdAt"] = now
			fields["level"] = storage.DefaultLevel
			fields["xp"] = 0
			fields["coins"] = 0
		}
		if m.Stats != nil {
			fields["xp"] = m.Stats.XP
			fields["coins"] = m.Stats.Coins
			fields["level"] = m.Stats.Level
		}
		if m.Session != nil {
			fields["lastVisitDate"] = m.Session.LastVisitDate
			fields["isLocked"] = m.Session.Locked
			fields["mood"] = m.Session.Mood
		}
		if err := tx.Set(userRef, fields, firestore.MergeAll); err != nil {
			return err
		}

		for _, t := range m.Tasks {
			doc := taskDoc{
				Title:             t.Title,
				Streak:            t.Streak,
				IsPinned:          t.Pinned,
				CreatedAt:         t.CreatedAt,
				CompletedAt:       t.CompletedAt,
				LastCompletedDate: t.CompletedOn,
			}
			if err := tx.Set(userRef.Collection(tasksCollection).Doc(t.ID), doc); err != nil {
				return err
			}
		}
		for _, id := range m.DeleteTaskIDs {
			if err := tx.Delete(userRef.Collection(tasksCollection).Doc(id)); err != nil {
				return err
			}
		}
		for _, rw := range m.Rewards {
			doc := rewardDoc{
				Type:        rw.Type,
				Label:       rw.Label,
				ValidWindow: rw.ValidWindow,
				IssuedAt:    rw.IssuedAt,
				ExpiresAt:   rw.ExpiresAt,
				IsRedeemed:  rw.Redeemed,
				RedeemedAt:  rw.RedeemedAt,
			}
			if err := tx.Set(userRef.Collection(rewardsCollection).Doc(rw.ID), doc); err != nil {
				return err
			}
		}
		for _, id := range m.DeleteRewardIDs {
			if err := tx.Delete(userRef.Collection(rewardsCollection).Doc(id)); err != nil {
				return err
			}
		}

		for _, c := range m.Completions {
			counts[c.Day] += c.Delta
			if counts[c.Day] < 0 {
				counts[c.Day] = 0
			}
		}
		for day, count := range counts {
			ref := userRef.Collection(completionsCollection).Doc(day)
			if err := tx.Set(ref, completionDoc{Day: day, Count: count}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) EnsureProfile(ctx context.Context, p storage.Profile) error {
	ref := s.user(p.UserID)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("get user %s: %w", p.UserID, err)
		}
		fields := map[string]interface{}{
			"email":    p.Email,
			"username": p.Username,
		}
		if isNotFound(err) {
			created := p.CreatedAt
			if created.IsZero() {
				created = s.now()
			}
			fields["createdAt"] = created.UTC()
			fields["level"] = storage.DefaultLevel
			fields["xp"] = 0
			fields["coins"] = 0
		}
		return tx.Set(ref, fields, firestore.MergeAll)
	})
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error) {
	iter := s.client.Collection(usersCollection).OrderBy("xp", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var out []storage.LeaderboardEntry
	for {
		d, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leaderboard: %w", err)
		}
		var u userDoc
		if err := d.DataTo(&u); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", d.Ref.ID, err)
		}
		out = append(out, storage.LeaderboardEntry{
			Rank:     len(out) + 1,
			UserID:   d.Ref.ID,
			Username: storage.DisplayName(u.Username, u.Email),
			XP:       u.XP,
			Coins:    u.Coins,
			Level:    u.Level,
		})
	}
	return out, nil
}

func (s *Store) Completions(ctx context.Context, userID string, from, to string) ([]storage.DayCount, error) {
	iter := s.user(userID).Collection(completionsCollection).
		Where("day", ">=", from).
		Where("day", "<=", to).
		OrderBy("day", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var out []storage.DayCount
	for {
		d, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("completions %s: %w", userID, err)
		}
		var c completionDoc
		if err := d.DataTo(&c); err != nil {
			return nil, fmt.Errorf("decode completion %s: %w", d.Ref.ID, err)
		}
		if c.Count > 0 {
			out = append(out, storage.DayCount{Day: c.Day, Count: c.Count})
		}
	}
	return out, nil
}
