package engine

import (
	"context"

	"dailyquest/internal/storage"
)

// Achievement represents a badge the user can earn. Badges are derived from
// current state and never stored.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Earned      bool   `json:"earned"`
}

// AchievementChecker calculates which achievements a user has earned.
type AchievementChecker struct {
	snap *storage.Snapshot
}

func NewAchievementChecker(snap *storage.Snapshot) *AchievementChecker {
	return &AchievementChecker{snap: snap}
}

// GetAchievements returns all achievements with their earned status.
func (c *AchievementChecker) GetAchievements() []Achievement {
	return []Achievement{
		// Level milestones
		c.levelAchievement("getting_started", "Getting Started", "Reach level 2", "🌱", 2),
		c.levelAchievement("on_the_path", "On the Path", "Reach level 5", "🌳", 5),
		c.levelAchievement("seasoned", "Seasoned", "Reach level 10", "⭐", 10),

		// Streaks
		c.streakAchievement("warming_up", "Warming Up", "Keep a 3 day streak", "🔥", 3),
		c.streakAchievement("week_strong", "Week Strong", "Keep a 7 day streak", "📅", 7),
		c.streakAchievement("unbreakable", "Unbreakable", "Keep a 30 day streak", "💎", 30),

		// Task list
		c.taskCountAchievement("first_quest", "First Quest", "Create a task", "✓", 1),
		c.taskCountAchievement("full_board", "Full Board", "Keep 5 tasks", "📋", 5),

		// Coins
		c.coinAchievement("saver", "Saver", "Hold 100 coins", "🪙", 100),
		c.coinAchievement("hoarder", "Hoarder", "Hold 500 coins", "💰", 500),

		c.redeemAchievement("treat_yourself", "Treat Yourself", "Redeem a reward", "🎁"),
	}
}

// CountEarned returns how many achievements have been earned.
func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Earned {
			count++
		}
	}
	return count
}

func (c *AchievementChecker) levelAchievement(id, name, desc, icon string, level int) Achievement {
	earned := c.snap.Stats.Level >= level
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) streakAchievement(id, name, desc, icon string, days int) Achievement {
	earned := false
	for _, t := range c.snap.Tasks {
		if t.Streak >= days {
			earned = true
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) taskCountAchievement(id, name, desc, icon string, count int) Achievement {
	earned := len(c.snap.Tasks) >= count
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) coinAchievement(id, name, desc, icon string, coins int) Achievement {
	earned := c.snap.Stats.Coins >= coins
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) redeemAchievement(id, name, desc, icon string) Achievement {
	earned := false
	for _, rw := range c.snap.Rewards {
		if rw.Redeemed {
			earned = true
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (s *Service) Achievements(ctx context.Context, userID string) ([]Achievement, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewAchievementChecker(snap).GetAchievements(), nil
}
