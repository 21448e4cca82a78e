package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dailyquest theme (CLI + TUI).

const (
	IconQuest   = "🗺️"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconOpen    = "⬜"
	IconPin     = "📌"
	IconFlame   = "🔥"
	IconCoin    = "🪙"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconGift    = "🎁"
	IconLock    = "🔒"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconScroll  = "📜"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Signed renders a delta with its sign, green for gains and red for losses.
func Signed(v int) string {
	switch {
	case v > 0:
		return Good.Render(fmt.Sprintf("+%d", v))
	case v < 0:
		return Bad.Render(fmt.Sprintf("%d", v))
	default:
		return Muted.Render("0")
	}
}

// TaskMark is the checkbox shown in front of a task.
func TaskMark(done bool) string {
	if done {
		return IconDone
	}
	return IconOpen
}

func Streak(n int) string {
	if n <= 0 {
		return Muted.Render("no streak")
	}
	return Warn.Render(fmt.Sprintf("%s %d", IconFlame, n))
}

func RewardStatus(redeemed, expired bool) string {
	switch {
	case redeemed:
		return Muted.Render("redeemed")
	case expired:
		return Bad.Render("expired")
	default:
		return Good.Render("open")
	}
}

func BlueprintStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "available":
		return Good.Render("available")
	case "active":
		return H2.Render("active")
	case "locked":
		return Warn.Render("locked")
	default:
		return Muted.Render(status)
	}
}

// ProgressBar draws value/total as a fixed-width bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := value * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Heat maps a day's completion count onto a one-cell glyph.
func Heat(count int) string {
	switch {
	case count <= 0:
		return Muted.Render("·")
	case count == 1:
		return Good.Render("▪")
	case count <= 3:
		return Good.Render("■")
	default:
		return Gold.Render("█")
	}
}
