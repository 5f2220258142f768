// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for points, modes, and notices

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/editor"
	"github.com/harper/pointedit/internal/models"
)

// FormatPoint formats a point for terminal display.
// index is zero-based; it is shown one-based.
func FormatPoint(index int, p models.Point) string {
	num := color.New(color.Faint).Sprintf("%3d.", index+1)
	coords := color.New(color.Faint).Sprintf("(%s)", p.Location)

	if p.Label == "" {
		return fmt.Sprintf("%s %s", num, color.CyanString("(%s)", p.Location))
	}
	return fmt.Sprintf("%s %s %s", num, color.CyanString(p.Label), coords)
}

// FormatPoints formats a whole collection, one point per line.
func FormatPoints(c models.Collection) string {
	if len(c) == 0 {
		return color.New(color.Faint).Sprint("(no points)")
	}
	lines := make([]string, len(c))
	for i, p := range c {
		lines[i] = FormatPoint(i, p)
	}
	return strings.Join(lines, "\n")
}

// FormatMode formats an interaction mode as a short status tag.
func FormatMode(m editor.Mode) string {
	switch m {
	case editor.ModePlacing:
		return color.YellowString("[%s]", m)
	case editor.ModeLabelingNew, editor.ModeEditingLabel:
		return color.MagentaString("[%s]", m)
	default:
		return color.New(color.Faint).Sprintf("[%s]", m)
	}
}

// FormatNotice formats a notice, or returns "" when there is none.
func FormatNotice(n *editor.Notice) string {
	if n == nil {
		return ""
	}
	return color.YellowString("! %s", n.Message)
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
