package cli

import (
	"time"

	"github.com/fatih/color"
)

var (
	statusColors = map[string]*color.Color{
		"RECEIVED":    color.New(color.FgCyan),
		"IN_PROGRESS": color.New(color.FgYellow),
		"PROCESSED":   color.New(color.FgGreen),
		"PENDING":     color.New(color.FgYellow),
		"SENT":        color.New(color.FgGreen),
		"FAILED":      color.New(color.FgRed),
	}
	faint = color.New(color.Faint)
)

// colorStatus renders a status in its lifecycle colour. Unknown values pass through.
func colorStatus(status string) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status)
	}
	return status
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
