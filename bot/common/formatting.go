package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func formatMessage(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// ParseID converts a Discord snowflake string to int64
func ParseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatID converts an int64 snowflake to its string form
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseMention extracts the id from a <@id> or <@!id> user mention
func ParseMention(token string) (int64, bool) {
	if !strings.HasPrefix(token, "<@") || !strings.HasSuffix(token, ">") {
		return 0, false
	}
	inner := strings.TrimPrefix(strings.TrimSuffix(token[2:], ">"), "!")
	id, err := ParseID(inner)
	if err != nil {
		return 0, false
	}
	return id, true
}

// FormatDuration renders an uptime like "3d 4h 12m"
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatBytes renders a byte count in MB
func FormatBytes(b uint64) string {
	return fmt.Sprintf("%.1f MB", float64(b)/1024/1024)
}
