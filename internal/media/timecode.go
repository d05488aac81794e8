package media

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimecode converts "hh:mm:ss", "mm:ss" or "ss" to milliseconds.
// Fractional seconds are truncated. ok is false for blank or malformed
// input.
func ParseTimecode(s string) (ms int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}
	var vals [3]int64
	off := 3 - len(parts)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f < 0 {
			return 0, false
		}
		vals[off+i] = int64(f)
	}
	return (vals[0]*3600 + vals[1]*60 + vals[2]) * 1000, true
}

// FormatTimecode renders ms in the shortest of "hh:mm:ss", "mm:ss" or "ss".
func FormatTimecode(ms int64) string {
	s := ms / 1000
	h, m := s/3600, (s%3600)/60
	s %= 60
	switch {
	case h > 0:
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	case m > 0:
		return fmt.Sprintf("%02d:%02d", m, s)
	default:
		return fmt.Sprintf("%02d", s)
	}
}

// FormatOptional renders a nil offset as the empty string.
func FormatOptional(ms *int64) string {
	if ms == nil {
		return ""
	}
	return FormatTimecode(*ms)
}
