// Package sizefmt renders byte counts for humans.
package sizefmt

import (
	"fmt"
	"strconv"
)

var units = []string{"B", "KB", "MB", "GB", "TB"}

// Format renders n as a binary-scaled size with one decimal and a space
// before the unit, e.g. "1.5 MB". Negative counts render as "0 B".
func Format(n int64) string {
	if n < 0 {
		n = 0
	}
	f := float64(n)
	unit := 0
	for f >= 1024 && unit < len(units)-1 {
		f /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", n, units[0])
	}
	return fmt.Sprintf("%s %s", trimZero(f), units[unit])
}

// FormatString parses a numeric string and formats it; non-numeric input
// comes back unchanged (upstream APIs sometimes pre-format sizes).
func FormatString(s string) string {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return Format(n)
}

// trimZero drops a trailing ".0" so whole values print bare.
func trimZero(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
