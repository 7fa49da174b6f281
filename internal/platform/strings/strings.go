// Package strings provides list parsing helpers for flags and env values
package strings

import (
	"strconv"
	std "strings"
)

// SplitCSV splits s on commas, trims each part and drops empties
func SplitCSV(s string) []string {
	if std.TrimSpace(s) == "" {
		return nil
	}
	parts := std.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := std.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseInts parses a comma-separated list of integers such as "2015,2018, 2023"
// The first bad element is reported by the returned *strconv.NumError
func ParseInts(s string) ([]int, error) {
	parts := SplitCSV(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// FirstN returns at most the first n bytes of s, keeping whole runes
func FirstN(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	i := n
	// back up to the start of a rune (0b10xxxxxx indicates continuation byte)
	for i > 0 && (s[i]&0xC0) == 0x80 {
		i--
	}
	return s[:i] + "..."
}
