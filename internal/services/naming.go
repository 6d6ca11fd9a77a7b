package services

import (
	"fmt"
	"strings"
)

// NextAvailableName returns base when it is free, otherwise "base (n)" for the smallest
// n >= 1 not in taken. Comparison is exact.
func NextAvailableName(base string, taken []string) string {
	base = strings.TrimSpace(base)
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
