package main

import (
	"fmt"
	"strconv"
	"strings"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// parseFloat accepts a decimal comma as well as a point.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}

// resolveID finds the one id equal to or starting with ref.
func resolveID(ref string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("entry not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %s is ambiguous (%d matches)", ref, len(matches))
	}
}
