package feed

import (
	"fmt"
	"strings"

	"base-signal-radar/internal/domain"
)

// Query narrows a feed for display. The zero value matches everything.
type Query struct {
	// Text matches the pair label, exchange name or anomaly type,
	// case-insensitively. "high risk", "medium risk" and "low risk"
	// match the tier instead.
	Text string
	// Tier keeps only items of this tier. Empty keeps all.
	Tier domain.Tier
}

// ParseTier accepts "", "all", or a tier name in any case.
func ParseTier(s string) (domain.Tier, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	t := domain.Tier(strings.ToUpper(s))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown risk level %q", s)
	}
	return t, nil
}

// Filter returns the items matching q, preserving order.
func Filter(items []domain.FeedItem, q Query) []domain.FeedItem {
	out := make([]domain.FeedItem, 0, len(items))
	for _, it := range items {
		if q.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether one item satisfies q.
func (q Query) Matches(it domain.FeedItem) bool {
	if q.Tier != "" && it.Tier != q.Tier {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	if level, ok := strings.CutSuffix(text, " risk"); ok {
		if t := domain.Tier(strings.ToUpper(level)); t.IsValid() {
			return it.Tier == t
		}
	}
	return strings.Contains(strings.ToLower(it.Pair()), text) ||
		strings.Contains(strings.ToLower(it.ExchangeName), text) ||
		strings.Contains(strings.ToLower(string(it.Anomaly)), text)
}
