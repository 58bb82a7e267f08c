package monitor

import (
	"strings"

	"github.com/maildeck/maildeck/pkg/models"
)

// Match evaluates a monitoring rule against a message subject. Matching is
// substring containment, case-insensitive unless the rule says otherwise.
// The first keyword in the rule's stored order that matches wins, and it is
// reported in its original casing. Returns "", false when nothing matches.
func Match(subject string, rule *models.MonitoringRule) (string, bool) {
	haystack := subject
	if !rule.CaseSensitive {
		haystack = strings.ToLower(subject)
	}

	for _, keyword := range rule.Keywords {
		needle := keyword
		if !rule.CaseSensitive {
			needle = strings.ToLower(keyword)
		}
		if needle != "" && strings.Contains(haystack, needle) {
			return keyword, true
		}
	}
	return "", false
}
