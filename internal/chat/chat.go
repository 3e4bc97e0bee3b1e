// Package chat implements the storefront chat widget's reply engine: a
// keyword matcher over operator-defined rules, no external services.
package chat

import (
	"strings"

	"larder-cli/internal/model"
)

// DefaultFallback is used when no rule matches and no fallback was configured.
const DefaultFallback = "Thanks for your message! We'll get back to you soon."

type Responder struct {
	rules    []model.ChatRule
	fallback string
}

func NewResponder(rules []model.ChatRule, fallback string) *Responder {
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultFallback
	}
	return &Responder{rules: rules, fallback: fallback}
}

// Reply returns the reply of the rule with the most keyword hits in the
// message. Ties go to the rule listed first, so answers are deterministic.
// No hits returns the fallback.
func (r *Responder) Reply(message string) string {
	text := normalize(message)
	if text == "" {
		return r.fallback
	}

	best := -1
	bestHits := 0
	for i, rule := range r.rules {
		hits := 0
		for _, kw := range rule.Keywords {
			kw = normalize(kw)
			if kw != "" && strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = i
			bestHits = hits
		}
	}
	if best < 0 {
		return r.fallback
	}
	return r.rules[best].Reply
}

// Matches reports whether any rule matches the message.
func (r *Responder) Matches(message string) bool {
	text := normalize(message)
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			kw = normalize(kw)
			if kw != "" && strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
