// Package scoring ranks inbound inquiries with an additive keyword
// heuristic. The rule set is a static table so each category can be
// tuned and tested on its own; no state is kept between calls.
package scoring

import "regexp"

// Score bounds and band thresholds.
const (
	MinScore = 0
	MaxScore = 100

	hotThreshold  = 80
	warmThreshold = 50
)

// Rule is one signal category: a pattern matched against the whole
// message and the weight added when it fires. Rules are independent;
// several may fire on the same message.
type Rule struct {
	Category string
	Pattern  *regexp.Regexp
	Weight   int
}

// Rules is the scoring table, in display order. Weights are additive and
// the sum is clamped to [MinScore, MaxScore].
var Rules = []Rule{
	{Category: "budget", Pattern: regexp.MustCompile(`(?i)\$|budget|cost|price|investment|spending|allocate`), Weight: 30},
	{Category: "urgency", Pattern: regexp.MustCompile(`(?i)asap|urgent|immediately|this week|deadline|rush|quickly`), Weight: 25},
	{Category: "organization", Pattern: regexp.MustCompile(`(?i)company|team|enterprise|organization|we need|our business|startup`), Weight: 20},
	{Category: "scope", Pattern: regexp.MustCompile(`(?i)large|big|multiple|complex|enterprise|scalable|long-term`), Weight: 15},
	{Category: "service", Pattern: regexp.MustCompile(`(?i)automation|ai|machine learning|integration|bot|workflow`), Weight: 10},
	{Category: "low-intent", Pattern: regexp.MustCompile(`(?i)free|cheap|lowest price|just looking|testing`), Weight: -10},
}

// Score folds the rule table over the message and clamps the sum to
// [0, 100]. An empty message scores 0: every positive rule needs at
// least one keyword, and a negative-only sum floors at zero.
func Score(message string) int {
	score := 0
	for _, rule := range Rules {
		if rule.Pattern.MatchString(message) {
			score += rule.Weight
		}
	}
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Matches returns the categories that fire on the message, in table
// order. Used by tests and by anything that wants to explain a score.
func Matches(message string) []string {
	var categories []string
	for _, rule := range Rules {
		if rule.Pattern.MatchString(message) {
			categories = append(categories, rule.Category)
		}
	}
	return categories
}

// Band is the display classification derived from a score.
type Band struct {
	Label string
	Color string
}

var (
	bandHot  = Band{Label: "🔥 HOT", Color: "#dc2626"}
	bandWarm = Band{Label: "🟡 WARM", Color: "#f97316"}
	bandCold = Band{Label: "🔵 COLD", Color: "#6b7280"}
)

// BandFor maps a score to its priority band: hot at 80 and above, warm
// at 50 and above, cold otherwise.
func BandFor(score int) Band {
	switch {
	case score >= hotThreshold:
		return bandHot
	case score >= warmThreshold:
		return bandWarm
	default:
		return bandCold
	}
}

// PriorityLabel is the plain band name used by the JSON API.
func PriorityLabel(score int) string {
	switch {
	case score >= hotThreshold:
		return "hot"
	case score >= warmThreshold:
		return "warm"
	default:
		return "cold"
	}
}
