package classifier

import (
	"regexp"
	"strings"

	"github.com/spec-kit/support-pipeline/internal/domain"
)

// Cue lists for the rule-based classifier. Check order matters: question
// cues beat negative cues beat positive cues, so an explicit question routes
// to status lookup even when phrased with mild negative words.
var (
	questionCues = []string{
		"how", "when", "what", "where", "why", "status", "ticket", "help",
		"can you", "could you",
	}
	negativeCues = []string{
		"not happy", "unhappy", "angry", "bad", "worst", "terrible", "horrible",
		"complain", "complaint", "issue", "problem", "frustrated", "disappointed",
		"did not work", "didn't work", "didnt work", "money deducted", "debited but",
	}
	positiveCues = []string{
		"thank you", "thanks", "great", "awesome", "good service", "well done",
		"happy", "satisfied", "love the service",
	}
)

// Heuristic classifies a message with deterministic substring rules. It is
// total: every input maps to exactly one of the three labels, with QUERY as
// the default for anything unrecognized (including the empty string).
func Heuristic(message string) domain.Classification {
	msg := strings.TrimSpace(message)

	if strings.Contains(msg, "?") || containsAny(msg, questionCues) {
		return domain.ClassificationQuery
	}
	if containsAny(msg, negativeCues) {
		return domain.ClassificationNegativeFeedback
	}
	if containsAny(msg, positiveCues) {
		return domain.ClassificationPositiveFeedback
	}
	return domain.ClassificationQuery
}

func containsAny(text string, cues []string) bool {
	lower := strings.ToLower(text)
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

var nonLabelChars = regexp.MustCompile(`[^A-Z_]`)

// NormalizeLabel maps raw remote classifier output onto one of the three
// canonical labels. Exact matches are accepted first, then common shorthand
// with punctuation stripped, then keyword sniffing over the raw text. The
// second return value is false when no mapping exists.
func NormalizeLabel(raw string) (domain.Classification, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	upper := strings.ToUpper(trimmed)
	switch domain.Classification(upper) {
	case domain.ClassificationPositiveFeedback:
		return domain.ClassificationPositiveFeedback, true
	case domain.ClassificationNegativeFeedback:
		return domain.ClassificationNegativeFeedback, true
	case domain.ClassificationQuery:
		return domain.ClassificationQuery, true
	}

	switch nonLabelChars.ReplaceAllString(upper, "") {
	case "POSITIVEFEEDBACK", "POSITIVE_FEEDBACK", "POSITIVE", "THANKS":
		return domain.ClassificationPositiveFeedback, true
	case "NEGATIVEFEEDBACK", "NEGATIVE_FEEDBACK", "NEGATIVE", "COMPLAINT", "COMPLAIN":
		return domain.ClassificationNegativeFeedback, true
	case "QUERY", "QUESTION", "STATUS", "TICKET":
		return domain.ClassificationQuery, true
	}

	lower := strings.ToLower(trimmed)
	if containsAny(lower, []string{"thank", "thanks", "great", "good", "happy", "satisfied"}) {
		return domain.ClassificationPositiveFeedback, true
	}
	if containsAny(lower, []string{"not", "unhappy", "angry", "complain", "debit", "issue", "problem", "frustrat"}) {
		return domain.ClassificationNegativeFeedback, true
	}
	if strings.Contains(lower, "?") || containsAny(lower, []string{"how", "what", "when", "status", "ticket", "help"}) {
		return domain.ClassificationQuery, true
	}

	return "", false
}
