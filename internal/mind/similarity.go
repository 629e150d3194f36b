package mind

import "strings"

const (
	// RepetitionWindow is how many trailing user messages are compared
	// pairwise when checking for a stuck loop.
	RepetitionWindow = 3
	// RepetitionThreshold is the pairwise similarity above which messages
	// count as "the same request again".
	RepetitionThreshold = 0.6
)

// Similarity computes token-set overlap between two strings after
// lowercasing and punctuation stripping: shared tokens over the union.
// 1.0 for identical text, 0.0 for disjoint vocabularies.
func Similarity(a, b string) float64 {
	sa := tokenSet(a)
	sb := tokenSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 1.0
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0.0
	}
	shared := 0
	for t := range sa {
		if sb[t] {
			shared++
		}
	}
	union := len(sa) + len(sb) - shared
	return float64(shared) / float64(union)
}

// IsRepetitive reports whether the last RepetitionWindow user messages in
// msgs pairwise exceed the similarity threshold. Fewer user messages than
// the window is never repetitive.
func IsRepetitive(msgs []Message) bool {
	var recent []string
	for i := len(msgs) - 1; i >= 0 && len(recent) < RepetitionWindow; i-- {
		if msgs[i].Role == "user" {
			recent = append(recent, msgs[i].Content)
		}
	}
	if len(recent) < RepetitionWindow {
		return false
	}
	for i := 0; i < len(recent); i++ {
		for j := i + 1; j < len(recent); j++ {
			if Similarity(recent[i], recent[j]) < RepetitionThreshold {
				return false
			}
		}
	}
	return true
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,!?;:'\"()")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}
