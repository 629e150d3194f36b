package mind

import (
	"fmt"
	"regexp"
	"strings"
)

// TopicSwitchThreshold is the token-overlap similarity above which a
// switch target is considered to mean an existing context's topic.
const TopicSwitchThreshold = 0.5

var switchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^switch\s+(?:back\s+)?to\s+(.+)$`),
	regexp.MustCompile(`(?i)^(?:let'?s\s+)?talk\s+about\s+(.+)$`),
	regexp.MustCompile(`(?i)^go\s+back\s+to\s+(.+)$`),
	regexp.MustCompile(`(?i)^change\s+(?:the\s+)?topic\s+to\s+(.+)$`),
	regexp.MustCompile(`(?i)^(.+?)\s+(?:ke\s+)?baare\s+mein\s+baat\s+karo$`),
	regexp.MustCompile(`(?i)^baat\s+karo\s+(.+)$`),
}

// ExtractSwitchTarget returns the topic/name the user wants to switch to,
// if the utterance is an explicit switch request.
func ExtractSwitchTarget(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	for _, p := range switchPatterns {
		if m := p.FindStringSubmatch(trimmed); m != nil {
			target := strings.Trim(strings.TrimSpace(m[1]), ".,!?")
			if target != "" {
				return target, true
			}
		}
	}
	return "", false
}

var topicStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "our": true, "me": true,
	"to": true, "for": true, "with": true, "about": true, "of": true,
	"and": true, "some": true, "that": true, "this": true, "please": true,
	"ke": true, "ki": true, "ka": true, "baare": true, "mein": true,
	"kuch": true,
}

// deriveTopic strips stopwords and keeps the first few meaningful tokens.
func deriveTopic(text string) string {
	var kept []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?")
		if tok == "" || topicStopwords[tok] {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == 3 {
			break
		}
	}
	return strings.Join(kept, " ")
}

// titleCase capitalizes each word for context display names.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ResolveSwitch handles an explicit switch request. Resolution order:
// exact name match, then topic similarity above the threshold (ties mean
// ambiguity and fall through to create), then create a new context named
// after the utterance. Idempotent: switching to the already-active
// context changes nothing and creates nothing.
func (cs *ContextStore) ResolveSwitch(text string) (bool, string, string, error) {
	target, ok := ExtractSwitchTarget(text)
	if !ok {
		return false, cs.ActiveID(), "", nil
	}

	// Exact name match.
	lowTarget := strings.ToLower(target)
	cs.mu.RLock()
	var exact *Context
	for _, c := range cs.contexts {
		if strings.ToLower(c.Name) == lowTarget {
			exact = c
			break
		}
	}
	cs.mu.RUnlock()
	if exact != nil {
		return cs.activate(exact)
	}

	// Topic similarity: best unique match above threshold; equal-best
	// ties are ambiguous, so a fresh context wins over a guess.
	cs.mu.RLock()
	var best *Context
	bestScore := 0.0
	tie := false
	for _, c := range cs.contexts {
		score := Similarity(target, c.Topic)
		if n := Similarity(target, c.Name); n > score {
			score = n
		}
		switch {
		case score > bestScore:
			best, bestScore, tie = c, score, false
		case score == bestScore && bestScore > 0:
			tie = true
		}
	}
	cs.mu.RUnlock()
	if best != nil && bestScore >= TopicSwitchThreshold && !tie {
		return cs.activate(best)
	}

	topic := deriveTopic(target)
	if topic == "" {
		topic = lowTarget
	}
	id, err := cs.Create(titleCase(target), topic, "")
	msg := fmt.Sprintf("Started a new conversation about %s.", target)
	return true, id, msg, err
}

func (cs *ContextStore) activate(c *Context) (bool, string, string, error) {
	if cs.ActiveID() == c.ID {
		return false, c.ID, fmt.Sprintf("We're already talking about %s.", c.Name), nil
	}
	err := cs.SwitchTo(c.ID)
	return true, c.ID, fmt.Sprintf("Switched to '%s'.", c.Name), err
}
