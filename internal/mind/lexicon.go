package mind

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// errRuleNoMatch tells the matcher to keep scanning: the trigger hit but
// the utterance carries no usable parameter, so it falls through to the
// conversational path instead of guessing.
var errRuleNoMatch = errors.New("rule did not match")

type extractorFunc func(text string, groups []string) (map[string]string, error)

type rule struct {
	pattern *regexp.Regexp
	kind    IntentKind
	extract extractorFunc
}

// The rule table is ordered most-specific-first: volume up/down/mute
// before the number-bearing set_volume, youtube search before web search,
// call before the generic open. Each intent carries English and
// transliterated-Hindi trigger variants.
var rules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)\bmute\b|\bawaa?z\s+band\b|\bchup\s+ho\b`),
		kind:    IntentMute,
		extract: noParams,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:volume|awaa?z|sound)\s+(?:up|badha(?:o|\s+do)?|zyada)\b|\bincrease\s+(?:the\s+)?volume\b`),
		kind:    IntentVolumeUp,
		extract: noParams,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:volume|awaa?z|sound)\s+(?:down|kam|ghatao?)\b|\b(?:decrease|lower|reduce)\s+(?:the\s+)?volume\b`),
		kind:    IntentVolumeDown,
		extract: noParams,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:volume|awaa?z)\b`),
		kind:    IntentSetVolume,
		extract: extractVolumeLevel,
	},
	{
		pattern: regexp.MustCompile(`(?i)\byoutube\s+(?:pe|par|me|mein)\s+(?:search\s+kar(?:o)?|dhoondo?)\s+(.+)|\bsearch\s+(?:for\s+)?(.+?)\s+on\s+youtube\b|\byoutube\s+search\s+(.+)`),
		kind:    IntentSearchYouTube,
		extract: extractQuery,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bgoogle\s+(?:me|mein|pe|par)\s+search\s+kar(?:o)?\s+(.+)|\bsearch\s+(?:the\s+web\s+)?for\s+(.+)|\bsearch\s+(.+)|\bgoogle\s+(.+)|\bdhoondo?\s+(.+)`),
		kind:    IntentSearchWeb,
		extract: extractQuery,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bplay\s+(?:some\s+)?music\b|\bmusic\s+baja(?:o)?\b|\bgaana\s+bajao?\b|\bplay\s+(.+)`),
		kind:    IntentPlayMusic,
		extract: extractSong,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bcall\s+(.+)|\bphone\s+kar(?:o)?\s+(.+?)(?:\s+ko)?\s*$|\bdial\s+(.+)`),
		kind:    IntentMakeCall,
		extract: extractCallTarget,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bschedule\s+(?:a\s+|an\s+)?(.+)|\badd\s+(?:an?\s+)?event\b\s*(.*)|\bmeeting\s+rakho\b|\bcheck\s+(?:my\s+)?calendar\b`),
		kind:    IntentCalendarOp,
		extract: extractCalendar,
	},
	{
		pattern: regexp.MustCompile(`(?i)\btake\s+a?\s*screenshot\b|\bscreenshot\b|\bcapture\s+(?:the\s+)?screen\b|\bscreen\s+capture\b`),
		kind:    IntentScreenshot,
		extract: noParams,
	},
	{
		pattern: regexp.MustCompile(`(?i)\bcreate\s+(?:a\s+)?(?:new\s+)?(?:document|doc|note|file)\b(?:\s+(?:named|called|about)\s+(.+))?|\bnote\s+banao?\b|\blikho\s+(.+)`),
		kind:    IntentCreateDocument,
		extract: extractTitle,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:close|quit|exit|kill)\s+(.+)|\b(.+?)\s+band\s+kar(?:o)?\b|\bband\s+kar(?:o)?\s+(.+)`),
		kind:    IntentCloseApp,
		extract: extractAppName,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:open|launch|start|run)\s+(.+)|\b(.+?)\s+(?:kholo|chalao)\b|\bkholo\s+(.+)`),
		kind:    IntentOpenApp,
		extract: extractAppName,
	},
}

// ExtractIntent maps an utterance to an intent plus parameters via the
// ordered rule table. Returns (nil, nil) when no rule matches; the
// caller falls through to a conversational reply. A matched rule whose
// required parameter cannot be parsed returns ErrParameterExtraction.
func ExtractIntent(text string) (*Intent, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		params, err := r.extract(trimmed, m)
		if errors.Is(err, errRuleNoMatch) {
			continue
		}
		if err != nil {
			return nil, &ParameterError{Kind: r.kind, Err: err}
		}
		return &Intent{Kind: r.kind, Params: params}, nil
	}
	return nil, nil
}

func noParams(string, []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func firstGroup(groups []string) string {
	for _, g := range groups[1:] {
		if g = strings.TrimSpace(g); g != "" {
			return g
		}
	}
	return ""
}

func extractVolumeLevel(text string, _ []string) (map[string]string, error) {
	n, ok := ExtractNumber(text)
	if !ok {
		return nil, errRuleNoMatch
	}
	if n < 0 || n > 100 {
		return nil, fmt.Errorf("%w: volume level %d out of range 0-100", ErrParameterExtraction, n)
	}
	return map[string]string{"level": strconv.Itoa(n)}, nil
}

// launchTail spots utterances like "google maps kholo" that a broad
// search trigger would swallow; such text belongs to the app rules.
var launchTail = regexp.MustCompile(`(?i)\b(?:kholo|chalao|band\s+kar(?:o)?)\s*$`)

func extractQuery(_ string, groups []string) (map[string]string, error) {
	q := cleanParam(firstGroup(groups))
	if q == "" || launchTail.MatchString(q) {
		return nil, errRuleNoMatch
	}
	return map[string]string{"query": q}, nil
}

func extractSong(_ string, groups []string) (map[string]string, error) {
	song := cleanParam(firstGroup(groups))
	if song == "" || song == "music" || strings.HasPrefix(song, "some") {
		song = "popular music"
	}
	return map[string]string{"query": song}, nil
}

var digitsOnly = regexp.MustCompile(`^[\d\s\-+()]{7,}$`)

func extractCallTarget(_ string, groups []string) (map[string]string, error) {
	target := cleanParam(firstGroup(groups))
	if target == "" {
		return nil, errRuleNoMatch
	}
	if digitsOnly.MatchString(target) {
		return map[string]string{"phone_number": strings.Join(strings.Fields(target), "")}, nil
	}
	return map[string]string{"contact_name": target}, nil
}

func extractCalendar(text string, groups []string) (map[string]string, error) {
	desc := cleanParam(firstGroup(groups))
	if desc == "" {
		desc = cleanParam(text)
	}
	return map[string]string{"description": desc}, nil
}

func extractTitle(_ string, groups []string) (map[string]string, error) {
	title := cleanParam(firstGroup(groups))
	if title == "" {
		title = "untitled"
	}
	return map[string]string{"title": title}, nil
}

var appFillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "please": true,
	"app": true, "application": true, "for": true, "me": true, "up": true,
	"karo": true, "kar": true, "do": true, "abhi": true, "yaar": true,
	"bhai": true, "hi": true, "hey": true,
}

func extractAppName(_ string, groups []string) (map[string]string, error) {
	raw := cleanParam(firstGroup(groups))
	if raw == "" {
		return nil, errRuleNoMatch
	}
	var kept []string
	for _, tok := range strings.Fields(raw) {
		tok = strings.Trim(tok, ".,!?")
		if tok != "" && !appFillerWords[strings.ToLower(tok)] {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return nil, errRuleNoMatch
	}
	return map[string]string{"app_name": strings.Join(kept, " ")}, nil
}

func cleanParam(s string) string {
	return strings.Trim(strings.TrimSpace(s), ".,!?")
}
