package mind

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Rough utterance categories for the conversational path (no intent).
const (
	catGreeting       = "greeting"
	catQuestion       = "question"
	catThanks         = "thanks"
	catCapability     = "capability"
	catAcknowledgment = "acknowledgment"
	catTime           = "time"
	catDate           = "date"
	catUnknown        = "unknown"
)

var greetingWords = []string{
	"hello", "hi ", "hi!", "hey", "good morning", "good afternoon",
	"good evening", "namaste", "kaise ho", "how are you",
}

var thanksWords = []string{
	"thank", "thanks", "shukriya", "dhanyawad", "appreciate",
}

var capabilityWords = []string{
	"what can you", "what do you do", "your features", "what are your",
	"help me with", "can you assist", "tell me what you", "who are you",
	"about yourself", "kya kar sakte",
}

var ackWords = []string{
	"ok", "okay", "yes", "no", "sure", "alright", "fine", "haan", "nahi",
	"theek hai", "got it",
}

func categorize(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case containsAny(lower, []string{"time kya", "what time", "what's the time", "whats the time", "time batao", "current time"}):
		return catTime
	case containsAny(lower, []string{"what date", "what's the date", "whats the date", "date batao", "today's date", "aaj ki date", "current date"}):
		return catDate
	case containsAny(lower, capabilityWords):
		return catCapability
	case containsAny(lower, thanksWords):
		return catThanks
	case containsAny(lower, greetingWords) || lower == "hi":
		return catGreeting
	case isAck(lower):
		return catAcknowledgment
	case strings.HasSuffix(lower, "?") || containsAny(lower, []string{"what ", "how ", "why ", "when ", "where ", "kya ", "kaise "}):
		return catQuestion
	default:
		return catUnknown
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isAck(lower string) bool {
	trimmed := strings.Trim(lower, ".,! ")
	for _, w := range ackWords {
		if trimmed == w {
			return true
		}
	}
	return false
}

// replyBank holds rotation variants per category. The engine advances the
// rotation when the repetition detector fires so the user never gets the
// same canned line three times in a row.
var replyBank = map[string][]string{
	catGreeting: {
		"Hello! How can I help you today?",
		"Hi there. What do you need?",
		"Hey! What's on your mind?",
	},
	catQuestion: {
		"Good question — can you give me a bit more detail?",
		"I want to get that right. Could you narrow it down?",
		"Tell me a little more and I'll take a shot at it.",
	},
	catThanks: {
		"Anytime!",
		"Happy to help.",
		"You're welcome!",
	},
	catCapability: {
		"I can open and close apps, search the web or YouTube, play music, control volume, make calls, create documents and manage your calendar. Just ask in English or Hinglish.",
		"Try things like 'open chrome', 'volume 50 karo', 'play some music' or 'search for pizza places'.",
	},
	catAcknowledgment: {
		"Got it.",
		"Alright.",
		"Noted.",
	},
	catUnknown: {
		"I'm not sure I caught that. Could you rephrase?",
		"I didn't recognize a command there. Try 'open chrome' or 'play music'.",
		"Could you say that a different way?",
	},
}

// clarificationFor words the re-ask by which intent stumbled on its
// parameter.
func clarificationFor(err error) string {
	var perr *ParameterError
	if !errors.As(err, &perr) {
		return "I didn't quite get that. Could you rephrase?"
	}
	if perr.Kind == IntentSetVolume {
		return "I understood a volume command but couldn't read a valid level between 0 and 100. Could you repeat it with a number?"
	}
	return fmt.Sprintf("I understood a %s request but missed a detail I need. Could you say it again with the specifics?", perr.Kind)
}

// moodPrefix colors a canned reply with the current mood.
var moodPrefix = map[MoodType]string{
	MoodFrustrated: "I hear the frustration — let's fix this. ",
	MoodUrgent:     "On it, quickly: ",
	MoodConfused:   "No worries, let's take it slow. ",
	MoodTired:      "Let's keep this easy. ",
	MoodHappy:      "Glad to hear it! ",
}

// conversationalReply picks the rotation-th variant for a category and
// applies mood tone. Greetings and thanks skip the negative prefixes so
// "good morning" never gets an apology bolted on.
func conversationalReply(category string, mood MoodType, rotation int, now time.Time) string {
	switch category {
	case catTime:
		return "It's " + now.Format("3:04 PM") + "."
	case catDate:
		return "Today is " + now.Format("Monday, January 2") + "."
	}

	variants := replyBank[category]
	if len(variants) == 0 {
		variants = replyBank[catUnknown]
	}
	text := variants[rotation%len(variants)]

	if category == catGreeting || category == catThanks || category == catAcknowledgment {
		if mood == MoodHappy {
			return moodPrefix[MoodHappy] + text
		}
		return text
	}
	if prefix, ok := moodPrefix[mood]; ok {
		return prefix + text
	}
	return text
}
