package mind

import (
	"strings"
	"sync"
)

// Mood categories are tested in a fixed priority order: urgency and
// frustration override a simultaneous "happy" word. First hit wins.
var moodKeywords = []struct {
	Mood  MoodType
	Words []string
}{
	{MoodUrgent, []string{
		"urgent", "asap", "immediately", "right now", "emergency", "quick",
		"hurry", "jaldi", "abhi karo", "turant",
	}},
	{MoodFrustrated, []string{
		"frustrat", "annoying", "annoyed", "doesn't work", "doesnt work",
		"not working", "broken", "stupid", "hate", "ugh", "why doesn't",
		"why doesnt", "pareshan", "bekar", "kharab",
	}},
	{MoodConfused, []string{
		"confused", "don't understand", "dont understand", "what do you mean",
		"explain", "how does", "unclear", "lost", "samajh nahi", "samjha nahi",
		"matlab kya",
	}},
	{MoodHappy, []string{
		"happy", "awesome", "great", "thank", "love", "perfect", "excellent",
		"wonderful", "amazing", "nice", "badhiya", "mast", "shukriya",
		"dhanyawad",
	}},
	{MoodTired, []string{
		"tired", "exhausted", "sleepy", "long day", "worn out", "thaka",
		"thak gaya", "neend",
	}},
	{MoodFocused, []string{
		"focus", "concentrate", "deep work", "do not disturb", "busy",
		"working on", "dhyan",
	}},
}

// classifyMood scores text against the keyword table and returns the first
// category with a hit, or neutral.
func classifyMood(text string) MoodType {
	lower := strings.ToLower(text)
	for _, cat := range moodKeywords {
		for _, w := range cat.Words {
			if strings.Contains(lower, w) {
				return cat.Mood
			}
		}
	}
	return MoodNeutral
}

const (
	// MoodWindowSize is how many recent observations the state keeps.
	MoodWindowSize = 5
	// NeutralResetStreak is how many consecutive neutral observations it
	// takes before a non-neutral current mood falls back to neutral. A
	// single bland message does not wipe out a frustrated streak.
	NeutralResetStreak = 2
)

// MoodState holds the engine's current mood plus a short rolling window of
// observations used to damp oscillation. One per engine instance.
type MoodState struct {
	mu      sync.RWMutex
	current MoodType
	window  []MoodType
}

func NewMoodState() *MoodState {
	return &MoodState{current: MoodNeutral}
}

// Observe classifies text, pushes the observation onto the window and
// updates the current mood. Returns the raw classification for this text;
// Current applies the damping rule. Empty text leaves state untouched.
func (ms *MoodState) Observe(text string) MoodType {
	if strings.TrimSpace(text) == "" {
		return ms.Current()
	}
	detected := classifyMood(text)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.window = append(ms.window, detected)
	if len(ms.window) > MoodWindowSize {
		ms.window = ms.window[len(ms.window)-MoodWindowSize:]
	}

	if detected != MoodNeutral {
		ms.current = detected
		return detected
	}

	// Damping: only reset to neutral after NeutralResetStreak neutral
	// observations in a row.
	streak := 0
	for i := len(ms.window) - 1; i >= 0; i-- {
		if ms.window[i] != MoodNeutral {
			break
		}
		streak++
	}
	if streak >= NeutralResetStreak {
		ms.current = MoodNeutral
	}
	return detected
}

// Current returns the damped mood. Never empty.
func (ms *MoodState) Current() MoodType {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if ms.current == "" {
		return MoodNeutral
	}
	return ms.current
}

// Window returns a copy of the recent observations, oldest first.
func (ms *MoodState) Window() []MoodType {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]MoodType, len(ms.window))
	copy(out, ms.window)
	return out
}

// Restore seeds the current mood, e.g. from persistence at startup.
// Unknown values are ignored so the state always holds a defined mood.
func (ms *MoodState) Restore(m MoodType) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if m.Known() {
		ms.current = m
	}
}
