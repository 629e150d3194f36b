package mind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMood(t *testing.T) {
	tests := []struct {
		name string
		text string
		want MoodType
	}{
		{"frustrated", "This is so frustrating! Why doesn't it work?", MoodFrustrated},
		{"happy", "This is awesome! Thank you so much!", MoodHappy},
		{"urgent", "I need this done ASAP! It's urgent!", MoodUrgent},
		{"confused", "I don't understand what's happening. Can you explain?", MoodConfused},
		{"tired", "I'm exhausted after such a long day", MoodTired},
		{"focused", "I need to concentrate on deep work now", MoodFocused},
		{"neutral", "please show me the weather", MoodNeutral},
		{"hinglish urgent", "jaldi karo yaar", MoodUrgent},
		{"hinglish happy", "badhiya kaam, shukriya", MoodHappy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyMood(tt.text))
		})
	}
}

// Urgency and frustration override a simultaneous happy word: the
// category priority order is the tie-break.
func TestClassifyMoodPriorityTieBreak(t *testing.T) {
	texts := []string{
		"this is awesome but I need it urgent",
		"thank you, please hurry it's an emergency",
		"great work, now do the rest asap",
	}
	for _, text := range texts {
		assert.Equal(t, MoodUrgent, classifyMood(text), "text: %s", text)
	}

	assert.Equal(t, MoodFrustrated, classifyMood("thanks but it's still broken"))
}

func TestMoodStateObserve(t *testing.T) {
	ms := NewMoodState()
	assert.Equal(t, MoodNeutral, ms.Current())

	got := ms.Observe("this is so frustrating")
	assert.Equal(t, MoodFrustrated, got)
	assert.Equal(t, MoodFrustrated, ms.Current())

	// A single neutral message does not reset a non-neutral mood.
	ms.Observe("open the file manager")
	assert.Equal(t, MoodFrustrated, ms.Current())

	// The second consecutive neutral observation does.
	ms.Observe("show me my files")
	assert.Equal(t, MoodNeutral, ms.Current())
}

func TestMoodStateEmptyTextKeepsMood(t *testing.T) {
	ms := NewMoodState()
	ms.Observe("hurry please, it's urgent")
	assert.Equal(t, MoodUrgent, ms.Current())

	before := len(ms.Window())
	got := ms.Observe("   ")
	assert.Equal(t, MoodUrgent, got)
	assert.Equal(t, MoodUrgent, ms.Current())
	assert.Equal(t, before, len(ms.Window()), "window should not grow on empty text")
}

// A corrupted persisted value must not leak into the state.
func TestMoodStateRestoreRejectsUnknown(t *testing.T) {
	ms := NewMoodState()
	ms.Restore(MoodType("ecstatic"))
	assert.Equal(t, MoodNeutral, ms.Current())

	ms.Restore(MoodTired)
	assert.Equal(t, MoodTired, ms.Current())
}

func TestMoodStateWindowBounded(t *testing.T) {
	ms := NewMoodState()
	for i := 0; i < 10; i++ {
		ms.Observe("hello there")
	}
	assert.LessOrEqual(t, len(ms.Window()), MoodWindowSize)
}
