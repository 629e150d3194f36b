package mind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("hello world", "hello world"))
	assert.Equal(t, 1.0, Similarity("Hello, World!", "hello world"))
	assert.Equal(t, 0.0, Similarity("open notepad", "close calculator"))
	assert.Greater(t, Similarity("open notepad", "open the notepad"), 0.5)
	assert.Less(t, Similarity("open notepad", "search the web"), 0.5)
}

func TestSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("hello", ""))
}

func userMsgs(contents ...string) []Message {
	var msgs []Message
	for _, c := range contents {
		msgs = append(msgs, Message{Role: "user", Content: c, At: time.Now()})
		msgs = append(msgs, Message{Role: "assistant", Content: "ok", At: time.Now()})
	}
	return msgs
}

// The detector flips exactly at the RepetitionWindow-th repeat.
func TestIsRepetitiveBoundary(t *testing.T) {
	two := userMsgs("please open notepad", "please open notepad")
	assert.False(t, IsRepetitive(two), "K-1 repeats must not flag")

	three := userMsgs("please open notepad", "please open notepad", "please open notepad")
	assert.True(t, IsRepetitive(three), "K repeats must flag")
}

func TestIsRepetitiveVariedMessages(t *testing.T) {
	msgs := userMsgs("please open notepad", "search for pizza", "play some jazz")
	assert.False(t, IsRepetitive(msgs))
}

func TestIsRepetitiveNearDuplicates(t *testing.T) {
	msgs := userMsgs("open notepad please", "please open notepad", "open notepad")
	assert.True(t, IsRepetitive(msgs))
}
