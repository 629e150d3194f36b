package storage

import (
	"path/filepath"
	"testing"
	"time"

	"deskmate/internal/mind"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStorage(t *testing.T, path string) *Storage {
	t.Helper()
	s, err := New(path, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.json")
	now := time.Now()

	s := openStorage(t, path)
	work := &mind.Context{
		ID: "ctx-work", Name: "Work", Topic: "work stuff",
		State: mind.StateIdle, CreatedAt: now, LastActiveAt: now,
	}
	email := &mind.Context{
		ID: "ctx-email", Name: "Email", Topic: "email drafts",
		State: mind.StateActive, CreatedAt: now, LastActiveAt: now,
	}
	require.NoError(t, s.SaveContext(work))
	require.NoError(t, s.SaveContext(email))

	contents := []string{"draft the reply", "done, anything else?", "send it", "sent"}
	for i, c := range contents {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		require.NoError(t, s.AppendMessage("ctx-email", mind.Message{Role: role, Content: c, At: now}))
	}
	require.NoError(t, s.SaveMood(mind.MoodFocused))
	require.NoError(t, s.Close())

	reopened := openStorage(t, path)
	defer reopened.Close()

	contexts, err := reopened.LoadContexts()
	require.NoError(t, err)
	require.Len(t, contexts, 2)

	byID := map[string]*mind.Context{}
	for _, c := range contexts {
		byID[c.ID] = c
	}
	require.Contains(t, byID, "ctx-work")
	require.Contains(t, byID, "ctx-email")
	assert.Equal(t, mind.StateIdle, byID["ctx-work"].State)
	assert.Equal(t, mind.StateActive, byID["ctx-email"].State)
	assert.Equal(t, "email drafts", byID["ctx-email"].Topic)

	msgs := byID["ctx-email"].Messages
	require.Len(t, msgs, len(contents))
	for i, c := range contents {
		assert.Equal(t, c, msgs[i].Content, "message %d out of order", i)
	}
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.WithinDuration(t, now, msgs[0].At, time.Second)

	mood, err := reopened.LoadMood()
	require.NoError(t, err)
	assert.Equal(t, mind.MoodFocused, mood)
}

func TestStorageMoodDefaultsToNeutral(t *testing.T) {
	s := openStorage(t, filepath.Join(t.TempDir(), "assistant.json"))
	defer s.Close()

	mood, err := s.LoadMood()
	require.NoError(t, err)
	assert.Equal(t, mind.MoodNeutral, mood)
}

// Every mutation flushes before returning, so a reader opening the same
// file sees the data even though the writer never called Close.
func TestStorageMutationsAreSynchronous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.json")
	now := time.Now()

	writer := openStorage(t, path)
	defer writer.Close()
	require.NoError(t, writer.SaveContext(&mind.Context{
		ID: "ctx-1", Name: "General", Topic: "general",
		State: mind.StateActive, CreatedAt: now, LastActiveAt: now,
	}))
	require.NoError(t, writer.AppendMessage("ctx-1", mind.Message{Role: "user", Content: "hello", At: now}))

	reader := openStorage(t, path)
	defer reader.Close()
	contexts, err := reader.LoadContexts()
	require.NoError(t, err)
	require.Len(t, contexts, 1)
	require.Len(t, contexts[0].Messages, 1)
	assert.Equal(t, "hello", contexts[0].Messages[0].Content)
}

// A store carrying a value outside the mood enum reads back as neutral.
func TestStorageCorruptMoodFallsBackToNeutral(t *testing.T) {
	s := openStorage(t, filepath.Join(t.TempDir(), "assistant.json"))
	defer s.Close()

	require.NoError(t, s.ds.Put("mood", "ecstatic"))
	mood, err := s.LoadMood()
	require.NoError(t, err)
	assert.Equal(t, mind.MoodNeutral, mood)
}

func TestStorageSaveContextOverwrites(t *testing.T) {
	s := openStorage(t, filepath.Join(t.TempDir(), "assistant.json"))
	defer s.Close()
	now := time.Now()

	c := &mind.Context{ID: "ctx-1", Name: "General", Topic: "general", State: mind.StateActive, CreatedAt: now, LastActiveAt: now}
	require.NoError(t, s.SaveContext(c))
	c.State = mind.StateIdle
	require.NoError(t, s.SaveContext(c))

	contexts, err := s.LoadContexts()
	require.NoError(t, err)
	require.Len(t, contexts, 1)
	assert.Equal(t, mind.StateIdle, contexts[0].State)
}
