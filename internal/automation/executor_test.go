package automation

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoExecutor(t *testing.T) {
	out, err := EchoExecutor{}.Execute(context.Background(), "set_volume", "50")
	require.NoError(t, err)
	assert.Equal(t, "Done: set_volume (50).", out)

	out, err = EchoExecutor{}.Execute(context.Background(), "mute", "")
	require.NoError(t, err)
	assert.Equal(t, "Done: mute.", out)
}

func TestLocalExecutorUnsupportedAction(t *testing.T) {
	l := NewLocalExecutor(zerolog.Nop())
	_, err := l.Execute(context.Background(), "reboot_machine", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reboot_machine")
}

func TestTelURL(t *testing.T) {
	assert.Equal(t, "tel:+919876543210", telURL("+91 98765 43210"))
	assert.Equal(t, "tel:9876543210", telURL("9876543210"))
	assert.Equal(t, "tel:mom", telURL("mom"))
}

func TestCalendarURL(t *testing.T) {
	assert.Equal(t, "https://calendar.google.com/calendar/r", calendarURL(""))
	assert.Equal(t,
		"https://calendar.google.com/calendar/r/eventedit?text=team+meeting",
		calendarURL("team meeting"))
}

func TestCreateDocument(t *testing.T) {
	t.Chdir(t.TempDir())

	path, err := createDocument("Meeting Notes")
	require.NoError(t, err)
	assert.Equal(t, "meeting_notes.txt", path)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	path, err = createDocument("")
	require.NoError(t, err)
	assert.Equal(t, "untitled.txt", path)
}
