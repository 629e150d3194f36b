package mind

import "time"

// MoodType is a coarse emotional-tone classification of the user's most
// recent input. Steers reply tone and proactive suggestions.
type MoodType string

const (
	MoodNeutral    MoodType = "neutral"
	MoodHappy      MoodType = "happy"
	MoodFrustrated MoodType = "frustrated"
	MoodFocused    MoodType = "focused"
	MoodTired      MoodType = "tired"
	MoodUrgent     MoodType = "urgent"
	MoodConfused   MoodType = "confused"
)

// Known reports whether m is one of the defined mood values. Persisted
// moods pass through this so a corrupted store cannot seed an arbitrary
// string.
func (m MoodType) Known() bool {
	switch m {
	case MoodNeutral, MoodHappy, MoodFrustrated, MoodFocused, MoodTired, MoodUrgent, MoodConfused:
		return true
	}
	return false
}

// ConversationState tracks what a context is currently doing. Exactly one
// context is StateActive at a time across the whole engine.
type ConversationState string

const (
	StateIdle            ConversationState = "idle"
	StateActive          ConversationState = "active"
	StateWaitingForInput ConversationState = "waiting_for_input"
	StateProcessing      ConversationState = "processing"
	StateMultiTask       ConversationState = "multi_task"
	StateContextSwitch   ConversationState = "context_switch"
)

// Message is one turn in a context. Immutable once appended; ordering is
// insertion order.
type Message struct {
	Role    string    `json:"role"` // "user" | "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Context is a named, independently-tracked conversation thread with its
// own message history and activity state. Never hard-deleted.
type Context struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Topic        string            `json:"topic"`
	Messages     []Message         `json:"messages"`
	State        ConversationState `json:"state"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActiveAt time.Time         `json:"last_active_at"`
}

// ContextSummary is the list/overview view of a context.
type ContextSummary struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Topic        string            `json:"topic"`
	MessageCount int               `json:"message_count"`
	State        ConversationState `json:"state"`
	LastActiveAt time.Time         `json:"last_active_at"`
}

// IntentKind enumerates the fixed automation command set.
type IntentKind string

const (
	IntentOpenApp        IntentKind = "open_application"
	IntentCloseApp       IntentKind = "close_application"
	IntentSearchWeb      IntentKind = "search_web"
	IntentSearchYouTube  IntentKind = "search_youtube"
	IntentPlayMusic      IntentKind = "play_music"
	IntentSetVolume      IntentKind = "set_volume"
	IntentVolumeUp       IntentKind = "volume_up"
	IntentVolumeDown     IntentKind = "volume_down"
	IntentMute           IntentKind = "mute"
	IntentMakeCall       IntentKind = "make_call"
	IntentCreateDocument IntentKind = "create_document"
	IntentCalendarOp     IntentKind = "calendar_op"
	IntentScreenshot     IntentKind = "take_screenshot"
)

// Intent is the structured interpretation of an utterance. Produced fresh
// per utterance, never persisted as its own entity.
type Intent struct {
	Kind   IntentKind
	Params map[string]string
}

// Parameter returns the value the executor should receive for this intent.
func (i *Intent) Parameter() string {
	for _, key := range []string{"app_name", "query", "level", "contact_name", "phone_number", "title", "description"} {
		if v, ok := i.Params[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Suggestion is an ephemeral, advisory next-action hint. Never persisted.
type Suggestion struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reply is the outcome of one processed utterance, with observability
// metadata for the transport layer.
type Reply struct {
	Text          string   `json:"response"`
	Mood          MoodType `json:"mood"`
	Language      string   `json:"detected_language"`
	ContextID     string   `json:"context_id"`
	ActionFired   bool     `json:"action_fired"`
	PersistFailed bool     `json:"persist_failed,omitempty"`
}
