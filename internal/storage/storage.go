package storage

import (
	"fmt"
	"strings"
	"time"

	"deskmate/datastore"
	"deskmate/internal/mind"

	"github.com/rs/zerolog"
)

const (
	contextKeyPrefix = "context:"
	messageKeyPrefix = "messages:"
	moodKey          = "mood"
)

// Storage implements mind.Repository on top of the embedded datastore.
// Context metadata lives under context:<id> (overwrite-on-update), the
// ordered message log under messages:<id> (append-only). Every mutating
// call flushes to disk before returning, so persisted state always covers
// anything a caller has observed as committed.
type Storage struct {
	ds  *datastore.Store
	log zerolog.Logger
}

type contextRecord struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Topic        string                 `json:"topic"`
	State        mind.ConversationState `json:"state"`
	CreatedAt    time.Time              `json:"created_at"`
	LastActiveAt time.Time              `json:"last_active_at"`
}

type messageRecord struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

func New(filePath string, log zerolog.Logger) (*Storage, error) {
	cfg := datastore.DefaultConfig(filePath)
	cfg.Logger = log.With().Str("component", "datastore").Logger()
	ds, err := datastore.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds, log: log.With().Str("component", "storage").Logger()}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// LoadContexts reconstructs every context with its full message history.
func (s *Storage) LoadContexts() ([]*mind.Context, error) {
	var out []*mind.Context
	for _, key := range s.ds.Keys(contextKeyPrefix) {
		id := strings.TrimPrefix(key, contextKeyPrefix)

		var rec contextRecord
		found, err := s.ds.Get(key, &rec)
		if err != nil {
			return nil, fmt.Errorf("load context %s: %w", id, err)
		}
		if !found {
			continue
		}

		var msgs []messageRecord
		if _, err := s.ds.Get(messageKeyPrefix+id, &msgs); err != nil {
			return nil, fmt.Errorf("load messages for %s: %w", id, err)
		}

		c := &mind.Context{
			ID:           rec.ID,
			Name:         rec.Name,
			Topic:        rec.Topic,
			State:        rec.State,
			CreatedAt:    rec.CreatedAt,
			LastActiveAt: rec.LastActiveAt,
		}
		for _, m := range msgs {
			c.Messages = append(c.Messages, mind.Message{Role: m.Role, Content: m.Content, At: m.At})
		}
		out = append(out, c)
	}
	s.log.Debug().Int("count", len(out)).Msg("contexts loaded")
	return out, nil
}

// SaveContext overwrites context metadata and flushes.
func (s *Storage) SaveContext(c *mind.Context) error {
	rec := contextRecord{
		ID:           c.ID,
		Name:         c.Name,
		Topic:        c.Topic,
		State:        c.State,
		CreatedAt:    c.CreatedAt,
		LastActiveAt: c.LastActiveAt,
	}
	if err := s.ds.Put(contextKeyPrefix+c.ID, rec); err != nil {
		return err
	}
	return s.ds.SaveToFile()
}

// AppendMessage appends to the context's log and flushes.
func (s *Storage) AppendMessage(contextID string, m mind.Message) error {
	key := messageKeyPrefix + contextID
	var msgs []messageRecord
	if _, err := s.ds.Get(key, &msgs); err != nil {
		return err
	}
	msgs = append(msgs, messageRecord{Role: m.Role, Content: m.Content, At: m.At})
	if err := s.ds.Put(key, msgs); err != nil {
		return err
	}
	return s.ds.SaveToFile()
}

// SaveMood persists the current mood so a restart resumes with the same
// tone instead of resetting to neutral mid-conversation.
func (s *Storage) SaveMood(m mind.MoodType) error {
	if err := s.ds.Put(moodKey, string(m)); err != nil {
		return err
	}
	return s.ds.SaveToFile()
}

func (s *Storage) LoadMood() (mind.MoodType, error) {
	var raw string
	found, err := s.ds.Get(moodKey, &raw)
	if err != nil {
		return mind.MoodNeutral, err
	}
	mood := mind.MoodType(raw)
	if !found || !mood.Known() {
		return mind.MoodNeutral, nil
	}
	return mood, nil
}
