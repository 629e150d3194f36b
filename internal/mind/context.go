package mind

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository is the narrow persistence contract the engine needs. Message
// logs are append-only and keyed by context id; context metadata is
// overwrite-on-update. Implementations must flush synchronously: once a
// call returns nil, the data survives a restart.
type Repository interface {
	LoadContexts() ([]*Context, error)
	SaveContext(c *Context) error
	AppendMessage(contextID string, m Message) error
	SaveMood(m MoodType) error
	LoadMood() (MoodType, error)
}

// ContextStore holds every conversation context in memory, backed by the
// repository. Load-on-construct restores full message history so "switch
// back to our email discussion" works across restarts.
type ContextStore struct {
	mu       sync.RWMutex
	repo     Repository
	contexts map[string]*Context
	activeID string
	log      zerolog.Logger
	nowFn    func() time.Time
}

func NewContextStore(repo Repository, log zerolog.Logger) (*ContextStore, error) {
	cs := &ContextStore{
		repo:     repo,
		contexts: make(map[string]*Context),
		log:      log.With().Str("component", "contexts").Logger(),
		nowFn:    time.Now,
	}
	loaded, err := repo.LoadContexts()
	if err != nil {
		return nil, fmt.Errorf("load contexts: %w", err)
	}
	for _, c := range loaded {
		cs.contexts[c.ID] = c
		if c.State == StateActive {
			// Last one wins if the store ever held two actives; the
			// invariant is restored below.
			if cs.activeID != "" {
				cs.contexts[cs.activeID].State = StateIdle
			}
			cs.activeID = c.ID
		}
	}
	cs.log.Info().Int("contexts", len(cs.contexts)).Str("active", cs.activeID).Msg("contexts restored")
	return cs, nil
}

// Create makes a new context, activates it and persists. The previous
// active context goes idle. initialMessage, when non-empty, becomes the
// first user message.
func (cs *ContextStore) Create(name, topic, initialMessage string) (string, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.nowFn()
	c := &Context{
		ID:           uuid.NewString(),
		Name:         name,
		Topic:        topic,
		State:        StateActive,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	var persistErr error
	if cs.activeID != "" {
		prev := cs.contexts[cs.activeID]
		prev.State = StateIdle
		if err := cs.repo.SaveContext(prev); err != nil {
			persistErr = err
		}
	}
	cs.contexts[c.ID] = c
	cs.activeID = c.ID
	if err := cs.repo.SaveContext(c); err != nil {
		persistErr = err
	}
	if initialMessage != "" {
		m := Message{Role: "user", Content: initialMessage, At: now}
		c.Messages = append(c.Messages, m)
		if err := cs.repo.AppendMessage(c.ID, m); err != nil {
			persistErr = err
		}
	}
	cs.log.Info().Str("context_id", c.ID).Str("name", name).Str("topic", topic).Msg("context created")
	if persistErr != nil {
		return c.ID, fmt.Errorf("persist context: %w", persistErr)
	}
	return c.ID, nil
}

// Get returns the context by id.
func (cs *ContextStore) Get(id string) (*Context, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	c, ok := cs.contexts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContextNotFound, id)
	}
	return c, nil
}

// ActiveID returns the id of the active context, or "" before any context
// exists.
func (cs *ContextStore) ActiveID() string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.activeID
}

// Active returns the active context or nil.
func (cs *ContextStore) Active() *Context {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if cs.activeID == "" {
		return nil
	}
	return cs.contexts[cs.activeID]
}

// SwitchTo activates the given context: previous active goes idle, target
// goes active. Both transitions persist before returning.
func (cs *ContextStore) SwitchTo(id string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	target, ok := cs.contexts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContextNotFound, id)
	}
	if cs.activeID == id {
		return nil
	}

	var persistErr error
	if cs.activeID != "" {
		prev := cs.contexts[cs.activeID]
		prev.State = StateIdle
		if err := cs.repo.SaveContext(prev); err != nil {
			persistErr = err
		}
	}
	target.State = StateActive
	target.LastActiveAt = cs.nowFn()
	cs.activeID = id
	if err := cs.repo.SaveContext(target); err != nil {
		persistErr = err
	}
	cs.log.Debug().Str("context_id", id).Str("name", target.Name).Msg("context switched")
	if persistErr != nil {
		return fmt.Errorf("persist switch: %w", persistErr)
	}
	return nil
}

// AppendMessage appends to the context's log and persists the message and
// the bumped metadata synchronously.
func (cs *ContextStore) AppendMessage(id, role, content string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c, ok := cs.contexts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContextNotFound, id)
	}
	m := Message{Role: role, Content: content, At: cs.nowFn()}
	c.Messages = append(c.Messages, m)
	c.LastActiveAt = m.At
	if err := cs.repo.AppendMessage(id, m); err != nil {
		return fmt.Errorf("persist message: %w", err)
	}
	if err := cs.repo.SaveContext(c); err != nil {
		return fmt.Errorf("persist context: %w", err)
	}
	return nil
}

// List returns summaries of all contexts, most recently active first.
func (cs *ContextStore) List() []ContextSummary {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]ContextSummary, 0, len(cs.contexts))
	for _, c := range cs.contexts {
		out = append(out, ContextSummary{
			ID:           c.ID,
			Name:         c.Name,
			Topic:        c.Topic,
			MessageCount: len(c.Messages),
			State:        c.State,
			LastActiveAt: c.LastActiveAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActiveAt.After(out[j].LastActiveAt) })
	return out
}

// History returns the last limit messages of a context in insertion
// order. limit <= 0 returns everything.
func (cs *ContextStore) History(id string, limit int) ([]Message, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	c, ok := cs.contexts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContextNotFound, id)
	}
	msgs := c.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Count returns how many contexts exist.
func (cs *ContextStore) Count() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.contexts)
}
