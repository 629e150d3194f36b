package mind

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Executor performs real side effects (launching apps, calling APIs) on
// behalf of a recognized intent. The engine never inspects how actions
// are implemented; it reports the returned text or the error verbatim.
type Executor interface {
	Execute(ctx context.Context, action, parameter string) (string, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, action, parameter string) (string, error)

func (f ExecutorFunc) Execute(ctx context.Context, action, parameter string) (string, error) {
	return f(ctx, action, parameter)
}

// Engine is the top-level orchestrator: mood, context resolution, intent
// extraction and reply composition. Utterances are processed one at a
// time behind a mutex: mood and the active-context pointer are shared
// mutable state with no merge semantics for concurrent updates.
type Engine struct {
	mu       sync.Mutex
	mood     *MoodState
	contexts *ContextStore
	exec     Executor
	repo     Repository
	rotation map[string]int
	log      zerolog.Logger
	nowFn    func() time.Time
}

// New builds an engine on top of the repository, restoring contexts and
// the last persisted mood.
func New(repo Repository, exec Executor, log zerolog.Logger) (*Engine, error) {
	cs, err := NewContextStore(repo, log)
	if err != nil {
		return nil, err
	}
	mood := NewMoodState()
	if m, err := repo.LoadMood(); err == nil {
		mood.Restore(m)
	}
	return &Engine{
		mood:     mood,
		contexts: cs,
		exec:     exec,
		repo:     repo,
		rotation: make(map[string]int),
		log:      log.With().Str("component", "engine").Logger(),
		nowFn:    time.Now,
	}, nil
}

// Contexts exposes the context store for transports (listing, history,
// explicit context creation).
func (e *Engine) Contexts() *ContextStore {
	return e.contexts
}

// Mood returns the current damped mood.
func (e *Engine) Mood() MoodType {
	return e.mood.Current()
}

// Suggestions returns proactive suggestions for now and the current mood.
func (e *Engine) Suggestions() []Suggestion {
	return GetSuggestions(e.nowFn(), e.mood.Current())
}

// ProcessUtterance runs one utterance through the full pipeline:
// mood -> context resolution -> intent extraction -> dispatch or
// conversational reply -> persistence. Every failure path still yields a
// textual reply; persistence trouble is flagged on the reply rather than
// dropped silently.
func (e *Engine) ProcessUtterance(ctx context.Context, text string) (*Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lang := DetectLanguage(text)
	detected := e.mood.Observe(text)
	persistFailed := false
	if err := e.repo.SaveMood(e.mood.Current()); err != nil {
		persistFailed = true
		e.log.Error().Err(err).Msg("mood persist failed")
	}

	if strings.TrimSpace(text) == "" {
		return &Reply{
			Text:      "I didn't catch that — what do you need?",
			Mood:      e.mood.Current(),
			Language:  lang,
			ContextID: e.contexts.ActiveID(),
		}, nil
	}

	// Explicit context switches short-circuit the pipeline: the reply is
	// the switch confirmation itself.
	if switched, targetID, switchMsg, err := e.contexts.ResolveSwitch(text); switchMsg != "" {
		if err != nil {
			persistFailed = true
			e.log.Error().Err(err).Msg("context switch persist failed")
		}
		persistFailed = e.recordTurn(targetID, text, switchMsg) || persistFailed
		e.log.Info().Bool("switched", switched).Str("context_id", targetID).Msg("context switch request")
		return &Reply{
			Text:          switchMsg,
			Mood:          detected,
			Language:      lang,
			ContextID:     targetID,
			PersistFailed: persistFailed,
		}, nil
	}

	activeID := e.contexts.ActiveID()
	if activeID == "" {
		topic := deriveTopic(text)
		if topic == "" {
			topic = "general"
		}
		id, err := e.contexts.Create("General", topic, "")
		if err != nil {
			persistFailed = true
			e.log.Error().Err(err).Msg("context create persist failed")
		}
		activeID = id
	}

	if err := e.contexts.AppendMessage(activeID, "user", text); err != nil {
		persistFailed = true
		e.log.Error().Err(err).Str("utterance", text).Msg("user message persist failed")
	}

	var replyText string
	actionFired := false

	intent, ierr := ExtractIntent(text)
	switch {
	case ierr != nil:
		if !errors.Is(ierr, ErrParameterExtraction) {
			e.log.Error().Err(ierr).Str("utterance", text).Msg("intent extraction error")
		}
		replyText = clarificationFor(ierr)

	case intent != nil:
		result, execErr := e.exec.Execute(ctx, string(intent.Kind), intent.Parameter())
		if execErr != nil {
			e.log.Error().Err(execErr).
				Str("action", string(intent.Kind)).
				Str("parameter", intent.Parameter()).
				Str("utterance", text).
				Msg("automation execution failed")
			replyText = fmt.Sprintf("Sorry — I couldn't complete %s: %v. You can ask me to try again.", intent.Kind, execErr)
		} else {
			actionFired = true
			replyText = e.confirmAction(intent, result)
			e.log.Info().Str("action", string(intent.Kind)).Str("parameter", intent.Parameter()).Msg("action fired")
		}

	default:
		replyText = e.converse(activeID, text)
	}

	persistFailed = e.appendAssistant(activeID, replyText) || persistFailed

	return &Reply{
		Text:          replyText,
		Mood:          detected,
		Language:      lang,
		ContextID:     activeID,
		ActionFired:   actionFired,
		PersistFailed: persistFailed,
	}, nil
}

// confirmAction folds the executor's result text into a confirmation.
// Executors already return human-readable outcomes, so the result is kept
// front and center.
func (e *Engine) confirmAction(intent *Intent, result string) string {
	if result == "" {
		return fmt.Sprintf("Done — %s completed.", intent.Kind)
	}
	return result
}

// converse handles the no-intent path: pick a mood-appropriate canned
// reply, rotating variants when the repetition detector fires so a stuck
// user never sees the same line again and again.
func (e *Engine) converse(contextID, text string) string {
	category := categorize(text)
	now := e.nowFn()
	mood := e.mood.Current()

	c, err := e.contexts.Get(contextID)
	repetitive := err == nil && IsRepetitive(c.Messages)

	key := contextID + ":" + category
	if repetitive {
		e.rotation[key]++
		// Out of fresh variants for an unrecognized request: surface a
		// clarification suggestion instead of another canned line.
		if category == catUnknown && e.rotation[key] >= len(replyBank[catUnknown]) {
			if sugg := GetSuggestions(now, MoodConfused); len(sugg) > 0 {
				return sugg[0].Text
			}
		}
		e.log.Debug().Str("context_id", contextID).Str("category", category).Msg("repetition detected, rotating reply")
	}

	return conversationalReply(category, mood, e.rotation[key], now)
}

// recordTurn appends a user/assistant pair, reporting persistence
// trouble. Used on the switch path where the reply is composed early.
func (e *Engine) recordTurn(contextID, userText, assistantText string) bool {
	failed := false
	if err := e.contexts.AppendMessage(contextID, "user", userText); err != nil {
		failed = true
		e.log.Error().Err(err).Msg("user message persist failed")
	}
	failed = e.appendAssistant(contextID, assistantText) || failed
	return failed
}

func (e *Engine) appendAssistant(contextID, text string) bool {
	if err := e.contexts.AppendMessage(contextID, "assistant", text); err != nil {
		e.log.Error().Err(err).Msg("assistant message persist failed")
		return true
	}
	return false
}
