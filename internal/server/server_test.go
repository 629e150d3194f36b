package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"deskmate/internal/mind"
	"deskmate/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "assistant.json"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	exec := mind.ExecutorFunc(func(_ context.Context, action, parameter string) (string, error) {
		return "Executed " + action + ".", nil
	})
	engine, err := mind.New(store, exec, zerolog.Nop())
	require.NoError(t, err)

	return New(engine, zerolog.Nop()).Router()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestChatEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"volume 50"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Executed set_volume.", body["response"])
	assert.Equal(t, true, body["action_fired"])
	assert.NotEmpty(t, body["context_id"])
	assert.Equal(t, "en", body["detected_language"])
}

func TestChatValidation(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/chat", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	long := strings.Repeat("a", 1001)
	w, _ = doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAndListContexts(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/chat/context",
		`{"name":"Email","topic":"email drafts","initial_message":"about those drafts"}`)
	require.Equal(t, http.StatusOK, w.Code)
	id, _ := body["context_id"].(string)
	require.NotEmpty(t, id)

	w, body = doJSON(t, r, http.MethodGet, "/api/contexts", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])

	w, body = doJSON(t, r, http.MethodGet, "/api/contexts/"+id+"/history", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
}

func TestHistoryUnknownContext(t *testing.T) {
	r := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodGet, "/api/contexts/no-such-id/history", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggestionsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w, body := doJSON(t, r, http.MethodGet, "/api/suggestions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["suggestions"])
	assert.NotEmpty(t, body["mood"])
}

var errDiskFull = errors.New("disk full")

// flakyRepo satisfies mind.Repository in memory; flipping fail makes
// every write error so failure reporting can be observed over HTTP.
type flakyRepo struct {
	fail bool
}

func (r *flakyRepo) LoadContexts() ([]*mind.Context, error) { return nil, nil }
func (r *flakyRepo) LoadMood() (mind.MoodType, error)       { return mind.MoodNeutral, nil }

func (r *flakyRepo) SaveContext(*mind.Context) error {
	if r.fail {
		return errDiskFull
	}
	return nil
}

func (r *flakyRepo) AppendMessage(string, mind.Message) error {
	if r.fail {
		return errDiskFull
	}
	return nil
}

func (r *flakyRepo) SaveMood(mind.MoodType) error {
	if r.fail {
		return errDiskFull
	}
	return nil
}

func TestCreateContextPersistFailureFlagged(t *testing.T) {
	repo := &flakyRepo{}
	engine, err := mind.New(repo, mind.ExecutorFunc(func(context.Context, string, string) (string, error) {
		return "ok", nil
	}), zerolog.Nop())
	require.NoError(t, err)
	r := New(engine, zerolog.Nop()).Router()
	repo.fail = true

	w, body := doJSON(t, r, http.MethodPost, "/api/chat/context",
		`{"name":"Email","topic":"email drafts"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["context_id"], "the context still exists in memory")
	assert.Equal(t, true, body["persist_failed"])

	w, body = doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"hello there"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["persist_failed"])
}

func TestStatusEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w, body := doJSON(t, r, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", body["status"])
}
