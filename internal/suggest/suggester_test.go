package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestAnswer(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  Paris \n"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "test-key"}, zerolog.Nop())

	text, err := c.SuggestAnswer(context.Background(), "Capital of France?", true)
	require.NoError(t, err)
	assert.Equal(t, "Paris", text)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 0.2, captured.Temperature)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestSuggestAnswerWrongRunsHot(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "Lyon"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL}, zerolog.Nop())

	text, err := c.SuggestAnswer(context.Background(), "Capital of France?", false)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", text)
	assert.Equal(t, 1.0, captured.Temperature)
}

func TestSuggestAnswerUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL}, zerolog.Nop())

	_, err := c.SuggestAnswer(context.Background(), "prompt", true)
	assert.Error(t, err)
}

func TestSuggestAnswerNoEndpoint(t *testing.T) {
	c := NewClient(Config{}, zerolog.Nop())

	_, err := c.SuggestAnswer(context.Background(), "prompt", true)
	assert.Error(t, err)
}

func TestSuggestAnswerEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL}, zerolog.Nop())

	_, err := c.SuggestAnswer(context.Background(), "prompt", true)
	assert.Error(t, err)
}
