package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestOpenRouterComplete_Success(t *testing.T) {
	var captured *http.Request
	var payload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("  Possible viral infection.\n")))
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test", "", 5*time.Second)
	out, err := c.Complete(context.Background(), "patient data")
	require.NoError(t, err)

	assert.Equal(t, "Possible viral infection.", out)
	assert.Equal(t, "/chat/completions", captured.URL.Path)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "Bearer sk-test", captured.Header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, "http://localhost", captured.Header.Get("HTTP-Referer"))
	assert.Equal(t, "Healthcare Symptom Checker", captured.Header.Get("X-Title"))

	assert.Equal(t, openRouterDefaultModel, payload["model"])
	msgs := payload["messages"].([]any)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Contains(t, first["content"], "not medical advice")
	second := msgs[1].(map[string]any)
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "patient data", second["content"])
}

func TestOpenRouterComplete_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key sk-test-secret"}`))
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test-secret", "", 5*time.Second)
	_, err := c.Complete(context.Background(), "data")

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusUnauthorized, rejected.Status)
	assert.Equal(t, "openrouter", rejected.Provider)
	assert.NotContains(t, rejected.Detail, "sk-test-secret")
}

func TestOpenRouterComplete_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens on the URL anymore

	c := NewOpenRouterClient(srv.URL, "sk-test", "", time.Second)
	_, err := c.Complete(context.Background(), "data")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestOpenRouterComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body) // drain so the server notices the client disconnect
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test", "", 50*time.Millisecond)
	_, err := c.Complete(context.Background(), "data")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestOpenRouterComplete_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": not json`))
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test", "", 5*time.Second)
	_, err := c.Complete(context.Background(), "data")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestOpenRouterComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test", "", 5*time.Second)
	_, err := c.Complete(context.Background(), "data")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestOpenRouterComplete_MissingKey(t *testing.T) {
	c := NewOpenRouterClient("http://unused", "", "", time.Second)
	_, err := c.Complete(context.Background(), "data")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestOpenRouterPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test", "", time.Second)
	require.NoError(t, c.Ping(context.Background()))
}

func TestOpenRouterPing_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "sk-test", "", time.Second)
	err := c.Ping(context.Background())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusForbidden, rejected.Status)
}

func TestOpenRouterDefaults(t *testing.T) {
	c := NewOpenRouterClient("", "sk-test", "", 0)
	assert.Equal(t, openRouterBaseURL, c.BaseURL)
	assert.Equal(t, openRouterDefaultModel, c.Model)
	assert.Equal(t, 30*time.Second, c.Timeout)
}
