package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-kb/scribe/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(Config{})
	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestLLMService_Generate(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := chatResponse{Done: true}
		resp.Message.Content = "generated answer"
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	svc := NewLLMService(Config{BaseURL: srv.URL, Model: "llama3.2"})

	content, err := svc.Generate(context.Background(), "you are a writer", "write about cats", driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated answer", content)

	assert.False(t, captured.Stream)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	require.NotNil(t, captured.Options)
	assert.Equal(t, 512, captured.Options.NumPredict)
	assert.InDelta(t, 0.3, captured.Options.Temperature, 0.001)
}

func TestLLMService_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewLLMService(Config{BaseURL: srv.URL})
	_, err := svc.Generate(context.Background(), "", "hello", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestLLMService_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewLLMService(Config{BaseURL: srv.URL})
	assert.NoError(t, svc.Ping(context.Background()))
}
