package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodlens/backend/internal/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAIGenerator) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gen := NewOpenAIGenerator(Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Timeout: 2 * time.Second,
	})
	return server, gen
}

func TestNewOpenAIGenerator_Defaults(t *testing.T) {
	gen := NewOpenAIGenerator(Config{APIKey: "k"})

	assert.Equal(t, openai.GPT4oMini, gen.model)
	assert.InDelta(t, 0.3, gen.temperature, 1e-6)
	assert.Equal(t, 20*time.Second, gen.timeout)
	assert.Equal(t, "openai", gen.Name())
}

func TestGenerate_Success(t *testing.T) {
	_, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, openai.GPT4oMini, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, "describe it", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "- one\n- two\n"}},
			},
		})
	})

	out, err := gen.Generate(context.Background(), "describe it")

	require.NoError(t, err)
	assert.Equal(t, "- one\n- two", out)
}

func TestGenerate_APIError(t *testing.T) {
	_, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	_, err := gen.Generate(context.Background(), "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "openai", genErr.Provider)
}

func TestGenerate_NoChoices(t *testing.T) {
	_, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := gen.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestNullGenerator(t *testing.T) {
	_, err := NullGenerator{}.Generate(context.Background(), "x")

	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestNew_SelectsImplementation(t *testing.T) {
	assert.IsType(t, NullGenerator{}, New(Config{}))
	assert.IsType(t, &OpenAIGenerator{}, New(Config{APIKey: "k"}))
}

func TestExtractDetail(t *testing.T) {
	assert.Equal(t, "quota exceeded", extractDetail([]byte(`{"detail":"quota exceeded"}`)))
	assert.Equal(t, "", extractDetail([]byte(`not json`)))
}
