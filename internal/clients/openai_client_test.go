package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOpenAIClient(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/v1",
	})
	require.NoError(t, err)
	return client
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{})
	assert.Error(t, err)
}

func TestOpenAIClientComplete(t *testing.T) {
	var request map[string]any
	client := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "  {\"sentiment\":\"positive\",\"confidence\":0.9}\n"}}]
		}`))
	})

	out, err := client.Complete(context.Background(), "Analyze the sentiment", 100)
	require.NoError(t, err)
	assert.Equal(t, `{"sentiment":"positive","confidence":0.9}`, out)
	assert.Equal(t, "gpt-4o-mini", request["model"])
	assert.EqualValues(t, 100, request["max_tokens"])
}

func TestOpenAIClientCompleteEmptyChoices(t *testing.T) {
	client := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","choices":[]}`))
	})

	_, err := client.Complete(context.Background(), "prompt", 10)
	assert.Error(t, err)
}

func TestOpenAIClientCompleteAPIError(t *testing.T) {
	client := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`))
	})

	_, err := client.Complete(context.Background(), "prompt", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded your current quota")
}

func TestOpenAIClientEmbed(t *testing.T) {
	client := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		var request map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "text-embedding-3-small", request["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1]}],"model":"text-embedding-3-small"}`))
	})

	vector, err := client.Embed(context.Background(), "Great product!")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, vector)
}
