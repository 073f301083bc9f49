package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	CompletionModel string
	EmbeddingModel  string
}

// OpenAIClient is the completion model and embedder used by the pipeline.
// Requests use the library's default transport with no retry.
type OpenAIClient struct {
	Client          *openai.Client
	completionModel string
	embeddingModel  openai.EmbeddingModel
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("[OpenAIClient] missing API key")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	completionModel := cfg.CompletionModel
	if completionModel == "" {
		completionModel = openai.GPT4oMini
	}
	embeddingModel := openai.EmbeddingModel(cfg.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = openai.SmallEmbedding3
	}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("completion_model", completionModel),
		slog.String("embedding_model", string(embeddingModel)))

	return &OpenAIClient{
		Client:          openai.NewClientWithConfig(config),
		completionModel: completionModel,
		embeddingModel:  embeddingModel,
	}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	start := time.Now()
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.completionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an assistant that analyzes customer feedback and responds only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxOutputTokens,
		Temperature: 0.3,
	})
	if err != nil {
		slog.Debug("[OpenAIClient] Chat completion failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("openai returned empty response or choices")
	}

	slog.Debug("[OpenAIClient] Chat completion finished",
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
		slog.Duration("elapsed", time.Since(start)))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.Client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: o.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding error: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("openai returned no embedding")
	}

	return resp.Data[0].Embedding, nil
}
