package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/responses"
	"github.com/openai/openai-go/v2/shared"

	"rssDigestBot/internal/domain/repository"
)

const openAIDefaultModel = "gpt-4.1-mini"

// openAISummarizer はOpenAI Responses APIを使用した要約実装
type openAISummarizer struct {
	client       openai.Client
	model        string
	maxTokens    int64
	instructions string
}

func newOpenAISummarizer(cfg Config) (repository.SummarizerRepository, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = openAIDefaultModel
	}

	instructions := cfg.SystemInstruction
	if instructions == "" {
		instructions = DefaultSystemInstruction
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: timeoutOrDefault(cfg.Timeout)}),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openAISummarizer{
		client:       openai.NewClient(opts...),
		model:        model,
		maxTokens:    int64(cfg.MaxTokens),
		instructions: instructions,
	}, nil
}

func (s *openAISummarizer) Summarize(ctx context.Context, title, link, htmlSnippet string) (string, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(s.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(BuildPrompt(title, link, htmlSnippet)),
		},
		Instructions: openai.String(s.instructions),
	}
	if s.maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(s.maxTokens)
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	summary := strings.TrimSpace(resp.OutputText())
	if summary == "" {
		return "", fmt.Errorf("no summary returned from OpenAI API")
	}

	return summary, nil
}
