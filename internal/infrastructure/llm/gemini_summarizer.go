package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"rssDigestBot/internal/domain/repository"
)

const (
	geminiDefaultModel     = "gemini-2.0-flash"
	geminiDefaultMaxTokens = 500
)

// geminiSummarizer はGoogle Gemini APIを使用した要約実装
type geminiSummarizer struct {
	client       *genai.Client
	model        string
	maxTokens    int32
	systemPrompt string
}

func newGeminiSummarizer(ctx context.Context, cfg Config) (repository.SummarizerRepository, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = geminiDefaultModel // コスト効率の良いデフォルト
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = geminiDefaultMaxTokens
	}

	systemPrompt := cfg.SystemInstruction
	if systemPrompt == "" {
		systemPrompt = DefaultSystemInstruction
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &geminiSummarizer{
		client:       client,
		model:        model,
		maxTokens:    int32(maxTokens),
		systemPrompt: systemPrompt,
	}, nil
}

func (s *geminiSummarizer) Summarize(ctx context.Context, title, link, htmlSnippet string) (string, error) {
	resp, err := s.client.Models.GenerateContent(
		ctx,
		s.model,
		genai.Text(BuildPrompt(title, link, htmlSnippet)),
		s.generateConfig(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", fmt.Errorf("no summary returned from Gemini API")
	}

	return summary, nil
}

func (s *geminiSummarizer) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(s.systemPrompt, genai.RoleUser),
		MaxOutputTokens:   s.maxTokens,
		Temperature:       genai.Ptr[float32](0.3),
	}
}
