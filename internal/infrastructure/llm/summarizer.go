package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rssDigestBot/internal/domain/repository"
)

// ErrUnknownProvider は未対応のプロバイダが指定された場合に返されます
var ErrUnknownProvider = errors.New("unknown LLM provider")

// Config はLLM要約機能の設定
type Config struct {
	Provider          string        // "openai", "gemini" or "bedrock" (empty defaults to "openai")
	APIKey            string        // LLM APIキー (bedrockではベアラートークン)
	Model             string        // モデル名
	MaxTokens         int           // 最大出力トークン数 (0はプロバイダ既定)
	SystemInstruction string        // カスタムシステムインストラクション
	Timeout           time.Duration // APIタイムアウト
	Region            string        // bedrockのリージョン
	BaseURL           string        // APIエンドポイントの上書き
}

// DefaultSystemInstruction はデフォルトのシステムインストラクション
const DefaultSystemInstruction = `You write short digests of blog posts for a messaging channel.
Use only facts stated in the provided content. Reply in plain text.`

const defaultTimeout = 60 * time.Second

// NewSummarizerRepository はConfigに基づいてSummarizerRepositoryを生成します
func NewSummarizerRepository(ctx context.Context, cfg Config) (repository.SummarizerRepository, error) {
	switch cfg.Provider {
	case "openai", "":
		return newOpenAISummarizer(cfg)
	case "gemini":
		return newGeminiSummarizer(ctx, cfg)
	case "bedrock":
		return newBedrockSummarizer(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

func timeoutOrDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return defaultTimeout
	}
	return timeout
}
