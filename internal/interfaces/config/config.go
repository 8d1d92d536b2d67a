package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig は設定値の検証エラーを表します
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	StateBackendJSON   = "json"
	StateBackendSQLite = "sqlite"
	StateBackendMemory = "memory"

	PersistModeEnd  = "end"
	PersistModeEach = "each"

	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"

	NotifierTelegram = "telegram"
	NotifierMisskey  = "misskey"
)

type Config struct {
	RSSURL      string `envconfig:"RSS_URL" required:"true"`
	MaxEntries  int    `envconfig:"MAX_ENTRIES" default:"5"`
	FeedTimeout int    `envconfig:"FEED_TIMEOUT" default:"0"`

	StateBackend string `envconfig:"STATE_BACKEND" default:"json"`
	StateFile    string `envconfig:"STATE_FILE" default:"posted.json"`
	StateDBPath  string `envconfig:"STATE_DB_PATH" default:"posted.db"`
	PersistMode  string `envconfig:"PERSIST_MODE" default:"end"`

	// LLM要約機能の設定
	LLMProvider          string `envconfig:"LLM_PROVIDER" default:"openai"`
	LLMModel             string `envconfig:"LLM_MODEL"`
	LLMTimeout           int    `envconfig:"LLM_TIMEOUT" default:"60"`
	LLMMaxTokens         int    `envconfig:"LLM_MAX_TOKENS" default:"0"`
	LLMSystemInstruction string `envconfig:"LLM_SYSTEM_INSTRUCTION"`
	LLMRegion            string `envconfig:"LLM_REGION"`
	OpenAIAPIKey         string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL        string `envconfig:"OPENAI_BASE_URL"`
	GeminiAPIKey         string `envconfig:"GEMINI_API_KEY"`
	BedrockAPIKey        string `envconfig:"BEDROCK_API_KEY"`

	Notifier        string `envconfig:"NOTIFIER" default:"telegram"`
	NotifierTimeout int    `envconfig:"NOTIFIER_TIMEOUT" default:"30"`

	TelegramBotToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID      string `envconfig:"TELEGRAM_CHAT_ID"`
	TelegramAPIEndpoint string `envconfig:"TELEGRAM_API_ENDPOINT"`

	MisskeyHost       string `envconfig:"MISSKEY_HOST"`
	MisskeyToken      string `envconfig:"MISSKEY_TOKEN"`
	MisskeyVisibility string `envconfig:"MISSKEY_VISIBILITY" default:"home"`
	MaxPermits        int    `envconfig:"MAX_PERMITS" default:"3"`
	RefillInterval    int    `envconfig:"REFILL_INTERVAL" default:"10"`
	LocalOnly         bool   `envconfig:"LOCAL_ONLY" default:"false"`

	// 記事本文の補完設定
	FetchArticleContent bool `envconfig:"FETCH_ARTICLE_CONTENT" default:"false"`
	ContentFetchTimeout int  `envconfig:"CONTENT_FETCH_TIMEOUT" default:"15"`
}

// LLMConfig はLLM要約機能の設定
type LLMConfig struct {
	Provider          string
	APIKey            string
	Model             string
	MaxTokens         int
	SystemInstruction string
	Timeout           time.Duration
	Region            string
	BaseURL           string
}

// NotifierConfig は投稿先の設定
type NotifierConfig struct {
	Kind    string
	Timeout time.Duration

	TelegramBotToken    string
	TelegramChatID      string
	TelegramAPIEndpoint string

	MisskeyHost       string
	MisskeyToken      string
	MisskeyVisibility string
	LocalOnly         bool
	MaxPermits        int
	RefillInterval    time.Duration
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enum values and the settings required by the selected
// providers.
func (c *Config) Validate() error {
	if c.MaxEntries <= 0 {
		return fmt.Errorf("%w: MAX_ENTRIES must be positive, got %d", ErrInvalidConfig, c.MaxEntries)
	}
	if c.FeedTimeout < 0 || c.LLMTimeout < 0 || c.NotifierTimeout < 0 || c.ContentFetchTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}

	switch c.StateBackend {
	case StateBackendJSON:
		if c.StateFile == "" {
			return fmt.Errorf("%w: STATE_FILE is required for the json state backend", ErrInvalidConfig)
		}
	case StateBackendSQLite:
		if c.StateDBPath == "" {
			return fmt.Errorf("%w: STATE_DB_PATH is required for the sqlite state backend", ErrInvalidConfig)
		}
	case StateBackendMemory:
	default:
		return fmt.Errorf("%w: unknown STATE_BACKEND %q", ErrInvalidConfig, c.StateBackend)
	}

	switch c.PersistMode {
	case PersistModeEnd, PersistModeEach:
	default:
		return fmt.Errorf("%w: unknown PERSIST_MODE %q", ErrInvalidConfig, c.PersistMode)
	}

	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateNotifier()
}

func (c *Config) validateLLM() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required", ErrInvalidConfig)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required", ErrInvalidConfig)
		}
	case ProviderBedrock:
		if c.BedrockAPIKey == "" || c.LLMModel == "" || c.LLMRegion == "" {
			return fmt.Errorf("%w: BEDROCK_API_KEY, LLM_MODEL and LLM_REGION are required for bedrock", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown LLM_PROVIDER %q", ErrInvalidConfig, c.LLMProvider)
	}
	return nil
}

func (c *Config) validateNotifier() error {
	switch c.Notifier {
	case NotifierTelegram:
		if c.TelegramBotToken == "" {
			return fmt.Errorf("%w: TELEGRAM_BOT_TOKEN is required", ErrInvalidConfig)
		}
		if c.TelegramChatID == "" {
			return fmt.Errorf("%w: TELEGRAM_CHAT_ID is required", ErrInvalidConfig)
		}
	case NotifierMisskey:
		if c.MisskeyHost == "" || c.MisskeyToken == "" {
			return fmt.Errorf("%w: MISSKEY_HOST and MISSKEY_TOKEN are required", ErrInvalidConfig)
		}
		switch c.MisskeyVisibility {
		case "public", "home", "followers":
		default:
			return fmt.Errorf("%w: unknown MISSKEY_VISIBILITY %q", ErrInvalidConfig, c.MisskeyVisibility)
		}
		if c.MaxPermits <= 0 || c.RefillInterval <= 0 {
			return fmt.Errorf("%w: MAX_PERMITS and REFILL_INTERVAL must be positive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown NOTIFIER %q", ErrInvalidConfig, c.Notifier)
	}
	return nil
}

func (c *Config) GetFeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeout) * time.Second
}

func (c *Config) GetLLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeout) * time.Second
}

func (c *Config) GetNotifierTimeout() time.Duration {
	return time.Duration(c.NotifierTimeout) * time.Second
}

func (c *Config) GetRefillInterval() time.Duration {
	return time.Duration(c.RefillInterval) * time.Second
}

func (c *Config) GetContentFetchTimeout() time.Duration {
	return time.Duration(c.ContentFetchTimeout) * time.Second
}

// GetLLMConfig はLLM設定を取得します
func (c *Config) GetLLMConfig() LLMConfig {
	cfg := LLMConfig{
		Provider:          c.LLMProvider,
		Model:             c.LLMModel,
		MaxTokens:         c.LLMMaxTokens,
		SystemInstruction: c.LLMSystemInstruction,
		Timeout:           c.GetLLMTimeout(),
		Region:            c.LLMRegion,
	}

	switch c.LLMProvider {
	case ProviderOpenAI:
		cfg.APIKey = c.OpenAIAPIKey
		cfg.BaseURL = c.OpenAIBaseURL
	case ProviderGemini:
		cfg.APIKey = c.GeminiAPIKey
	case ProviderBedrock:
		cfg.APIKey = c.BedrockAPIKey
	}

	return cfg
}

func (c *Config) GetNotifierConfig() NotifierConfig {
	return NotifierConfig{
		Kind:                c.Notifier,
		Timeout:             c.GetNotifierTimeout(),
		TelegramBotToken:    c.TelegramBotToken,
		TelegramChatID:      c.TelegramChatID,
		TelegramAPIEndpoint: c.TelegramAPIEndpoint,
		MisskeyHost:         c.MisskeyHost,
		MisskeyToken:        c.MisskeyToken,
		MisskeyVisibility:   c.MisskeyVisibility,
		LocalOnly:           c.LocalOnly,
		MaxPermits:          c.MaxPermits,
		RefillInterval:      c.GetRefillInterval(),
	}
}
