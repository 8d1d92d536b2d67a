package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rssDigestBot/internal/application"
	"rssDigestBot/internal/domain/repository"
	"rssDigestBot/internal/infrastructure/llm"
	"rssDigestBot/internal/infrastructure/misskey"
	"rssDigestBot/internal/infrastructure/rss"
	"rssDigestBot/internal/infrastructure/scraper"
	"rssDigestBot/internal/infrastructure/storage"
	"rssDigestBot/internal/infrastructure/telegram"
	"rssDigestBot/internal/interfaces/config"
)

func main() {
	log.Println("Starting RSS Digest Bot...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stateRepo, closeState, err := newStateRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to open state: %v", err)
	}
	defer closeState()

	// LLM要約機能のセットアップ
	llmCfg := cfg.GetLLMConfig()
	summarizerRepo, err := llm.NewSummarizerRepository(ctx, llm.Config{
		Provider:          llmCfg.Provider,
		APIKey:            llmCfg.APIKey,
		Model:             llmCfg.Model,
		MaxTokens:         llmCfg.MaxTokens,
		SystemInstruction: llmCfg.SystemInstruction,
		Timeout:           llmCfg.Timeout,
		Region:            llmCfg.Region,
		BaseURL:           llmCfg.BaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize summarizer: %v", err)
	}

	notifierRepo, err := newNotifierRepository(cfg.GetNotifierConfig())
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}

	var contentFetcher scraper.ContentFetcher
	if cfg.FetchArticleContent {
		contentFetcher = scraper.NewContentFetcher(cfg.GetContentFetchTimeout())
	}

	service := application.NewRSSFeedService(
		rss.NewFeedRepository(cfg.GetFeedTimeout()),
		notifierRepo,
		stateRepo,
		summarizerRepo,
		contentFetcher,
		application.Options{
			MaxEntries:  cfg.MaxEntries,
			PersistMode: application.PersistMode(cfg.PersistMode),
		},
	)

	result, err := service.Run(ctx, cfg.RSSURL)
	if err != nil {
		closeState()
		log.Fatalf("Run failed after sending %d entries: %v", result.Sent, err)
	}

	log.Printf("Run finished: fetched=%d candidates=%d skipped=%d sent=%d",
		result.Fetched, result.Candidates, result.Skipped, result.Sent)
}

func newStateRepository(cfg *config.Config) (repository.StateRepository, func(), error) {
	switch cfg.StateBackend {
	case config.StateBackendSQLite:
		repo, err := storage.NewSQLiteStateRepository(cfg.StateDBPath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using SQLite state: %s", cfg.StateDBPath)
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Printf("Failed to close state: %v", err)
			}
		}, nil
	case config.StateBackendMemory:
		log.Println("Using in-memory state")
		return storage.NewMemoryStateRepository(), func() {}, nil
	default:
		log.Printf("Using JSON state: %s", cfg.StateFile)
		return storage.NewJSONStateRepository(cfg.StateFile), func() {}, nil
	}
}

func newNotifierRepository(cfg config.NotifierConfig) (repository.NotifierRepository, error) {
	switch cfg.Kind {
	case config.NotifierMisskey:
		return misskey.NewNotifier(misskey.Config{
			Host:           cfg.MisskeyHost,
			AuthToken:      cfg.MisskeyToken,
			Visibility:     misskey.Visibility(cfg.MisskeyVisibility),
			LocalOnly:      cfg.LocalOnly,
			MaxPermits:     cfg.MaxPermits,
			RefillInterval: cfg.RefillInterval,
			Timeout:        cfg.Timeout,
		})
	case config.NotifierTelegram:
		return telegram.NewNotifier(telegram.Config{
			BotToken:    cfg.TelegramBotToken,
			ChatID:      cfg.TelegramChatID,
			APIEndpoint: cfg.TelegramAPIEndpoint,
			Timeout:     cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown notifier: %s", cfg.Kind)
	}
}
