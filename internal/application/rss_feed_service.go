package application

import (
	"context"
	"fmt"
	"log"

	"rssDigestBot/internal/domain/entity"
	"rssDigestBot/internal/domain/repository"
	"rssDigestBot/internal/infrastructure/scraper"
)

// PersistMode controls when the processed set is written back.
type PersistMode string

const (
	// PersistAtEnd saves once after every candidate has been handled. A
	// failure mid-run saves nothing, so already sent entries are sent again
	// on the next run.
	PersistAtEnd PersistMode = "end"
	// PersistEach also saves after every successful send.
	PersistEach PersistMode = "each"
)

const defaultMaxEntries = 5

type Options struct {
	MaxEntries  int
	PersistMode PersistMode
}

// RunResult counts what a single run did.
type RunResult struct {
	Fetched    int
	Candidates int
	Skipped    int
	Sent       int
}

type RSSFeedService struct {
	feedRepo       repository.FeedRepository
	notifierRepo   repository.NotifierRepository
	stateRepo      repository.StateRepository
	summarizerRepo repository.SummarizerRepository
	contentFetcher scraper.ContentFetcher
	maxEntries     int
	persistMode    PersistMode
}

// NewRSSFeedService wires the run. contentFetcher may be nil to disable
// article enrichment.
func NewRSSFeedService(
	feedRepo repository.FeedRepository,
	notifierRepo repository.NotifierRepository,
	stateRepo repository.StateRepository,
	summarizerRepo repository.SummarizerRepository,
	contentFetcher scraper.ContentFetcher,
	opts Options,
) *RSSFeedService {
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	persistMode := opts.PersistMode
	if persistMode == "" {
		persistMode = PersistAtEnd
	}

	return &RSSFeedService{
		feedRepo:       feedRepo,
		notifierRepo:   notifierRepo,
		stateRepo:      stateRepo,
		summarizerRepo: summarizerRepo,
		contentFetcher: contentFetcher,
		maxEntries:     maxEntries,
		persistMode:    persistMode,
	}
}

// Run processes the newest entries of rssURL once. Any error aborts the run;
// the returned result still reports what was done before it.
func (s *RSSFeedService) Run(ctx context.Context, rssURL string) (*RunResult, error) {
	result := &RunResult{}

	processed, err := s.stateRepo.Load(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load state: %w", err)
	}

	entries, err := s.feedRepo.Fetch(ctx, rssURL)
	if err != nil {
		return result, fmt.Errorf("failed to fetch RSS feed [%s]: %w", rssURL, err)
	}
	result.Fetched = len(entries)

	if len(entries) == 0 {
		log.Printf("No entries found in RSS URL: %s", rssURL)
	}

	candidates := entries[:min(len(entries), s.maxEntries)]
	result.Candidates = len(candidates)

	for _, entry := range candidates {
		id := entry.StableID()
		if processed.Has(id) {
			log.Printf("Skipping already processed entry: %s", entry.DisplayTitle())
			result.Skipped++
			continue
		}

		if err := s.deliver(ctx, entry); err != nil {
			return result, err
		}

		processed.Add(id)
		result.Sent++
		log.Printf("Posted: %s", entry.DisplayTitle())

		if s.persistMode == PersistEach {
			if err := s.stateRepo.Save(ctx, processed); err != nil {
				return result, fmt.Errorf("failed to save state: %w", err)
			}
		}
	}

	if err := s.stateRepo.Save(ctx, processed); err != nil {
		return result, fmt.Errorf("failed to save state: %w", err)
	}

	return result, nil
}

func (s *RSSFeedService) deliver(ctx context.Context, entry *entity.FeedEntry) error {
	title := entry.DisplayTitle()

	summary, err := s.summarizerRepo.Summarize(ctx, title, entry.Link, s.snippet(ctx, entry))
	if err != nil {
		return fmt.Errorf("failed to summarize [%s]: %w", title, err)
	}

	if err := s.notifierRepo.Send(ctx, entity.NewMessageFromEntry(entry, summary)); err != nil {
		return fmt.Errorf("failed to send [%s]: %w", title, err)
	}

	return nil
}

// snippet returns the feed summary, replaced by the article body when the
// summary is too short and enrichment is enabled.
func (s *RSSFeedService) snippet(ctx context.Context, entry *entity.FeedEntry) string {
	content := entry.Summary
	if s.contentFetcher == nil || entry.Link == "" || !scraper.NeedsContent(content) {
		return content
	}

	fetched, err := s.contentFetcher.FetchContent(ctx, entry.Link)
	if err != nil {
		// フォールバック: フィードのSummaryを使用
		log.Printf("Failed to fetch content [%s]: %v", entry.Link, err)
		return content
	}

	return fetched
}
