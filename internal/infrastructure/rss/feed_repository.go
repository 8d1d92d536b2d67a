package rss

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rssDigestBot/internal/domain/entity"
	"rssDigestBot/internal/domain/repository"

	"github.com/mmcdole/gofeed"
)

const userAgent = "RSSDigestBot/1.0"

type feedRepository struct {
	parser *gofeed.Parser
}

// NewFeedRepository returns a gofeed backed FeedRepository. A zero timeout
// leaves the HTTP client without a deadline of its own; the caller's context
// still applies.
func NewFeedRepository(timeout time.Duration) repository.FeedRepository {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	if timeout > 0 {
		parser.Client = &http.Client{Timeout: timeout}
	}

	return &feedRepository{
		parser: parser,
	}
}

func (r *feedRepository) Fetch(ctx context.Context, url string) ([]*entity.FeedEntry, error) {
	feed, err := r.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	entries := make([]*entity.FeedEntry, 0, len(feed.Items))

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toFeedEntry(feed.FeedType, item))
	}

	return entries, nil
}

func toFeedEntry(feedType string, item *gofeed.Item) *entity.FeedEntry {
	// gofeed stores both Atom <id> and RSS <guid> in Item.GUID.
	var id, guid string
	if feedType == "atom" {
		id = item.GUID
	} else {
		guid = item.GUID
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	return entity.NewFeedEntry(id, guid, item.Link, item.Title, summary)
}
