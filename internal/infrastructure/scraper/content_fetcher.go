package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rssDigestBot/internal/infrastructure/html"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxHTMLBytes    = int64(2 * 1024 * 1024)
	minContentChars = 100
)

// ContentFetcher はWebページから本文を取得するインターフェース
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

type webScraper struct {
	client    *http.Client
	userAgent string
	maxChars  int
}

// NewContentFetcher は新しいContentFetcherを生成します
func NewContentFetcher(timeout time.Duration) ContentFetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &webScraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: "RSSDigestBot/1.0",
		maxChars:  html.MaxSnippetChars,
	}
}

// FetchContent はURLから記事本文を取得します
func (s *webScraper) FetchContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := html.Truncate(extractMainContent(doc), s.maxChars)

	if content == "" {
		return "", fmt.Errorf("no content found")
	}

	return content, nil
}

// extractMainContent はHTMLドキュメントから本文を抽出します
func extractMainContent(doc *goquery.Document) string {
	// 一般的な本文セレクタを試行
	selectors := []string{
		"article",
		"main",
		".post-content",
		".entry-content",
		".article-body",
		".article-content",
		"#content",
		".content",
	}

	for _, selector := range selectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}
		// 不要な要素を除去
		selection.Find("script, style, nav, header, footer, aside, .ad, .advertisement").Remove()
		cleaned := html.CollapseSpace(selection.Text())
		if len([]rune(cleaned)) > minContentChars {
			return cleaned
		}
	}

	// フォールバック: body全体から抽出
	doc.Find("script, style, nav, header, footer, aside").Remove()
	return html.CollapseSpace(doc.Find("body").Text())
}

// NeedsContent は要約の材料としてスニペットが短すぎるかを判定します
func NeedsContent(snippet string) bool {
	return len([]rune(strings.TrimSpace(html.PlainText(snippet, 0)))) < minContentChars
}
