package misskey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"rssDigestBot/internal/domain/entity"
	"rssDigestBot/internal/domain/repository"
)

// Visibility はノートの公開範囲
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityHome      Visibility = "home"
	VisibilityFollowers Visibility = "followers"
)

// IsValid は公開範囲が投稿に使えるかを判定します
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityHome, VisibilityFollowers:
		return true
	}
	return false
}

type Config struct {
	Host           string
	AuthToken      string
	Visibility     Visibility
	LocalOnly      bool
	MaxPermits     int
	RefillInterval time.Duration
	Timeout        time.Duration
}

type notePayload struct {
	I          string `json:"i"`
	Text       string `json:"text"`
	Visibility string `json:"visibility"`
	LocalOnly  bool   `json:"localOnly"`
}

type notifier struct {
	endpoint    string
	authToken   string
	visibility  Visibility
	localOnly   bool
	client      *http.Client
	// bursts up to MaxPermits posts, then one per RefillInterval
	rateLimiter *rate.Limiter
}

func NewNotifier(cfg Config) (repository.NotifierRepository, error) {
	if cfg.Host == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("misskey host and token are required")
	}

	maxPermits := cfg.MaxPermits
	if maxPermits == 0 {
		maxPermits = 3
	}
	refillInterval := cfg.RefillInterval
	if refillInterval == 0 {
		refillInterval = 10 * time.Second
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	visibility := cfg.Visibility
	if visibility == "" {
		visibility = VisibilityHome
	}
	if !visibility.IsValid() {
		return nil, fmt.Errorf("invalid misskey visibility: %q", visibility)
	}

	return &notifier{
		endpoint:    notesCreateURL(cfg.Host),
		authToken:   cfg.AuthToken,
		visibility:  visibility,
		localOnly:   cfg.LocalOnly,
		client:      &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Every(refillInterval), maxPermits),
	}, nil
}

func notesCreateURL(host string) string {
	url := strings.TrimRight(host, "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url + "/api/notes/create"
}

func (n *notifier) Send(ctx context.Context, msg *entity.Message) error {
	if err := n.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(notePayload{
		I:          n.authToken,
		Text:       msg.Text,
		Visibility: string(n.visibility),
		LocalOnly:  n.localOnly,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize note: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Misskey API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Misskey API returned non-OK status: %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
