package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"rssDigestBot/internal/domain/entity"
	"rssDigestBot/internal/domain/repository"
)

type Config struct {
	BotToken string
	// ChatID is a numeric chat id ("-100123") or a channel username ("@channel").
	ChatID      string
	APIEndpoint string
	Timeout     time.Duration
}

type notifier struct {
	bot             *tgbotapi.BotAPI
	client          *http.Client
	chatID          int64
	channelUsername string
}

// NewNotifier builds a Bot API client without calling getMe, so no request
// is made until the first Send.
func NewNotifier(cfg Config) (repository.NotifierRepository, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	n := &notifier{}

	chatID := strings.TrimSpace(cfg.ChatID)
	switch {
	case chatID == "":
		return nil, fmt.Errorf("telegram chat id is required")
	case strings.HasPrefix(chatID, "@"):
		n.channelUsername = chatID
	default:
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram chat id %q: must be numeric or @channel", chatID)
		}
		n.chatID = id
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	n.client = &http.Client{Timeout: timeout}

	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	n.bot = &tgbotapi.BotAPI{
		Token:  cfg.BotToken,
		Client: n.client,
		Buffer: 100,
	}
	n.bot.SetAPIEndpoint(endpoint)

	return n, nil
}

func (n *notifier) Send(ctx context.Context, msg *entity.Message) error {
	cfg := n.messageConfig(msg)

	// BotAPI builds requests without a context; bind ours through the client.
	bot := *n.bot
	bot.Client = contextClient{ctx: ctx, client: n.client}

	if _, err := bot.Send(cfg); err != nil {
		return n.wrapError(err)
	}

	return nil
}

func (n *notifier) messageConfig(msg *entity.Message) tgbotapi.MessageConfig {
	var cfg tgbotapi.MessageConfig
	if n.channelUsername != "" {
		cfg = tgbotapi.NewMessageToChannel(n.channelUsername, msg.Text)
	} else {
		cfg = tgbotapi.NewMessage(n.chatID, msg.Text)
	}
	cfg.DisableWebPagePreview = msg.DisableLinkPreview
	return cfg
}

// wrapError keeps API errors inspectable and scrubs the token, which is part
// of every request URL, from transport errors.
func (n *notifier) wrapError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("telegram API returned error %d: %w", apiErr.Code, err)
	}
	scrubbed := strings.NewReplacer(
		n.bot.Token, "<redacted>",
		url.PathEscape(n.bot.Token), "<redacted>",
	).Replace(err.Error())
	return fmt.Errorf("failed to send telegram message: %s", scrubbed)
}

type contextClient struct {
	ctx    context.Context
	client *http.Client
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(c.ctx))
}
