package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/serikit/seri"
	"github.com/serikit/seri/errors"
)

// DefaultTelegramBaseURL is the Bot API prefix; the token is appended per
// request.
const DefaultTelegramBaseURL = "https://api.telegram.org"

// Types decoded from Bot API responses. Only the fields the bot reads.

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	IsBot     bool   `json:"is_bot"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type Message struct {
	MessageID      int64    `json:"message_id"`
	From           *User    `json:"from"`
	Chat           Chat     `json:"chat"`
	Text           string   `json:"text"`
	ReplyToMessage *Message `json:"reply_to_message"`
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Request payloads, seri-encoded.

type getUpdatesRequest struct {
	Offset  int64
	Timeout int
}

type sendMessageRequest struct {
	ChatID  int64
	Text    string
	ReplyTo *int64
}

var getUpdatesCodec = seri.Object(seri.Describe(
	nil,
	seri.Fields(
		seri.Field("offset", seri.Int[int64](), func(r *getUpdatesRequest) int64 { return r.Offset }),
		seri.Field("timeout", seri.Int[int](), func(r *getUpdatesRequest) int { return r.Timeout }),
	),
))

var sendMessageCodec = seri.Object(seri.Describe(
	nil,
	seri.Fields(
		seri.Field("chat_id", seri.Int[int64](), func(r *sendMessageRequest) int64 { return r.ChatID }),
		seri.Field("text", seri.String[string](), func(r *sendMessageRequest) string { return r.Text }),
		seri.Field("reply_to_message_id", seri.Option(seri.Int[int64]()), func(r *sendMessageRequest) *int64 { return r.ReplyTo }),
	),
))

// Telegram is a minimal Bot API client: long polling and plain text replies.
type Telegram struct {
	httpClient *http.Client
	log        *zap.Logger
	baseURL    string
	token      string
}

// TelegramOption customizes a Telegram client.
type TelegramOption func(*Telegram)

// WithTelegramBaseURL points the client at a different API host.
func WithTelegramBaseURL(url string) TelegramOption {
	return func(t *Telegram) { t.baseURL = url }
}

// WithTelegramHTTPClient replaces the underlying HTTP client.
func WithTelegramHTTPClient(hc *http.Client) TelegramOption {
	return func(t *Telegram) { t.httpClient = hc }
}

// WithTelegramLogger sets the client logger.
func WithTelegramLogger(log *zap.Logger) TelegramOption {
	return func(t *Telegram) { t.log = log }
}

// NewTelegram builds a client for the given bot token.
func NewTelegram(token string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		// Long-poll requests stay open up to the poll timeout; leave
		// headroom above it.
		httpClient: &http.Client{Timeout: 70 * time.Second},
		log:        zap.NewNop(),
		baseURL:    DefaultTelegramBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Me fetches the bot's own identity. The bot needs its user ID to recognize
// replies addressed to it.
func (t *Telegram) Me(ctx context.Context) (User, error) {
	var me User
	err := t.call(ctx, "getMe", nil, &me)
	return me, err
}

// GetUpdates long-polls for updates past offset, blocking server-side up to
// timeout seconds.
func (t *Telegram) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	body, err := seri.Marshal(getUpdatesCodec, getUpdatesRequest{Offset: offset, Timeout: timeout})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "encoding getUpdates")
	}
	var updates []Update
	if err := t.call(ctx, "getUpdates", body, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends plain text to a chat. replyTo, when non-nil, marks the
// message as a reply.
func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string, replyTo *int64) error {
	body, err := seri.Marshal(sendMessageCodec, sendMessageRequest{ChatID: chatID, Text: text, ReplyTo: replyTo})
	if err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "encoding sendMessage")
	}
	return t.call(ctx, "sendMessage", body, nil)
}

type apiResponse struct {
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	OK          bool            `json:"ok"`
}

func (t *Telegram) call(ctx context.Context, method string, body []byte, result any) error {
	url := t.baseURL + "/bot" + t.token + "/" + method
	t.log.Debug("bot api call", zap.String("method", method))
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "building "+method)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "calling "+method)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "reading "+method+" response")
	}

	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "decoding "+method+" response")
	}
	if !parsed.OK {
		detail := parsed.Description
		if detail == "" {
			detail = "HTTP " + resp.Status
		}
		return errors.InvalidData(errors.PhaseTransport, method+": "+detail)
	}
	if result != nil {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			return errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "decoding "+method+" result")
		}
	}
	return nil
}
