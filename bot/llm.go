package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/serikit/seri"
	"github.com/serikit/seri/errors"
)

// DefaultLLMBaseURL is the OpenRouter chat-completions endpoint prefix.
const DefaultLLMBaseURL = "https://openrouter.ai/api/v1"

const (
	replyTemperature = 0.8
	replyMaxTokens   = 512

	summaryTemperature = 0.3
	summaryMaxTokens   = 256
)

type chatMessage struct {
	Role    string
	Content string
}

type chatRequest struct {
	Model       string
	Messages    []chatMessage
	Temperature float64
	MaxTokens   int
}

var chatMessageCodec = seri.Object(seri.Describe(
	nil,
	seri.Fields(
		seri.Field("role", seri.String[string](), func(m *chatMessage) string { return m.Role }),
		seri.Field("content", seri.String[string](), func(m *chatMessage) string { return m.Content }),
	),
))

var chatRequestCodec = seri.Object(seri.Describe(
	nil,
	seri.Fields(
		seri.Field("model", seri.String[string](), func(r *chatRequest) string { return r.Model }),
		seri.Field("messages", seri.List[[]chatMessage](chatMessageCodec), func(r *chatRequest) []chatMessage { return r.Messages }),
		seri.Field("temperature", seri.Float[float64](), func(r *chatRequest) float64 { return r.Temperature }),
		seri.Field("max_tokens", seri.Int[int](), func(r *chatRequest) int { return r.MaxTokens }),
	),
))

// LLMClient talks to an OpenRouter-compatible chat-completions API.
type LLMClient struct {
	httpClient *http.Client
	log        *zap.Logger
	baseURL    string
	apiKey     string
}

// LLMOption customizes an LLMClient.
type LLMOption func(*LLMClient)

// WithBaseURL points the client at a different API prefix. Used by tests and
// self-hosted gateways.
func WithBaseURL(url string) LLMOption {
	return func(c *LLMClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) LLMOption {
	return func(c *LLMClient) { c.httpClient = hc }
}

// WithLLMLogger sets the client logger.
func WithLLMLogger(log *zap.Logger) LLMOption {
	return func(c *LLMClient) { c.log = log }
}

// NewLLMClient builds a client for the given API key.
func NewLLMClient(apiKey string, opts ...LLMOption) *LLMClient {
	c := &LLMClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        zap.NewNop(),
		baseURL:    DefaultLLMBaseURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateReply produces an in-persona answer to userMessage given the chat
// history and stored memories.
func (c *LLMClient) GenerateReply(ctx context.Context, cfg Config, history []string, memories []Entry, userMessage string) (string, error) {
	system := cfg.SystemPrompt + "\nPersona: " + cfg.Persona

	var blob strings.Builder
	for _, m := range memories {
		if blob.Len() > 0 {
			blob.WriteByte('\n')
		}
		blob.WriteString("- ")
		blob.WriteString(m.Text)
	}
	memoryBlob := blob.String()
	if memoryBlob == "" {
		memoryBlob = "None"
	}

	messages := make([]chatMessage, 0, len(history)+3)
	messages = append(messages,
		chatMessage{Role: "system", Content: system},
		chatMessage{Role: "system", Content: "Relevant persona memories (optional):\n" + memoryBlob},
	)
	for _, item := range history {
		messages = append(messages, chatMessage{Role: "user", Content: item})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userMessage})

	return c.complete(ctx, chatRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: replyTemperature,
		MaxTokens:   replyMaxTokens,
	})
}

// GenerateSummary condenses a batch of chat messages into a short memory in
// the persona's voice.
func (c *LLMClient) GenerateSummary(ctx context.Context, messages []string, persona, model string) (string, error) {
	system := "Summarize the following chat messages into a short paragraph of durable facts " +
		"worth remembering. Write in third person. Persona context: " + persona

	return c.complete(ctx, chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: strings.Join(messages, "\n")},
		},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *LLMClient) complete(ctx context.Context, req chatRequest) (string, error) {
	body, err := seri.Marshal(chatRequestCodec, req)
	if err != nil {
		return "", errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "encoding chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "building chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Debug("chat completion request",
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "calling chat completions")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "reading chat response")
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errors.Wrap(errors.PhaseTransport, errors.KindInvalidData, err, "decoding chat response")
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", errors.InvalidData(errors.PhaseTransport, "chat completions: "+parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.InvalidData(errors.PhaseTransport, "chat completions: HTTP "+resp.Status)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.InvalidData(errors.PhaseTransport, "chat completions: empty choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
