package bot

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultPollTimeout = 50 // seconds, Bot API long-poll window

const helpText = "Available commands:\n" +
	"/persona <text> - set persona\n" +
	"/frequency <0-1> - adjust reply probability\n" +
	"/prompt <text> - set system prompt\n" +
	"/model <name> - set OpenRouter model\n" +
	"/memory add|list|clear - manage memories\n" +
	"/status - show configuration"

// Bot ties the Telegram transport, the LLM client, configuration and memory
// together into the polling loop.
type Bot struct {
	tg          *Telegram
	llm         *LLMClient
	cfg         *Manager
	mem         *Memory
	log         *zap.Logger
	rand        func() float64
	me          User
	statePath   string
	pollTimeout int
}

// BotOption customizes a Bot.
type BotOption func(*Bot)

// WithLogger sets the bot logger.
func WithLogger(log *zap.Logger) BotOption {
	return func(b *Bot) { b.log = log }
}

// WithRand replaces the reply-probability source. Tests pin it.
func WithRand(r func() float64) BotOption {
	return func(b *Bot) { b.rand = r }
}

// WithStatePath enables memory snapshots at path after each mutation.
func WithStatePath(path string) BotOption {
	return func(b *Bot) { b.statePath = path }
}

// WithPollTimeout sets the long-poll window in seconds.
func WithPollTimeout(seconds int) BotOption {
	return func(b *Bot) { b.pollTimeout = seconds }
}

// New assembles a Bot from its parts.
func New(tg *Telegram, llm *LLMClient, cfg *Manager, mem *Memory, opts ...BotOption) *Bot {
	b := &Bot{
		tg:          tg,
		llm:         llm,
		cfg:         cfg,
		mem:         mem,
		log:         zap.NewNop(),
		rand:        rand.Float64,
		pollTimeout: defaultPollTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run polls for updates until ctx is canceled. Transport errors are logged
// and retried with a short backoff.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.tg.Me(ctx)
	if err != nil {
		return err
	}
	b.me = me
	b.log.Info("bot started", zap.Int64("id", me.ID), zap.String("name", me.FirstName))

	if b.statePath != "" {
		if err := b.mem.Load(b.statePath); err != nil {
			b.log.Warn("memory snapshot not restored", zap.Error(err))
		}
	}

	var offset int64
	for {
		updates, err := b.tg.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.log.Warn("getUpdates failed", zap.Error(err))
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			b.handleUpdate(ctx, u.Message)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, msg *Message) {
	if msg == nil || msg.Text == "" {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		b.handleCommand(ctx, msg)
		return
	}
	b.maybeReply(ctx, msg)
}

// handleCommand dispatches a slash command. The command word may carry a
// @botname suffix in group chats.
func (b *Bot) handleCommand(ctx context.Context, msg *Message) {
	word, arg := splitCommand(msg.Text)

	var reply string
	switch word {
	case "persona":
		if arg == "" {
			reply = "Usage: /persona <description>"
			break
		}
		if err := b.cfg.SetPersona(arg); err != nil {
			b.log.Error("persona update failed", zap.Error(err))
			reply = "Could not save the persona."
			break
		}
		reply = "Persona updated."

	case "frequency":
		value, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			reply = "Usage: /frequency <0.0-1.0>"
			break
		}
		if err := b.cfg.SetFrequency(value); err != nil {
			b.log.Error("frequency update failed", zap.Error(err))
			reply = "Could not save the frequency."
			break
		}
		reply = fmt.Sprintf("Response frequency set to %.2f.", value)

	case "prompt":
		if arg == "" {
			reply = "Usage: /prompt <system prompt>"
			break
		}
		if err := b.cfg.SetSystemPrompt(arg); err != nil {
			b.log.Error("prompt update failed", zap.Error(err))
			reply = "Could not save the prompt."
			break
		}
		reply = "System prompt updated."

	case "model":
		if arg == "" {
			reply = "Usage: /model <model name>"
			break
		}
		if err := b.cfg.SetModel(arg); err != nil {
			b.log.Error("model update failed", zap.Error(err))
			reply = "Could not save the model."
			break
		}
		reply = fmt.Sprintf("Model set to %s.", arg)

	case "status":
		cfg := b.cfg.Config()
		reply = fmt.Sprintf(
			"Persona bot configuration\nPersona: %s\nResponse frequency: %.2f\nModel: %s\nMax context messages: %d",
			cfg.Persona, cfg.ResponseFrequency, cfg.Model, cfg.MaxContextMessages,
		)

	case "memory":
		reply = b.handleMemory(msg.Chat.ID, arg)

	case "help", "start":
		reply = helpText

	default:
		return
	}

	if err := b.tg.SendMessage(ctx, msg.Chat.ID, reply, nil); err != nil {
		b.log.Error("command reply failed", zap.Error(err))
	}
}

func (b *Bot) handleMemory(chatID int64, arg string) string {
	action, payload := splitFirstWord(arg)
	switch {
	case action == "add" && payload != "":
		entry := b.mem.AddMemory(chatID, payload)
		b.saveState()
		return "Stored memory at " + entry.CreatedAt.Format(time.RFC3339)
	case action == "clear":
		b.mem.ClearMemories(chatID)
		b.saveState()
		return "Cleared memories for this chat."
	case action == "list":
		memories := b.mem.Memories(chatID)
		if len(memories) == 0 {
			return "No memories stored yet."
		}
		lines := make([]string, len(memories))
		for i, m := range memories {
			lines[i] = fmt.Sprintf("- %s (%s)", m.Text, m.CreatedAt.Format("2006-01-02"))
		}
		return strings.Join(lines, "\n")
	default:
		return "Usage: /memory <add|clear|list> [text]"
	}
}

func (b *Bot) maybeReply(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	sender := "User"
	if msg.From != nil && msg.From.FirstName != "" {
		sender = msg.From.FirstName
	}
	b.mem.AppendHistory(chatID, sender+": "+msg.Text)

	cfg := b.cfg.Config()
	repliedToBot := msg.ReplyToMessage != nil &&
		msg.ReplyToMessage.From != nil &&
		msg.ReplyToMessage.From.ID == b.me.ID
	isPrivate := msg.Chat.Type == "private"

	if !ShouldRespond(b.rand(), cfg.ResponseFrequency, repliedToBot, isPrivate) {
		b.saveState()
		return
	}

	history := b.mem.History(chatID, cfg.MaxContextMessages)
	memories := b.mem.Memories(chatID)

	reply, err := b.llm.GenerateReply(ctx, cfg, history, memories, msg.Text)
	if err != nil {
		b.log.Error("reply generation failed", zap.Int64("chat", chatID), zap.Error(err))
		fallback := "Sorry, I encountered an error generating a response. Please try again later."
		if serr := b.tg.SendMessage(ctx, chatID, fallback, nil); serr != nil {
			b.log.Error("fallback send failed", zap.Error(serr))
		}
		return
	}

	replyTo := msg.MessageID
	if err := b.tg.SendMessage(ctx, chatID, reply, &replyTo); err != nil {
		b.log.Error("reply send failed", zap.Int64("chat", chatID), zap.Error(err))
		return
	}
	b.mem.AppendHistory(chatID, "Bot: "+reply)
	b.log.Info("replied", zap.Int64("chat", chatID))

	b.autoSummarize(ctx, chatID, cfg)
	b.saveState()
}

// autoSummarize folds the oldest history batch into a summary memory once
// the chat crosses the configured threshold. Failures are logged and the
// conversation continues.
func (b *Bot) autoSummarize(ctx context.Context, chatID int64, cfg Config) {
	if !cfg.AutoSummarize {
		return
	}
	if !b.mem.ShouldSummarize(chatID, cfg.SummarizeThreshold) {
		return
	}

	messages, total := b.mem.MessagesForSummary(chatID, cfg.SummarizeBatchSize)
	if len(messages) == 0 {
		return
	}
	b.log.Debug("summarizing history",
		zap.Int64("chat", chatID),
		zap.Int("batch", len(messages)),
		zap.Int("total", total))

	summary, err := b.llm.GenerateSummary(ctx, messages, cfg.Persona, cfg.Model)
	if err != nil {
		b.log.Error("auto-summarize failed", zap.Int64("chat", chatID), zap.Error(err))
		return
	}
	b.mem.AddMemory(chatID, "[Auto-summary]: "+summary)
	b.mem.ClearSummarized(chatID, len(messages))
	b.log.Info("summarized history", zap.Int64("chat", chatID), zap.Int("messages", len(messages)))
}

func (b *Bot) saveState() {
	if b.statePath == "" {
		return
	}
	if err := b.mem.Save(b.statePath); err != nil {
		b.log.Error("memory snapshot failed", zap.Error(err))
	}
}

// splitCommand parses "/cmd@bot arg…" into the bare command word and its
// argument string.
func splitCommand(text string) (word, arg string) {
	word, arg = splitFirstWord(strings.TrimPrefix(text, "/"))
	if at := strings.IndexByte(word, '@'); at >= 0 {
		word = word[:at]
	}
	return word, arg
}

func splitFirstWord(s string) (first, rest string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return strings.ToLower(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return strings.ToLower(s), ""
}
