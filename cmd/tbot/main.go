package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/serikit/seri/bot"
)

func main() {
	var (
		token      = pflag.String("token", os.Getenv("TELEGRAM_BOT_TOKEN"), "Telegram bot token (or TELEGRAM_BOT_TOKEN env var)")
		apiKey     = pflag.String("api-key", os.Getenv("API_KEY"), "OpenRouter-compatible API key (or API_KEY env var)")
		configPath = pflag.String("config", "config.json", "Path to the bot config file (JSON, comments allowed)")
		statePath  = pflag.String("state", "memory.bin", "Path to the memory snapshot file")
		local      = pflag.Bool("local", false, "Chat with the persona in the terminal instead of Telegram")
		debug      = pflag.Bool("debug", false, "Verbose logging")
	)
	pflag.Parse()

	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "API key is required. Use --api-key or API_KEY.")
		os.Exit(1)
	}

	log, err := newLogger(*debug, *local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := bot.NewManager(*configPath, log)
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}
	mem := bot.NewMemory(0)
	llm := bot.NewLLMClient(*apiKey, bot.WithLLMLogger(log))

	if *local {
		if err := runLocal(cfg, mem, llm); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *token == "" {
		fmt.Fprintln(os.Stderr, "Telegram bot token is required. Use --token or TELEGRAM_BOT_TOKEN.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bot.New(
		bot.NewTelegram(*token, bot.WithTelegramLogger(log)),
		llm,
		cfg,
		mem,
		bot.WithLogger(log),
		bot.WithStatePath(*statePath),
	)
	if err := b.Run(ctx); err != nil {
		log.Fatal("bot stopped", zap.Error(err))
	}
	log.Info("bot shut down")
}

// newLogger builds the process logger. In local TUI mode logs must stay off
// the terminal, so they go to a file next to the state.
func newLogger(debug, local bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if local {
		cfg.OutputPaths = []string{"tbot.log"}
		cfg.ErrorOutputPaths = []string{"tbot.log"}
	}
	return cfg.Build()
}
