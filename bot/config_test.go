package bot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxContextMessages != 12 {
		t.Errorf("MaxContextMessages = %d, want 12", cfg.MaxContextMessages)
	}
	if cfg.ResponseFrequency <= 0 || cfg.ResponseFrequency > 1 {
		t.Errorf("ResponseFrequency = %v, want within (0, 1]", cfg.ResponseFrequency)
	}
	if !cfg.AutoSummarize {
		t.Error("AutoSummarize should default on")
	}
	if cfg.SummarizeThreshold <= cfg.SummarizeBatchSize {
		t.Errorf("threshold %d should exceed batch size %d",
			cfg.SummarizeThreshold, cfg.SummarizeBatchSize)
	}
}

func TestManagerRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.SetPersona("A curious cat."); err != nil {
		t.Fatalf("SetPersona: %v", err)
	}
	if err := m.SetFrequency(0.9); err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}

	loaded, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	cfg := loaded.Config()
	if cfg.Persona != "A curious cat." {
		t.Errorf("persona = %q", cfg.Persona)
	}
	if cfg.ResponseFrequency != 0.9 {
		t.Errorf("frequency = %v", cfg.ResponseFrequency)
	}
}

func TestManagerTrimsPersona(t *testing.T) {
	m, err := NewManager("", nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.SetPersona("  Explorer  "); err != nil {
		t.Fatalf("SetPersona: %v", err)
	}
	if got := m.Config().Persona; got != "Explorer" {
		t.Errorf("persona = %q, want %q", got, "Explorer")
	}
}

func TestManagerReadsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	content := `{
	// the character the bot plays
	"persona": "A pirate.",
	"response_frequency": 0.5,
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := m.Config()
	if cfg.Persona != "A pirate." {
		t.Errorf("persona = %q", cfg.Persona)
	}
	if cfg.ResponseFrequency != 0.5 {
		t.Errorf("frequency = %v", cfg.ResponseFrequency)
	}
	// Omitted fields backfill from defaults.
	if cfg.MaxContextMessages != 12 {
		t.Errorf("MaxContextMessages = %d, want 12", cfg.MaxContextMessages)
	}
}

func TestManagerSavesPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.SetModel("openai/gpt-4o"); err != nil {
		t.Fatalf("SetModel: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	text := string(data)
	for _, field := range []string{
		`"persona":`, `"system_prompt":`, `"llm_model":"openai/gpt-4o"`,
		`"response_frequency":`, `"max_context_messages":12`,
		`"auto_summarize_enabled":true`, `"summarize_threshold":`, `"summarize_batch_size":`,
	} {
		if !strings.Contains(text, field) {
			t.Errorf("saved config missing %s:\n%s", field, text)
		}
	}
}

func TestManagerMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	m, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m.Config() != DefaultConfig() {
		t.Errorf("config = %+v, want defaults", m.Config())
	}
}
