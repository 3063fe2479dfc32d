package bot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/serikit/seri"
	"github.com/serikit/seri/errors"
)

// Config holds the tunable behavior of the bot. Zero values are not useful;
// start from DefaultConfig.
type Config struct {
	Persona            string  `json:"persona"`
	SystemPrompt       string  `json:"system_prompt"`
	Model              string  `json:"llm_model"`
	ResponseFrequency  float64 `json:"response_frequency"`
	MaxContextMessages int     `json:"max_context_messages"`
	AutoSummarize      bool    `json:"auto_summarize_enabled"`
	SummarizeThreshold int     `json:"summarize_threshold"`
	SummarizeBatchSize int     `json:"summarize_batch_size"`
}

// DefaultConfig returns the configuration used when no file exists yet.
func DefaultConfig() Config {
	return Config{
		Persona:            "A dry, observant conversationalist.",
		SystemPrompt:       "You are roleplaying as the persona below. Stay in character and keep replies short.",
		Model:              "openai/gpt-4o-mini",
		ResponseFrequency:  0.15,
		MaxContextMessages: 12,
		AutoSummarize:      true,
		SummarizeThreshold: 30,
		SummarizeBatchSize: 10,
	}
}

var configDesc = seri.Describe(
	nil,
	seri.Fields(
		seri.Field("persona", seri.String[string](), func(c *Config) string { return c.Persona }),
		seri.Field("system_prompt", seri.String[string](), func(c *Config) string { return c.SystemPrompt }),
		seri.Field("llm_model", seri.String[string](), func(c *Config) string { return c.Model }),
		seri.Field("response_frequency", seri.Float[float64](), func(c *Config) float64 { return c.ResponseFrequency }),
		seri.Field("max_context_messages", seri.Int[int](), func(c *Config) int { return c.MaxContextMessages }),
		seri.Field("auto_summarize_enabled", seri.Bool[bool](), func(c *Config) bool { return c.AutoSummarize }),
		seri.Field("summarize_threshold", seri.Int[int](), func(c *Config) int { return c.SummarizeThreshold }),
		seri.Field("summarize_batch_size", seri.Int[int](), func(c *Config) int { return c.SummarizeBatchSize }),
	),
)

// ConfigCodec serializes Config for persistence and the /status command.
var ConfigCodec = seri.Object(configDesc)

// normalize strips stray whitespace and backfills fields an older config file
// may not carry.
func (c *Config) normalize() {
	def := DefaultConfig()
	c.Persona = strings.TrimSpace(c.Persona)
	c.SystemPrompt = strings.TrimSpace(c.SystemPrompt)
	c.Model = strings.TrimSpace(c.Model)
	if c.Persona == "" {
		c.Persona = def.Persona
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = def.SystemPrompt
	}
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.MaxContextMessages <= 0 {
		c.MaxContextMessages = def.MaxContextMessages
	}
	if c.SummarizeThreshold <= 0 {
		c.SummarizeThreshold = def.SummarizeThreshold
	}
	if c.SummarizeBatchSize <= 0 {
		c.SummarizeBatchSize = def.SummarizeBatchSize
	}
}

// Manager guards a Config behind a lock and mirrors every change to a JSON
// file. The file may contain comments and trailing commas; it is rewritten
// in plain JSON on save.
type Manager struct {
	mu   sync.RWMutex
	cfg  Config
	path string
	log  *zap.Logger
}

// NewManager loads the config at path, falling back to defaults when the
// file does not exist. An empty path keeps the manager memory-only.
func NewManager(path string, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{cfg: DefaultConfig(), path: path, log: log}
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		m.log.Info("no config file, using defaults", zap.String("path", path))
		return m, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "reading config file")
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &m.cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parsing "+path)
	}
	m.cfg.normalize()
	return m, nil
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// SetPersona updates the persona description and persists.
func (m *Manager) SetPersona(persona string) error {
	return m.update(func(c *Config) { c.Persona = strings.TrimSpace(persona) })
}

// SetFrequency updates the reply probability and persists. Values outside
// [0, 1] are stored as given and clamped at decision time.
func (m *Manager) SetFrequency(f float64) error {
	return m.update(func(c *Config) { c.ResponseFrequency = f })
}

// SetSystemPrompt updates the system prompt and persists.
func (m *Manager) SetSystemPrompt(prompt string) error {
	return m.update(func(c *Config) { c.SystemPrompt = strings.TrimSpace(prompt) })
}

// SetModel updates the LLM model name and persists.
func (m *Manager) SetModel(model string) error {
	return m.update(func(c *Config) { c.Model = strings.TrimSpace(model) })
}

func (m *Manager) update(apply func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	apply(&m.cfg)
	m.cfg.normalize()
	return m.saveLocked()
}

// saveLocked writes the config atomically: temp file in the same directory,
// then rename.
func (m *Manager) saveLocked() error {
	if m.path == "" {
		return nil
	}
	data, err := seri.Marshal(ConfigCodec, m.cfg)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "encoding config")
	}
	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".config-*.json")
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "creating temp config")
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		if werr == nil {
			werr = cerr
		}
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, werr, "writing temp config")
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "replacing config file")
	}
	return nil
}
