package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full agenttop configuration: store capacities, generation
// cadence, and the catalogs themselves. Every field has a baked-in default so
// the dashboard runs with no config file at all.
type Config struct {
	Store GenStoreConfig `mapstructure:"store"`
	Gen   GenConfig      `mapstructure:"gen"`

	Agents []Agent  `mapstructure:"agents"`
	Tools  []string `mapstructure:"tools"`

	// Path is the config file actually used, empty when running on defaults.
	Path string `mapstructure:"-"`
}

// GenStoreConfig sets the hard capacity ceilings of the two event sequences.
type GenStoreConfig struct {
	MessageCap  int `mapstructure:"message_cap"`
	ToolCallCap int `mapstructure:"tool_call_cap"`
}

// GenConfig sets the randomized inter-arrival delay ranges for the two
// generation schedules.
type GenConfig struct {
	MessageDelayMin  time.Duration `mapstructure:"message_delay_min"`
	MessageDelayMax  time.Duration `mapstructure:"message_delay_max"`
	ToolCallDelayMin time.Duration `mapstructure:"tool_call_delay_min"`
	ToolCallDelayMax time.Duration `mapstructure:"tool_call_delay_max"`
}

// DefaultAgents is the built-in roster used when no config file provides one.
var DefaultAgents = []Agent{
	{ID: "orchestrator", DisplayName: "Orchestrator", Glyph: "◆", Accent: "#7C3AED", Status: StatusActive},
	{ID: "researcher", DisplayName: "Researcher", Glyph: "◇", Accent: "#89B4FA", Status: StatusActive},
	{ID: "coder", DisplayName: "Coder", Glyph: "●", Accent: "#A6E3A1", Status: StatusActive},
	{ID: "reviewer", DisplayName: "Reviewer", Glyph: "○", Accent: "#F9E2AF", Status: StatusActive},
	{ID: "archivist", DisplayName: "Archivist", Glyph: "▣", Accent: "#FAB387", Status: StatusStandby},
	{ID: "sentinel", DisplayName: "Sentinel", Glyph: "▲", Accent: "#F38BA8", Status: StatusMaintenance},
}

// DefaultTools is the built-in tool vocabulary.
var DefaultTools = []string{
	"web_search",
	"code_exec",
	"file_read",
	"file_write",
	"db_query",
	"http_fetch",
	"vector_search",
	"summarize",
}

// Load reads the configuration, merging file, environment, and defaults.
// path may be empty, in which case agenttop.yaml is searched for in the
// working directory and ~/.config/agenttop. A missing config file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("agenttop")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/agenttop")
	}

	// Env override: AGENTTOP_STORE_MESSAGE_CAP=200 overrides store.message_cap.
	v.SetEnvPrefix("agenttop")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()
	if len(cfg.Agents) == 0 {
		cfg.Agents = DefaultAgents
	}
	if len(cfg.Tools) == 0 {
		cfg.Tools = DefaultTools
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.message_cap", 100)
	v.SetDefault("store.tool_call_cap", 50)
	v.SetDefault("gen.message_delay_min", 1500*time.Millisecond)
	v.SetDefault("gen.message_delay_max", 4*time.Second)
	v.SetDefault("gen.tool_call_delay_min", 2*time.Second)
	v.SetDefault("gen.tool_call_delay_max", 6*time.Second)
}

func (c *Config) validate() error {
	if c.Store.MessageCap <= 0 || c.Store.ToolCallCap <= 0 {
		return fmt.Errorf("store capacities must be positive (message_cap=%d, tool_call_cap=%d)",
			c.Store.MessageCap, c.Store.ToolCallCap)
	}
	if c.Gen.MessageDelayMin <= 0 || c.Gen.MessageDelayMax < c.Gen.MessageDelayMin {
		return fmt.Errorf("invalid message delay range [%s, %s]", c.Gen.MessageDelayMin, c.Gen.MessageDelayMax)
	}
	if c.Gen.ToolCallDelayMin <= 0 || c.Gen.ToolCallDelayMax < c.Gen.ToolCallDelayMin {
		return fmt.Errorf("invalid tool call delay range [%s, %s]", c.Gen.ToolCallDelayMin, c.Gen.ToolCallDelayMax)
	}
	if len(c.Agents) < 2 {
		return fmt.Errorf("need at least 2 agents to simulate traffic, got %d", len(c.Agents))
	}
	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if a.ID == "" {
			return errors.New("agent with empty id in config")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate agent id %q in config", a.ID)
		}
		seen[a.ID] = true
	}
	if len(c.Tools) == 0 {
		return errors.New("tool vocabulary is empty")
	}
	return nil
}

// Catalog builds the immutable registry from the configured roster and tools.
func (c *Config) Catalog() *Catalog {
	return New(c.Agents, c.Tools)
}
