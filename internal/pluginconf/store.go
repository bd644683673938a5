package pluginconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"rpgtrans/internal/transpath"

	"github.com/rs/zerolog/log"
)

// ErrPluginConfig reports a malformed plugin pattern or config file.
var ErrPluginConfig = errors.New("invalid plugin config")

// FieldConfig marks one wildcard pattern over plugin-parameter paths as
// translatable. Patterns use the field grammar from transpath: "|ARY|"
// matches any array index, "|OBJ|" any single object key.
type FieldConfig struct {
	Pattern      string `json:"pattern"`
	Description  string `json:"description,omitempty"`
	Translatable bool   `json:"translatable"`
}

// PluginConfig is the named, enable-flagged pattern set for one plugin.
type PluginConfig struct {
	PluginName  string        `json:"plugin_name"`
	Fields      []FieldConfig `json:"extraction_paths"`
	Enabled     bool          `json:"enabled"`
	Description string        `json:"description,omitempty"`
}

// NewPluginConfig builds an enabled config for a plugin name.
func NewPluginConfig(name string) PluginConfig {
	return PluginConfig{PluginName: name, Enabled: true}
}

// WithField appends a translatable field pattern.
func (c PluginConfig) WithField(pattern, description string) PluginConfig {
	c.Fields = append(c.Fields, FieldConfig{
		Pattern:      pattern,
		Description:  description,
		Translatable: true,
	})
	return c
}

// Store holds predefined and user-defined plugin configs. A store is built
// before a batch run and read-only while the batch is in flight; user edits
// produce a new store rather than mutating one that walkers may be reading.
type Store struct {
	predefined map[string]PluginConfig
	user       map[string]PluginConfig
}

// NewStore creates a store seeded with the predefined plugin configs.
func NewStore() *Store {
	s := &Store{
		predefined: make(map[string]PluginConfig),
		user:       make(map[string]PluginConfig),
	}
	for _, cfg := range predefinedConfigs() {
		s.predefined[cfg.PluginName] = cfg
	}
	return s
}

// Predefined configs for plugins commonly seen in MV/MZ games.
func predefinedConfigs() []PluginConfig {
	return []PluginConfig{
		NewPluginConfig("TorigoyaMZ_NotifyMessage").
			WithField("message", "Notification message"),
		NewPluginConfig("NotifyMessage_Battle").
			WithField("message", "Battle notification message"),
		NewPluginConfig("BattleLogOutput").
			WithField("message", "Battle log message"),
	}
}

// SetUser registers a user-defined config, overriding any predefined config
// with the same plugin name.
func (s *Store) SetUser(cfg PluginConfig) {
	s.user[cfg.PluginName] = cfg
}

// Lookup returns the config for a plugin. User configs take precedence.
// Absence is a normal outcome: plugins without a config extract nothing.
func (s *Store) Lookup(pluginName string) (PluginConfig, bool) {
	if cfg, ok := s.user[pluginName]; ok {
		return cfg, true
	}
	cfg, ok := s.predefined[pluginName]
	return cfg, ok
}

// Names returns all configured plugin names, user overrides included once.
func (s *Store) Names() []string {
	seen := make(map[string]struct{}, len(s.predefined)+len(s.user))
	var names []string
	for name := range s.predefined {
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for name := range s.user {
		if _, ok := seen[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

// LoadUserFile reads user configs from a JSON file and registers them.
// Every pattern is compiled up front so a malformed pattern fails the load
// instead of surfacing mid-walk.
func (s *Store) LoadUserFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin config: %w", err)
	}

	var configs []PluginConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPluginConfig, path, err)
	}

	for _, cfg := range configs {
		if cfg.PluginName == "" {
			return fmt.Errorf("%w: %s: config with empty plugin_name", ErrPluginConfig, path)
		}
		for _, field := range cfg.Fields {
			if _, err := transpath.CompilePattern(field.Pattern); err != nil {
				return fmt.Errorf("%w: plugin %s: %v", ErrPluginConfig, cfg.PluginName, err)
			}
		}
		s.SetUser(cfg)
	}

	log.Info().Int("plugins", len(configs)).Str("path", path).Msg("Loaded user plugin configs")
	return nil
}
