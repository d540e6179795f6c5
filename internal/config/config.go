// Package config loads the YAML definition of a tracked pipeline.
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/model"
	"github.com/askiada/go-pipeline-tracker/pkg/pipeline/persist"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// StateConfig tells where the tracker is saved.
type StateConfig struct {
	Name        string `yaml:"name"`
	Backend     string `yaml:"backend"` // "file" or "sqlite"
	Dir         string `yaml:"dir"`     // used by the file backend
	DSN         string `yaml:"dsn"`     // used by the sqlite backend
	Compression string `yaml:"compression"`
}

// StepConfig is one process of the pipeline.
type StepConfig struct {
	Args        map[string]string `yaml:"args"`
	Scope       string            `yaml:"scope"`
	Action      string            `yaml:"action"`
	Transform   string            `yaml:"transform"`
	Description string            `yaml:"description"`
	Tracked     bool              `yaml:"tracked"`
}

// UnmarshalYAML makes steps tracked unless told otherwise.
func (s *StepConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain StepConfig

	step := plain{Tracked: true}

	err := value.Decode(&step)
	if err != nil {
		return err
	}

	*s = StepConfig(step)

	return nil
}

// Key returns the identity of the step.
func (s StepConfig) Key() model.Key {
	return model.NewKey(s.Scope, s.Action)
}

type LogConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// Config is the root of the pipeline definition.
type Config struct {
	Input       string       `yaml:"input"`
	Null        string       `yaml:"null_value"` // CSV cell read and written as a missing value
	State       StateConfig  `yaml:"state"`
	BackupAfter []string     `yaml:"backup_after"` // "scope/action" of the steps to back up after
	Steps       []StepConfig `yaml:"steps"`
	Log         LogConfig    `yaml:"log"`
}

// Load reads a configuration, applying defaults for missing values. A nil
// reader gives the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := &Config{
		State: StateConfig{
			Name:        "pipeline",
			Backend:     BackendFile,
			Dir:         "./state",
			DSN:         "pipetrack.db",
			Compression: "zstd",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config")
	}

	if len(data) == 0 {
		return cfg, nil
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config yaml")
	}

	return cfg, nil
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open config file %s", path)
	}
	defer file.Close()

	return Load(file)
}

// Validate checks the configuration can build a tracker.
func (c *Config) Validate() error {
	switch c.State.Backend {
	case BackendFile, BackendSQLite:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown state backend %q", c.State.Backend)
	}

	if c.State.Name == "" {
		return errors.Wrap(ErrInvalidConfig, "state name must be set")
	}

	_, err := persist.ParseCompression(c.State.Compression)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	_, err = c.LogLevel()
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	seen := make(map[model.Key]struct{}, len(c.Steps))

	for i, step := range c.Steps {
		if step.Scope == "" || step.Action == "" || step.Transform == "" {
			return errors.Wrapf(ErrInvalidConfig, "step %d: scope, action and transform must be set", i)
		}

		if _, ok := seen[step.Key()]; ok {
			return errors.Wrapf(ErrInvalidConfig, "step %d: duplicate step %s", i, step.Key())
		}

		seen[step.Key()] = struct{}{}
	}

	for _, ref := range c.BackupAfter {
		key, err := ParseKey(ref)
		if err != nil {
			return errors.Wrap(ErrInvalidConfig, err.Error())
		}

		if _, ok := seen[key]; !ok {
			return errors.Wrapf(ErrInvalidConfig, "backup after unknown step %s", ref)
		}
	}

	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Log.Level))
	if err != nil {
		return level, errors.Wrapf(err, "unable to parse log level %q", c.Log.Level)
	}

	return level, nil
}

// ParseKey reads a "scope/action" reference.
func ParseKey(ref string) (model.Key, error) {
	scope, action, ok := strings.Cut(ref, "/")
	if !ok || scope == "" || action == "" {
		return model.Key{}, errors.Errorf("step reference %q must be scope/action", ref)
	}

	return model.NewKey(scope, action), nil
}
