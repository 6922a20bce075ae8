package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPath задает путь к конфигу плагинов.
const EnvPath = "EDR_PLUGIN_CONFIG"

// VendorSimulated обозначает EDR-клиент, который только логирует действие.
const VendorSimulated = "simulated"

// Policy описывает правило безопасности: действие action запрещено,
// если значение параметра param входит в targets.
type Policy struct {
	Name    string   `yaml:"name"`
	Action  string   `yaml:"action"`
	Param   string   `yaml:"param"`
	Targets []string `yaml:"targets"`
}

// Config описывает параметры плагинов.
type Config struct {
	Agent struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"agent"`
	EDR struct {
		Vendor string `yaml:"vendor"`
	} `yaml:"edr"`
	Safety struct {
		Policies []Policy `yaml:"policies"`
	} `yaml:"safety"`
	Audit struct {
		Enabled    bool   `yaml:"enabled"`
		SQLitePath string `yaml:"sqlite_path"`
		QueryLimit int    `yaml:"query_limit"`
	} `yaml:"audit"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	var cfg Config
	cfg.Agent.LogLevel = "info"
	cfg.Agent.LogFormat = "text"
	cfg.EDR.Vendor = VendorSimulated
	cfg.Audit.Enabled = false
	cfg.Audit.SQLitePath = "/var/lib/edrplugins/audit.db"
	cfg.Audit.QueryLimit = 50
	return cfg
}

// Load читает конфиг из файла YAML, поверх значений по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- путь к конфигу задается доверенным оператором.
	if err != nil {
		return cfg, err
	}
	if len(data) == 0 {
		return cfg, errors.New("config file is empty")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv загружает конфиг по пути из EDR_PLUGIN_CONFIG.
func FromEnv() (Config, error) {
	return Load(strings.TrimSpace(os.Getenv(EnvPath)))
}

// Validate проверяет значения, которые нельзя молча заменить значениями по умолчанию.
func (c Config) Validate() error {
	if c.EDR.Vendor != VendorSimulated {
		return fmt.Errorf("edr vendor %q is not supported", c.EDR.Vendor)
	}
	switch strings.ToLower(c.Agent.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format %q is not supported", c.Agent.LogFormat)
	}
	for i, p := range c.Safety.Policies {
		if p.Action == "" || p.Param == "" {
			return fmt.Errorf("safety policy #%d (%s): action and param are required", i, p.Name)
		}
	}
	if c.Audit.Enabled && c.Audit.SQLitePath == "" {
		return errors.New("audit is enabled but sqlite_path is empty")
	}
	return nil
}
