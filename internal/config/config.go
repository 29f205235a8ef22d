package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/samvad-hq/conjura/pkg/conjura"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration loaded from an optional file and environment variables.
type Config struct {
	AppName        string            `mapstructure:"app_name"`
	Env            string            `mapstructure:"app_env"`
	LogLevel       string            `mapstructure:"log_level"`
	APIURL         string            `mapstructure:"api_url"`
	BaseURLHint    string            `mapstructure:"base_url_hint"`
	EnvFile        string            `mapstructure:"env_file"`
	CallsFile      string            `mapstructure:"calls_file"`
	DefaultHeaders map[string]string `mapstructure:"default_headers"`

	// BuildEnv is read from EnvFile; it never touches the process environment.
	BuildEnv map[string]string `mapstructure:"-"`
}

// Load reads configuration from the optional file at path and CONJURA_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app_name", "conjura")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_url", "")
	v.SetDefault("base_url_hint", "")
	v.SetDefault("env_file", ".env")
	v.SetDefault("calls_file", "./configs/calls.yaml")
	v.SetDefault("default_headers", map[string]string{})

	v.SetEnvPrefix("conjura")
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return nil, fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	cfg.DefaultHeaders = sanitizeHeaders(cfg.DefaultHeaders)

	env, err := loadBuildEnv(cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	cfg.BuildEnv = env

	return &cfg, nil
}

// loadBuildEnv reads the dotenv file when it exists.
func loadBuildEnv(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	env, err := conjura.LoadBuildEnv(path)
	if err != nil {
		return nil, fmt.Errorf("load env_file: %w", err)
	}
	return env, nil
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
