// Package config loads the settings of the orb command line tool.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/telnet2/orb-sdk-go/option"
)

// Environment variables read by Load.
const (
	EnvConfig     = "ORB_CONFIG"
	EnvAPIKey     = "ORB_API_KEY"
	EnvBaseURL    = "ORB_BASE_URL"
	EnvMaxRetries = "ORB_MAX_RETRIES"
	EnvTimeout    = "ORB_TIMEOUT"
	EnvLogLevel   = "ORB_LOG"
)

// Config holds the CLI settings. Zero values mean "use the SDK default".
type Config struct {
	APIKey     string            `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string            `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	MaxRetries *int              `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
	Timeout    string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	LogLevel   string            `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	NoColor    bool              `json:"no_color,omitempty" yaml:"no_color,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

var configNames = []string{"config.json", "config.jsonc", "config.yaml", "config.yml"}
var projectNames = []string{".orb.json", ".orb.jsonc", ".orb.yaml", ".orb.yml"}

// Load merges configuration from, in increasing priority:
//  1. the global config in ~/.config/orb/
//  2. the project config (.orb.json, .orb.jsonc or .orb.yaml) in directory
//  3. the file named by ORB_CONFIG
//  4. the environment, after loading directory/.env
//
// Missing files are skipped; files that exist but do not parse are errors.
func Load(directory string) (*Config, error) {
	return LoadWithFile(directory, os.Getenv(EnvConfig))
}

// LoadWithFile is Load with file read in place of the ORB_CONFIG file. An
// empty file reads none.
func LoadWithFile(directory, file string) (*Config, error) {
	cfg := &Config{}
	loaded := make(map[string]bool)

	loadOnce := func(path string) error {
		absPath, err := filepath.Abs(path)
		if err != nil || loaded[absPath] {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil
		}
		loaded[absPath] = true
		return loadConfigFile(path, cfg)
	}

	global := GetPaths().Config
	for _, name := range configNames {
		if err := loadOnce(filepath.Join(global, name)); err != nil {
			return nil, err
		}
	}

	if directory != "" {
		for _, name := range projectNames {
			if err := loadOnce(filepath.Join(directory, name)); err != nil {
				return nil, err
			}
		}
		// Variables already set in the environment win over .env.
		_ = godotenv.Load(filepath.Join(directory, ".env"))
	}

	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := loadOnce(file); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data = interpolate(data)

	var fileConfig Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fileConfig)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &fileConfig)
	}
	if err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileConfig)
	return nil
}

var envPattern = regexp.MustCompile(`\{env:([^}]+)\}`)

// interpolate replaces {env:VAR_NAME} placeholders.
func interpolate(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *Config) {
	if source.APIKey != "" {
		target.APIKey = source.APIKey
	}
	if source.BaseURL != "" {
		target.BaseURL = source.BaseURL
	}
	if source.MaxRetries != nil {
		target.MaxRetries = source.MaxRetries
	}
	if source.Timeout != "" {
		target.Timeout = source.Timeout
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.NoColor {
		target.NoColor = true
	}
	if source.Headers != nil {
		if target.Headers == nil {
			target.Headers = make(map[string]string)
		}
		for k, v := range source.Headers {
			target.Headers[k] = v
		}
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMaxRetries, err)
		}
		cfg.MaxRetries = &n
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		cfg.Timeout = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}
	return nil
}

// RequestTimeout parses Timeout. It is zero when unset.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: timeout: %w", err)
	}
	return d, nil
}

// RequestOptions turns the settings into client options.
func (c *Config) RequestOptions() ([]option.RequestOption, error) {
	var opts []option.RequestOption
	if c.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.BaseURL))
	}
	if c.APIKey != "" {
		opts = append(opts, option.WithAPIKey(c.APIKey))
	}
	if c.MaxRetries != nil {
		if *c.MaxRetries < 0 {
			return nil, fmt.Errorf("config: max_retries must not be negative")
		}
		opts = append(opts, option.WithMaxRetries(*c.MaxRetries))
	}
	timeout, err := c.RequestTimeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	for k, v := range c.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	return opts, nil
}
