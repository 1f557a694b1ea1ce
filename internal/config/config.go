// Package config loads runtime settings from a YAML file, a .env file and
// the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Paths struct {
	Transcripts   string `yaml:"transcripts"`
	Conversations string `yaml:"conversations"`
	Cache         string `yaml:"cache"`
}

type Parser struct {
	AIMarker    string        `yaml:"ai_marker"`
	NoiseMarker string        `yaml:"noise_marker"`
	MergeGap    time.Duration `yaml:"merge_gap"`
}

type Oracle struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetryTime time.Duration `yaml:"max_retry_time"`
	UseMock      bool          `yaml:"use_mock"`
}

type Cache struct {
	MaxAge       time.Duration `yaml:"max_age"`
	MemoCapacity int           `yaml:"memo_capacity"`
}

type Root struct {
	Paths   Paths  `yaml:"paths"`
	Parser  Parser `yaml:"parser"`
	Oracle  Oracle `yaml:"oracle"`
	Cache   Cache  `yaml:"cache"`
	Workers int    `yaml:"workers"`
}

func Default() *Root {
	return &Root{
		Paths: Paths{
			Transcripts:   "processed_logs",
			Conversations: "convoJson",
			Cache:         "cache",
		},
		Parser: Parser{
			AIMarker:    "AI",
			NoiseMarker: "<noise>",
			MergeGap:    2 * time.Second,
		},
		Oracle: Oracle{
			Model:        "gemini-2.5-flash",
			Timeout:      30 * time.Second,
			MaxRetryTime: 45 * time.Second,
		},
		Cache: Cache{
			MaxAge:       7 * 24 * time.Hour,
			MemoCapacity: 64,
		},
		Workers: 4,
	}
}

// Load reads path (optional, may be empty or missing) over the defaults,
// then applies .env and environment overrides.
func Load(path string) (*Root, error) {
	_ = godotenv.Load() // loads .env

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Root) {
	setString(&cfg.Paths.Transcripts, "TRANSCRIPTS_DIR")
	setString(&cfg.Paths.Conversations, "CONVERSATIONS_DIR")
	setString(&cfg.Paths.Cache, "CACHE_DIR")
	setString(&cfg.Oracle.BaseURL, "LLM_GATEWAY_URL")
	setString(&cfg.Oracle.APIKey, "LLM_API_KEY")
	setString(&cfg.Oracle.Model, "LLM_MODEL")
	if v := os.Getenv("USE_MOCK_LLM"); v != "" {
		cfg.Oracle.UseMock = v == "true"
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Root) Validate() error {
	switch {
	case c.Parser.AIMarker == "":
		return fmt.Errorf("%w: parser.ai_marker is empty", ErrInvalidConfig)
	case c.Parser.MergeGap < 0:
		return fmt.Errorf("%w: parser.merge_gap must not be negative", ErrInvalidConfig)
	case c.Oracle.Timeout <= 0:
		return fmt.Errorf("%w: oracle.timeout must be positive", ErrInvalidConfig)
	case c.Cache.MaxAge <= 0:
		return fmt.Errorf("%w: cache.max_age must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	case c.Paths.Cache == "":
		return fmt.Errorf("%w: paths.cache is empty", ErrInvalidConfig)
	}
	return nil
}
