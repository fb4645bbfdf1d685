// Package config provides configuration loading and validation for the job bot.
//
// Configuration is resolved exactly once at process start: environment
// variables first (the .env file is loaded by main), then an optional JSON
// config file filling in anything the environment left blank. The resolved
// Config is immutable and injected into every component; no component
// re-resolves credentials itself.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Default limits matching the providers' free tiers and the batch defaults.
const (
	DefaultSerperLimit    = 2500
	DefaultSerpAPILimit   = 100
	DefaultMatchThreshold = 50
	DefaultMaxMatches     = 25
	DefaultMaxQueries     = 8
	DefaultMaxPerCompany  = 3
	DefaultQuotaFile      = "data/search_quota.json"
	DefaultOutputDir      = "output"
	DefaultServerPort     = 8080
)

// Config is the resolved, immutable configuration for a run.
type Config struct {
	// Provider credentials
	SerperAPIKey string `json:"serper_api_key,omitempty"`
	SerpAPIKey   string `json:"serpapi_key,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	SerperLimit  int    `json:"serper_limit,omitempty" validate:"gte=0"`
	SerpAPILimit int    `json:"serpapi_limit,omitempty" validate:"gte=0"`

	// Matching behavior
	MatchThreshold int `json:"match_threshold,omitempty" validate:"gte=0,lte=100"`
	MaxMatches     int `json:"max_matches,omitempty" validate:"gte=1"`
	MaxQueries     int `json:"max_queries,omitempty" validate:"gte=1"`
	MaxPerCompany  int `json:"max_per_company,omitempty" validate:"gte=1"`

	// Paths
	ProfilePath string `json:"profile,omitempty"`
	QuotaFile   string `json:"quota_file,omitempty"`
	OutputDir   string `json:"output_dir,omitempty"`

	// Optional integrations
	DatabaseURL    string `json:"database_url,omitempty"`
	TelegramToken  string `json:"telegram_token,omitempty"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`

	// Dashboard
	ServerPort        int    `json:"server_port,omitempty" validate:"gte=0,lte=65535"`
	DashboardPassword string `json:"-"` // bcrypt hash, env-only
	JWTSecret         string `json:"-"` // env-only

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Headless browser fallback for JS-heavy boards
	Verbose    bool `json:"verbose,omitempty"`
}

// Resolve builds the configuration from the environment plus an optional
// JSON config file. File values only fill fields the environment left empty.
func Resolve(configPath string) (*Config, error) {
	cfg := fromEnv()

	if configPath != "" {
		fileCfg, err := loadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.merge(fileCfg)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		SerperAPIKey:      os.Getenv("SERPER_API_KEY"),
		SerpAPIKey:        os.Getenv("SERPAPI_KEY"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		SerperLimit:       envInt("SERPER_MONTHLY_LIMIT"),
		SerpAPILimit:      envInt("SERPAPI_MONTHLY_LIMIT"),
		MatchThreshold:    envInt("MATCH_THRESHOLD"),
		MaxMatches:        envInt("MAX_MATCHES"),
		MaxQueries:        envInt("MAX_QUERIES"),
		MaxPerCompany:     envInt("MAX_PER_COMPANY"),
		ProfilePath:       os.Getenv("PROFILE_PATH"),
		QuotaFile:         os.Getenv("QUOTA_FILE"),
		OutputDir:         os.Getenv("OUTPUT_DIR"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    envInt64("TELEGRAM_CHAT_ID"),
		ServerPort:        envInt("PORT"),
		DashboardPassword: os.Getenv("DASHBOARD_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}
}

func envInt(name string) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return 0
	}
	return v
}

func envInt64(name string) int64 {
	v, err := strconv.ParseInt(os.Getenv(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// loadFile loads configuration from a JSON file.
func loadFile(path string) (*Config, error) {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// merge fills c's zero-valued fields from other.
func (c *Config) merge(other *Config) {
	if c.SerperAPIKey == "" {
		c.SerperAPIKey = other.SerperAPIKey
	}
	if c.SerpAPIKey == "" {
		c.SerpAPIKey = other.SerpAPIKey
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = other.GeminiAPIKey
	}
	if c.SerperLimit == 0 {
		c.SerperLimit = other.SerperLimit
	}
	if c.SerpAPILimit == 0 {
		c.SerpAPILimit = other.SerpAPILimit
	}
	if c.MatchThreshold == 0 {
		c.MatchThreshold = other.MatchThreshold
	}
	if c.MaxMatches == 0 {
		c.MaxMatches = other.MaxMatches
	}
	if c.MaxQueries == 0 {
		c.MaxQueries = other.MaxQueries
	}
	if c.MaxPerCompany == 0 {
		c.MaxPerCompany = other.MaxPerCompany
	}
	if c.ProfilePath == "" {
		c.ProfilePath = other.ProfilePath
	}
	if c.QuotaFile == "" {
		c.QuotaFile = other.QuotaFile
	}
	if c.OutputDir == "" {
		c.OutputDir = other.OutputDir
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = other.DatabaseURL
	}
	if c.TelegramToken == "" {
		c.TelegramToken = other.TelegramToken
	}
	if c.TelegramChatID == 0 {
		c.TelegramChatID = other.TelegramChatID
	}
	if c.ServerPort == 0 {
		c.ServerPort = other.ServerPort
	}
	if !c.UseBrowser {
		c.UseBrowser = other.UseBrowser
	}
	if !c.Verbose {
		c.Verbose = other.Verbose
	}
}

func (c *Config) applyDefaults() {
	if c.SerperLimit == 0 {
		c.SerperLimit = DefaultSerperLimit
	}
	if c.SerpAPILimit == 0 {
		c.SerpAPILimit = DefaultSerpAPILimit
	}
	if c.MatchThreshold == 0 {
		c.MatchThreshold = DefaultMatchThreshold
	}
	if c.MaxMatches == 0 {
		c.MaxMatches = DefaultMaxMatches
	}
	if c.MaxQueries == 0 {
		c.MaxQueries = DefaultMaxQueries
	}
	if c.MaxPerCompany == 0 {
		c.MaxPerCompany = DefaultMaxPerCompany
	}
	if c.QuotaFile == "" {
		c.QuotaFile = DefaultQuotaFile
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.ServerPort == 0 {
		c.ServerPort = DefaultServerPort
	}
}

// Validate checks the resolved configuration values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("config error: invalid values for %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// RequireSearchProvider returns a fatal configuration error when no search
// provider credential is configured. A run with zero paid providers would
// otherwise silently search the free feeds only, which the caller must opt
// into explicitly.
func (c *Config) RequireSearchProvider() error {
	if c.SerperAPIKey == "" && c.SerpAPIKey == "" {
		return fmt.Errorf("config error: no search provider credential set " +
			"(set SERPER_API_KEY or SERPAPI_KEY, or pass --free-only to search free feeds)")
	}
	return nil
}

// RequireLLM returns a fatal configuration error when the LLM credential is
// missing but an LLM-backed operation was requested.
func (c *Config) RequireLLM() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required for this command but not set")
	}
	return nil
}
