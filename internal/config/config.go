package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the API server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	AI        AIConfig        `yaml:"ai"`
	Scripture ScriptureConfig `yaml:"scripture"`
	Credits   CreditsConfig   `yaml:"credits"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	GinMode        string   `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // mysql, sqlite
	DSN    string `yaml:"dsn"`
}

// AuthConfig selects how bearer tokens are verified.
// Mode "firebase" verifies Firebase ID tokens; "hmac" verifies HS256 tokens
// signed with Secret and is meant for local development.
type AuthConfig struct {
	Mode              string   `yaml:"mode"`
	FirebaseProjectID string   `yaml:"firebase_project_id"`
	Secret            string   `yaml:"secret"`
	AdminUserIDs      []string `yaml:"admin_user_ids"`
}

type AIConfig struct {
	Provider     string        `yaml:"provider"` // gemini, openai
	Model        string        `yaml:"model"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	OpenAIAPIKey string        `yaml:"openai_api_key"`
	OpenAIURL    string        `yaml:"openai_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

type ScriptureConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Translation string        `yaml:"translation"`
	MaxWords    int           `yaml:"max_words"`
	Timeout     time.Duration `yaml:"timeout"`
}

type CreditsConfig struct {
	Starting     int `yaml:"starting"`
	LowThreshold int `yaml:"low_threshold"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			GinMode:        "release",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:versefinder.db?_pragma=busy_timeout(5000)",
		},
		Auth: AuthConfig{
			Mode: "firebase",
		},
		AI: AIConfig{
			Provider:  "gemini",
			OpenAIURL: "https://api.openai.com/v1/",
			Timeout:   30 * time.Second,
		},
		Scripture: ScriptureConfig{
			BaseURL:  "https://bible-api.com",
			MaxWords: 100,
			Timeout:  10 * time.Second,
		},
		Credits: CreditsConfig{
			Starting:     10,
			LowThreshold: 3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadEnvFile loads a .env file from the working directory into the
// environment. A missing file is normal in production; callers log it.
func LoadEnvFile() error {
	return godotenv.Load()
}

// Load builds the configuration in three layers: defaults, then the YAML
// file at path (skipped when path is empty), then environment variables,
// and validates everything the API server needs.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase builds the configuration like Load but validates only the
// database section, for maintenance commands that never serve requests.
func LoadDatabase(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := errors.Join(cfg.validateDatabase()...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModel(cfg.AI.Provider)
	}
	return cfg, nil
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return "gpt-3.5-turbo"
	}
	return "gemini-1.5-flash"
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "ADDR")
	setList(&c.Server.AllowedOrigins, "CORS_ALLOWED_ORIGINS")
	setString(&c.Server.GinMode, "GIN_MODE")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DB_DSN_PRIMARY")

	setString(&c.Auth.Mode, "AUTH_MODE")
	setString(&c.Auth.FirebaseProjectID, "FIREBASE_PROJECT_ID")
	setString(&c.Auth.Secret, "AUTH_SECRET")
	setList(&c.Auth.AdminUserIDs, "ADMIN_USER_IDS")

	setString(&c.AI.Provider, "AI_PROVIDER")
	setString(&c.AI.Model, "AI_MODEL")
	setString(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.AI.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.AI.OpenAIURL, "OPENAI_URL")

	setString(&c.Scripture.BaseURL, "SCRIPTURE_BASE_URL")
	setString(&c.Scripture.Translation, "SCRIPTURE_TRANSLATION")

	setString(&c.Logging.Level, "LOG_LEVEL")

	var errs []error
	errs = append(errs,
		setDuration(&c.AI.Timeout, "AI_TIMEOUT"),
		setDuration(&c.Scripture.Timeout, "SCRIPTURE_TIMEOUT"),
		setInt(&c.Scripture.MaxWords, "SCRIPTURE_MAX_WORDS"),
		setInt(&c.Credits.Starting, "STARTING_CREDITS"),
		setInt(&c.Credits.LowThreshold, "LOW_CREDIT_THRESHOLD"),
		setBool(&c.Logging.Development, "LOG_DEVELOPMENT"),
	)
	return errors.Join(errs...)
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("unknown gin mode %q", c.Server.GinMode))
	}

	errs = append(errs, c.validateDatabase()...)

	switch c.Auth.Mode {
	case "firebase":
		if c.Auth.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required in firebase auth mode"))
		}
	case "hmac":
		if c.Auth.Secret == "" {
			errs = append(errs, errors.New("AUTH_SECRET is required in hmac auth mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown auth mode %q", c.Auth.Mode))
	}

	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
		}
	case "openai":
		if c.AI.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AI provider %q", c.AI.Provider))
	}
	if c.AI.Timeout <= 0 {
		errs = append(errs, errors.New("AI timeout must be positive"))
	}

	if c.Scripture.BaseURL == "" {
		errs = append(errs, errors.New("scripture base URL is required"))
	}
	if c.Scripture.Timeout <= 0 {
		errs = append(errs, errors.New("scripture timeout must be positive"))
	}
	if c.Scripture.MaxWords <= 0 {
		errs = append(errs, errors.New("scripture max words must be positive"))
	}

	if c.Credits.Starting < 0 {
		errs = append(errs, errors.New("starting credits cannot be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) validateDatabase() []error {
	var errs []error
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	return errs
}

// IsAdmin reports whether userID is listed as an administrator.
func (c *AuthConfig) IsAdmin(userID string) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
