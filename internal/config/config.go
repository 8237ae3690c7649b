// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables
//  2. Config file (~/.nexus/config.yaml)
//  3. Default values
//
// Sensitive fields (the Gemini API key) are masked in MarshalJSON and
// String; validation lives in validation.go and uses sentinel errors so
// callers can check with errors.Is().
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModelName indicates the model name is empty or malformed.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidLanguage indicates an unsupported language code.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidDataDir indicates the data directory is unusable.
	ErrInvalidDataDir = errors.New("invalid data directory")

	// ErrInvalidPollInterval indicates the video poll interval is out of range.
	ErrInvalidPollInterval = errors.New("invalid poll interval")

	// ErrInvalidMaxPolls indicates the video max poll count is out of range.
	ErrInvalidMaxPolls = errors.New("invalid max polls")
)

// Default model identifiers.
const (
	DefaultChatModel  = "gemini-2.5-flash"
	DefaultTTSModel   = "gemini-2.5-flash-preview-tts"
	DefaultVideoModel = "veo-3.0-generate-001"
)

// Config stores application configuration.
// SECURITY: GeminiAPIKey is masked in MarshalJSON; update it when
// adding new sensitive fields.
type Config struct {
	// Provider credential. Read from NEXUS_GEMINI_API_KEY (or GEMINI_API_KEY).
	GeminiAPIKey string `mapstructure:"gemini_api_key" json:"gemini_api_key"` // SENSITIVE: masked in MarshalJSON

	// Chat model configuration
	ModelName   string  `mapstructure:"model_name" json:"model_name"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	Language    string  `mapstructure:"language" json:"language"`

	// Speech synthesis
	SpeechEnabled bool   `mapstructure:"speech_enabled" json:"speech_enabled"`
	SpeechVoice   string `mapstructure:"speech_voice" json:"speech_voice"`
	TTSModel      string `mapstructure:"tts_model" json:"tts_model"`
	PlayerCommand string `mapstructure:"player_command" json:"player_command"`

	// Video generation polling
	VideoModel        string `mapstructure:"video_model" json:"video_model"`
	VideoPollSeconds  int    `mapstructure:"video_poll_seconds" json:"video_poll_seconds"`
	VideoMaxPolls     int    `mapstructure:"video_max_polls" json:"video_max_polls"`
	TurnTimeoutSecond int    `mapstructure:"turn_timeout_seconds" json:"turn_timeout_seconds"`

	// Local persistence (progress maps, imported courses, audio output)
	DataDir string `mapstructure:"data_dir" json:"data_dir"`

	// Serve mode
	ServeAddr string `mapstructure:"serve_addr" json:"serve_addr"`

	// Observability (optional OTLP trace export)
	Tracing TracingConfig `mapstructure:"tracing" json:"tracing"`
}

// TracingConfig configures the optional OTLP trace exporter.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	Environment string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration.
// Priority: environment variables > config file > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".nexus")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// GEMINI_API_KEY is honored as a fallback for compatibility with
	// other Gemini tooling.
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("model_name", DefaultChatModel)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 2048)
	v.SetDefault("language", "es")

	v.SetDefault("speech_enabled", false)
	v.SetDefault("speech_voice", "Kore")
	v.SetDefault("tts_model", DefaultTTSModel)
	v.SetDefault("player_command", "")

	v.SetDefault("video_model", DefaultVideoModel)
	v.SetDefault("video_poll_seconds", 10)
	v.SetDefault("video_max_polls", 30)
	v.SetDefault("turn_timeout_seconds", 300)

	v.SetDefault("data_dir", filepath.Join(configDir, "data"))
	v.SetDefault("serve_addr", "127.0.0.1:3500")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.service_name", "nexus")
	v.SetDefault("tracing.environment", "dev")
}

// bindEnvVariables binds environment variables explicitly.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("gemini_api_key", "NEXUS_GEMINI_API_KEY")
	mustBind("model_name", "NEXUS_MODEL_NAME")
	mustBind("language", "NEXUS_LANG")
	mustBind("data_dir", "NEXUS_DATA_DIR")
	mustBind("serve_addr", "NEXUS_SERVE_ADDR")
	mustBind("speech_enabled", "NEXUS_SPEECH")
	mustBind("player_command", "NEXUS_PLAYER_COMMAND")
	mustBind("tracing.enabled", "NEXUS_TRACING")
	mustBind("tracing.endpoint", "NEXUS_OTLP_ENDPOINT")
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Secrets of 8 chars or
// fewer are fully masked to prevent substring matching; longer secrets
// keep the first and last two characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.GeminiAPIKey = maskSecret(a.GeminiAPIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
