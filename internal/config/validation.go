package config

import (
	"fmt"

	"github.com/nexus-sapiens/nexus/internal/i18n"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
//
// Note: the API key is deliberately NOT validated here. The credential
// is managed by internal/credential and may arrive after startup; the
// session store reports ErrCredentialMissing at call time instead.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range per the Gemini API: 0.0 (deterministic) to 2.0.
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	// MaxTokens ceiling matches the Gemini 2.5 context window.
	if c.MaxTokens < 1 || c.MaxTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if !i18n.IsLanguageSupported(c.Language) {
		return fmt.Errorf("%w: %q is not supported, must be one of: %v",
			ErrInvalidLanguage, c.Language, i18n.GetSupportedLanguages())
	}

	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir cannot be empty", ErrInvalidDataDir)
	}

	if c.VideoPollSeconds < 1 || c.VideoPollSeconds > 300 {
		return fmt.Errorf("%w: video_poll_seconds must be between 1 and 300, got %d",
			ErrInvalidPollInterval, c.VideoPollSeconds)
	}

	if c.VideoMaxPolls < 1 || c.VideoMaxPolls > 1000 {
		return fmt.Errorf("%w: video_max_polls must be between 1 and 1000, got %d",
			ErrInvalidMaxPolls, c.VideoMaxPolls)
	}

	return nil
}
