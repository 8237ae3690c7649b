package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		ModelName:        DefaultChatModel,
		Temperature:      0.7,
		MaxTokens:        2048,
		Language:         "es",
		DataDir:          "/tmp/nexus-test",
		VideoPollSeconds: 10,
		VideoMaxPolls:    30,
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validConfig().Validate())
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	var c *Config
	assert.ErrorIs(t, c.Validate(), ErrConfigNil)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty model", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"temperature too low", func(c *Config) { c.Temperature = -0.1 }, ErrInvalidTemperature},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, ErrInvalidTemperature},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, ErrInvalidMaxTokens},
		{"unsupported language", func(c *Config) { c.Language = "ja" }, ErrInvalidLanguage},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, ErrInvalidDataDir},
		{"zero poll interval", func(c *Config) { c.VideoPollSeconds = 0 }, ErrInvalidPollInterval},
		{"excessive max polls", func(c *Config) { c.VideoMaxPolls = 10000 }, ErrInvalidMaxPolls},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := validConfig()
			tc.mutate(c)
			assert.ErrorIs(t, c.Validate(), tc.wantErr)
		})
	}
}

func TestMarshalJSON_MasksAPIKey(t *testing.T) {
	t.Parallel()

	c := validConfig()
	c.GeminiAPIKey = "super-secret-api-key-123456"

	data, err := json.Marshal(c)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "super-secret-api-key-123456")
	assert.Contains(t, string(data), maskedValue)
}

func TestMarshalJSON_ShortKeyFullyMasked(t *testing.T) {
	t.Parallel()

	c := validConfig()
	c.GeminiAPIKey = "abcd1234"

	data, err := json.Marshal(c)
	require.NoError(t, err)

	// Short secrets must not leak even their first characters.
	assert.NotContains(t, string(data), "ab<")
	assert.Contains(t, string(data), maskedValue)
}

func TestString_NeverLeaksSecret(t *testing.T) {
	t.Parallel()

	c := validConfig()
	c.GeminiAPIKey = "another-long-secret-value"

	assert.False(t, strings.Contains(c.String(), "another-long-secret-value"))
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, maskedValue, maskSecret("short"))
	got := maskSecret("my_long_secret_key_123")
	assert.True(t, strings.HasPrefix(got, "my"))
	assert.True(t, strings.HasSuffix(got, "23"))
	assert.Contains(t, got, maskedValue)
}
