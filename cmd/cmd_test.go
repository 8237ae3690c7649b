package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-sapiens/nexus/internal/config"
	"github.com/nexus-sapiens/nexus/internal/log"
	"github.com/nexus-sapiens/nexus/internal/provider"
)

// execute runs the root command with args and captures its output.
// Commands share package-level cobra state, so these tests do not run
// in parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// isolate points the CLI at a throwaway data dir.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("NEXUS_DATA_DIR", t.TempDir())
	t.Setenv("NEXUS_LANG", "es")
	t.Setenv("NEXUS_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Nexus Sapiens v")
	assert.Contains(t, out, "Build:")
	assert.Contains(t, out, "Commit:")
}

func TestAgentsCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "agents")
	require.NoError(t, err)

	for _, id := range []string{"stratego", "mentor", "forge", "sabio", "chispa"} {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "* stratego")
}

func TestLearnChallenges(t *testing.T) {
	isolate(t)

	out, err := execute(t, "learn", "challenges")
	require.NoError(t, err)
	assert.Contains(t, out, "primer-contacto")
	assert.Contains(t, out, "[ ]")
	assert.NotContains(t, out, "[x]")
}

func TestLearnCompleteAndRank(t *testing.T) {
	isolate(t)

	out, err := execute(t, "learn", "complete", "primer-contacto")
	require.NoError(t, err)
	assert.Contains(t, out, "Reto completado")

	out, err = execute(t, "learn", "rank")
	require.NoError(t, err)
	assert.Contains(t, out, "Novato")
	assert.Contains(t, out, "Puntos: 5")
}

func TestLearnCompleteUnknown(t *testing.T) {
	isolate(t)

	_, err := execute(t, "learn", "complete", "no-existe")
	require.Error(t, err)
}

func TestLearnSkillLocked(t *testing.T) {
	isolate(t)

	_, err := execute(t, "learn", "skill", "sintesis")
	require.Error(t, err)
}

func TestCoursesListAndComplete(t *testing.T) {
	isolate(t)

	out, err := execute(t, "courses")
	require.NoError(t, err)
	assert.Contains(t, out, "fundamentos")
	assert.Contains(t, out, "[0/3]")

	out, err = execute(t, "courses", "complete", "fundamentos", "que-es-un-agente")
	require.NoError(t, err)
	assert.Contains(t, out, "Lección completada")

	out, err = execute(t, "courses")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/3]")
}

func TestSetupWiresGraph(t *testing.T) {
	cfg := &config.Config{
		ModelName:         config.DefaultChatModel,
		Temperature:       0.7,
		MaxTokens:         1024,
		Language:          "es",
		TTSModel:          config.DefaultTTSModel,
		VideoModel:        config.DefaultVideoModel,
		DataDir:           t.TempDir(),
		TurnTimeoutSecond: 30,
	}

	a, err := setup(cfg, log.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, a.Orchestrator)
	assert.NotNil(t, a.Progress)
	assert.Equal(t, "stratego", a.Orchestrator.CurrentAgent().ID)

	// Speech starts off but the player is wired anyway, so the TUI
	// toggle can turn it on without a restart.
	assert.False(t, a.Orchestrator.SpeechEnabled())
	assert.NotNil(t, a.Speech)
}

func TestSetupWithSpeech(t *testing.T) {
	cfg := &config.Config{
		ModelName:         config.DefaultChatModel,
		Temperature:       0.7,
		MaxTokens:         1024,
		Language:          "es",
		TTSModel:          config.DefaultTTSModel,
		VideoModel:        config.DefaultVideoModel,
		DataDir:           t.TempDir(),
		TurnTimeoutSecond: 30,
		SpeechEnabled:     true,
	}

	a, err := setup(cfg, log.NewNop())
	require.NoError(t, err)
	assert.True(t, a.Orchestrator.SpeechEnabled())
}

func TestVideoCommandRequiresCredential(t *testing.T) {
	isolate(t)

	_, err := execute(t, "video", "un gato naranja en la luna")
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrCredentialMissing)
}
