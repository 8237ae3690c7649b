package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nexus-sapiens/nexus/internal/agent"
	"github.com/nexus-sapiens/nexus/internal/chat"
	"github.com/nexus-sapiens/nexus/internal/config"
	"github.com/nexus-sapiens/nexus/internal/credential"
	"github.com/nexus-sapiens/nexus/internal/progress"
	"github.com/nexus-sapiens/nexus/internal/provider"
	"github.com/nexus-sapiens/nexus/internal/session"
	"github.com/nexus-sapiens/nexus/internal/speech"
)

// app holds the wired application graph shared by the chat and serve
// commands.
type app struct {
	Config       *config.Config
	Logger       *slog.Logger
	Credentials  *credential.Manager
	Provider     *provider.Gemini
	Sessions     *session.Store
	Orchestrator *chat.Orchestrator
	Registry     *agent.Registry
	Progress     *progress.Store
	Speech       *speech.Player
}

// setup builds the full dependency graph from configuration. A missing
// API key is not an error here: the orchestrator surfaces it per turn
// and the /ready endpoint reports it, so the TUI and server can still
// start.
func setup(cfg *config.Config, logger *slog.Logger) (*app, error) {
	creds := credential.New(cfg.GeminiAPIKey, logger)

	gemini, err := provider.NewGemini(provider.GeminiConfig{
		Credentials: creds,
		Logger:      logger,
		ChatModel:   cfg.ModelName,
		TTSModel:    cfg.TTSModel,
		VideoModel:  cfg.VideoModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		SpeechVoice: cfg.SpeechVoice,
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	sessions, err := session.New(gemini, creds, logger)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}

	registry := agent.Default()

	// The player is wired regardless of the startup toggle so /voz
	// can turn speech on later; SetSpeech below controls whether the
	// orchestrator actually calls it.
	player, err := speech.NewPlayer(speech.Config{
		Synth:         gemini,
		Logger:        logger,
		PlayerCommand: cfg.PlayerCommand,
		Dir:           filepath.Join(cfg.DataDir, "audio"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating speech player: %w", err)
	}

	orch, err := chat.New(chat.Config{
		Sessions: sessions,
		Registry: registry,
		Logger:   logger,
		Speaker:  player,
		Timeout:  time.Duration(cfg.TurnTimeoutSecond) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}
	orch.SetSpeech(cfg.SpeechEnabled)

	store, err := progress.New(cfg.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("creating progress store: %w", err)
	}

	return &app{
		Config:       cfg,
		Logger:       logger,
		Credentials:  creds,
		Provider:     gemini,
		Sessions:     sessions,
		Orchestrator: orch,
		Registry:     registry,
		Progress:     store,
		Speech:       player,
	}, nil
}
