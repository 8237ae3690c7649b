// Package speech voices agent responses by synthesizing audio through
// the provider and handing it to a local player command.
package speech

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Gemini TTS delivers 16-bit little-endian PCM at 24 kHz mono.
const (
	sampleRate    = 24000
	numChannels   = 1
	bitsPerSample = 16
)

// Synthesizer produces raw PCM audio for text. provider.Gemini
// satisfies it.
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// Config contains the player's dependencies.
type Config struct {
	Synth  Synthesizer
	Logger *slog.Logger

	// PlayerCommand is the executable given the WAV path as its
	// only argument. Empty keeps the file on disk and logs its
	// location instead of playing it.
	PlayerCommand string

	// Dir receives the generated WAV files. Empty uses the system
	// temp dir.
	Dir string
}

// Player synthesizes and plays one utterance at a time.
type Player struct {
	synth  Synthesizer
	logger *slog.Logger
	player string
	dir    string
}

// NewPlayer creates a Player.
func NewPlayer(cfg Config) (*Player, error) {
	if cfg.Synth == nil {
		return nil, errors.New("synthesizer is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Player{
		synth:  cfg.Synth,
		logger: cfg.Logger,
		player: cfg.PlayerCommand,
		dir:    cfg.Dir,
	}, nil
}

// Speak synthesizes text and plays it. The WAV file is removed after
// playback; without a player command it is kept.
func (p *Player) Speak(ctx context.Context, text string) error {
	pcm, err := p.synth.SynthesizeSpeech(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesizing speech: %w", err)
	}

	path, err := p.writeWAV(pcm)
	if err != nil {
		return err
	}

	if p.player == "" {
		p.logger.Info("speech saved", "path", path)
		return nil
	}
	defer os.Remove(path)

	cmd := exec.CommandContext(ctx, p.player, path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running player %q: %w", p.player, err)
	}
	return nil
}

func (p *Player) writeWAV(pcm []byte) (string, error) {
	dir := p.dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating speech dir: %w", err)
	}

	name := fmt.Sprintf("nexus-speech-%d.wav", time.Now().UnixNano())
	path := filepath.Join(dir, name)

	data := append(wavHeader(len(pcm)), pcm...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing wav: %w", err)
	}
	return path, nil
}

// wavHeader builds a 44-byte RIFF header for the PCM payload.
func wavHeader(pcmLen int) []byte {
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	h := make([]byte, 44)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+pcmLen))
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(h[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(h[22:24], numChannels)
	binary.LittleEndian.PutUint32(h[24:28], sampleRate)
	binary.LittleEndian.PutUint32(h[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(h[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(pcmLen))
	return h
}

// Noop discards every utterance. Used when speech is unavailable.
type Noop struct{}

// Speak implements the chat.Speaker contract without side effects.
func (Noop) Speak(context.Context, string) error { return nil }
