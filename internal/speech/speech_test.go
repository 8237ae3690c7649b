package speech

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-sapiens/nexus/internal/log"
)

type fakeSynth struct {
	pcm []byte
	err error
}

func (f *fakeSynth) SynthesizeSpeech(_ context.Context, _ string) ([]byte, error) {
	return f.pcm, f.err
}

func TestNewPlayerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewPlayer(Config{Logger: log.NewNop()})
	require.Error(t, err)

	_, err = NewPlayer(Config{Synth: &fakeSynth{}})
	require.Error(t, err)
}

func TestSpeakWritesWAV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	p, err := NewPlayer(Config{
		Synth:  &fakeSynth{pcm: pcm},
		Logger: log.NewNop(),
		Dir:    dir,
	})
	require.NoError(t, err)

	require.NoError(t, p.Speak(context.Background(), "hola"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Len(t, data, 44+len(pcm))

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.EqualValues(t, 24000, binary.LittleEndian.Uint32(data[24:28]))
	assert.EqualValues(t, len(pcm), binary.LittleEndian.Uint32(data[40:44]))
	assert.Equal(t, pcm, data[44:])
}

func TestSpeakPropagatesSynthError(t *testing.T) {
	t.Parallel()

	p, err := NewPlayer(Config{
		Synth:  &fakeSynth{err: errors.New("no audio in response")},
		Logger: log.NewNop(),
		Dir:    t.TempDir(),
	})
	require.NoError(t, err)

	err = p.Speak(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthesizing speech")
}

func TestNoop(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Noop{}.Speak(context.Background(), "lo que sea"))
}
