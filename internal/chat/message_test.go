package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogResetSeedsGreeting(t *testing.T) {
	t.Parallel()

	l := NewLog()
	greeting := l.Reset("stratego", "¡Hola! Soy Stratego.")

	msgs := l.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAgent, msgs[0].Role)
	assert.Equal(t, "¡Hola! Soy Stratego.", msgs[0].Text)
	assert.False(t, msgs[0].Pending)
	assert.Equal(t, greeting.ID, msgs[0].ID)
}

func TestLogIDsMonotonicAcrossReset(t *testing.T) {
	t.Parallel()

	l := NewLog()
	l.Reset("stratego", "hola")
	before := l.AppendUser("primera")

	after := l.Reset("mentor", "saludos")
	assert.Greater(t, after.ID, before.ID)
}

func TestLogPendingLifecycle(t *testing.T) {
	t.Parallel()

	l := NewLog()
	l.Reset("stratego", "hola")
	l.AppendUser("¿qué hago primero?")
	pending := l.AppendPendingAgent("stratego")

	require.NoError(t, l.SetPendingText(pending.ID, "Primero"))
	require.NoError(t, l.SetPendingText(pending.ID, "Primero, define tu meta."))

	final, err := l.Finalize(pending.ID, "Primero, define tu meta.")
	require.NoError(t, err)
	assert.False(t, final.Pending)
	assert.Equal(t, "Primero, define tu meta.", final.Text)

	// 2N+1: greeting plus user+agent per turn.
	assert.Equal(t, 3, l.Len())
}

func TestLogFinalizeTwiceRejected(t *testing.T) {
	t.Parallel()

	l := NewLog()
	pending := l.AppendPendingAgent("stratego")

	_, err := l.Finalize(pending.ID, "listo")
	require.NoError(t, err)

	_, err = l.Finalize(pending.ID, "otra vez")
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	err = l.SetPendingText(pending.ID, "tampoco")
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestLogUnknownID(t *testing.T) {
	t.Parallel()

	l := NewLog()
	_, err := l.Finalize(42, "nada")
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.ErrorIs(t, l.SetPendingText(42, "nada"), ErrMessageNotFound)
}

func TestLogHistorySkipsPending(t *testing.T) {
	t.Parallel()

	l := NewLog()
	l.Reset("stratego", "hola")
	l.AppendUser("pregunta")
	l.AppendPendingAgent("stratego")

	history := l.History()
	require.Len(t, history, 2)
	assert.Equal(t, RoleAgent, history[0].Role)
	assert.Equal(t, RoleUser, history[1].Role)
}

func TestLogMessagesReturnsCopy(t *testing.T) {
	t.Parallel()

	l := NewLog()
	l.AppendUser("original")

	msgs := l.Messages()
	msgs[0].Text = "mutado"
	assert.Equal(t, "original", l.Messages()[0].Text)
}
