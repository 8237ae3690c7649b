package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsStratego(t *testing.T) {
	t.Parallel()

	r := Default()
	a, err := r.Get("stratego")
	require.NoError(t, err)
	assert.Equal(t, "Stratego", a.Name)
	assert.NotEmpty(t, a.SystemPrompt)
	assert.Equal(t, AccentCyan, a.Accent)
}

func TestGet_UnknownID(t *testing.T) {
	t.Parallel()

	r := Default()
	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_PreservesOrderAndIsACopy(t *testing.T) {
	t.Parallel()

	r := Default()
	list := r.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "stratego", list[0].ID)

	// Mutating the returned slice must not affect the registry.
	list[0].Name = "tampered"
	again, err := r.Get("stratego")
	require.NoError(t, err)
	assert.Equal(t, "Stratego", again.Name)
}

func TestDefaultAgent_IsFirstRegistered(t *testing.T) {
	t.Parallel()

	r := Default()
	assert.Equal(t, r.List()[0].ID, r.DefaultAgent().ID)
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry([]Agent{
		{ID: "a", Name: "A"},
		{ID: "a", Name: "A2"},
	})
	assert.Error(t, err)
}

func TestNewRegistry_RejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(nil)
	assert.Error(t, err)

	_, err = NewRegistry([]Agent{{ID: ""}})
	assert.Error(t, err)
}

func TestGreeting_Localized(t *testing.T) {
	t.Parallel()

	r := Default()
	a, err := r.Get("stratego")
	require.NoError(t, err)
	assert.NotEmpty(t, a.Greeting())
	// The greeting is resolved through i18n, not stored raw.
	assert.NotEqual(t, "agent.stratego.greeting", a.Greeting())
}
