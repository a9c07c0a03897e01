package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_roundTrip(t *testing.T) {
	s, err := NewSealer("console-secret")
	require.NoError(t, err)

	sealed, err := s.Seal("hunter2")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "hunter2")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestSealer_wrongSecret(t *testing.T) {
	a, err := NewSealer("one")
	require.NoError(t, err)
	b, err := NewSealer("two")
	require.NoError(t, err)

	sealed, err := a.Seal("hunter2")
	require.NoError(t, err)
	_, err = b.Open(sealed)
	assert.Error(t, err)
}

func TestNewSealer_emptySecret(t *testing.T) {
	_, err := NewSealer("")
	assert.Error(t, err)
}
