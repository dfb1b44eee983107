package randstr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	letters := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	g := New(letters)

	s := g.GenerateRandomString(32)
	require.Len(t, s, 32)
	for _, b := range []byte(s) {
		assert.True(t, bytes.ContainsRune(letters, rune(b)), "unexpected byte %q", b)
	}

	assert.NotEqual(t, s, g.GenerateRandomString(32), "tokens must not repeat")
}
