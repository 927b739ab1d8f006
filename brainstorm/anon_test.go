package brainstorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonID(t *testing.T) {
	t.Run("deterministic for the same session and user", func(t *testing.T) {
		first := AnonID("secret", "session-1", "user-a")
		second := AnonID("secret", "session-1", "user-a")

		assert.Equal(t, first, second)
		assert.Len(t, first, anonIDLength)
	})

	t.Run("different users get different pseudonyms", func(t *testing.T) {
		a := AnonID("secret", "session-1", "user-a")
		b := AnonID("secret", "session-1", "user-b")

		assert.NotEqual(t, a, b)
	})

	t.Run("same user is unrelated across sessions", func(t *testing.T) {
		first := AnonID("secret", "session-1", "user-a")
		second := AnonID("secret", "session-2", "user-a")

		assert.NotEqual(t, first, second)
	})

	t.Run("pseudonym depends on the server secret", func(t *testing.T) {
		first := AnonID("secret", "session-1", "user-a")
		second := AnonID("other-secret", "session-1", "user-a")

		assert.NotEqual(t, first, second)
	})
}
