package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryHistory(t *testing.T) {
	h := NewMemoryHistory("a")
	pops := 0
	unsub := h.OnPopState(func() { pops++ })

	h.PushState("b")
	h.PushState("c")
	assert.Equal(t, "c", h.Location())
	assert.False(t, h.Forward())

	assert.True(t, h.Back())
	assert.True(t, h.Back())
	assert.False(t, h.Back())
	assert.Equal(t, "a", h.Location())
	assert.Equal(t, 2, pops)

	// pushing drops forward entries
	h.PushState("d")
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []string{"a", "d"}, h.Entries())
	assert.False(t, h.Forward())

	h.ReplaceState("e")
	assert.Equal(t, "e", h.Location())

	unsub()
	assert.True(t, h.Back())
	assert.Equal(t, 2, pops)
}
