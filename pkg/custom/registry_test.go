package custom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imhtml/pkg/gui"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("box", func(bounds gui.Rect, attrs map[string]string) { calls++ })

	draw, ok := r.Lookup("box")
	require.True(t, ok)
	draw(gui.Rect{}, nil)
	assert.Equal(t, 1, calls)
	assert.True(t, r.Has("box"))

	_, ok = r.Lookup("other")
	assert.False(t, ok)
}

func TestRegistry_Overwrite(t *testing.T) {
	r := NewRegistry()
	var got string
	r.Register("box", func(gui.Rect, map[string]string) { got = "first" })
	r.Register("box", func(gui.Rect, map[string]string) { got = "second" })

	draw, _ := r.Lookup("box")
	draw(gui.Rect{}, nil)
	assert.Equal(t, "second", got)
	assert.Equal(t, []string{"box"}, r.Tags())
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	r.Register("box", func(gui.Rect, map[string]string) {})
	r.Unregister("box")
	r.Unregister("never-registered")

	assert.False(t, r.Has("box"))
	assert.Empty(t, r.Tags())
}

func TestRegistry_IgnoresInvalid(t *testing.T) {
	r := NewRegistry()
	r.Register("", func(gui.Rect, map[string]string) {})
	r.Register("box", nil)
	assert.Empty(t, r.Tags())
}

func TestDefaultRegistry(t *testing.T) {
	Register("x-default-test", func(gui.Rect, map[string]string) {})
	defer Unregister("x-default-test")
	assert.True(t, Default.Has("x-default-test"))
}
