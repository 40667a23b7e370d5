// Package custom maps HTML tag names to host-supplied paint callbacks.
//
// A registered tag is rendered by its callback instead of the document
// engine's box painting. The registry is consulted when the engine builds an
// element and again every time that element is painted, so unregistering a
// tag stops its drawing on the next frame.
package custom

import (
	"log/slog"
	"sort"

	"imhtml/pkg/gui"
)

// DrawFunc paints a custom element. bounds is the element's box in screen
// space and attrs its HTML attributes. The callback may move the GUI cursor
// freely; it is restored afterwards.
type DrawFunc func(bounds gui.Rect, attrs map[string]string)

// Registry is a tag name to DrawFunc map. It is not safe for concurrent use.
type Registry struct {
	draw map[string]DrawFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{draw: make(map[string]DrawFunc)}
}

// Register sets the paint callback for tagName, replacing any previous one.
// Empty names and nil callbacks are ignored.
func (r *Registry) Register(tagName string, draw DrawFunc) {
	if tagName == "" || draw == nil {
		slog.Warn("ignoring invalid custom element registration", "component", "custom", "tag", tagName)
		return
	}
	if _, exists := r.draw[tagName]; exists {
		slog.Debug("overwriting custom element", "component", "custom", "tag", tagName)
	}
	r.draw[tagName] = draw
}

// Unregister removes tagName. Removing an unknown tag is a no-op.
func (r *Registry) Unregister(tagName string) {
	delete(r.draw, tagName)
}

// Lookup returns the callback registered for tagName.
func (r *Registry) Lookup(tagName string) (DrawFunc, bool) {
	draw, ok := r.draw[tagName]
	return draw, ok
}

// Has reports whether tagName is registered.
func (r *Registry) Has(tagName string) bool {
	_, ok := r.draw[tagName]
	return ok
}

// Tags returns the registered tag names in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.draw))
	for tag := range r.draw {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Default is the process-wide registry used by Register and Unregister.
var Default = NewRegistry()

// Register registers draw for tagName in Default.
func Register(tagName string, draw DrawFunc) { Default.Register(tagName, draw) }

// Unregister removes tagName from Default.
func Unregister(tagName string) { Default.Unregister(tagName) }
