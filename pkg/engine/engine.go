// Package engine is the contract between canvases and the document engine
// that parses HTML, applies CSS and lays out boxes.
//
// The engine owns the document tree and its layout cache. It calls back into
// a Container for every measurement and paint operation, so the container
// decides where and how pixels end up. A Document is bound to exactly one
// Container for its whole life and keeps a non-owning reference to it; the
// owner of both must Close the document before discarding the container.
package engine

// Engine builds documents.
type Engine interface {
	// CreateFromString parses html into a document bound to c. Malformed
	// input yields whatever partial tree the engine recovers.
	CreateFromString(html string, c Container) Document
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(html string, c Container) Document

// CreateFromString calls f(html, c).
func (f EngineFunc) CreateFromString(html string, c Container) Document { return f(html, c) }

// Document is a parsed, layout-capable tree.
type Document interface {
	// Render lays the document out for maxWidth pixels and returns the
	// width actually used.
	Render(maxWidth float32) float32
	// Draw paints the laid out document with its origin at (x, y) relative
	// to the container's drawing origin. clip may be nil.
	Draw(x, y float32, clip *Position)

	Width() float32
	Height() float32

	// Pointer events in document coordinates. They report whether the
	// document changed visually and needs a redraw.
	OnLButtonDown(x, y, clientX, clientY float32) bool
	OnLButtonUp(x, y, clientX, clientY float32) bool
	OnMouseOver(x, y, clientX, clientY float32) bool
	OnMouseLeave() bool

	// Close releases the tree and drops the container reference. The
	// document must not be used afterwards.
	Close()
}

// Element is a node the container supplies in place of the engine's default
// element for a tag.
type Element interface {
	TagName() string
	Attributes() map[string]string
	// DrawBackground replaces the element's box painting. x and y are the
	// element's paint origin relative to the container's drawing origin and
	// placement is the box the engine allocated to it.
	DrawBackground(x, y float32, clip *Position, placement Position)
}
