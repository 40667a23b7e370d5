package backend

import (
	"maps"

	"imhtml/pkg/engine"
	"imhtml/pkg/gui"
)

// customElement is an element whose painting is handed to a callback from
// the custom element registry. The registry is consulted at paint time, so
// an element whose tag has since been unregistered draws nothing.
type customElement struct {
	owner *Container
	tag   string
	attrs map[string]string
}

var _ engine.Element = (*customElement)(nil)

func newCustomElement(owner *Container, tag string, attrs map[string]string) *customElement {
	return &customElement{owner: owner, tag: tag, attrs: maps.Clone(attrs)}
}

func (e *customElement) TagName() string { return e.tag }

func (e *customElement) Attributes() map[string]string { return e.attrs }

func (e *customElement) DrawBackground(x, y float32, clip *engine.Position, placement engine.Position) {
	c := e.owner
	if c.registry == nil {
		return
	}
	draw, ok := c.registry.Lookup(e.tag)
	if !ok {
		return
	}

	cursor := c.ui.CursorScreenPos()
	bounds := gui.Rect{
		Min: cursor.Add(gui.Vec2{X: x, Y: y}),
		Max: cursor.Add(gui.Vec2{X: x + placement.Width, Y: y + placement.Height}),
	}
	draw(bounds, maps.Clone(e.attrs))
	c.ui.SetCursorScreenPos(cursor)

	c.grow(x+placement.Width, y+placement.Height)
}
