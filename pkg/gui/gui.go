// Package gui describes the immediate-mode GUI toolkit that canvases are drawn into.
//
// The toolkit owns windows, draw-list rasterization, input polling and glyph
// rendering. Everything in this module talks to it through Context, which is
// expected to be used from the toolkit's render thread only.
package gui

import "image/color"

// Vec2 is a point or size in screen pixels.
type Vec2 struct {
	X, Y float32
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle with inclusive Min and exclusive Max.
type Rect struct {
	Min, Max Vec2
}

// Size returns the width and height of the rectangle.
func (r Rect) Size() Vec2 { return r.Max.Sub(r.Min) }

// Width returns Max.X-Min.X.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height returns Max.Y-Min.Y.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X < r.Max.X && p.Y < r.Max.Y
}

// Font is a backend specific font handle. A nil Font selects the toolkit's
// current default font.
type Font any

// TextureID is a backend specific texture handle, produced by the host's
// image upload callback and consumed by DrawList.AddImage.
type TextureID any

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Cursor is a mouse cursor shape request.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorHand
	CursorText
)

// DrawList accepts the primitives a canvas paints with. Positions are in
// screen space.
type DrawList interface {
	AddRectFilled(min, max Vec2, col color.RGBA)
	AddLine(a, b Vec2, col color.RGBA, thickness float32)
	AddCircleFilled(center Vec2, radius float32, col color.RGBA)
	AddText(pos Vec2, col color.RGBA, text string)
	AddImage(tex TextureID, min, max Vec2)
}

// Context is the per-frame toolkit state a canvas reads and writes.
type Context interface {
	// CursorScreenPos is where the next item will be placed, in screen space.
	CursorScreenPos() Vec2
	SetCursorScreenPos(p Vec2)
	// ContentRegionAvail is the space left in the current window from the cursor.
	ContentRegionAvail() Vec2

	DrawList() DrawList

	// PushFont activates f at the given pixel size until the matching PopFont.
	PushFont(f Font, size float32)
	PopFont()
	// CalcTextSize measures text with the active font.
	CalcTextSize(text string) Vec2
	// TextLineHeight is the line height of the active font.
	TextLineHeight() float32

	MousePos() Vec2
	IsMouseDown(b MouseButton) bool
	// IsMouseReleased reports a release that happened this frame.
	IsMouseReleased(b MouseButton) bool

	// ItemSize reserves layout space at the cursor and advances it.
	ItemSize(size Vec2)
	// ItemAdd registers bb as an interactive item under id. It reports
	// whether the item is visible.
	ItemAdd(bb Rect, id string) bool
	IsWindowHovered() bool
	SetMouseCursor(c Cursor)
}

// RGBA is a shorthand for building draw colours.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: a}
}
