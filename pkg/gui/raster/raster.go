// Package raster is a software gui.Context that paints into an image with
// fogleman/gg. Hosts without a GPU toolkit, such as the fyne viewer and the
// snapshot tool, drive canvases through it: feed input with SetMouse, call
// NewFrame, render canvases, then read Image.
package raster

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"

	"imhtml/pkg/config"
	"imhtml/pkg/gui"
	"imhtml/pkg/text"
)

// Padding is the space left around the content region.
const Padding = 8

type fontState struct {
	font *truetype.Font
	size float64
}

// Context implements gui.Context and gui.DrawList over a gg drawing
// context. Fonts passed to PushFont must be *truetype.Font; anything else
// selects the default font.
type Context struct {
	dc    *gg.Context
	faces *text.FaceCache

	defaultSize float64
	fonts       []fontState

	cursor   gui.Vec2
	mouse    gui.Vec2
	down     bool
	released bool
	hovered  bool
	shape    gui.Cursor
}

var _ gui.Context = (*Context)(nil)

// New returns a width x height context using the bundled fonts.
func New(width, height int) *Context {
	fonts := text.Bundled()
	return &Context{
		dc:          gg.NewContext(width, height),
		faces:       text.NewFaceCache(fonts.Font(config.Regular)),
		defaultSize: config.DefaultBaseFontSize,
		cursor:      gui.Vec2{X: Padding, Y: Padding},
		mouse:       gui.Vec2{X: -1, Y: -1},
	}
}

// Upload is an images.Uploader for this context: textures are the decoded
// images themselves.
func Upload(img image.Image) gui.TextureID { return img }

// Image returns the painted image.
func (c *Context) Image() image.Image { return c.dc.Image() }

// SavePNG writes the painted image to path.
func (c *Context) SavePNG(path string) error { return c.dc.SavePNG(path) }

// Resize replaces the canvas with a blank one of the given size.
func (c *Context) Resize(width, height int) {
	if width == c.dc.Width() && height == c.dc.Height() {
		return
	}
	c.dc = gg.NewContext(width, height)
}

// NewFrame clears the image to bg and moves the cursor to the top left.
// Input set since the previous frame becomes visible to this one.
func (c *Context) NewFrame(bg color.Color) {
	c.dc.SetColor(bg)
	c.dc.Clear()
	c.cursor = gui.Vec2{X: Padding, Y: Padding}
	c.shape = gui.CursorArrow
}

// EndFrame consumes one-shot input such as button releases.
func (c *Context) EndFrame() {
	c.released = false
}

// SetMouse records the pointer position and left button state. A transition
// from down to up is reported by IsMouseReleased until EndFrame.
func (c *Context) SetMouse(p gui.Vec2, down bool) {
	if c.down && !down {
		c.released = true
	}
	c.mouse = p
	c.down = down
}

// SetHovered records whether the pointer is over the window.
func (c *Context) SetHovered(hovered bool) { c.hovered = hovered }

// MouseCursor is the cursor shape requested during the last frame.
func (c *Context) MouseCursor() gui.Cursor { return c.shape }

func (c *Context) CursorScreenPos() gui.Vec2 { return c.cursor }
func (c *Context) SetCursorScreenPos(p gui.Vec2) { c.cursor = p }

func (c *Context) ContentRegionAvail() gui.Vec2 {
	return gui.Vec2{
		X: float32(c.dc.Width()) - Padding - c.cursor.X,
		Y: float32(c.dc.Height()) - Padding - c.cursor.Y,
	}
}

func (c *Context) DrawList() gui.DrawList { return c }

func (c *Context) PushFont(f gui.Font, size float32) {
	tf, _ := f.(*truetype.Font)
	c.fonts = append(c.fonts, fontState{font: tf, size: float64(size)})
}

func (c *Context) PopFont() {
	if len(c.fonts) == 0 {
		panic("raster: PopFont without PushFont")
	}
	c.fonts = c.fonts[:len(c.fonts)-1]
}

func (c *Context) active() fontState {
	if len(c.fonts) == 0 {
		return fontState{size: c.defaultSize}
	}
	return c.fonts[len(c.fonts)-1]
}

func (c *Context) CalcTextSize(s string) gui.Vec2 {
	f := c.active()
	w, h := text.Measure(c.faces.Face(f.font, f.size), s)
	return gui.Vec2{X: float32(w), Y: float32(h)}
}

func (c *Context) TextLineHeight() float32 {
	f := c.active()
	_, h := text.Measure(c.faces.Face(f.font, f.size), "")
	return float32(h)
}

func (c *Context) MousePos() gui.Vec2 { return c.mouse }

func (c *Context) IsMouseDown(b gui.MouseButton) bool {
	return b == gui.MouseLeft && c.down
}

func (c *Context) IsMouseReleased(b gui.MouseButton) bool {
	return b == gui.MouseLeft && c.released
}

func (c *Context) ItemSize(size gui.Vec2) {
	c.cursor = gui.Vec2{X: c.cursor.X, Y: c.cursor.Y + size.Y}
}

func (c *Context) ItemAdd(bb gui.Rect, id string) bool {
	return bb.Max.Y >= 0 && bb.Min.Y < float32(c.dc.Height())
}

func (c *Context) IsWindowHovered() bool { return c.hovered }

func (c *Context) SetMouseCursor(cur gui.Cursor) { c.shape = cur }

//
// Draw list
//

func (c *Context) AddRectFilled(min, max gui.Vec2, col color.RGBA) {
	if col.A == 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(min.X), float64(min.Y), float64(max.X-min.X), float64(max.Y-min.Y))
	c.dc.Fill()
}

func (c *Context) AddLine(a, b gui.Vec2, col color.RGBA, thickness float32) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(float64(thickness))
	c.dc.DrawLine(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
	c.dc.Stroke()
}

func (c *Context) AddCircleFilled(center gui.Vec2, radius float32, col color.RGBA) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(float64(center.X), float64(center.Y), float64(radius))
	c.dc.Fill()
}

// AddText draws s with its top-left corner at pos.
func (c *Context) AddText(pos gui.Vec2, col color.RGBA, s string) {
	f := c.active()
	face := c.faces.Face(f.font, f.size)
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)
	c.dc.DrawString(s, float64(pos.X), float64(pos.Y)+text.Ascent(face))
}

// AddImage scales the texture, which must be an image.Image, into the
// rectangle.
func (c *Context) AddImage(tex gui.TextureID, min, max gui.Vec2) {
	img, ok := tex.(image.Image)
	if !ok {
		return
	}
	dst, ok := c.dc.Image().(draw.Image)
	if !ok {
		return
	}
	r := image.Rect(int(min.X), int(min.Y), int(max.X), int(max.Y))
	draw.ApproxBiLinear.Scale(dst, r, img, img.Bounds(), draw.Over, nil)
}
