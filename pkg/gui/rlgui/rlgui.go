// Package rlgui implements gui.Context on top of raylib. All calls must be
// made from the goroutine that opened the raylib window, between
// rl.BeginDrawing and rl.EndDrawing.
package rlgui

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"imhtml/pkg/config"
	"imhtml/pkg/gui"
	"imhtml/pkg/text"
)

// Padding is the space left around the content region.
const Padding = 8

type fontState struct {
	font    rl.Font
	size    float32
	spacing float32
}

// Context drives canvases inside a raylib window. Fonts passed to PushFont
// must be rl.Font values; anything else selects raylib's default font.
type Context struct {
	cursor      gui.Vec2
	defaultSize float32
	fonts       []fontState
}

var _ gui.Context = (*Context)(nil)

// New returns a context whose unstyled text uses raylib's default font.
func New() *Context {
	return &Context{
		cursor:      gui.Vec2{X: Padding, Y: Padding},
		defaultSize: config.DefaultBaseFontSize,
	}
}

// NewFrame moves the layout cursor to the top left of the window.
func (c *Context) NewFrame() {
	c.cursor = gui.Vec2{X: Padding, Y: Padding}
	rl.SetMouseCursor(rl.MouseCursorDefault)
}

// Upload is an images.Uploader producing raylib textures.
func Upload(img image.Image) gui.TextureID {
	rimg := rl.NewImageFromImage(img)
	defer rl.UnloadImage(rimg)
	return rl.LoadTextureFromImage(rimg)
}

// LoadFonts loads the configured TTF files, rasterized at size pixels, into
// cfg's font slots. Slots without a file keep the default font. It must run
// after the window is open.
func LoadFonts(files config.FontFiles, size int32, cfg *config.Config) {
	fc := text.FromFile(files)
	slots := []struct {
		style config.FontStyle
		dst   *gui.Font
	}{
		{config.Regular, &cfg.FontRegular},
		{config.Bold, &cfg.FontBold},
		{config.Italic, &cfg.FontItalic},
		{config.BoldItalic, &cfg.FontBoldItalic},
	}
	for _, s := range slots {
		if path := fc.FontPath(s.style); path != "" {
			*s.dst = rl.LoadFontEx(path, size, nil)
		}
	}
}

func vec(v gui.Vec2) rl.Vector2 { return rl.NewVector2(v.X, v.Y) }

func (c *Context) CursorScreenPos() gui.Vec2 { return c.cursor }
func (c *Context) SetCursorScreenPos(p gui.Vec2) { c.cursor = p }

func (c *Context) ContentRegionAvail() gui.Vec2 {
	return gui.Vec2{
		X: float32(rl.GetScreenWidth()) - Padding - c.cursor.X,
		Y: float32(rl.GetScreenHeight()) - Padding - c.cursor.Y,
	}
}

func (c *Context) DrawList() gui.DrawList { return c }

func (c *Context) PushFont(f gui.Font, size float32) {
	if rf, ok := f.(rl.Font); ok {
		c.fonts = append(c.fonts, fontState{font: rf, size: size})
		return
	}
	c.fonts = append(c.fonts, fontState{font: rl.GetFontDefault(), size: size, spacing: size / 10})
}

func (c *Context) PopFont() {
	if len(c.fonts) == 0 {
		panic("rlgui: PopFont without PushFont")
	}
	c.fonts = c.fonts[:len(c.fonts)-1]
}

func (c *Context) active() fontState {
	if len(c.fonts) == 0 {
		return fontState{font: rl.GetFontDefault(), size: c.defaultSize, spacing: c.defaultSize / 10}
	}
	return c.fonts[len(c.fonts)-1]
}

func (c *Context) CalcTextSize(s string) gui.Vec2 {
	f := c.active()
	v := rl.MeasureTextEx(f.font, s, f.size, f.spacing)
	return gui.Vec2{X: v.X, Y: v.Y}
}

func (c *Context) TextLineHeight() float32 { return c.active().size }

func (c *Context) MousePos() gui.Vec2 {
	p := rl.GetMousePosition()
	return gui.Vec2{X: p.X, Y: p.Y}
}

func button(b gui.MouseButton) rl.MouseButton {
	switch b {
	case gui.MouseRight:
		return rl.MouseButtonRight
	case gui.MouseMiddle:
		return rl.MouseButtonMiddle
	}
	return rl.MouseButtonLeft
}

func (c *Context) IsMouseDown(b gui.MouseButton) bool { return rl.IsMouseButtonDown(button(b)) }

func (c *Context) IsMouseReleased(b gui.MouseButton) bool {
	return rl.IsMouseButtonReleased(button(b))
}

func (c *Context) ItemSize(size gui.Vec2) {
	c.cursor = gui.Vec2{X: c.cursor.X, Y: c.cursor.Y + size.Y}
}

func (c *Context) ItemAdd(bb gui.Rect, id string) bool {
	return bb.Max.Y >= 0 && bb.Min.Y < float32(rl.GetScreenHeight())
}

func (c *Context) IsWindowHovered() bool { return rl.IsCursorOnScreen() }

func (c *Context) SetMouseCursor(cur gui.Cursor) {
	switch cur {
	case gui.CursorHand:
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	case gui.CursorText:
		rl.SetMouseCursor(rl.MouseCursorIBeam)
	default:
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}

//
// Draw list
//

func (c *Context) AddRectFilled(min, max gui.Vec2, col color.RGBA) {
	if col.A == 0 {
		return
	}
	rl.DrawRectangleV(vec(min), vec(max.Sub(min)), col)
}

func (c *Context) AddLine(a, b gui.Vec2, col color.RGBA, thickness float32) {
	rl.DrawLineEx(vec(a), vec(b), thickness, col)
}

func (c *Context) AddCircleFilled(center gui.Vec2, radius float32, col color.RGBA) {
	rl.DrawCircleV(vec(center), radius, col)
}

func (c *Context) AddText(pos gui.Vec2, col color.RGBA, s string) {
	f := c.active()
	rl.DrawTextEx(f.font, s, vec(pos), f.size, f.spacing, col)
}

// AddImage draws an rl.Texture2D stretched over the rectangle.
func (c *Context) AddImage(tex gui.TextureID, min, max gui.Vec2) {
	t, ok := tex.(rl.Texture2D)
	if !ok {
		return
	}
	src := rl.NewRectangle(0, 0, float32(t.Width), float32(t.Height))
	dst := rl.NewRectangle(min.X, min.Y, max.X-min.X, max.Y-min.Y)
	rl.DrawTexturePro(t, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}
