// Package backend implements the render backend a document engine calls
// into, drawing through an immediate-mode GUI context.
//
// A Container belongs to one canvas. It translates engine coordinates, which
// are relative to the document origin, into screen space by offsetting them
// with the GUI cursor, and tracks the bottom-right extent of everything drawn
// during a frame so the canvas can reserve exactly that much layout space.
package backend

import (
	"image/color"
	"log/slog"

	"github.com/chewxy/math32"

	"imhtml/pkg/config"
	"imhtml/pkg/custom"
	"imhtml/pkg/engine"
	"imhtml/pkg/gui"
)

// DefaultFontName is the single logical family every font resolves to.
const DefaultFontName = "Default"

// Container is the engine.Container for one canvas.
type Container struct {
	ui       gui.Context
	registry *custom.Registry
	log      *slog.Logger

	width  float32
	config config.Config

	extent     gui.Vec2
	title      string
	loadURL    string
	currentURL string
	history    []string
}

var _ engine.Container = (*Container)(nil)

// New returns a container drawing into ui. width is the canvas width; zero
// follows the available content width. registry may be nil when no custom
// elements are used.
func New(ui gui.Context, registry *custom.Registry, width float32) *Container {
	return &Container{
		ui:       ui,
		registry: registry,
		log:      slog.Default().With("component", "backend"),
		width:    width,
		config:   config.New(),
	}
}

// SetLogger replaces the container's logger.
func (c *Container) SetLogger(l *slog.Logger) { c.log = l.With("component", "backend") }

// SetConfig snapshots cfg for the coming frame.
func (c *Container) SetConfig(cfg config.Config) { c.config = cfg }

// Config returns the current snapshot.
func (c *Container) Config() config.Config { return c.config }

// SetWidth sets the requested canvas width.
func (c *Container) SetWidth(width float32) { c.width = width }

// Reset clears the drawn extent at the start of a frame.
func (c *Container) Reset() { c.extent = gui.Vec2{} }

// Extent is the bottom-right corner of everything drawn since Reset,
// relative to the drawing origin.
func (c *Container) Extent() gui.Vec2 { return c.extent }

// grow extends the drawn extent to include the point (x, y).
func (c *Container) grow(x, y float32) {
	c.extent.X = math32.Max(c.extent.X, x)
	c.extent.Y = math32.Max(c.extent.Y, y)
}

// Title is the document caption.
func (c *Container) Title() string { return c.title }

// PopLoadURL returns and clears the pending navigation URL.
func (c *Container) PopLoadURL() string {
	url := c.loadURL
	c.loadURL = ""
	return url
}

// GoBack makes the last history entry the pending navigation URL.
func (c *Container) GoBack() bool {
	if len(c.history) == 0 {
		return false
	}
	c.loadURL = c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	return true
}

// CanGoBack reports whether the history is non-empty.
func (c *Container) CanGoBack() bool { return len(c.history) > 0 }

// History returns a copy of the back-stack, oldest first.
func (c *Container) History() []string { return append([]string(nil), c.history...) }

// SetCurrentURL records the URL being displayed.
func (c *Container) SetCurrentURL(url string) { c.currentURL = url }

// CurrentURL is the URL being displayed.
func (c *Container) CurrentURL() string { return c.currentURL }

// Refresh makes the current URL the pending navigation URL.
func (c *Container) Refresh() { c.loadURL = c.currentURL }

// Release drops host callbacks and navigation state. The document using the
// container must be closed first.
func (c *Container) Release() {
	c.config = config.Config{}
	c.history = nil
	c.loadURL = ""
	c.registry = nil
}

func (c *Container) origin() gui.Vec2 { return c.ui.CursorScreenPos() }

func (c *Container) at(x, y float32) gui.Vec2 {
	return c.origin().Add(gui.Vec2{X: x, Y: y})
}

func toRGBA(wc engine.WebColor) color.RGBA {
	return color.RGBA{R: wc.R, G: wc.G, B: wc.B, A: wc.A}
}

// effectiveWidth is the requested width or, when unset, the available one.
func (c *Container) effectiveWidth() float32 {
	if c.width > 0 {
		return c.width
	}
	return c.ui.ContentRegionAvail().X
}

//
// Fonts
//

func (c *Container) pushFont(h engine.FontHandle) {
	style, size := DecodeFont(h)
	c.ui.PushFont(c.config.Font(style), float32(size))
}

func (c *Container) CreateFont(faceName string, size int, weight int, style engine.FontStyle, decoration engine.TextDecoration) (engine.FontHandle, engine.FontMetrics) {
	h := EncodeFont(fontStyleFor(weight, style), size)
	c.pushFont(h)
	height := c.ui.TextLineHeight()
	c.ui.PopFont()

	_, px := DecodeFont(h)
	fm := engine.FontMetrics{
		Height:  height,
		Ascent:  float32(px) * 0.8,
		Descent: height - float32(px)*0.8,
		XHeight: float32(px) * 0.5,
	}
	return h, fm
}

func (c *Container) DeleteFont(h engine.FontHandle) {}

func (c *Container) TextWidth(text string, h engine.FontHandle) float32 {
	c.pushFont(h)
	size := c.ui.CalcTextSize(text)
	c.ui.PopFont()
	return size.X
}

func (c *Container) DrawText(text string, h engine.FontHandle, col engine.WebColor, pos engine.Position) {
	c.pushFont(h)
	c.ui.DrawList().AddText(c.at(pos.X, pos.Y), toRGBA(col), text)
	size := c.ui.CalcTextSize(text)
	c.ui.PopFont()
	c.grow(pos.X+size.X, pos.Y+size.Y)
}

//
// Measurement and defaults
//

func (c *Container) PtToPx(pt float32) float32 { return pt }

func (c *Container) DefaultFontSize() float32 { return c.config.BaseFontSize }

func (c *Container) DefaultFontName() string { return DefaultFontName }

//
// Drawing
//

func (c *Container) DrawListMarker(marker engine.ListMarker) {
	c.ui.DrawList().AddCircleFilled(c.at(marker.Pos.X+4, marker.Pos.Y+4), 2, toRGBA(marker.Color))
	c.grow(marker.Pos.X+8, marker.Pos.Y+8)
}

func (c *Container) LoadImage(src, baseURL string, redrawOnReady bool) {
	if c.config.LoadImage == nil {
		return
	}
	c.config.LoadImage(src, baseURL)
}

func (c *Container) ImageSize(src, baseURL string) engine.Size {
	if c.config.GetImageMeta == nil {
		return engine.Size{}
	}
	meta := c.config.GetImageMeta(src, baseURL)
	return engine.Size{Width: float32(meta.Width), Height: float32(meta.Height)}
}

func (c *Container) DrawBackground(layers []engine.BackgroundPaint) {
	dl := c.ui.DrawList()
	for _, bg := range layers {
		box := bg.BorderBox
		dl.AddRectFilled(c.at(box.X, box.Y), c.at(box.Right(), box.Bottom()), toRGBA(bg.Color))

		if bg.Image != "" && c.config.GetImageTexture != nil {
			tex := c.config.GetImageTexture(bg.Image, bg.BaseURL)
			clip := bg.ClipBox
			dl.AddImage(tex, c.at(clip.X, clip.Y), c.at(clip.Right(), clip.Bottom()))
		}

		c.grow(box.Right(), box.Bottom())
	}
}

// DrawBorders strokes each side with a visible width as its own line. Corners
// are not joined.
func (c *Container) DrawBorders(b engine.Borders, pos engine.Position, root bool) {
	topLeft := c.at(pos.X, pos.Y)
	topRight := c.at(pos.Right(), pos.Y)
	bottomRight := c.at(pos.Right(), pos.Bottom())
	bottomLeft := c.at(pos.X, pos.Bottom())

	dl := c.ui.DrawList()
	if b.Top.Width > 0 {
		dl.AddLine(topLeft, topRight, toRGBA(b.Top.Color), b.Top.Width)
	}
	if b.Right.Width > 0 {
		dl.AddLine(topRight, bottomRight, toRGBA(b.Right.Color), b.Right.Width)
	}
	if b.Bottom.Width > 0 {
		dl.AddLine(bottomRight, bottomLeft, toRGBA(b.Bottom.Color), b.Bottom.Width)
	}
	if b.Left.Width > 0 {
		dl.AddLine(bottomLeft, topLeft, toRGBA(b.Left.Color), b.Left.Width)
	}

	c.grow(pos.Right(), pos.Bottom())
}

//
// Document
//

func (c *Container) SetCaption(caption string) { c.title = caption }

func (c *Container) SetBaseURL(baseURL string) {}

func (c *Container) Link(doc engine.Document, attrs map[string]string) {}

func (c *Container) OnAnchorClick(url string) {
	c.history = append(c.history, c.currentURL)
	c.loadURL = url
}

func (c *Container) SetCursor(cursor string) {
	if cursor == "pointer" && c.ui.IsWindowHovered() {
		c.ui.SetMouseCursor(gui.CursorHand)
	}
}

func (c *Container) TransformText(text string, tt engine.TextTransform) string { return text }

func (c *Container) ImportCSS(url, baseURL string) string {
	if c.config.LoadCSS == nil {
		return ""
	}
	return c.config.LoadCSS(url, baseURL)
}

// Painting is never clipped.

func (c *Container) SetClip(pos engine.Position, radii engine.BorderRadiuses) {}

func (c *Container) DelClip() {}

//
// Layout inputs
//

func (c *Container) ClientRect() engine.Position {
	return engine.Position{
		Width:  c.effectiveWidth(),
		Height: c.ui.ContentRegionAvail().Y,
	}
}

func (c *Container) CreateElement(tagName string, attrs map[string]string, doc engine.Document) engine.Element {
	if c.registry == nil || !c.registry.Has(tagName) {
		return nil
	}
	c.log.Debug("creating custom element", "tag", tagName)
	return newCustomElement(c, tagName, attrs)
}

func (c *Container) MediaFeatures() engine.MediaFeatures {
	width := c.effectiveWidth()
	height := c.ui.ContentRegionAvail().Y
	return engine.MediaFeatures{
		Type:         engine.MediaScreen,
		Width:        width,
		Height:       height,
		DeviceWidth:  width,
		DeviceHeight: height,
		Color:        8,
		Resolution:   96,
	}
}

func (c *Container) Language() (string, string) { return "en", "US" }
