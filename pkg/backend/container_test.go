package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imhtml/pkg/config"
	"imhtml/pkg/custom"
	"imhtml/pkg/engine"
	"imhtml/pkg/gui"
	"imhtml/pkg/gui/guitest"
)

var origin = gui.Vec2{X: 100, Y: 50}

func newTestContainer(t *testing.T, width float32) (*Container, *guitest.Recorder) {
	t.Helper()
	rec := guitest.NewRecorder(origin, gui.Vec2{X: 640, Y: 480})
	c := New(rec, custom.NewRegistry(), width)
	return c, rec
}

func TestContainer_CreateFont(t *testing.T) {
	c, rec := newTestContainer(t, 0)
	c.SetConfig(config.Config{BaseFontSize: 16, FontBold: "bold-font"})

	h, fm := c.CreateFont("Times", 20, 700, engine.FontStyleNormal, engine.DecorationNone)
	style, size := DecodeFont(h)
	assert.Equal(t, config.Bold, style)
	assert.Equal(t, 20, size)
	assert.Equal(t, float32(20), fm.Height)
	assert.Equal(t, 0, rec.FontDepth(), "font is only active while measuring")
}

func TestContainer_TextWidth(t *testing.T) {
	c, rec := newTestContainer(t, 0)
	h, _ := c.CreateFont("", 10, 400, engine.FontStyleNormal, 0)

	assert.Equal(t, float32(25), c.TextWidth("hello", h))
	assert.Equal(t, 0, rec.FontDepth())
}

func TestContainer_DrawText(t *testing.T) {
	c, rec := newTestContainer(t, 0)
	c.SetConfig(config.Config{FontItalic: "italic-font"})
	h, _ := c.CreateFont("", 10, 400, engine.FontStyleItalic, 0)

	c.DrawText("abcd", h, engine.WebColor{R: 1, G: 2, B: 3, A: 255}, engine.Position{X: 5, Y: 7})

	texts := rec.Ops(guitest.OpText)
	require.Len(t, texts, 1)
	assert.Equal(t, gui.Vec2{X: 105, Y: 57}, texts[0].Min)
	assert.Equal(t, "italic-font", texts[0].Font)
	assert.Equal(t, float32(10), texts[0].FontSize)
	assert.Equal(t, gui.RGBA(1, 2, 3, 255), texts[0].Color)
	assert.Equal(t, gui.Vec2{X: 25, Y: 17}, c.Extent())
}

func TestContainer_ExtentMonotonicAndReset(t *testing.T) {
	c, _ := newTestContainer(t, 0)
	h, _ := c.CreateFont("", 10, 400, engine.FontStyleNormal, 0)

	var last gui.Vec2
	steps := []func(){
		func() { c.DrawText("wide text here", h, engine.Black, engine.Position{X: 0, Y: 0}) },
		func() { c.DrawListMarker(engine.ListMarker{Pos: engine.Position{X: 2, Y: 40}}) },
		func() { c.DrawText("x", h, engine.Black, engine.Position{X: 0, Y: 5}) },
		func() {
			c.DrawBackground([]engine.BackgroundPaint{{BorderBox: engine.Position{X: 0, Y: 0, Width: 10, Height: 10}}})
		},
		func() {
			c.DrawBorders(engine.Borders{Top: engine.Border{Width: 1}}, engine.Position{X: 10, Y: 60, Width: 200, Height: 5}, false)
		},
	}
	for i, step := range steps {
		step()
		got := c.Extent()
		assert.GreaterOrEqual(t, got.X, last.X, "step %d", i)
		assert.GreaterOrEqual(t, got.Y, last.Y, "step %d", i)
		last = got
	}
	assert.Equal(t, gui.Vec2{X: 210, Y: 65}, last)

	c.Reset()
	assert.Equal(t, gui.Vec2{}, c.Extent())
}

func TestContainer_DrawListMarker(t *testing.T) {
	c, rec := newTestContainer(t, 0)
	c.DrawListMarker(engine.ListMarker{Color: engine.Black, Pos: engine.Position{X: 10, Y: 20, Width: 8, Height: 8}})

	circles := rec.Ops(guitest.OpCircle)
	require.Len(t, circles, 1)
	assert.Equal(t, gui.Vec2{X: 114, Y: 74}, circles[0].Min)
	assert.Equal(t, float32(2), circles[0].Radius)
	assert.Equal(t, gui.Vec2{X: 18, Y: 28}, c.Extent())
}

func TestContainer_DrawBackground_WithoutTextureCallback(t *testing.T) {
	c, rec := newTestContainer(t, 0)
	c.SetConfig(config.Config{})

	c.DrawBackground([]engine.BackgroundPaint{{
		Color:     engine.WebColor{R: 0, G: 128, B: 0, A: 255},
		Image:     "cat.png",
		BorderBox: engine.Position{X: 0, Y: 0, Width: 50, Height: 30},
		ClipBox:   engine.Position{X: 0, Y: 0, Width: 50, Height: 30},
	}})

	rects := rec.Ops(guitest.OpRect)
	require.Len(t, rects, 1)
	assert.Equal(t, gui.Vec2{X: 100, Y: 50}, rects[0].Min)
	assert.Equal(t, gui.Vec2{X: 150, Y: 80}, rects[0].Max)
	assert.Empty(t, rec.Ops(guitest.OpImage))
}

func TestContainer_DrawBackground_WithTexture(t *testing.T) {
	c, rec := newTestContainer(t, 0)
	var gotSrc, gotBase string
	c.SetConfig(config.Config{GetImageTexture: func(src, baseURL string) gui.TextureID {
		gotSrc, gotBase = src, baseURL
		return 42
	}})

	c.DrawBackground([]engine.BackgroundPaint{{
		Image:     "cat.png",
		BaseURL:   "/pages/",
		BorderBox: engine.Position{X: 0, Y: 0, Width: 50, Height: 30},
		ClipBox:   engine.Position{X: 5, Y: 5, Width: 40, Height: 20},
	}})

	images := rec.Ops(guitest.OpImage)
	require.Len(t, images, 1)
	assert.Equal(t, 42, images[0].Texture)
	assert.Equal(t, gui.Vec2{X: 105, Y: 55}, images[0].Min)
	assert.Equal(t, gui.Vec2{X: 145, Y: 75}, images[0].Max)
	assert.Equal(t, "cat.png", gotSrc)
	assert.Equal(t, "/pages/", gotBase)
}

func TestContainer_DrawBorders(t *testing.T) {
	c, rec := newTestContainer(t, 0)
	red := engine.WebColor{R: 255, A: 255}
	blue := engine.WebColor{B: 255, A: 255}

	c.DrawBorders(engine.Borders{
		Top:    engine.Border{Width: 2, Color: red},
		Bottom: engine.Border{Width: 3, Color: blue},
	}, engine.Position{X: 0, Y: 0, Width: 10, Height: 20}, true)

	lines := rec.Ops(guitest.OpLine)
	require.Len(t, lines, 2)
	assert.Equal(t, gui.Vec2{X: 100, Y: 50}, lines[0].Min)
	assert.Equal(t, gui.Vec2{X: 110, Y: 50}, lines[0].Max)
	assert.Equal(t, float32(2), lines[0].Thickness)
	assert.Equal(t, gui.RGBA(255, 0, 0, 255), lines[0].Color)
	assert.Equal(t, gui.Vec2{X: 110, Y: 70}, lines[1].Min)
	assert.Equal(t, gui.Vec2{X: 100, Y: 70}, lines[1].Max)
	assert.Equal(t, float32(3), lines[1].Thickness)
}

func TestContainer_MissingCallbacks(t *testing.T) {
	c, _ := newTestContainer(t, 0)
	c.SetConfig(config.Config{})

	c.LoadImage("a.png", "", false)
	assert.Equal(t, engine.Size{}, c.ImageSize("a.png", ""))
	assert.Equal(t, "", c.ImportCSS("a.css", ""))
}

func TestContainer_Callbacks(t *testing.T) {
	c, _ := newTestContainer(t, 0)
	var loaded []string
	c.SetConfig(config.Config{
		LoadImage:    func(src, baseURL string) { loaded = append(loaded, src) },
		GetImageMeta: func(src, baseURL string) config.ImageMeta { return config.ImageMeta{Width: 64, Height: 32} },
		LoadCSS:      func(url, baseURL string) string { return "p{}" },
	})

	c.LoadImage("a.png", "", true)
	assert.Equal(t, []string{"a.png"}, loaded)
	assert.Equal(t, engine.Size{Width: 64, Height: 32}, c.ImageSize("a.png", ""))
	assert.Equal(t, "p{}", c.ImportCSS("a.css", ""))
}

func TestContainer_Defaults(t *testing.T) {
	c, _ := newTestContainer(t, 0)
	c.SetConfig(config.Config{BaseFontSize: 18})

	assert.Equal(t, float32(12), c.PtToPx(12))
	assert.Equal(t, float32(18), c.DefaultFontSize())
	assert.Equal(t, "Default", c.DefaultFontName())
	lang, culture := c.Language()
	assert.Equal(t, "en", lang)
	assert.Equal(t, "US", culture)
	assert.Equal(t, "ABC", c.TransformText("ABC", engine.TransformLowercase))
}

func TestContainer_ClientRectAndMedia(t *testing.T) {
	c, _ := newTestContainer(t, 0)
	assert.Equal(t, engine.Position{Width: 640, Height: 480}, c.ClientRect())

	c.SetWidth(300)
	assert.Equal(t, engine.Position{Width: 300, Height: 480}, c.ClientRect())

	media := c.MediaFeatures()
	assert.Equal(t, engine.MediaScreen, media.Type)
	assert.Equal(t, float32(300), media.Width)
	assert.Equal(t, float32(300), media.DeviceWidth)
	assert.Equal(t, float32(480), media.Height)
	assert.Equal(t, 8, media.Color)
	assert.Equal(t, 96, media.Resolution)
}

func TestContainer_Navigation(t *testing.T) {
	c, _ := newTestContainer(t, 0)
	c.SetCurrentURL("home.html")

	c.OnAnchorClick("a.html")
	c.OnAnchorClick("b.html")
	assert.Equal(t, "b.html", c.PopLoadURL(), "last click wins")
	assert.Equal(t, "", c.PopLoadURL(), "consumed once")
	assert.Equal(t, []string{"home.html", "home.html"}, c.History())

	c.SetCurrentURL("b.html")
	require.True(t, c.CanGoBack())
	require.True(t, c.GoBack())
	assert.Equal(t, "home.html", c.PopLoadURL())

	c.Refresh()
	assert.Equal(t, "b.html", c.PopLoadURL())

	c.GoBack()
	assert.False(t, c.CanGoBack())
	assert.False(t, c.GoBack())
}

func TestContainer_SetCaption(t *testing.T) {
	c, _ := newTestContainer(t, 0)
	c.SetCaption("Hello")
	assert.Equal(t, "Hello", c.Title())
}

func TestContainer_SetCursor(t *testing.T) {
	c, rec := newTestContainer(t, 0)

	c.SetCursor("pointer")
	assert.Empty(t, rec.CursorReq, "not hovered")

	rec.Hovered = true
	c.SetCursor("auto")
	c.SetCursor("text")
	assert.Empty(t, rec.CursorReq)

	c.SetCursor("pointer")
	assert.Equal(t, []gui.Cursor{gui.CursorHand}, rec.CursorReq)
}

func TestContainer_CreateElement(t *testing.T) {
	c, rec := newTestContainer(t, 0)
	registry := custom.NewRegistry()
	c.registry = registry

	assert.Nil(t, c.CreateElement("box", nil, nil))

	var calls int
	var gotBounds gui.Rect
	var gotAttrs map[string]string
	registry.Register("box", func(bounds gui.Rect, attrs map[string]string) {
		calls++
		gotBounds = bounds
		gotAttrs = attrs
		rec.SetCursorScreenPos(gui.Vec2{X: 999, Y: 999})
	})

	el := c.CreateElement("box", map[string]string{"data-x": "1"}, nil)
	require.NotNil(t, el)
	assert.Equal(t, "box", el.TagName())
	assert.Equal(t, map[string]string{"data-x": "1"}, el.Attributes())

	el.DrawBackground(10, 20, nil, engine.Position{X: 10, Y: 20, Width: 30, Height: 40})
	assert.Equal(t, 1, calls)
	assert.Equal(t, gui.Rect{Min: gui.Vec2{X: 110, Y: 70}, Max: gui.Vec2{X: 140, Y: 110}}, gotBounds)
	assert.Equal(t, "1", gotAttrs["data-x"])
	assert.Equal(t, origin, rec.CursorScreenPos(), "cursor restored after callback")
	assert.Equal(t, gui.Vec2{X: 40, Y: 60}, c.Extent())

	registry.Unregister("box")
	el.DrawBackground(10, 20, nil, engine.Position{Width: 30, Height: 40})
	assert.Equal(t, 1, calls, "unregistered tags draw nothing")
}

func TestContainer_Release(t *testing.T) {
	c, _ := newTestContainer(t, 0)
	c.SetConfig(config.New())
	c.OnAnchorClick("x")
	c.Release()

	assert.False(t, c.CanGoBack())
	assert.Equal(t, "", c.PopLoadURL())
	assert.Nil(t, c.Config().LoadCSS)
	assert.Nil(t, c.CreateElement("box", nil, nil))
}
