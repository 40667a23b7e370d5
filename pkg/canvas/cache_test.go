package canvas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imhtml/pkg/backend"
	"imhtml/pkg/config"
	"imhtml/pkg/custom"
	"imhtml/pkg/engine"
	"imhtml/pkg/engine/lite"
	"imhtml/pkg/gui"
	"imhtml/pkg/gui/guitest"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// stubDoc paints a fixed 50x20 box and follows "next" when the button is
// released over it.
type stubDoc struct {
	c    engine.Container
	html string

	widths    []float32
	fontSizes []float32
	downs     []gui.Vec2
	overs     []gui.Vec2

	closed              bool
	releasedBeforeClose bool
}

func (d *stubDoc) Render(w float32) float32 {
	d.widths = append(d.widths, w)
	d.fontSizes = append(d.fontSizes, d.c.DefaultFontSize())
	return w
}

func (d *stubDoc) Draw(x, y float32, clip *engine.Position) {
	d.c.DrawBackground([]engine.BackgroundPaint{{BorderBox: engine.Position{X: x, Y: y, Width: 50, Height: 20}}})
}

func (d *stubDoc) Width() float32  { return 50 }
func (d *stubDoc) Height() float32 { return 20 }

func (d *stubDoc) OnLButtonDown(x, y, cx, cy float32) bool {
	d.downs = append(d.downs, gui.Vec2{X: x, Y: y})
	return false
}

func (d *stubDoc) OnLButtonUp(x, y, cx, cy float32) bool {
	d.c.OnAnchorClick("next")
	return false
}

func (d *stubDoc) OnMouseOver(x, y, cx, cy float32) bool {
	d.overs = append(d.overs, gui.Vec2{X: x, Y: y})
	return false
}

func (d *stubDoc) OnMouseLeave() bool { return false }

func (d *stubDoc) Close() {
	d.closed = true
	d.releasedBeforeClose = d.c.(*backend.Container).Config().BaseFontSize == 0
}

type stubEngine struct{ docs []*stubDoc }

func (e *stubEngine) CreateFromString(html string, c engine.Container) engine.Document {
	d := &stubDoc{c: c, html: html}
	e.docs = append(e.docs, d)
	return d
}

type fixture struct {
	ui    *guitest.Recorder
	eng   *stubEngine
	clock *clock
	store *config.Store
	cache *Cache
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		ui:    guitest.NewRecorder(gui.Vec2{X: 10, Y: 20}, gui.Vec2{X: 300, Y: 200}),
		eng:   &stubEngine{},
		clock: &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		store: config.NewStore(config.New()),
	}
	opts.Config = f.store
	if opts.Registry == nil {
		opts.Registry = custom.NewRegistry()
	}
	opts.Now = f.clock.Now
	f.cache = NewCache(f.ui, f.eng, opts)
	return f
}

func (f *fixture) frame() {
	f.ui.NewFrame(gui.Vec2{X: 10, Y: 20})
}

func TestRender_ParsesOnlyWhenHTMLChanges(t *testing.T) {
	f := newFixture(Options{})

	for i := 0; i < 3; i++ {
		f.frame()
		f.cache.Render("c", "<p>hello</p>", 0)
	}
	s, ok := f.cache.Session("c")
	require.True(t, ok)
	assert.Equal(t, 1, s.Parses())
	require.Len(t, f.eng.docs, 1)

	f.frame()
	f.cache.Render("c", "<p>hellO</p>", 0)
	assert.Equal(t, 2, s.Parses())
	require.Len(t, f.eng.docs, 2)
	assert.True(t, f.eng.docs[0].closed)
	assert.False(t, f.eng.docs[1].closed)
	assert.Equal(t, "<p>hellO</p>", f.eng.docs[1].html)
}

func TestRender_ReservesDrawnExtent(t *testing.T) {
	f := newFixture(Options{})
	f.frame()
	f.cache.Render("c", "x", 0)

	require.Len(t, f.ui.Items, 1)
	assert.Equal(t, "c", f.ui.Items[0].ID)
	assert.Equal(t, gui.Rect{Min: gui.Vec2{X: 10, Y: 20}, Max: gui.Vec2{X: 60, Y: 40}}, f.ui.Items[0].BB)
	require.Len(t, f.ui.Reserved, 1)
	assert.Equal(t, gui.Vec2{X: 50, Y: 20}, f.ui.Reserved[0])

	// The extent starts from zero every frame.
	f.frame()
	f.cache.Render("c", "x", 0)
	assert.Equal(t, gui.Vec2{X: 50, Y: 20}, f.ui.Reserved[0])
}

func TestRender_Width(t *testing.T) {
	f := newFixture(Options{})
	f.frame()
	f.cache.Render("c", "x", 0)
	f.frame()
	f.cache.Render("c", "x", 120)

	assert.Equal(t, []float32{300, 120}, f.eng.docs[0].widths)
}

func TestRender_EvictsIdleCanvases(t *testing.T) {
	f := newFixture(Options{})
	f.frame()
	f.cache.Render("a", "x", 0)
	f.cache.Render("b", "x", 0)
	require.Equal(t, 2, f.cache.Len())

	f.clock.Advance(500 * time.Millisecond)
	f.frame()
	f.cache.Render("b", "x", 0)
	assert.Equal(t, 2, f.cache.Len())

	f.clock.Advance(600 * time.Millisecond)
	f.frame()
	f.cache.Render("b", "x", 0)
	assert.Equal(t, 1, f.cache.Len())
	_, ok := f.cache.Session("a")
	assert.False(t, ok)

	a := f.eng.docs[0]
	assert.True(t, a.closed)
	assert.False(t, a.releasedBeforeClose, "document must close before its container is released")
}

func TestRender_ActiveCanvasSurvivesLongFrames(t *testing.T) {
	f := newFixture(Options{})
	for i := 0; i < 5; i++ {
		f.frame()
		f.cache.Render("a", "x", 0)
		f.clock.Advance(3 * time.Second)
	}
	assert.Equal(t, 1, f.cache.Len())
	assert.False(t, f.eng.docs[0].closed)
}

func TestRender_ClickFrameSkipsEviction(t *testing.T) {
	f := newFixture(Options{})
	f.frame()
	f.cache.Render("a", "x", 0)
	f.cache.Render("b", "x", 0)

	f.clock.Advance(2 * time.Second)
	f.frame()
	f.ui.Release(gui.Vec2{X: 15, Y: 25})
	url, ok := f.cache.Render("b", "x", 0)
	assert.True(t, ok)
	assert.Equal(t, "next", url)
	assert.Equal(t, 2, f.cache.Len(), "no sweep on a click frame")

	f.frame()
	url, ok = f.cache.Render("b", "x", 0)
	assert.False(t, ok)
	assert.Empty(t, url)
	assert.Equal(t, 1, f.cache.Len())
}

func TestRender_SweepOnClick(t *testing.T) {
	f := newFixture(Options{SweepOnClick: true})
	f.frame()
	f.cache.Render("a", "x", 0)
	f.cache.Render("b", "x", 0)

	f.clock.Advance(2 * time.Second)
	f.frame()
	f.ui.Release(gui.Vec2{X: 15, Y: 25})
	_, ok := f.cache.Render("b", "x", 0)
	assert.True(t, ok)
	assert.Equal(t, 1, f.cache.Len())
}

func TestRender_MouseInDocumentCoordinates(t *testing.T) {
	f := newFixture(Options{})
	f.frame()
	f.ui.Press(gui.Vec2{X: 15, Y: 27})
	f.cache.Render("c", "x", 0)

	d := f.eng.docs[0]
	assert.Equal(t, []gui.Vec2{{X: 5, Y: 7}}, d.downs)
	assert.Equal(t, []gui.Vec2{{X: 5, Y: 7}}, d.overs)
}

func TestRender_NavigationHistory(t *testing.T) {
	f := newFixture(Options{})
	f.frame()
	f.cache.Render("c", "x", 0)
	s, _ := f.cache.Session("c")
	s.SetCurrentURL("home")
	assert.False(t, s.CanGoBack())

	f.frame()
	f.ui.Release(gui.Vec2{X: 15, Y: 25})
	url, ok := f.cache.Render("c", "x", 0)
	require.True(t, ok)
	assert.Equal(t, "next", url)
	assert.Equal(t, []string{"home"}, s.History())

	s.SetCurrentURL("next")
	require.True(t, s.GoBack())
	f.frame()
	url, ok = f.cache.Render("c", "x", 0)
	assert.True(t, ok)
	assert.Equal(t, "home", url)
	assert.False(t, s.CanGoBack())

	f.frame()
	_, ok = f.cache.Render("c", "x", 0)
	assert.False(t, ok, "a URL is reported once")

	s.SetCurrentURL("home")
	s.Refresh()
	f.frame()
	url, ok = f.cache.Render("c", "x", 0)
	assert.True(t, ok)
	assert.Equal(t, "home", url)
}

func TestRender_SnapshotsConfigEveryFrame(t *testing.T) {
	f := newFixture(Options{})
	f.frame()
	f.cache.Render("c", "x", 0)

	cfg := config.New()
	cfg.BaseFontSize = 20
	f.store.Push(cfg)
	f.frame()
	f.cache.Render("c", "x", 0)
	f.store.Pop()
	f.frame()
	f.cache.Render("c", "x", 0)

	assert.Equal(t, []float32{16, 20, 16}, f.eng.docs[0].fontSizes)
}

func TestCache_CloseAndEvict(t *testing.T) {
	f := newFixture(Options{})
	f.frame()
	f.cache.Render("a", "x", 0)
	f.cache.Render("b", "x", 0)

	f.cache.Evict("a")
	assert.Equal(t, 1, f.cache.Len())
	assert.True(t, f.eng.docs[0].closed)

	f.cache.Evict("missing")
	f.cache.Close()
	assert.Equal(t, 0, f.cache.Len())
	for _, d := range f.eng.docs {
		assert.True(t, d.closed)
		assert.False(t, d.releasedBeforeClose)
	}
}

func newLiteCache(ui *guitest.Recorder, reg *custom.Registry) *Cache {
	return NewCache(ui, lite.New(), Options{
		Config:   config.NewStore(config.New()),
		Registry: reg,
	})
}

func TestRender_LinkClickEndToEnd(t *testing.T) {
	ui := guitest.NewRecorder(gui.Vec2{}, gui.Vec2{X: 400, Y: 300})
	ui.Hovered = true
	cache := newLiteCache(ui, custom.NewRegistry())
	page := `<html><head><title>Index</title></head><body style="margin:0"><a href="next.html">go</a></body></html>`

	ui.NewFrame(gui.Vec2{})
	ui.Press(gui.Vec2{X: 4, Y: 4})
	_, ok := cache.Render("c", page, 0)
	assert.False(t, ok)
	assert.Contains(t, ui.CursorReq, gui.CursorHand)

	s, _ := cache.Session("c")
	assert.Equal(t, "Index", s.Title())
	s.SetCurrentURL("index.html")

	ui.NewFrame(gui.Vec2{})
	ui.Release(gui.Vec2{X: 4, Y: 4})
	url, ok := cache.Render("c", page, 0)
	assert.True(t, ok)
	assert.Equal(t, "next.html", url)
	assert.Equal(t, []string{"index.html"}, s.History())

	texts := ui.Ops(guitest.OpText)
	require.Len(t, texts, 1)
	assert.Equal(t, "go", texts[0].Text)
	assert.Equal(t, float32(16), texts[0].FontSize)
	assert.Equal(t, 0, ui.FontDepth())
}

func TestRender_CustomElementEndToEnd(t *testing.T) {
	ui := guitest.NewRecorder(gui.Vec2{}, gui.Vec2{X: 400, Y: 300})
	reg := custom.NewRegistry()
	var calls []gui.Rect
	var attrs map[string]string
	reg.Register("box", func(bounds gui.Rect, a map[string]string) {
		calls = append(calls, bounds)
		attrs = a
		ui.SetCursorScreenPos(gui.Vec2{X: 999, Y: 999})
	})
	cache := newLiteCache(ui, reg)
	page := `<box data-x="1"></box>`

	for i := 0; i < 2; i++ {
		ui.NewFrame(gui.Vec2{})
		cache.Render("c", page, 0)
	}
	require.Len(t, calls, 2, "called once per frame")
	assert.Equal(t, gui.Rect{Min: gui.Vec2{X: 8, Y: 8}, Max: gui.Vec2{X: 392, Y: 24}}, calls[0])
	assert.Equal(t, "1", attrs["data-x"])
	require.Len(t, ui.Reserved, 1)
	assert.Equal(t, gui.Vec2{X: 392, Y: 24}, ui.Reserved[0])
	assert.Equal(t, gui.Vec2{X: 0, Y: 24}, ui.Cursor, "cursor restored before the item is reserved")

	reg.Unregister("box")
	ui.NewFrame(gui.Vec2{})
	cache.Render("c", page, 0)
	assert.Len(t, calls, 2)
}
