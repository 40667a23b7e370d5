// Package lite is a small HTML/CSS engine for canvases.
//
// It parses HTML with golang.org/x/net/html, matches stylesheets with
// douceur and ericchiang/css, and lays out block and inline boxes with word
// wrapping. Every measurement and paint goes through an engine.Container.
// It supports the subset of CSS that text documents, help pages and
// simple markup need; there are no floats, tables or positioned boxes.
package lite

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"imhtml/pkg/engine"
)

// Engine creates lite documents.
type Engine struct {
	log *slog.Logger
}

// New returns an Engine that logs to slog.Default().
func New() *Engine {
	return &Engine{log: slog.Default().With("component", "lite")}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l *slog.Logger) { e.log = l.With("component", "lite") }

// CreateFromString parses text into a document bound to c.
func (e *Engine) CreateFromString(text string, c engine.Container) engine.Document {
	log := e.log
	if log == nil {
		log = slog.Default()
	}
	d := &Document{
		container:    c,
		log:          log,
		fonts:        map[fontKey]fontEntry{},
		rootFontSize: c.DefaultFontSize(),
		media:        c.MediaFeatures(),
	}
	parsed, err := html.Parse(strings.NewReader(text))
	if err != nil {
		d.log.Warn("parse failed", "error", err)
		parsed = &html.Node{Type: html.DocumentNode}
	}
	d.parsed = parsed
	for h := parsed.FirstChild; h != nil; h = h.NextSibling {
		if h.Type == html.ElementNode {
			d.root = d.build(h, nil)
			break
		}
	}
	d.restyle()
	return d
}

type fontKey struct {
	family     string
	size       int
	weight     int
	style      engine.FontStyle
	decoration engine.TextDecoration
}

type fontEntry struct {
	handle  engine.FontHandle
	metrics engine.FontMetrics
}

// Document is a parsed lite document.
type Document struct {
	container engine.Container
	log       *slog.Logger

	parsed  *html.Node
	root    *node
	sheets  []string
	baseURL string

	media          engine.MediaFeatures
	mediaDependent bool
	rootFontSize   float32
	fonts          map[fontKey]fontEntry

	width, height float32
	blocks        []*node

	hover  *node
	active *node
}

// restyle recomputes every node's style from the stylesheets.
func (d *Document) restyle() {
	if d.root == nil {
		return
	}
	m := d.cascade(d.parsed)
	var visit func(n *node, parent style)
	visit = func(n *node, parent style) {
		if n.isText() {
			n.style = parent.inherit()
			return
		}
		n.style = d.computeStyle(parent, m[n.src])
		if n.style.backgroundImage != "" {
			d.container.LoadImage(n.style.backgroundImage, d.baseURL, true)
		}
		ordinal := 1
		if v, err := strconv.Atoi(n.attrs["start"]); err == nil {
			ordinal = v
		}
		for _, c := range n.children {
			visit(c, n.style)
			if c.style.display == "list-item" {
				if v, err := strconv.Atoi(c.attrs["value"]); err == nil {
					ordinal = v
				}
				c.ordinal = ordinal
				ordinal++
			}
		}
	}
	visit(d.root, d.rootStyle())
	if d.root.style.display != "none" {
		d.root.style.display = "block"
	}
	d.rootFontSize = d.root.style.fontSize
}

// font returns the container font for s, creating it on first use.
func (d *Document) font(s style) fontEntry {
	key := fontKey{
		family:     s.fontFamily,
		size:       max(1, int(math.Round(float64(s.fontSize)))),
		weight:     s.fontWeight,
		style:      s.fontStyle,
		decoration: s.decoration,
	}
	if f, ok := d.fonts[key]; ok {
		return f
	}
	h, m := d.container.CreateFont(key.family, key.size, key.weight, key.style, key.decoration)
	f := fontEntry{handle: h, metrics: m}
	d.fonts[key] = f
	return f
}

// Render lays the document out for maxWidth pixels.
func (d *Document) Render(maxWidth float32) float32 {
	if d.container == nil {
		return 0
	}
	if media := d.container.MediaFeatures(); media != d.media {
		d.media = media
		if d.mediaDependent {
			d.restyle()
		}
	}
	d.layout(maxWidth)
	return d.width
}

// Width is the laid out width.
func (d *Document) Width() float32 { return d.width }

// Height is the laid out height.
func (d *Document) Height() float32 { return d.height }

// Draw paints the document with its origin at (x, y).
func (d *Document) Draw(x, y float32, clip *engine.Position) {
	if d.container == nil || d.root == nil || !d.root.boxed {
		return
	}
	d.paint(d.root, x, y, clip)
}

func shift(p engine.Position, x, y float32) engine.Position {
	p.X += x
	p.Y += y
	return p
}

func (d *Document) paint(n *node, x, y float32, clip *engine.Position) {
	box := shift(n.box, x, y)
	if n.override != nil {
		n.override.DrawBackground(box.X, box.Y, clip, n.box)
		return
	}

	s := n.style
	if !s.background.Transparent() || s.backgroundImage != "" {
		layer := engine.BackgroundPaint{
			Color:     s.background,
			BaseURL:   d.baseURL,
			BorderBox: box,
			ClipBox:   box,
			OriginBox: box,
			Repeat:    s.backgroundRepeat,
			IsRoot:    n == d.root,
		}
		if s.backgroundImage != "" {
			layer.Image = s.backgroundImage
			layer.ImageSize = d.container.ImageSize(s.backgroundImage, d.baseURL)
		}
		d.container.DrawBackground([]engine.BackgroundPaint{layer})
	}
	if s.borders.Any() {
		d.container.DrawBorders(s.borders, box, n == d.root)
	}
	if s.overflowHidden {
		d.container.SetClip(box, engine.BorderRadiuses{})
	}

	if n.marker != nil {
		marker := *n.marker
		marker.Pos = shift(marker.Pos, x, y)
		marker.BaseURL = d.baseURL
		d.container.DrawListMarker(marker)
	}
	for _, f := range n.frags {
		pos := shift(f.pos, x, y)
		if f.image != "" {
			d.container.DrawBackground([]engine.BackgroundPaint{{
				Image:     f.image,
				BaseURL:   d.baseURL,
				BorderBox: pos,
				ClipBox:   pos,
				OriginBox: pos,
				ImageSize: engine.Size{Width: pos.Width, Height: pos.Height},
				Repeat:    "no-repeat",
			}})
			continue
		}
		d.container.DrawText(f.text, f.font, f.color, pos)
	}
	d.paintChildren(n, x, y, clip)

	if s.overflowHidden {
		d.container.DelClip()
	}
}

// paintChildren paints the boxed descendants of n, looking through inline
// elements that have no box of their own.
func (d *Document) paintChildren(n *node, x, y float32, clip *engine.Position) {
	for _, c := range n.children {
		if c.boxed {
			d.paint(c, x, y, clip)
		} else if !c.isText() {
			d.paintChildren(c, x, y, clip)
		}
	}
}

// hit returns the deepest node under (x, y).
func (d *Document) hit(x, y float32) *node {
	for i := len(d.blocks) - 1; i >= 0; i-- {
		for _, f := range d.blocks[i].frags {
			if f.pos.Contains(x, y) {
				return f.owner
			}
		}
	}
	for i := len(d.blocks) - 1; i >= 0; i-- {
		if d.blocks[i].box.Contains(x, y) {
			return d.blocks[i]
		}
	}
	return nil
}

func (d *Document) linkAt(x, y float32) *node {
	if n := d.hit(x, y); n != nil {
		return n.link()
	}
	return nil
}

// OnLButtonDown arms the link under the pointer.
func (d *Document) OnLButtonDown(x, y, clientX, clientY float32) bool {
	if d.container == nil {
		return false
	}
	d.active = d.linkAt(x, y)
	return false
}

// OnLButtonUp follows the armed link when the button is released over it.
func (d *Document) OnLButtonUp(x, y, clientX, clientY float32) bool {
	if d.container == nil {
		return false
	}
	active := d.active
	d.active = nil
	if active == nil || d.linkAt(x, y) != active {
		return false
	}
	d.container.OnAnchorClick(active.attrs["href"])
	return false
}

// OnMouseOver updates the hovered node and the pointer cursor.
func (d *Document) OnMouseOver(x, y, clientX, clientY float32) bool {
	if d.container == nil {
		return false
	}
	n := d.hit(x, y)
	cursor := "auto"
	if n != nil {
		cursor = n.style.cursor
	}
	d.container.SetCursor(cursor)
	changed := n != d.hover
	d.hover = n
	return changed
}

// OnMouseLeave clears the hover state.
func (d *Document) OnMouseLeave() bool {
	changed := d.hover != nil
	d.hover = nil
	d.active = nil
	return changed
}

// Close deletes the document's fonts and drops the container.
func (d *Document) Close() {
	if d.container == nil {
		return
	}
	for _, f := range d.fonts {
		d.container.DeleteFont(f.handle)
	}
	d.fonts = nil
	d.root = nil
	d.blocks = nil
	d.container = nil
}
