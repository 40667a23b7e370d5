package lite

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/chewxy/math32"

	"imhtml/pkg/engine"
)

// fragment is a laid out piece of inline content.
type fragment struct {
	text  string
	font  engine.FontHandle
	color engine.WebColor
	pos   engine.Position
	owner *node
	image string
}

type itemKind int

const (
	itemWord itemKind = iota
	itemSpace
	itemBreak
	itemImage
)

// inlineItem is an unbreakable unit of inline content.
type inlineItem struct {
	kind   itemKind
	text   string
	owner  *node
	font   fontEntry
	width  float32
	height float32
	nowrap bool
}

func resolveEdges(e [4]length, base float32) [4]float32 {
	return [4]float32{e[0].resolve(base), e[1].resolve(base), e[2].resolve(base), e[3].resolve(base)}
}

// containsBlock reports whether an inline node wraps block content, in
// which case it is laid out as a block itself.
func containsBlock(n *node) bool {
	for _, c := range n.children {
		if c.block() || (!c.isText() && c.style.display != "none" && containsBlock(c)) {
			return true
		}
	}
	return false
}

// layout positions every box for a viewport maxWidth pixels wide.
func (d *Document) layout(maxWidth float32) {
	d.blocks = d.blocks[:0]
	d.width, d.height = 0, 0
	if d.root == nil {
		return
	}
	walk(d.root, func(n *node) {
		n.boxed = false
		n.frags = nil
		n.marker = nil
	})
	m := resolveEdges(d.root.style.margin, maxWidth)
	d.layoutBlock(d.root, 0, m[0], maxWidth)
	d.height = math32.Max(d.height, d.root.box.Bottom()+m[2])
}

func (d *Document) extend(p engine.Position) {
	d.width = math32.Max(d.width, p.Right())
	d.height = math32.Max(d.height, p.Bottom())
}

// layoutBlock lays out n with its border box top at y inside a containing
// block starting at x and avail pixels wide.
func (d *Document) layoutBlock(n *node, x, y, avail float32) {
	s := n.style
	m := resolveEdges(s.margin, avail)
	p := resolveEdges(s.padding, avail)
	b := s.borders
	hExtra := p[1] + p[3] + b.Left.Width + b.Right.Width
	vExtra := p[0] + p[2] + b.Top.Width + b.Bottom.Width

	width := avail - m[1] - m[3]
	if w, ok := d.explicitWidth(n, avail); ok {
		width = w + hExtra
	}
	width = math32.Max(width, 0)
	left := x + m[3]
	if !s.width.auto && s.margin[1].auto && s.margin[3].auto {
		left = x + math32.Max(0, (avail-width)/2)
	}

	n.boxed = true
	n.box = engine.Position{X: left, Y: y, Width: width}
	d.blocks = append(d.blocks, n)

	if n.override != nil {
		n.box.Height = d.overrideHeight(n) + vExtra
		d.extend(n.box)
		return
	}

	cx := left + b.Left.Width + p[3]
	cw := math32.Max(0, width-hExtra)
	top := y + b.Top.Width + p[0]
	cy := top

	var run []*node
	var prevMargin float32
	firstLine := float32(-1)
	flush := func() {
		if len(run) == 0 {
			return
		}
		h, first := d.layoutInline(n, run, cx, cy, cw)
		if h > 0 {
			if firstLine < 0 {
				firstLine = first
			}
			cy += h
			prevMargin = 0
		}
		run = nil
	}
	for _, c := range n.children {
		if !c.isText() && c.style.display == "none" {
			continue
		}
		if !c.block() && !containsBlock(c) {
			run = append(run, c)
			continue
		}
		flush()
		cm := resolveEdges(c.style.margin, cw)
		cy += math32.Max(prevMargin, cm[0]) - prevMargin
		d.layoutBlock(c, cx, cy, cw)
		if firstLine < 0 && len(c.frags) > 0 {
			firstLine = c.frags[0].pos.Height
		}
		cy = c.box.Bottom() + cm[2]
		prevMargin = cm[2]
	}
	flush()

	contentH := cy - top
	if !s.height.auto && !s.height.percent {
		contentH = s.height.value
	}
	n.box.Height = contentH + vExtra
	if s.display == "list-item" {
		if firstLine < 0 {
			firstLine = d.font(s).metrics.Height
		}
		d.placeMarker(n, cx, top, firstLine)
	}
	d.extend(n.box)
}

// explicitWidth is the content width set by CSS or, for custom elements,
// the width attribute.
func (d *Document) explicitWidth(n *node, avail float32) (float32, bool) {
	if !n.style.width.auto {
		return n.style.width.resolve(avail), true
	}
	if n.override != nil {
		if w, err := strconv.ParseFloat(strings.TrimSuffix(n.attrs["width"], "px"), 32); err == nil {
			return float32(w), true
		}
	}
	return 0, false
}

// overrideHeight is the content height of a custom element: its CSS
// height, its height attribute, or one line of text.
func (d *Document) overrideHeight(n *node) float32 {
	if !n.style.height.auto && !n.style.height.percent {
		return n.style.height.value
	}
	if h, err := strconv.ParseFloat(strings.TrimSuffix(n.attrs["height"], "px"), 32); err == nil {
		return float32(h)
	}
	return d.lineHeight(n.style)
}

func (d *Document) lineHeight(s style) float32 {
	f := d.font(s)
	if s.lineHeight > 0 {
		return s.lineHeight * s.fontSize
	}
	return f.metrics.Height
}

// placeMarker positions the bullet or number of a list item whose first
// line is lineH pixels tall.
func (d *Document) placeMarker(n *node, cx, top, lineH float32) {
	s := n.style
	switch s.listStyle {
	case "none", "":
		return
	case "decimal", "lower-alpha", "upper-alpha", "lower-roman", "upper-roman":
		f := d.font(s)
		label := markerLabel(s.listStyle, n.ordinal) + "."
		w := d.container.TextWidth(label, f.handle)
		n.frags = append(n.frags, &fragment{
			text:  label,
			font:  f.handle,
			color: s.color,
			pos:   engine.Position{X: cx - w - 6, Y: top, Width: w, Height: f.metrics.Height},
			owner: n,
		})
		return
	}
	n.marker = &engine.ListMarker{
		Type:  s.listStyle,
		Color: s.color,
		Pos:   engine.Position{X: cx - 16, Y: top + (lineH-8)/2, Width: 8, Height: 8},
		Font:  d.font(s).handle,
	}
}

func markerLabel(kind string, n int) string {
	switch kind {
	case "lower-alpha", "upper-alpha":
		var b []byte
		for v := n; v > 0; v = (v - 1) / 26 {
			b = append([]byte{byte('a' + (v-1)%26)}, b...)
		}
		if kind == "upper-alpha" {
			return strings.ToUpper(string(b))
		}
		return string(b)
	case "lower-roman", "upper-roman":
		r := roman(n)
		if kind == "lower-roman" {
			return strings.ToLower(r)
		}
		return r
	}
	return strconv.Itoa(n)
}

func roman(n int) string {
	if n <= 0 || n >= 4000 {
		return strconv.Itoa(n)
	}
	values := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	symbols := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}
	var b strings.Builder
	for i, v := range values {
		for n >= v {
			b.WriteString(symbols[i])
			n -= v
		}
	}
	return b.String()
}

// collect flattens inline content into items.
func (d *Document) collect(n *node, items []inlineItem) []inlineItem {
	if n.isText() {
		return d.collectText(n, items)
	}
	if n.style.display == "none" {
		return items
	}
	switch n.tag {
	case "br":
		return append(items, inlineItem{kind: itemBreak, owner: n, height: d.lineHeight(n.style)})
	case "img":
		w, h := d.imageSize(n)
		if w <= 0 || h <= 0 {
			return items
		}
		return append(items, inlineItem{kind: itemImage, text: n.attrs["src"], owner: n, width: w, height: h})
	}
	for _, c := range n.children {
		items = d.collect(c, items)
	}
	return items
}

func (d *Document) collectText(n *node, items []inlineItem) []inlineItem {
	owner := n.parent
	s := owner.style
	text := n.text
	if s.transform != engine.TransformNone {
		text = d.container.TransformText(text, s.transform)
	}
	f := d.font(s)
	lh := d.lineHeight(s)
	nowrap := s.whiteSpace == "nowrap"

	word := func(w string) inlineItem {
		return inlineItem{kind: itemWord, text: w, owner: owner, font: f, width: d.container.TextWidth(w, f.handle), height: lh, nowrap: nowrap}
	}

	if s.preformatted() {
		for i, line := range strings.Split(strings.ReplaceAll(text, "\t", "    "), "\n") {
			if i > 0 {
				items = append(items, inlineItem{kind: itemBreak, owner: owner, height: lh})
			}
			if line != "" {
				it := word(line)
				it.nowrap = s.whiteSpace == "pre"
				items = append(items, it)
			}
		}
		return items
	}

	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				items = append(items, word(text[start:i]))
				start = -1
			}
			if len(items) > 0 && items[len(items)-1].kind != itemSpace && items[len(items)-1].kind != itemBreak {
				items = append(items, inlineItem{kind: itemSpace, text: " ", owner: owner, font: f, width: d.container.TextWidth(" ", f.handle), height: lh, nowrap: nowrap})
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		items = append(items, word(text[start:]))
	}
	return items
}

// imageSize resolves an <img> size from its attributes, CSS and the
// container's intrinsic size, keeping the aspect ratio when only one side
// is given.
func (d *Document) imageSize(n *node) (float32, float32) {
	size := d.container.ImageSize(n.attrs["src"], d.baseURL)
	w, wok := attrOrStyle(n.attrs["width"], n.style.width)
	h, hok := attrOrStyle(n.attrs["height"], n.style.height)
	switch {
	case wok && hok:
	case wok && size.Width > 0:
		h = w * size.Height / size.Width
	case hok && size.Height > 0:
		w = h * size.Width / size.Height
	default:
		w, h = size.Width, size.Height
	}
	return w, h
}

func attrOrStyle(attr string, l length) (float32, bool) {
	if !l.auto && !l.percent {
		return l.value, true
	}
	if v, err := strconv.ParseFloat(strings.TrimSuffix(attr, "px"), 32); err == nil {
		return float32(v), true
	}
	return 0, false
}

// layoutInline breaks run into lines inside block n and returns the height
// used and the height of the first line.
func (d *Document) layoutInline(n *node, run []*node, cx, cy, cw float32) (float32, float32) {
	var items []inlineItem
	for _, c := range run {
		items = d.collect(c, items)
	}

	var line []inlineItem
	var lineW float32
	y := cy
	first := float32(-1)
	finish := func(force bool) {
		for len(line) > 0 && line[len(line)-1].kind == itemSpace {
			lineW -= line[len(line)-1].width
			line = line[:len(line)-1]
		}
		if len(line) == 0 && !force {
			return
		}
		h := d.emitLine(n, line, lineW, cx, y, cw)
		if first < 0 {
			first = h
		}
		y += h
		line = line[:0]
		lineW = 0
	}

	for _, it := range items {
		switch it.kind {
		case itemBreak:
			if len(line) == 0 {
				line = append(line, it)
			}
			finish(true)
			continue
		case itemSpace:
			if len(line) == 0 {
				continue
			}
		default:
			if len(line) > 0 && lineW+it.width > cw && !it.nowrap {
				finish(false)
			}
		}
		line = append(line, it)
		lineW += it.width
	}
	finish(false)
	if first < 0 {
		first = 0
	}
	return y - cy, first
}

// emitLine turns one line of items into fragments and returns its height.
func (d *Document) emitLine(n *node, line []inlineItem, lineW, cx, y, cw float32) float32 {
	var lineH float32
	for _, it := range line {
		lineH = math32.Max(lineH, it.height)
	}
	x := cx
	switch n.style.textAlign {
	case "center":
		x += math32.Max(0, (cw-lineW)/2)
	case "right", "end":
		x += math32.Max(0, cw-lineW)
	}

	var last *fragment
	for _, it := range line {
		switch it.kind {
		case itemBreak:
			continue
		case itemImage:
			f := &fragment{
				image: it.text,
				owner: it.owner,
				pos:   engine.Position{X: x, Y: y + lineH - it.height, Width: it.width, Height: it.height},
			}
			n.frags = append(n.frags, f)
			d.extend(f.pos)
			last = nil
		default:
			fh := it.font.metrics.Height
			ty := y + (lineH - it.height) + (it.height-fh)/2
			if last != nil && last.owner == it.owner && last.font == it.font.handle && last.pos.Y == ty {
				last.text += it.text
				last.pos.Width += it.width
			} else {
				last = &fragment{
					text:  it.text,
					font:  it.font.handle,
					color: it.owner.style.color,
					owner: it.owner,
					pos:   engine.Position{X: x, Y: ty, Width: it.width, Height: fh},
				}
				n.frags = append(n.frags, last)
			}
			d.extend(last.pos)
		}
		x += it.width
	}
	return lineH
}
