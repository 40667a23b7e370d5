package lite

import (
	"slices"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	selcss "github.com/ericchiang/css"
	"golang.org/x/net/html"

	"imhtml/pkg/engine"
)

// userAgentCSS is the default stylesheet every document starts from.
const userAgentCSS = `
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, dl, dt, dd, pre,
blockquote, section, article, header, footer, nav, main, aside, address,
figure, figcaption, form, fieldset, table, tr, hr, center, details, summary {
	display: block;
}
head, script, style, title, meta, link, base, template, noscript { display: none; }
li { display: list-item; }
body { margin: 8px; }
p, pre, ul, ol, dl, blockquote, figure { margin: 1em 0; }
h1 { font-size: 2em; margin: 0.67em 0; font-weight: bold; }
h2 { font-size: 1.5em; margin: 0.83em 0; font-weight: bold; }
h3 { font-size: 1.17em; margin: 1em 0; font-weight: bold; }
h4 { margin: 1.33em 0; font-weight: bold; }
h5 { font-size: 0.83em; margin: 1.67em 0; font-weight: bold; }
h6 { font-size: 0.67em; margin: 2.33em 0; font-weight: bold; }
ul, ol { padding-left: 40px; }
ol { list-style-type: decimal; }
ul ul { list-style-type: circle; }
dd { margin-left: 40px; }
blockquote, figure { margin-left: 40px; margin-right: 40px; }
b, strong, th, dt { font-weight: bold; }
i, em, cite, var, dfn, address { font-style: italic; }
u, ins { text-decoration: underline; }
s, strike, del { text-decoration: line-through; }
small { font-size: 0.83em; }
big { font-size: 1.17em; }
pre, code, kbd, samp, tt { font-family: monospace; }
pre { white-space: pre; }
center { text-align: center; }
hr { border-top: 1px solid gray; margin: 0.5em 0; }
a[href] { color: #0000ee; text-decoration: underline; cursor: pointer; }
`

// style holds the computed values of the properties the engine supports.
type style struct {
	display          string
	color            engine.WebColor
	background       engine.WebColor
	backgroundImage  string
	backgroundRepeat string
	borders          engine.Borders
	margin           [4]length
	padding          [4]length
	width, height    length
	fontSize         float32
	fontWeight       int
	fontStyle        engine.FontStyle
	fontFamily       string
	lineHeight       float32
	textAlign        string
	transform        engine.TextTransform
	decoration       engine.TextDecoration
	cursor           string
	listStyle        string
	whiteSpace       string
	overflowHidden   bool
}

// inherit starts a child style from its parent: inherited properties are
// copied and the rest reset to their initial values.
func (s style) inherit() style {
	return style{
		display:    "inline",
		color:      s.color,
		width:      autoLength,
		height:     autoLength,
		fontSize:   s.fontSize,
		fontWeight: s.fontWeight,
		fontStyle:  s.fontStyle,
		fontFamily: s.fontFamily,
		lineHeight: s.lineHeight,
		textAlign:  s.textAlign,
		transform:  s.transform,
		decoration: s.decoration,
		cursor:     s.cursor,
		listStyle:  s.listStyle,
		whiteSpace: s.whiteSpace,
	}
}

// preformatted reports whether whitespace and newlines are kept.
func (s style) preformatted() bool {
	return strings.HasPrefix(s.whiteSpace, "pre")
}

// rootStyle is the style the root element inherits from.
func (d *Document) rootStyle() style {
	return style{
		display:    "block",
		color:      engine.Black,
		width:      autoLength,
		height:     autoLength,
		fontSize:   d.container.DefaultFontSize(),
		fontWeight: 400,
		fontFamily: d.container.DefaultFontName(),
		textAlign:  "left",
		cursor:     "auto",
		listStyle:  "disc",
		whiteSpace: "normal",
	}
}

// matches maps parsed elements to the declarations that apply to them, in
// cascade order.
type matches map[*html.Node][]*css.Declaration

// cascade matches the user agent sheet and the document's sheets against
// the parsed tree. Rules apply in source order; specificity is not sorted.
func (d *Document) cascade(root *html.Node) matches {
	normal := matches{}
	important := matches{}
	d.mediaDependent = false
	for _, text := range append([]string{userAgentCSS}, d.sheets...) {
		sheet, err := parser.Parse(text)
		if err != nil {
			d.log.Debug("skipping stylesheet", "error", err)
			continue
		}
		d.applyRules(root, sheet.Rules, normal, important)
	}

	out := matches{}
	var visit func(*html.Node)
	visit = func(h *html.Node) {
		if h.Type == html.ElementNode {
			decls := slices.Clone(normal[h])
			for _, a := range h.Attr {
				if a.Key != "style" {
					continue
				}
				inline, err := parser.ParseDeclarations(inlineStyle(a.Val))
				if err != nil {
					d.log.Debug("skipping inline style", "tag", h.Data, "error", err)
					continue
				}
				for _, decl := range inline {
					if decl.Important {
						important[h] = append(important[h], decl)
					} else {
						decls = append(decls, decl)
					}
				}
			}
			out[h] = append(decls, important[h]...)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return out
}

// inlineStyle terminates the last declaration of a style attribute. The
// declaration parser drops a final declaration that has no semicolon.
func inlineStyle(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasSuffix(v, ";") {
		v += ";"
	}
	return v
}

func (d *Document) applyRules(root *html.Node, rules []*css.Rule, normal, important matches) {
	for _, rule := range rules {
		if rule.Kind == css.AtRule {
			if strings.TrimPrefix(rule.Name, "@") == "media" {
				d.mediaDependent = true
				if d.mediaMatches(rule.Prelude) {
					d.applyRules(root, rule.Rules, normal, important)
				}
			}
			continue
		}
		sel, err := selcss.Parse(strings.Join(rule.Selectors, ","))
		if err != nil {
			d.log.Debug("skipping rule", "selectors", rule.Selectors, "error", err)
			continue
		}
		for _, h := range sel.Select(root) {
			for _, decl := range rule.Declarations {
				if decl.Important {
					important[h] = append(important[h], decl)
				} else {
					normal[h] = append(normal[h], decl)
				}
			}
		}
	}
}

// mediaMatches evaluates a media query list against the container's media
// features. It understands media types and min/max width and height.
func (d *Document) mediaMatches(prelude string) bool {
	for _, query := range strings.Split(prelude, ",") {
		if d.queryMatches(strings.ToLower(strings.TrimSpace(query))) {
			return true
		}
	}
	return false
}

func (d *Document) queryMatches(query string) bool {
	if query == "" {
		return true
	}
	lp := lengthParser{em: d.rootFontSize, rem: d.rootFontSize, ptToPx: d.container.PtToPx}
	negate := false
	for _, part := range strings.Split(query, " and ") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "not ") {
			negate = true
			part = strings.TrimSpace(strings.TrimPrefix(part, "not "))
		}
		part = strings.TrimPrefix(part, "only ")
		if !strings.HasPrefix(part, "(") {
			switch part {
			case "all":
			case "screen":
				if d.media.Type != engine.MediaScreen && d.media.Type != engine.MediaAll {
					return negate
				}
			case "print":
				if d.media.Type != engine.MediaPrint {
					return negate
				}
			default:
				return negate
			}
			continue
		}
		name, value, ok := strings.Cut(strings.Trim(part, "()"), ":")
		if !ok {
			continue
		}
		px, ok := lp.px(value)
		if !ok {
			continue
		}
		var pass bool
		switch strings.TrimSpace(name) {
		case "min-width":
			pass = d.media.Width >= px
		case "max-width":
			pass = d.media.Width <= px
		case "min-height":
			pass = d.media.Height >= px
		case "max-height":
			pass = d.media.Height <= px
		default:
			pass = true
		}
		if !pass {
			return negate
		}
	}
	return !negate
}

var fontSizeKeywords = map[string]float32{
	"xx-small": 9.0 / 16,
	"x-small":  10.0 / 16,
	"small":    13.0 / 16,
	"medium":   1,
	"large":    18.0 / 16,
	"x-large":  24.0 / 16,
	"xx-large": 32.0 / 16,
}

// fontSize resolves a font-size value against the parent size.
func (d *Document) fontSize(v string, parent float32) (float32, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if k, ok := fontSizeKeywords[v]; ok {
		return k * d.container.DefaultFontSize(), true
	}
	switch v {
	case "larger":
		return parent * 1.2, true
	case "smaller":
		return parent / 1.2, true
	}
	lp := lengthParser{em: parent, rem: d.rootFontSize, ptToPx: d.container.PtToPx}
	l, ok := lp.parse(v)
	if !ok || l.auto {
		return 0, false
	}
	return l.resolve(parent), true
}

// borderSide accumulates one side's border declarations.
type borderSide struct {
	width    float32
	style    string
	color    engine.WebColor
	colorSet bool
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// computeStyle applies decls on top of the style inherited from parent.
func (d *Document) computeStyle(parent style, decls []*css.Declaration) style {
	s := parent.inherit()
	for _, decl := range decls {
		if strings.ToLower(decl.Property) == "font-size" {
			if size, ok := d.fontSize(decl.Value, parent.fontSize); ok {
				s.fontSize = size
			}
		}
	}
	for _, decl := range decls {
		if strings.ToLower(decl.Property) == "color" {
			if c, ok := parseColor(decl.Value); ok {
				s.color = c
			}
		}
	}

	lp := lengthParser{em: s.fontSize, rem: d.rootFontSize, ptToPx: d.container.PtToPx}
	sides := [4]borderSide{{width: 3, style: "none"}, {width: 3, style: "none"}, {width: 3, style: "none"}, {width: 3, style: "none"}}
	for _, decl := range decls {
		d.applyDeclaration(&s, &sides, lp, strings.ToLower(decl.Property), strings.TrimSpace(decl.Value))
	}

	out := [4]*engine.Border{&s.borders.Top, &s.borders.Right, &s.borders.Bottom, &s.borders.Left}
	for i, side := range sides {
		b := engine.Border{Width: side.width, Style: side.style, Color: side.color}
		if !side.colorSet {
			b.Color = s.color
		}
		if side.style == "none" || side.style == "hidden" {
			b.Width = 0
		}
		*out[i] = b
	}
	return s
}

var sideNames = [4]string{"top", "right", "bottom", "left"}

func sideIndex(name string) int {
	for i, s := range sideNames {
		if s == name {
			return i
		}
	}
	return -1
}

func (d *Document) applyDeclaration(s *style, sides *[4]borderSide, lp lengthParser, prop, value string) {
	lower := strings.ToLower(value)
	if lower == "inherit" || lower == "initial" || lower == "unset" {
		return
	}
	switch prop {
	case "display":
		switch lower {
		case "inline", "inline-block", "inline-flex":
			s.display = "inline"
		case "none", "list-item":
			s.display = lower
		default:
			s.display = "block"
		}
	case "background-color":
		if c, ok := parseColor(value); ok {
			s.background = c
		}
	case "background-image":
		s.backgroundImage = cssURL(value)
	case "background-repeat":
		s.backgroundRepeat = lower
	case "background":
		for _, tok := range splitTokens(value) {
			if u := cssURL(tok); u != "" {
				s.backgroundImage = u
			} else if c, ok := parseColor(tok); ok {
				s.background = c
			} else if strings.Contains(tok, "repeat") {
				s.backgroundRepeat = strings.ToLower(tok)
			}
		}
	case "border":
		for i := range sides {
			applyBorder(&sides[i], lp, value)
		}
	case "border-width", "border-style", "border-color":
		for i, v := range boxValues(value) {
			applyBorderPart(&sides[i], lp, strings.TrimPrefix(prop, "border-"), v)
		}
	case "margin", "padding":
		target := &s.margin
		if prop == "padding" {
			target = &s.padding
		}
		for i, v := range boxValues(value) {
			if l, ok := lp.parse(v); ok {
				target[i] = l
			}
		}
	case "width":
		if l, ok := lp.parse(value); ok {
			s.width = l
		}
	case "height":
		if l, ok := lp.parse(value); ok {
			s.height = l
		}
	case "font-weight":
		switch lower {
		case "normal":
			s.fontWeight = 400
		case "bold", "bolder":
			s.fontWeight = 700
		case "lighter":
			s.fontWeight = 300
		default:
			if w, err := strconv.Atoi(lower); err == nil {
				s.fontWeight = w
			}
		}
	case "font-style":
		if lower == "italic" || lower == "oblique" {
			s.fontStyle = engine.FontStyleItalic
		} else if lower == "normal" {
			s.fontStyle = engine.FontStyleNormal
		}
	case "font-family":
		s.fontFamily = strings.Trim(strings.TrimSpace(strings.Split(value, ",")[0]), `"'`)
	case "line-height":
		if lower == "normal" {
			s.lineHeight = 0
		} else if f, err := strconv.ParseFloat(lower, 32); err == nil {
			s.lineHeight = float32(f)
		} else if l, ok := lp.parse(value); ok && !l.auto && s.fontSize > 0 {
			s.lineHeight = l.resolve(s.fontSize) / s.fontSize
		}
	case "text-align":
		s.textAlign = lower
	case "text-transform":
		switch lower {
		case "capitalize":
			s.transform = engine.TransformCapitalize
		case "uppercase":
			s.transform = engine.TransformUppercase
		case "lowercase":
			s.transform = engine.TransformLowercase
		default:
			s.transform = engine.TransformNone
		}
	case "text-decoration", "text-decoration-line":
		s.decoration = engine.DecorationNone
		for _, tok := range strings.Fields(lower) {
			switch tok {
			case "underline":
				s.decoration |= engine.DecorationUnderline
			case "overline":
				s.decoration |= engine.DecorationOverline
			case "line-through":
				s.decoration |= engine.DecorationLineThrough
			}
		}
	case "cursor":
		s.cursor = lower
	case "list-style-type":
		s.listStyle = lower
	case "list-style":
		for _, tok := range strings.Fields(lower) {
			if cssURL(tok) == "" && tok != "inside" && tok != "outside" {
				s.listStyle = tok
			}
		}
	case "white-space":
		s.whiteSpace = lower
	case "overflow":
		s.overflowHidden = lower == "hidden" || lower == "scroll" || lower == "auto" || lower == "clip"
	default:
		if rest, ok := strings.CutPrefix(prop, "margin-"); ok {
			if i := sideIndex(rest); i >= 0 {
				if l, ok := lp.parse(value); ok {
					s.margin[i] = l
				}
			}
		} else if rest, ok := strings.CutPrefix(prop, "padding-"); ok {
			if i := sideIndex(rest); i >= 0 {
				if l, ok := lp.parse(value); ok {
					s.padding[i] = l
				}
			}
		} else if rest, ok := strings.CutPrefix(prop, "border-"); ok {
			side, part, hasPart := strings.Cut(rest, "-")
			if i := sideIndex(side); i >= 0 {
				if hasPart {
					applyBorderPart(&sides[i], lp, part, value)
				} else {
					applyBorder(&sides[i], lp, value)
				}
			}
		}
	}
}

// applyBorder applies a border shorthand such as "1px solid red".
func applyBorder(side *borderSide, lp lengthParser, value string) {
	*side = borderSide{width: 3, style: "none"}
	for _, tok := range splitTokens(value) {
		lower := strings.ToLower(tok)
		switch {
		case borderStyles[lower]:
			side.style = lower
		default:
			if px, ok := lp.px(tok); ok {
				side.width = px
			} else if c, ok := parseColor(tok); ok {
				side.color = c
				side.colorSet = true
			}
		}
	}
}

func applyBorderPart(side *borderSide, lp lengthParser, part, value string) {
	switch part {
	case "width":
		if px, ok := lp.px(value); ok {
			side.width = px
		}
	case "style":
		if lower := strings.ToLower(value); borderStyles[lower] {
			side.style = lower
		}
	case "color":
		if c, ok := parseColor(value); ok {
			side.color = c
			side.colorSet = true
		}
	}
}

// splitTokens splits a value on whitespace outside parentheses so that
// "rgb(1, 2, 3) url(a b.png)" stays two tokens.
func splitTokens(v string) []string {
	var out []string
	depth := 0
	start := -1
	for i, r := range v {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			if start >= 0 {
				out = append(out, v[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, v[start:])
	}
	return out
}
