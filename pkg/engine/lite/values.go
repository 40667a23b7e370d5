package lite

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"imhtml/pkg/engine"
)

// parseColor parses a CSS colour: hex forms, rgb()/rgba(), hsl()/hsla(),
// named colours and "transparent".
func parseColor(v string) (engine.WebColor, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "":
		return engine.WebColor{}, false
	case v == "transparent":
		return engine.WebColor{}, true
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v)
	case strings.HasPrefix(v, "rgb"):
		return parseRGBFunc(v)
	case strings.HasPrefix(v, "hsl"):
		return parseHSLFunc(v)
	}
	if c, ok := colornames.Map[v]; ok {
		return engine.WebColor{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return engine.WebColor{}, false
}

func parseHexColor(v string) (engine.WebColor, bool) {
	hex := strings.TrimPrefix(v, "#")
	alpha := uint8(255)
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return engine.WebColor{}, false
	}
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return engine.WebColor{}, false
		}
		alpha = uint8(a)
		hex = hex[:6]
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return engine.WebColor{}, false
	}
	r, g, b := c.RGB255()
	return engine.WebColor{R: r, G: g, B: b, A: alpha}, true
}

// funcArgs splits "name(a, b c / d)" into its arguments.
func funcArgs(v string) ([]string, bool) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return nil, false
	}
	inner := v[open+1 : len(v)-1]
	return strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == '\t'
	}), true
}

func parseAlpha(s string) (uint8, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return uint8(clamp(f/100, 0, 1)*255 + 0.5), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return uint8(clamp(f, 0, 1)*255 + 0.5), true
}

func parseRGBFunc(v string) (engine.WebColor, bool) {
	args, ok := funcArgs(v)
	if !ok || len(args) < 3 {
		return engine.WebColor{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		s := args[i]
		var f float64
		var err error
		if strings.HasSuffix(s, "%") {
			f, err = strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			f = f * 255 / 100
		} else {
			f, err = strconv.ParseFloat(s, 64)
		}
		if err != nil {
			return engine.WebColor{}, false
		}
		ch[i] = uint8(clamp(f, 0, 255) + 0.5)
	}
	a := uint8(255)
	if len(args) > 3 {
		if a, ok = parseAlpha(args[3]); !ok {
			return engine.WebColor{}, false
		}
	}
	return engine.WebColor{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}

func parseHSLFunc(v string) (engine.WebColor, bool) {
	args, ok := funcArgs(v)
	if !ok || len(args) < 3 {
		return engine.WebColor{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return engine.WebColor{}, false
	}
	s, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
	if err != nil {
		return engine.WebColor{}, false
	}
	l, err := strconv.ParseFloat(strings.TrimSuffix(args[2], "%"), 64)
	if err != nil {
		return engine.WebColor{}, false
	}
	c := colorful.Hsl(h, clamp(s/100, 0, 1), clamp(l/100, 0, 1)).Clamped()
	r, g, b := c.RGB255()
	a := uint8(255)
	if len(args) > 3 {
		if a, ok = parseAlpha(args[3]); !ok {
			return engine.WebColor{}, false
		}
	}
	return engine.WebColor{R: r, G: g, B: b, A: a}, true
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// length is a CSS length that may still depend on the containing block.
type length struct {
	value   float32
	percent bool
	auto    bool
}

var autoLength = length{auto: true}

// resolve returns the length in pixels against a containing size.
func (l length) resolve(base float32) float32 {
	if l.auto {
		return 0
	}
	if l.percent {
		return l.value * base / 100
	}
	return l.value
}

// lengthParser converts CSS lengths to pixels. em is the font size the em
// unit refers to and rem the root font size.
type lengthParser struct {
	em     float32
	rem    float32
	ptToPx func(float32) float32
}

func (p lengthParser) parse(v string) (length, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "":
		return length{}, false
	case "auto":
		return autoLength, true
	case "0":
		return length{}, true
	case "thin":
		return length{value: 1}, true
	case "medium":
		return length{value: 3}, true
	case "thick":
		return length{value: 5}, true
	}

	num := v
	unit := ""
	for i := len(v) - 1; i >= 0; i-- {
		c := v[i]
		if (c >= '0' && c <= '9') || c == '.' {
			num, unit = v[:i+1], v[i+1:]
			break
		}
	}
	f, err := strconv.ParseFloat(num, 32)
	if err != nil {
		return length{}, false
	}
	x := float32(f)
	switch unit {
	case "", "px":
		return length{value: x}, true
	case "em":
		return length{value: x * p.em}, true
	case "rem":
		return length{value: x * p.rem}, true
	case "ex":
		return length{value: x * p.em / 2}, true
	case "pt":
		if p.ptToPx != nil {
			return length{value: p.ptToPx(x)}, true
		}
		return length{value: x}, true
	case "pc":
		return length{value: x * 16}, true
	case "in":
		return length{value: x * 96}, true
	case "cm":
		return length{value: x * 96 / 2.54}, true
	case "mm":
		return length{value: x * 96 / 25.4}, true
	case "%":
		return length{value: x, percent: true}, true
	}
	return length{}, false
}

// px parses a length that cannot be a percentage.
func (p lengthParser) px(v string) (float32, bool) {
	l, ok := p.parse(v)
	if !ok || l.percent || l.auto {
		return 0, false
	}
	return l.value, true
}

// boxValues expands the 1-4 value shorthand of margin, padding and friends
// into top, right, bottom, left.
func boxValues(v string) [4]string {
	parts := strings.Fields(v)
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}
	case 4:
		return [4]string{parts[0], parts[1], parts[2], parts[3]}
	}
	return [4]string{}
}

// cssURL extracts the target of url(...) or returns "" when v is not one.
func cssURL(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(strings.ToLower(v), "url(") || !strings.HasSuffix(v, ")") {
		return ""
	}
	inner := strings.TrimSpace(v[4 : len(v)-1])
	return strings.Trim(inner, `"'`)
}
