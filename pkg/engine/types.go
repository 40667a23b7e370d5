package engine

// Position is a box in document pixels, relative to the document origin.
type Position struct {
	X, Y, Width, Height float32
}

// Right returns X+Width.
func (p Position) Right() float32 { return p.X + p.Width }

// Bottom returns Y+Height.
func (p Position) Bottom() float32 { return p.Y + p.Height }

// Contains reports whether (x, y) lies inside the box.
func (p Position) Contains(x, y float32) bool {
	return x >= p.X && y >= p.Y && x < p.Right() && y < p.Bottom()
}

// Empty reports whether the box has no area.
func (p Position) Empty() bool { return p.Width <= 0 || p.Height <= 0 }

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float32
}

// WebColor is a straight (not premultiplied) RGBA colour.
type WebColor struct {
	R, G, B, A uint8
}

// Transparent reports whether the colour has zero alpha.
func (c WebColor) Transparent() bool { return c.A == 0 }

var (
	Black = WebColor{0, 0, 0, 255}
	White = WebColor{255, 255, 255, 255}
)

// FontHandle is an opaque font reference minted by Container.CreateFont.
type FontHandle uintptr

// FontStyle is the CSS font-style of a requested font.
type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// TextDecoration is a bit set of CSS text-decoration lines.
type TextDecoration uint

const (
	DecorationNone        TextDecoration = 0
	DecorationUnderline   TextDecoration = 1 << 0
	DecorationOverline    TextDecoration = 1 << 1
	DecorationLineThrough TextDecoration = 1 << 2
)

// FontMetrics are the vertical metrics reported for a created font.
type FontMetrics struct {
	Height  float32
	Ascent  float32
	Descent float32
	XHeight float32
}

// TextTransform is the CSS text-transform applied to a text run.
type TextTransform int

const (
	TransformNone TextTransform = iota
	TransformCapitalize
	TransformUppercase
	TransformLowercase
)

// Border is one side of a box border.
type Border struct {
	Width float32
	Style string
	Color WebColor
}

// Borders are the four sides of a box border.
type Borders struct {
	Top, Right, Bottom, Left Border
}

// Any reports whether at least one side has a visible width.
func (b Borders) Any() bool {
	return b.Top.Width > 0 || b.Right.Width > 0 || b.Bottom.Width > 0 || b.Left.Width > 0
}

// BorderRadiuses are corner radii of a clip rectangle.
type BorderRadiuses struct {
	TopLeft, TopRight, BottomRight, BottomLeft float32
}

// BackgroundPaint is one background layer of a box.
type BackgroundPaint struct {
	Color     WebColor
	Image     string
	BaseURL   string
	BorderBox Position
	ClipBox   Position
	OriginBox Position
	ImageSize Size
	Repeat    string
	IsRoot    bool
}

// ListMarker is a list-item bullet.
type ListMarker struct {
	Image   string
	BaseURL string
	Type    string
	Color   WebColor
	Pos     Position
	Font    FontHandle
}

// MediaType is the CSS media type the document is laid out for.
type MediaType int

const (
	MediaNone MediaType = iota
	MediaAll
	MediaScreen
	MediaPrint
)

// MediaFeatures are the values @media queries are evaluated against.
type MediaFeatures struct {
	Type         MediaType
	Width        float32
	Height       float32
	DeviceWidth  float32
	DeviceHeight float32
	Color        int
	ColorIndex   int
	Monochrome   int
	Resolution   int
}
