package engine

// Container is the render backend a document calls into to measure text,
// resolve fonts, load resources, paint, and query layout inputs.
//
// Implementations must not fail: missing capabilities degrade to doing
// nothing.
type Container interface {
	CreateFont(faceName string, size int, weight int, style FontStyle, decoration TextDecoration) (FontHandle, FontMetrics)
	DeleteFont(h FontHandle)
	TextWidth(text string, h FontHandle) float32
	DrawText(text string, h FontHandle, color WebColor, pos Position)

	PtToPx(pt float32) float32
	DefaultFontSize() float32
	DefaultFontName() string

	DrawListMarker(marker ListMarker)
	LoadImage(src, baseURL string, redrawOnReady bool)
	ImageSize(src, baseURL string) Size
	DrawBackground(layers []BackgroundPaint)
	DrawBorders(borders Borders, drawPos Position, root bool)

	SetCaption(caption string)
	SetBaseURL(baseURL string)
	// Link is a resource hint for a <link> element.
	Link(doc Document, attrs map[string]string)
	OnAnchorClick(url string)
	SetCursor(cursor string)
	TransformText(text string, tt TextTransform) string
	// ImportCSS returns the text of the stylesheet at url. An empty result
	// means there is no stylesheet.
	ImportCSS(url, baseURL string) string

	SetClip(pos Position, radii BorderRadiuses)
	DelClip()

	ClientRect() Position
	// CreateElement returns an element override for the tag, or nil to use
	// the engine's default element.
	CreateElement(tagName string, attrs map[string]string, doc Document) Element
	MediaFeatures() MediaFeatures
	Language() (language, culture string)
}
