package backend

import (
	"imhtml/pkg/config"
	"imhtml/pkg/engine"
)

// Font handles pack a style slot and a pixel size into one integer so the
// engine's opaque handle can be decoded without a lookup table:
//
//	bits 16..17  config.FontStyle
//	bits  0..15  pixel size
//
// Nothing is allocated per handle, so deleting one is a no-op.
const (
	fontSizeBits = 16
	fontSizeMask = 1<<fontSizeBits - 1
	maxFontSize  = fontSizeMask
)

// EncodeFont packs style and size into a handle. size is clamped to
// [1, 65535].
func EncodeFont(style config.FontStyle, size int) engine.FontHandle {
	if size < 1 {
		size = 1
	} else if size > maxFontSize {
		size = maxFontSize
	}
	if !style.Valid() {
		style = config.Regular
	}
	return engine.FontHandle(uintptr(style)<<fontSizeBits | uintptr(size))
}

// DecodeFont unpacks a handle made by EncodeFont.
func DecodeFont(h engine.FontHandle) (config.FontStyle, int) {
	style := config.FontStyle(h >> fontSizeBits)
	if !style.Valid() {
		style = config.Regular
	}
	return style, int(h & fontSizeMask)
}

// fontStyleFor maps a requested weight and style onto a slot: weight above
// 400 is bold, italic is italic, both is bold-italic.
func fontStyleFor(weight int, style engine.FontStyle) config.FontStyle {
	bold := weight > 400
	italic := style == engine.FontStyleItalic
	switch {
	case bold && italic:
		return config.BoldItalic
	case bold:
		return config.Bold
	case italic:
		return config.Italic
	}
	return config.Regular
}
