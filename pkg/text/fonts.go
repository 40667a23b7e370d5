// Package text loads the fonts canvases are drawn with and measures text in
// them.
package text

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"imhtml/pkg/config"
)

// FontConfig holds paths to font files, one per style slot. An empty path
// selects the bundled Go font for that slot.
type FontConfig struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// FromFile returns the font paths of a settings file.
func FromFile(f config.FontFiles) FontConfig {
	return FontConfig{
		Regular:    f.Regular,
		Bold:       f.Bold,
		Italic:     f.Italic,
		BoldItalic: f.BoldItalic,
	}
}

// FontPath returns the font path for a style slot. Missing italic faces fall
// back to the upright face of the same weight, and missing bold faces to
// regular.
func (fc FontConfig) FontPath(style config.FontStyle) string {
	switch style {
	case config.BoldItalic:
		if fc.BoldItalic != "" {
			return fc.BoldItalic
		}
		return fc.FontPath(config.Bold)
	case config.Bold:
		if fc.Bold != "" {
			return fc.Bold
		}
	case config.Italic:
		if fc.Italic != "" {
			return fc.Italic
		}
	}
	return fc.Regular
}

var bundled = [...][]byte{
	config.Regular:    goregular.TTF,
	config.Bold:       gobold.TTF,
	config.Italic:     goitalic.TTF,
	config.BoldItalic: gobolditalic.TTF,
}

// Fonts are parsed faces indexed by style slot.
type Fonts [4]*truetype.Font

// Bundled returns the Go fonts.
func Bundled() Fonts {
	fonts, err := FontConfig{}.Load()
	if err != nil {
		// The embedded fonts always parse.
		panic(err)
	}
	return fonts
}

// Load reads and parses every slot's font file.
func (fc FontConfig) Load() (Fonts, error) {
	var fonts Fonts
	for style := config.Regular; style <= config.BoldItalic; style++ {
		path := fc.FontPath(style)
		data := bundled[style]
		if path != "" {
			var err error
			if data, err = os.ReadFile(path); err != nil {
				return fonts, fmt.Errorf("loading %s font: %w", style, err)
			}
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return fonts, fmt.Errorf("parsing %s font %q: %w", style, path, err)
		}
		fonts[style] = f
	}
	return fonts, nil
}

// Font returns the face for a style slot.
func (f Fonts) Font(style config.FontStyle) *truetype.Font {
	if !style.Valid() {
		style = config.Regular
	}
	return f[style]
}

// Install sets the four font slots of c.
func (f Fonts) Install(c *config.Config) {
	c.FontRegular = f[config.Regular]
	c.FontBold = f[config.Bold]
	c.FontItalic = f[config.Italic]
	c.FontBoldItalic = f[config.BoldItalic]
}

type faceKey struct {
	font *truetype.Font
	size float64
}

// FaceCache hands out sized faces of parsed fonts. Faces are created once
// per font and size and kept for the cache's lifetime.
type FaceCache struct {
	mu       sync.Mutex
	fallback *truetype.Font
	faces    map[faceKey]font.Face
}

// NewFaceCache returns a cache that substitutes fallback for nil fonts.
func NewFaceCache(fallback *truetype.Font) *FaceCache {
	return &FaceCache{fallback: fallback, faces: map[faceKey]font.Face{}}
}

// Face returns f at size pixels.
func (c *FaceCache) Face(f *truetype.Font, size float64) font.Face {
	if f == nil {
		f = c.fallback
	}
	if size <= 0 {
		size = 1
	}
	key := faceKey{font: f, size: size}

	c.mu.Lock()
	defer c.mu.Unlock()
	if face, ok := c.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
	c.faces[key] = face
	return face
}

// Measure returns the advance width and line height of s in face.
func Measure(face font.Face, s string) (width, height float64) {
	adv := font.MeasureString(face, s)
	return float64(adv) / 64, float64(face.Metrics().Height) / 64
}

// Ascent is the distance from the top of a line to the baseline.
func Ascent(face font.Face) float64 {
	return float64(face.Metrics().Ascent) / 64
}
