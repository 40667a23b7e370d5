package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// File is the on-disk settings of a viewer application.
//
//	base_font_size = 16
//	width = 0
//	start = "index.html"
//
//	[fonts]
//	regular = "fonts/Regular.ttf"
//	bold = "fonts/Bold.ttf"
//
//	[window]
//	width = 1024
//	height = 768
//	title = "imhtml"
type File struct {
	BaseFontSize float32 `toml:"base_font_size"`

	// Width is the canvas width; 0 uses the available width.
	Width  float32    `toml:"width"`
	Start  string     `toml:"start"`
	Fonts  FontFiles  `toml:"fonts"`
	Window WindowFile `toml:"window"`
}

// FontFiles are font file paths per style slot. Empty entries fall back to
// the bundled fonts.
type FontFiles struct {
	Regular    string `toml:"regular"`
	Bold       string `toml:"bold"`
	Italic     string `toml:"italic"`
	BoldItalic string `toml:"bold_italic"`
}

// WindowFile describes the viewer window.
type WindowFile struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// DefaultFile returns the settings used when no file is given.
func DefaultFile() File {
	return File{
		BaseFontSize: DefaultBaseFontSize,
		Window: WindowFile{
			Width:  1024,
			Height: 768,
			Title:  "imhtml",
		},
	}
}

// LoadFile reads TOML settings from path on top of DefaultFile.
func LoadFile(path string) (File, error) {
	f := DefaultFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("reading settings: %w", err)
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if f.BaseFontSize <= 0 {
		f.BaseFontSize = DefaultBaseFontSize
	}
	return f, nil
}

// Apply copies the file's scalar settings into c. Fonts are backend specific
// and are resolved by the caller.
func (f File) Apply(c *Config) {
	if f.BaseFontSize > 0 {
		c.BaseFontSize = f.BaseFontSize
	}
}
