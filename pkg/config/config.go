// Package config holds the settings every canvas consults: fonts, base font
// size, and the host's image and stylesheet loader callbacks.
//
// Settings live in a Store made of a base value and an explicit push/pop
// stack. Stores carry no locks; use them from the GUI thread only.
package config

import (
	"imhtml/pkg/gui"
	"imhtml/pkg/resource"
)

// FontStyle selects one of the four font slots of a Config.
type FontStyle uint8

const (
	Regular FontStyle = iota
	Bold
	Italic
	BoldItalic
)

func (s FontStyle) String() string {
	switch s {
	case Regular:
		return "Regular"
	case Bold:
		return "Bold"
	case Italic:
		return "Italic"
	case BoldItalic:
		return "BoldItalic"
	}
	return "FontStyle(?)"
}

// Valid reports whether s is one of the four defined styles.
func (s FontStyle) Valid() bool { return s <= BoldItalic }

// ImageMeta is the intrinsic size of an image.
type ImageMeta struct {
	Width  int
	Height int
}

// Config is one set of canvas settings. Any callback may be nil, which
// disables the feature it backs.
type Config struct {
	BaseFontSize float32

	FontRegular    gui.Font
	FontBold       gui.Font
	FontItalic     gui.Font
	FontBoldItalic gui.Font

	// LoadImage asks the host to start loading an image.
	LoadImage func(src, baseURL string)
	// GetImageMeta returns the intrinsic size of a loaded image.
	GetImageMeta func(src, baseURL string) ImageMeta
	// GetImageTexture returns a drawable texture for a loaded image.
	GetImageTexture func(src, baseURL string) gui.TextureID
	// LoadCSS returns the text of an external stylesheet.
	LoadCSS func(url, baseURL string) string
}

// DefaultBaseFontSize is the base font size of a new default Config.
const DefaultBaseFontSize = 16

// New returns the default settings: a 16px base font and the local file
// stylesheet loader.
func New() Config {
	return Config{
		BaseFontSize: DefaultBaseFontSize,
		LoadCSS:      resource.FileLoader,
	}
}

// Font returns the font for a style slot. A nil result means the GUI's
// default font.
func (c Config) Font(style FontStyle) gui.Font {
	switch style {
	case Bold:
		return c.FontBold
	case Italic:
		return c.FontItalic
	case BoldItalic:
		return c.FontBoldItalic
	default:
		return c.FontRegular
	}
}

// Store is a base Config plus a stack of pushed overrides.
type Store struct {
	base  Config
	stack []Config
}

// NewStore returns a store whose base is c.
func NewStore(c Config) *Store {
	return &Store{base: c}
}

// Current returns the most recently pushed Config, or the base when nothing
// is pushed.
func (s *Store) Current() Config {
	if len(s.stack) == 0 {
		return s.base
	}
	return s.stack[len(s.stack)-1]
}

// Base returns the base Config for in-place modification.
func (s *Store) Base() *Config { return &s.base }

// Set replaces the base Config.
func (s *Store) Set(c Config) { s.base = c }

// Push makes c current until the matching Pop.
func (s *Store) Push(c Config) { s.stack = append(s.stack, c) }

// Pop restores the Config that was current before the last Push. Popping an
// empty stack means Push and Pop calls are mismatched, and panics.
func (s *Store) Pop() {
	if len(s.stack) == 0 {
		panic("config: Pop without matching Push")
	}
	s.stack[len(s.stack)-1] = Config{}
	s.stack = s.stack[:len(s.stack)-1]
}

// Depth returns the number of pushed configs.
func (s *Store) Depth() int { return len(s.stack) }

// Default is the process-wide store used by the package-level functions.
var Default = NewStore(New())

// Current returns Default.Current().
func Current() Config { return Default.Current() }

// Get returns Default's base config for in-place modification.
func Get() *Config { return Default.Base() }

// Set replaces Default's base config.
func Set(c Config) { Default.Set(c) }

// Push pushes c onto Default.
func Push(c Config) { Default.Push(c) }

// Pop pops Default.
func Pop() { Default.Pop() }
