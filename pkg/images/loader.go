// Package images implements the host side of document images: it decodes
// the files documents reference, caches them, and turns them into GUI
// textures on demand.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"imhtml/pkg/config"
	"imhtml/pkg/gui"
	"imhtml/pkg/resource"
)

// ErrUnsupported is returned for data that is not a decodable image.
var ErrUnsupported = errors.New("unsupported image format")

// Uploader turns a decoded image into a texture the GUI can draw.
type Uploader func(img image.Image) gui.TextureID

// Cache holds decoded images keyed by resolved path. Failed loads are
// remembered so a missing file is not retried every frame.
type Cache struct {
	mu       sync.RWMutex
	images   map[string]image.Image
	failed   map[string]error
	textures map[string]gui.TextureID
	upload   Uploader
	log      *slog.Logger
}

// NewCache returns an empty cache. upload may be nil, in which case no
// textures are produced.
func NewCache(upload Uploader) *Cache {
	return &Cache{
		images:   map[string]image.Image{},
		failed:   map[string]error{},
		textures: map[string]gui.TextureID{},
		upload:   upload,
		log:      slog.Default().With("component", "images"),
	}
}

// Install points cfg's image callbacks at the cache.
func (c *Cache) Install(cfg *config.Config) {
	cfg.LoadImage = c.Load
	cfg.GetImageMeta = c.Meta
	if c.upload != nil {
		cfg.GetImageTexture = c.Texture
	}
}

func key(src, baseURL string) string {
	if IsDataURI(src) {
		return src
	}
	return resource.ResolvePath(baseURL, src)
}

// Decode returns the image src refers to, decoding it on first use.
func (c *Cache) Decode(src, baseURL string) (image.Image, error) {
	k := key(src, baseURL)
	c.mu.RLock()
	img, ok := c.images[k]
	err := c.failed[k]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}
	if err != nil {
		return nil, err
	}

	if IsDataURI(k) {
		img, err = DecodeDataURI(k)
	} else {
		img, err = decodeFile(k)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failed[k] = err
		return nil, err
	}
	c.images[k] = img
	return img, nil
}

func decodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// decode sniffs the format from the data and decodes it.
func decode(data []byte) (image.Image, error) {
	if !filetype.IsImage(data) {
		return nil, ErrUnsupported
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	switch kind.MIME.Value {
	case "image/webp":
		return webp.Decode(bytes.NewReader(data))
	case "image/bmp":
		return bmp.Decode(bytes.NewReader(data))
	case "image/png", "image/jpeg", "image/gif":
		img, _, err := image.Decode(bytes.NewReader(data))
		return img, err
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind.MIME.Value)
}

// Load is the config.LoadImage callback. It decodes eagerly and logs
// failures.
func (c *Cache) Load(src, baseURL string) {
	if _, err := c.Decode(src, baseURL); err != nil {
		c.log.Warn("failed to load image", "src", src, "err", err)
	}
}

// Meta is the config.GetImageMeta callback. Images that cannot be decoded
// have zero size.
func (c *Cache) Meta(src, baseURL string) config.ImageMeta {
	img, err := c.Decode(src, baseURL)
	if err != nil {
		return config.ImageMeta{}
	}
	b := img.Bounds()
	return config.ImageMeta{Width: b.Dx(), Height: b.Dy()}
}

// Texture is the config.GetImageTexture callback. Each image is uploaded
// once.
func (c *Cache) Texture(src, baseURL string) gui.TextureID {
	if c.upload == nil {
		return nil
	}
	k := key(src, baseURL)
	c.mu.RLock()
	tex, ok := c.textures[k]
	c.mu.RUnlock()
	if ok {
		return tex
	}
	img, err := c.Decode(src, baseURL)
	if err != nil {
		return nil
	}
	tex = c.upload(img)

	c.mu.Lock()
	c.textures[k] = tex
	c.mu.Unlock()
	return tex
}

// Clear forgets every image, texture and failure, so changed files are
// reloaded.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.images)
	clear(c.failed)
	clear(c.textures)
}

// IsDataURI reports whether src is a data: URI.
func IsDataURI(src string) bool {
	return strings.HasPrefix(src, "data:")
}

// DecodeDataURI decodes a base64 or percent-encoded data: URI image.
func DecodeDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("not a data URI: %.20q", uri)
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errors.New("data URI without payload")
	}
	var data []byte
	var err error
	if strings.HasSuffix(header, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return decode(data)
}
