// Package visualtest renders HTML through a canvas into images and compares
// them, for reftests and golden image tests.
package visualtest

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"imhtml/pkg/canvas"
	"imhtml/pkg/config"
	"imhtml/pkg/custom"
	"imhtml/pkg/engine/lite"
	"imhtml/pkg/gui/raster"
	"imhtml/pkg/host"
	"imhtml/pkg/text"
)

func newHost() *host.Host {
	h := host.New(config.DefaultFile(), raster.Upload)
	text.Bundled().Install(h.Store.Base())
	return h
}

func render(h *host.Host, id, content string, width, height int) image.Image {
	ui := raster.New(width, height)
	cache := canvas.NewCache(ui, lite.New(), canvas.Options{
		Config:   h.Store,
		Registry: custom.NewRegistry(),
		Logger:   slog.New(slog.DiscardHandler),
	})
	defer cache.Close()

	ui.NewFrame(color.White)
	cache.Render(id, content, 0)
	ui.EndFrame()
	return ui.Image()
}

// Render draws content on a white width x height canvas. Relative resources
// resolve against the working directory.
func Render(content string, width, height int) image.Image {
	return render(newHost(), "render", content, width, height)
}

// RenderFile draws the HTML file at path, resolving its stylesheets and
// images next to it.
func RenderFile(path string, width, height int) (image.Image, error) {
	h := newHost()
	content, err := h.Open(context.Background(), path)
	if err != nil {
		return nil, err
	}
	return render(h, path, content, width, height), nil
}

// UpdateReference renders htmlPath and writes the result to referencePath.
// Use it when rendering changed on purpose.
func UpdateReference(htmlPath, referencePath string, width, height int) error {
	img, err := RenderFile(htmlPath, width, height)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(referencePath), 0o755); err != nil {
		return fmt.Errorf("creating reference directory: %w", err)
	}
	return SavePNG(img, referencePath)
}

// ReferencePath is where the golden image of an HTML file lives: a
// reference directory beside it, with a .png extension.
func ReferencePath(htmlPath string) string {
	base := strings.TrimSuffix(filepath.Base(htmlPath), filepath.Ext(htmlPath))
	return filepath.Join(filepath.Dir(htmlPath), "reference", base+".png")
}

// UpdateReferences regenerates the golden image of every HTML file in dir
// and returns the paths written.
func UpdateReferences(dir string, width, height int) ([]string, error) {
	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	var written []string
	for _, page := range pages {
		ref := ReferencePath(page)
		if err := UpdateReference(page, ref, width, height); err != nil {
			return written, fmt.Errorf("updating %s: %w", ref, err)
		}
		written = append(written, ref)
	}
	return written, nil
}

// MatchLink returns the href of a <link rel="match"> element, which names
// the reference page of a reftest.
func MatchLink(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}
	var find func(n *html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, href string
			for _, a := range n.Attr {
				switch a.Key {
				case "rel":
					rel = strings.ToLower(a.Val)
				case "href":
					href = a.Val
				}
			}
			if rel == "match" {
				return href
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if href := find(c); href != "" {
				return href
			}
		}
		return ""
	}
	return find(doc)
}
