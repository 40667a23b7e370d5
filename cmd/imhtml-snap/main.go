// Command imhtml-snap renders an HTML page through a canvas into a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"

	"imhtml/pkg/canvas"
	"imhtml/pkg/config"
	"imhtml/pkg/custom"
	"imhtml/pkg/engine/lite"
	"imhtml/pkg/gui/raster"
	"imhtml/pkg/host"
	"imhtml/pkg/text"
)

func main() {
	width := flag.Int("w", 800, "image width in pixels")
	height := flag.Int("h", 600, "image height in pixels")
	output := flag.String("o", "output.png", "output PNG file path")
	settingsPath := flag.String("config", "", "TOML settings file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: imhtml-snap [flags] <page.html>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	settings := config.DefaultFile()
	if *settingsPath != "" {
		var err error
		if settings, err = config.LoadFile(*settingsPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	h := host.New(settings, raster.Upload)
	fonts, err := text.FromFile(settings.Fonts).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fonts: %v\n", err)
		os.Exit(1)
	}
	fonts.Install(h.Store.Base())

	html, err := h.Open(context.Background(), flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ui := raster.New(*width, *height)
	cache := canvas.NewCache(ui, lite.New(), canvas.Options{Config: h.Store, Registry: custom.Default})
	defer cache.Close()

	fmt.Fprintf(os.Stderr, "Rendering %dx%d...\n", *width, *height)
	ui.NewFrame(color.White)
	cache.Render(h.Page(), html, settings.Width)
	ui.EndFrame()

	if err := ui.SavePNG(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Saved to %s\n", *output)
}
