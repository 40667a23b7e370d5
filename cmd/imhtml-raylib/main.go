// Command imhtml-raylib shows an HTML page in a raylib window.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"imhtml/pkg/canvas"
	"imhtml/pkg/config"
	"imhtml/pkg/engine/lite"
	"imhtml/pkg/gui/rlgui"
	"imhtml/pkg/host"
)

const canvasID = "page"

func main() {
	settingsPath := flag.String("config", "", "TOML settings file")
	flag.Parse()

	settings := config.DefaultFile()
	if *settingsPath != "" {
		var err error
		if settings, err = config.LoadFile(*settingsPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	start := settings.Start
	if flag.NArg() > 0 {
		start = flag.Arg(0)
	}
	if start == "" {
		fmt.Fprintf(os.Stderr, "Usage: imhtml-raylib [-config settings.toml] <page.html>\n")
		os.Exit(1)
	}
	log := slog.Default().With("component", "viewer")

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(settings.Window.Width), int32(settings.Window.Height), settings.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	h := host.New(settings, rlgui.Upload)
	rlgui.LoadFonts(settings.Fonts, int32(settings.BaseFontSize*2), h.Store.Base())

	html, err := h.Open(context.Background(), start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ui := rlgui.New()
	cache := canvas.NewCache(ui, lite.New(), canvas.Options{Config: h.Store})
	defer cache.Close()

	title := settings.Window.Title
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyBackspace) {
			if s, ok := cache.Session(canvasID); ok {
				s.GoBack()
			}
		}
		if rl.IsKeyPressed(rl.KeyF5) {
			if next, err := h.Reload(context.Background()); err == nil {
				html = next
			} else {
				log.Warn("reload failed", "err", err)
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)
		ui.NewFrame()
		url, clicked := cache.Render(canvasID, html, settings.Width)
		rl.EndDrawing()

		if s, ok := cache.Session(canvasID); ok {
			if s.CurrentURL() != h.Page() {
				s.SetCurrentURL(h.Page())
			}
			if t := s.Title(); t != "" && t != title {
				title = t
				rl.SetWindowTitle(t)
			}
		}
		if clicked {
			next, err := h.Open(context.Background(), url)
			if err != nil {
				log.Warn("open failed", "url", url, "err", err)
				continue
			}
			html = next
		}
	}
}
