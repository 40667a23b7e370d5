// Command imhtml is a desktop viewer for local HTML help pages. It drives a
// canvas every frame inside a fyne window and reloads the page when it
// changes on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/fsnotify/fsnotify"

	"imhtml/pkg/canvas"
	"imhtml/pkg/config"
	"imhtml/pkg/custom"
	"imhtml/pkg/engine/lite"
	"imhtml/pkg/gui"
	"imhtml/pkg/gui/raster"
	"imhtml/pkg/host"
	"imhtml/pkg/text"
)

const canvasID = "page"

type viewer struct {
	host   *host.Host
	ui     *raster.Context
	cache  *canvas.Cache
	view   *view
	html   string
	status *widget.Label
	window fyne.Window
	watch  *fsnotify.Watcher
	log    *slog.Logger
}

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
		fmt.Fprintf(os.Stderr, "Usage: imhtml [-config settings.toml] <page.html>\n")
		os.Exit(1)
	}

	fonts, err := text.FromFile(settings.Fonts).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fonts: %v\n", err)
		os.Exit(1)
	}

	h := host.New(settings, raster.Upload)
	fonts.Install(h.Store.Base())
	ui := raster.New(settings.Window.Width, settings.Window.Height)
	v := &viewer{
		host:   h,
		ui:     ui,
		cache:  canvas.NewCache(ui, lite.New(), canvas.Options{Config: h.Store}),
		status: widget.NewLabel(""),
		log:    slog.Default().With("component", "viewer"),
	}
	defer v.cache.Close()
	custom.Register("key-cap", v.drawKeyCap)

	a := app.New()
	v.window = a.NewWindow(settings.Window.Title)
	v.window.Resize(fyne.NewSize(float32(settings.Window.Width), float32(settings.Window.Height)))
	v.view = newView(ui)

	back := widget.NewButton("Back", func() {
		if s, ok := v.cache.Session(canvasID); ok {
			s.GoBack()
		}
	})
	reload := widget.NewButton("Reload", v.reload)
	top := container.NewHBox(back, reload)
	v.window.SetContent(container.NewBorder(top, v.status, nil, nil, v.view))

	if v.watch, err = fsnotify.NewWatcher(); err != nil {
		v.log.Warn("file watching disabled", "err", err)
	} else {
		defer v.watch.Close()
		go v.watchLoop()
	}
	v.open(start)

	go func() {
		ticker := time.NewTicker(time.Second / 30)
		defer ticker.Stop()
		for range ticker.C {
			fyne.Do(v.frame)
		}
	}()

	v.window.ShowAndRun()
}

// frame renders one immediate-mode frame into the view.
func (v *viewer) frame() {
	v.view.sync()
	v.ui.NewFrame(color.White)
	url, clicked := v.cache.Render(canvasID, v.html, v.host.Settings.Width)
	v.ui.EndFrame()
	v.view.present()

	if s, ok := v.cache.Session(canvasID); ok {
		page := v.host.Page()
		if s.CurrentURL() != page {
			s.SetCurrentURL(page)
		}
		title := s.Title()
		if title == "" {
			title = filepath.Base(page)
		}
		if title != v.window.Title() {
			v.window.SetTitle(title)
		}
	}
	if clicked {
		v.open(url)
	}
}

func (v *viewer) open(ref string) {
	html, err := v.host.Open(context.Background(), ref)
	if err != nil {
		v.status.SetText(err.Error())
		v.log.Warn("open failed", "ref", ref, "err", err)
		return
	}
	v.html = html
	v.status.SetText(v.host.Page())
	v.watchPage()
}

func (v *viewer) reload() {
	html, err := v.host.Reload(context.Background())
	if err != nil {
		v.status.SetText(err.Error())
		return
	}
	v.html = html
	v.status.SetText(v.host.Page())
}

// watchPage watches the directory of a local page so edits to it or its
// stylesheets and images trigger a reload.
func (v *viewer) watchPage() {
	page := v.host.Page()
	if v.watch == nil || page == "" {
		return
	}
	if err := v.watch.Add(filepath.Dir(page)); err != nil {
		v.log.Warn("watch failed", "dir", filepath.Dir(page), "err", err)
	}
}

func (v *viewer) watchLoop() {
	w := v.watch
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				v.log.Debug("file changed", "name", ev.Name)
				fyne.Do(v.reload)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			v.log.Warn("watcher error", "err", err)
		}
	}
}

// drawKeyCap paints <key-cap label="Ctrl"> as a keyboard key.
func (v *viewer) drawKeyCap(bounds gui.Rect, attrs map[string]string) {
	dl := v.ui.DrawList()
	dl.AddRectFilled(bounds.Min, bounds.Max, gui.RGBA(0xe8, 0xe8, 0xe8, 0xff))
	bottom := gui.Vec2{X: bounds.Max.X, Y: bounds.Max.Y - 1}
	dl.AddLine(gui.Vec2{X: bounds.Min.X, Y: bottom.Y}, bottom, gui.RGBA(0x99, 0x99, 0x99, 0xff), 2)

	label := attrs["label"]
	size := v.ui.CalcTextSize(label)
	pos := gui.Vec2{
		X: bounds.Min.X + (bounds.Width()-size.X)/2,
		Y: bounds.Min.Y + (bounds.Height()-size.Y)/2,
	}
	dl.AddText(pos, gui.RGBA(0x20, 0x20, 0x20, 0xff), label)
}
