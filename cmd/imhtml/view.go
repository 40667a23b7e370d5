package main

import (
	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"imhtml/pkg/gui"
	"imhtml/pkg/gui/raster"
)

// view shows the raster context's image and feeds it pointer input.
type view struct {
	widget.BaseWidget

	ui  *raster.Context
	img *fcanvas.Image

	pos gui.Vec2

	// seen is set once a frame has observed the current press, so a click
	// shorter than a frame still reaches the canvas as a press and release.
	seen      bool
	pendingUp bool
}

var (
	_ desktop.Hoverable  = (*view)(nil)
	_ desktop.Mouseable  = (*view)(nil)
	_ desktop.Cursorable = (*view)(nil)
)

func newView(ui *raster.Context) *view {
	v := &view{ui: ui, img: fcanvas.NewImageFromImage(ui.Image())}
	v.img.ScaleMode = fcanvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *view) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

func (v *view) MinSize() fyne.Size { return fyne.NewSize(200, 150) }

// sync runs before each frame: it matches the raster size to the widget and
// delivers releases that arrived before their press was rendered.
func (v *view) sync() {
	if v.pendingUp && v.seen {
		v.ui.SetMouse(v.pos, false)
		v.pendingUp = false
	}
	v.seen = true

	size := v.Size()
	if size.Width >= 1 && size.Height >= 1 {
		v.ui.Resize(int(size.Width), int(size.Height))
	}
}

func (v *view) present() {
	v.img.Image = v.ui.Image()
	v.img.Refresh()
}

func (v *view) move(p fyne.Position) {
	v.pos = gui.Vec2{X: p.X, Y: p.Y}
	v.ui.SetMouse(v.pos, v.ui.IsMouseDown(gui.MouseLeft))
}

func (v *view) MouseIn(e *desktop.MouseEvent) {
	v.ui.SetHovered(true)
	v.move(e.Position)
}

func (v *view) MouseMoved(e *desktop.MouseEvent) { v.move(e.Position) }

func (v *view) MouseOut() {
	v.ui.SetHovered(false)
	v.ui.SetMouse(gui.Vec2{X: -1, Y: -1}, false)
}

func (v *view) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	v.pos = gui.Vec2{X: e.Position.X, Y: e.Position.Y}
	v.seen = false
	v.ui.SetMouse(v.pos, true)
}

func (v *view) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	v.pos = gui.Vec2{X: e.Position.X, Y: e.Position.Y}
	if !v.seen {
		v.pendingUp = true
		return
	}
	v.ui.SetMouse(v.pos, false)
}

func (v *view) Cursor() desktop.Cursor {
	if v.ui.MouseCursor() == gui.CursorHand {
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}
