// Package guitest provides a recording gui.Context for tests.
package guitest

import (
	"fmt"
	"image/color"
	"unicode/utf8"

	"imhtml/pkg/gui"
)

// Op names a recorded draw call.
type Op string

const (
	OpRect   Op = "rect"
	OpLine   Op = "line"
	OpCircle Op = "circle"
	OpText   Op = "text"
	OpImage  Op = "image"
)

// Command is one recorded draw call.
type Command struct {
	Op        Op
	Min, Max  gui.Vec2
	Color     color.RGBA
	Thickness float32
	Radius    float32
	Text      string
	Texture   gui.TextureID
	Font      gui.Font
	FontSize  float32
}

// Item is a recorded ItemAdd call.
type Item struct {
	ID string
	BB gui.Rect
}

type fontState struct {
	font gui.Font
	size float32
}

// Recorder implements gui.Context and gui.DrawList. Text is measured with a
// fixed advance of half the font size per rune and a line height equal to
// the font size.
type Recorder struct {
	Cursor    gui.Vec2
	Avail     gui.Vec2
	Mouse     gui.Vec2
	Down      map[gui.MouseButton]bool
	Released  map[gui.MouseButton]bool
	Hovered   bool
	FontSize  float32
	Commands  []Command
	Items     []Item
	Reserved  []gui.Vec2
	CursorReq []gui.Cursor

	fonts []fontState
}

// NewRecorder returns a recorder with the cursor at origin and the given
// available content region.
func NewRecorder(origin gui.Vec2, avail gui.Vec2) *Recorder {
	return &Recorder{
		Cursor:   origin,
		Avail:    avail,
		Mouse:    gui.Vec2{X: -1, Y: -1},
		Down:     map[gui.MouseButton]bool{},
		Released: map[gui.MouseButton]bool{},
		FontSize: 13,
	}
}

// NewFrame clears per-frame recordings and restores the cursor to origin.
func (r *Recorder) NewFrame(origin gui.Vec2) {
	r.Cursor = origin
	r.Commands = nil
	r.Items = nil
	r.Reserved = nil
	r.CursorReq = nil
	r.Released = map[gui.MouseButton]bool{}
}

// Press sets up a press at p for this frame.
func (r *Recorder) Press(p gui.Vec2) {
	r.Mouse = p
	r.Down[gui.MouseLeft] = true
}

// Release sets up a release at p for this frame.
func (r *Recorder) Release(p gui.Vec2) {
	r.Mouse = p
	r.Down[gui.MouseLeft] = false
	r.Released[gui.MouseLeft] = true
}

// Ops returns the recorded commands of the given kind.
func (r *Recorder) Ops(op Op) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) CursorScreenPos() gui.Vec2 { return r.Cursor }
func (r *Recorder) SetCursorScreenPos(p gui.Vec2) { r.Cursor = p }
func (r *Recorder) ContentRegionAvail() gui.Vec2 { return r.Avail }
func (r *Recorder) DrawList() gui.DrawList { return r }
func (r *Recorder) MousePos() gui.Vec2 { return r.Mouse }
func (r *Recorder) IsMouseDown(b gui.MouseButton) bool { return r.Down[b] }
func (r *Recorder) IsMouseReleased(b gui.MouseButton) bool { return r.Released[b] }
func (r *Recorder) IsWindowHovered() bool { return r.Hovered }
func (r *Recorder) SetMouseCursor(c gui.Cursor) { r.CursorReq = append(r.CursorReq, c) }

func (r *Recorder) PushFont(f gui.Font, size float32) {
	r.fonts = append(r.fonts, fontState{font: f, size: size})
}

func (r *Recorder) PopFont() {
	if len(r.fonts) == 0 {
		panic("guitest: PopFont without PushFont")
	}
	r.fonts = r.fonts[:len(r.fonts)-1]
}

// FontDepth reports how many fonts are currently pushed.
func (r *Recorder) FontDepth() int { return len(r.fonts) }

func (r *Recorder) activeFont() fontState {
	if len(r.fonts) == 0 {
		return fontState{size: r.FontSize}
	}
	return r.fonts[len(r.fonts)-1]
}

func (r *Recorder) CalcTextSize(text string) gui.Vec2 {
	size := r.activeFont().size
	return gui.Vec2{X: float32(utf8.RuneCountInString(text)) * size / 2, Y: size}
}

func (r *Recorder) TextLineHeight() float32 { return r.activeFont().size }

func (r *Recorder) ItemSize(size gui.Vec2) {
	r.Reserved = append(r.Reserved, size)
	r.Cursor = gui.Vec2{X: r.Cursor.X, Y: r.Cursor.Y + size.Y}
}

func (r *Recorder) ItemAdd(bb gui.Rect, id string) bool {
	r.Items = append(r.Items, Item{ID: id, BB: bb})
	return true
}

func (r *Recorder) AddRectFilled(min, max gui.Vec2, col color.RGBA) {
	r.Commands = append(r.Commands, Command{Op: OpRect, Min: min, Max: max, Color: col})
}

func (r *Recorder) AddLine(a, b gui.Vec2, col color.RGBA, thickness float32) {
	r.Commands = append(r.Commands, Command{Op: OpLine, Min: a, Max: b, Color: col, Thickness: thickness})
}

func (r *Recorder) AddCircleFilled(center gui.Vec2, radius float32, col color.RGBA) {
	r.Commands = append(r.Commands, Command{Op: OpCircle, Min: center, Max: center, Radius: radius, Color: col})
}

func (r *Recorder) AddText(pos gui.Vec2, col color.RGBA, text string) {
	f := r.activeFont()
	r.Commands = append(r.Commands, Command{Op: OpText, Min: pos, Max: pos.Add(r.CalcTextSize(text)), Color: col, Text: text, Font: f.font, FontSize: f.size})
}

func (r *Recorder) AddImage(tex gui.TextureID, min, max gui.Vec2) {
	r.Commands = append(r.Commands, Command{Op: OpImage, Min: min, Max: max, Texture: tex})
}

func (c Command) String() string {
	return fmt.Sprintf("%s %v-%v %q", c.Op, c.Min, c.Max, c.Text)
}
