// Package canvas renders HTML as an immediate-mode widget.
//
// The GUI redraws every frame, but parsing a document is expensive. A Cache
// keeps one parsed document per canvas id alive across frames, reparses only
// when the html text changes, and drops canvases that stop being drawn.
package canvas

import (
	"log/slog"
	"time"

	"imhtml/pkg/backend"
	"imhtml/pkg/config"
	"imhtml/pkg/custom"
	"imhtml/pkg/engine"
	"imhtml/pkg/gui"
)

// DefaultIdleTimeout is how long a canvas may go undrawn before it is evicted.
const DefaultIdleTimeout = time.Second

// Options configure a Cache. Zero values select the defaults.
type Options struct {
	// Config supplies settings; config.Default when nil.
	Config *config.Store
	// Registry supplies custom elements; custom.Default when nil.
	Registry *custom.Registry
	// IdleTimeout overrides DefaultIdleTimeout.
	IdleTimeout time.Duration
	// Now overrides time.Now.
	Now func() time.Time
	// Logger overrides slog.Default().
	Logger *slog.Logger
	// SweepOnClick evicts idle canvases even on frames where a link was
	// clicked. By default eviction waits for the next frame without a click.
	SweepOnClick bool
}

// Cache holds the sessions of all live canvases. It is not safe for
// concurrent use; call it from the GUI thread.
type Cache struct {
	ui       gui.Context
	engine   engine.Engine
	config   *config.Store
	registry *custom.Registry
	idle     time.Duration
	now      func() time.Time
	log      *slog.Logger
	sweep    bool

	sessions map[string]*Session
}

// NewCache returns a cache drawing into ui with documents built by eng.
func NewCache(ui gui.Context, eng engine.Engine, opts Options) *Cache {
	c := &Cache{
		ui:       ui,
		engine:   eng,
		config:   opts.Config,
		registry: opts.Registry,
		idle:     opts.IdleTimeout,
		now:      opts.Now,
		log:      opts.Logger,
		sweep:    opts.SweepOnClick,
		sessions: make(map[string]*Session),
	}
	if c.config == nil {
		c.config = config.Default
	}
	if c.registry == nil {
		c.registry = custom.Default
	}
	if c.idle <= 0 {
		c.idle = DefaultIdleTimeout
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	c.log = c.log.With("component", "canvas")
	return c
}

// Render draws the canvas id showing html at the GUI cursor and reserves the
// space it covers. width is the layout width; zero uses the available
// content width.
//
// When a link was activated (or navigation was queued with GoBack or
// Refresh) it returns the URL and true. The URL is reported once.
func (c *Cache) Render(id, html string, width float32) (string, bool) {
	now := c.now()

	s, ok := c.sessions[id]
	if !ok {
		container := backend.New(c.ui, c.registry, width)
		container.SetLogger(c.log)
		container.SetConfig(c.config.Current())
		s = &Session{id: id, container: container}
		s.parse(c.engine, html)
		c.sessions[id] = s
		c.log.Debug("created canvas", "id", id)
	} else if s.html != html {
		s.parse(c.engine, html)
		c.log.Debug("reparsed canvas", "id", id, "parses", s.parses)
	}
	s.lastActive = now

	s.container.SetWidth(width)
	s.container.SetConfig(c.config.Current())
	s.container.Reset()

	layoutWidth := width
	if layoutWidth <= 0 {
		layoutWidth = c.ui.ContentRegionAvail().X
	}
	s.doc.Render(layoutWidth)
	s.doc.Draw(0, 0, nil)

	origin := c.ui.CursorScreenPos()
	mouse := c.ui.MousePos().Sub(origin)
	if c.ui.IsMouseDown(gui.MouseLeft) {
		s.doc.OnLButtonDown(mouse.X, mouse.Y, mouse.X, mouse.Y)
	}
	if c.ui.IsMouseReleased(gui.MouseLeft) {
		s.doc.OnLButtonUp(mouse.X, mouse.Y, mouse.X, mouse.Y)
	}
	s.doc.OnMouseOver(mouse.X, mouse.Y, mouse.X, mouse.Y)

	extent := s.container.Extent()
	bb := gui.Rect{Min: origin, Max: origin.Add(extent)}
	c.ui.ItemSize(bb.Size())
	c.ui.ItemAdd(bb, id)

	if url := s.container.PopLoadURL(); url != "" {
		if c.sweep {
			c.evictIdle(id, now)
		}
		return url, true
	}

	c.evictIdle(id, now)
	return "", false
}

// evictIdle closes every session other than active that has not been
// rendered within the idle timeout.
func (c *Cache) evictIdle(active string, now time.Time) {
	for id, s := range c.sessions {
		if id == active || now.Sub(s.lastActive) <= c.idle {
			continue
		}
		s.close()
		delete(c.sessions, id)
		c.log.Debug("evicted canvas", "id", id)
	}
}

// Session returns the session of a live canvas.
func (c *Cache) Session(id string) (*Session, bool) {
	s, ok := c.sessions[id]
	return s, ok
}

// Len returns the number of live canvases.
func (c *Cache) Len() int { return len(c.sessions) }

// Evict closes and forgets the canvas id.
func (c *Cache) Evict(id string) {
	if s, ok := c.sessions[id]; ok {
		s.close()
		delete(c.sessions, id)
	}
}

// Close tears down every canvas.
func (c *Cache) Close() {
	for id, s := range c.sessions {
		s.close()
		delete(c.sessions, id)
	}
}
