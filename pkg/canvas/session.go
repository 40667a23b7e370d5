package canvas

import (
	"time"

	"imhtml/pkg/backend"
	"imhtml/pkg/engine"
)

// Session is the retained state of one canvas: its parsed document, the
// container the document draws through, the html it was parsed from, and
// when it was last rendered.
//
// The session owns both the document and the container. The document only
// borrows the container, so teardown closes the document first.
type Session struct {
	id         string
	doc        engine.Document
	container  *backend.Container
	html       string
	lastActive time.Time
	parses     int
}

// ID returns the canvas id.
func (s *Session) ID() string { return s.id }

// Title is the document's <title>.
func (s *Session) Title() string { return s.container.Title() }

// CurrentURL is the URL the host reported as displayed.
func (s *Session) CurrentURL() string { return s.container.CurrentURL() }

// SetCurrentURL records the URL being displayed; the next link click pushes
// it onto the history.
func (s *Session) SetCurrentURL(url string) { s.container.SetCurrentURL(url) }

// CanGoBack reports whether there is history to go back to.
func (s *Session) CanGoBack() bool { return s.container.CanGoBack() }

// GoBack queues the previous URL; the next Render reports it as clicked.
func (s *Session) GoBack() bool { return s.container.GoBack() }

// Refresh queues the current URL; the next Render reports it as clicked.
func (s *Session) Refresh() { s.container.Refresh() }

// History returns the back-stack, oldest first.
func (s *Session) History() []string { return s.container.History() }

// LastActive is when the canvas was last rendered.
func (s *Session) LastActive() time.Time { return s.lastActive }

// Parses counts how many times the html has been parsed for this canvas.
func (s *Session) Parses() int { return s.parses }

func (s *Session) parse(eng engine.Engine, html string) {
	if s.doc != nil {
		s.doc.Close()
	}
	s.doc = eng.CreateFromString(html, s.container)
	s.html = html
	s.parses++
}

// close tears the session down, document before container.
func (s *Session) close() {
	if s.doc != nil {
		s.doc.Close()
		s.doc = nil
	}
	if s.container != nil {
		s.container.Release()
	}
}
