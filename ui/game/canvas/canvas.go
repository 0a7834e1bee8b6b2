// Package canvas contains the logic to keep the drawing consistent with the drawer's.
package canvas

import (
	"time"

	"github.com/jacobpatterson1549/trop-dur/game/stroke"
)

type (
	// Mirror is the local copy of the drawing.
	// Guessers receive segments live, which can be lost, and repair gaps by comparing the length of the full history with the local copy.
	// The drawer's own segments are always complete, so the drawer ignores live and pulled segments.
	Mirror struct {
		surface  Surface
		segments []stroke.Segment
		drawer   bool
	}

	// Surface is where the segments are drawn.
	Surface interface {
		// Clear erases the surface.
		Clear()
		// DrawSegment draws a line on the surface.
		DrawSegment(s stroke.Segment)
	}
)

// PollInterval is the time between pulls of the stroke history while a guesser watches a drawing.
const PollInterval = 3 * time.Second

// NewMirror creates an empty mirror that draws on the surface.
func NewMirror(surface Surface) *Mirror {
	m := Mirror{
		surface: surface,
	}
	return &m
}

// SetDrawer changes whether the local player is drawing.
func (m *Mirror) SetDrawer(drawer bool) {
	m.drawer = drawer
}

// Drawer determines if the mirror belongs to the drawer.
func (m Mirror) Drawer() bool {
	return m.drawer
}

// DrawLocal draws and records a segment made by the drawer.
func (m *Mirror) DrawLocal(s stroke.Segment) {
	m.append(s)
}

// ApplyLive draws a segment relayed from the drawer.
// False is returned if the segment was ignored because the local player is the drawer.
func (m *Mirror) ApplyLive(s stroke.Segment) bool {
	if m.drawer {
		return false
	}
	m.append(s)
	return true
}

// Repair replaces the mirror with the full history if the history has more segments than the mirror.
// The segments before the cursor are not compared; the server only ever appends to the history.
// True is returned if the surface was redrawn.
func (m *Mirror) Repair(history []stroke.Segment) bool {
	if m.drawer || len(history) <= len(m.segments) {
		return false
	}
	m.surface.Clear()
	m.segments = m.segments[:0]
	for _, s := range history {
		m.append(s)
	}
	return true
}

// Clear empties the mirror and the surface.
func (m *Mirror) Clear() {
	m.segments = m.segments[:0]
	m.surface.Clear()
}

// Len is the number of segments drawn, the cursor into the history.
func (m Mirror) Len() int {
	return len(m.segments)
}

// Segments returns a copy of the segments drawn.
func (m Mirror) Segments() []stroke.Segment {
	segments := make([]stroke.Segment, len(m.segments))
	copy(segments, m.segments)
	return segments
}

func (m *Mirror) append(s stroke.Segment) {
	m.segments = append(m.segments, s)
	m.surface.DrawSegment(s)
}
