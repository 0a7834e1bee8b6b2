package canvas

import "github.com/jacobpatterson1549/trop-dur/game/stroke"

type mockSurface struct {
	ClearFunc       func()
	DrawSegmentFunc func(s stroke.Segment)
}

func (s *mockSurface) Clear() {
	s.ClearFunc()
}

func (s *mockSurface) DrawSegment(seg stroke.Segment) {
	s.DrawSegmentFunc(seg)
}

// recordingSurface remembers what is on it.
type recordingSurface struct {
	drawn  []stroke.Segment
	clears int
}

func (s *recordingSurface) Clear() {
	s.drawn = nil
	s.clears++
}

func (s *recordingSurface) DrawSegment(seg stroke.Segment) {
	s.drawn = append(s.drawn, seg)
}
