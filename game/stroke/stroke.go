// Package stroke contains the line segments that make up a drawing.
package stroke

// Segment is one straight line drawn on the canvas, in canvas pixel coordinates.
// Segments are never changed after they are created.
type Segment struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
	// Size is the width of the line.
	Size float64 `json:"size"`
}

// Eraser is the color used when erasing, the background color of the canvas.
const Eraser = "#ffffff"

// EraserScale is how much wider the eraser is than the selected size.
const EraserScale = 3

// Pen creates segments from the drawer's pointer movements.
type Pen struct {
	Color  string
	Size   float64
	Erase  bool
	x, y   float64
	isDown bool
}

// Down starts a line at the point.
func (p *Pen) Down(x, y float64) {
	p.x, p.y = x, y
	p.isDown = true
}

// Move creates the segment from the previous point to the new point.
// False is returned if the pen is not down.
func (p *Pen) Move(x, y float64) (Segment, bool) {
	if !p.isDown {
		return Segment{}, false
	}
	s := Segment{
		X1:    p.x,
		Y1:    p.y,
		X2:    x,
		Y2:    y,
		Color: p.Color,
		Size:  p.Size,
	}
	if p.Erase {
		s.Color = Eraser
		s.Size = p.Size * EraserScale
	}
	p.x, p.y = x, y
	return s, true
}

// Up stops the line.
func (p *Pen) Up() {
	p.isDown = false
}
