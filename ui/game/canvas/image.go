package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"

	"github.com/jacobpatterson1549/trop-dur/game/stroke"
)

// Image is a raster Surface, used when there is no screen to draw on.
type Image struct {
	rgba *image.RGBA
}

// Image implements the Surface interface.
var _ Surface = (*Image)(nil)

// background is the color of a cleared canvas.
var background = color.RGBA{0xff, 0xff, 0xff, 0xff}

// NewImage creates a cleared image of the size.
func NewImage(width, height int) *Image {
	i := Image{
		rgba: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	i.Clear()
	return &i
}

// Clear fills the image with the background color.
func (i *Image) Clear() {
	draw.Draw(i.rgba, i.rgba.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
}

// DrawSegment draws the segment as a line with round ends.
func (i *Image) DrawSegment(s stroke.Segment) {
	c := ParseColor(s.Color)
	r := s.Size / 2
	if r < 0.5 {
		r = 0.5
	}
	minX := int(math.Floor(math.Min(s.X1, s.X2) - r))
	maxX := int(math.Ceil(math.Max(s.X1, s.X2) + r))
	minY := int(math.Floor(math.Min(s.Y1, s.Y2) - r))
	maxY := int(math.Ceil(math.Max(s.Y1, s.Y2) + r))
	area := image.Rect(minX, minY, maxX+1, maxY+1).Intersect(i.rgba.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if distance(float64(x)+0.5, float64(y)+0.5, s) <= r {
				i.rgba.SetRGBA(x, y, c)
			}
		}
	}
}

// At gets the color of a pixel.
func (i *Image) At(x, y int) color.RGBA {
	return i.rgba.RGBAAt(x, y)
}

// WritePNG encodes the image.
func (i *Image) WritePNG(w io.Writer) error {
	return png.Encode(w, i.rgba)
}

// ParseColor converts a #rrggbb or #rgb color.  Other colors are black.
func ParseColor(s string) color.RGBA {
	black := color.RGBA{A: 0xff}
	if len(s) == 0 || s[0] != '#' {
		return black
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return black
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return black
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}

// distance is how far the point is from the closest point of the segment.
func distance(px, py float64, s stroke.Segment) float64 {
	dx, dy := s.X2-s.X1, s.Y2-s.Y1
	lengthSquared := dx*dx + dy*dy
	t := 0.0
	if lengthSquared != 0 {
		t = ((px-s.X1)*dx + (py-s.Y1)*dy) / lengthSquared
		t = math.Max(0, math.Min(1, t))
	}
	cx, cy := s.X1+t*dx, s.Y1+t*dy
	return math.Hypot(px-cx, py-cy)
}
