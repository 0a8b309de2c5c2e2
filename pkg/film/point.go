package film

// Point2i is an integer 2-D point (or extent) in film/pixel space.
type Point2i struct {
	X, Y int
}

func (p Point2i) Add(o Point2i) Point2i { return Point2i{p.X + o.X, p.Y + o.Y} }
func (p Point2i) Sub(o Point2i) Point2i { return Point2i{p.X - o.X, p.Y - o.Y} }

// Min returns the componentwise minimum of p and o.
func (p Point2i) Min(o Point2i) Point2i {
	x, y := p.X, p.Y
	if o.X < x {
		x = o.X
	}
	if o.Y < y {
		y = o.Y
	}
	return Point2i{x, y}
}
