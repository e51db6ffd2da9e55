package render

// Rect is an axis-aligned rectangle in logical units, origin bottom-left.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Style tints a drawing operation.
type Style struct {
	Bold   bool
	Accent bool
}

// OpKind distinguishes canvas operations.
type OpKind int

const (
	OpFill OpKind = iota
	OpText
)

// Op is one recorded drawing operation.
type Op struct {
	Kind  OpKind
	Rect  Rect
	Text  string
	Style Style
}

// Canvas is the mutable render state: the logical viewport and the
// operations recorded for the next frame.
type Canvas struct {
	Width  float64
	Height float64
	Scale  float64

	ops []Op
}

// Reset clears recorded operations and sets the viewport.
func (c *Canvas) Reset(width, height, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	c.Width = width
	c.Height = height
	c.Scale = scale
	c.ops = c.ops[:0]
}

// Fill records a filled rectangle.
func (c *Canvas) Fill(r Rect, style Style) {
	c.ops = append(c.ops, Op{Kind: OpFill, Rect: r, Style: style})
}

// Text records a single line of text whose baseline starts at (x, y).
func (c *Canvas) Text(x, y float64, text string, style Style) {
	c.ops = append(c.ops, Op{Kind: OpText, Rect: Rect{X: x, Y: y}, Text: text, Style: style})
}

// Ops returns the recorded operations in draw order.
func (c *Canvas) Ops() []Op {
	return c.ops
}
