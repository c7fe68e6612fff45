// Package layout maps between window pixels and grid cells for the graphical front end.
package layout

const (
	// ToolbarHeight is the strip above the grid holding the buttons
	ToolbarHeight = 44
	// StatusHeight is the strip below the grid holding the status line
	StatusHeight = 24

	buttonHeight = 28
	buttonGap    = 6
	margin       = 8
)

// Rect is an axis-aligned rectangle in pixels
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Grid positions a rows×columns board of square cells
type Grid struct {
	OriginX, OriginY float32
	CellSize         float32
	Rows, Columns    int
}

// NewGrid places a board directly under the toolbar
func NewGrid(rows, columns, cellSize int) Grid {
	return Grid{
		OriginX:  0,
		OriginY:  ToolbarHeight,
		CellSize: float32(cellSize),
		Rows:     rows,
		Columns:  columns,
	}
}

// Bounds is the area covered by the board
func (g Grid) Bounds() Rect {
	return Rect{
		X:      g.OriginX,
		Y:      g.OriginY,
		Width:  float32(g.Columns) * g.CellSize,
		Height: float32(g.Rows) * g.CellSize,
	}
}

// CellAt returns the cell under pixel (x, y)
func (g Grid) CellAt(x, y float32) (row, col int, ok bool) {
	if !g.Bounds().Contains(x, y) {
		return 0, 0, false
	}
	row = int((y - g.OriginY) / g.CellSize)
	col = int((x - g.OriginX) / g.CellSize)
	// guard against float rounding right at the far edge
	return min(row, g.Rows-1), min(col, g.Columns-1), true
}

// CellRect is the pixel rectangle of a cell
func (g Grid) CellRect(row, col int) Rect {
	return Rect{
		X:      g.OriginX + float32(col)*g.CellSize,
		Y:      g.OriginY + float32(row)*g.CellSize,
		Width:  g.CellSize,
		Height: g.CellSize,
	}
}

// Window returns the window size needed for the toolbar, the board and the status line.
// The width never drops below what the toolbar needs.
func (g Grid) Window(toolbar Toolbar) (width, height int) {
	b := g.Bounds()
	width = int(max(b.Width, toolbar.Width()))
	height = int(b.Height) + ToolbarHeight + StatusHeight
	return width, height
}

// StatusOrigin is where the status line is drawn
func (g Grid) StatusOrigin() (x, y int) {
	b := g.Bounds()
	return margin, int(b.Y+b.Height) + (StatusHeight-10)/2
}

// Toolbar lays out a row of buttons with the given widths
type Toolbar struct {
	Widths []float32
}

// Button returns the rectangle of the i-th button
func (t Toolbar) Button(i int) Rect {
	x := float32(margin)
	for _, w := range t.Widths[:i] {
		x += w + buttonGap
	}
	return Rect{
		X:      x,
		Y:      (ToolbarHeight - buttonHeight) / 2,
		Width:  t.Widths[i],
		Height: buttonHeight,
	}
}

// Width is the horizontal space taken by every button plus margins
func (t Toolbar) Width() float32 {
	if len(t.Widths) == 0 {
		return 2 * margin
	}
	last := t.Button(len(t.Widths) - 1)
	return last.X + last.Width + margin
}
