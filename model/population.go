package model

import (
	"crypto/md5"
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/rules"
)

const (
	liveGlyph = '#'
	deadGlyph = '-'
)

// Population is a fixed-size grid of cells that keeps every cell's live-neighbour count in
// step with its neighbours' state. It is not safe for concurrent use.
type Population struct {
	rows       int
	columns    int
	cells      [][]Cell
	generation int
	pool       *CellPool
}

// Option configures a Population at construction
type Option func(*Population)

// WithPool makes generation advances draw their fresh buffer from pool and return the
// previous one to it
func WithPool(pool *CellPool) Option {
	return func(p *Population) {
		p.pool = pool
	}
}

// NewPopulation creates a rows×columns population with every cell dead
func NewPopulation(rows, columns int, opts ...Option) (*Population, error) {
	if rows < 1 || columns < 1 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "[NewPopulation] both dimensions must be greater than zero, got %dx%d", rows, columns)
	}
	p := &Population{
		rows:    rows,
		columns: columns,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cells = p.newBuffer()
	return p, nil
}

// Rows returns the number of rows
func (p *Population) Rows() int {
	return p.rows
}

// Columns returns the number of columns
func (p *Population) Columns() int {
	return p.columns
}

// Generation returns how many generations have been computed since construction or the
// last Clear
func (p *Population) Generation() int {
	return p.generation
}

func (p *Population) inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < p.rows && col < p.columns
}

func (p *Population) outOfBounds(op string, row, col int) error {
	return errors.Wrapf(ErrOutOfBounds, "[%s] (%d, %d) not in %dx%d", op, row, col, p.rows, p.columns)
}

// IsAlive reports whether the cell at (row, col) is alive
func (p *Population) IsAlive(row, col int) (bool, error) {
	if !p.inBounds(row, col) {
		return false, p.outOfBounds("IsAlive", row, col)
	}
	return p.cells[row][col].alive, nil
}

// Cell returns a copy of the cell at (row, col)
func (p *Population) Cell(row, col int) (Cell, error) {
	if !p.inBounds(row, col) {
		return Cell{}, p.outOfBounds("Cell", row, col)
	}
	return p.cells[row][col], nil
}

// AnimateCell brings the cell at (row, col) to life and bumps the count of each
// neighbour. Coordinates off the grid and cells that are already alive are ignored.
func (p *Population) AnimateCell(row, col int) {
	if !p.inBounds(row, col) || p.cells[row][col].alive {
		return
	}
	p.cells[row][col].animate()
	p.forEachNeighbour(row, col, (*Cell).incrementNeighbourCount)
}

// KillCell is the inverse of AnimateCell
func (p *Population) KillCell(row, col int) {
	if !p.inBounds(row, col) || !p.cells[row][col].alive {
		return
	}
	p.cells[row][col].kill()
	p.forEachNeighbour(row, col, (*Cell).decrementNeighbourCount)
}

// ToggleCell flips the cell at (row, col) and returns its new state. Off-grid coordinates
// are ignored and report false.
func (p *Population) ToggleCell(row, col int) bool {
	if !p.inBounds(row, col) {
		return false
	}
	if p.cells[row][col].alive {
		p.KillCell(row, col)
		return false
	}
	p.AnimateCell(row, col)
	return true
}

func (p *Population) forEachNeighbour(row, col int, fn func(*Cell)) {
	for i := row - 1; i <= row+1; i++ {
		if i < 0 || i >= p.rows {
			continue
		}
		for j := col - 1; j <= col+1; j++ {
			if j < 0 || j >= p.columns || (i == row && j == col) {
				continue
			}
			fn(&p.cells[i][j])
		}
	}
}

// NextGeneration replaces the population with its successor under Conway's rules
func (p *Population) NextGeneration() {
	next := p.successor()
	for i := 0; i < p.rows; i++ {
		for j := 0; j < p.columns; j++ {
			c := p.cells[i][j]
			if rules.ApplyConwayRules(c.neighbourCount, c.alive) {
				next.AnimateCell(i, j)
			}
		}
	}
	p.publish(next)
}

// NextGenerationParallel computes the same successor as NextGeneration, evaluating the
// rule over row bands concurrently. workers < 1 means one per CPU.
func (p *Population) NextGenerationParallel(workers int) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var (
		eg            errgroup.Group
		rowsPerWorker = (p.rows + workers - 1) / workers // Ceiling division
		bands         = make([][]int, workers)
	)

	for w := 0; w < workers; w++ {
		w := w
		var (
			startRow = w * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, p.rows)
		)
		if startRow >= p.rows {
			break
		}

		eg.Go(func() error {
			var born []int
			for i := startRow; i < endRow; i++ {
				for j, c := range p.cells[i] {
					if rules.ApplyConwayRules(c.neighbourCount, c.alive) {
						born = append(born, i*p.columns+j)
					}
				}
			}
			bands[w] = born
			return nil
		})
	}
	// band workers only read the current generation and never fail
	_ = eg.Wait()

	// neighbour counts straddle band edges, so the new generation is built serially
	next := p.successor()
	for _, band := range bands {
		for _, idx := range band {
			next.AnimateCell(idx/p.columns, idx%p.columns)
		}
	}
	p.publish(next)
}

// successor returns an empty population of the same shape to build the next generation in
func (p *Population) successor() *Population {
	return &Population{
		rows:    p.rows,
		columns: p.columns,
		cells:   p.newBuffer(),
	}
}

func (p *Population) publish(next *Population) {
	if p.pool != nil {
		p.pool.Put(p.cells)
	}
	p.cells = next.cells
	p.generation++
}

func (p *Population) newBuffer() [][]Cell {
	if p.pool != nil {
		return p.pool.Get(p.rows, p.columns)
	}
	return newCells(p.rows, p.columns)
}

// Clear kills every cell and resets the generation counter
func (p *Population) Clear() {
	for i := range p.cells {
		clear(p.cells[i])
	}
	p.generation = 0
}

// LivingCells returns the number of live cells
func (p *Population) LivingCells() (count int) {
	for i := range p.cells {
		for _, c := range p.cells[i] {
			if c.alive {
				count++
			}
		}
	}
	return
}

// Hash returns an MD5 digest of the live/dead layout
func (p *Population) Hash() string {
	h := md5.New()
	row := make([]byte, p.columns)
	for i := range p.cells {
		for j, c := range p.cells[i] {
			row[j] = 0
			if c.alive {
				row[j] = 1
			}
		}
		h.Write(row)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// String renders the grid one row per line, '#' for live cells and '-' for dead ones
func (p *Population) String() string {
	var sb strings.Builder
	sb.Grow(p.rows * (p.columns + 1))
	for i := range p.cells {
		for _, c := range p.cells[i] {
			if c.alive {
				sb.WriteByte(liveGlyph)
			} else {
				sb.WriteByte(deadGlyph)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
