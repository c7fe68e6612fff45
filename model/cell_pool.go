package model

import "sync"

// CellPool recycles cell buffers between generations
type CellPool struct {
	pool sync.Pool
}

// NewCellPool creates an empty pool
func NewCellPool() *CellPool {
	return &CellPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &cellBuffer{}
			},
		},
	}
}

type cellBuffer struct {
	cells [][]Cell
}

// reset resizes the buffer if needed and leaves every cell dead with a zero count
func (b *cellBuffer) reset(rows, columns int) {
	if len(b.cells) != rows || (rows > 0 && len(b.cells[0]) != columns) {
		b.cells = newCells(rows, columns)
		return
	}
	for i := range b.cells {
		clear(b.cells[i])
	}
}

// Get retrieves a cleared rows×columns buffer
func (p *CellPool) Get(rows, columns int) [][]Cell {
	b := p.pool.Get().(*cellBuffer)
	b.reset(rows, columns)
	cells := b.cells
	b.cells = nil
	return cells
}

// Put hands a buffer back for reuse. The caller must not touch it afterwards.
func (p *CellPool) Put(cells [][]Cell) {
	if cells == nil {
		return
	}
	p.pool.Put(&cellBuffer{cells: cells})
}
