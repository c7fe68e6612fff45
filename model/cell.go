package model

import "fmt"

// Cell is one grid position: whether it is alive and how many of its Moore neighbours are
// alive. Only the owning Population mutates it.
type Cell struct {
	alive          bool
	neighbourCount int
}

// IsAlive reports whether the cell is alive
func (c Cell) IsAlive() bool {
	return c.alive
}

// NeighbourCount returns the cached number of live Moore neighbours
func (c Cell) NeighbourCount() int {
	return c.neighbourCount
}

func (c *Cell) animate() {
	c.alive = true
}

func (c *Cell) kill() {
	c.alive = false
}

func (c *Cell) incrementNeighbourCount() {
	c.neighbourCount++
}

// decrementNeighbourCount panics if the count would go negative: that only happens when a
// neighbour was killed without having been animated through the population.
func (c *Cell) decrementNeighbourCount() {
	if c.neighbourCount == 0 {
		panic(fmt.Sprintf("model: neighbour count underflow (alive=%v)", c.alive))
	}
	c.neighbourCount--
}

// newCells allocates a rows×columns block of dead cells backed by one slice
func newCells(rows, columns int) [][]Cell {
	backing := make([]Cell, rows*columns)
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = backing[i*columns : (i+1)*columns : (i+1)*columns]
	}
	return cells
}
