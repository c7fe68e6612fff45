package rules

const (
	// BirthNeighbours is the exact live-neighbour count that brings a dead cell to life
	BirthNeighbours = 3
	// SurviveMin and SurviveMax bound the live-neighbour count a live cell needs to stay alive
	SurviveMin = 2
	SurviveMax = 3
)

/*
ApplyConwayRules reports whether a cell is alive in the next generation.

A live cell survives with 2 or 3 live neighbours; a dead cell is born with exactly 3.
*/
func ApplyConwayRules(neighbours int, alive bool) bool {
	if alive {
		return neighbours >= SurviveMin && neighbours <= SurviveMax
	}
	return neighbours == BirthNeighbours
}
