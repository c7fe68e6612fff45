package model

// historySize is how many past layouts are remembered. Matching any of the last three
// catches still lifes and oscillators of period 2 and 3.
const (
	historySize  = 5
	cycleHorizon = 3
)

// History remembers the hashes of recent generations to spot populations that have
// stopped changing or settled into a short cycle
type History struct {
	hashes []string
}

// Record adds the current layout of p
func (h *History) Record(p *Population) {
	h.hashes = append(h.hashes, p.Hash())

	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant reports whether the layout of p repeats one of the last few recorded ones
func (h *History) IsStagnant(p *Population) bool {
	if len(h.hashes) < cycleHorizon {
		return false
	}

	current := p.Hash()
	for i := 1; i <= cycleHorizon; i++ {
		if h.hashes[len(h.hashes)-i] == current {
			return true
		}
	}
	return false
}

// Reset forgets everything recorded so far
func (h *History) Reset() {
	h.hashes = nil
}
