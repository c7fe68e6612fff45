// Package patterns holds the predefined starting layouts that can be loaded into a
// population.
package patterns

import (
	"embed"
	"path"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

//go:embed data/*.txt
var files embed.FS

// ErrUnknownPattern is returned when a name or index has no entry in the catalogue
var ErrUnknownPattern = errors.New("unknown pattern")

// Default is the layout shown when nothing else is asked for
const Default = "Glider"

type entry struct {
	name string
	file string
}

// catalogue is in menu order
var catalogue = []entry{
	{"Glider", "glider.txt"},
	{"Lightweight spaceship", "spaceship.txt"},
	{"Toad (period 2 oscillator)", "toad.txt"},
	{"Pulsar (period 3 oscillator)", "pulsar.txt"},
	{"R-pentomino", "r_pentomino.txt"},
	{"10 cell row", "ten_cell_row.txt"},
	{"Gosper glider gun", "glider_gun.txt"},
}

// Names returns the pattern names in menu order
func Names() []string {
	names := make([]string, len(catalogue))
	for i, e := range catalogue {
		names[i] = e.name
	}
	return names
}

// Index returns the menu position of name
func Index(name string) (int, error) {
	for i, e := range catalogue {
		if e.name == name {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrUnknownPattern, "[Index] %q", name)
}

// Load decodes the named pattern
func Load(name string, opts ...model.Option) (*model.Population, error) {
	i, err := Index(name)
	if err != nil {
		return nil, err
	}
	return LoadIndex(i, opts...)
}

// LoadIndex decodes the pattern at menu position i
func LoadIndex(i int, opts ...model.Option) (*model.Population, error) {
	if i < 0 || i >= len(catalogue) {
		return nil, errors.Wrapf(ErrUnknownPattern, "[LoadIndex] index %d not in [0, %d)", i, len(catalogue))
	}
	return model.LoadPattern(files, path.Join("data", catalogue[i].file), opts...)
}
