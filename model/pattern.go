package model

import (
	"bufio"
	"io"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// FromPattern decodes a block of text into a population, one line per row and one rune
// per column. '#' marks a live cell; any other rune marks a dead one. Every line must be
// as long as the first.
func FromPattern(lines []string, opts ...Option) (*Population, error) {
	if len(lines) == 0 {
		return nil, errors.Wrap(ErrInvalidPattern, "[FromPattern] no lines")
	}
	columns := utf8.RuneCountInString(lines[0])
	if columns == 0 {
		return nil, errors.Wrap(ErrInvalidPattern, "[FromPattern] first line is empty")
	}
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n != columns {
			return nil, errors.Wrapf(ErrInvalidPattern, "[FromPattern] line %d has %d columns, want %d", i+1, n, columns)
		}
	}

	p, err := NewPopulation(len(lines), columns, opts...)
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		j := 0
		for _, r := range line {
			if r == liveGlyph {
				p.AnimateCell(i, j)
			}
			j++
		}
	}
	return p, nil
}

// ReadPattern reads pattern lines from r and decodes them with FromPattern. Carriage
// returns before line feeds are dropped.
func ReadPattern(r io.Reader, opts ...Option) (*Population, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "[ReadPattern] failed to read pattern")
	}
	return FromPattern(lines, opts...)
}

// LoadPattern decodes the pattern file at name within fsys
func LoadPattern(fsys fs.FS, name string, opts ...Option) (*Population, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadPattern] failed to open pattern: %+v", name)
	}
	defer f.Close()

	p, err := ReadPattern(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadPattern] failed to decode pattern: %+v", name)
	}
	return p, nil
}
