package utils

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time

	populations []float64
}

// Summary describes a whole run
type Summary struct {
	Generations       int
	Runtime           time.Duration
	MeanPopulation    float64
	StdDevPopulation  float64
	PeakPopulation    float64
	FinalPopulation   float64
	GenerationsPerSec float64
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

func (s *Stats) Update(generation int, population int, duration time.Duration) {
	s.TotalGenerations = generation
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}
	s.populations = append(s.populations, float64(population))

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Summary aggregates every population sample seen by Update
func (s *Stats) Summary() Summary {
	sum := Summary{
		Generations: s.TotalGenerations,
		Runtime:     time.Since(s.StartTime),
	}
	if len(s.populations) == 0 {
		return sum
	}

	sum.MeanPopulation, sum.StdDevPopulation = stat.MeanStdDev(s.populations, nil)
	if len(s.populations) == 1 {
		sum.StdDevPopulation = 0
	}
	sum.PeakPopulation = floats.Max(s.populations)
	sum.FinalPopulation = s.populations[len(s.populations)-1]
	if secs := sum.Runtime.Seconds(); secs > 0 {
		sum.GenerationsPerSec = float64(s.TotalGenerations) / secs
	}
	return sum
}
