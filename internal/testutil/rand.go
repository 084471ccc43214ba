package testutil

import "klaew-klad/internal/models"

// FixedRand always returns the same value from Float64
type FixedRand struct {
	Value float64
}

func (r *FixedRand) Float64() float64 {
	return r.Value
}

// SequenceRand returns Values in order, cycling when exhausted, and records
// how many draws were made
type SequenceRand struct {
	Values []float64
	Calls  int
}

func NewSequenceRand(values ...float64) *SequenceRand {
	return &SequenceRand{Values: values}
}

func (r *SequenceRand) Float64() float64 {
	if len(r.Values) == 0 {
		r.Calls++
		return 0
	}
	v := r.Values[r.Calls%len(r.Values)]
	r.Calls++
	return v
}

// ConstantHazard reports the same exposure for every path
type ConstantHazard struct {
	Value float64
	Paths int
}

func (h *ConstantHazard) Exposure(path []models.Coordinates) float64 {
	h.Paths++
	return h.Value
}
