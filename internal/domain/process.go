// Package domain holds the value types shared by the safety checker and the
// power-budgeted scheduler. Every type here is a plain value; nothing in the
// package performs I/O or keeps state between calls.
package domain

import (
	"math"
	"strconv"
)

// ResourceVector is an ordered, fixed-length tuple of non-negative
// quantities, one per resource kind.
type ResourceVector []float64

// Zero returns an all-zero vector with d dimensions.
func Zero(d int) ResourceVector {
	return make(ResourceVector, d)
}

// Clone returns an independent copy of v. A nil vector clones to nil.
func (v ResourceVector) Clone() ResourceVector {
	if v == nil {
		return nil
	}
	out := make(ResourceVector, len(v))
	copy(out, v)
	return out
}

// LessOrEqual reports whether every component of v is <= the matching
// component of w. Vectors of different lengths never compare.
func (v ResourceVector) LessOrEqual(w ResourceVector) bool {
	if len(v) != len(w) {
		return false
	}
	for k := range v {
		if v[k] > w[k] {
			return false
		}
	}
	return true
}

// AddInPlace adds w into v component-wise.
func (v ResourceVector) AddInPlace(w ResourceVector) {
	for k := range v {
		v[k] += w[k]
	}
}

// Process is one row of the caller's process table. Allocation and Request
// feed the safety checker; Power and Burst feed the scheduler.
type Process struct {
	ID         string         `json:"id" toml:"id"`
	Allocation ResourceVector `json:"allocation" toml:"allocation"`
	Request    ResourceVector `json:"request" toml:"request"`
	Power      float64        `json:"power" toml:"power"`
	Burst      float64        `json:"burst" toml:"burst"`
}

// Clone returns a deep copy of p.
func (p Process) Clone() Process {
	p.Allocation = p.Allocation.Clone()
	p.Request = p.Request.Clone()
	return p
}

// CloneProcesses deep-copies a process list.
func CloneProcesses(ps []Process) []Process {
	out := make([]Process, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// DefaultID is the id a process gets when the caller leaves it blank.
func DefaultID(index int) string {
	return "P" + strconv.Itoa(index)
}

// Snapshot is the full caller input for one run.
type Snapshot struct {
	PowerLimit float64        `json:"power_limit" toml:"power_limit"`
	Available  ResourceVector `json:"available" toml:"available"`
	Processes  []Process      `json:"processes" toml:"processes"`
}

// Dimensions returns the run's resource dimensionality.
func (s Snapshot) Dimensions() int {
	return len(s.Available)
}

// SafetyResult is the outcome of a safety check. An unsafe state is a
// normal result, not an error.
type SafetyResult struct {
	IsSafe       bool  `json:"is_safe"`
	SafeSequence []int `json:"safe_sequence"`
}

// Slot is one admitted process on the Gantt timeline.
type Slot struct {
	ID        string  `json:"id"`
	Index     int     `json:"index"`
	Start     float64 `json:"start"`
	Duration  float64 `json:"duration"`
	PowerUsed float64 `json:"power_used"`
}

// Consumption is a per-process power total for the summary view.
type Consumption struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// ScheduleResult is the snapshot a single scheduler simulation produces.
type ScheduleResult struct {
	Policy        Policy        `json:"policy"`
	PowerLimit    float64       `json:"power_limit"`
	Admitted      []Slot        `json:"admitted"`
	Skipped       []string      `json:"skipped"`
	Consumption   []Consumption `json:"consumption"`
	TotalConsumed float64       `json:"total_consumed"`
	BatteryLeft   float64       `json:"battery_left"`
	Makespan      float64       `json:"makespan"`
}

// Comparison pairs the result of the chosen policy with its alternate.
type Comparison struct {
	Primary   ScheduleResult `json:"primary"`
	Alternate ScheduleResult `json:"alternate"`
}

// Round2 rounds the exact decimal value of x to two places, half away
// from zero. 36.31499999999999772626 rounds to 36.31 even though x*100
// lands on 3631.5 in binary.
func Round2(x float64) float64 {
	var r float64
	if f := x * 8; f == math.Trunc(f) {
		// Multiples of 1/8 are the only values that can sit exactly on a
		// tie, and x*100 is exact for them.
		r = math.Round(x*100) / 100
	} else {
		r, _ = strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	}
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
