// Package safety implements the resource-allocation safety test.
//
// Given what each process holds, what it still waits for, and what is free,
// the checker repeatedly scans the process table in index order, granting
// any process whose outstanding request fits in the working pool and then
// reclaiming its allocation. The state is safe when every process can be
// granted this way; the grant order is the safe sequence.
package safety

import "github.com/tutu-network/powergate/internal/domain"

// Pass records what one scan over the process table granted.
type Pass struct {
	Number    int                   `json:"number"`
	Granted   []int                 `json:"granted"`
	WorkAfter domain.ResourceVector `json:"work_after"`
}

// Trace is a safety result together with the passes that produced it.
type Trace struct {
	domain.SafetyResult
	Passes  []Pass `json:"passes"`
	Blocked []int  `json:"blocked"`
}

// Check reports whether the state described by available and processes is
// safe. Neither available nor any process vector is modified.
func Check(available domain.ResourceVector, processes []domain.Process) (domain.SafetyResult, error) {
	tr, err := Explain(available, processes)
	if err != nil {
		return domain.SafetyResult{}, err
	}
	return tr.SafetyResult, nil
}

// Explain runs the same algorithm as Check and keeps every pass.
// The final pass, which grants nothing, is not recorded.
func Explain(available domain.ResourceVector, processes []domain.Process) (Trace, error) {
	if err := domain.ValidateVectors(available, processes); err != nil {
		return Trace{}, err
	}

	d := len(available)
	n := len(processes)
	work := available.Clone()
	finish := make([]bool, n)
	seq := make([]int, 0, n)
	var passes []Pass

	for pass := 1; ; pass++ {
		var granted []int
		for i := 0; i < n; i++ {
			if finish[i] {
				continue
			}
			if !orZero(processes[i].Request, d).LessOrEqual(work) {
				continue
			}
			work.AddInPlace(orZero(processes[i].Allocation, d))
			finish[i] = true
			seq = append(seq, i)
			granted = append(granted, i)
		}
		if len(granted) == 0 {
			break
		}
		passes = append(passes, Pass{Number: pass, Granted: granted, WorkAfter: work.Clone()})
	}

	var blocked []int
	for i, done := range finish {
		if !done {
			blocked = append(blocked, i)
		}
	}

	return Trace{
		SafetyResult: domain.SafetyResult{
			IsSafe:       len(blocked) == 0,
			SafeSequence: seq,
		},
		Passes:  passes,
		Blocked: blocked,
	}, nil
}

// orZero reads a missing vector as all zeros.
func orZero(v domain.ResourceVector, d int) domain.ResourceVector {
	if v == nil {
		return domain.Zero(d)
	}
	return v
}
