package domain

import "math"

// Power limit bounds accepted from callers.
const (
	MinPowerLimit = 1
	MaxPowerLimit = 100
)

// ValidateVectors checks that available and every process's allocation and
// request share one dimensionality and have no negative components. A nil
// allocation or request is read as a zero vector and passes.
func ValidateVectors(available ResourceVector, processes []Process) error {
	d := len(available)
	if d == 0 {
		return InvalidInput(ErrNoDimensions, "available = %v", available)
	}
	if err := checkVector("available", available, d); err != nil {
		return err
	}
	for i, p := range processes {
		if p.Allocation != nil {
			if err := checkVector(label(i, p, "allocation"), p.Allocation, d); err != nil {
				return err
			}
		}
		if p.Request != nil {
			if err := checkVector(label(i, p, "request"), p.Request, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateProcesses checks the scheduler-facing fields: unique non-empty
// ids and non-negative, finite power and burst.
func ValidateProcesses(processes []Process) error {
	seen := make(map[string]int, len(processes))
	for i, p := range processes {
		if p.ID == "" {
			return InvalidInput(ErrEmptyID, "process #%d", i)
		}
		if j, dup := seen[p.ID]; dup {
			return InvalidInput(ErrDuplicateID, "%q at #%d and #%d", p.ID, j, i)
		}
		seen[p.ID] = i
		if !nonNegative(p.Power) {
			return InvalidInput(ErrNegativeValue, "%s power = %v", p.ID, p.Power)
		}
		if !nonNegative(p.Burst) {
			return InvalidInput(ErrNegativeValue, "%s burst = %v", p.ID, p.Burst)
		}
	}
	return nil
}

// ValidatePowerLimit checks limit against [MinPowerLimit, MaxPowerLimit].
func ValidatePowerLimit(limit float64) error {
	if math.IsNaN(limit) || limit < MinPowerLimit || limit > MaxPowerLimit {
		return InvalidInput(ErrPowerLimitRange, "got %v", limit)
	}
	return nil
}

// ValidateSnapshot runs every check a full run needs.
func ValidateSnapshot(s Snapshot) error {
	if len(s.Processes) == 0 {
		return InvalidInput(ErrNoProcesses, "got 0")
	}
	if err := ValidatePowerLimit(s.PowerLimit); err != nil {
		return err
	}
	if err := ValidateVectors(s.Available, s.Processes); err != nil {
		return err
	}
	return ValidateProcesses(s.Processes)
}

func checkVector(name string, v ResourceVector, d int) error {
	if len(v) != d {
		return InvalidInput(ErrDimensionMismatch, "%s has %d dimensions, want %d", name, len(v), d)
	}
	for k, x := range v {
		if !nonNegative(x) {
			return InvalidInput(ErrNegativeValue, "%s[%d] = %v", name, k, x)
		}
	}
	return nil
}

func label(i int, p Process, field string) string {
	id := p.ID
	if id == "" {
		id = DefaultID(i)
	}
	return id + "." + field
}

func nonNegative(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= 0
}
