// Package snapshot turns loosely typed caller input into a domain.Snapshot.
//
// Input comes from forms and scenario files where any numeric cell may be
// blank, a quoted string, or missing entirely. Normalization reads every
// such cell as 0, fills missing ids with "P<index>", and fills missing
// vectors with zeros. It does not validate: shape and sign problems are
// left for the algorithms to reject.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tutu-network/powergate/internal/domain"
)

// DefaultDimensions is the resource dimensionality used when the input
// names none (resources A, B, C).
const DefaultDimensions = 3

// Number is a numeric cell that tolerates blanks and strings.
type Number float64

// Float returns the cell as a float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalJSON accepts numbers, numeric strings, blank strings and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = parse(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = 0
		return nil
	}
	*n = finite(f)
	return nil
}

// UnmarshalTOML accepts TOML integers, floats and strings.
func (n *Number) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*n = Number(x)
	case float64:
		*n = finite(x)
	case string:
		*n = parse(x)
	case nil:
		*n = 0
	default:
		return fmt.Errorf("snapshot: cannot read %T as a number", v)
	}
	return nil
}

// MarshalJSON writes the cell as a plain number.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

// Process is one loosely typed row of the process table.
type Process struct {
	ID         string   `json:"id,omitempty" toml:"id"`
	Allocation []Number `json:"allocation,omitempty" toml:"allocation"`
	Request    []Number `json:"request,omitempty" toml:"request"`
	Power      Number   `json:"power" toml:"power"`
	Burst      Number   `json:"burst" toml:"burst"`
}

// Input is the loosely typed form of a whole run.
type Input struct {
	PowerLimit Number `json:"power_limit" toml:"power_limit"`
	// Dimensions fixes the resource count. Zero means len(Available), or
	// DefaultDimensions when Available is also empty.
	Dimensions int      `json:"dimensions,omitempty" toml:"dimensions"`
	Available  []Number `json:"available,omitempty" toml:"available"`
	Policy     string   `json:"policy,omitempty" toml:"policy"`
	// Count pads the table with blank rows up to this many processes.
	Count     int       `json:"count,omitempty" toml:"count"`
	Processes []Process `json:"processes" toml:"processes"`
}

// Normalize builds the strict snapshot the algorithms consume.
func (in Input) Normalize() domain.Snapshot {
	d := in.Dimensions
	if d <= 0 {
		d = len(in.Available)
	}
	if d <= 0 {
		d = DefaultDimensions
	}

	rows := in.Processes
	if in.Count > len(rows) {
		padded := make([]Process, in.Count)
		copy(padded, rows)
		rows = padded
	}

	snap := domain.Snapshot{
		PowerLimit: in.PowerLimit.Float(),
		Available:  vector(in.Available, d),
		Processes:  make([]domain.Process, len(rows)),
	}
	for i, r := range rows {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = domain.DefaultID(i)
		}
		snap.Processes[i] = domain.Process{
			ID:         id,
			Allocation: vector(r.Allocation, d),
			Request:    vector(r.Request, d),
			Power:      r.Power.Float(),
			Burst:      r.Burst.Float(),
		}
	}
	return snap
}

// PolicyOr parses the input's policy, falling back to def when blank.
func (in Input) PolicyOr(def domain.Policy) (domain.Policy, error) {
	if strings.TrimSpace(in.Policy) == "" {
		return def, nil
	}
	return domain.ParsePolicy(in.Policy)
}

// vector converts cells to a ResourceVector. A missing vector becomes d
// zeros; a present one keeps its own length so a mismatch stays visible.
func vector(cells []Number, d int) domain.ResourceVector {
	if len(cells) == 0 {
		return domain.Zero(d)
	}
	v := make(domain.ResourceVector, len(cells))
	for k, c := range cells {
		v[k] = c.Float()
	}
	return v
}

func parse(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}
