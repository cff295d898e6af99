package domain

import (
	"encoding"
	"strings"
)

// Policy selects the scheduler's ordering and derating rules.
type Policy int

const (
	PolicyPerformance Policy = iota // caller order, no derating
	PolicyPowerSaving               // ascending power, derate heavy draws
)

// String returns the wire name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyPerformance:
		return "performance"
	case PolicyPowerSaving:
		return "powerSaving"
	default:
		return "unknown"
	}
}

// Label returns the heading a renderer shows for the policy.
func (p Policy) Label() string {
	switch p {
	case PolicyPerformance:
		return "Performance Mode"
	case PolicyPowerSaving:
		return "Power Saving Mode"
	default:
		return "Unknown Mode"
	}
}

// Valid reports whether p is one of the defined policies.
func (p Policy) Valid() bool {
	return p == PolicyPerformance || p == PolicyPowerSaving
}

// Alternate returns the other policy, used for side-by-side comparison.
func (p Policy) Alternate() Policy {
	if p == PolicyPerformance {
		return PolicyPowerSaving
	}
	return PolicyPerformance
}

// ParsePolicy accepts the wire names plus a few loose spellings
// ("power-saving", "powersaving", "perf").
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "performance", "perf":
		return PolicyPerformance, nil
	case "powersaving", "power-saving", "power_saving", "saving":
		return PolicyPowerSaving, nil
	default:
		return 0, InvalidInput(ErrUnknownPolicy, "%q", s)
	}
}

// MarshalText encodes the policy by name for JSON and TOML.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, InvalidInput(ErrUnknownPolicy, "%d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a policy name.
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

var (
	_ encoding.TextMarshaler   = Policy(0)
	_ encoding.TextUnmarshaler = (*Policy)(nil)
)
