// Package planner runs a whole snapshot: safety check first, then, when the
// gate allows it, both scheduling policies side by side.
//
// The gate is caller policy. The scheduler itself never asks whether a
// safety check happened; the planner decides whether an unsafe state still
// gets a schedule.
package planner

import (
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/tutu-network/powergate/internal/domain"
	"github.com/tutu-network/powergate/internal/infra/metrics"
	"github.com/tutu-network/powergate/internal/power"
	"github.com/tutu-network/powergate/internal/safety"
)

// Config controls the planner gate and logging.
type Config struct {
	RequireSafe bool // withhold schedules for unsafe snapshots unless forced
	Verbose     bool // log every safety pass
	Quiet       bool // only warnings; suppresses per-run lines
}

// DefaultConfig gates scheduling on a safe state.
func DefaultConfig() Config {
	return Config{RequireSafe: true}
}

// Options are per-run overrides.
type Options struct {
	Force bool // schedule even when the gate would withhold
}

// Report is everything one run produced.
type Report struct {
	RunID    string             `json:"run_id"`
	Policy   domain.Policy      `json:"policy"`
	Safety   safety.Trace       `json:"safety"`
	Schedule *domain.Comparison `json:"schedule,omitempty"`
	Withheld bool               `json:"withheld"`
}

// Planner ties the checker and the scheduler together.
type Planner struct {
	config Config
}

// New creates a planner.
func New(cfg Config) *Planner {
	return &Planner{config: cfg}
}

// Check runs the safety checker and records its outcome.
func (p *Planner) Check(available domain.ResourceVector, processes []domain.Process) (safety.Trace, error) {
	tr, err := safety.Explain(available, processes)
	if err != nil {
		observeInvalid(err)
		return safety.Trace{}, err
	}

	outcome := "unsafe"
	if tr.IsSafe {
		outcome = "safe"
	}
	metrics.SafetyChecks.WithLabelValues(outcome).Inc()
	metrics.SafetyPasses.Observe(float64(len(tr.Passes)))

	if p.config.Verbose {
		for _, pass := range tr.Passes {
			log.Printf("[planner] pass %d granted %v work=%v", pass.Number, pass.Granted, pass.WorkAfter)
		}
		if len(tr.Blocked) > 0 {
			log.Printf("[planner] blocked: %v", tr.Blocked)
		}
	}
	return tr, nil
}

// Gate checks safety and returns domain.ErrUnsafeState when the planner
// requires a safe state, the snapshot is unsafe, and force is false.
// The trace is returned in every case where the check itself ran.
func (p *Planner) Gate(s domain.Snapshot, force bool) (safety.Trace, error) {
	tr, err := p.Check(s.Available, s.Processes)
	if err != nil {
		return tr, err
	}
	if !tr.IsSafe && p.config.RequireSafe && !force {
		metrics.Withheld.Inc()
		return tr, domain.ErrUnsafeState
	}
	return tr, nil
}

// Simulate runs one policy and records its outcome.
func (p *Planner) Simulate(powerLimit float64, processes []domain.Process, policy domain.Policy) (domain.ScheduleResult, error) {
	res, err := power.Simulate(powerLimit, processes, policy)
	if err != nil {
		observeInvalid(err)
		return res, err
	}
	observeSchedule(res)
	return res, nil
}

// Compare runs primary and its alternate and records both.
func (p *Planner) Compare(powerLimit float64, processes []domain.Process, primary domain.Policy) (domain.Comparison, error) {
	cmp, err := power.Compare(powerLimit, processes, primary)
	if err != nil {
		observeInvalid(err)
		return cmp, err
	}
	observeSchedule(cmp.Primary)
	observeSchedule(cmp.Alternate)
	return cmp, nil
}

// Run validates the snapshot, checks it, and schedules it when the gate
// allows. An unsafe snapshot that is withheld is a normal report with
// Withheld set, not an error.
func (p *Planner) Run(s domain.Snapshot, policy domain.Policy, opts Options) (Report, error) {
	if err := domain.ValidateSnapshot(s); err != nil {
		observeInvalid(err)
		return Report{}, err
	}
	if !policy.Valid() {
		err := domain.InvalidInput(domain.ErrUnknownPolicy, "%d", int(policy))
		observeInvalid(err)
		return Report{}, err
	}

	rep := Report{RunID: uuid.NewString(), Policy: policy}

	tr, err := p.Gate(s, opts.Force)
	rep.Safety = tr
	switch {
	case errors.Is(err, domain.ErrUnsafeState):
		rep.Withheld = true
		p.logf("[planner] run %s: unsafe, schedule withheld (finished %d of %d)",
			rep.RunID, len(tr.SafeSequence), len(s.Processes))
		return rep, nil
	case err != nil:
		return Report{}, err
	}

	cmp, err := p.Compare(s.PowerLimit, s.Processes, policy)
	if err != nil {
		return Report{}, err
	}
	rep.Schedule = &cmp
	p.logf("[planner] run %s: safe=%v %s admitted %d, battery left %.2f",
		rep.RunID, tr.IsSafe, policy, len(cmp.Primary.Admitted), cmp.Primary.BatteryLeft)
	return rep, nil
}

// logf writes an info-level line unless the planner is quiet.
func (p *Planner) logf(format string, args ...any) {
	if p.config.Quiet {
		return
	}
	log.Printf(format, args...)
}

func observeSchedule(res domain.ScheduleResult) {
	policy := res.Policy.String()
	metrics.Simulations.WithLabelValues(policy).Inc()
	metrics.ProcessesAdmitted.WithLabelValues(policy).Add(float64(len(res.Admitted)))
	metrics.ProcessesSkipped.WithLabelValues(policy).Add(float64(len(res.Skipped)))
	metrics.BatteryLeft.WithLabelValues(policy).Observe(res.BatteryLeft)
}

func observeInvalid(err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		metrics.InvalidInputs.WithLabelValues(domain.Reason(err)).Inc()
	}
}
