// Package power simulates greedy admission of processes under a fixed
// energy budget.
//
// The simulator walks an ordered list once. A process whose effective draw
// fits in the remaining battery is admitted and runs back-to-back after the
// previously admitted one; a process that does not fit is skipped for good.
// There is no retry and no reordering after a skip: this is a simple
// non-preemptive admission controller, not a knapsack packer.
package power

import (
	"sort"
	"sync"

	"github.com/tutu-network/powergate/internal/domain"
)

// Power-saving derating: draws strictly above DerateThreshold are scaled by
// DerateFactor and rounded to two decimals.
const (
	DerateThreshold = 20.0
	DerateFactor    = 0.8
)

// entry is a per-simulation copy of one process.
type entry struct {
	index int
	id    string
	power float64
	burst float64
}

// EffectiveDraw returns the power a process draws under policy.
func EffectiveDraw(power float64, policy domain.Policy) float64 {
	if policy == domain.PolicyPowerSaving && power > DerateThreshold {
		return domain.Round2(power * DerateFactor)
	}
	return power
}

// Order returns the original indices of processes in the order policy
// visits them. Performance keeps caller order; PowerSaving sorts by
// ascending power and keeps input order among equal draws.
func Order(processes []domain.Process, policy domain.Policy) []int {
	idx := make([]int, len(processes))
	for i := range idx {
		idx[i] = i
	}
	if policy == domain.PolicyPowerSaving {
		sort.SliceStable(idx, func(a, b int) bool {
			return processes[idx[a]].Power < processes[idx[b]].Power
		})
	}
	return idx
}

// Simulate runs one admission pass and returns its timeline and totals.
// The caller's process slice is never modified.
func Simulate(powerLimit float64, processes []domain.Process, policy domain.Policy) (domain.ScheduleResult, error) {
	if err := validate(powerLimit, processes, policy); err != nil {
		return domain.ScheduleResult{}, err
	}
	return simulate(powerLimit, worklist(processes, policy), policy), nil
}

// Compare simulates primary and its alternate policy over the same input.
// Each simulation works on its own copy, so the two run concurrently.
func Compare(powerLimit float64, processes []domain.Process, primary domain.Policy) (domain.Comparison, error) {
	if err := validate(powerLimit, processes, primary); err != nil {
		return domain.Comparison{}, err
	}
	alternate := primary.Alternate()

	var (
		wg  sync.WaitGroup
		cmp domain.Comparison
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cmp.Primary = simulate(powerLimit, worklist(processes, primary), primary)
	}()
	go func() {
		defer wg.Done()
		cmp.Alternate = simulate(powerLimit, worklist(processes, alternate), alternate)
	}()
	wg.Wait()
	return cmp, nil
}

// worklist copies the fields the scheduler reads, in visiting order, with
// the policy's effective draw already applied.
func worklist(processes []domain.Process, policy domain.Policy) []entry {
	order := Order(processes, policy)
	list := make([]entry, len(order))
	for pos, i := range order {
		p := processes[i]
		list[pos] = entry{
			index: i,
			id:    p.ID,
			power: EffectiveDraw(p.Power, policy),
			burst: p.Burst,
		}
	}
	return list
}

func simulate(powerLimit float64, list []entry, policy domain.Policy) domain.ScheduleResult {
	battery := powerLimit
	timeline := 0.0

	res := domain.ScheduleResult{
		Policy:      policy,
		PowerLimit:  powerLimit,
		Admitted:    make([]domain.Slot, 0, len(list)),
		Skipped:     []string{},
		Consumption: make([]domain.Consumption, 0, len(list)),
	}

	for _, e := range list {
		if battery < e.power {
			res.Skipped = append(res.Skipped, e.id)
			continue
		}
		res.Admitted = append(res.Admitted, domain.Slot{
			ID:        e.id,
			Index:     e.index,
			Start:     timeline,
			Duration:  e.burst,
			PowerUsed: e.power,
		})
		res.Consumption = append(res.Consumption, domain.Consumption{ID: e.id, Value: e.power})
		battery -= e.power
		timeline += e.burst
	}

	res.TotalConsumed = domain.Round2(powerLimit - battery)
	res.BatteryLeft = domain.Round2(battery)
	res.Makespan = domain.Round2(timeline)
	return res
}

func validate(powerLimit float64, processes []domain.Process, policy domain.Policy) error {
	if !policy.Valid() {
		return domain.InvalidInput(domain.ErrUnknownPolicy, "%d", int(policy))
	}
	if err := domain.ValidatePowerLimit(powerLimit); err != nil {
		return err
	}
	return domain.ValidateProcesses(processes)
}
