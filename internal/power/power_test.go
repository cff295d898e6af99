package power

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tutu-network/powergate/internal/domain"
)

func threeProcs() []domain.Process {
	return []domain.Process{
		{ID: "P0", Power: 10, Burst: 5},
		{ID: "P1", Power: 30, Burst: 3},
		{ID: "P2", Power: 25, Burst: 2},
	}
}

func admittedIDs(res domain.ScheduleResult) []string {
	ids := make([]string, len(res.Admitted))
	for i, s := range res.Admitted {
		ids[i] = s.ID
	}
	return ids
}

func assertConservation(t *testing.T, res domain.ScheduleResult) {
	t.Helper()
	if d := math.Abs(res.TotalConsumed + res.BatteryLeft - res.PowerLimit); d > 0.01 {
		t.Errorf("TotalConsumed %v + BatteryLeft %v != PowerLimit %v", res.TotalConsumed, res.BatteryLeft, res.PowerLimit)
	}
	sum := 0.0
	for _, s := range res.Admitted {
		sum += s.PowerUsed
	}
	if d := math.Abs(domain.Round2(sum) - res.TotalConsumed); d > 0.01 {
		t.Errorf("sum(PowerUsed) = %v, TotalConsumed = %v", sum, res.TotalConsumed)
	}
}

// ─── Reference Scenarios ────────────────────────────────────────────────────

func TestSimulate_Performance(t *testing.T) {
	res, err := Simulate(50, threeProcs(), domain.PolicyPerformance)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	want := []domain.Slot{
		{ID: "P0", Index: 0, Start: 0, Duration: 5, PowerUsed: 10},
		{ID: "P1", Index: 1, Start: 5, Duration: 3, PowerUsed: 30},
	}
	if !reflect.DeepEqual(res.Admitted, want) {
		t.Errorf("Admitted = %+v, want %+v", res.Admitted, want)
	}
	if !reflect.DeepEqual(res.Skipped, []string{"P2"}) {
		t.Errorf("Skipped = %v, want [P2]", res.Skipped)
	}
	if res.TotalConsumed != 40 {
		t.Errorf("TotalConsumed = %v, want 40", res.TotalConsumed)
	}
	if res.BatteryLeft != 10 {
		t.Errorf("BatteryLeft = %v, want 10", res.BatteryLeft)
	}
	if res.Makespan != 8 {
		t.Errorf("Makespan = %v, want 8", res.Makespan)
	}
	assertConservation(t, res)
}

func TestSimulate_PowerSaving(t *testing.T) {
	res, err := Simulate(50, threeProcs(), domain.PolicyPowerSaving)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	want := []domain.Slot{
		{ID: "P0", Index: 0, Start: 0, Duration: 5, PowerUsed: 10},
		{ID: "P2", Index: 2, Start: 5, Duration: 2, PowerUsed: 20},
	}
	if !reflect.DeepEqual(res.Admitted, want) {
		t.Errorf("Admitted = %+v, want %+v", res.Admitted, want)
	}
	if !reflect.DeepEqual(res.Skipped, []string{"P1"}) {
		t.Errorf("Skipped = %v, want [P1]", res.Skipped)
	}
	wantPie := []domain.Consumption{{ID: "P0", Value: 10}, {ID: "P2", Value: 20}}
	if !reflect.DeepEqual(res.Consumption, wantPie) {
		t.Errorf("Consumption = %+v, want %+v", res.Consumption, wantPie)
	}
	if res.TotalConsumed != 30 {
		t.Errorf("TotalConsumed = %v, want 30", res.TotalConsumed)
	}
	if res.BatteryLeft != 20 {
		t.Errorf("BatteryLeft = %v, want 20", res.BatteryLeft)
	}
	assertConservation(t, res)
}

// ─── Derating & Ordering ────────────────────────────────────────────────────

func TestEffectiveDraw(t *testing.T) {
	tests := []struct {
		power  float64
		policy domain.Policy
		want   float64
	}{
		{30, domain.PolicyPerformance, 30},
		{30, domain.PolicyPowerSaving, 24},
		{20, domain.PolicyPowerSaving, 20}, // threshold itself is not derated
		{20.01, domain.PolicyPowerSaving, 16.01},
		{33.33, domain.PolicyPowerSaving, 26.66},
		{0, domain.PolicyPowerSaving, 0},
	}
	for _, tt := range tests {
		if got := EffectiveDraw(tt.power, tt.policy); got != tt.want {
			t.Errorf("EffectiveDraw(%v, %s) = %v, want %v", tt.power, tt.policy, got, tt.want)
		}
	}
}

func TestOrder_StableByPower(t *testing.T) {
	procs := []domain.Process{
		{ID: "A", Power: 15},
		{ID: "B", Power: 5},
		{ID: "C", Power: 15},
		{ID: "D", Power: 5},
	}
	if got := Order(procs, domain.PolicyPowerSaving); !reflect.DeepEqual(got, []int{1, 3, 0, 2}) {
		t.Errorf("Order(PowerSaving) = %v, want [1 3 0 2]", got)
	}
	if got := Order(procs, domain.PolicyPerformance); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("Order(Performance) = %v, want [0 1 2 3]", got)
	}
}

func TestSimulate_ExactFitIsAdmitted(t *testing.T) {
	res, err := Simulate(30, []domain.Process{{ID: "P0", Power: 30, Burst: 1}}, domain.PolicyPerformance)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if len(res.Admitted) != 1 {
		t.Fatalf("len(Admitted) = %d, want 1", len(res.Admitted))
	}
	if res.BatteryLeft != 0 {
		t.Errorf("BatteryLeft = %v, want 0", res.BatteryLeft)
	}
}

func TestSimulate_ZeroFieldsAreAdmitted(t *testing.T) {
	procs := []domain.Process{{ID: "P0"}, {ID: "P1"}}
	res, err := Simulate(1, procs, domain.PolicyPowerSaving)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if !reflect.DeepEqual(admittedIDs(res), []string{"P0", "P1"}) {
		t.Errorf("admitted = %v, want [P0 P1]", admittedIDs(res))
	}
	if res.Admitted[1].Start != 0 {
		t.Errorf("P1 start = %v, want 0 (zero burst)", res.Admitted[1].Start)
	}
	assertConservation(t, res)
}

// ─── Properties ─────────────────────────────────────────────────────────────

func TestSimulate_SkipIsIrrevocable(t *testing.T) {
	// Greedy admission keeps scanning after a skip: the expensive process is
	// dropped but the cheap one after it still runs. Reordering the same
	// processes changes which ones are admitted.
	procs := []domain.Process{
		{ID: "big", Power: 15, Burst: 1},
		{ID: "huge", Power: 9, Burst: 1},
		{ID: "small", Power: 4, Burst: 1},
	}
	perf, err := Simulate(20, procs, domain.PolicyPerformance)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if !reflect.DeepEqual(admittedIDs(perf), []string{"big", "small"}) {
		t.Errorf("performance admitted = %v, want [big small]", admittedIDs(perf))
	}

	saving, err := Simulate(20, procs, domain.PolicyPowerSaving)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if !reflect.DeepEqual(admittedIDs(saving), []string{"small", "huge"}) {
		t.Errorf("power-saving admitted = %v, want [small huge]", admittedIDs(saving))
	}
	if !reflect.DeepEqual(saving.Skipped, []string{"big"}) {
		t.Errorf("power-saving skipped = %v, want [big]", saving.Skipped)
	}
}

func TestSimulate_Conservation(t *testing.T) {
	procs := []domain.Process{
		{ID: "P0", Power: 12.345, Burst: 1.5},
		{ID: "P1", Power: 21.111, Burst: 2.25},
		{ID: "P2", Power: 7.07, Burst: 3},
		{ID: "P3", Power: 44.9, Burst: 0.5},
		{ID: "P4", Power: 0.01, Burst: 1},
	}
	for _, limit := range []float64{1, 13.7, 37.5, 64, 99.99, 100} {
		for _, policy := range []domain.Policy{domain.PolicyPerformance, domain.PolicyPowerSaving} {
			res, err := Simulate(limit, procs, policy)
			if err != nil {
				t.Fatalf("Simulate(%v, %s) error: %v", limit, policy, err)
			}
			assertConservation(t, res)
			if len(res.Admitted)+len(res.Skipped) != len(procs) {
				t.Errorf("limit %v %s: admitted %d + skipped %d != %d",
					limit, policy, len(res.Admitted), len(res.Skipped), len(procs))
			}
		}
	}
}

func TestSimulate_TotalsRoundLikeDecimal(t *testing.T) {
	procs := []domain.Process{
		{ID: "P0", Power: 12.345, Burst: 1.5},
		{ID: "P1", Power: 21.111, Burst: 2.25},
		{ID: "P2", Power: 7.07, Burst: 3},
		{ID: "P3", Power: 44.9, Burst: 0.5},
		{ID: "P4", Power: 0.01, Burst: 1},
	}
	// Battery ends at 27.685000000000002, so the consumed total sits just
	// below 36.315 and must round down.
	res, err := Simulate(64, procs, domain.PolicyPowerSaving)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if res.TotalConsumed != 36.31 {
		t.Errorf("TotalConsumed = %v, want 36.31", res.TotalConsumed)
	}
	if res.BatteryLeft != 27.69 {
		t.Errorf("BatteryLeft = %v, want 27.69", res.BatteryLeft)
	}
	if sum := domain.Round2(res.TotalConsumed + res.BatteryLeft); sum != 64 {
		t.Errorf("TotalConsumed + BatteryLeft = %v, want 64", sum)
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	first, _ := Simulate(50, threeProcs(), domain.PolicyPowerSaving)
	for i := 0; i < 10; i++ {
		again, _ := Simulate(50, threeProcs(), domain.PolicyPowerSaving)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	procs := threeProcs()
	want := domain.CloneProcesses(procs)
	if _, err := Simulate(50, procs, domain.PolicyPowerSaving); err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if !reflect.DeepEqual(procs, want) {
		t.Errorf("processes mutated: %+v, want %+v", procs, want)
	}
}

// ─── Compare ────────────────────────────────────────────────────────────────

func TestCompare_MatchesSequentialRuns(t *testing.T) {
	procs := threeProcs()
	cmp, err := Compare(50, procs, domain.PolicyPerformance)
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}
	perf, _ := Simulate(50, procs, domain.PolicyPerformance)
	saving, _ := Simulate(50, procs, domain.PolicyPowerSaving)

	if !reflect.DeepEqual(cmp.Primary, perf) {
		t.Errorf("Primary = %+v, want %+v", cmp.Primary, perf)
	}
	if !reflect.DeepEqual(cmp.Alternate, saving) {
		t.Errorf("Alternate = %+v, want %+v", cmp.Alternate, saving)
	}
	if !reflect.DeepEqual(procs, threeProcs()) {
		t.Error("Compare mutated its input")
	}
}

func TestCompare_PowerSavingPrimary(t *testing.T) {
	cmp, err := Compare(50, threeProcs(), domain.PolicyPowerSaving)
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}
	if cmp.Primary.Policy != domain.PolicyPowerSaving || cmp.Alternate.Policy != domain.PolicyPerformance {
		t.Errorf("policies = %s/%s, want powerSaving/performance", cmp.Primary.Policy, cmp.Alternate.Policy)
	}
}

// ─── Validation ─────────────────────────────────────────────────────────────

func TestSimulate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		limit  float64
		procs  []domain.Process
		policy domain.Policy
		cause  error
	}{
		{"limit below range", 0.5, threeProcs(), domain.PolicyPerformance, domain.ErrPowerLimitRange},
		{"limit above range", 100.01, threeProcs(), domain.PolicyPerformance, domain.ErrPowerLimitRange},
		{"limit NaN", math.NaN(), threeProcs(), domain.PolicyPerformance, domain.ErrPowerLimitRange},
		{"negative power", 50, []domain.Process{{ID: "P0", Power: -1}}, domain.PolicyPerformance, domain.ErrNegativeValue},
		{"negative burst", 50, []domain.Process{{ID: "P0", Burst: -3}}, domain.PolicyPowerSaving, domain.ErrNegativeValue},
		{"duplicate id", 50, []domain.Process{{ID: "P0"}, {ID: "P0"}}, domain.PolicyPerformance, domain.ErrDuplicateID},
		{"empty id", 50, []domain.Process{{ID: ""}}, domain.PolicyPerformance, domain.ErrEmptyID},
		{"unknown policy", 50, threeProcs(), domain.Policy(7), domain.ErrUnknownPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Simulate(tt.limit, tt.procs, tt.policy)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want cause %v", err, tt.cause)
			}
		})
	}

	if _, err := Compare(0, threeProcs(), domain.PolicyPerformance); !errors.Is(err, domain.ErrPowerLimitRange) {
		t.Errorf("Compare(0) error = %v, want ErrPowerLimitRange", err)
	}
}
