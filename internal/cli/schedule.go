package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tutu-network/powergate/internal/domain"
)

func init() {
	scheduleCmd.Flags().StringVar(&schedulePolicy, "policy", "", "performance or powerSaving (overrides scenario)")
	scheduleCmd.Flags().Float64Var(&scheduleLimit, "limit", 0, "Power limit in [1, 100] (overrides scenario)")
	scheduleCmd.Flags().BoolVar(&scheduleCompare, "compare", false, "Also show the alternate policy")
	scheduleCmd.Flags().BoolVar(&scheduleForce, "force", false, "Schedule even if the state is unsafe")
	rootCmd.AddCommand(scheduleCmd)
}

var (
	schedulePolicy  string
	scheduleLimit   float64
	scheduleCompare bool
	scheduleForce   bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule SCENARIO",
	Short: "Simulate power-budgeted admission",
	Long: `Simulate greedy admission of the scenario's processes under a power
limit. When planner.require_safe is set, the scenario is safety-checked
first and an unsafe state aborts unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0], schedulePolicy, scheduleLimit)
	if err != nil {
		return err
	}
	p := sc.newPlanner()
	out := cmd.OutOrStdout()

	if _, err := p.Gate(sc.snap, scheduleForce); err != nil {
		if errors.Is(err, domain.ErrUnsafeState) {
			return fmt.Errorf("%w (use --force to schedule anyway)", err)
		}
		return err
	}

	if !scheduleCompare {
		res, err := p.Simulate(sc.snap.PowerLimit, sc.snap.Processes, sc.policy)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out, res)
		}
		return printSchedule(out, res)
	}

	cmp, err := p.Compare(sc.snap.PowerLimit, sc.snap.Processes, sc.policy)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(out, cmp)
	}
	if err := printSchedule(out, cmp.Primary); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return printSchedule(out, cmp.Alternate)
}

func printSchedule(out io.Writer, res domain.ScheduleResult) error {
	fmt.Fprintf(out, "%s (limit %.2f W)\n", res.Policy.Label(), res.PowerLimit)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tDURATION\tPOWER")
	for _, s := range res.Admitted {
		fmt.Fprintf(w, "%s\t%g\t%g\t%.2f\n", s.ID, s.Start, s.Duration, s.PowerUsed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped: %v\n", res.Skipped)
	}
	fmt.Fprintf(out, "Total consumed: %.2f W\n", res.TotalConsumed)
	fmt.Fprintf(out, "Battery left:   %.2f W\n", res.BatteryLeft)
	return nil
}
