package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/powergate/internal/planner"
)

func init() {
	runCmd.Flags().StringVar(&runPolicy, "policy", "", "Primary policy (overrides scenario)")
	runCmd.Flags().BoolVar(&runForce, "force", false, "Schedule even if the state is unsafe")
	rootCmd.AddCommand(runCmd)
}

var (
	runPolicy string
	runForce  bool
)

var runCmd = &cobra.Command{
	Use:   "run SCENARIO",
	Short: "Check safety, then compare both scheduling policies",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0], runPolicy, 0)
	if err != nil {
		return err
	}
	rep, err := sc.newPlanner().Run(sc.snap, sc.policy, planner.Options{Force: runForce})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, rep)
	}

	fmt.Fprintf(out, "Run %s\n", rep.RunID)
	if err := printSafety(out, sc.snap, rep.Safety, false); err != nil {
		return err
	}
	if rep.Withheld {
		fmt.Fprintln(out, "Scheduling withheld: state is unsafe (use --force to schedule anyway).")
		return nil
	}
	fmt.Fprintln(out)
	if err := printSchedule(out, rep.Schedule.Primary); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return printSchedule(out, rep.Schedule.Alternate)
}
