package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tutu-network/powergate/internal/domain"
	"github.com/tutu-network/powergate/internal/safety"
)

func init() {
	checkCmd.Flags().BoolVar(&checkPasses, "passes", false, "Show every granting pass")
	rootCmd.AddCommand(checkCmd)
}

var checkPasses bool

var checkCmd = &cobra.Command{
	Use:   "check SCENARIO",
	Short: "Check whether a process table is in a safe state",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0], "", 0)
	if err != nil {
		return err
	}
	tr, err := sc.newPlanner().Check(sc.snap.Available, sc.snap.Processes)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), tr)
	}
	return printSafety(cmd.OutOrStdout(), sc.snap, tr, checkPasses)
}

func printSafety(out io.Writer, snap domain.Snapshot, tr safety.Trace, passes bool) error {
	if tr.IsSafe {
		fmt.Fprintf(out, "No deadlock. Safe sequence: %s\n", joinIDs(snap, tr.SafeSequence))
	} else {
		fmt.Fprintf(out, "Deadlock detected. Proven safe: %s; blocked: %s\n",
			joinIDs(snap, tr.SafeSequence), joinIDs(snap, tr.Blocked))
	}
	if !passes {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PASS\tGRANTED\tWORK AFTER")
	for _, p := range tr.Passes {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.Number, joinIDs(snap, p.Granted), formatVector(p.WorkAfter))
	}
	return w.Flush()
}
