package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tutu-network/powergate/internal/daemon"
	"github.com/tutu-network/powergate/internal/domain"
	"github.com/tutu-network/powergate/internal/planner"
	"github.com/tutu-network/powergate/internal/snapshot"
)

// scenario is a loaded and normalized input plus the effective settings.
type scenario struct {
	cfg    daemon.Config
	snap   domain.Snapshot
	policy domain.Policy
}

func loadConfig() (daemon.Config, error) {
	if configPath != "" {
		return daemon.LoadConfigFrom(configPath)
	}
	return daemon.LoadConfig()
}

// loadScenario reads path and applies config defaults and flag overrides.
// policyFlag and limit are ignored when empty or zero.
func loadScenario(path, policyFlag string, limit float64) (scenario, error) {
	cfg, err := loadConfig()
	if err != nil {
		return scenario{}, err
	}

	in, err := snapshot.LoadFile(path)
	if err != nil {
		return scenario{}, err
	}
	if in.Dimensions == 0 && len(in.Available) == 0 {
		in.Dimensions = cfg.Defaults.Dimensions
	}
	if policyFlag != "" {
		in.Policy = policyFlag
	}
	if limit != 0 {
		in.PowerLimit = snapshot.Number(limit)
	}

	policy, err := in.PolicyOr(cfg.DefaultPolicy())
	if err != nil {
		return scenario{}, err
	}
	return scenario{cfg: cfg, snap: in.Normalize(), policy: policy}, nil
}

func (s scenario) newPlanner() *planner.Planner {
	return planner.New(planner.Config{
		RequireSafe: s.cfg.Planner.RequireSafe,
		Verbose:     s.cfg.Debug(),
		Quiet:       s.cfg.Quiet(),
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// joinIDs renders a sequence of process indices using their ids.
func joinIDs(snap domain.Snapshot, idx []int) string {
	if len(idx) == 0 {
		return "-"
	}
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = snap.Processes[j].ID
	}
	return strings.Join(parts, ", ")
}

func formatVector(v domain.ResourceVector) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%g", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
