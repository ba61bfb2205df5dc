// Package cmdutil provides shared flags and pair selection for sheetsync commands.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetsync"
	"github.com/agentstation/sheetsync/pkg/errors"
)

// TargetFlags holds the pair selection of a command.
type TargetFlags struct {
	Targets []string
}

// AddTargetFlags adds --target to a command.
func AddTargetFlags(cmd *cobra.Command) *TargetFlags {
	flags := &TargetFlags{}
	cmd.Flags().StringSliceVarP(&flags.Targets, "target", "t", nil,
		"Only process these target ranges (repeatable, default all)")
	return flags
}

// All returns the flag targets followed by positional targets.
func (f *TargetFlags) All(args []string) []string {
	return append(append([]string(nil), f.Targets...), args...)
}

// SelectPairs returns the pairs whose target is listed, in configuration
// order, or every pair when targets is empty. Naming a target that is not
// configured is an error.
func SelectPairs(pairs []sheetsync.Pair, targets []string) ([]sheetsync.Pair, error) {
	if len(targets) == 0 {
		return pairs, nil
	}
	wanted := make(map[string]bool, len(targets))
	for _, t := range targets {
		wanted[t] = true
	}

	var selected []sheetsync.Pair
	for _, p := range pairs {
		if wanted[p.Target] {
			selected = append(selected, p)
			delete(wanted, p.Target)
		}
	}
	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for _, t := range targets {
			if wanted[t] {
				unknown = append(unknown, t)
				delete(wanted, t)
			}
		}
		return nil, &errors.ValidationError{
			Field:   "target",
			Value:   unknown,
			Message: fmt.Sprintf("unknown target(s): %s", strings.Join(unknown, ", ")),
		}
	}
	return selected, nil
}
