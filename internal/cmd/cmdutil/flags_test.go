package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetsync"
	"github.com/agentstation/sheetsync/pkg/errors"
)

func TestSelectPairs(t *testing.T) {
	pairs := []sheetsync.Pair{
		{Source: "https://a", Target: "A"},
		{Source: "https://b", Target: "B"},
		{Source: "https://c", Target: "C"},
	}

	tests := []struct {
		name    string
		targets []string
		want    []string
		wantErr string
	}{
		{name: "all", want: []string{"A", "B", "C"}},
		{name: "config order kept", targets: []string{"C", "A"}, want: []string{"A", "C"}},
		{name: "duplicates", targets: []string{"B", "B"}, want: []string{"B"}},
		{name: "unknown", targets: []string{"A", "X", "Y"}, wantErr: "unknown target(s): X, Y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectPairs(pairs, tt.targets)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			var targets []string
			for _, p := range got {
				targets = append(targets, p.Target)
			}
			assert.Equal(t, tt.want, targets)
		})
	}
}

func TestTargetFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	flags := AddTargetFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--target", "A,B", "-t", "C"}))
	assert.Equal(t, []string{"A", "B", "C", "D"}, flags.All([]string{"D"}))
}
