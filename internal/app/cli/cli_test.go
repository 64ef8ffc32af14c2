package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_Tree(t *testing.T) {
	root := NewRootCommand()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"remind"},
		{"export"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		require.Equal(t, path[len(path)-1], cmd.Name())
	}

	down, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	require.Equal(t, "1", down.Flags().Lookup("steps").DefValue)

	export, _, err := root.Find([]string{"export"})
	require.NoError(t, err)
	require.NotNil(t, export.Flags().Lookup("subscription-id"))
	require.Equal(t, "export.xlsx", export.Flags().Lookup("out").DefValue)
}

func TestExport_RequiresTarget(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"export", "--out", t.TempDir() + "/x.xlsx"})

	err := root.Execute()
	require.ErrorContains(t, err, "--subscription-id or --near-expiry")
}
