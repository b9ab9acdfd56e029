package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, cmd := range newRootCommand().Commands() {
		names = append(names, cmd.Name())
	}

	assert.Subset(t, names, []string{"render", "inspect", "serve", "mcp", "version"})
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "chartkit ")
	assert.Contains(t, out.String(), "commit:")
}
