/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "gangwars", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"shell", "run", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "config.yml", configFlag.DefValue)

	metricsFlag := cmd.PersistentFlags().Lookup("metrics-addr")
	require.NotNil(t, metricsFlag)
	assert.Equal(t, "", metricsFlag.DefValue)
}

func TestInvalidLogLevel(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "loud", "run", "gang-list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "gangwars version "))
}

// execute runs the CLI against a config and data directory in dir.
func execute(t *testing.T, dir, input string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yml"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--data-dir", dir,
		"--color=false",
	}, args...))

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, dir, "", "run", "--as", "alice", "gang-create", "red")
	assert.Equal(t, "@alice [GANGWARS] Successfully created gang red\n", out)

	// The player ID is derived from the name, so alice is still the leader
	// after a restart.
	out = execute(t, dir, "", "run", "--as", "alice", "gang-info", "red")
	assert.Equal(t, "@alice [GANGWARS] Gang red: alice (Leader)\n", out)

	assert.FileExists(t, filepath.Join(dir, "config.yml"))
	assert.FileExists(t, filepath.Join(dir, "gangs.yml"))
}

func TestShellCommand(t *testing.T) {
	dir := t.TempDir()
	input := strings.Join([]string{
		"# comments and blank lines are skipped",
		"",
		"@alice gang-create red",
		"@bob gang-join red",
		":time 13000",
		"gang-frobnicate",
		"gang-info",
		"gang-list",
		":quit",
		"gang-admin-create never",
	}, "\n")

	out := execute(t, dir, input, "--backend", "memory", "shell", "--tick", "1h")

	assert.Equal(t, ""+
		"@alice [GANGWARS] Successfully created gang red\n"+
		"@bob [GANGWARS] You aren't invited to red\n"+
		"world time 13000 (war)\n"+
		"unknown command \"gang-frobnicate\", try :help\n"+
		"usage: /gang-info <gang>\n"+
		"[GANGWARS] Gangs: red\n",
		out)
}

func TestShellHelp(t *testing.T) {
	out := execute(t, t.TempDir(), ":help\n", "--backend", "memory", "shell", "--tick", "1h")

	assert.Contains(t, out, "/gang-join <gang>")
	assert.Contains(t, out, "(players)")
	assert.Contains(t, out, "/gang-admin-rename <gang> <name>")
}
