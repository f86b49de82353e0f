package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/ballpark"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "ballpark version "+strings.TrimSpace(ballpark.Version)+"\n", out)
}

func TestTeamsAndPitchers(t *testing.T) {
	out, err := run(t, "", "teams")
	require.NoError(t, err)
	assert.Contains(t, out, "Chicago Cubs")
	assert.Contains(t, out, "LAD")

	out, err = run(t, "", "teams", "pitchers", "112")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Zach Kato"), strings.Index(out, "Eli Fowler"))

	_, err = run(t, "", "teams", "pitchers", "cubs")
	assert.ErrorContains(t, err, "invalid team id")
}

func TestSimulate_JSON(t *testing.T) {
	out, err := run(t, "", "simulate", "--seed", "5", "--team", "147", "--json")
	require.NoError(t, err)

	var res domain.SimulationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.State.IsFinal())
	assert.Equal(t, "New York Yankees", res.State.HomeTeam)
	assert.Len(t, res.Snapshots, res.Plays+1)
}

func TestPlay_PlainInput(t *testing.T) {
	out, err := run(t, "fastball\nq\n", "play", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "You throw a fastball.")
	assert.Contains(t, out, "Game ID: ")
}

func TestInvalidStore(t *testing.T) {
	_, err := run(t, "", "teams", "--store", "sqlite")
	assert.ErrorContains(t, err, `unknown store "sqlite"`)
}

// Runs last: --store and --dir persist on the root command.
func TestGameCommands_FileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "games")

	out, err := run(t, "", "game", "ls", "--store", "file", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No games found.")

	out, err = run(t, "", "simulate", "--store", "file", "--dir", dir, "--json=false", "--team", "0")
	require.NoError(t, err)
	id, _, _ := strings.Cut(out[strings.LastIndex(out, "Game ID: ")+len("Game ID: "):], "\n")
	require.NotEmpty(t, id)

	out, err = run(t, "", "game", "ls", "--store", "file", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "- "+id)

	out, err = run(t, "", "game", "inspect", id, "--store", "file", "--dir", dir, "--box")
	require.NoError(t, err)
	assert.Contains(t, out, "Final")

	out, err = run(t, "", "game", "rm", id, "--store", "file", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed game '"+id+"'")
}
