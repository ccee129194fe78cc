package config

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logCmd struct {
	Days int `help:"Days to show." default:"7"`
}

type habitCmd struct {
	Log logCmd `cmd:""`
}

type testCLI struct {
	Config  string   `help:"Storage location."`
	Debug   bool     `help:"Debug logging."`
	MaxRows int      `help:"Row limit." default:"10"`
	Habit   habitCmd `cmd:""`
}

func parse(t *testing.T, yamlText string, args ...string) testCLI {
	t.Helper()
	resolver, err := YAML(strings.NewReader(yamlText))
	require.NoError(t, err)

	var cli testCLI
	parser, err := kong.New(&cli, kong.Resolvers(resolver), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return cli
}

func TestYAMLTopLevelFlags(t *testing.T) {
	cli := parse(t, "config: /tmp/habits.json\ndebug: true\nmax_rows: 25\n", "habit", "log")
	assert.Equal(t, "/tmp/habits.json", cli.Config)
	assert.True(t, cli.Debug)
	assert.Equal(t, 25, cli.MaxRows)
}

func TestYAMLDashedKeys(t *testing.T) {
	cli := parse(t, "max-rows: 3\n", "habit", "log")
	assert.Equal(t, 3, cli.MaxRows)
}

func TestYAMLCommandSection(t *testing.T) {
	cli := parse(t, "habit:\n  log:\n    days: 30\n", "habit", "log")
	assert.Equal(t, 30, cli.Habit.Log.Days)
}

func TestFlagsOverrideFile(t *testing.T) {
	cli := parse(t, "config: /tmp/from-file.db\n", "--config", "/tmp/from-flag.db", "habit", "log")
	assert.Equal(t, "/tmp/from-flag.db", cli.Config)
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	cli := parse(t, "", "habit", "log")
	assert.Equal(t, 7, cli.Habit.Log.Days)
	assert.Equal(t, 10, cli.MaxRows)
	assert.Empty(t, cli.Config)
}

func TestInvalidYAML(t *testing.T) {
	_, err := YAML(strings.NewReader("config: [unterminated"))
	assert.ErrorContains(t, err, "invalid config file")
}
