package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "widgetc", cmd.Use)
	assert.Contains(t, cmd.Long, "config.xml")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"compile"},
		{"validate"},
		{"test"},
		{"registry"},
		{"registry", "add"},
		{"registry", "list"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	for _, name := range []string{"session", "build-id", "storepass", "signing-dir", "feature", "ext-dir", "registry-db", "staging"} {
		assert.NotNil(t, compileCmd.Flags().Lookup(name), "missing flag --%s", name)
	}
}

func TestRegistryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	registryCmd, _, err := cmd.Find([]string{"registry"})
	require.NoError(t, err)

	dbFlag := registryCmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	_, _, err := execute(cmd, "--format", "yaml", "validate", "config.xml")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestRootOptions_TraceID(t *testing.T) {
	fixed := testRootOptions("json")
	assert.Equal(t, testTraceID, fixed.newTraceID())

	random := &RootOptions{}
	first, second := random.newTraceID(), random.newTraceID()
	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)
}

func TestRootCommand_Version(t *testing.T) {
	out, _, err := execute(NewRootCommand(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "widgetc version 0.1.0 (record v1)")
}
