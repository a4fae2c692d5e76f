package cli_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"opticshop/internal/cli"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "opticctl")
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "seed", "import", "export", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestImportCommand_RequiresFile(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"import"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"file"`)
}

func TestImportCommand_MissingFile(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"import", "--file", filepath.Join(t.TempDir(), "absent.csv")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}

func TestMigrateRollback_RejectsNonPositiveSteps(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate", "rollback", "--steps", "0"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps must be positive")
}
