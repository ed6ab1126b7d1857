package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "version")
}

func TestVersion(t *testing.T) {
	old := Version
	Version = "1.2.3"
	t.Cleanup(func() { Version = old })

	out, err := executeCommand("version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", strings.TrimSpace(out))
}

func TestServeFlags(t *testing.T) {
	root := NewRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	port := serve.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "", port.DefValue)
}

func TestServeRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	_, err := executeCommand("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestServeRejectsArgs(t *testing.T) {
	_, err := executeCommand("serve", "extra")
	assert.Error(t, err)
}
