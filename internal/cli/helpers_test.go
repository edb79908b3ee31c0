package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/widgetc/internal/testutil"
)

const testTraceID = "trace-test-1"

// validManifest compiles cleanly with no session.
const validManifest = `<?xml version="1.0" encoding="UTF-8"?>
<widget xmlns="http://www.w3.org/ns/widgets" version="1.0.0" id="myApp">
  <name>My App</name>
  <author>Research In Motion Ltd.</author>
  <content src="index.html"/>
  <feature id="blackberry.app"/>
  <access uri="http://www.somedomain1.com" subdomains="true">
    <feature id="blackberry.invoke"/>
  </access>
</widget>`

// invalidManifest breaks the version, id and access rules at once.
const invalidManifest = `<widget version="1.0" id="my-app">
  <name>My App</name>
  <author>Research In Motion Ltd.</author>
  <access uri="www.somedomain1.com"/>
</widget>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testRootOptions(format string) *RootOptions {
	return &RootOptions{Format: format, Trace: testutil.NewFixedTraceGenerator(testTraceID)}
}

// execute runs cmd with args and returns what it wrote to stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
