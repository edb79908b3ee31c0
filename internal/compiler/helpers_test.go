package compiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/xmltree"
)

// manifest wraps body in a widget root with valid identity fields.
func manifest(body string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<widget xmlns="http://www.w3.org/ns/widgets" xmlns:rim="http://www.blackberry.com/ns/widgets"
        version="1.0.0" id="myApp">
  <name>My App</name>
  <author>Research In Motion Ltd.</author>
  %s
</widget>`, body)
}

func mustParse(t *testing.T, src string) *xmltree.Node {
	t.Helper()
	root, err := xmltree.Parse([]byte(src))
	require.NoError(t, err)
	return root
}

func mustCompile(t *testing.T, src string, opts Options) *ir.Config {
	t.Helper()
	cfg, err := Compile([]byte(src), opts)
	require.NoError(t, err)
	return cfg
}

// validConfig is a normalized record that passes every rule.
func validConfig() *ir.Config {
	return &ir.Config{
		ID:          "myApp",
		Name:        "My App",
		Version:     "1.0.0",
		Author:      "Research In Motion Ltd.",
		ConfigXML:   ir.ConfigXML,
		AccessList:  []ir.AccessEntry{{URI: ir.LocalOrigin, AllowSubDomain: true, Features: ir.DefaultGlobalFeatures()}},
		Permissions: []string{PermissionAccessInternet},
	}
}
