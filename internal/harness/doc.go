// Package harness provides a conformance testing framework for the
// manifest compiler.
//
// A scenario is a YAML file holding a manifest (inline or by path), the
// session it is packaged under, the capabilities available in the build
// environment and the expected outcome. Run drives the full packaging
// pipeline (compile, whitelist pruning, signing prerequisites) and Check
// compares the outcome against the expectation.
//
// # Scenario format
//
//	name: wildcard_with_feature
//	description: "A wildcard access element may not declare features"
//	manifest: |
//	  <widget version="1.0.0" id="myApp">
//	    <name>My App</name>
//	    <author>RIM</author>
//	    <access uri="*"><feature id="blackberry.app"/></access>
//	  </widget>
//	expect:
//	  error: EXCEPTION_FEATURE_DEFINED_WITH_WILDCARD_ACCESS_URI
//
// Session credential paths in a scenario are taken as present; the harness
// never touches the filesystem for them.
//
// # Golden files
//
// RunWithGolden snapshots the outcome (record, error or warnings) as
// indented JSON and compares it with testdata/golden/<name>.golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
