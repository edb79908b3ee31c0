package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
	"github.com/roach88/widgetc/internal/session"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Manifest is the config.xml document under test.
	Manifest string `yaml:"manifest,omitempty"`

	// ManifestFile names a manifest on disk instead, relative to the
	// scenario file. Resolved into Manifest when the scenario is loaded.
	ManifestFile string `yaml:"manifest_file,omitempty"`

	// Session is the packaging session. Credential paths are taken as
	// present without probing.
	Session session.Session `yaml:"session,omitempty"`

	// Capabilities lists the feature ids the build environment provides.
	// When empty, whitelists are not pruned.
	Capabilities []string `yaml:"capabilities,omitempty"`

	// GlobalFeatures replaces the built-in mandatory feature table.
	GlobalFeatures []ir.FeatureRef `yaml:"global_features,omitempty"`

	// Expect is the expected outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation describes a pipeline outcome. With no Error the run must
// succeed.
type Expectation struct {
	// Error is the expected message key of the fatal error.
	Error localize.Key `yaml:"error,omitempty"`

	// Message must be a substring of the rendered error message.
	Message string `yaml:"message,omitempty"`

	// Warnings lists the expected warning keys in order. Nil skips the
	// check; an empty list requires no warnings.
	Warnings []localize.Key `yaml:"warnings"`

	// Fields is a subset of the record's JSON form that must match.
	Fields map[string]any `yaml:"fields,omitempty"`
}

// LoadScenario reads the scenario at path and inlines its manifest_file,
// resolved relative to the scenario's directory. Unknown YAML fields and
// missing name, description or manifest are errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.ManifestFile != "" {
		manifestPath := scenario.ManifestFile
		if !filepath.IsAbs(manifestPath) {
			manifestPath = filepath.Join(filepath.Dir(path), manifestPath)
		}
		manifest, err := os.ReadFile(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: manifest file: %w", err)
		}
		scenario.Manifest = string(manifest)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML with strict field checking. It does
// not resolve ManifestFile or validate required fields.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("decode scenario YAML: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Manifest == "" {
		return fmt.Errorf("manifest or manifest_file is required")
	}

	if s.Expect.Error != "" && !localize.Known(s.Expect.Error) {
		return fmt.Errorf("expect.error: unknown message key %q", s.Expect.Error)
	}

	if s.Expect.Message != "" && s.Expect.Error == "" {
		return fmt.Errorf("expect.message requires expect.error")
	}

	if s.Expect.Error != "" && len(s.Expect.Fields) > 0 {
		return fmt.Errorf("expect.fields cannot be combined with expect.error")
	}

	for i, key := range s.Expect.Warnings {
		if !localize.Known(key) {
			return fmt.Errorf("expect.warnings[%d]: unknown message key %q", i, key)
		}
	}

	for i, f := range s.GlobalFeatures {
		if f.ID == "" {
			return fmt.Errorf("global_features[%d]: id is required", i)
		}
	}

	return nil
}
