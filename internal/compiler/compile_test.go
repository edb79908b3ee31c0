package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
)

func TestCompileMalformedXML(t *testing.T) {
	const valid = `<widget version="1.0.0" id="a"><name>n</name><author>a</author></widget>`

	tests := []struct {
		name string
		doc  string
	}{
		{"unterminated element", `<widget><name>oops</widget>`},
		{"second root", valid + `<widget version="1.0.0" id="b"><name>n</name><author>b</author></widget>`},
		{"text after root", valid + `trailing junk`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Compile([]byte(tt.doc), Options{})
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, diag.IsKind(err, diag.KindParse))
			assert.True(t, diag.HasKey(err, localize.ParsingXML))
		})
	}
}

func TestCompileEmptyDocument(t *testing.T) {
	_, err := Compile(nil, Options{})
	require.Error(t, err)
	assert.True(t, diag.IsKind(err, diag.KindParse))
}

func TestCompileMissingAuthor(t *testing.T) {
	_, err := Compile([]byte(`<widget version="1.0.0" id="myApp"><name>n</name></widget>`), Options{})
	assert.True(t, diag.HasKey(err, localize.InvalidAuthor))

	_, err = Compile([]byte(`<widget version="1.0.0" id="myApp"><name>n</name><author/></widget>`), Options{})
	assert.True(t, diag.HasKey(err, localize.InvalidAuthor))
}

func TestCompileVersionBuildID(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		override string
		wantVer  string
		wantID   string
	}{
		{"three part", "1.0.0", "", "1.0.0", ""},
		{"four part", "1.0.0.50", "", "1.0.0", "50"},
		{"override wins", "1.0.0.50", "100", "1.0.0", "100"},
		{"override without embedded", "1.0.0", "7", "1.0.0", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `<widget version="` + tt.version + `" id="myApp"><name>n</name><author>a</author></widget>`
			cfg := mustCompile(t, src, Options{BuildID: tt.override})
			assert.Equal(t, tt.wantVer, cfg.Version)
			assert.Equal(t, tt.wantID, cfg.BuildID)
		})
	}
}

func TestCompileCustomGlobalFeatures(t *testing.T) {
	globals := []ir.FeatureRef{{ID: "blackberry.ui", Required: true, Version: "1.0.0"}}
	cfg := mustCompile(t, manifest(`<access uri="http://a.com"/>`), Options{GlobalFeatures: globals})

	for _, e := range cfg.AccessList {
		assert.Equal(t, globals, e.Features)
	}

	cfg = mustCompile(t, manifest(""), Options{GlobalFeatures: []ir.FeatureRef{}})
	assert.Empty(t, cfg.LocalEntry().Features)
}

func TestCompileFullManifest(t *testing.T) {
	cfg := mustCompile(t, manifest(`
  <description>Sample</description>
  <license href="http://www.apache.org/licenses/LICENSE-2.0">Apache</license>
  <icon src="icon.png"/>
  <content src="index.html"/>
  <feature id="blackberry.app"/>
  <access uri="*"/>
  <access uri="http://www.somedomain1.com" subdomains="true">
    <feature id="blackberry.app.orientation" required="true" version="1.0.0"/>
  </access>
  <rim:orientation mode="portrait"/>
  <rim:permissions><rim:permit>use_camera</rim:permit></rim:permissions>`), Options{})

	assert.Equal(t, "myApp", cfg.ID)
	assert.Equal(t, "local:///index.html", cfg.Content)
	assert.True(t, cfg.HasMultiAccess)
	require.Len(t, cfg.AccessList, 2)
	assert.True(t, cfg.AccessList[0].HasFeature("blackberry.app"))
	assert.True(t, cfg.AccessList[0].HasFeature("blackberry.event"))
	assert.True(t, cfg.AccessList[1].HasFeature("blackberry.app.orientation"))
	assert.True(t, cfg.AccessList[1].HasFeature("blackberry.event"))
	assert.Equal(t, "portrait", cfg.Orientation)
	assert.False(t, cfg.AutoOrientation)
	assert.Equal(t, []string{"use_camera", "access_internet"}, cfg.Permissions)
	assert.NoError(t, ir.ValidateRecord(cfg))
}

func TestNormalizeDoesNotValidate(t *testing.T) {
	root := mustParse(t, `<widget version="x" id="-"><access uri="nope"/></widget>`)
	cfg, err := Normalize(root, Options{})
	require.NoError(t, err)
	assert.Len(t, ValidateAll(cfg), 5)
}
