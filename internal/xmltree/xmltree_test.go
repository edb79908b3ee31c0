package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AttributesAndText(t *testing.T) {
	root, err := Parse([]byte(`<?xml version="1.0"?>
<widget xmlns:rim="http://www.blackberry.com/ns/widgets" version="1.0.0" id="MyApp">
  <name>  Demo
     App </name>
  <author href="http://example.com/" rim:copyright="none">Someone</author>
</widget>`))
	require.NoError(t, err)

	assert.Equal(t, "widget", root.Name)
	assert.Equal(t, "1.0.0", root.AttrValue("version"))
	assert.Equal(t, "http://www.blackberry.com/ns/widgets", root.AttrValue("xmlns:rim"))

	name, ok := root.Lookup("name").(*Node)
	require.True(t, ok)
	assert.Equal(t, "Demo App", name.Text)
	assert.True(t, name.IsScalar())

	author, ok := root.Lookup("author").(*Node)
	require.True(t, ok)
	assert.Equal(t, "none", author.AttrValue("rim:copyright"))
	assert.False(t, author.IsScalar())
}

func TestLookup_Cardinality(t *testing.T) {
	root, err := Parse([]byte(`<widget>
  <feature id="a"/>
  <access uri="http://one"/>
  <access uri="http://two"/>
</widget>`))
	require.NoError(t, err)

	assert.Nil(t, root.Lookup("icon"))

	single, ok := root.Lookup("feature").(*Node)
	require.True(t, ok)
	assert.Equal(t, "a", single.AttrValue("id"))

	many, ok := root.Lookup("access").(Nodes)
	require.True(t, ok)
	require.Len(t, many, 2)
	assert.Equal(t, "http://two", many[1].AttrValue("uri"))
}

func TestParse_NamespacedElements(t *testing.T) {
	root, err := Parse([]byte(`<widget xmlns:rim="ns"><rim:permissions><rim:permit>use_camera</rim:permit></rim:permissions></widget>`))
	require.NoError(t, err)

	perms, ok := root.Lookup("rim:permissions").(*Node)
	require.True(t, ok)
	permit, ok := perms.Lookup("rim:permit").(*Node)
	require.True(t, ok)
	assert.Equal(t, "use_camera", permit.Text)
}

func TestNode_EmptyElement(t *testing.T) {
	root, err := Parse([]byte(`<widget><author/></widget>`))
	require.NoError(t, err)

	author := root.Lookup("author").(*Node)
	assert.True(t, author.IsEmpty())
	assert.False(t, author.IsScalar())
	assert.False(t, author.HasAttrs())
	_, present := author.Attr("href")
	assert.False(t, present)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`<widget><name>unterminated</widget>`))
	require.Error(t, err)

	_, err = Parse([]byte(``))
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestParse_SingleRoot(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"two roots", `<widget id="a"/><widget id="b"/>`, ErrMultipleRoots},
		{"trailing text", `<widget id="a"/>trailing junk`, ErrStrayText},
		{"leading text", `junk<widget id="a"/>`, ErrStrayText},
		{"comment only", `<!-- nothing -->`, ErrNoRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, root)
		})
	}

	root, err := Parse([]byte("<?xml version=\"1.0\"?>\n<!-- config -->\n<widget id=\"a\"/>\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "a", root.AttrValue("id"))
}

func TestParse_RawText(t *testing.T) {
	root, err := Parse([]byte("<widget><license>\n  Line one\n\n  Line two\n</license></widget>"))
	require.NoError(t, err)

	license := root.Lookup("license").(*Node)
	assert.Equal(t, "Line one Line two", license.Text)
	assert.Equal(t, "\n  Line one\n\n  Line two\n", license.RawText)
}
