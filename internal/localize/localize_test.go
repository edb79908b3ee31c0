package localize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTranslate_Parameterized(t *testing.T) {
	msg := Translate(InvalidAccessURINoProtocol, "rim.net")
	assert.Equal(t, "Invalid URI attribute in the access element - protocol required(rim.net)", msg)

	msg = Translate(MissingSigningKeyFile, "author.p12")
	assert.Equal(t, "Cannot sign application - failed to find signing key file: author.p12", msg)
}

func TestTranslate_NoParams(t *testing.T) {
	assert.Equal(t, "Please enter a valid application version", Translate(InvalidVersion))
	assert.Equal(t,
		"Invalid config.xml - no <feature> tags are allowed for this <access> element",
		Translate(FeatureWithWildcardAccess))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(InvalidID))
	assert.False(t, Known(Key("EXCEPTION_NOT_A_KEY")))
}

func TestPrinter_Translation(t *testing.T) {
	cat, err := NewCatalog()
	require.NoError(t, err)
	require.NoError(t, cat.SetString(language.French, string(InvalidAccessURINoURN),
		"Impossible d'analyser l'attribut URI de l'élément access(%[1]s)"))

	fr := NewPrinter(language.French, cat)
	assert.Equal(t, "Impossible d'analyser l'attribut URI de l'élément access(http://)",
		fr.Sprintf(InvalidAccessURINoURN, "http://"))
}
