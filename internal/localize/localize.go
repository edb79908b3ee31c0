// Package localize holds the parameterized message catalog used for every
// user-facing compiler error and warning.
//
// Messages are keyed by stable identifiers (EXCEPTION_*, WARNING_*) and
// take positional parameters. The English catalog is built once and never
// mutated; other locales can be layered by building a Printer over a
// different catalog.
package localize

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a catalog message.
type Key string

// Parse and structural failures.
const (
	ParsingXML                  Key = "EXCEPTION_PARSING_XML"
	InvalidVersion              Key = "EXCEPTION_INVALID_VERSION"
	InvalidName                 Key = "EXCEPTION_INVALID_NAME"
	InvalidAuthor               Key = "EXCEPTION_INVALID_AUTHOR"
	InvalidID                   Key = "EXCEPTION_INVALID_ID"
	InvalidContent              Key = "EXCEPTION_INVALID_CONTENT"
	InvalidFeatureID            Key = "EXCEPTION_INVALID_FEATURE_ID"
	FeatureWithWildcardAccess   Key = "EXCEPTION_FEATURE_DEFINED_WITH_WILDCARD_ACCESS_URI"
	InvalidAccessURINoProtocol  Key = "EXCEPTION_INVALID_ACCESS_URI_NO_PROTOCOL"
	InvalidAccessURINoURN       Key = "EXCEPTION_INVALID_ACCESS_URI_NO_URN"
	InvokeTargetInvalidID       Key = "EXCEPTION_INVOKE_TARGET_INVALID_ID"
	InvokeTargetInvalidType     Key = "EXCEPTION_INVOKE_TARGET_INVALID_TYPE"
	InvokeTargetActionInvalid   Key = "EXCEPTION_INVOKE_TARGET_ACTION_INVALID"
	InvokeTargetMimeTypeInvalid Key = "EXCEPTION_INVOKE_TARGET_MIME_TYPE_INVALID"
	InvokeTargetPropertyInvalid Key = "EXCEPTION_INVOKE_TARGET_FILTER_PROPERTY_INVALID"
	InvalidIconSrc              Key = "EXCEPTION_INVALID_ICON_SRC"
	InvalidIconSrcLocales       Key = "EXCEPTION_INVALID_ICON_SRC_LOCALES"
	InvalidSplashSrc            Key = "EXCEPTION_INVALID_SPLASH_SRC"
	InvalidSplashSrcLocales     Key = "EXCEPTION_INVALID_SPLASH_SRC_LOCALES"
	InvalidImage                Key = "EXCEPTION_INVALID_IMAGE"
	InvalidTextEmptyOrNested    Key = "EXCEPTION_INVALID_TEXT_EMPTY_OR_CONTAIN_NESTED_ELEM"
	InvalidTextMissingLang      Key = "EXCEPTION_INVALID_TEXT_MISSING_LANG"
	InvalidTextLang             Key = "EXCEPTION_INVALID_TEXT_LANG"
	EmptySplashScreen           Key = "EXCEPTION_EMPTY_SPLASH_SCREEN"
	EmptyIcon                   Key = "EXCEPTION_EMPTY_ICON"
	BackgroundColorInvalid      Key = "EXCEPTION_BGCOLOR_INVALID"
	InvalidOrientationMode      Key = "EXCEPTION_INVALID_ORIENTATION_MODE"
)

// Manifest deprecations.
const (
	OrientationFeatureDeprecated Key = "WARNING_ORIENTATION_DEPRECATED"
)

// Signing prerequisites.
const (
	MissingSigningKeyFile        Key = "EXCEPTION_MISSING_SIGNING_KEY_FILE"
	MissingSigningKeyFileWarning Key = "WARNING_MISSING_SIGNING_KEY_FILE"
	MissingSigningPassword       Key = "EXCEPTION_MISSING_SIGNING_PASSWORD"
	SigningPasswordExpected      Key = "WARNING_SIGNING_PASSWORD_EXPECTED"
	MissingSigningBuildID        Key = "EXCEPTION_MISSING_SIGNING_BUILDID"
)

// Capability pruning.
const (
	FeatureNotFound     Key = "WARNING_FEATURE_NOT_FOUND"
	FeatureLookupFailed Key = "WARNING_FEATURE_LOOKUP_FAILED"
)

// english is the source catalog. %[n]s placeholders are positional so
// translations may reorder parameters.
var english = map[Key]string{
	ParsingXML:                  "An error has occurred parsing the config.xml. Please ensure that it is syntactically correct",
	InvalidVersion:              "Please enter a valid application version",
	InvalidName:                 "Please enter a valid application name",
	InvalidAuthor:               "Please enter an author for the application",
	InvalidID:                   "Please enter a valid application id",
	InvalidContent:              "Invalid config.xml - failed to parse the <content> element(Invalid source or the source is not specified.)",
	InvalidFeatureID:            "Invalid <feature> element - failed to find the id attribute",
	FeatureWithWildcardAccess:   "Invalid config.xml - no <feature> tags are allowed for this <access> element",
	InvalidAccessURINoProtocol:  "Invalid URI attribute in the access element - protocol required(%[1]s)",
	InvalidAccessURINoURN:       "Failed to parse the URI attribute in the access element(%[1]s)",
	InvokeTargetInvalidID:       "Each rim:invoke-target element must specify a valid id attribute",
	InvokeTargetInvalidType:     "Each rim:invoke-target element must specify a valid type.",
	InvokeTargetActionInvalid:   "Each filter element must specify at least one valid action",
	InvokeTargetMimeTypeInvalid: "Each filter element must specify at least one valid mime-type",
	InvokeTargetPropertyInvalid: "At least one property element in an invoke filter is invalid",
	InvalidIconSrc:              "Icon src cannot be empty",
	InvalidIconSrcLocales:       "Icon src should not point to files under \"locales\" folder, bbwp will perform folder-based localization",
	InvalidSplashSrc:            "Splash src cannot be empty",
	InvalidSplashSrcLocales:     "Splash src should not point to files under \"locales\" folder, bbwp will perform folder-based localization",
	InvalidImage:                "Image element should specify image file name",
	InvalidTextEmptyOrNested:    "Text element should not be empty and should not contain nested element",
	InvalidTextMissingLang:      "Text element should have an xml:lang attribute which specifies the language",
	InvalidTextLang:             "Text element has an invalid xml:lang attribute: %[1]s",
	EmptySplashScreen:           "rim:splashScreens element should contain at least one image element",
	EmptyIcon:                   "rim:icon element should contain at least one image element",
	BackgroundColorInvalid:      "Background color must be a number, invalid value: %[1]s",
	InvalidOrientationMode:      "Invalid orientation mode: %[1]s. Valid modes are \"landscape\" and \"portrait\"",

	OrientationFeatureDeprecated: "blackberry.app.orientation has been deprecated, please use <feature id=\"blackberry.app\"><param name=\"orientation\" value=\"landscape|portrait\" /></feature>",

	MissingSigningKeyFile:        "Cannot sign application - failed to find signing key file: %[1]s",
	MissingSigningKeyFileWarning: "Build ID set in config.xml [version], but signing key file was not found: %[1]s",
	MissingSigningPassword:       "Cannot sign application - No signing password provided [-g]",
	SigningPasswordExpected:      "Build ID set in config.xml [version], but no signing password was provided [-g]. Bar will be unsigned",
	MissingSigningBuildID:        "Cannot sign application - No buildId provided [--buildId]",

	FeatureNotFound:     "Failed to find feature with id: %[1]s",
	FeatureLookupFailed: "Failed to look up feature with id: %[1]s (%[2]s)",
}

// Printer renders catalog messages for one locale.
type Printer struct {
	p *message.Printer
}

// NewCatalog returns a catalog builder seeded with the English messages.
// Callers add translations with SetString before handing it to NewPrinter.
func NewCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range english {
		if err := b.SetString(language.English, string(key), msg); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", key, err)
		}
	}
	return b, nil
}

// NewPrinter returns a Printer for tag backed by cat.
func NewPrinter(tag language.Tag, cat catalog.Catalog) *Printer {
	return &Printer{p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Sprintf renders key with its positional parameters.
func (p *Printer) Sprintf(key Key, params ...any) string {
	return p.p.Sprintf(string(key), params...)
}

var defaultPrinter = func() *Printer {
	cat, err := NewCatalog()
	if err != nil {
		panic(err)
	}
	return NewPrinter(language.English, cat)
}()

// Translate renders key in English.
func Translate(key Key, params ...any) string {
	return defaultPrinter.Sprintf(key, params...)
}

// Known reports whether key has an English message.
func Known(key Key) bool {
	_, ok := english[key]
	return ok
}
