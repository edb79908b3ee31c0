// Package diag defines the typed failures and warnings a manifest compile
// can produce.
//
// Exactly one terminal outcome leaves a compile: a record, or a single
// *Error. Warnings never change that outcome; they are logged and
// returned alongside the record.
package diag

import (
	"errors"
	"fmt"

	"github.com/roach88/widgetc/internal/localize"
)

// Kind classifies a fatal error.
type Kind int

const (
	// KindParse means the manifest is not well-formed XML.
	KindParse Kind = iota + 1
	// KindStructural means a required field is missing or malformed, or an
	// access-model invariant is violated.
	KindStructural
	// KindSigning means the session cannot satisfy signing prerequisites.
	KindSigning
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindStructural:
		return "structural"
	case KindSigning:
		return "signing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error codes. E1xx parse, E2xx structural, E3xx signing, W4xx warnings.
const (
	CodeParse = "E100"

	CodeInvalidVersion       = "E201"
	CodeInvalidName          = "E202"
	CodeInvalidAuthor        = "E203"
	CodeInvalidID            = "E204"
	CodeInvalidIcon          = "E205"
	CodeInvalidSplash        = "E206"
	CodeInvalidAccessURI     = "E207"
	CodeWildcardFeature      = "E208"
	CodeInvalidFeature       = "E209"
	CodeInvalidInvokeTarget  = "E210"
	CodeInvalidInvokeFilter  = "E211"
	CodeInvalidContent       = "E212"
	CodeInvalidImages        = "E213"
	CodeInvalidBackgroundClr = "E214"
	CodeInvalidOrientation   = "E215"

	CodeMissingSigningKey      = "E301"
	CodeMissingSigningPassword = "E302"
	CodeMissingSigningBuildID  = "E303"

	CodeSigningKeyWarning      = "W401"
	CodeSigningPasswordWarning = "W402"
	CodeFeaturePruned          = "W403"
	CodeDeprecatedFeature      = "W404"
)

// Error is a fatal, localizable compile failure.
type Error struct {
	Kind   Kind         `json:"-"`
	Code   string       `json:"code"`
	Field  string       `json:"field,omitempty"`
	Key    localize.Key `json:"key"`
	Params []any        `json:"params,omitempty"`
	Err    error        `json:"-"`
}

// Error renders the English message for the failure.
func (e *Error) Error() string {
	return e.Message()
}

// Message renders the English message. It is what the user sees.
func (e *Error) Message() string {
	return localize.Translate(e.Key, e.Params...)
}

// Localize renders the message with p.
func (e *Error) Localize(p *localize.Printer) string {
	return p.Sprintf(e.Key, e.Params...)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Structural builds a KindStructural error.
func Structural(code, field string, key localize.Key, params ...any) *Error {
	return &Error{Kind: KindStructural, Code: code, Field: field, Key: key, Params: params}
}

// Signing builds a KindSigning error.
func Signing(code string, key localize.Key, params ...any) *Error {
	return &Error{Kind: KindSigning, Code: code, Key: key, Params: params}
}

// Parse wraps a tokenizer failure.
func Parse(err error) *Error {
	return &Error{Kind: KindParse, Code: CodeParse, Key: localize.ParsingXML, Err: err}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	de, ok := As(err)
	return ok && de.Kind == k
}

// HasKey reports whether err is an *Error with message key k.
func HasKey(err error, k localize.Key) bool {
	de, ok := As(err)
	return ok && de.Key == k
}

// Warning is a non-fatal diagnostic. Compilation continues with a degraded
// but valid record.
type Warning struct {
	Code   string       `json:"code"`
	Key    localize.Key `json:"key"`
	Params []any        `json:"params,omitempty"`
}

// Message renders the English message.
func (w Warning) Message() string {
	return localize.Translate(w.Key, w.Params...)
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message())
}
