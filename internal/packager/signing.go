package packager

import (
	"log/slog"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
	"github.com/roach88/widgetc/internal/session"
)

// ValidateSigning checks the session's signing material against the build
// id the record resolved to. It runs two independent checks, credential
// presence and password presence, each ending in nothing, a warning or a
// fatal error. The first fatal error is returned; warnings from checks
// that ran before it are returned alongside.
//
// Signing is explicitly requested when the session carries a build-id
// override or a signing password. A build id that only comes from the
// manifest version is a weaker request: missing material downgrades the
// package to unsigned with a warning.
func ValidateSigning(sess *session.Session, cfg *ir.Config, logger *slog.Logger) ([]diag.Warning, error) {
	if logger == nil {
		logger = slog.Default()
	}

	override := sess.BuildID != ""
	hasPassword := sess.StorePass != ""
	explicit := override || hasPassword
	manifestOnly := !override && cfg.BuildID != ""
	buildID := cfg.BuildID != "" || override

	var warnings []diag.Warning
	warn := func(w diag.Warning, attrs ...any) {
		logger.Warn(w.Message(), append([]any{"code", w.Code}, attrs...)...)
		warnings = append(warnings, w)
	}

	missing, complete := firstMissing(sess)

	// Credential presence.
	switch {
	case explicit && !complete:
		return warnings, diag.Signing(diag.CodeMissingSigningKey, localize.MissingSigningKeyFile, missing)
	case manifestOnly && !complete:
		warn(diag.Warning{Code: diag.CodeSigningKeyWarning, Key: localize.MissingSigningKeyFileWarning,
			Params: []any{missing}}, "artifact", missing)
	case complete && hasPassword && !buildID:
		return warnings, diag.Signing(diag.CodeMissingSigningBuildID, localize.MissingSigningBuildID)
	}

	// Password presence.
	if buildID && !hasPassword {
		if override {
			return warnings, diag.Signing(diag.CodeMissingSigningPassword, localize.MissingSigningPassword)
		}
		warn(diag.Warning{Code: diag.CodeSigningPasswordWarning, Key: localize.SigningPasswordExpected})
	}

	return warnings, nil
}

// firstMissing returns the name of the first absent credential artifact,
// or reports that all are present.
func firstMissing(sess *session.Session) (string, bool) {
	for _, a := range sess.Artifacts() {
		if !a.Present() {
			return a.Name, false
		}
	}
	return "", true
}
