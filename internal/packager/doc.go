// Package packager holds the validators that run after compilation,
// against the compiled record plus the session it will be packaged under.
//
// PruneWhitelist removes features the build environment cannot provide.
// ValidateSigning decides whether the session's signing material permits
// the build to proceed. Neither touches the filesystem; capability lookups
// go through a CapabilitySource and credential presence is resolved by
// the session beforehand.
package packager
