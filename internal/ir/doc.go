// Package ir defines the canonical configuration record produced by the
// manifest compiler.
//
// This package contains type definitions and the record's serialization
// helpers only. All other internal packages import ir; ir imports nothing
// internal.
//
// Key constraints:
//   - The default-origin entry (LocalOrigin) is always AccessList[0]
//   - WildcardOrigin never appears in AccessList; it only sets HasMultiAccess
//   - License and LicenseURL are always strings, never omitted
//   - Permissions always contains "access_internet" exactly once
package ir
