package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// DomainConfig separates record fingerprints from any other SHA-256 use.
// Bump the suffix if the canonical form changes.
const (
	DomainConfig = "widgetc/config/v1"
)

// hashWithDomain returns hex(SHA-256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MarshalCanonical produces RFC 8785 canonical JSON for a record.
// Use it for hashing only; human-facing output uses json.MarshalIndent.
func MarshalCanonical(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("canonical: nil config")
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("canonical: marshal: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonical: transform: %w", err)
	}
	return out, nil
}

// Fingerprint computes the content-addressed identity of a record.
// Two compiles of equivalent manifests under the same session produce the
// same fingerprint regardless of attribute order or map iteration.
func Fingerprint(cfg *Config) (string, error) {
	canonical, err := MarshalCanonical(cfg)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: %w", err)
	}
	return hashWithDomain(DomainConfig, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the record is known to be valid.
func MustFingerprint(cfg *Config) string {
	fp, err := Fingerprint(cfg)
	if err != nil {
		panic(err)
	}
	return fp
}
