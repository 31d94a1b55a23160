// Package domain defines the core entities for mmdedup.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContentRecord: One distinct content identity (hash, size) and its MIME type
//   - FileRecord: One path observed on one host, pointing at a content identity
//   - IndexReport, IntegrityReport, CompareReport: Operation outcomes
//   - Settings: Effective defaults for the command surface
//
// # Content Identity
//
// A ContentID is a 32-bit CRC-32C checksum plus a byte size. Two records with
// the same ContentID are dedup candidates: probably, but not provably, the
// same bytes. The checksum is not collision resistant.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
