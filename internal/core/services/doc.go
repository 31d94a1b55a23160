// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The three catalog operations live here:
//
//   - Indexer: walks a tree, hashes each file and records it in a catalog
//   - IntegrityChecker: re-hashes every file a host recorded and flags drift or loss
//   - CatalogComparator: reports content identities one catalog lacks
//
// CatalogService wires them to store locations for the CLI. Services are
// pure Go with no CGO; they never terminate the process and never write to
// a catalog outside the Indexer.
package services
