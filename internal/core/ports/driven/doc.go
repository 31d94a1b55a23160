// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CatalogStore: FileRecord and ContentRecord persistence (SQLite)
//   - CatalogOpener: Opens catalog stores by location
//   - Walker: Lazy directory traversal
//   - MIMEDetector: Best-effort MIME classification
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
