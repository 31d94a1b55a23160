// Package file provides the TOML-file implementation of driven.ConfigStore.
//
// Settings live in <configDir>/config.toml, ~/.mmdedup/config.toml by
// default. Keys are flat; nested tables are flattened to dot notation on load.
//
//	label   = "alpha"
//	db      = "/var/lib/mmdedup/alpha.db"
//	workers = 4
//	rate    = 200.0
//	exclude = ["*.tmp", "/proc"]
//	log_level = "info"
package file
