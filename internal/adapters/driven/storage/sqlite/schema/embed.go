// Package schema embeds the catalog table definitions for the SQLite store.
package schema

import _ "embed"

// SQL creates the file and hash tables. Every statement is idempotent.
//
//go:embed schema.sql
var SQL string
