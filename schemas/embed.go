// Package schemas provides the embedded SQL migrations for stored question banks.
package schemas

import "embed"

// Migrations holds migrations/*.sql, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
