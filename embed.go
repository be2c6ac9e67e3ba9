// Package shredly embeds static data shipped with the binary.
package shredly

import "embed"

// DataFS holds the bundled exercise database.
//
//go:embed data/exercises.json
var DataFS embed.FS
