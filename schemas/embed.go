// Package schemas holds the JSON Schemas of the dossier input and manifest files.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
