// Package schemas embeds the JSON Schemas for brandqc input files.
package schemas

import _ "embed"

// RubricSchemaJSON is the JSON Schema for rubric YAML files.
//
//go:embed rubric.schema.json
var RubricSchemaJSON string
