// Package schemas holds the JSON Schemas for content documents.
package schemas

import _ "embed"

// Portfolio is the schema of a portfolio content document
//
//go:embed portfolio.schema.json
var Portfolio string
