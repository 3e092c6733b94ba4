//go:build !embed_model

package provider

import "embed"

// Default builds carry no model; it is read from the model directory.
var embeddedModelFS embed.FS

const hasEmbeddedModel = false
