//go:build embed_model

package provider

import "embed"

// The embed_model build compiles the model downloaded into ./models
// (see "pulse download-model") into the binary.
//
//go:embed all:models
var embeddedModelFS embed.FS

const hasEmbeddedModel = true
