package swagger

import _ "embed"

// Document is the pairing API description served at /openapi.yaml and
// rendered by the /api-docs page.
//
//go:embed openapi.yaml
var Document []byte
