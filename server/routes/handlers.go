// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"codeberg.org/dogapi/dogapi/core/catalog"
)

// Handlers serves the breed and image routes.
type Handlers struct {
	catalog *catalog.Catalog
	urls    *catalog.URLMapper
	openAPI *OpenAPIDocument
}

// NewHandlers returns Handlers reading from c and publishing URLs through urls.
// serverURL is advertised in the OpenAPI document.
func NewHandlers(c *catalog.Catalog, urls *catalog.URLMapper, serverURL string) *Handlers {
	return &Handlers{
		catalog: c,
		urls:    urls,
		openAPI: NewOpenAPIDocument(serverURL),
	}
}
