// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"strings"
)

const (
	openAPIVersion = "3.0.2"

	// DefaultServerURL is advertised when the API is not mounted under a root path.
	DefaultServerURL = "http://localhost:8000"

	tagBreeds = "Breeds"
	tagImages = "Images"
)

// OpenAPIDocument is the subset of an OpenAPI 3.0 document the API publishes.
type OpenAPIDocument struct {
	OpenAPI    string                         `json:"openapi"`
	Info       openAPIInfo                    `json:"info"`
	Tags       []openAPITag                   `json:"tags"`
	Servers    []openAPIServer                `json:"servers"`
	Paths      map[string]map[string]opDetail `json:"paths"`
	Components openAPIComponents              `json:"components"`
}

type openAPIInfo struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Contact     map[string]string `json:"contact"`
}

type openAPITag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type openAPIServer struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type opDetail struct {
	Tags        []string                   `json:"tags"`
	Summary     string                     `json:"summary"`
	Description string                     `json:"description"`
	OperationID string                     `json:"operationId"`
	Parameters  []openAPIParameter         `json:"parameters,omitempty"`
	Responses   map[string]openAPIResponse `json:"responses"`
}

type openAPIParameter struct {
	Name     string         `json:"name"`
	In       string         `json:"in"`
	Required bool           `json:"required"`
	Schema   map[string]any `json:"schema"`
}

type openAPIResponse struct {
	Description string         `json:"description"`
	Content     map[string]any `json:"content,omitempty"`
}

type openAPIComponents struct {
	Schemas map[string]any `json:"schemas"`
}

// route describes one documented GET operation.
type route struct {
	path        string
	tag         string
	summary     string
	description string
	operationID string
	params      []string
	binary      bool
}

// documentedRoutes lists the public API in registration order.
var documentedRoutes = []route{
	{
		path:        "/breeds/list/all",
		tag:         tagBreeds,
		summary:     "List all breeds",
		description: "Returns a list of all available dog breeds and their sub-breeds",
		operationID: "list_all_breeds",
	},
	{
		path:        "/breed/{breed}/list",
		tag:         tagBreeds,
		summary:     "Get breed sub-breeds",
		description: "Returns a list of sub-breeds for a specific breed",
		operationID: "breed_subbreeds",
		params:      []string{"breed"},
	},
	{
		path:        "/breeds/image/random",
		tag:         tagImages,
		summary:     "Get random image",
		description: "Returns a random dog image URL from all available breeds",
		operationID: "random_image",
	},
	{
		path:        "/breed/{breed}/images",
		tag:         tagImages,
		summary:     "Get breed images",
		description: "Returns all image URLs for a specific breed",
		operationID: "breed_images",
		params:      []string{"breed"},
	},
	{
		path:        "/breed/{breed}/images/random",
		tag:         tagImages,
		summary:     "Get random breed image",
		description: "Returns a random image URL for a specific breed",
		operationID: "random_breed_image",
		params:      []string{"breed"},
	},
	{
		path:        "/breed/{breed}/{subbreed}/images",
		tag:         tagImages,
		summary:     "Get sub-breed images",
		description: "Returns all image URLs for a specific sub-breed",
		operationID: "subbreed_images",
		params:      []string{"breed", "subbreed"},
	},
	{
		path:        "/breed/{breed}/{subbreed}/images/random",
		tag:         tagImages,
		summary:     "Get random sub-breed image",
		description: "Returns a random image URL for a specific sub-breed",
		operationID: "random_subbreed_image",
		params:      []string{"breed", "subbreed"},
	},
	{
		path:        "/images/{file_path}",
		tag:         tagImages,
		summary:     "Serve image file",
		description: "Serves the actual image file by path",
		operationID: "serve_image",
		params:      []string{"file_path"},
		binary:      true,
	},
}

// NewOpenAPIDocument builds the document advertising serverURL, or
// DefaultServerURL when serverURL is empty.
func NewOpenAPIDocument(serverURL string) *OpenAPIDocument {
	description := "Mounted API root"
	if serverURL == "" {
		serverURL = DefaultServerURL
		description = "Local development server"
	}

	doc := &OpenAPIDocument{
		OpenAPI: openAPIVersion,
		Info: openAPIInfo{
			Title:       "Dog CEO API",
			Description: "API for accessing dog breed images and information",
			Version:     "1.0.0",
			Contact:     map[string]string{"name": "API Support"},
		},
		Tags: []openAPITag{
			{Name: tagBreeds, Description: "Operations related to dog breeds and sub-breeds"},
			{Name: tagImages, Description: "Operations related to dog images"},
		},
		Servers: []openAPIServer{
			{URL: strings.TrimRight(serverURL, "/"), Description: description},
		},
		Paths: make(map[string]map[string]opDetail, len(documentedRoutes)),
		Components: openAPIComponents{
			Schemas: map[string]any{
				"APIResponse": apiResponseSchema(),
			},
		},
	}

	for _, rt := range documentedRoutes {
		doc.Paths[rt.path] = map[string]opDetail{"get": rt.operation()}
	}

	return doc
}

func (rt route) operation() opDetail {
	op := opDetail{
		Tags:        []string{rt.tag},
		Summary:     rt.summary,
		Description: rt.description,
		OperationID: rt.operationID,
		Responses: map[string]openAPIResponse{
			"404": {
				Description: "Not Found",
				Content:     jsonContent(schemaRef("APIResponse")),
			},
		},
	}

	for _, name := range rt.params {
		op.Parameters = append(op.Parameters, openAPIParameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   map[string]any{"type": "string", "title": name},
		})
	}

	if rt.binary {
		op.Responses["200"] = openAPIResponse{
			Description: "Image file",
			Content: map[string]any{
				"image/*": map[string]any{
					"schema": map[string]any{"type": "string", "format": "binary"},
				},
			},
		}
	} else {
		op.Responses["200"] = openAPIResponse{
			Description: "Successful Response",
			Content:     jsonContent(schemaRef("APIResponse")),
		}
	}

	return op
}

func schemaRef(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{
		"application/json": map[string]any{"schema": schema},
	}
}

func apiResponseSchema() map[string]any {
	return map[string]any{
		"title":    "APIResponse",
		"type":     "object",
		"required": []string{"status", "message"},
		"properties": map[string]any{
			"status": map[string]any{
				"title": "Status",
				"type":  "string",
				"enum":  []Status{StatusSuccess, StatusError},
			},
			"message": map[string]any{
				"title": "Message",
				"anyOf": []map[string]any{
					{"type": "object", "additionalProperties": map[string]any{"type": "array", "items": map[string]any{"type": "string"}}},
					{"type": "array", "items": map[string]any{"type": "string"}},
					{"type": "string"},
				},
			},
		},
	}
}

// OpenAPI serves the OpenAPI document.
func (h *Handlers) OpenAPI(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, h.openAPI)
}
