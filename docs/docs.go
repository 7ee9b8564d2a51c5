// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/session": {
            "get": {
                "description": "Returns the device's session, restoring a recent persisted one on first access",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current search session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gemsapi.SessionResponse"}}
                }
            }
        },
        "/api/session/location": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Report the browser's geolocation answer",
                "parameters": [
                    {"description": "Location", "name": "location", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.ClientLocation"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gemsapi.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/session/use-my-location": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Search near the device for scenic spots, quiet cafes and secluded parks",
                "parameters": [
                    {"description": "Location, optional", "name": "location", "in": "body", "schema": {"$ref": "#/definitions/session.ClientLocation"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gemsapi.SessionResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/session/form": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Update search form fields without searching",
                "parameters": [
                    {"description": "Form", "name": "form", "in": "body", "required": true, "schema": {"$ref": "#/definitions/gemsapi.searchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gemsapi.SessionResponse"}}
                }
            }
        },
        "/api/session/filters": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Replace the active category filters",
                "parameters": [
                    {"description": "Filters", "name": "filters", "in": "body", "required": true, "schema": {"$ref": "#/definitions/gemsapi.filtersRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gemsapi.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/session/filters/{category}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Toggle one category filter",
                "parameters": [
                    {"type": "string", "description": "Category", "name": "category", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gemsapi.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Run a hidden gems search",
                "parameters": [
                    {"description": "Search", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/gemsapi.searchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/gemsapi.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/favorites": {
            "get": {
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "List favorite places",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "Add or remove a favorite place",
                "parameters": [
                    {"description": "Place", "name": "place", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Place"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/recents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["recents"],
                "summary": "List recently viewed places, most recent first",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recents"],
                "summary": "Record that a place was viewed",
                "parameters": [
                    {"description": "Place", "name": "place", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Place"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/reviews": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "List reviews of a place",
                "parameters": [
                    {"type": "string", "description": "Place name", "name": "name", "in": "query", "required": true},
                    {"type": "number", "description": "Place latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Place longitude", "name": "lng", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            },
            "post": {
                "description": "The upload is simulated and takes a moment to complete",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Submit a review for a place",
                "parameters": [
                    {"type": "string", "description": "Place name", "name": "name", "in": "query", "required": true},
                    {"type": "number", "description": "Place latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Place longitude", "name": "lng", "in": "query", "required": true},
                    {"description": "Review", "name": "review", "in": "body", "required": true, "schema": {"$ref": "#/definitions/reviews.Submission"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Review"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/settings/theme": {
            "get": {"produces": ["application/json"], "tags": ["settings"], "summary": "Current theme", "responses": {"200": {"description": "OK"}}},
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Set the theme",
                "parameters": [
                    {"description": "Theme", "name": "theme", "in": "body", "required": true, "schema": {"$ref": "#/definitions/gemsapi.themeRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/settings/theme/toggle": {
            "post": {"produces": ["application/json"], "tags": ["settings"], "summary": "Switch between light and dark", "responses": {"200": {"description": "OK"}}}
        },
        "/api/suggestions": {
            "get": {"produces": ["application/json"], "tags": ["settings"], "summary": "Example search prompts", "responses": {"200": {"description": "OK"}}}
        },
        "/api/categories": {
            "get": {"produces": ["application/json"], "tags": ["settings"], "summary": "Filterable place categories", "responses": {"200": {"description": "OK"}}}
        },
        "/healthz": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "gemsapi.SessionResponse": {
            "type": "object",
            "properties": {
                "session": {"$ref": "#/definitions/models.SearchSession"},
                "places": {"type": "array", "items": {"$ref": "#/definitions/models.Place"}},
                "pendingSearch": {"type": "boolean"}
            }
        },
        "gemsapi.searchRequest": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"},
                "mode": {"type": "string", "enum": ["near_me", "specific_location"]},
                "locationQuery": {"type": "string"}
            }
        },
        "gemsapi.filtersRequest": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"type": "string"}}
            }
        },
        "gemsapi.themeRequest": {
            "type": "object",
            "required": ["theme"],
            "properties": {"theme": {"type": "string", "enum": ["light", "dark"]}}
        },
        "session.ClientLocation": {
            "type": "object",
            "properties": {
                "granted": {"type": "boolean"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "reviews.Submission": {
            "type": "object",
            "properties": {
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "comment": {"type": "string"},
                "photoFilename": {"type": "string"}
            }
        },
        "models.Place": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "category": {"type": "string", "enum": ["food", "view", "tranquility", "park", "cafe", "scenic", "other"]},
                "estimatedRating": {"type": "number"}
            }
        },
        "models.Source": {
            "type": "object",
            "properties": {
                "uri": {"type": "string"},
                "title": {"type": "string"},
                "type": {"type": "string", "enum": ["maps", "web"]}
            }
        },
        "models.SearchResult": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "sources": {"type": "array", "items": {"$ref": "#/definitions/models.Source"}},
                "places": {"type": "array", "items": {"$ref": "#/definitions/models.Place"}}
            }
        },
        "models.SearchSession": {
            "type": "object",
            "properties": {
                "appState": {"type": "string", "enum": ["idle", "requesting_location", "location_granted", "location_denied", "loading", "results_found", "error"]},
                "prompt": {"type": "string"},
                "searchMode": {"type": "string"},
                "locationQuery": {"type": "string"},
                "result": {"$ref": "#/definitions/models.SearchResult"},
                "activeFilters": {"type": "array", "items": {"type": "string"}},
                "error": {"type": "string"}
            }
        },
        "models.Review": {
            "type": "object",
            "properties": {
                "rating": {"type": "integer"},
                "comment": {"type": "string"},
                "photoFilename": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Hidden Gems API",
	Description:      "Discovers lesser-known places near the device or a named location and keeps per-device favorites, recents, reviews and settings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
