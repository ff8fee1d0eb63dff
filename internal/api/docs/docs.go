// Package docs registers the generated OpenAPI definition for the API
// service. Regenerate with: swag init -g cmd/api-service/main.go -o internal/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List recent tasks",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Enqueue a task",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/tasks/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a task by ID",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/stocks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "List the watchlist",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Add a stock to the watchlist",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/stocks/{ticker}/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Enqueue a refresh for one ticker",
                "parameters": [{"type": "string", "name": "ticker", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/stocks/{ticker}/prices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Get daily price bars for a ticker",
                "parameters": [{"type": "string", "name": "ticker", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stocks/{ticker}/aggregates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Get daily sentiment aggregates for a ticker",
                "parameters": [{"type": "string", "name": "ticker", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stocks/{ticker}/metrics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Get windowed alignment metrics for a ticker",
                "parameters": [
                    {"type": "string", "name": "ticker", "in": "path", "required": true},
                    {"type": "integer", "name": "window", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stocks/{ticker}/headlines": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Get recent headlines for a ticker",
                "parameters": [{"type": "string", "name": "ticker", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Stock Sentiment Tracker API",
	Description:      "Task queue and read API for the news sentiment vs price tracker.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
