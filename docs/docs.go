// Package docs registers the OpenAPI document served at /api/v1/openapi.json.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Response"}}}
            }
        },
        "/api/v1/ping": {
            "get": {
                "tags": ["health"],
                "summary": "Ping",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/health.PingResponse"}}}
            }
        },
        "/api/v1/auth/anonymous": {
            "post": {
                "tags": ["auth"],
                "summary": "Issue an anonymous token",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.AnonymousTokenResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current client",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/v1/plans": {
            "get": {
                "tags": ["usage"],
                "summary": "Plan catalog",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/usage.PlansResponse"}}}
            }
        },
        "/api/v1/usage": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["usage"],
                "summary": "Current usage",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usage.UsageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/v1/usage/plan": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["usage"],
                "summary": "Change plan",
                "parameters": [{"description": "Target plan", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/usage.SetPlanRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/usage.UsageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/v1/media": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["media"],
                "summary": "Current selection",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/media.MediaResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "tags": ["media"],
                "summary": "Select a creative",
                "parameters": [{"type": "file", "description": "Image or video", "name": "file", "in": "formData"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/media.MediaResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["media"],
                "summary": "Clear the selection",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/media/preview/{id}": {
            "get": {
                "tags": ["media"],
                "summary": "Preview bytes",
                "parameters": [{"type": "string", "description": "Preview id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/v1/generate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["generate"],
                "summary": "Generate ad copy",
                "parameters": [{"description": "Optional advertiser instructions", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/generate.GenerateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/generate.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.QuotaExceededResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/errors.GenerationFailedResponse"}}
                }
            }
        },
        "/api/v1/export/csv": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "tags": ["generate"],
                "summary": "Download the last result as CSV",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "errors.QuotaExceededResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "plan": {"type": "string"},
                "daily_limit": {"type": "integer"},
                "used": {"type": "integer"},
                "upgrade_options": {"type": "array", "items": {"type": "string"}}
            }
        },
        "errors.GenerationFailedResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "retryable": {"type": "boolean"}
            }
        },
        "health.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "service": {"type": "string"},
                "version": {"type": "string"},
                "time": {"type": "string", "format": "date-time"},
                "uptime_seconds": {"type": "integer"}
            }
        },
        "health.PingResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "auth.AnonymousTokenResponse": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "auth.MeResponse": {
            "type": "object",
            "properties": {"client_id": {"type": "string"}}
        },
        "usage.Features": {
            "type": "object",
            "properties": {
                "custom_instructions": {"type": "boolean"},
                "video_input": {"type": "boolean"},
                "csv_export": {"type": "boolean"},
                "history": {"type": "boolean"}
            }
        },
        "usage.Snapshot": {
            "type": "object",
            "properties": {
                "plan": {"type": "string", "enum": ["free", "pro", "agency"]},
                "generation_count": {"type": "integer"},
                "daily_limit": {"type": "integer"},
                "remaining": {"type": "integer"},
                "unlimited": {"type": "boolean"},
                "last_reset_date": {"type": "string"},
                "features": {"$ref": "#/definitions/usage.Features"}
            }
        },
        "usage.PlanInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price_monthly_usd": {"type": "integer"},
                "badge": {"type": "string"},
                "cta": {"type": "string"},
                "highlights": {"type": "array", "items": {"type": "string"}}
            }
        },
        "usage.UsageResponse": {
            "type": "object",
            "properties": {
                "usage": {"$ref": "#/definitions/usage.Snapshot"},
                "message": {"type": "string"},
                "upgrade_options": {"type": "array", "items": {"$ref": "#/definitions/usage.PlanInfo"}}
            }
        },
        "usage.SetPlanRequest": {
            "type": "object",
            "required": ["plan"],
            "properties": {"plan": {"type": "string"}}
        },
        "usage.PlansResponse": {
            "type": "object",
            "properties": {"plans": {"type": "array", "items": {"$ref": "#/definitions/usage.PlanInfo"}}}
        },
        "media.MediaResponse": {
            "type": "object",
            "properties": {
                "workspace": {"$ref": "#/definitions/workspaces.View"},
                "preview_url": {"type": "string"}
            }
        },
        "workspaces.View": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "has_media": {"type": "boolean"},
                "mime_type": {"type": "string"},
                "filename": {"type": "string"},
                "size": {"type": "integer"},
                "preview_id": {"type": "string"},
                "last_result": {"$ref": "#/definitions/adcopy.Result"},
                "last_activity": {"type": "string"}
            }
        },
        "adcopy.Variant": {
            "type": "object",
            "properties": {
                "tone": {"type": "string"},
                "headline": {"type": "string"},
                "description": {"type": "string"},
                "primaryTextParagraph": {"type": "string"},
                "primaryTextBullets": {"type": "string"}
            }
        },
        "adcopy.Result": {
            "type": "object",
            "properties": {
                "variants": {"type": "array", "items": {"$ref": "#/definitions/adcopy.Variant"}},
                "model": {"type": "string"},
                "generated_at": {"type": "string"}
            }
        },
        "generate.GenerateRequest": {
            "type": "object",
            "properties": {"custom_instructions": {"type": "string"}}
        },
        "generate.GenerateResponse": {
            "type": "object",
            "properties": {
                "result": {"$ref": "#/definitions/adcopy.Result"},
                "usage": {"$ref": "#/definitions/usage.Snapshot"},
                "stored": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AdCraft API",
	Description:      "Generates tone-specific ad copy for image and video creatives.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
