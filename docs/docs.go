// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/report": {
            "get": {
                "description": "Re-renders the daily settlement file from stored trades",
                "produces": ["text/plain", "text/html"],
                "tags": ["report"],
                "summary": "Daily settlement report",
                "parameters": [
                    {"type": "string", "example": "2025-09-15", "description": "Settlement date in YYYY-MM-DD", "name": "date", "in": "query"},
                    {"enum": ["text", "html"], "type": "string", "description": "text or html", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Report", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/trades": {
            "get": {
                "description": "Returns the trades settled on a date, optionally filtered by view and side",
                "produces": ["application/json"],
                "tags": ["trades"],
                "summary": "List settled trades",
                "parameters": [
                    {"type": "string", "example": "2025-09-15", "description": "Settlement date in YYYY-MM-DD", "name": "date", "in": "query"},
                    {"type": "string", "example": "PEW", "description": "Report view label", "name": "view", "in": "query"},
                    {"type": "string", "example": "BUY", "description": "BUY or SELL", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"$ref": "#/definitions/dto.TradesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Always returns OK if the service is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Returns ready if the settlement store is reachable",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error_details": {"type": "string", "example": "parsing time \"15-09-2025\" as \"2006-01-02\""},
                "message": {"type": "string", "example": "invalid date format, expected YYYY-MM-DD"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.TradeResponse": {
            "type": "object",
            "properties": {
                "client_code": {"type": "string", "example": "W1573"},
                "exchange_code": {"type": "string", "example": "N"},
                "price": {"type": "string", "example": "3450.5"},
                "quantity": {"type": "string", "example": "5"},
                "ref_id": {"type": "string", "example": "250915000123456"},
                "security_id": {"type": "string", "example": "TCS"},
                "trade_date": {"type": "string", "example": "2025-09-15"},
                "trade_type": {"type": "string", "example": "DELIVERY"},
                "transaction_type": {"type": "string", "example": "BUY"},
                "view": {"type": "string", "example": "PEW"}
            }
        },
        "dto.TradesResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 1},
                "date": {"type": "string", "example": "2025-09-15"},
                "trades": {"type": "array", "items": {"$ref": "#/definitions/dto.TradeResponse"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "tradebook API",
	Description:      "Daily brokerage settlement reports and settled trades.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
