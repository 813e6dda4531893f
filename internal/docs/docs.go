// Package docs registers the OpenAPI description of the oracle API with swag.
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
        "/createSecurity": {
            "post": {
                "security": [{"BasicAuth": []}],
                "description": "Submit a new security to the oracle contract and return the id it was assigned",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["securities"],
                "summary": "Create security",
                "parameters": [
                    {
                        "description": "Security details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.CreateSecurityRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Security created", "schema": {"$ref": "#/definitions/handlers.CreateSecurityResponse"}},
                    "400": {"description": "Incorrect or missing parameters", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Ledger error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/security": {
            "delete": {
                "security": [{"BasicAuth": []}],
                "description": "Submit an erase action for the security. Unknown ids are rejected by the contract.",
                "produces": ["application/json"],
                "tags": ["securities"],
                "summary": "Erase security",
                "parameters": [
                    {"type": "integer", "description": "Security ID", "name": "securityId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Security erased", "schema": {"$ref": "#/definitions/handlers.TransactionResponse"}},
                    "400": {"description": "Incorrect or missing parameters", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Ledger error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/setPrice": {
            "post": {
                "security": [{"BasicAuth": []}],
                "description": "Record the last traded price of a security, stamped with the server time",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "Set price",
                "parameters": [
                    {
                        "description": "Security ID and price",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.SetPriceRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Price recorded", "schema": {"$ref": "#/definitions/handlers.TransactionResponse"}},
                    "400": {"description": "Incorrect or missing parameters", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Ledger error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/securities": {
            "get": {
                "description": "Get up to 1000 securities in id order, optionally only those of one type",
                "produces": ["application/json"],
                "tags": ["securities"],
                "summary": "List securities",
                "parameters": [
                    {
                        "enum": ["spot_cryptos", "forex", "equity", "index"],
                        "type": "string",
                        "description": "Security type key",
                        "name": "securityType",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Securities", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Security"}}},
                    "400": {"description": "Unknown security type", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Ledger error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/prices": {
            "get": {
                "description": "Get the last price of each security. A failing id yields an error object tagged with its securityId in place of the price; the order of the ids is kept.",
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "Get prices",
                "parameters": [
                    {"type": "string", "example": "1,2,3", "description": "Comma separated security IDs, at most 100", "name": "securityIds", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Prices, or per-id error objects", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Price"}}},
                    "400": {"description": "Incorrect or missing parameters", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/securityTypes": {
            "get": {
                "description": "Get the fixed list of security types as {key: description} pairs",
                "produces": ["application/json"],
                "tags": ["securities"],
                "summary": "List security types",
                "responses": {
                    "200": {"description": "Security types", "schema": {"$ref": "#/definitions/handlers.SecurityTypesResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CreateSecurityRequest": {
            "type": "object",
            "required": ["quoteCurrency", "securityType", "symbol"],
            "properties": {
                "exchangeName": {"type": "string"},
                "quoteCurrency": {"type": "string"},
                "securityType": {"type": "string"},
                "symbol": {"type": "string"}
            }
        },
        "handlers.SetPriceRequest": {
            "type": "object",
            "required": ["price", "securityId"],
            "properties": {
                "price": {"type": "string"},
                "securityId": {"type": "string"}
            }
        },
        "handlers.CreateSecurityResponse": {
            "type": "object",
            "properties": {
                "securityId": {"type": "integer"},
                "status": {"type": "string"},
                "transaction": {"$ref": "#/definitions/ledger.TransactionReceipt"}
            }
        },
        "handlers.TransactionResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "transaction": {"$ref": "#/definitions/ledger.TransactionReceipt"}
            }
        },
        "handlers.SecurityTypesResponse": {
            "type": "object",
            "properties": {
                "securityTypes": {
                    "type": "array",
                    "items": {"type": "object", "additionalProperties": {"type": "string"}}
                }
            }
        },
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handlers.ErrorDetail"}
            }
        },
        "ledger.TransactionReceipt": {
            "type": "object",
            "properties": {
                "transaction_id": {"type": "string"}
            }
        },
        "models.Security": {
            "type": "object",
            "properties": {
                "exchangeName": {"type": "string"},
                "quoteCurrency": {"type": "string"},
                "securityId": {"type": "integer"},
                "securityType": {"type": "string"},
                "symbol": {"type": "string"}
            }
        },
        "models.Price": {
            "type": "object",
            "properties": {
                "exchangeName": {"type": "string"},
                "lastTradedPrice": {"type": "string"},
                "quoteCurrency": {"type": "string"},
                "securityId": {"type": "integer"},
                "securityType": {"type": "string"},
                "symbol": {"type": "string"},
                "timestamp": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {
            "type": "basic"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "EOS Oracle API",
	Description:      "Price and security oracle backed by an EOSIO contract. Mutating endpoints require HTTP Basic credentials.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
