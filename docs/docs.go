// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package docs registers Atelier's OpenAPI document with swag so that
// http-swagger can serve it at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/atelier"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/recommend": {
            "post": {
                "description": "Sends the prompt to the recommendation service and returns the session's recommendation page. A newer submission from the same session supersedes this one.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Submit a design prompt",
                "parameters": [
                    {
                        "description": "Prompt",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.RecommendRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Recommendations loaded",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/models.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/pages.RecommendationPage"}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid or blank prompt", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "502": {"description": "Recommendation service error", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Recommendation service unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/recommendations": {
            "get": {
                "description": "Returns the session's prompt, results, card and modal state. Loading is true while a submission is in flight.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Get the current recommendations",
                "responses": {
                    "200": {
                        "description": "Current page state",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/models.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/pages.RecommendationPage"}}}
                            ]
                        }
                    },
                    "500": {"description": "Session store error", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/analytics": {
            "get": {
                "description": "Returns top brands and materials, summary counts and bar widths. Successful upstream responses are cached briefly.",
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Get the analytics dashboard",
                "responses": {
                    "200": {
                        "description": "Dashboard data",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/models.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/pages.AnalyticsPage"}}}
                            ]
                        }
                    },
                    "502": {"description": "Analytics service error", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Analytics service unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "error": {"$ref": "#/definitions/models.APIError"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"},
                "query_time_ms": {"type": "integer"},
                "cached": {"type": "boolean"}
            }
        },
        "models.RecommendRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {
                "prompt": {"type": "string", "maxLength": 500}
            }
        },
        "models.Product": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "title": {"type": "string"},
                "brand": {"type": "string"},
                "price": {"type": "number"},
                "generated_description": {"type": "string"},
                "images": {"type": "string"},
                "dimensions": {"type": "string"},
                "countryOfOrigin": {"type": "string"},
                "material": {"type": "string"},
                "color": {"type": "string"},
                "manufacturer": {"type": "string"}
            }
        },
        "models.NamedCount": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "storefront.Carousel": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "count": {"type": "integer"}
            }
        },
        "storefront.Modal": {
            "type": "object",
            "properties": {
                "open": {"type": "boolean"},
                "holds_lock": {"type": "boolean"},
                "images": {"type": "array", "items": {"type": "string"}},
                "carousel": {"$ref": "#/definitions/storefront.Carousel"}
            }
        },
        "storefront.Card": {
            "type": "object",
            "properties": {
                "product": {"$ref": "#/definitions/models.Product"},
                "image": {"type": "string"},
                "price_label": {"type": "string"},
                "details_open": {"type": "boolean"},
                "modal": {"$ref": "#/definitions/storefront.Modal"}
            }
        },
        "pages.RecommendationPage": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.Product"}},
                "cards": {"type": "array", "items": {"$ref": "#/definitions/storefront.Card"}},
                "loading": {"type": "boolean"},
                "error": {"type": "string"},
                "request_id": {"type": "integer"}
            }
        },
        "pages.Bar": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "count": {"type": "integer"},
                "percent": {"type": "number"}
            }
        },
        "pages.Chart": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "bars": {"type": "array", "items": {"$ref": "#/definitions/pages.Bar"}}
            }
        },
        "pages.Summary": {
            "type": "object",
            "properties": {
                "total_data_points": {"type": "integer"},
                "categories": {"type": "integer"},
                "top_count": {"type": "integer"}
            }
        },
        "pages.AnalyticsPage": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "brands": {"type": "array", "items": {"$ref": "#/definitions/models.NamedCount"}},
                "materials": {"type": "array", "items": {"$ref": "#/definitions/models.NamedCount"}},
                "brand_chart": {"$ref": "#/definitions/pages.Chart"},
                "material_chart": {"$ref": "#/definitions/pages.Chart"},
                "summary": {"$ref": "#/definitions/pages.Summary"},
                "cached": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Atelier API",
	Description:      "JSON API of the Ikarus Digital Atelier storefront: prompt-driven product recommendations and catalogue analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
