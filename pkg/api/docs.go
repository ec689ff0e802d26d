package api

import "github.com/swaggo/swag"

// @title Grocery Catalog Crawlers API
// @version 1.0
// @description API для управления краулерами продуктовых каталогов
// @host localhost:8080
// @BasePath /
// @schemes http https
func SwaggerInfo() {
	swag.Register(swag.Name, &swag.Spec{
		InfoInstanceName: swag.Name,
		SwaggerTemplate:  docTemplate,
	})
}

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Grocery Catalog Crawlers API",
        "description": "API для управления краулерами продуктовых каталогов",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "paths": {
        "/api/cawalmart/crawl": {
            "post": {
                "summary": "Crawl the configured catalog listing",
                "description": "Walks the listing root, parses every product and enriches it per branch",
                "tags": [
                    "cawalmart"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Response"
                        }
                    }
                }
            }
        },
        "/api/cawalmart/crawl-product": {
            "post": {
                "summary": "Parse a single product page",
                "description": "Enqueues the page when a queue is configured, parses inline otherwise",
                "tags": [
                    "cawalmart"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "url",
                        "in": "query",
                        "required": true,
                        "description": "Product page URL"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/Response"
                        }
                    }
                }
            }
        },
        "/api/cawalmart/records": {
            "get": {
                "summary": "Count emitted catalog records",
                "tags": [
                    "cawalmart"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Response"
                        }
                    }
                }
            }
        },
        "/api/richart/ingest": {
            "post": {
                "summary": "Ingest the flat product and prices files",
                "tags": [
                    "ingestion"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/Response"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Response": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "count": {
                    "type": "integer"
                }
            }
        }
    }
}`
