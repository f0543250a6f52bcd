// Package swagger holds the OpenAPI document served at /swagger.
package swagger

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
        "/sessions": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sessions"
                ],
                "summary": "Open Session",
                "description": "Opens a session with a home list and a favorites list and starts the first page fetch.",
                "responses": {
                    "201": {
                        "description": "Session",
                        "schema": {
                            "$ref": "#/definitions/universities.SessionResponse"
                        }
                    },
                    "503": {
                        "description": "Session limit reached",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}": {
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sessions"
                ],
                "summary": "Close Session",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Closed"
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/events": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sessions"
                ],
                "summary": "Drain Events",
                "description": "Returns the buffered events, waiting up to wait milliseconds when none are pending.",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Long-poll milliseconds",
                        "name": "wait",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Events",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "400": {
                        "description": "Invalid wait",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Home Snapshot",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/next": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Fetch Next Page",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/retry": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Retry",
                "description": "Clears the list and fetches from the first page again.",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/refresh": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Refresh Favorites",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/collapse": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Collapse All",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/scroll": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Report Scroll",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Scroll geometry",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/universities.ScrollRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "400": {
                        "description": "Invalid body",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/provinces/{section}/toggle": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Toggle Province",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Province position",
                        "name": "section",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "400": {
                        "description": "Invalid section",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/provinces/{section}/universities/{row}/toggle": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Toggle University",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Province position",
                        "name": "section",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "University position",
                        "name": "row",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "400": {
                        "description": "Invalid path",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/provinces/{section}/universities/{row}/favorite": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "Toggle Favorite",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Province position",
                        "name": "section",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "University position",
                        "name": "row",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Home list",
                        "schema": {
                            "$ref": "#/definitions/listsync.HomeState"
                        }
                    },
                    "400": {
                        "description": "Invalid path",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/home/provinces/{section}/universities/{row}/details": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "home"
                ],
                "summary": "University Details",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Province position",
                        "name": "section",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "University position",
                        "name": "row",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Details",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.Detail"
                            }
                        }
                    },
                    "400": {
                        "description": "Invalid path",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown session or university",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/favorites": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Favorites Snapshot",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Favorites list",
                        "schema": {
                            "$ref": "#/definitions/listsync.FavoritesState"
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/favorites/load": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Reload Favorites",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Favorites list",
                        "schema": {
                            "$ref": "#/definitions/listsync.FavoritesState"
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/favorites/collapse": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Collapse Favorites",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Favorites list",
                        "schema": {
                            "$ref": "#/definitions/listsync.FavoritesState"
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/favorites/{row}/toggle": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Toggle Favorite Row",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Row",
                        "name": "row",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Favorites list",
                        "schema": {
                            "$ref": "#/definitions/listsync.FavoritesState"
                        }
                    },
                    "400": {
                        "description": "Invalid row",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/sessions/{id}/favorites/{row}": {
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Remove Favorite Row",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Row",
                        "name": "row",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Favorites list",
                        "schema": {
                            "$ref": "#/definitions/listsync.FavoritesState"
                        }
                    },
                    "400": {
                        "description": "Invalid row",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown session",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/favorites": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "List Favorites",
                "responses": {
                    "200": {
                        "description": "Favorites",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.University"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Add Favorite",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "University",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/favorites.AddRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Stored favorite",
                        "schema": {
                            "$ref": "#/definitions/models.University"
                        }
                    },
                    "400": {
                        "description": "Invalid body",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/favorites/{name}": {
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "favorites"
                ],
                "summary": "Remove Favorite",
                "parameters": [
                    {
                        "type": "string",
                        "description": "University name",
                        "name": "name",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Removed"
                    },
                    "404": {
                        "description": "Not a favorite",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/integrity": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "integrity"
                ],
                "summary": "Run All Integrity Checks",
                "responses": {
                    "200": {
                        "description": "Combined Report",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/integrity/source": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "integrity"
                ],
                "summary": "Check Page Source",
                "responses": {
                    "200": {
                        "description": "Source Report",
                        "schema": {
                            "$ref": "#/definitions/checks.SourceReport"
                        }
                    }
                }
            }
        },
        "/integrity/pages": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "integrity"
                ],
                "summary": "Check Mirrored Pages",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Create the bucket if missing",
                        "name": "fix",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Pages Report",
                        "schema": {
                            "$ref": "#/definitions/checks.PagesReport"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/integrity/schema": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "integrity"
                ],
                "summary": "Check Favorites Schema",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Migrate the table",
                        "name": "fix",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Schema Report",
                        "schema": {
                            "$ref": "#/definitions/checks.SchemaReport"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/integrity/cache": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "integrity"
                ],
                "summary": "Check Redis",
                "responses": {
                    "200": {
                        "description": "Cache Report",
                        "schema": {
                            "$ref": "#/definitions/checks.CacheReport"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "models.University": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "fax": {
                    "type": "string"
                },
                "website": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "rector": {
                    "type": "string"
                },
                "province_id": {
                    "type": "integer"
                },
                "index": {
                    "type": "integer"
                },
                "expanded": {
                    "type": "boolean"
                },
                "favorite": {
                    "type": "boolean"
                }
            }
        },
        "models.Province": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "universities": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.University"
                    }
                },
                "expanded": {
                    "type": "boolean"
                }
            }
        },
        "models.Detail": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "value": {
                    "type": "string"
                }
            }
        },
        "models.Path": {
            "type": "object",
            "properties": {
                "section": {
                    "type": "integer"
                },
                "row": {
                    "type": "integer"
                }
            }
        },
        "listsync.Cursor": {
            "type": "object",
            "properties": {
                "current_page": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                },
                "loading": {
                    "type": "boolean"
                }
            }
        },
        "listsync.HomeState": {
            "type": "object",
            "properties": {
                "provinces": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Province"
                    }
                },
                "cursor": {
                    "$ref": "#/definitions/listsync.Cursor"
                },
                "phase": {
                    "type": "string"
                },
                "last_error": {
                    "type": "string"
                }
            }
        },
        "listsync.FavoritesState": {
            "type": "object",
            "properties": {
                "universities": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.University"
                    }
                },
                "loaded": {
                    "type": "boolean"
                }
            }
        },
        "listsync.Event": {
            "type": "object",
            "properties": {
                "kind": {
                    "type": "string"
                },
                "sections": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "rows": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Path"
                    }
                },
                "title": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "universities.SessionResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "universities.ScrollRequest": {
            "type": "object",
            "properties": {
                "offset": {
                    "type": "number"
                },
                "visible_height": {
                    "type": "number"
                },
                "content_height": {
                    "type": "number"
                }
            }
        },
        "favorites.AddRequest": {
            "type": "object",
            "required": [
                "name"
            ],
            "properties": {
                "name": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "fax": {
                    "type": "string"
                },
                "website": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "rector": {
                    "type": "string"
                },
                "province_id": {
                    "type": "integer"
                },
                "index": {
                    "type": "integer"
                }
            }
        },
        "checks.SourceReport": {
            "type": "object",
            "properties": {
                "reachable": {
                    "type": "boolean"
                },
                "total_pages": {
                    "type": "integer"
                },
                "provinces": {
                    "type": "integer"
                },
                "universities": {
                    "type": "integer"
                },
                "latency_ms": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                },
                "error_kind": {
                    "type": "string"
                }
            }
        },
        "checks.PagesReport": {
            "type": "object",
            "properties": {
                "bucket": {
                    "type": "string"
                },
                "expected": {
                    "type": "integer"
                },
                "found": {
                    "type": "integer"
                },
                "missing": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "unexpected": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "checks.TableReport": {
            "type": "object",
            "properties": {
                "missing_columns": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "type_mismatches": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "checks.SchemaReport": {
            "type": "object",
            "properties": {
                "driver": {
                    "type": "string"
                },
                "matched": {
                    "type": "boolean"
                },
                "tables": {
                    "type": "object",
                    "additionalProperties": {
                        "$ref": "#/definitions/checks.TableReport"
                    }
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "checks.CacheReport": {
            "type": "object",
            "properties": {
                "reachable": {
                    "type": "boolean"
                },
                "latency_ms": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "University List API",
	Description:      "Paginated browsing of Turkish universities by province, with persistent favorites.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
