// Package docs registers the blog API's OpenAPI description with swag.
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
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.UserResponse"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user",
                "parameters": [
                    {"description": "User", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.userRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Replace a user's email, login and password",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "User", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.userRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PostResponse"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"description": "Post", "name": "post", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.createPostRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.PostResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/author/{authorId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List an author's posts",
                "parameters": [
                    {"type": "integer", "description": "Author ID", "name": "authorId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PostResponse"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PostResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Replace a post's title and content",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"description": "Post", "name": "post", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.updatePostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PostResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{id}/like": {
            "post": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Like a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PostResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{id}/dislike": {
            "post": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Dislike a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PostResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "models.PostResponse": {
            "type": "object",
            "properties": {
                "authorId": {"type": "integer"},
                "content": {"type": "string"},
                "createdAt": {"type": "string"},
                "dislikes": {"type": "integer"},
                "id": {"type": "integer"},
                "likes": {"type": "integer"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.UserResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "login": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "server.createPostRequest": {
            "type": "object",
            "properties": {
                "authorId": {"type": "integer"},
                "content": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "server.updatePostRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "server.userRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "login": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Blog API",
	Description:      "REST API for the blog: users, posts, likes and dislikes",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
