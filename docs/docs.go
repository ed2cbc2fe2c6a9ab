// Package docs holds the Swagger document served under /v1/swagger. It is kept by
// hand in step with the handler annotations in cmd/api; definition names follow
// the @name overrides there.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "SkillLinkup support",
            "email": "support@skilllinkup.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/marketplace/orders/{orderID}/review": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Returns the caller's own review and, once both parties have submitted, the other party's review.",
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Get the reviews of an order",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "orderID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/orderreview.OrderReviews"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBadRequestResponse"}},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorInternalServerResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Submits the caller's review. It stays hidden until the other party has reviewed too.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Review a completed order",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "orderID", "in": "path", "required": true},
                    {"description": "Review", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.SubmitReviewPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/orderreview.SubmitResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBadRequestResponse"}},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorInternalServerResponse"}}
                }
            }
        },
        "/freelancers/{freelancerID}/rating": {
            "get": {
                "description": "Average and count over the freelancer's visible reviews.",
                "produces": ["application/json"],
                "tags": ["freelancers"],
                "summary": "Get a freelancer's rating",
                "parameters": [
                    {"type": "integer", "description": "Freelancer user ID", "name": "freelancerID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/freelancers.Aggregate"}}
                }
            }
        },
        "/freelancers/{freelancerID}/reviews": {
            "get": {
                "description": "Only reviews that have been revealed are listed, newest first.",
                "produces": ["application/json"],
                "tags": ["freelancers"],
                "summary": "List a freelancer's reviews",
                "parameters": [
                    {"type": "integer", "description": "Freelancer user ID", "name": "freelancerID", "in": "path", "required": true},
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (max 30)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/authentication/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Login to get Token",
                "parameters": [
                    {"description": "User credentials", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.CreateUserTokenPayload"}}
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/main.Envelope"}}
                }
            }
        },
        "/authentication/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Refresh authentication tokens",
                "parameters": [
                    {"description": "Refresh token payload", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.RefreshPayload"}}
                ],
                "responses": {
                    "200": {"description": "New access and refresh tokens", "schema": {"$ref": "#/definitions/main.Envelope"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "List notifications",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/{notificationID}/read": {
            "patch": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["notifications"],
                "summary": "Mark a notification as read",
                "parameters": [
                    {"type": "integer", "description": "Notification ID", "name": "notificationID", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/users/push-tokens": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["notifications"],
                "summary": "Save or update a push notification token",
                "responses": {"204": {"description": "No Content"}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["notifications"],
                "summary": "Remove a push notification token",
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "freelancers.Aggregate": {
            "type": "object",
            "properties": {
                "freelancer_id": {"type": "integer"},
                "average": {"type": "number"},
                "count": {"type": "integer"}
            }
        },
        "reviews.Review": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "order_id": {"type": "integer"},
                "reviewer_id": {"type": "integer"},
                "reviewee_id": {"type": "integer"},
                "overall_rating": {"type": "integer"},
                "communication_rating": {"type": "integer"},
                "quality_rating": {"type": "integer"},
                "timeliness_rating": {"type": "integer"},
                "value_rating": {"type": "integer"},
                "content": {"type": "string"},
                "is_visible": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "orderreview.OrderReviews": {
            "type": "object",
            "properties": {
                "my_review": {"$ref": "#/definitions/reviews.Review"},
                "other_review": {"$ref": "#/definitions/reviews.Review"},
                "total_reviews": {"type": "integer"},
                "both_submitted": {"type": "boolean"}
            }
        },
        "orderreview.SubmitResult": {
            "type": "object",
            "properties": {
                "review": {"$ref": "#/definitions/reviews.Review"},
                "both_submitted": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "main.SubmitReviewPayload": {
            "type": "object",
            "properties": {
                "overall_rating": {"type": "number", "example": 5},
                "communication_rating": {"type": "number", "example": 4},
                "quality_rating": {"type": "number", "example": 5},
                "timeliness_rating": {"type": "number", "example": 4},
                "value_rating": {"type": "number", "example": 5},
                "content": {"type": "string", "example": "Clear brief, quick feedback and paid on time."}
            }
        },
        "main.CreateUserTokenPayload": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 255},
                "password": {"type": "string", "maxLength": 72, "minLength": 3}
            }
        },
        "main.RefreshPayload": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "main.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "role": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "main.Envelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/main.TokenResponse"}
            }
        },
        "ErrorBadRequestResponse": {
            "description": "Standard error response format returned by all bad request API endpoints",
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "It show error from err.Error()"},
                "status": {"type": "integer", "example": 400},
                "success": {"type": "boolean", "example": false}
            }
        },
        "ErrorInternalServerResponse": {
            "description": "Standard error response format returned by all internal server error API endpoints",
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "the server encountered a problem"},
                "status": {"type": "integer", "example": 500},
                "success": {"type": "boolean", "example": false}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "SkillLinkup API",
	Description:      "Marketplace API for SkillLinkup: blind order reviews, freelancer ratings and notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
