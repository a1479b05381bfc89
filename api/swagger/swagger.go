package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Exit Facilities Feedback API",
        "description": "Exit survey on college facilities with email OTP verification",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Verification", "description": "Email OTP issue and verify"},
        {"name": "Feedback", "description": "Survey submission and retrieval"},
        {"name": "Stats", "description": "Per-question aggregation and report download"},
        {"name": "Auth", "description": "Admin authentication"}
    ],
    "paths": {
        "/send-otp": {
            "post": {
                "tags": ["Verification"],
                "summary": "Issue a verification code to a college email",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OTP sent", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid email", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Send failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/verify-otp": {
            "post": {
                "tags": ["Verification"],
                "summary": "Verify a submitted code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "Email verified", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "No challenge, expired, too many attempts or wrong code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feedback": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit the exit facilities survey",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing or malformed roll number", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Roll number already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feedback/{roll}": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Fetch one submission by roll number",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "roll", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions": {
            "get": {
                "tags": ["Feedback"],
                "summary": "List submissions, most recent roll first",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "branches", "in": "query", "type": "string", "description": "Comma-separated branch codes"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats": {
            "get": {
                "tags": ["Stats"],
                "summary": "Aggregate per-question statistics",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "branches", "in": "query", "type": "string", "description": "Comma-separated branch codes"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats/download": {
            "get": {
                "tags": ["Stats"],
                "summary": "Download the statistics report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "branches", "in": "query", "type": "string", "description": "Comma-separated branch codes"},
                    {"name": "format", "in": "query", "type": "string", "description": "pdf or csv (default pdf)"}
                ],
                "responses": {
                    "200": {"description": "Report file"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "SendOTPRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string", "example": "24A81A0501@sves.org.in"}
            }
        },
        "VerifyOTPRequest": {
            "type": "object",
            "required": ["email", "otp"],
            "properties": {
                "email": {"type": "string"},
                "otp": {"type": "string", "example": "123456"}
            }
        },
        "SubmitFeedbackRequest": {
            "type": "object",
            "required": ["roll"],
            "properties": {
                "roll": {"type": "string", "example": "24A81A0501"},
                "name": {"type": "string"},
                "branch": {"type": "string", "example": "CSE"},
                "accyear": {"type": "string"},
                "contact": {"type": "string"},
                "email": {"type": "string"},
                "q1": {"type": "integer", "minimum": 1, "maximum": 5},
                "q15": {"type": "string", "description": "Free-text suggestions"},
                "q21": {"type": "integer", "minimum": 1, "maximum": 5}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
