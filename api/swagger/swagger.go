package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "DHMS API",
        "description": "Dormitory operations backend: maintenance, laundry, room assignment and penalties",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, registration and token lifecycle"},
        {"name": "Student", "description": "Dashboard, room view, maintenance and laundry submissions"},
        {"name": "Proctor", "description": "Approval queues, room assignment and penalties"},
        {"name": "Staff", "description": "Maintenance job board"},
        {"name": "Security", "description": "Laundry verification and QR redemption"},
        {"name": "Public", "description": "Unauthenticated laundry pickup page"},
        {"name": "Rooms", "description": "Dorm and room reads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by username and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create account with role profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/student/laundry": {
            "post": {
                "tags": ["Student"],
                "summary": "Submit laundry form",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLaundryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Student"],
                "summary": "List own laundry forms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/laundry/{id}/slip": {
            "get": {
                "tags": ["Student"],
                "summary": "Download printable laundry slip",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF slip"}
                }
            }
        },
        "/public/laundry/{code}": {
            "get": {
                "tags": ["Public"],
                "summary": "Public form status by code",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown code"}
                }
            }
        },
        "/public/laundry/{code}/take-out": {
            "post": {
                "tags": ["Public"],
                "summary": "Redeem form at pickup",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Receipt", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Not verified or already taken"},
                    "404": {"description": "Unknown code"}
                }
            }
        },
        "/proctor/assignments": {
            "post": {
                "tags": ["Proctor"],
                "summary": "Assign student to room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Room full"},
                    "409": {"description": "Student already assigned"}
                }
            }
        },
        "/security/laundry/scan": {
            "post": {
                "tags": ["Security"],
                "summary": "Redeem form from scanner",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QRScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "Receipt", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "proctor", "staff", "security", "admin"]},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            },
            "required": ["username", "password", "full_name", "role"]
        },
        "CreateLaundryRequest": {
            "type": "object",
            "properties": {
                "item_count": {"type": "integer"},
                "item_list": {"type": "string"},
                "special_instructions": {"type": "string"}
            },
            "required": ["item_count", "item_list"]
        },
        "AssignRoomRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "room_id": {"type": "string"},
                "assignment_date": {"type": "string", "format": "date"},
                "expected_check_out": {"type": "string", "format": "date"}
            },
            "required": ["student_id", "room_id", "assignment_date"]
        },
        "QRScanRequest": {
            "type": "object",
            "properties": {
                "qr_code": {"type": "string"}
            },
            "required": ["qr_code"]
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "errors": {"type": "object"}
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
