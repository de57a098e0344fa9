package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Greedy course timetabling over uploaded CSV tables",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule", "description": "Scheduling runs and result retrieval"},
        {"name": "Observability", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/schedule": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Run a scheduling pass",
                "description": "Upload one CSV file per table: courses, instructors, availability, rooms, enrollments, settings; optionally students and building_travel. Returns a retrieval token with a result summary.",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "courses", "in": "formData", "type": "file", "required": true},
                    {"name": "instructors", "in": "formData", "type": "file", "required": true},
                    {"name": "availability", "in": "formData", "type": "file", "required": true},
                    {"name": "rooms", "in": "formData", "type": "file", "required": true},
                    {"name": "enrollments", "in": "formData", "type": "file", "required": true},
                    {"name": "settings", "in": "formData", "type": "file", "required": true},
                    {"name": "students", "in": "formData", "type": "file"},
                    {"name": "building_travel", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid upload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Upload too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/{token}": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Fetch a stored result summary",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/{token}/download": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Download a stored schedule",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "occurrences"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "404": {"description": "Unknown or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/runs": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List past scheduling runs",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScheduleCounts": {
            "type": "object",
            "properties": {
                "sessions": {"type": "integer"},
                "unplaced": {"type": "integer"},
                "hard_errors": {"type": "integer"},
                "soft_details": {"type": "integer"}
            }
        },
        "PreviewRow": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "session_index": {"type": "integer"},
                "instructor_id": {"type": "string"},
                "room_id": {"type": "string"},
                "building": {"type": "string"},
                "day": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "slot_ids": {"type": "string"}
            }
        },
        "ScheduleRunResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "soft_score": {"type": "number"},
                "counts": {"$ref": "#/definitions/ScheduleCounts"},
                "preview": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/PreviewRow"}
                },
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"}
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
