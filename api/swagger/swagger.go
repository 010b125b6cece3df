package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CRM API",
        "description": "CRM server for managing students, applicants and marketing campaigns",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and session introspection"},
        {"name": "Persons", "description": "Unified person registry"},
        {"name": "Students", "description": "Enrolled student listing"},
        {"name": "Applicants", "description": "Applicants and program interests"},
        {"name": "Programs", "description": "Program catalog and enrollments"},
        {"name": "Attributes", "description": "Custom attribute registry and values"},
        {"name": "Comments", "description": "Profile comments"},
        {"name": "Presets", "description": "Saved filter presets"},
        {"name": "Signatures", "description": "Mail signatures"},
        {"name": "Mail", "description": "Campaign mail and unsubscribe"},
        {"name": "Export", "description": "Filtered dataset exports"},
        {"name": "Users", "description": "Operator account management"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an operator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current operator profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/persons": {
            "get": {
                "tags": ["Persons"],
                "summary": "List persons with ordered filters",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "email", "in": "query", "type": "string"},
                    {"name": "phone", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "interest_program", "in": "query", "type": "string"},
                    {"name": "marketing", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Persons"],
                "summary": "Create person",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PersonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/persons/{id}": {
            "get": {
                "tags": ["Persons"],
                "summary": "Person detail with programs, interests and attributes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Persons"],
                "summary": "Update person",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PersonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Persons"],
                "summary": "Delete person and every dependent record (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "403": {"description": "Admin only"}
                }
            }
        },
        "/persons/{id}/history": {
            "get": {
                "tags": ["Persons"],
                "summary": "Person history, newest first",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/persons/{id}/attributes": {
            "put": {
                "tags": ["Attributes"],
                "summary": "Set a registered attribute value on a person",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttributeValueRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Attribute not registered"}
                }
            }
        },
        "/persons/{id}/attributes/{name}": {
            "delete": {
                "tags": ["Attributes"],
                "summary": "Remove an attribute value from a person",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/persons/{id}/comments": {
            "get": {
                "tags": ["Comments"],
                "summary": "List profile comments with author info",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Comments"],
                "summary": "Add profile comment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/comments/{commentId}": {
            "put": {
                "tags": ["Comments"],
                "summary": "Edit own comment",
                "parameters": [
                    {"name": "commentId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Only the author can edit"}
                }
            },
            "delete": {
                "tags": ["Comments"],
                "summary": "Delete comment (author or admin)",
                "parameters": [
                    {"name": "commentId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/persons/{id}/interests/{programId}": {
            "post": {
                "tags": ["Applicants"],
                "summary": "Register program interest",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "programId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Interest already registered"}
                }
            },
            "delete": {
                "tags": ["Applicants"],
                "summary": "Remove program interest",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "programId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students with program aggregation and pivoted attributes",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "edition", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student, optionally enrolling into a program",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/applicants": {
            "get": {
                "tags": ["Applicants"],
                "summary": "List applicants with their program interests",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "interest_program", "in": "query", "type": "string"},
                    {"name": "edition", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Applicants"],
                "summary": "Create applicant with their first program interest",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplicantRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "edition", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Create program (admin)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProgramRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/programs/editions": {
            "get": {
                "tags": ["Programs"],
                "summary": "Distinct program editions, cached",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{id}": {
            "get": {
                "tags": ["Programs"],
                "summary": "Get program",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Programs"],
                "summary": "Update program (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProgramRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Programs"],
                "summary": "Delete program and its enrollments (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/programs/{id}/enrollments": {
            "get": {
                "tags": ["Programs"],
                "summary": "List persons enrolled in a program",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Bulk enroll persons, reporting already-enrolled separately",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkEnrollRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "All requested persons already enrolled"},
                    "404": {"description": "Program not found"}
                }
            }
        },
        "/programs/{id}/enrollments/{personId}": {
            "delete": {
                "tags": ["Programs"],
                "summary": "Remove one enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "personId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "404": {"description": "Enrollment not found"}
                }
            }
        },
        "/attributes": {
            "get": {
                "tags": ["Attributes"],
                "summary": "List registered attributes",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Attributes"],
                "summary": "Register attribute (admin)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttributeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Name already registered"}
                }
            }
        },
        "/attributes/{id}": {
            "delete": {
                "tags": ["Attributes"],
                "summary": "Delete attribute and all its values (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/presets": {
            "get": {
                "tags": ["Presets"],
                "summary": "List own filter presets",
                "parameters": [
                    {"name": "entity_type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Presets"],
                "summary": "Save filter preset",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PresetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/presets/{id}": {
            "get": {
                "tags": ["Presets"],
                "summary": "Get own preset",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found or not owned"}
                }
            },
            "delete": {
                "tags": ["Presets"],
                "summary": "Delete own preset",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/signatures": {
            "get": {
                "tags": ["Signatures"],
                "summary": "List active signatures",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Signatures"],
                "summary": "Create signature (admin)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignatureRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/signatures/{id}": {
            "get": {
                "tags": ["Signatures"],
                "summary": "Get signature",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Signatures"],
                "summary": "Update signature (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignatureRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Signatures"],
                "summary": "Retire signature (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Retired"}
                }
            }
        },
        "/signatures/{id}/default": {
            "put": {
                "tags": ["Signatures"],
                "summary": "Mark signature as the campaign default (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/mail/send": {
            "post": {
                "tags": ["Mail"],
                "summary": "Send a campaign to a batch of persons",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CampaignRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/unsubscribe": {
            "get": {
                "tags": ["Mail"],
                "summary": "Process a signed unsubscribe link",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Opt-out confirmed"},
                    "400": {"description": "Invalid or expired link"}
                }
            }
        },
        "/export/{entity}": {
            "get": {
                "tags": ["Export"],
                "summary": "Export one view using query-string filters",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "default": "xlsx"},
                    {"name": "columns", "in": "query", "type": "array", "items": {"type": "string"}}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/export": {
            "post": {
                "tags": ["Export"],
                "summary": "Export a filtered dataset as CSV, XLSX or PDF",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List operator accounts (admin)",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create operator account (admin)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/users/password": {
            "put": {
                "tags": ["Users"],
                "summary": "Change own password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PasswordChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Current password mismatch"}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get operator account (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update operator account (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UserUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Self demotion rejected"}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete operator account (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "400": {"description": "Self deletion rejected"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "PersonRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "status": {"type": "string", "enum": ["student", "applicant", "other"]},
                "marketing_opt_in": {"type": "boolean"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "required": ["name", "email", "program_id"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "program_id": {"type": "integer"}
            }
        },
        "ApplicantRequest": {
            "type": "object",
            "required": ["name", "email", "program_id"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "program_id": {"type": "integer"}
            }
        },
        "ProgramRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "edition": {"type": "string"}
            }
        },
        "BulkEnrollRequest": {
            "type": "object",
            "required": ["person_ids"],
            "properties": {
                "person_ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "AttributeRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"}
            }
        },
        "AttributeValueRequest": {
            "type": "object",
            "required": ["name", "value"],
            "properties": {
                "name": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "CommentRequest": {
            "type": "object",
            "required": ["body"],
            "properties": {
                "body": {"type": "string"}
            }
        },
        "PresetRequest": {
            "type": "object",
            "required": ["name", "entity_type"],
            "properties": {
                "name": {"type": "string"},
                "entity_type": {"type": "string", "enum": ["students", "applicants", "persons", "system"]},
                "filters": {"type": "object"},
                "attribute_filters": {"type": "array", "items": {"$ref": "#/definitions/AttributeFilter"}}
            }
        },
        "AttributeFilter": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "SignatureRequest": {
            "type": "object",
            "required": ["name", "html"],
            "properties": {
                "name": {"type": "string"},
                "html": {"type": "string"},
                "is_default": {"type": "boolean"}
            }
        },
        "CampaignRequest": {
            "type": "object",
            "required": ["person_ids", "subject", "body"],
            "properties": {
                "person_ids": {"type": "array", "items": {"type": "integer"}},
                "subject": {"type": "string"},
                "body": {"type": "string"},
                "signature_id": {"type": "integer"},
                "marketing": {"type": "boolean"},
                "bcc": {"type": "string"},
                "sender_name": {"type": "string"},
                "sender_email": {"type": "string"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["entity_type", "format"],
            "properties": {
                "entity_type": {"type": "string", "enum": ["students", "applicants", "persons", "system"]},
                "format": {"type": "string", "enum": ["csv", "xlsx", "pdf"]},
                "columns": {"type": "array", "items": {"type": "string"}},
                "filters": {"type": "object"},
                "attribute_filters": {"type": "array", "items": {"$ref": "#/definitions/AttributeFilter"}}
            }
        },
        "UserRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "normal"]}
            }
        },
        "UserUpdateRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "normal"]},
                "active": {"type": "boolean"},
                "password": {"type": "string"}
            }
        },
        "PasswordChangeRequest": {
            "type": "object",
            "required": ["current_password", "new_password"],
            "properties": {
                "current_password": {"type": "string"},
                "new_password": {"type": "string"}
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
