package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Udal GP API",
        "description": "Waste-management administration API for Gram Panchayats and MRF units",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and session handling"},
        {"name": "Panchayats", "description": "Gram Panchayat registry and MRF mapping"},
        {"name": "MRFs", "description": "Material Recovery Facility registry"},
        {"name": "Metrics", "description": "Performance metrics log"},
        {"name": "Dashboard", "description": "Fleet-wide aggregates"},
        {"name": "Reports", "description": "CSV / PDF exports"},
        {"name": "Admin", "description": "User administration"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Account banned"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/panchayats": {
            "get": {
                "tags": ["Panchayats"],
                "summary": "List panchayats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Panchayats"],
                "summary": "Register panchayat",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePanchayatRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Name and taluk already registered"}
                }
            }
        },
        "/panchayats/{id}": {
            "get": {
                "tags": ["Panchayats"],
                "summary": "Get panchayat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "patch": {
                "tags": ["Panchayats"],
                "summary": "Update panchayat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePanchayatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Panchayats"],
                "summary": "Delete panchayat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/panchayats/{id}/mrf": {
            "put": {
                "tags": ["Panchayats"],
                "summary": "Map panchayat to an MRF unit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MapMRFRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Panchayats"],
                "summary": "Unmap panchayat from its MRF unit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/panchayats/{id}/metrics": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Metrics history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/panchayats/{id}/metrics/latest": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Latest metrics",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No metrics recorded"}
                }
            }
        },
        "/metrics": {
            "post": {
                "tags": ["Metrics"],
                "summary": "Record metrics",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordMetricsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mrfs": {
            "get": {
                "tags": ["MRFs"],
                "summary": "List MRFs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["MRFs"],
                "summary": "Register MRF",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMRFRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Unit code already in use"}
                }
            }
        },
        "/mrfs/{id}": {
            "get": {
                "tags": ["MRFs"],
                "summary": "Get MRF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "patch": {
                "tags": ["MRFs"],
                "summary": "Update MRF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMRFRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["MRFs"],
                "summary": "Delete MRF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/trend": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Waste trend",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/panchayats": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export panchayat report",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "description": "csv (default) or pdf"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Admin"],
                "summary": "List users",
                "parameters": [
                    {"name": "searchValue", "in": "query", "type": "string"},
                    {"name": "searchField", "in": "query", "type": "string"},
                    {"name": "searchOperator", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"},
                    {"name": "sortBy", "in": "query", "type": "string"},
                    {"name": "sortDirection", "in": "query", "type": "string"},
                    {"name": "filterField", "in": "query", "type": "string"},
                    {"name": "filterValue", "in": "query", "type": "string"},
                    {"name": "filterOperator", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already exists"}
                }
            }
        },
        "/admin/users/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Admin"],
                "summary": "Update user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Own role change rejected"}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Own account deletion rejected"}
                }
            }
        },
        "/admin/users/{id}/role": {
            "put": {
                "tags": ["Admin"],
                "summary": "Set role",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Own role change rejected"}
                }
            }
        },
        "/admin/users/{id}/password": {
            "put": {
                "tags": ["Admin"],
                "summary": "Set password",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/users/{id}/ban": {
            "post": {
                "tags": ["Admin"],
                "summary": "Ban user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Self ban rejected"}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Unban user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/users/{id}/impersonate": {
            "post": {
                "tags": ["Admin"],
                "summary": "Impersonate user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users/{id}/sessions": {
            "get": {
                "tags": ["Admin"],
                "summary": "List sessions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Revoke all sessions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/sessions/revoke": {
            "post": {
                "tags": ["Admin"],
                "summary": "Revoke session by token",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreatePanchayatRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "taluk": {"type": "string"},
                "village": {"type": "string"},
                "sarpanch": {"type": "string"},
                "status": {"type": "string", "enum": ["Active", "Inactive"]},
                "mrfMapped": {"type": "boolean"},
                "mrfUnitId": {"type": "string"},
                "mrfUnitName": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["name", "taluk", "village", "sarpanch", "status", "email", "password"]
        },
        "UpdatePanchayatRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "taluk": {"type": "string"},
                "village": {"type": "string"},
                "sarpanch": {"type": "string"},
                "status": {"type": "string"},
                "households": {"type": "integer"},
                "shops": {"type": "integer"},
                "institutions": {"type": "integer"},
                "swmSheds": {"type": "integer"}
            }
        },
        "MapMRFRequest": {
            "type": "object",
            "properties": {
                "mrfUnitId": {"type": "string"},
                "mrfUnitName": {"type": "string"}
            },
            "required": ["mrfUnitId", "mrfUnitName"]
        },
        "CreateMRFRequest": {
            "type": "object",
            "properties": {
                "unitId": {"type": "string"},
                "name": {"type": "string"},
                "status": {"type": "string"},
                "taluk": {"type": "string"},
                "village": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "contactPerson": {"type": "string"},
                "capacity": {"type": "number"},
                "operationalStatus": {"type": "string"},
                "equipment": {"type": "string"}
            },
            "required": ["name"]
        },
        "UpdateMRFRequest": {
            "type": "object",
            "properties": {
                "unitId": {"type": "string"},
                "name": {"type": "string"},
                "status": {"type": "string"},
                "capacity": {"type": "number"}
            }
        },
        "RecordMetricsRequest": {
            "type": "object",
            "properties": {
                "gramPanchayatId": {"type": "string"},
                "dateRecorded": {"type": "string"},
                "wetWaste": {"type": "number"},
                "dryWaste": {"type": "number"},
                "sanitaryWaste": {"type": "number"},
                "revenue": {"type": "number"},
                "complianceScore": {"type": "number"}
            },
            "required": ["gramPanchayatId"]
        },
        "CreateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "contactDetails": {"type": "string"}
            },
            "required": ["email", "password", "name"]
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "contactDetails": {"type": "string"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
