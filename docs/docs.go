// Package docs contains the generated OpenAPI document served at /docs/doc.json.
package docs

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
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/db": {
            "get": {
                "tags": ["health"],
                "summary": "Database connectivity check",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/api/v1/subscriptions": {
            "post": {
                "tags": ["subscriptions"],
                "summary": "Subscribe a device token to a district's alerts",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            },
            "get": {
                "tags": ["subscriptions"],
                "summary": "Look up subscription preferences for a token",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/subscriptions/unsubscribe": {
            "post": {
                "tags": ["subscriptions"],
                "summary": "Disable alerts for a device token",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/subscriptions/cleanup": {
            "delete": {
                "tags": ["subscriptions"],
                "summary": "Purge long-disabled subscription rows",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/alerts/send": {
            "post": {
                "tags": ["alerts"],
                "summary": "Send a manual alert to a district's subscribers",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/v1/readings": {
            "post": {
                "tags": ["readings"],
                "summary": "Submit an air quality reading",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/readings/latest": {
            "get": {
                "tags": ["readings"],
                "summary": "Latest reading for a district",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/forecast": {
            "post": {
                "tags": ["forecast"],
                "summary": "PM2.5 forecast for a district and date",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/complaints": {
            "post": {
                "tags": ["complaints"],
                "summary": "File an air quality complaint",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            },
            "get": {
                "tags": ["complaints"],
                "summary": "List complaints",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/districts": {
            "get": {
                "tags": ["districts"],
                "summary": "List monitored districts",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/catalog": {
            "get": {
                "tags": ["catalog"],
                "summary": "List available sensor hardware",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ICPAIR Air Quality API",
	Description:      "Municipal air quality monitoring and alerting backend for Almaty.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
