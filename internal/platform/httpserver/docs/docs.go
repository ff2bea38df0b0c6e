// Package docs holds the OpenAPI document served under /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "summary": "Gateway status for the authenticated caller"
            }
        },
        "/clients": {
            "get": {
                "summary": "List clients managed by the caller"
            },
            "post": {
                "summary": "Register a new self-service client"
            }
        },
        "/clients/{client_id}": {
            "get": {
                "summary": "Fetch one managed client"
            },
            "put": {
                "summary": "Update one managed client"
            },
            "delete": {
                "summary": "Delete one managed client"
            }
        },
        "/clients/{client_id}/secret/regenerate": {
            "post": {
                "summary": "Rotate the client secret"
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
	Title:            "Self Service Clients API",
	Description:      "Delegated self-service management of OAuth/OIDC clients.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
