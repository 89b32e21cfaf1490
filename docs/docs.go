// Package docs registers the OpenAPI description served under /swagger.
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
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness and database check",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {
                "description": "Computes the standings of a tournament, or of one group when group_id is given.",
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Standings table",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "integer", "description": "Group ID", "name": "group_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/standings/publish": {
            "post": {
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Upload a standings snapshot to object storage",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            },
            "delete": {
                "tags": ["standings"],
                "summary": "Remove the published standings snapshot",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/tournaments/{tournamentID}/classification": {
            "get": {
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Qualification view",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/bracket/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Whether the knockout bracket can be generated",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tournaments/{tournamentID}/bracket": {
            "post": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Generate the first knockout round",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/fixtures": {
            "post": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Generate group stage fixtures",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/matches": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Create a match",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/matches/{matchID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Get a match with its teams",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Edit the schedule of a match",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/matches/{matchID}/teams": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Set the two teams of a match",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/matches/{matchID}/score": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Record the result of a match",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/matches/{matchID}/status": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Move a match to another state",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/matches/{matchID}/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List the events of a match",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Record a disciplinary event",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tournament Engine API",
	Description:      "Standings, qualification, brackets and match lifecycle for football and basketball tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
