// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/healthz": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Health check",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/admin/subscription/create": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Create subscription",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/enrollment.CreateRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/get": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Get subscription",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.IDRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/list": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "List subscriptions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/subscription.ListRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/near_expiry": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Subscriptions near expiry",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.NearExpiryRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/near_expiry/export": {
            "get": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Export near-expiry subscriptions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    }
                },
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "days",
                        "in": "query",
                        "required": false
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/update": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Update subscription",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/subscription.UpdateRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/update_payment_method": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Update payment method",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/subscription.UpdatePaymentMethodRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/update_pack_category": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Update pack category",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/subscription.UpdatePackCategoryRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/delete": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Delete subscription",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.IDRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/subscription/renew": {
            "post": {
                "tags": [
                    "Subscription"
                ],
                "summary": "Renew subscription",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/enrollment.RenewRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/payment/record": {
            "post": {
                "tags": [
                    "Payment"
                ],
                "summary": "Record installment",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ledger.RecordRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/payment/edit": {
            "post": {
                "tags": [
                    "Payment"
                ],
                "summary": "Edit installment",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ledger.EditRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/payment/delete": {
            "post": {
                "tags": [
                    "Payment"
                ],
                "summary": "Delete installment",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.IDRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/payment/list": {
            "post": {
                "tags": [
                    "Payment"
                ],
                "summary": "List installments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.SubscriptionIDRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/payment/reconcile": {
            "post": {
                "tags": [
                    "Payment"
                ],
                "summary": "Reconcile paid amount",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.SubscriptionIDRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/payment/export": {
            "get": {
                "tags": [
                    "Payment"
                ],
                "summary": "Export installments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    }
                },
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "subscription_id",
                        "in": "query",
                        "required": true
                    }
                ]
            }
        },
        "/api/v1/admin/pack/attach": {
            "post": {
                "tags": [
                    "Pack"
                ],
                "summary": "Attach pack member",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pack.AttachRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/pack/detach": {
            "post": {
                "tags": [
                    "Pack"
                ],
                "summary": "Detach pack member",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pack.DetachRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/pack/replace": {
            "post": {
                "tags": [
                    "Pack"
                ],
                "summary": "Replace pack members",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pack.ReplaceRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/pack/members": {
            "post": {
                "tags": [
                    "Pack"
                ],
                "summary": "List pack members",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.SubscriptionIDRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/admin/reminder/dispatch": {
            "post": {
                "tags": [
                    "Reminder"
                ],
                "summary": "Dispatch reminders",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.RespOK"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/reminder.DispatchRequest"
                        }
                    }
                ]
            }
        }
    },
    "definitions": {
        "enrollment.CreateRequest": {
            "type": "object"
        },
        "enrollment.RenewRequest": {
            "type": "object"
        },
        "handlers.IDRequest": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 42
                }
            }
        },
        "handlers.NearExpiryRequest": {
            "type": "object",
            "properties": {
                "days": {
                    "type": "integer",
                    "example": 10
                }
            }
        },
        "handlers.RespOK": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "integer"
                },
                "message": {
                    "type": "string"
                },
                "data": {}
            }
        },
        "handlers.SubscriptionIDRequest": {
            "type": "object",
            "properties": {
                "subscription_id": {
                    "type": "integer",
                    "example": 42
                }
            }
        },
        "ledger.EditRequest": {
            "type": "object"
        },
        "ledger.RecordRequest": {
            "type": "object"
        },
        "pack.AttachRequest": {
            "type": "object"
        },
        "pack.DetachRequest": {
            "type": "object"
        },
        "pack.ReplaceRequest": {
            "type": "object"
        },
        "reminder.DispatchRequest": {
            "type": "object"
        },
        "subscription.ListRequest": {
            "type": "object"
        },
        "subscription.UpdatePackCategoryRequest": {
            "type": "object"
        },
        "subscription.UpdatePaymentMethodRequest": {
            "type": "object"
        },
        "subscription.UpdateRequest": {
            "type": "object"
        }
    },
    "securityDefinitions": {
        "OperatorToken": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8888",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Clubdesk Backend API",
	Description:      "Subscription, pack membership and payment ledger API for sports clubs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
