package handlers

import (
	"github.com/fatflowers/clubdesk/internal/app/service/enrollment"
	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/internal/app/service/reminder"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

type RespCreate struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    enrollment.CreateResult  `json:"data"`
}

type RespRenew struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    enrollment.RenewResult   `json:"data"`
}

type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    subscription.View        `json:"data"`
}

type RespSubscriptions struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []subscription.View      `json:"data"`
}

type RespSubscriptionList struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    subscription.ListResponse `json:"data"`
}

type RespReceipt struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ledger.Receipt           `json:"data"`
}

type RespBalance struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ledger.Balance           `json:"data"`
}

type RespPaymentList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ledger.PaymentList       `json:"data"`
}

type RespPackMembership struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.PackMembership    `json:"data"`
}

type RespPackMemberships struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.PackMembership  `json:"data"`
}

type RespPackMembers struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []pack.MemberView        `json:"data"`
}

type RespDispatch struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reminder.DispatchResult  `json:"data"`
}
