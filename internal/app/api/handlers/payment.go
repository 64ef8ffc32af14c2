package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// @Summary      Record installment
// @Description  Appends a payment to the ledger of a subscription and refreshes its paid amount.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body ledger.RecordRequest true "Installment"
// @Success      200  {object}  handlers.RespReceipt
// @Router       /api/v1/admin/payment/record [post]
func ApiRecordPayment(svc Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ledger.RecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Record(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Edit installment
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body ledger.EditRequest true "New amount and optional payment fields"
// @Success      200  {object}  handlers.RespReceipt
// @Router       /api/v1/admin/payment/edit [post]
func ApiEditPayment(svc Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ledger.EditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Edit(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Delete installment
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body handlers.IDRequest true "Ledger entry id"
// @Success      200  {object}  handlers.RespBalance
// @Router       /api/v1/admin/payment/delete [post]
func ApiDeletePayment(svc Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Delete(c.Request.Context(), req.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List installments
// @Description  Installments of a subscription, newest first, with count and total.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body handlers.SubscriptionIDRequest true "Subscription id"
// @Success      200  {object}  handlers.RespPaymentList
// @Router       /api/v1/admin/payment/list [post]
func ApiListPayments(svc Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.List(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Reconcile paid amount
// @Description  Re-sums the ledger and stores the total as the paid amount.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body handlers.SubscriptionIDRequest true "Subscription id"
// @Success      200  {object}  handlers.RespBalance
// @Router       /api/v1/admin/payment/reconcile [post]
func ApiReconcilePayments(svc Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Reconcile(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Export installments
// @Description  xlsx workbook with the installments of a subscription.
// @Tags         Payment
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        subscription_id query int true "Subscription id"
// @Success      200  {file}  file
// @Router       /api/v1/admin/payment/export [get]
func ApiExportPayments(svc Exporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			SubscriptionID uint `form:"subscription_id"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}
		data, err := svc.PaymentsWorkbook(c.Request.Context(), q.SubscriptionID)
		if err != nil {
			writeError(c, err)
			return
		}
		sendWorkbook(c, fmt.Sprintf("payments-%d.xlsx", q.SubscriptionID), data)
	}
}

func sendWorkbook(c *gin.Context, name string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func RegisterPaymentRoutes(r gin.IRouter, s Services) {
	r.POST("/payment/record", ApiRecordPayment(s.Ledger))
	r.POST("/payment/edit", ApiEditPayment(s.Ledger))
	r.POST("/payment/delete", ApiDeletePayment(s.Ledger))
	r.POST("/payment/list", ApiListPayments(s.Ledger))
	r.POST("/payment/reconcile", ApiReconcilePayments(s.Ledger))
	r.GET("/payment/export", ApiExportPayments(s.Export))
}
