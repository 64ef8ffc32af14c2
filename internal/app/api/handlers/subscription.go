package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/clubdesk/internal/app/service/enrollment"
	"github.com/fatflowers/clubdesk/internal/app/service/subscription"
	"github.com/fatflowers/clubdesk/pkg/response"
)

// NearExpiryRequest lists subscriptions ending within Days; omitted Days uses the configured window.
type NearExpiryRequest struct {
	Days *int `json:"days" example:"10"`
}

// @Summary      Create subscription
// @Description  Creates a pack (pack_category_id set) or one individual subscription per member, with an optional first installment.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body enrollment.CreateRequest true "Creation request"
// @Success      200  {object}  handlers.RespCreate
// @Router       /api/v1/admin/subscription/create [post]
func ApiCreateSubscription(svc Enroller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req enrollment.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		creation, err := req.Creation()
		if err != nil {
			writeError(c, err)
			return
		}
		res, err := svc.Create(c.Request.Context(), creation)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get subscription
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body handlers.IDRequest true "Subscription id"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscription/get [post]
func ApiGetSubscription(svc SubscriptionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.Get(c.Request.Context(), req.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      List subscriptions
// @Description  Paginated list filtered by member, course, group, pack category, payment method or period.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body subscription.ListRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespSubscriptionList
// @Router       /api/v1/admin/subscription/list [post]
func ApiListSubscriptions(svc SubscriptionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.List(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Subscriptions near expiry
// @Description  Subscriptions whose period ends between today and today + days.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body handlers.NearExpiryRequest false "Window in days"
// @Success      200  {object}  handlers.RespSubscriptions
// @Router       /api/v1/admin/subscription/near_expiry [post]
func ApiNearExpiry(svc SubscriptionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NearExpiryRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
		}
		days := svc.WindowDays()
		if req.Days != nil {
			days = *req.Days
		}
		views, err := svc.ListNearExpiry(c.Request.Context(), days)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(views))
	}
}

// @Summary      Update subscription
// @Description  Applies every non-null field.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body subscription.UpdateRequest true "Fields to change"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscription/update [post]
func ApiUpdateSubscription(svc SubscriptionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.Update(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Update payment method
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body subscription.UpdatePaymentMethodRequest true "Payment method and bank details"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscription/update_payment_method [post]
func ApiUpdatePaymentMethod(svc SubscriptionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.UpdatePaymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.UpdatePaymentMethod(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Update pack category
// @Description  Moves a pack to another category; omitted terms are taken from the category.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body subscription.UpdatePackCategoryRequest true "Category and term overrides"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscription/update_pack_category [post]
func ApiUpdatePackCategory(svc SubscriptionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.UpdatePackCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.UpdatePackCategory(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Delete subscription
// @Description  Deletes the subscription with its pack members, roster rows and installments.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body handlers.IDRequest true "Subscription id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/subscription/delete [post]
func ApiDeleteSubscription(svc SubscriptionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.Delete(c.Request.Context(), req.ID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Renew subscription
// @Description  Writes the next period of a subscription. Without dates the new period starts the day after the old one ends.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body enrollment.RenewRequest true "Renewal request"
// @Success      200  {object}  handlers.RespRenew
// @Router       /api/v1/admin/subscription/renew [post]
func ApiRenewSubscription(svc Enroller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req enrollment.RenewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.Renew(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Export near-expiry subscriptions
// @Tags         Subscription
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        days query int false "Window in days"
// @Success      200  {file}  file
// @Router       /api/v1/admin/subscription/near_expiry/export [get]
func ApiExportNearExpiry(svc Exporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			Days *int `form:"days"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}
		data, err := svc.NearExpiryWorkbook(c.Request.Context(), q.Days)
		if err != nil {
			writeError(c, err)
			return
		}
		sendWorkbook(c, "near-expiry.xlsx", data)
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, s Services) {
	r.POST("/subscription/create", ApiCreateSubscription(s.Enrollment))
	r.POST("/subscription/get", ApiGetSubscription(s.Subscriptions))
	r.POST("/subscription/list", ApiListSubscriptions(s.Subscriptions))
	r.POST("/subscription/near_expiry", ApiNearExpiry(s.Subscriptions))
	r.GET("/subscription/near_expiry/export", ApiExportNearExpiry(s.Export))
	r.POST("/subscription/update", ApiUpdateSubscription(s.Subscriptions))
	r.POST("/subscription/update_payment_method", ApiUpdatePaymentMethod(s.Subscriptions))
	r.POST("/subscription/update_pack_category", ApiUpdatePackCategory(s.Subscriptions))
	r.POST("/subscription/delete", ApiDeleteSubscription(s.Subscriptions))
	r.POST("/subscription/renew", ApiRenewSubscription(s.Enrollment))
}
