package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/clubdesk/internal/app/service/reminder"
	"github.com/fatflowers/clubdesk/pkg/response"
)

// @Summary      Dispatch reminders
// @Description  Publishes a reminder for every subscription ending within the window.
// @Tags         Reminder
// @Accept       json
// @Produce      json
// @Param        request body reminder.DispatchRequest false "Window in days"
// @Success      200  {object}  handlers.RespDispatch
// @Router       /api/v1/admin/reminder/dispatch [post]
func ApiDispatchReminders(svc Reminders) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reminder.DispatchRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
		}
		res, err := svc.Dispatch(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterReminderRoutes(r gin.IRouter, s Services) {
	r.POST("/reminder/dispatch", ApiDispatchReminders(s.Reminders))
}

// RegisterAdminRoutes mounts every admin route on r.
func RegisterAdminRoutes(r gin.IRouter, s Services) {
	RegisterSubscriptionRoutes(r, s)
	RegisterPaymentRoutes(r, s)
	RegisterPackRoutes(r, s)
	RegisterReminderRoutes(r, s)
}
