package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/clubdesk/internal/app/service/pack"
	"github.com/fatflowers/clubdesk/pkg/response"
)

// @Summary      Attach pack member
// @Tags         Pack
// @Accept       json
// @Produce      json
// @Param        request body pack.AttachRequest true "Member, course and group"
// @Success      200  {object}  handlers.RespPackMembership
// @Router       /api/v1/admin/pack/attach [post]
func ApiAttachMember(svc PackMembers) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pack.AttachRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		row, err := svc.Attach(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(row))
	}
}

// @Summary      Detach pack member
// @Description  Removes every membership row of the member along with their roster rows.
// @Tags         Pack
// @Accept       json
// @Produce      json
// @Param        request body pack.DetachRequest true "Member to remove"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/pack/detach [post]
func ApiDetachMember(svc PackMembers) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pack.DetachRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.Detach(c.Request.Context(), &req); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Replace pack members
// @Tags         Pack
// @Accept       json
// @Produce      json
// @Param        request body pack.ReplaceRequest true "Complete member list"
// @Success      200  {object}  handlers.RespPackMemberships
// @Router       /api/v1/admin/pack/replace [post]
func ApiReplaceMembers(svc PackMembers) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pack.ReplaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		rows, err := svc.ReplaceAll(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      List pack members
// @Tags         Pack
// @Accept       json
// @Produce      json
// @Param        request body handlers.SubscriptionIDRequest true "Pack subscription id"
// @Success      200  {object}  handlers.RespPackMembers
// @Router       /api/v1/admin/pack/members [post]
func ApiListMembers(svc PackMembers) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		members, err := svc.ListMembers(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(members))
	}
}

func RegisterPackRoutes(r gin.IRouter, s Services) {
	r.POST("/pack/attach", ApiAttachMember(s.Packs))
	r.POST("/pack/detach", ApiDetachMember(s.Packs))
	r.POST("/pack/replace", ApiReplaceMembers(s.Packs))
	r.POST("/pack/members", ApiListMembers(s.Packs))
}
