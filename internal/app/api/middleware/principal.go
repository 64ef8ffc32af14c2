package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/clubdesk/pkg/logctx"
	"github.com/fatflowers/clubdesk/pkg/principal"
	"github.com/fatflowers/clubdesk/pkg/response"
)

const OperatorHeader = "X-Operator-ID"

// PrincipalMiddleware resolves the operator behind a request. With a secret it requires an
// HS256 bearer token; without one it trusts the X-Operator-ID header (dev only).
func PrincipalMiddleware(secret string, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var operatorID string
		if secret == "" {
			operatorID = strings.TrimSpace(c.GetHeader(OperatorHeader))
		} else {
			token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(c, "missing bearer token")
				return
			}
			p, err := principal.Parse([]byte(secret), token)
			if err != nil {
				logctx.FromGin(c, log).Infow("rejected operator token", "err", err)
				unauthorized(c, "invalid token")
				return
			}
			operatorID = p.OperatorID
		}
		if operatorID == "" {
			unauthorized(c, "missing operator")
			return
		}

		c.Set(logctx.GinOperatorKey, operatorID)
		c.Request = c.Request.WithContext(logctx.WithOperatorID(c.Request.Context(), operatorID))
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusOK, response.ErrorMsg(response.APIResponseCodeUnauthorized, msg))
}
