package middleware

import (
	"github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// SessionToken 会话令牌认证中间件
// 从 Authorization 头或配置的自定义头/查询参数中取出 JWT，
// 解析后将会话实体放入请求上下文
func SessionToken(tm app.TokenManager, headerKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		response := app.NewResponse(c)

		if s := c.GetHeader("Authorization"); len(s) != 0 {
			token = s
		} else if s := c.GetHeader(headerKey); len(s) != 0 {
			token = s
		} else if s, exist := c.GetQuery("token"); exist {
			token = s
		}

		if token == "" {
			response.ToResponse(code.ErrorNotSessionAuthToken)
			c.Abort()
			return
		}

		entity, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidSessionAuthToken)
			c.Abort()
			return
		}
		c.Set("session_token", entity)

		c.Next()
	}
}
