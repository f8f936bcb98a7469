package middleware

import (
	"net/http"
	"strings"
	"time"

	"fittrack/internal/store"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 校验 JWT，并在 context 里放入当前用户名。
func AuthMiddleware(jwtSecret string, st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) URL 查询参数 ?token=xxx（用于下载等无法自定义 Header 的场景）
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "登录已失效，请重新登录")
			c.Abort()
			return
		}

		// 账号可能在 token 有效期内被注销
		if _, exists := st.GetUser(claims.Username); !exists {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "用户不存在")
			c.Abort()
			return
		}

		c.Set("currentUser", claims.Username)
		c.Next()
	}
}

// CurrentUser 从 context 取出当前用户名，空串表示未登录。
func CurrentUser(c *gin.Context) string {
	v, ok := c.Get("currentUser")
	if !ok {
		return ""
	}
	username, _ := v.(string)
	return username
}
