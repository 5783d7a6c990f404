package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-studio-go/pkg/token"
)

// 需要登录才能访问的页面路径前缀。
var protectedRoutes = []string{"/dashboard", "/chat"}

// 已登录用户访问时直接跳转到工作台的页面。
var authRoutes = []string{"/login", "/register"}

// PageGuard 创建一个页面访问守卫中间件：
// 未登录访问受保护页面时重定向到登录页（携带 redirect 参数），
// 已登录访问登录/注册页时重定向到工作台。API 路由不经过该守卫。
func PageGuard(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		isProtected := false
		for _, route := range protectedRoutes {
			if path == route || strings.HasPrefix(path, route+"/") {
				isProtected = true
				break
			}
		}
		isAuthRoute := false
		for _, route := range authRoutes {
			if path == route {
				isAuthRoute = true
				break
			}
		}
		if !isProtected && !isAuthRoute {
			c.Next()
			return
		}

		authenticated := false
		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			if _, err := jwtManager.VerifyToken(cookie); err == nil {
				authenticated = true
			}
		}

		if isProtected && !authenticated {
			c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(path))
			c.Abort()
			return
		}
		if isAuthRoute && authenticated {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
