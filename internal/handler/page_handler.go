package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler 渲染前端页面的占位响应，页面本身由独立前端承载，
// 这里只保证路由与访问守卫可用。
type PageHandler struct{}

// NewPageHandler 创建一个新的 PageHandler 实例。
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) page(title string) gin.HandlerFunc {
	body := "<!DOCTYPE html><html><head><title>" + title + "</title></head><body><h1>" + title + "</h1></body></html>"
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
	}
}

// Register 在路由器上挂载页面路由。
func (h *PageHandler) Register(r *gin.Engine) {
	r.GET("/", h.page("AI Studio"))
	r.GET("/login", h.page("Login"))
	r.GET("/register", h.page("Register"))
	r.GET("/dashboard", h.page("Dashboard"))
	r.GET("/dashboard/:id", h.page("Project"))
	r.GET("/chat/:id", h.page("Chat"))
}
