package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-studio-go/internal/middleware"
	"ai-studio-go/internal/service"
	"ai-studio-go/pkg/log"
	"ai-studio-go/pkg/token"
)

// UserHandler 负责处理所有与用户账号相关的 API 请求。
type UserHandler struct {
	userService service.UserService
	jwtManager  *token.JWTManager
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService, jwtManager *token.JWTManager) *UserHandler {
	return &UserHandler{userService: userService, jwtManager: jwtManager}
}

// setSessionCookie 把会话令牌写入 HttpOnly Cookie，有效期与令牌一致。
func (h *UserHandler) setSessionCookie(c *gin.Context, tokenString string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, tokenString, int(h.jwtManager.TokenDuration().Seconds()), "/", "", false, true)
}

// clearSessionCookie 使会话 Cookie 立即失效。
func (h *UserHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
}

// RegisterRequest 定义了用户注册 API 的请求体结构。
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// Register 处理用户注册请求，注册成功即建立会话。
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Register: Invalid request payload, error: %v", err)
		respondError(c, http.StatusBadRequest, "无效的请求负载：邮箱、密码和昵称不能为空")
		return
	}

	accessToken, user, err := h.userService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		log.Warnf("Register: User registration failed for '%s', error: %v", req.Email, err)
		respondServiceError(c, err)
		return
	}

	h.setSessionCookie(c, accessToken)
	log.Infof("User '%s' registered successfully", user.Email)
	respondOK(c, http.StatusCreated, gin.H{"user": user})
}

// LoginRequest 定义了用户登录 API 的请求体结构。
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求。
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		respondError(c, http.StatusBadRequest, "无效的请求负载：邮箱和密码不能为空")
		return
	}

	accessToken, user, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		log.Warnf("Login: User authentication failed for '%s', error: %v", req.Email, err)
		respondServiceError(c, err)
		return
	}

	h.setSessionCookie(c, accessToken)
	log.Infof("User '%s' logged in successfully", user.Email)
	respondOK(c, http.StatusOK, gin.H{"user": user})
}

// Logout 处理用户登出请求：拉黑当前令牌并清除会话 Cookie。
func (h *UserHandler) Logout(c *gin.Context) {
	tokenString := c.GetString("token")
	if tokenString != "" {
		if err := h.userService.Logout(c.Request.Context(), tokenString); err != nil {
			log.Warnf("Logout: failed to blacklist token, error: %v", err)
		}
	}
	h.clearSessionCookie(c)
	respondOK(c, http.StatusOK, nil)
}

// Me 返回当前登录用户的个人信息。
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": user})
}
