package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ai-studio-go/internal/middleware"
	"ai-studio-go/internal/model"
	"ai-studio-go/internal/service"
)

// ProjectHandler 负责处理助手项目相关的 API 请求。
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler 创建一个新的 ProjectHandler 实例。
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// parseUintParam 解析路径参数中的数字 ID，格式非法时返回 false。
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "无效的 ID 参数: "+raw)
		return 0, false
	}
	return uint(id), true
}

// requireUser 取出认证中间件注入的用户，缺失时直接返回 401。
func requireUser(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return nil, false
	}
	return user, true
}

// CreateProjectRequest 定义了创建项目 API 的请求体结构。
type CreateProjectRequest struct {
	Name         string `json:"name" binding:"required"`
	SystemPrompt string `json:"systemPrompt"`
	Model        string `json:"model"`
}

// Create 处理创建项目请求。
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "无效的请求负载：项目名称不能为空")
		return
	}

	project, err := h.projectService.CreateProject(user.ID, req.Name, req.SystemPrompt, req.Model)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"project": project})
}

// List 返回当前用户的全部项目。
func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projects, err := h.projectService.ListProjects(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"projects": projects})
}

// Get 返回单个项目详情。
func (h *ProjectHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	project, err := h.projectService.GetProject(user.ID, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"project": project})
}

// UpdateProjectRequest 定义了部分更新项目的请求体结构，
// 指针字段未出现时保持原值。
type UpdateProjectRequest struct {
	Name         *string `json:"name"`
	SystemPrompt *string `json:"systemPrompt"`
	Model        *string `json:"model"`
}

// Update 处理项目的部分更新请求。
func (h *ProjectHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	project, err := h.projectService.UpdateProject(user.ID, projectID, service.ProjectUpdate{
		Name:         req.Name,
		SystemPrompt: req.SystemPrompt,
		ModelName:    req.Model,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"project": project})
}

// Delete 处理项目删除请求，级联删除其资料与消息。
func (h *ProjectHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.projectService.DeleteProject(c.Request.Context(), user.ID, projectID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}
