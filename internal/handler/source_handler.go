package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"ai-studio-go/internal/service"
	"ai-studio-go/pkg/log"
)

// 单次上传的文件大小上限。
const maxUploadSize = 20 << 20 // 20MB

// SourceHandler 负责处理项目资料相关的 API 请求。
type SourceHandler struct {
	sourceService service.SourceService
}

// NewSourceHandler 创建一个新的 SourceHandler 实例。
func NewSourceHandler(sourceService service.SourceService) *SourceHandler {
	return &SourceHandler{sourceService: sourceService}
}

// Upload 处理资料上传请求。请求体为 multipart/form-data，字段名为 file。
func (h *SourceHandler) Upload(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "缺少上传文件")
		return
	}
	if fileHeader.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "文件大小超出限制")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("Upload: failed to open uploaded file '%s', error: %v", fileHeader.Filename, err)
		respondError(c, http.StatusInternalServerError, "读取上传文件失败")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Errorf("Upload: failed to read uploaded file '%s', error: %v", fileHeader.Filename, err)
		respondError(c, http.StatusInternalServerError, "读取上传文件失败")
		return
	}

	fileName := filepath.Base(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	source, err := h.sourceService.Upload(c.Request.Context(), user.ID, projectID, fileName, contentType, data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	log.Infof("Source '%s' uploaded to project %d", fileName, projectID)
	respondOK(c, http.StatusCreated, gin.H{"source": source})
}

// List 返回项目下的全部资料。
func (h *SourceHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	sources, err := h.sourceService.ListSources(user.ID, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"sources": sources})
}

// Get 返回单条资料详情（含抽取后的正文）。
func (h *SourceHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	sourceID, ok := parseUintParam(c, "sourceId")
	if !ok {
		return
	}
	source, err := h.sourceService.GetSource(user.ID, projectID, sourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"source": source})
}

// Delete 删除单条资料。
func (h *SourceHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	sourceID, ok := parseUintParam(c, "sourceId")
	if !ok {
		return
	}
	if err := h.sourceService.DeleteSource(c.Request.Context(), user.ID, projectID, sourceID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}

// Download 为资料的原始文件生成限时下载链接。
func (h *SourceHandler) Download(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	sourceID, ok := parseUintParam(c, "sourceId")
	if !ok {
		return
	}
	url, err := h.sourceService.DownloadURL(c.Request.Context(), user.ID, projectID, sourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"url": url})
}
