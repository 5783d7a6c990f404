package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ai-studio-go/internal/middleware"
	"ai-studio-go/internal/model"
	"ai-studio-go/internal/repository"
	"ai-studio-go/internal/service"
	"ai-studio-go/pkg/log"
	"ai-studio-go/pkg/token"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ChatHandler 负责处理流式对话请求，支持 HTTP 流式与 WebSocket 两种传输。
type ChatHandler struct {
	chatService service.ChatService
	userService service.UserService
	jwtManager  *token.JWTManager
	blacklist   repository.TokenBlacklist
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService, userService service.UserService, jwtManager *token.JWTManager, blacklist repository.TokenBlacklist) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		userService: userService,
		jwtManager:  jwtManager,
		blacklist:   blacklist,
	}
}

// ChatRequest 定义了对话 API 的请求体结构。
// projectId 兼容数字和字符串两种写法。
type ChatRequest struct {
	ProjectID json.Number             `json:"projectId"`
	Messages  []model.IncomingMessage `json:"messages"`
}

// parseProjectID 把请求中的 projectId 解析为数字 ID。
func parseProjectID(raw json.Number) (uint, bool) {
	id, err := strconv.ParseUint(raw.String(), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// flushWriter 把模型输出的每个分片立即刷给客户端。
type flushWriter struct {
	w       gin.ResponseWriter
	flusher http.Flusher
}

func (fw *flushWriter) WriteChunk(data []byte) error {
	if _, err := fw.w.Write(data); err != nil {
		return err
	}
	if fw.flusher != nil {
		fw.flusher.Flush()
	}
	return nil
}

// Stream 处理 HTTP 流式对话请求，以 text/plain 形式逐块返回模型输出。
// 所有校验失败都发生在写出第一个字节之前。
func (h *ChatHandler) Stream(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "无效的请求负载")
		return
	}
	projectID, ok := parseProjectID(req.ProjectID)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的 projectId")
		return
	}
	if len(req.Messages) == 0 {
		respondError(c, http.StatusBadRequest, "消息列表不能为空")
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	flusher, _ := c.Writer.(http.Flusher)
	writer := &flushWriter{w: c.Writer, flusher: flusher}

	err := h.chatService.StreamChat(c.Request.Context(), user.ID, projectID, req.Messages, writer)
	if err != nil {
		// 还未写出任何内容时仍可返回结构化错误
		if !c.Writer.Written() {
			respondServiceError(c, err)
			return
		}
		// 流中途失败只能就地截断
		log.Warnf("Stream: chat stream aborted for project %d, error: %v", projectID, err)
	}
}

// wsChunkWriter 把模型输出的分片作为 WebSocket 文本帧发送。
type wsChunkWriter struct {
	conn *websocket.Conn
}

func (w *wsChunkWriter) WriteChunk(data []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// wsError 以 JSON 帧回发错误信息。
func wsError(conn *websocket.Conn, message string) {
	payload, _ := json.Marshal(gin.H{"type": "error", "message": message})
	_ = conn.WriteMessage(websocket.TextMessage, payload)
}

// HandleWS 处理 WebSocket 对话连接：每收到一条 ChatRequest 就执行一轮
// 流式对话，分片以文本帧透传，轮次结束时发送 done 帧。
func (h *ChatHandler) HandleWS(c *gin.Context) {
	tokenString, _ := c.Cookie(middleware.SessionCookieName)
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "无效或已过期的 token")
		return
	}
	// 与 HTTP 路由一致：已登出的 token 在剩余有效期内同样拒绝
	blacklisted, err := h.blacklist.Contains(c.Request.Context(), tokenString)
	if err != nil || blacklisted {
		respondError(c, http.StatusUnauthorized, "无效或已过期的 token")
		return
	}
	user, err := h.userService.GetProfile(claims.UserID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "用户不存在")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，用户: %s", user.Email)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}

		var req ChatRequest
		if err := json.Unmarshal(message, &req); err != nil {
			wsError(conn, "无效的请求负载")
			continue
		}
		projectID, ok := parseProjectID(req.ProjectID)
		if !ok {
			wsError(conn, "无效的 projectId")
			continue
		}
		if len(req.Messages) == 0 {
			wsError(conn, "消息列表不能为空")
			continue
		}

		writer := &wsChunkWriter{conn: conn}
		if err := h.chatService.StreamChat(c.Request.Context(), user.ID, projectID, req.Messages, writer); err != nil {
			log.Warnf("HandleWS: chat stream failed for project %d, error: %v", projectID, err)
			wsError(conn, "对话处理失败")
			continue
		}

		done, _ := json.Marshal(gin.H{"type": "done"})
		if err := conn.WriteMessage(websocket.TextMessage, done); err != nil {
			break
		}
	}
}

// History 返回项目的完整对话历史。
func (h *ChatHandler) History(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	messages, err := h.chatService.ListMessages(user.ID, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"messages": messages})
}
