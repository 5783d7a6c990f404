// Package llm 提供了与兼容 OpenAI 接口的大模型服务交互的客户端。
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ai-studio-go/internal/config"
)

// ChunkWriter 抽象了流式分块的写出端。
// HTTP 明文流与 WebSocket 连接都实现该接口，客户端无需感知传输方式。
type ChunkWriter interface {
	WriteChunk(data []byte) error
}

// Client 定义了 LLM 客户端的接口。
type Client interface {
	// StreamChatMessages 以 role-based 消息调用聊天接口，并将流式分块依次写入 writer。
	// model 为空时使用配置中的默认模型。
	StreamChatMessages(ctx context.Context, model string, messages []Message, writer ChunkWriter) error
}

type openRouterClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient 根据配置创建一个新的 LLM 客户端。
func NewClient(cfg config.LLMConfig) Client {
	return &openRouterClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	Stream    bool      `json:"stream"`
	MaxTokens *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamChatMessages 调用 /chat/completions 并以 SSE 方式逐块转发响应。
func (c *openRouterClient) StreamChatMessages(ctx context.Context, model string, messages []Message, writer ChunkWriter) error {
	if model == "" {
		model = c.cfg.DefaultModel
	}
	reqBody := chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	}
	// 从全局配置注入输出上限（若非零值）
	if c.cfg.MaxTokens != 0 {
		m := c.cfg.MaxTokens
		reqBody.MaxTokens = &m
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read from stream: %w", err)
		}

		if strings.HasPrefix(line, "data: ") {
			data := strings.TrimPrefix(line, "data: ")
			if strings.TrimSpace(data) == "[DONE]" {
				break
			}

			var chunk chatResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}

			if len(chunk.Choices) > 0 {
				content := chunk.Choices[0].Delta.Content
				if content == "" {
					continue
				}
				if err := writer.WriteChunk([]byte(content)); err != nil {
					// 写出失败通常意味着调用方已断开，中止读取剩余流
					return fmt.Errorf("failed to write chunk: %w", err)
				}
			}
		}
	}
	return nil
}
