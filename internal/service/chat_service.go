package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"ai-studio-go/internal/model"
	"ai-studio-go/internal/repository"
	"ai-studio-go/pkg/llm"
	"ai-studio-go/pkg/log"
)

// ChatService 接口定义了项目内的流式对话操作。
type ChatService interface {
	StreamChat(ctx context.Context, userID, projectID uint, turns []model.IncomingMessage, writer llm.ChunkWriter) error
	ListMessages(ownerID, projectID uint) ([]model.Message, error)
}

// chatService 是 ChatService 接口的实现。
type chatService struct {
	projectRepo repository.ProjectRepository
	sourceRepo  repository.SourceRepository
	messageRepo repository.MessageRepository
	assembler   *ContextAssembler
	llmClient   llm.Client
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(
	projectRepo repository.ProjectRepository,
	sourceRepo repository.SourceRepository,
	messageRepo repository.MessageRepository,
	assembler *ContextAssembler,
	llmClient llm.Client,
) ChatService {
	return &chatService{
		projectRepo: projectRepo,
		sourceRepo:  sourceRepo,
		messageRepo: messageRepo,
		assembler:   assembler,
		llmClient:   llmClient,
	}
}

// captureWriter 在透传模型输出的同时累积完整回复，流结束后用于落库。
type captureWriter struct {
	inner llm.ChunkWriter
	buf   strings.Builder
}

func (w *captureWriter) WriteChunk(data []byte) error {
	w.buf.Write(data)
	return w.inner.WriteChunk(data)
}

// StreamChat 处理一轮流式对话：
//  1. 校验消息列表与项目归属；
//  2. 若最后一条是用户消息，先落库再调用模型；
//  3. 拼装系统指令后请求模型，边收边透传给调用方；
//  4. 流正常结束后把完整回复保存为 assistant 消息。
//
// 模型流中途失败不做补偿，assistant 消息不落库。
func (s *chatService) StreamChat(ctx context.Context, userID, projectID uint, turns []model.IncomingMessage, writer llm.ChunkWriter) error {
	if len(turns) == 0 {
		return fmt.Errorf("%w: 消息列表不能为空", ErrValidation)
	}

	project, err := s.projectRepo.FindByIDAndOwner(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	// 先持久化用户这一轮，再请求模型
	last := turns[len(turns)-1]
	if last.Role == model.RoleUser {
		userMsg := &model.Message{
			ProjectID: projectID,
			Role:      model.RoleUser,
			Content:   last.Content.Flatten(),
		}
		if err := s.messageRepo.Create(userMsg); err != nil {
			return err
		}
	}

	sources, err := s.sourceRepo.FindRecentByProject(projectID, s.assembler.MaxSources())
	if err != nil {
		return err
	}
	systemInstruction := s.assembler.Build(project, sources)

	messages := make([]llm.Message, 0, len(turns)+1)
	messages = append(messages, llm.Message{Role: model.RoleSystem, Content: systemInstruction})
	for _, turn := range turns {
		role := turn.Role
		if !model.ValidRole(role) {
			role = model.RoleUser
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content.Flatten()})
	}

	capture := &captureWriter{inner: writer}
	if err := s.llmClient.StreamChatMessages(ctx, project.ModelName, messages, capture); err != nil {
		return fmt.Errorf("模型流式调用失败: %w", err)
	}

	assistantMsg := &model.Message{
		ProjectID: projectID,
		Role:      model.RoleAssistant,
		Content:   capture.buf.String(),
	}
	if err := s.messageRepo.Create(assistantMsg); err != nil {
		log.Errorf("保存 assistant 消息失败 project=%d err=%v", projectID, err)
		return err
	}
	return nil
}

// ListMessages 返回项目的完整对话历史，按时间正序。
func (s *chatService) ListMessages(ownerID, projectID uint) ([]model.Message, error) {
	if _, err := s.projectRepo.FindByIDAndOwner(projectID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.messageRepo.FindByProject(projectID)
}
