package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"ai-studio-go/internal/model"
	"ai-studio-go/internal/repository"
	"ai-studio-go/pkg/log"
)

// ProjectUpdate 描述一次部分更新，nil 字段表示保持原值。
type ProjectUpdate struct {
	Name         *string
	SystemPrompt *string
	ModelName    *string
}

// ProjectService 接口定义了助手项目的增删改查操作，全部按归属用户隔离。
type ProjectService interface {
	CreateProject(ownerID uint, name, systemPrompt, modelName string) (*model.Project, error)
	ListProjects(ownerID uint) ([]model.Project, error)
	GetProject(ownerID, projectID uint) (*model.Project, error)
	UpdateProject(ownerID, projectID uint, update ProjectUpdate) (*model.Project, error)
	DeleteProject(ctx context.Context, ownerID, projectID uint) error
}

// projectService 是 ProjectService 接口的实现。
type projectService struct {
	projectRepo repository.ProjectRepository
	sourceRepo  repository.SourceRepository
	store       ObjectStore
}

// NewProjectService 创建一个新的 ProjectService 实例。
func NewProjectService(projectRepo repository.ProjectRepository, sourceRepo repository.SourceRepository, store ObjectStore) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		sourceRepo:  sourceRepo,
		store:       store,
	}
}

// CreateProject 创建新项目，空字段落到默认值。
func (s *projectService) CreateProject(ownerID uint, name, systemPrompt, modelName string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: 项目名称不能为空", ErrValidation)
	}
	if utf8.RuneCountInString(name) > model.MaxProjectNameLen {
		return nil, fmt.Errorf("%w: 项目名称长度不能超过 %d 个字符", ErrValidation, model.MaxProjectNameLen)
	}
	if utf8.RuneCountInString(systemPrompt) > model.MaxSystemPromptLen {
		return nil, fmt.Errorf("%w: 系统提示词长度不能超过 %d 个字符", ErrValidation, model.MaxSystemPromptLen)
	}
	if systemPrompt == "" {
		systemPrompt = model.DefaultSystemPrompt
	}
	// 模型标识必须形如 provider/model，否则回退到默认模型
	if !strings.Contains(modelName, "/") {
		modelName = model.DefaultModel
	}

	project := &model.Project{
		OwnerID:       ownerID,
		Name:          name,
		SystemPrompt:  systemPrompt,
		ModelProvider: model.DefaultProvider,
		ModelName:     modelName,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects 返回用户名下所有项目，按创建时间倒序。
func (s *projectService) ListProjects(ownerID uint) ([]model.Project, error) {
	return s.projectRepo.FindByOwner(ownerID)
}

// GetProject 获取单个项目，项目不存在或不属于该用户均返回 ErrNotFound。
func (s *projectService) GetProject(ownerID, projectID uint) (*model.Project, error) {
	project, err := s.projectRepo.FindByIDAndOwner(projectID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// UpdateProject 对项目做部分更新，未提供的字段保持原值。
func (s *projectService) UpdateProject(ownerID, projectID uint, update ProjectUpdate) (*model.Project, error) {
	project, err := s.GetProject(ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: 项目名称不能为空", ErrValidation)
		}
		if utf8.RuneCountInString(name) > model.MaxProjectNameLen {
			return nil, fmt.Errorf("%w: 项目名称长度不能超过 %d 个字符", ErrValidation, model.MaxProjectNameLen)
		}
		project.Name = name
	}
	if update.SystemPrompt != nil {
		if utf8.RuneCountInString(*update.SystemPrompt) > model.MaxSystemPromptLen {
			return nil, fmt.Errorf("%w: 系统提示词长度不能超过 %d 个字符", ErrValidation, model.MaxSystemPromptLen)
		}
		prompt := *update.SystemPrompt
		if prompt == "" {
			prompt = model.DefaultSystemPrompt
		}
		project.SystemPrompt = prompt
	}
	if update.ModelName != nil {
		modelName := *update.ModelName
		if !strings.Contains(modelName, "/") {
			modelName = model.DefaultModel
		}
		project.ModelName = modelName
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject 在单个事务中级联删除项目及其全部资料和消息。
// 数据库事务提交后再尽力清理对象存储中的原始文件，清理失败只记日志。
func (s *projectService) DeleteProject(ctx context.Context, ownerID, projectID uint) error {
	objectNames, err := s.sourceRepo.FindObjectNamesByProject(projectID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.DeleteCascade(projectID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	for _, objectName := range objectNames {
		if objectName == "" {
			continue
		}
		if err := s.store.Remove(ctx, objectName); err != nil {
			log.Warnf("删除对象存储文件失败 object=%s err=%v", objectName, err)
		}
	}
	return nil
}
