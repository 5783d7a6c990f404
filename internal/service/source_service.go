package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"ai-studio-go/internal/model"
	"ai-studio-go/internal/repository"
	"ai-studio-go/pkg/extract"
	"ai-studio-go/pkg/log"
)

// 下载链接的有效期。
const downloadURLExpiry = 15 * time.Minute

// ObjectStore 抽象了对象存储的能力，便于在测试中替换实现。
type ObjectStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectName string) error
	PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// SourceService 接口定义了项目资料的上传、查询与删除。
type SourceService interface {
	Upload(ctx context.Context, ownerID, projectID uint, fileName, contentType string, data []byte) (*model.Source, error)
	ListSources(ownerID, projectID uint) ([]model.Source, error)
	GetSource(ownerID, projectID, sourceID uint) (*model.Source, error)
	DeleteSource(ctx context.Context, ownerID, projectID, sourceID uint) error
	DownloadURL(ctx context.Context, ownerID, projectID, sourceID uint) (string, error)
}

// sourceService 是 SourceService 接口的实现。
type sourceService struct {
	sourceRepo  repository.SourceRepository
	projectRepo repository.ProjectRepository
	store       ObjectStore
}

// NewSourceService 创建一个新的 SourceService 实例。
func NewSourceService(sourceRepo repository.SourceRepository, projectRepo repository.ProjectRepository, store ObjectStore) SourceService {
	return &sourceService{
		sourceRepo:  sourceRepo,
		projectRepo: projectRepo,
		store:       store,
	}
}

// checkOwnership 校验项目归属，不存在或不属于该用户统一返回 ErrNotFound。
func (s *sourceService) checkOwnership(ownerID, projectID uint) error {
	_, err := s.projectRepo.FindByIDAndOwner(projectID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Upload 处理资料上传：校验归属与文件类型，同步抽取纯文本，
// 原始文件写入对象存储，抽取结果落库。任一步失败则不产生资料记录。
func (s *sourceService) Upload(ctx context.Context, ownerID, projectID uint, fileName, contentType string, data []byte) (*model.Source, error) {
	if err := s.checkOwnership(ownerID, projectID); err != nil {
		return nil, err
	}
	if fileName == "" {
		return nil, fmt.Errorf("%w: 文件名不能为空", ErrValidation)
	}
	if !extract.IsSupportedType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, contentType)
	}

	content, err := extract.ExtractText(data, contentType)
	if err != nil {
		if errors.Is(err, extract.ErrEmptyContent) {
			return nil, ErrEmptyFile
		}
		if errors.Is(err, extract.ErrUnsupportedType) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, contentType)
		}
		return nil, fmt.Errorf("解析文件内容失败: %w", err)
	}

	objectName := fmt.Sprintf("sources/%d/%d-%s", projectID, time.Now().UnixNano(), fileName)
	if err := s.store.Put(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("上传原始文件失败: %w", err)
	}

	source := &model.Source{
		ProjectID:  projectID,
		FileName:   fileName,
		Content:    content,
		ObjectName: objectName,
	}
	if err := s.sourceRepo.Create(source); err != nil {
		// 落库失败时回收已写入的对象，避免存储泄漏
		if removeErr := s.store.Remove(ctx, objectName); removeErr != nil {
			log.Warnf("回收对象存储文件失败 object=%s err=%v", objectName, removeErr)
		}
		return nil, err
	}
	return source, nil
}

// ListSources 返回项目下的全部资料。
func (s *sourceService) ListSources(ownerID, projectID uint) ([]model.Source, error) {
	if err := s.checkOwnership(ownerID, projectID); err != nil {
		return nil, err
	}
	return s.sourceRepo.FindByProject(projectID)
}

// GetSource 获取单条资料详情。
func (s *sourceService) GetSource(ownerID, projectID, sourceID uint) (*model.Source, error) {
	if err := s.checkOwnership(ownerID, projectID); err != nil {
		return nil, err
	}
	source, err := s.sourceRepo.FindByIDAndProject(sourceID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return source, nil
}

// DeleteSource 删除资料记录并尽力清理对象存储中的原始文件。
func (s *sourceService) DeleteSource(ctx context.Context, ownerID, projectID, sourceID uint) error {
	source, err := s.GetSource(ownerID, projectID, sourceID)
	if err != nil {
		return err
	}
	if err := s.sourceRepo.DeleteByIDAndProject(sourceID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if source.ObjectName != "" {
		if err := s.store.Remove(ctx, source.ObjectName); err != nil {
			log.Warnf("删除对象存储文件失败 object=%s err=%v", source.ObjectName, err)
		}
	}
	return nil
}

// DownloadURL 为资料的原始文件生成限时下载链接。
func (s *sourceService) DownloadURL(ctx context.Context, ownerID, projectID, sourceID uint) (string, error) {
	source, err := s.GetSource(ownerID, projectID, sourceID)
	if err != nil {
		return "", err
	}
	if source.ObjectName == "" {
		return "", ErrNotFound
	}
	return s.store.PresignedGetURL(ctx, source.ObjectName, downloadURLExpiry)
}
