package repository

import (
	"gorm.io/gorm"

	"ai-studio-go/internal/model"
)

// SourceRepository 接口定义了上传文档数据的持久化操作。
type SourceRepository interface {
	Create(source *model.Source) error
	FindByProject(projectID uint) ([]model.Source, error)
	// FindRecentByProject 返回某项目最近创建的 limit 条记录，新的在前。
	FindRecentByProject(projectID uint, limit int) ([]model.Source, error)
	FindByIDAndProject(id, projectID uint) (*model.Source, error)
	DeleteByIDAndProject(id, projectID uint) error
	FindObjectNamesByProject(projectID uint) ([]string, error)
}

type sourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository 创建一个新的 SourceRepository 实例。
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

// Create 在数据库中创建一条新的文档记录。
func (r *sourceRepository) Create(source *model.Source) error {
	return r.db.Create(source).Error
}

// FindByProject 返回某项目的全部文档，按创建时间倒序。
func (r *sourceRepository) FindByProject(projectID uint) ([]model.Source, error) {
	var sources []model.Source
	err := r.db.Where("project_id = ?", projectID).Order("created_at DESC, id DESC").Find(&sources).Error
	return sources, err
}

// FindRecentByProject 返回某项目最近创建的若干条文档。
func (r *sourceRepository) FindRecentByProject(projectID uint, limit int) ([]model.Source, error) {
	var sources []model.Source
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&sources).Error
	return sources, err
}

// FindByIDAndProject 按 ID 和所属项目查找文档。
func (r *sourceRepository) FindByIDAndProject(id, projectID uint) (*model.Source, error) {
	var source model.Source
	err := r.db.Where("id = ? AND project_id = ?", id, projectID).First(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// DeleteByIDAndProject 按 ID 和所属项目删除文档。
func (r *sourceRepository) DeleteByIDAndProject(id, projectID uint) error {
	result := r.db.Where("id = ? AND project_id = ?", id, projectID).Delete(&model.Source{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindObjectNamesByProject 返回某项目全部文档的对象存储键，供删除项目后清理原始文件。
func (r *sourceRepository) FindObjectNamesByProject(projectID uint) ([]string, error) {
	var names []string
	err := r.db.Model(&model.Source{}).Where("project_id = ?", projectID).Pluck("object_name", &names).Error
	return names, err
}
