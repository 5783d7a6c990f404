package repository

import (
	"gorm.io/gorm"

	"ai-studio-go/internal/model"
)

// ProjectRepository 接口定义了项目数据的持久化操作。
// 所有按 ID 的读写都同时以 ownerID 过滤，越权访问与不存在不可区分。
type ProjectRepository interface {
	Create(project *model.Project) error
	FindByOwner(ownerID uint) ([]model.Project, error)
	FindByIDAndOwner(id, ownerID uint) (*model.Project, error)
	Update(project *model.Project) error
	// DeleteCascade 在单个事务中删除项目及其全部 Source 与 Message。
	DeleteCascade(id, ownerID uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建一个新的 ProjectRepository 实例。
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create 在数据库中创建一个新的项目记录。
func (r *projectRepository) Create(project *model.Project) error {
	return r.db.Create(project).Error
}

// FindByOwner 返回某个用户拥有的全部项目，按创建时间倒序。
func (r *projectRepository) FindByOwner(ownerID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByIDAndOwner 按 ID 和拥有者查找项目。
func (r *projectRepository) FindByIDAndOwner(id, ownerID uint) (*model.Project, error) {
	var project model.Project
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update 更新数据库中一个已存在的项目记录。
func (r *projectRepository) Update(project *model.Project) error {
	return r.db.Save(project).Error
}

// DeleteCascade 删除项目及其关联数据。
// Source 与 Message 没有外键约束，级联在应用层以事务保证。
func (r *projectRepository) DeleteCascade(id, ownerID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Source{}).Error; err != nil {
			return err
		}
		return tx.Where("project_id = ?", id).Delete(&model.Message{}).Error
	})
}
