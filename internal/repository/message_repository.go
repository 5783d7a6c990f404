package repository

import (
	"gorm.io/gorm"

	"ai-studio-go/internal/model"
)

// MessageRepository 接口定义了对话消息的持久化操作。
// 消息日志只追加，没有更新操作。
type MessageRepository interface {
	Create(message *model.Message) error
	FindByProject(projectID uint) ([]model.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建一个新的 MessageRepository 实例。
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 追加一条消息记录。
func (r *messageRepository) Create(message *model.Message) error {
	return r.db.Create(message).Error
}

// FindByProject 返回某项目的全部消息。
// 按 (created_at, id) 升序排序，同一秒写入的记录以自增 ID 保持稳定顺序。
func (r *messageRepository) FindByProject(projectID uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("project_id = ?", projectID).Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}
