package model

import "time"

// 消息角色的固定取值。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ValidRole 判断角色是否为三个合法取值之一。
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant || role == RoleSystem
}

// Message 对应于数据库中的 'messages' 表。
// 每轮对话写入一条用户消息、一条助手消息；记录只追加，从不更新。
// 读取时按 (created_at, id) 排序，这是唯一的顺序保证。
type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"projectId"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Message) TableName() string {
	return "messages"
}
