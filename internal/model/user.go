// Package model 包含了应用的数据模型定义。
package model

import "time"

// User 对应于数据库中的 'users' 表。
// Email 统一以小写形式存储，保证大小写不敏感的唯一性。
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	// 以下三个计数器为付费模型的用量统计预留，目前不会被本服务修改。
	TotalTokensUsed      int64     `gorm:"not null;default:0" json:"totalTokensUsed"`
	PromptTokensUsed     int64     `gorm:"not null;default:0" json:"promptTokensUsed"`
	CompletionTokensUsed int64     `gorm:"not null;default:0" json:"completionTokensUsed"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (User) TableName() string {
	return "users"
}
