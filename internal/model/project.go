// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// 项目的默认系统提示词与默认模型配置。
const (
	DefaultSystemPrompt = "You are a helpful AI assistant."
	DefaultProvider     = "openrouter"
	DefaultModel        = "meta-llama/llama-3.3-70b-instruct:free"

	// MaxSystemPromptLen 是系统提示词允许的最大字符数。
	MaxSystemPromptLen = 10000
	// MaxProjectNameLen 是项目名称允许的最大字符数。
	MaxProjectNameLen = 100
)

// Project 对应于数据库中的 'projects' 表。
// 一个 Project 表示一个可配置的 AI 助手：系统提示词加模型选择，归属于唯一的拥有者。
type Project struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID       uint      `gorm:"index;not null" json:"ownerId"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	SystemPrompt  string    `gorm:"type:text" json:"systemPrompt"`
	ModelProvider string    `gorm:"type:varchar(50);not null" json:"modelProvider"`
	ModelName     string    `gorm:"type:varchar(100);not null" json:"modelName"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Project) TableName() string {
	return "projects"
}
