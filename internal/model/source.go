package model

import "time"

// Source 对应于数据库中的 'sources' 表。
// 记录一份上传文档的原始文件名、服务端提取的纯文本，以及原始文件在对象存储中的位置。
// Source 创建后不可修改，只能整体删除。
type Source struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID  uint      `gorm:"index;not null" json:"projectId"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"fileName"`
	Content    string    `gorm:"type:longtext;not null" json:"content"`
	ObjectName string    `gorm:"type:varchar(512);not null" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Source) TableName() string {
	return "sources"
}
