// Package file 文件相关模型
package file

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	NameMax     = 255
	MimeTypeMax = 255
)

// MimeTypePattern 内容类型格式 type/subtype
var MimeTypePattern = regexp.MustCompile(`^\w+/[-+.\w]+$`)

// File 文章附件元数据（内容在对象存储中，键为 article_id/id）
type File struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename    string    `gorm:"type:varchar(255);not null" json:"filename"`
	ContentType string    `gorm:"type:varchar(255);not null" json:"content_type"`
	ArticleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"article_id"`
	IsUploaded  bool      `gorm:"not null;default:false;index" json:"is_uploaded"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (File) TableName() string {
	return "files"
}
