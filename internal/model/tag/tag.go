// Package tag 标签模型
package tag

import (
	"time"

	"github.com/google/uuid"
)

const (
	TitleMin = 1
	TitleMax = 64
)

// Tag 标签表，按 title 去重
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"title"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}
