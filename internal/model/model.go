package model

import (
	"gorm.io/gorm"

	"terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/internal/model/comment"
	"terminal-terrace/blog-service/internal/model/file"
	"terminal-terrace/blog-service/internal/model/tag"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构
	return db.AutoMigrate(
		// 标签与文章
		&tag.Tag{},
		&article.Article{},
		&article.Rate{},
		// 评论及闭包表
		&comment.Comment{},
		&comment.TreePath{},
		&comment.Rate{},
		// 附件
		&file.File{},
	)
}
