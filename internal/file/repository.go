package file

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	fileModel "terminal-terrace/blog-service/internal/model/file"
)

// FileRepository 附件元数据访问接口
type FileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*fileModel.File, error)
	ListUploaded(ctx context.Context, articleID uuid.UUID) ([]fileModel.File, error)
	ListStale(ctx context.Context, before time.Time, limit int) ([]fileModel.File, error)
	Create(ctx context.Context, f *fileModel.File) error
	MarkUploaded(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, ids ...uuid.UUID) error
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository 创建 Repository 实例
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

// Get 根据ID查找附件
func (r *fileRepository) Get(ctx context.Context, id uuid.UUID) (*fileModel.File, error) {
	var f fileModel.File
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// ListUploaded 文章下已确认上传的附件
func (r *fileRepository) ListUploaded(ctx context.Context, articleID uuid.UUID) ([]fileModel.File, error) {
	var files []fileModel.File
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND is_uploaded = ?", articleID, true).
		Order("created_at ASC").
		Find(&files).Error
	return files, err
}

// ListStale before 之前创建且仍未确认的附件
func (r *fileRepository) ListStale(ctx context.Context, before time.Time, limit int) ([]fileModel.File, error) {
	var files []fileModel.File
	err := r.db.WithContext(ctx).
		Where("is_uploaded = ? AND created_at < ?", false, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&files).Error
	return files, err
}

// Create 写入附件记录
func (r *fileRepository) Create(ctx context.Context, f *fileModel.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// MarkUploaded 确认上传完成
func (r *fileRepository) MarkUploaded(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&fileModel.File{ID: id}).
		Updates(map[string]any{"is_uploaded": true, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除附件记录
func (r *fileRepository) Delete(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&fileModel.File{}).Error
}
