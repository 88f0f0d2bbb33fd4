package file

import (
	"github.com/google/uuid"
)

// CreateRequest 申请上传附件
type CreateRequest struct {
	Filename    string `json:"filename" validate:"min=1,max=255"`
	ContentType string `json:"content_type" validate:"min=1,max=255,mimetype"`
}

// CreateResponse 上传表单，客户端直传对象存储后调用确认接口
type CreateResponse struct {
	ID     uuid.UUID         `json:"id"`
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

// FileResponse 已上传附件
type FileResponse struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
}
