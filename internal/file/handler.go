package file

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"terminal-terrace/blog-service/internal/dto"
	"terminal-terrace/blog-service/internal/middleware"
	"terminal-terrace/blog-service/pkg/response"
)

// FileHandler 附件处理器
type FileHandler struct {
	service FileService
}

// NewFileHandler 创建处理器实例
func NewFileHandler(service FileService) *FileHandler {
	return &FileHandler{service: service}
}

// Create 申请上传
// POST /api/v1/articles/:id/files
func (h *FileHandler) Create(c *gin.Context) {
	articleID, ok := pathID(c, "invalid article id")
	if !ok {
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	result, bizErr := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), articleID, &req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.CreatedResponse(c, result)
}

// List 文章附件
// GET /api/v1/articles/:id/files
func (h *FileHandler) List(c *gin.Context) {
	articleID, ok := pathID(c, "invalid article id")
	if !ok {
		return
	}

	result, bizErr := h.service.List(c.Request.Context(), middleware.ActorFrom(c), articleID)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, result)
}

// Confirm 确认上传
// POST /api/v1/files/:id/confirm
func (h *FileHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "invalid file id")
	if !ok {
		return
	}

	if bizErr := h.service.Confirm(c.Request.Context(), middleware.ActorFrom(c), id); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, nil)
}

// Delete 删除附件
// DELETE /api/v1/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid file id")
	if !ok {
		return
	}

	if bizErr := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, nil)
}

func pathID(c *gin.Context, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage(msg),
		))
		return uuid.Nil, false
	}
	return id, true
}
