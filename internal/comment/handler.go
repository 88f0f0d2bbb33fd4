package comment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"terminal-terrace/blog-service/internal/dto"
	"terminal-terrace/blog-service/internal/middleware"
	"terminal-terrace/blog-service/pkg/response"
)

// CommentHandler 评论处理器
type CommentHandler struct {
	service CommentService
}

// NewCommentHandler 创建处理器实例
func NewCommentHandler(service CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// GetArticleComments 获取文章的评论树
// GET /api/v1/articles/:id/comments
func (h *CommentHandler) GetArticleComments(c *gin.Context) {
	articleID, ok := pathID(c, "invalid article id")
	if !ok {
		return
	}

	result, bizErr := h.service.GetTree(c.Request.Context(), middleware.ActorFrom(c), articleID)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, result)
}

// Create 发表评论
// POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	result, bizErr := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), &req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.CreatedResponse(c, result)
}

// Get 获取评论
// GET /api/v1/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid comment id")
	if !ok {
		return
	}

	result, bizErr := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, result)
}

// Update 编辑评论
// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "invalid comment id")
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	if bizErr := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, &req); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, nil)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid comment id")
	if !ok {
		return
	}

	if bizErr := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, nil)
}

// Rate 评价评论
// PUT /api/v1/comments/:id/rate
func (h *CommentHandler) Rate(c *gin.Context) {
	id, ok := pathID(c, "invalid comment id")
	if !ok {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	if bizErr := h.service.Rate(c.Request.Context(), middleware.ActorFrom(c), id, &req); bizErr != nil {
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
