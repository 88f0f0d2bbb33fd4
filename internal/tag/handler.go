package tag

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"terminal-terrace/blog-service/internal/dto"
	"terminal-terrace/blog-service/internal/middleware"
)

// TagHandler 标签处理器
type TagHandler struct {
	service TagService
}

// NewTagHandler 创建处理器实例
func NewTagHandler(service TagService) *TagHandler {
	return &TagHandler{service: service}
}

// Find 查询标签
// GET /api/v1/tags?query=&order_by=&desc=&page=&per_page=
func (h *TagHandler) Find(c *gin.Context) {
	req := &FindRequest{
		Query:   c.Query("query"),
		OrderBy: OrderBy(c.Query("order_by")),
		Page:    1,
		PerPage: DefaultPerPage,
	}

	var err error
	if raw := c.Query("desc"); raw != "" {
		if req.Desc, err = strconv.ParseBool(raw); err != nil {
			dto.BindError(c, err)
			return
		}
	}
	if raw := c.Query("page"); raw != "" {
		if req.Page, err = strconv.Atoi(raw); err != nil {
			dto.BindError(c, err)
			return
		}
	}
	if raw := c.Query("per_page"); raw != "" {
		if req.PerPage, err = strconv.Atoi(raw); err != nil {
			dto.BindError(c, err)
			return
		}
	}

	result, bizErr := h.service.Find(c.Request.Context(), middleware.ActorFrom(c), req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, result)
}
