package article

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"terminal-terrace/blog-service/internal/dto"
	"terminal-terrace/blog-service/internal/middleware"
	articleModel "terminal-terrace/blog-service/internal/model/article"
	"terminal-terrace/blog-service/pkg/response"
)

// ArticleHandler 文章处理器
type ArticleHandler struct {
	service ArticleService
}

// NewArticleHandler 创建处理器实例
func NewArticleHandler(service ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// Create 创建文章
// POST /api/v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
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

// Find 查询文章
// GET /api/v1/articles?query=&tags=a&tags=b&author_id=&state=&order_by=&desc=&page=&per_page=
func (h *ArticleHandler) Find(c *gin.Context) {
	req, err := parseFindRequest(c)
	if err != nil {
		dto.BindError(c, err)
		return
	}

	result, bizErr := h.service.Find(c.Request.Context(), middleware.ActorFrom(c), req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, result)
}

// Get 获取文章详情
// GET /api/v1/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
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

// Update 更新文章
// PUT /api/v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
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

// Delete 删除文章
// DELETE /api/v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if bizErr := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, nil)
}

// Rate 评价文章
// PUT /api/v1/articles/:id/rate
func (h *ArticleHandler) Rate(c *gin.Context) {
	id, ok := pathID(c)
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

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("invalid article id"),
		))
		return uuid.Nil, false
	}
	return id, true
}

func parseFindRequest(c *gin.Context) (*FindRequest, error) {
	req := &FindRequest{
		Query:   c.Query("query"),
		Tags:    c.QueryArray("tags"),
		State:   articleModel.State(c.Query("state")),
		OrderBy: OrderBy(c.Query("order_by")),
		Page:    1,
		PerPage: DefaultPerPage,
	}

	if raw := c.Query("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		req.AuthorID = &id
	}
	if raw := c.Query("desc"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.Desc = desc
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		req.Page = page
	}
	if raw := c.Query("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		req.PerPage = perPage
	}
	return req, nil
}
