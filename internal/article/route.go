package article

import (
	"github.com/gin-gonic/gin"
)

// SetupArticleRoutes 注册文章相关路由
func SetupArticleRoutes(router *gin.RouterGroup, service ArticleService) {
	handler := NewArticleHandler(service)

	articles := router.Group("/articles")
	{
		articles.POST("", handler.Create)
		articles.GET("", handler.Find)
		articles.GET("/:id", handler.Get)
		articles.PUT("/:id", handler.Update)
		articles.DELETE("/:id", handler.Delete)
		articles.PUT("/:id/rate", handler.Rate)
	}
}
