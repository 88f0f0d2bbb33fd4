package comment

import (
	"github.com/gin-gonic/gin"
)

// SetupCommentRoutes 注册评论相关路由
func SetupCommentRoutes(router *gin.RouterGroup, service CommentService) {
	handler := NewCommentHandler(service)

	// 文章评论树
	router.GET("/articles/:id/comments", handler.GetArticleComments)

	comments := router.Group("/comments")
	{
		comments.POST("", handler.Create)
		comments.GET("/:id", handler.Get)
		comments.PUT("/:id", handler.Update)
		comments.DELETE("/:id", handler.Delete)
		comments.PUT("/:id/rate", handler.Rate)
	}
}
