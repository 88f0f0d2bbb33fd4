package file

import "github.com/gin-gonic/gin"

// SetupFileRoutes 注册附件路由
func SetupFileRoutes(router *gin.RouterGroup, service FileService) {
	handler := NewFileHandler(service)

	router.POST("/articles/:id/files", handler.Create)
	router.GET("/articles/:id/files", handler.List)

	files := router.Group("/files")
	{
		files.POST("/:id/confirm", handler.Confirm)
		files.DELETE("/:id", handler.Delete)
	}
}
