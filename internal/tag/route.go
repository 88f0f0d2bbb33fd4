package tag

import "github.com/gin-gonic/gin"

// SetupTagRoutes 注册标签路由
func SetupTagRoutes(router *gin.RouterGroup, service TagService) {
	handler := NewTagHandler(service)
	router.GET("/tags", handler.Find)
}
