package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	res "terminal-terrace/blog-service/pkg/response"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, res.SuccessResponse(data))
}

func CreatedResponse(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, res.SuccessResponse(data))
}

// ErrorResponse 业务错误 -> HTTP 响应，内部错误写日志后只返回通用信息
func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	if err.IsCritical() {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(StatusCode(err.Code), res.ErrorResponse(err))
}

// AbortWithError 中间件中使用
func AbortWithError(c *gin.Context, err *res.BusinessError) {
	ErrorResponse(c, err)
	c.Abort()
}

// BindError 请求体或参数无法解析
func BindError(c *gin.Context, err error) {
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("malformed request: "+err.Error()),
	))
}

// StatusCode 业务错误码对应的 HTTP 状态码
func StatusCode(code res.ResponseCode) int {
	switch code {
	case res.ParseError:
		return http.StatusBadRequest
	case res.InvalidParameter:
		return http.StatusUnprocessableEntity
	case res.Unauthorized, res.TokenExpired:
		return http.StatusUnauthorized
	case res.Forbidden:
		return http.StatusForbidden
	case res.NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
