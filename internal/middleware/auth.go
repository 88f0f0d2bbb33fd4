package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"terminal-terrace/blog-service/internal/dto"
	"terminal-terrace/blog-service/internal/identity"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/pkg/authsdk"
	"terminal-terrace/blog-service/pkg/response"
)

const actorKey = "actor"

// Resolver 令牌解析
type Resolver interface {
	Resolve(token string) (*permission.Actor, error)
}

// Identity 解析请求身份并写入上下文
// 无令牌的请求以访客身份继续；令牌无效或过期直接拒绝
func Identity(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := authsdk.ExtractTokenFromRequest(c.Request)

		actor, err := resolver.Resolve(token)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrExpiredToken):
				dto.AbortWithError(c, response.NewBusinessError(
					response.WithErrorCode(response.TokenExpired),
					response.WithErrorMessage("token expired"),
				))
			case errors.Is(err, identity.ErrInvalidToken):
				dto.AbortWithError(c, response.NewBusinessError(
					response.WithErrorCode(response.Unauthorized),
					response.WithErrorMessage("invalid token"),
				))
			default:
				dto.AbortWithError(c, response.Critical(err))
			}
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom 取出 Identity 写入的请求者
func ActorFrom(c *gin.Context) *permission.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(*permission.Actor); ok {
			return actor
		}
	}
	// 未挂载 Identity 的路由不授予任何权限
	return permission.Guest(permission.NewSet())
}
