package authsdk

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"
)

// AccessTokenCookie 浏览器端保存令牌的 cookie 名
const AccessTokenCookie = "access_token"

// ExtractTokenFromRequest 从 HTTP 请求中提取 token
// 优先 cookie access_token，其次 Authorization: Bearer <token>
// 两者都没有时返回空字符串（访客）
func ExtractTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return bearer(r.Header.Get("Authorization"))
}

// ExtractTokenFromContext 从 gRPC context 的 metadata 中提取 JWT token
// 支持两种方式：
// 1. authorization header (Bearer token)
// 2. x-access-token header
func ExtractTokenFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	if values := md.Get("authorization"); len(values) > 0 {
		return bearer(values[0])
	}

	if values := md.Get("x-access-token"); len(values) > 0 {
		return values[0]
	}

	return ""
}

func bearer(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
