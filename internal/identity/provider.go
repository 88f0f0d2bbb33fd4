// Package identity 将访问令牌解析为请求发起者
package identity

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"terminal-terrace/blog-service/config"
	"terminal-terrace/blog-service/internal/permission"
	"terminal-terrace/blog-service/pkg/authsdk"
)

var (
	// ErrInvalidToken 令牌格式错误、签名不符或声明不合法
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken 令牌已过期
	ErrExpiredToken = errors.New("token expired")
	// ErrCritical 服务端无法完成校验
	ErrCritical = errors.New("token verification unavailable")
)

// Provider 解析令牌，空令牌得到访客
type Provider struct {
	verifier *authsdk.Verifier
	guest    permission.Set
}

// NewProvider guest 为访客权限，启动时确定后不再变化
func NewProvider(verifier *authsdk.Verifier, guest permission.Set) *Provider {
	return &Provider{verifier: verifier, guest: guest}
}

// NewProviderFromConfig 根据 JWT 配置构建校验器
func NewProviderFromConfig(conf config.JWTConfig, guest permission.Set) (*Provider, error) {
	var (
		verifier *authsdk.Verifier
		err      error
	)
	switch conf.Algorithm {
	case "ES256":
		var pemBytes []byte
		pemBytes, err = os.ReadFile(conf.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read jwt public key: %w", err)
		}
		verifier, err = authsdk.NewECDSAVerifier(pemBytes)
	default:
		verifier, err = authsdk.NewHMACVerifier(conf.Secret)
	}
	if err != nil {
		return nil, err
	}
	return NewProvider(verifier, guest), nil
}

// Guest 访客
func (p *Provider) Guest() *permission.Actor {
	return permission.Guest(p.guest)
}

// Resolve 令牌 -> Actor
func (p *Provider) Resolve(token string) (*permission.Actor, error) {
	if token == "" {
		return p.Guest(), nil
	}
	if p.verifier == nil {
		return nil, fmt.Errorf("%w: verifier not configured", ErrCritical)
	}

	claims, err := p.verifier.ParseToken(token)
	if err != nil {
		switch {
		case errors.Is(err, authsdk.ErrExpiredToken):
			return nil, ErrExpiredToken
		case errors.Is(err, authsdk.ErrBadVerifyKey):
			return nil, fmt.Errorf("%w: %v", ErrCritical, err)
		}
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return nil, fmt.Errorf("%w: bad user_id claim", ErrInvalidToken)
	}
	state, err := permission.ParseUserState(claims.UserState)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	perms, _ := permission.ParseSet(claims.Permissions)

	return &permission.Actor{
		UserID:      userID,
		State:       state,
		Permissions: perms,
	}, nil
}
