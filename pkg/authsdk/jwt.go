package authsdk

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrNoToken      = errors.New("no token provided")
	// ErrBadVerifyKey 校验密钥本身不可用，属于服务端配置问题
	ErrBadVerifyKey = errors.New("invalid jwt verify key")
)

// Claims JWT 自定义声明
type Claims struct {
	UserID      string   `json:"user_id"`
	UserState   string   `json:"user_state"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Verifier 持有签名算法与校验密钥
type Verifier struct {
	method jwt.SigningMethod
	key    any
}

// NewHMACVerifier 使用共享密钥 (HS256)
func NewHMACVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrBadVerifyKey)
	}
	return &Verifier{method: jwt.SigningMethodHS256, key: []byte(secret)}, nil
}

// NewECDSAVerifier 使用 PEM 编码的 EC 公钥 (ES256)
func NewECDSAVerifier(publicKeyPEM []byte) (*Verifier, error) {
	key, err := jwt.ParseECPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVerifyKey, err)
	}
	return &Verifier{method: jwt.SigningMethodES256, key: key}, nil
}

// Algorithm 返回签名算法名
func (v *Verifier) Algorithm() string {
	return v.method.Alg()
}

// ParseToken 解析并验证 JWT token
func (v *Verifier) ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if token.Method.Alg() != v.method.Alg() {
			return nil, ErrInvalidToken
		}
		return v.key, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrInvalidKeyType), errors.Is(err, jwt.ErrInvalidKey):
			return nil, fmt.Errorf("%w: %v", ErrBadVerifyKey, err)
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// SignHMAC 生成 HS256 令牌，供开发环境与测试使用
func SignHMAC(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// SignECDSA 生成 ES256 令牌
func SignECDSA(key *ecdsa.PrivateKey, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	return token.SignedString(key)
}
