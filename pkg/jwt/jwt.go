package jwt

import (
	"errors"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"campushub/backend/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// Claims 平台身份服务签发的 Access Token 声明
type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"` // admin | scheduler | instructor | student
	TokenType string `json:"token_type"`
	jwtv5.RegisteredClaims
}

// Manager JWT 验签管理器
// Token 的签发归身份服务，本服务只验证签名、有效期与签发方
type Manager struct {
	secret []byte
	issuer string
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// ParseToken 验证并解析 Access Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
