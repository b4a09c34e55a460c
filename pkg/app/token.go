package app

import (
	"fmt"
	"time"

	"github.com/studyforge/study-note-service/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "study-note-service"

// Session kinds carried inside the token
// Token 中携带的会话类型
const (
	SessionKindGuest = "guest"
	SessionKindUser  = "user"
)

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        `yaml:"secret-key"` // JWT 签名密钥
	Expiry    time.Duration `yaml:"expiry"`     // Token 过期时间，默认 7 天
	Issuer    string        `yaml:"issuer"`     // Token 签发者
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	Generate(sessionID string, kind string, ip string) (string, error)
	Parse(token string) (*SessionEntity, error)
	Validate(token string) error
	GetSecretKey() string
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	// 设置默认值
	if cfg.Expiry == 0 {
		cfg.Expiry = 7 * 24 * time.Hour // 默认 7 天
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// SessionEntity represents the session data stored in the JWT.
type SessionEntity struct {
	SID  string `json:"sid"`
	Kind string `json:"kind"`
	IP   string `json:"ip"`
	jwt.RegisteredClaims
}

// Generate 生成一个新的 JWT Token
func (t *tokenManager) Generate(sessionID string, kind string, ip string) (string, error) {
	expirationTime := time.Now().Add(t.config.Expiry)
	claims := &SessionEntity{
		SID:  sessionID,
		Kind: kind,
		IP:   ip,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    t.config.Issuer,
			Subject:   "session-token",
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.config.SecretKey + "_" + util.GetMachineID()))
}

// Parse 解析 JWT Token 并返回会话信息
func (t *tokenManager) Parse(token string) (*SessionEntity, error) {
	claims := &SessionEntity{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.config.SecretKey + "_" + util.GetMachineID()), nil
	})

	if err != nil {
		return nil, err
	}

	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// Validate 验证 Token 是否有效
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// GetSecretKey 获取密钥
func (t *tokenManager) GetSecretKey() string {
	return t.config.SecretKey
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(ctx *gin.Context) (out string) {
	session, exist := ctx.Get("session_token")
	if exist {
		if entity, ok := session.(*SessionEntity); ok {
			out = entity.SID
		}
	}
	return
}

// GetSessionKind extracts the session kind from the request context.
func GetSessionKind(ctx *gin.Context) (out string) {
	session, exist := ctx.Get("session_token")
	if exist {
		if entity, ok := session.(*SessionEntity); ok {
			out = entity.Kind
		}
	}
	return
}

// GetIP extracts the client IP recorded at token issue time from the request context.
func GetIP(ctx *gin.Context) (out string) {
	session, exist := ctx.Get("session_token")
	if exist {
		if entity, ok := session.(*SessionEntity); ok {
			out = entity.IP
		}
	}
	return
}
