package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims JWT 페이로드
type Claims struct {
	UserID   string   `json:"user_id"`
	Nickname string   `json:"nickname,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Manager 토큰 발급/검증
type Manager struct {
	secret    []byte
	expiresIn time.Duration
	refreshIn time.Duration
	now       func() time.Time
}

// NewManager expiresIn/refreshIn are in seconds.
func NewManager(secret string, expiresIn, refreshIn int) *Manager {
	return &Manager{
		secret:    []byte(secret),
		expiresIn: time.Duration(expiresIn) * time.Second,
		refreshIn: time.Duration(refreshIn) * time.Second,
		now:       time.Now,
	}
}

// GenerateAccessToken 액세스 토큰 생성
func (m *Manager) GenerateAccessToken(userID, nickname string, roles []string) (string, error) {
	return m.sign(userID, nickname, roles, m.expiresIn)
}

// GenerateRefreshToken 리프레시 토큰 생성 (roles 미포함)
func (m *Manager) GenerateRefreshToken(userID string) (string, error) {
	return m.sign(userID, "", nil, m.refreshIn)
}

func (m *Manager) sign(userID, nickname string, roles []string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   userID,
		Nickname: nickname,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyToken 토큰 검증
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
