package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken - единственная ошибка верификации токена.
// Структурная ошибка, неверная подпись, чужой issuer и истекший срок
// намеренно не различаются, чтобы не раскрывать причину отказа.
var ErrInvalidToken = errors.New("invalid token")

// Claims - полезная нагрузка JWT токена.
// Access токен несет список разрешений в claim "authorities",
// refresh токен содержит только subject/issuer/сроки.
type Claims struct {
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

// Manager подписывает и верифицирует JWT токены симметричным ключом.
// Один и тот же секрет раздается всем сервисам, поэтому каждый сервис
// верифицирует токены локально, без обращения к auth-service.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager создает менеджер токенов
func NewManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken выпускает access токен с разрешениями пользователя
func (m *Manager) GenerateAccessToken(email string, authorities []string) (string, error) {
	now := time.Now()
	claims := Claims{
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secret)
}

// GenerateRefreshToken выпускает refresh токен без разрешений
func (m *Manager) GenerateRefreshToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secret)
}

// VerifyAccessToken проверяет подпись, issuer и срок действия токена.
// Любая неудача сводится к ErrInvalidToken.
func (m *Manager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString)
}

// VerifyRefreshToken проверяет refresh токен.
// Токен с claim "authorities" отклоняется: access токен нельзя
// использовать в refresh-флоу.
func (m *Manager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	claims, err := m.verify(tokenString)
	if err != nil {
		return nil, err
	}
	if len(claims.Authorities) > 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.secret, nil
		},
		jwt.WithIssuer(m.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AccessTTL возвращает время жизни access токена
func (m *Manager) AccessTTL() time.Duration {
	return m.accessTTL
}

// RefreshTTL возвращает время жизни refresh токена
func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshTTL
}
