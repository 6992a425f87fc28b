package entity

import (
	"time"

	"bookhive/pkg/roles"

	"github.com/google/uuid"
)

// User представляет учетную запись в сервисе идентификации.
// Роль хранится как значение из закрытого набора, набор разрешений
// выводится из роли через pkg/roles и на пользователе не хранится.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // не возвращаем в JSON
	Role         roles.Role `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни access токена в секундах
}
