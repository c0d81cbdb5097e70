package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы профиля пользователя.
const (
	ProfileTypeIndividual = "individual"
	ProfileTypeBusiness   = "business"
)

// User описывает пользователя платформы MORICE.
// Phone опционален: при его наличии уведомления дублируются в WhatsApp-канал.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	City         *string    `db:"city" json:"city,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	ProfileType  string     `db:"profile_type" json:"profile_type"`
	HasLawyer    bool       `db:"has_lawyer" json:"has_lawyer"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName возвращает имя для отображения.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasPhone сообщает, указан ли телефон для WhatsApp-уведомлений.
func (u *User) HasPhone() bool {
	return u.Phone != nil && *u.Phone != ""
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
