package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль пользователя в системе
type UserRole string

const (
	RoleManager    UserRole = "manager"    // Руководитель автопарка
	RoleDispatcher UserRole = "dispatcher" // Диспетчер рейсов
	RoleSafety     UserRole = "safety"     // Специалист по безопасности
	RoleAnalyst    UserRole = "analyst"    // Финансовый аналитик
)

// Roles возвращает все известные роли
func Roles() []UserRole {
	return []UserRole{RoleManager, RoleDispatcher, RoleSafety, RoleAnalyst}
}

// IsValid проверяет, что роль известна системе
func (r UserRole) IsValid() bool {
	for _, role := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// User - учетная запись сотрудника
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Никогда не возвращаем в JSON
	Role         UserRole   `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// NormalizeEmail приводит email к нижнему регистру без пробелов
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrInvalidUserData
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}
