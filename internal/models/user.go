package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole определяет роли пользователей
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleStaff   UserRole = "staff"
	RoleParent  UserRole = "parent"
	RoleAdmin   UserRole = "admin"
)

// IsTeaching проверяет, что роль преподавательская.
// Staff приравнивается к учителю при проверках владения классом.
func (r UserRole) IsTeaching() bool {
	return r == RoleTeacher || r == RoleStaff
}

// User представляет пользователя системы
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"default:'student'"`
	// ParentEmail — адрес родителя, привязанный к ученику.
	// Используется при отправке проектов родителям.
	ParentEmail string         `json:"parent_email"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
