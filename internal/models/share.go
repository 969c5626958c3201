package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectShare представляет код доступа к проекту, выданный преподавателем.
// На пару (проект, преподаватель) существует не более одного активного кода:
// перегенерация перезаписывает предыдущий.
type ProjectShare struct {
	ID        uuid.UUID  `json:"id" gorm:"type:text;primary_key"`
	Code      string     `json:"code" gorm:"uniqueIndex;not null"` // 8 символов, A-Z и цифры
	ProjectID uuid.UUID  `json:"project_id" gorm:"type:text;not null;uniqueIndex:idx_share_project_teacher"`
	TeacherID uuid.UUID  `json:"teacher_id" gorm:"type:text;not null;uniqueIndex:idx_share_project_teacher"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// Связи
	Project Project `json:"project" gorm:"foreignKey:ProjectID"`
	Teacher User    `json:"teacher" gorm:"foreignKey:TeacherID"`
}

// IsExpired проверяет, истёк ли срок действия кода
func (s *ProjectShare) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// ParentNotification представляет уведомление родителю о проекте.
// Наличие записи открывает родителю доступ к проекту в режимах
// classroom и parents.
type ParentNotification struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	ParentID  uuid.UUID `json:"parent_id" gorm:"type:text;not null"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:text;not null"`
	TeacherID uuid.UUID `json:"teacher_id" gorm:"type:text;not null"`
	ShareCode string    `json:"share_code"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	// Связи
	Parent  User    `json:"parent" gorm:"foreignKey:ParentID"`
	Project Project `json:"project" gorm:"foreignKey:ProjectID"`
	Teacher User    `json:"teacher" gorm:"foreignKey:TeacherID"`
}

// EmailStatus определяет статус отправки письма
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// EmailLog представляет запись об отправке письма родителю
type EmailLog struct {
	ID        uuid.UUID   `json:"id" gorm:"type:text;primary_key"`
	Recipient string      `json:"recipient" gorm:"not null"`
	ProjectID uuid.UUID   `json:"project_id" gorm:"type:text;not null"`
	TeacherID uuid.UUID   `json:"teacher_id" gorm:"type:text;not null"`
	Status    EmailStatus `json:"status" gorm:"not null"`
	Error     string      `json:"error"`
	CreatedAt time.Time   `json:"created_at"`
}
