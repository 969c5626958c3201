package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject представляет предмет внутри класса
type Subject struct {
	ID          uuid.UUID      `json:"id" gorm:"type:text;primary_key"`
	Name        string         `json:"name" gorm:"not null"`
	ClassroomID uuid.UUID      `json:"classroom_id" gorm:"type:text;not null"`
	TeacherID   uuid.UUID      `json:"teacher_id" gorm:"type:text;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Classroom   Classroom    `json:"classroom" gorm:"foreignKey:ClassroomID"`
	Teacher     User         `json:"teacher" gorm:"foreignKey:TeacherID"`
	Assignments []Assignment `json:"assignments" gorm:"foreignKey:SubjectID"`
}

// Assignment представляет задание по предмету с дедлайном.
// Сдачей задания считается проект с заполненным AssignmentID.
type Assignment struct {
	ID          uuid.UUID      `json:"id" gorm:"type:text;primary_key"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	SubjectID   uuid.UUID      `json:"subject_id" gorm:"type:text;not null"`
	Deadline    time.Time      `json:"deadline" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Subject     Subject   `json:"subject" gorm:"foreignKey:SubjectID"`
	Submissions []Project `json:"submissions" gorm:"foreignKey:AssignmentID"`
}
