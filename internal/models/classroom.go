package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Classroom представляет класс, созданный преподавателем
type Classroom struct {
	ID        uuid.UUID      `json:"id" gorm:"type:text;primary_key"`
	Name      string         `json:"name" gorm:"not null"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"` // код для вступления учеников
	TeacherID uuid.UUID      `json:"teacher_id" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Teacher     User         `json:"teacher" gorm:"foreignKey:TeacherID"`
	Enrollments []Enrollment `json:"enrollments" gorm:"foreignKey:ClassroomID"`
	Projects    []Project    `json:"projects" gorm:"foreignKey:ClassroomID"`
	Challenges  []Challenge  `json:"challenges" gorm:"foreignKey:ClassroomID"`
	Subjects    []Subject    `json:"subjects" gorm:"foreignKey:ClassroomID"`
}

// Enrollment представляет членство ученика в классе
type Enrollment struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	ClassroomID uuid.UUID `json:"classroom_id" gorm:"type:text;not null;uniqueIndex:idx_enrollment_classroom_student"`
	StudentID   uuid.UUID `json:"student_id" gorm:"type:text;not null;uniqueIndex:idx_enrollment_classroom_student"`
	// Points — накопленные очки; меняются только при зачёте челленджей
	Points   int       `json:"points" gorm:"default:0"`
	JoinedAt time.Time `json:"joined_at"`

	// Связи
	Classroom Classroom `json:"classroom" gorm:"foreignKey:ClassroomID"`
	Student   User      `json:"student" gorm:"foreignKey:StudentID"`
}
