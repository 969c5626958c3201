package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge представляет челлендж внутри класса
type Challenge struct {
	ID          uuid.UUID      `json:"id" gorm:"type:text;primary_key"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	Points      int            `json:"points" gorm:"default:10"`
	ClassroomID uuid.UUID      `json:"classroom_id" gorm:"type:text;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Classroom   Classroom             `json:"classroom" gorm:"foreignKey:ClassroomID"`
	Submissions []ChallengeSubmission `json:"submissions" gorm:"foreignKey:ChallengeID"`
}

// ChallengeSubmission представляет зачёт проекта по челленджу.
// Не более одного зачёта на пару (челлендж, ученик).
type ChallengeSubmission struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	ChallengeID uuid.UUID `json:"challenge_id" gorm:"type:text;not null;uniqueIndex:idx_submission_challenge_student"`
	StudentID   uuid.UUID `json:"student_id" gorm:"type:text;not null;uniqueIndex:idx_submission_challenge_student"`
	ProjectID   uuid.UUID `json:"project_id" gorm:"type:text;not null"`
	PointsAwarded int     `json:"points_awarded" gorm:"default:0"`
	SubmittedAt time.Time `json:"submitted_at"`

	// Связи
	Challenge Challenge `json:"challenge" gorm:"foreignKey:ChallengeID"`
	Student   User      `json:"student" gorm:"foreignKey:StudentID"`
	Project   Project   `json:"project" gorm:"foreignKey:ProjectID"`
}
