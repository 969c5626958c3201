package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectType определяет тип проекта
type ProjectType string

const (
	ProjectTypeHTML    ProjectType = "html"
	ProjectTypeScratch ProjectType = "scratch"
)

// ProjectVisibility определяет режим доступа к проекту
type ProjectVisibility string

const (
	VisibilityClassroom ProjectVisibility = "classroom"
	VisibilityPublic    ProjectVisibility = "public"
	VisibilityPrivate   ProjectVisibility = "private"
	VisibilityParents   ProjectVisibility = "parents"
)

// Project представляет работу ученика: загруженный веб-проект или внешняя ссылка
type Project struct {
	ID          uuid.UUID   `json:"id" gorm:"type:text;primary_key"`
	Title       string      `json:"title" gorm:"not null"`
	Description string      `json:"description"`
	Type        ProjectType `json:"project_type" gorm:"not null"`

	// Для html-проектов заполняется ровно одна форма хранения:
	// FilePath (одиночный файл, legacy) либо ProjectDir + MainFile.
	FilePath   string `json:"file_path"`
	ProjectDir string `json:"project_dir"`
	MainFile   string `json:"main_file"`
	// Для scratch-проектов — только внешняя ссылка.
	ScratchLink string `json:"scratch_link"`

	Visibility  ProjectVisibility `json:"visibility" gorm:"default:'classroom'"`
	StudentID   uuid.UUID         `json:"student_id" gorm:"type:text;not null"`
	ClassroomID uuid.UUID         `json:"classroom_id" gorm:"type:text;not null"`
	SubjectID   *uuid.UUID        `json:"subject_id,omitempty" gorm:"type:text"`
	AssignmentID *uuid.UUID       `json:"assignment_id,omitempty" gorm:"type:text"`
	// TaggedTeacherID — преподаватель, отмеченный учеником на проекте
	TaggedTeacherID *uuid.UUID `json:"tagged_teacher_id,omitempty" gorm:"type:text"`

	Screenshot string `json:"screenshot"`
	Likes      int    `json:"likes" gorm:"default:0"`
	Views      int    `json:"views" gorm:"default:0"`

	CreatedAt   time.Time      `json:"created_at"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Student       User        `json:"student" gorm:"foreignKey:StudentID"`
	Classroom     Classroom   `json:"classroom" gorm:"foreignKey:ClassroomID"`
	Subject       *Subject    `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Assignment    *Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	TaggedTeacher *User       `json:"tagged_teacher,omitempty" gorm:"foreignKey:TaggedTeacherID"`
}

// HasLocalFiles проверяет, хранится ли проект локально
func (p *Project) HasLocalFiles() bool {
	return p.FilePath != "" || p.ProjectDir != ""
}
