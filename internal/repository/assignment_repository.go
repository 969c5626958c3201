package repository

import (
	"github.com/techwithrichard/smart-student-display/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentRepository интерфейс для работы с предметами и заданиями
type AssignmentRepository interface {
	CreateSubject(subject *models.Subject) error
	GetSubjectByID(id uuid.UUID) (*models.Subject, error)
	ListSubjectsByClassroom(classroomID uuid.UUID) ([]models.Subject, error)

	CreateAssignment(assignment *models.Assignment) error
	GetAssignmentByID(id uuid.UUID) (*models.Assignment, error)
	ListAssignmentsBySubject(subjectID uuid.UUID) ([]models.Assignment, error)
}

// assignmentRepository реализация репозитория заданий
type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository создает новый репозиторий заданий
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// CreateSubject создает новый предмет
func (r *assignmentRepository) CreateSubject(subject *models.Subject) error {
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	return r.db.Create(subject).Error
}

// GetSubjectByID получает предмет по ID
func (r *assignmentRepository) GetSubjectByID(id uuid.UUID) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.First(&subject, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListSubjectsByClassroom получает предметы класса
func (r *assignmentRepository) ListSubjectsByClassroom(classroomID uuid.UUID) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.Where("classroom_id = ?", classroomID).Find(&subjects).Error
	return subjects, err
}

// CreateAssignment создает новое задание
func (r *assignmentRepository) CreateAssignment(assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	return r.db.Create(assignment).Error
}

// GetAssignmentByID получает задание по ID вместе с предметом
func (r *assignmentRepository) GetAssignmentByID(id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.Preload("Subject").First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignmentsBySubject получает задания по предмету
func (r *assignmentRepository) ListAssignmentsBySubject(subjectID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.Where("subject_id = ?", subjectID).Order("deadline ASC").Find(&assignments).Error
	return assignments, err
}
