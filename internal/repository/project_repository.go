package repository

import (
	"github.com/techwithrichard/smart-student-display/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRepository интерфейс для работы с проектами
type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uuid.UUID) (*models.Project, error)
	Update(project *models.Project) error
	Delete(id uuid.UUID) error
	ListByClassroom(classroomID uuid.UUID) ([]models.Project, error)
	ListByStudent(studentID uuid.UUID) ([]models.Project, error)
	ListByAssignment(assignmentID uuid.UUID) ([]models.Project, error)
	IncrementViews(id uuid.UUID) error
	IncrementLikes(id uuid.UUID) error
}

// projectRepository реализация репозитория проектов
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository создает новый репозиторий проектов
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create создает новый проект
func (r *projectRepository) Create(project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	return r.db.Create(project).Error
}

// GetByID получает проект по ID
func (r *projectRepository) GetByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Student").Preload("Classroom").First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update обновляет проект
func (r *projectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete удаляет проект
func (r *projectRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}

// ListByClassroom получает проекты класса
func (r *projectRepository) ListByClassroom(classroomID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Preload("Student").
		Where("classroom_id = ?", classroomID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListByStudent получает проекты ученика
func (r *projectRepository) ListByStudent(studentID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// ListByAssignment получает проекты, сданные по заданию
func (r *projectRepository) ListByAssignment(assignmentID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Find(&projects).Error
	return projects, err
}

// IncrementViews увеличивает счетчик просмотров проекта
func (r *projectRepository) IncrementViews(id uuid.UUID) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// IncrementLikes увеличивает счетчик лайков проекта
func (r *projectRepository) IncrementLikes(id uuid.UUID) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}
