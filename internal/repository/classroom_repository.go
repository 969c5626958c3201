package repository

import (
	"github.com/techwithrichard/smart-student-display/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassroomRepository интерфейс для работы с классами и членством
type ClassroomRepository interface {
	Create(classroom *models.Classroom) error
	GetByID(id uuid.UUID) (*models.Classroom, error)
	GetByCode(code string) (*models.Classroom, error)
	ListByTeacher(teacherID uuid.UUID) ([]models.Classroom, error)
	ListByStudent(studentID uuid.UUID) ([]models.Classroom, error)

	CreateEnrollment(enrollment *models.Enrollment) error
	GetEnrollment(classroomID, studentID uuid.UUID) (*models.Enrollment, error)
	DeleteEnrollment(classroomID, studentID uuid.UUID) error
	ListEnrollments(classroomID uuid.UUID, limit int) ([]models.Enrollment, error)
	AddPoints(enrollmentID uuid.UUID, points int) error
}

// classroomRepository реализация репозитория классов
type classroomRepository struct {
	db *gorm.DB
}

// NewClassroomRepository создает новый репозиторий классов
func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

// Create создает новый класс
func (r *classroomRepository) Create(classroom *models.Classroom) error {
	if classroom.ID == uuid.Nil {
		classroom.ID = uuid.New()
	}
	return r.db.Create(classroom).Error
}

// GetByID получает класс по ID
func (r *classroomRepository) GetByID(id uuid.UUID) (*models.Classroom, error) {
	var classroom models.Classroom
	err := r.db.First(&classroom, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

// GetByCode получает класс по коду вступления
func (r *classroomRepository) GetByCode(code string) (*models.Classroom, error) {
	var classroom models.Classroom
	err := r.db.Where("code = ?", code).First(&classroom).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

// ListByTeacher получает классы преподавателя
func (r *classroomRepository) ListByTeacher(teacherID uuid.UUID) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	err := r.db.Where("teacher_id = ?", teacherID).Order("created_at DESC").Find(&classrooms).Error
	return classrooms, err
}

// ListByStudent получает классы, в которых состоит ученик
func (r *classroomRepository) ListByStudent(studentID uuid.UUID) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	err := r.db.
		Joins("JOIN enrollments ON enrollments.classroom_id = classrooms.id").
		Where("enrollments.student_id = ?", studentID).
		Find(&classrooms).Error
	return classrooms, err
}

// CreateEnrollment создает членство ученика в классе
func (r *classroomRepository) CreateEnrollment(enrollment *models.Enrollment) error {
	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	return r.db.Create(enrollment).Error
}

// GetEnrollment получает членство по паре (класс, ученик)
func (r *classroomRepository) GetEnrollment(classroomID, studentID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.Where("classroom_id = ? AND student_id = ?", classroomID, studentID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// DeleteEnrollment удаляет членство ученика в классе
func (r *classroomRepository) DeleteEnrollment(classroomID, studentID uuid.UUID) error {
	return r.db.
		Where("classroom_id = ? AND student_id = ?", classroomID, studentID).
		Delete(&models.Enrollment{}).Error
}

// ListEnrollments получает членства класса по убыванию очков
func (r *classroomRepository) ListEnrollments(classroomID uuid.UUID, limit int) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	query := r.db.Preload("Student").
		Where("classroom_id = ?", classroomID).
		Order("points DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&enrollments).Error
	return enrollments, err
}

// AddPoints увеличивает счетчик очков членства
func (r *classroomRepository) AddPoints(enrollmentID uuid.UUID, points int) error {
	return r.db.Model(&models.Enrollment{}).
		Where("id = ?", enrollmentID).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error
}
