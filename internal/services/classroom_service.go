package services

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// codeAlphabet — символы кодов вступления и кодов доступа:
// заглавные буквы и цифры, безопасные для сегмента URL
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomCode генерирует случайный код заданной длины
func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// LeaderboardEntry представляет строку таблицы лидеров класса
type LeaderboardEntry struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
}

// ClassroomService представляет сервис классов
type ClassroomService struct {
	classroomRepo repository.ClassroomRepository
	userRepo      repository.UserRepository
}

// NewClassroomService создает новый сервис классов
func NewClassroomService(classroomRepo repository.ClassroomRepository, userRepo repository.UserRepository) *ClassroomService {
	return &ClassroomService{
		classroomRepo: classroomRepo,
		userRepo:      userRepo,
	}
}

// CreateClassroom создает класс преподавателя. Код вступления
// принимается от преподавателя либо генерируется.
func (s *ClassroomService) CreateClassroom(teacher *models.User, name, code string) (*models.Classroom, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: classroom name is required", ErrValidation)
	}

	if code == "" {
		generated, err := randomCode(6)
		if err != nil {
			return nil, err
		}
		code = generated
	}

	if _, err := s.classroomRepo.GetByCode(code); err == nil {
		return nil, fmt.Errorf("%w: classroom code already exists", ErrValidation)
	}

	classroom := &models.Classroom{
		ID:        uuid.New(),
		Name:      name,
		Code:      code,
		TeacherID: teacher.ID,
	}
	if err := s.classroomRepo.Create(classroom); err != nil {
		return nil, fmt.Errorf("failed to create classroom: %w", err)
	}
	return classroom, nil
}

// JoinClassroom записывает ученика в класс по коду вступления
func (s *ClassroomService) JoinClassroom(student *models.User, code string) (*models.Classroom, error) {
	classroom, err := s.classroomRepo.GetByCode(code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: invalid classroom code", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load classroom: %w", err)
	}

	if _, err := s.classroomRepo.GetEnrollment(classroom.ID, student.ID); err == nil {
		return nil, fmt.Errorf("%w: already enrolled in this classroom", ErrValidation)
	}

	enrollment := &models.Enrollment{
		ID:          uuid.New(),
		ClassroomID: classroom.ID,
		StudentID:   student.ID,
		JoinedAt:    time.Now(),
	}
	if err := s.classroomRepo.CreateEnrollment(enrollment); err != nil {
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}
	return classroom, nil
}

// RemoveStudent удаляет ученика из класса; доступно владельцу класса
// и администратору
func (s *ClassroomService) RemoveStudent(actor *models.User, classroomID, studentID uuid.UUID) error {
	classroom, err := s.classroomRepo.GetByID(classroomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: classroom", ErrNotFound)
		}
		return fmt.Errorf("failed to load classroom: %w", err)
	}
	if classroom.TeacherID != actor.ID && actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: not the classroom owner", ErrAccessDenied)
	}

	if _, err := s.classroomRepo.GetEnrollment(classroomID, studentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: enrollment", ErrNotFound)
		}
		return fmt.Errorf("failed to load enrollment: %w", err)
	}

	return s.classroomRepo.DeleteEnrollment(classroomID, studentID)
}

// GetClassroom получает класс по ID
func (s *ClassroomService) GetClassroom(id uuid.UUID) (*models.Classroom, error) {
	classroom, err := s.classroomRepo.GetByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: classroom", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load classroom: %w", err)
	}
	return classroom, nil
}

// ListClassrooms получает классы пользователя: для преподавателя —
// собственные, для ученика — те, где он состоит
func (s *ClassroomService) ListClassrooms(user *models.User) ([]models.Classroom, error) {
	if user.Role.IsTeaching() || user.Role == models.RoleAdmin {
		return s.classroomRepo.ListByTeacher(user.ID)
	}
	return s.classroomRepo.ListByStudent(user.ID)
}

// Leaderboard получает первые строки таблицы лидеров класса
func (s *ClassroomService) Leaderboard(classroomID uuid.UUID, limit int) ([]LeaderboardEntry, error) {
	enrollments, err := s.classroomRepo.ListEnrollments(classroomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	leaderboard := make([]LeaderboardEntry, 0, len(enrollments))
	for _, e := range enrollments {
		leaderboard = append(leaderboard, LeaderboardEntry{
			Username: e.Student.Username,
			Points:   e.Points,
		})
	}
	return leaderboard, nil
}
