package services

import (
	"fmt"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentService представляет сервис предметов и заданий
type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	classroomRepo  repository.ClassroomRepository
	projectRepo    repository.ProjectRepository
}

// NewAssignmentService создает новый сервис заданий
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	classroomRepo repository.ClassroomRepository,
	projectRepo repository.ProjectRepository,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		classroomRepo:  classroomRepo,
		projectRepo:    projectRepo,
	}
}

// CreateSubject создает предмет в классе преподавателя
func (s *AssignmentService) CreateSubject(teacher *models.User, classroomID uuid.UUID, name string) (*models.Subject, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: subject name is required", ErrValidation)
	}

	classroom, err := s.classroomRepo.GetByID(classroomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: classroom", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load classroom: %w", err)
	}
	if classroom.TeacherID != teacher.ID && teacher.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not the classroom owner", ErrAccessDenied)
	}

	subject := &models.Subject{
		ID:          uuid.New(),
		Name:        name,
		ClassroomID: classroomID,
		TeacherID:   teacher.ID,
	}
	if err := s.assignmentRepo.CreateSubject(subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return subject, nil
}

// CreateAssignment создает задание по предмету.
// Дедлайн принимается строкой в формате RFC 3339 либо "2006-01-02 15:04".
func (s *AssignmentService) CreateAssignment(teacher *models.User, subjectID uuid.UUID, title, description, deadline string) (*models.Assignment, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	parsed, err := parseDeadline(deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed deadline", ErrValidation)
	}

	subject, err := s.assignmentRepo.GetSubjectByID(subjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: subject", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load subject: %w", err)
	}
	if subject.TeacherID != teacher.ID && teacher.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not the subject owner", ErrAccessDenied)
	}

	assignment := &models.Assignment{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		SubjectID:   subjectID,
		Deadline:    parsed,
	}
	if err := s.assignmentRepo.CreateAssignment(assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return assignment, nil
}

// ListSubjects получает предметы класса
func (s *AssignmentService) ListSubjects(classroomID uuid.UUID) ([]models.Subject, error) {
	return s.assignmentRepo.ListSubjectsByClassroom(classroomID)
}

// ListAssignments получает задания по предмету
func (s *AssignmentService) ListAssignments(subjectID uuid.UUID) ([]models.Assignment, error) {
	return s.assignmentRepo.ListAssignmentsBySubject(subjectID)
}

// ListSubmissions получает проекты, сданные по заданию; доступно
// преподавателю предмета
func (s *AssignmentService) ListSubmissions(teacher *models.User, assignmentID uuid.UUID) ([]models.Project, error) {
	assignment, err := s.assignmentRepo.GetAssignmentByID(assignmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	if assignment.Subject.TeacherID != teacher.ID && teacher.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not the subject owner", ErrAccessDenied)
	}
	return s.projectRepo.ListByAssignment(assignmentID)
}

// parseDeadline разбирает дедлайн в одном из принимаемых форматов
func parseDeadline(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04", value)
}

// FormatLateness описывает отставание сдачи от дедлайна.
// Сдача не позже дедлайна отставанием не считается; от суток
// сообщаются дни и остаток часов, от часа — часы, иначе минуты.
func FormatLateness(deadline, submitted time.Time) string {
	if !submitted.After(deadline) {
		return ""
	}

	elapsed := submitted.Sub(deadline)
	switch {
	case elapsed >= 24*time.Hour:
		days := int(elapsed.Hours()) / 24
		hours := int(elapsed.Hours()) % 24
		if hours == 0 {
			return fmt.Sprintf("%d %s late", days, plural(days, "day"))
		}
		return fmt.Sprintf("%d %s %d %s late", days, plural(days, "day"), hours, plural(hours, "hour"))
	case elapsed >= time.Hour:
		hours := int(elapsed.Hours())
		return fmt.Sprintf("%d %s late", hours, plural(hours, "hour"))
	default:
		minutes := int(elapsed.Minutes())
		return fmt.Sprintf("%d %s late", minutes, plural(minutes, "minute"))
	}
}

// plural выбирает форму существительного по числу
func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
