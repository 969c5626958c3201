package services

import (
	"fmt"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeService представляет сервис челленджей
type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	classroomRepo repository.ClassroomRepository
	projectRepo   repository.ProjectRepository
}

// NewChallengeService создает новый сервис челленджей
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	classroomRepo repository.ClassroomRepository,
	projectRepo repository.ProjectRepository,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		classroomRepo: classroomRepo,
		projectRepo:   projectRepo,
	}
}

// CreateChallenge создает челлендж в классе преподавателя
func (s *ChallengeService) CreateChallenge(teacher *models.User, classroomID uuid.UUID, title, description string, points int) (*models.Challenge, error) {
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if points <= 0 {
		points = 10
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

	challenge := &models.Challenge{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Points:      points,
		ClassroomID: classroomID,
	}
	if err := s.challengeRepo.Create(challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return challenge, nil
}

// ListChallenges получает челленджи класса
func (s *ChallengeService) ListChallenges(classroomID uuid.UUID) ([]models.Challenge, error) {
	return s.challengeRepo.ListByClassroom(classroomID)
}

// SubmitChallenge зачитывает проект ученика по челленджу и начисляет очки.
// Проект обязан принадлежать ученику и находиться в классе челленджа;
// повторный зачёт отклоняется и очков не меняет.
func (s *ChallengeService) SubmitChallenge(student *models.User, challengeID, projectID uuid.UUID) (*models.ChallengeSubmission, error) {
	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: challenge", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project.StudentID != student.ID || project.ClassroomID != challenge.ClassroomID {
		return nil, fmt.Errorf("%w: invalid project", ErrValidation)
	}

	// Не более одного зачёта на пару (челлендж, ученик)
	if _, err := s.challengeRepo.GetSubmission(challengeID, student.ID); err == nil {
		return nil, fmt.Errorf("%w: challenge already submitted", ErrValidation)
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check submission: %w", err)
	}

	enrollment, err := s.classroomRepo.GetEnrollment(challenge.ClassroomID, student.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: not enrolled in this classroom", ErrAccessDenied)
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	submission := &models.ChallengeSubmission{
		ID:            uuid.New(),
		ChallengeID:   challengeID,
		StudentID:     student.ID,
		ProjectID:     projectID,
		PointsAwarded: challenge.Points,
		SubmittedAt:   time.Now(),
	}
	if err := s.challengeRepo.CreateSubmission(submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	if err := s.classroomRepo.AddPoints(enrollment.ID, challenge.Points); err != nil {
		return nil, fmt.Errorf("failed to award points: %w", err)
	}

	return submission, nil
}
