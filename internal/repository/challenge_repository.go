package repository

import (
	"github.com/techwithrichard/smart-student-display/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeRepository интерфейс для работы с челленджами
type ChallengeRepository interface {
	Create(challenge *models.Challenge) error
	GetByID(id uuid.UUID) (*models.Challenge, error)
	ListByClassroom(classroomID uuid.UUID) ([]models.Challenge, error)

	CreateSubmission(submission *models.ChallengeSubmission) error
	GetSubmission(challengeID, studentID uuid.UUID) (*models.ChallengeSubmission, error)
	ListSubmissions(challengeID uuid.UUID) ([]models.ChallengeSubmission, error)
}

// challengeRepository реализация репозитория челленджей
type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository создает новый репозиторий челленджей
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

// Create создает новый челлендж
func (r *challengeRepository) Create(challenge *models.Challenge) error {
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	return r.db.Create(challenge).Error
}

// GetByID получает челлендж по ID
func (r *challengeRepository) GetByID(id uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.First(&challenge, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// ListByClassroom получает челленджи класса
func (r *challengeRepository) ListByClassroom(classroomID uuid.UUID) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.Where("classroom_id = ?", classroomID).Order("created_at DESC").Find(&challenges).Error
	return challenges, err
}

// CreateSubmission создает зачёт по челленджу
func (r *challengeRepository) CreateSubmission(submission *models.ChallengeSubmission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	return r.db.Create(submission).Error
}

// GetSubmission получает зачёт по паре (челлендж, ученик)
func (r *challengeRepository) GetSubmission(challengeID, studentID uuid.UUID) (*models.ChallengeSubmission, error) {
	var submission models.ChallengeSubmission
	err := r.db.Where("challenge_id = ? AND student_id = ?", challengeID, studentID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListSubmissions получает зачёты по челленджу
func (r *challengeRepository) ListSubmissions(challengeID uuid.UUID) ([]models.ChallengeSubmission, error) {
	var submissions []models.ChallengeSubmission
	err := r.db.Preload("Student").Preload("Project").
		Where("challenge_id = ?", challengeID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}
