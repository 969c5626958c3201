package services

import (
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"
	"github.com/techwithrichard/smart-student-display/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadType определяет форму загрузки html-проекта
type UploadType string

const (
	UploadTypeSingle   UploadType = "single"
	UploadTypeMultiple UploadType = "multiple"
	UploadTypeZip      UploadType = "zip"
)

// CreateProjectInput представляет запрос на загрузку проекта
type CreateProjectInput struct {
	Title       string
	Description string
	Type        models.ProjectType
	UploadType  UploadType

	// File — одиночный файл либо архив, Files — набор именованных файлов
	File  *multipart.FileHeader
	Files []*multipart.FileHeader

	ScratchLink string
	Screenshot  *multipart.FileHeader

	ClassroomID     uuid.UUID
	SubjectID       *uuid.UUID
	AssignmentID    *uuid.UUID
	TaggedTeacherID *uuid.UUID
	Visibility      models.ProjectVisibility
}

// UploadResult представляет результат загрузки проекта
type UploadResult struct {
	Project *models.Project `json:"project"`
	// Lateness — отставание от дедлайна задания; только для отображения,
	// опоздание не мешает принятию работы
	Lateness string `json:"lateness,omitempty"`
}

// UploadService превращает запрос на загрузку в проверенный и сохраненный
// проект либо отклоняет его с конкретной причиной
type UploadService interface {
	CreateProject(student *models.User, input *CreateProjectInput) (*UploadResult, error)
}

type uploadService struct {
	projectRepo    repository.ProjectRepository
	classroomRepo  repository.ClassroomRepository
	assignmentRepo repository.AssignmentRepository
	store          *storage.Storage
	allowedExts    []string
	allowedImages  []string
}

// NewUploadService создает новый сервис загрузки проектов
func NewUploadService(
	projectRepo repository.ProjectRepository,
	classroomRepo repository.ClassroomRepository,
	assignmentRepo repository.AssignmentRepository,
	store *storage.Storage,
	allowedExts []string,
	allowedImages []string,
) UploadService {
	return &uploadService{
		projectRepo:    projectRepo,
		classroomRepo:  classroomRepo,
		assignmentRepo: assignmentRepo,
		store:          store,
		allowedExts:    allowedExts,
		allowedImages:  allowedImages,
	}
}

// CreateProject выполняет конвейер загрузки: проверка, сохранение файлов,
// запись метаданных. Любой отказ после создания директории удаляет ее
// вместе с содержимым — частичное состояние не остается.
func (s *uploadService) CreateProject(student *models.User, input *CreateProjectInput) (*UploadResult, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	project := &models.Project{
		ID:              uuid.New(),
		Title:           input.Title,
		Description:     input.Description,
		Type:            input.Type,
		StudentID:       student.ID,
		ClassroomID:     input.ClassroomID,
		SubjectID:       input.SubjectID,
		TaggedTeacherID: input.TaggedTeacherID,
		Visibility:      input.Visibility,
	}
	if project.Visibility == "" {
		project.Visibility = models.VisibilityClassroom
	}

	var lateness string

	// Если загрузка сдается по заданию, класс и предмет берутся из задания,
	// а не из присланного поля
	if input.AssignmentID != nil {
		assignment, err := s.assignmentRepo.GetAssignmentByID(*input.AssignmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("%w: assignment", ErrNotFound)
			}
			return nil, fmt.Errorf("failed to load assignment: %w", err)
		}

		now := time.Now()
		project.AssignmentID = input.AssignmentID
		project.SubjectID = &assignment.SubjectID
		project.ClassroomID = assignment.Subject.ClassroomID
		project.SubmittedAt = &now
		lateness = FormatLateness(assignment.Deadline, now)
	}

	// Загружать можно только в класс, где ученик состоит
	if _, err := s.classroomRepo.GetEnrollment(project.ClassroomID, student.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: not enrolled in this classroom", ErrAccessDenied)
		}
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	switch input.Type {
	case models.ProjectTypeScratch:
		if strings.TrimSpace(input.ScratchLink) == "" {
			return nil, fmt.Errorf("%w: scratch link is required", ErrValidation)
		}
		project.ScratchLink = strings.TrimSpace(input.ScratchLink)

	case models.ProjectTypeHTML:
		if err := s.storeHTML(student, input, project); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: unknown project type", ErrValidation)
	}

	// Скриншот необязателен: неподходящий файл молча игнорируется
	s.storeScreenshot(student, input.Screenshot, project)

	if err := s.projectRepo.Create(project); err != nil {
		s.cleanup(project)
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &UploadResult{Project: project, Lateness: lateness}, nil
}

// storeHTML сохраняет файлы html-проекта согласно форме загрузки
func (s *uploadService) storeHTML(student *models.User, input *CreateProjectInput, project *models.Project) error {
	switch input.UploadType {
	case UploadTypeSingle:
		return s.storeSingle(student, input.File, project)
	case UploadTypeMultiple:
		return s.storeMultiple(student, input.Files, project)
	case UploadTypeZip:
		return s.storeZip(student, input.File, project)
	default:
		return fmt.Errorf("%w: unknown upload type", ErrValidation)
	}
}

// storeSingle сохраняет одиночный файл проекта
func (s *uploadService) storeSingle(student *models.User, file *multipart.FileHeader, project *models.Project) error {
	if file == nil || file.Filename == "" {
		return fmt.Errorf("%w: no file selected", ErrValidation)
	}
	if !storage.ExtensionAllowed(file.Filename, s.allowedExts) {
		return fmt.Errorf("%w: file type not allowed", ErrValidation)
	}

	fileName, err := s.store.SaveSingleFile(file, student.ID)
	if err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}

	project.FilePath = fileName
	return nil
}

// storeMultiple сохраняет набор именованных файлов в директории проекта.
// Главным файлом становится index.html, иначе первый сохраненный html.
func (s *uploadService) storeMultiple(student *models.User, files []*multipart.FileHeader, project *models.Project) error {
	named := 0
	for _, f := range files {
		if f != nil && f.Filename != "" {
			named++
		}
	}
	if named == 0 {
		return fmt.Errorf("%w: no files selected", ErrValidation)
	}

	dirName, err := s.store.CreateProjectDir(student.ID)
	if err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	mainFile := ""
	for _, f := range files {
		if f == nil || f.Filename == "" {
			continue
		}
		if !storage.ExtensionAllowed(f.Filename, s.allowedExts) {
			continue
		}

		storedName := storage.SanitizeFilename(f.Filename)
		if storedName == "" {
			continue
		}
		if err := s.store.SaveIntoDir(dirName, f, storedName); err != nil {
			s.removeDir(dirName)
			return fmt.Errorf("failed to store file: %w", err)
		}

		if storedName == "index.html" {
			mainFile = storedName
		} else if mainFile == "" && strings.HasSuffix(strings.ToLower(storedName), ".html") {
			mainFile = storedName
		}
	}

	if mainFile == "" {
		s.removeDir(dirName)
		return fmt.Errorf("%w: at least one html file is required", ErrValidation)
	}

	project.ProjectDir = dirName
	project.MainFile = mainFile
	return nil
}

// storeZip сохраняет архив в директорию проекта, распаковывает его
// и выбирает главный файл обходом распакованного дерева
func (s *uploadService) storeZip(student *models.User, file *multipart.FileHeader, project *models.Project) error {
	if file == nil || file.Filename == "" {
		return fmt.Errorf("%w: no file selected", ErrValidation)
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".zip") {
		return fmt.Errorf("%w: a zip archive is required", ErrValidation)
	}

	dirName, err := s.store.CreateProjectDir(student.ID)
	if err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	archiveName := storage.SanitizeFilename(file.Filename)
	if err := s.store.SaveIntoDir(dirName, file, archiveName); err != nil {
		s.removeDir(dirName)
		return fmt.Errorf("failed to store archive: %w", err)
	}

	if err := s.store.ExtractZip(dirName, archiveName); err != nil {
		s.removeDir(dirName)
		return fmt.Errorf("failed to extract archive: %w", err)
	}

	mainFile, err := s.store.FindMainFile(dirName, "index.html", "main.html", "home.html")
	if err != nil {
		s.removeDir(dirName)
		if err == storage.ErrNoMainFile {
			return fmt.Errorf("%w: archive contains no html files", ErrValidation)
		}
		return fmt.Errorf("failed to select main file: %w", err)
	}

	project.ProjectDir = dirName
	project.MainFile = mainFile
	return nil
}

// storeScreenshot сохраняет скриншот, если он приложен и допустим.
// Отсутствие или негодность скриншота не является причиной отказа.
func (s *uploadService) storeScreenshot(student *models.User, file *multipart.FileHeader, project *models.Project) {
	if file == nil || file.Filename == "" {
		return
	}
	if !storage.ExtensionAllowed(file.Filename, s.allowedImages) {
		return
	}

	fileName, err := s.store.SaveScreenshot(file, student.ID)
	if err != nil {
		log.Printf("Failed to store screenshot: %v", err)
		return
	}
	project.Screenshot = fileName
}

// cleanup удаляет сохраненные файлы проекта после отказа записи
func (s *uploadService) cleanup(project *models.Project) {
	if project.ProjectDir != "" {
		s.removeDir(project.ProjectDir)
	}
	if project.FilePath != "" {
		if err := s.store.DeleteSingleFile(project.FilePath); err != nil {
			log.Printf("Failed to remove file %s: %v", project.FilePath, err)
		}
	}
}

// removeDir удаляет директорию проекта, логируя неудачу
func (s *uploadService) removeDir(dirName string) {
	if err := s.store.RemoveProjectDir(dirName); err != nil {
		log.Printf("Failed to remove project directory %s: %v", dirName, err)
	}
}
