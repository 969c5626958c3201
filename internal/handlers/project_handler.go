package handlers

import (
	"net/http"
	"strings"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"
	"github.com/techwithrichard/smart-student-display/internal/services"
	"github.com/techwithrichard/smart-student-display/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler представляет обработчик проектов
type ProjectHandler struct {
	uploadService services.UploadService
	accessService services.AccessService
	projectRepo   repository.ProjectRepository
	store         *storage.Storage
}

// NewProjectHandler создает новый обработчик проектов
func NewProjectHandler(
	uploadService services.UploadService,
	accessService services.AccessService,
	projectRepo repository.ProjectRepository,
	store *storage.Storage,
) *ProjectHandler {
	return &ProjectHandler{
		uploadService: uploadService,
		accessService: accessService,
		projectRepo:   projectRepo,
		store:         store,
	}
}

// Upload принимает загрузку проекта (multipart-форма)
func (h *ProjectHandler) Upload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	input := &services.CreateProjectInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Type:        models.ProjectType(c.PostForm("project_type")),
		UploadType:  services.UploadType(c.PostForm("upload_type")),
		ScratchLink: c.PostForm("scratch_link"),
		Visibility:  models.ProjectVisibility(c.PostForm("visibility")),
	}

	classroomID, err := uuid.Parse(c.PostForm("classroom_id"))
	if err == nil {
		input.ClassroomID = classroomID
	}
	if v := c.PostForm("assignment_id"); v != "" {
		assignmentID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
			return
		}
		input.AssignmentID = &assignmentID
	}
	if v := c.PostForm("tagged_teacher_id"); v != "" {
		teacherID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teacher ID"})
			return
		}
		input.TaggedTeacherID = &teacherID
	}

	if file, err := c.FormFile("file"); err == nil {
		input.File = file
	}
	if form, err := c.MultipartForm(); err == nil {
		input.Files = form.File["files"]
	}
	if screenshot, err := c.FormFile("screenshot"); err == nil {
		input.Screenshot = screenshot
	}

	result, err := h.uploadService.CreateProject(user, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetProject возвращает проект; просмотр засчитывается отдельным шагом
// уже после разрешения доступа, один раз на обращение
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, project, ok := h.resolveAccess(c)
	if !ok {
		return
	}
	_ = user

	if err := h.projectRepo.IncrementViews(project.ID); err != nil {
		respondError(c, err)
		return
	}
	project.Views++

	c.JSON(http.StatusOK, project)
}

// Like увеличивает счетчик лайков проекта
func (h *ProjectHandler) Like(c *gin.Context) {
	_, project, ok := h.resolveAccess(c)
	if !ok {
		return
	}

	if err := h.projectRepo.IncrementLikes(project.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "liked"})
}

// ServeFile отдает файл проекта. Путь проверяется заново при каждом
// обращении: родительские сегменты и выход за директорию проекта
// отклоняются независимо от роли и видимости.
func (h *ProjectHandler) ServeFile(c *gin.Context) {
	_, project, ok := h.resolveAccess(c)
	if !ok {
		return
	}

	resolved, err := resolveProjectPath(h.store, project, c.Param("filepath"))
	if err != nil {
		if err == storage.ErrInvalidPath {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.File(resolved)
}

// ViewCode отдает исходный текст файла проекта для просмотра кода
func (h *ProjectHandler) ViewCode(c *gin.Context) {
	_, project, ok := h.resolveAccess(c)
	if !ok {
		return
	}

	resolved, err := resolveProjectPath(h.store, project, c.Param("filepath"))
	if err != nil {
		if err == storage.ErrInvalidPath {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.File(resolved)
}

// Screenshot отдает скриншот проекта
func (h *ProjectHandler) Screenshot(c *gin.Context) {
	_, project, ok := h.resolveAccess(c)
	if !ok {
		return
	}
	if project.Screenshot == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	resolved, err := h.store.ScreenshotPath(project.Screenshot)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(resolved)
}

// UpdateSettingsRequest представляет запрос на изменение настроек проекта
type UpdateSettingsRequest struct {
	Visibility      string `json:"visibility"`
	TaggedTeacherID string `json:"tagged_teacher_id"`
}

// UpdateSettings меняет настройки проекта; доступно владельцу
// и администратору
func (h *ProjectHandler) UpdateSettings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	if !h.accessService.CanModify(project, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Visibility != "" {
		visibility := models.ProjectVisibility(req.Visibility)
		switch visibility {
		case models.VisibilityClassroom, models.VisibilityPublic,
			models.VisibilityPrivate, models.VisibilityParents:
			project.Visibility = visibility
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visibility"})
			return
		}
	}

	if req.TaggedTeacherID != "" {
		teacherID, err := uuid.Parse(req.TaggedTeacherID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teacher ID"})
			return
		}
		project.TaggedTeacherID = &teacherID
	}

	if err := h.projectRepo.Update(project); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Delete удаляет проект; только для администратора
func (h *ProjectHandler) Delete(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	if err := h.projectRepo.Delete(project.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// loadProject достает проект по параметру пути
func (h *ProjectHandler) loadProject(c *gin.Context) (*models.Project, bool) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return nil, false
	}

	project, err := h.projectRepo.GetByID(projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return nil, false
	}
	return project, true
}

// resolveAccess достает проект и проверяет доступ текущего пользователя.
// Закрытый проект для прямых обращений не отличим от отсутствующего.
func (h *ProjectHandler) resolveAccess(c *gin.Context) (*models.User, *models.Project, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, nil, false
	}

	project, ok := h.loadProject(c)
	if !ok {
		return nil, nil, false
	}

	allowed, err := h.accessService.CanAccess(project, user)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	if !allowed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return nil, nil, false
	}
	return user, project, true
}

// resolveProjectPath проверяет запрошенный путь через общий примитив
// хранилища и возвращает абсолютный путь к файлу
func resolveProjectPath(store *storage.Storage, project *models.Project, requested string) (string, error) {
	requested = strings.TrimPrefix(requested, "/")

	if project.ProjectDir != "" {
		if requested == "" {
			requested = project.MainFile
		}
		return store.ResolveProjectFile(project.ProjectDir, requested)
	}

	// Legacy-проекты из одного файла
	if project.FilePath == "" {
		return "", storage.ErrInvalidPath
	}
	if requested != "" && requested != project.FilePath {
		return "", storage.ErrInvalidPath
	}
	return store.SingleFilePath(project.FilePath)
}
