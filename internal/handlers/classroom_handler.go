package handlers

import (
	"net/http"

	"github.com/techwithrichard/smart-student-display/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClassroomHandler представляет обработчик классов
type ClassroomHandler struct {
	classroomService  *services.ClassroomService
	assignmentService *services.AssignmentService
}

// NewClassroomHandler создает новый обработчик классов
func NewClassroomHandler(classroomService *services.ClassroomService, assignmentService *services.AssignmentService) *ClassroomHandler {
	return &ClassroomHandler{
		classroomService:  classroomService,
		assignmentService: assignmentService,
	}
}

// CreateClassroomRequest представляет запрос на создание класса
type CreateClassroomRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code"`
}

// CreateClassroom создает класс (только для преподавателя)
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.classroomService.CreateClassroom(user, req.Name, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, classroom)
}

// ListClassrooms возвращает классы текущего пользователя
func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	classrooms, err := h.classroomService.ListClassrooms(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classrooms)
}

// GetClassroom возвращает класс с таблицей лидеров
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom ID"})
		return
	}

	classroom, err := h.classroomService.GetClassroom(classroomID)
	if err != nil {
		respondError(c, err)
		return
	}

	leaderboard, err := h.classroomService.Leaderboard(classroomID, 10)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classroom":   classroom,
		"leaderboard": leaderboard,
	})
}

// JoinClassroom записывает ученика в класс по коду
func (h *ClassroomHandler) JoinClassroom(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.classroomService.JoinClassroom(user, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classroom)
}

// RemoveStudent удаляет ученика из класса
func (h *ClassroomHandler) RemoveStudent(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom ID"})
		return
	}
	studentID, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	if err := h.classroomService.RemoveStudent(user, classroomID, studentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// CreateSubject создает предмет в классе
func (h *ClassroomHandler) CreateSubject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom ID"})
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.assignmentService.CreateSubject(user, classroomID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

// ListSubjects возвращает предметы класса
func (h *ClassroomHandler) ListSubjects(c *gin.Context) {
	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom ID"})
		return
	}

	subjects, err := h.assignmentService.ListSubjects(classroomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

// CreateAssignmentRequest представляет запрос на создание задания
type CreateAssignmentRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Deadline    string `json:"deadline" binding:"required"`
}

// CreateAssignment создает задание по предмету
func (h *ClassroomHandler) CreateAssignment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID"})
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(user, subjectID, req.Title, req.Description, req.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments возвращает задания по предмету
func (h *ClassroomHandler) ListAssignments(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID"})
		return
	}

	assignments, err := h.assignmentService.ListAssignments(subjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// ListSubmissions возвращает сданные по заданию проекты с отставанием
func (h *ClassroomHandler) ListSubmissions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	projects, err := h.assignmentService.ListSubmissions(user, assignmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}
