package main

import (
	"fmt"
	"log"

	"github.com/techwithrichard/smart-student-display/internal/config"
	"github.com/techwithrichard/smart-student-display/internal/handlers"
	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"
	"github.com/techwithrichard/smart-student-display/internal/services"
	"github.com/techwithrichard/smart-student-display/pkg/database"
	"github.com/techwithrichard/smart-student-display/pkg/mailer"
	"github.com/techwithrichard/smart-student-display/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Инициализируем файловое хранилище
	store, err := storage.NewStorage(cfg.UploadPath, cfg.ScreenshotPath, cfg.MaxFileSize)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Почтовый транспорт: Sendgrid при заданном ключе, иначе консоль
	var mail mailer.Mailer
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.FromEmail)
	} else {
		mail = mailer.NewConsoleMailer()
	}

	// Создаем репозитории
	userRepo := repository.NewUserRepository(db.DB)
	classroomRepo := repository.NewClassroomRepository(db.DB)
	projectRepo := repository.NewProjectRepository(db.DB)
	challengeRepo := repository.NewChallengeRepository(db.DB)
	assignmentRepo := repository.NewAssignmentRepository(db.DB)
	shareRepo := repository.NewShareRepository(db.DB)

	// Создаем сервисы
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	classroomService := services.NewClassroomService(classroomRepo, userRepo)
	assignmentService := services.NewAssignmentService(assignmentRepo, classroomRepo, projectRepo)
	uploadService := services.NewUploadService(projectRepo, classroomRepo, assignmentRepo, store, cfg.AllowedExtensions, cfg.AllowedImageExtensions)
	accessService := services.NewAccessService(classroomRepo, shareRepo)
	challengeService := services.NewChallengeService(challengeRepo, classroomRepo, projectRepo)
	shareService := services.NewShareService(shareRepo, projectRepo, classroomRepo, userRepo, mail, cfg.BaseURL)

	// Создаем обработчики
	authHandler := handlers.NewAuthHandler(authService)
	classroomHandler := handlers.NewClassroomHandler(classroomService, assignmentService)
	projectHandler := handlers.NewProjectHandler(uploadService, accessService, projectRepo, store)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	shareHandler := handlers.NewShareHandler(shareService, store)

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Middleware
	router.Use(handlers.CORSMiddleware())

	// Публичные маршруты: регистрация, вход и доступ по коду
	router.POST("/api/register", authHandler.Register)
	router.POST("/api/login", authHandler.Login)
	router.POST("/api/logout", authHandler.Logout)
	router.GET("/shared/:code", shareHandler.ViewShared)
	router.GET("/shared/:code/files/*filepath", shareHandler.ServeSharedFile)

	// Защищенные маршруты
	api := router.Group("/api")
	api.Use(handlers.AuthMiddleware(authService))
	{
		api.GET("/profile", authHandler.GetProfile)
		api.PUT("/profile/parent-email", authHandler.UpdateParentEmail)

		// Классы
		api.POST("/classrooms", handlers.RequireRoles(models.RoleTeacher, models.RoleStaff, models.RoleAdmin), classroomHandler.CreateClassroom)
		api.GET("/classrooms", classroomHandler.ListClassrooms)
		api.GET("/classrooms/:id", classroomHandler.GetClassroom)
		api.POST("/classrooms/join", handlers.RequireRoles(models.RoleStudent), classroomHandler.JoinClassroom)
		api.DELETE("/classrooms/:id/students/:studentId", classroomHandler.RemoveStudent)

		// Предметы и задания
		api.POST("/classrooms/:id/subjects", handlers.RequireRoles(models.RoleTeacher, models.RoleStaff, models.RoleAdmin), classroomHandler.CreateSubject)
		api.GET("/classrooms/:id/subjects", classroomHandler.ListSubjects)
		api.POST("/subjects/:id/assignments", handlers.RequireRoles(models.RoleTeacher, models.RoleStaff, models.RoleAdmin), classroomHandler.CreateAssignment)
		api.GET("/subjects/:id/assignments", classroomHandler.ListAssignments)
		api.GET("/assignments/:id/submissions", classroomHandler.ListSubmissions)

		// Челленджи
		api.POST("/classrooms/:id/challenges", handlers.RequireRoles(models.RoleTeacher, models.RoleStaff, models.RoleAdmin), challengeHandler.CreateChallenge)
		api.GET("/classrooms/:id/challenges", challengeHandler.ListChallenges)
		api.POST("/challenges/:id/submit", handlers.RequireRoles(models.RoleStudent), challengeHandler.SubmitChallenge)

		// Проекты
		upload := api.Group("/")
		upload.Use(handlers.MaxBodySize(cfg.MaxFileSize))
		upload.POST("/projects", handlers.RequireRoles(models.RoleStudent), projectHandler.Upload)

		api.GET("/projects/:id", projectHandler.GetProject)
		api.POST("/projects/:id/like", projectHandler.Like)
		api.GET("/projects/:id/files/*filepath", projectHandler.ServeFile)
		api.GET("/projects/:id/code/*filepath", projectHandler.ViewCode)
		api.GET("/projects/:id/screenshot", projectHandler.Screenshot)
		api.PUT("/projects/:id/settings", projectHandler.UpdateSettings)
		api.DELETE("/projects/:id", handlers.RequireRoles(models.RoleAdmin), projectHandler.Delete)

		// Коды доступа и уведомления родителей
		api.POST("/projects/:id/share", handlers.RequireRoles(models.RoleTeacher, models.RoleStaff, models.RoleAdmin), shareHandler.GenerateCode)
		api.POST("/projects/:id/email", handlers.RequireRoles(models.RoleTeacher, models.RoleStaff, models.RoleAdmin), shareHandler.EmailProject)
		api.POST("/classrooms/:id/notify-parents", handlers.RequireRoles(models.RoleTeacher, models.RoleStaff, models.RoleAdmin), shareHandler.NotifyParents)
		api.GET("/notifications", handlers.RequireRoles(models.RoleParent), shareHandler.ListNotifications)
		api.POST("/notifications/:id/read", handlers.RequireRoles(models.RoleParent), shareHandler.MarkNotificationRead)
	}

	// Запускаем сервер
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Starting classhub server on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
