package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port string
	Host string

	// Database
	DBPath string

	// File Storage
	UploadPath     string
	ScreenshotPath string
	MaxFileSize    int64
	// AllowedExtensions — расширения веб-ресурсов, допустимые при загрузке
	AllowedExtensions []string
	// AllowedImageExtensions — расширения, допустимые для скриншотов
	AllowedImageExtensions []string

	// Security
	JWTSecret     string
	JWTExpiration time.Duration

	// Mail
	SendgridAPIKey string
	FromEmail      string
	BaseURL        string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		Host:           getEnv("HOST", "0.0.0.0"),
		DBPath:         getEnv("DB_PATH", "data/classhub.db"),
		UploadPath:     getEnv("UPLOAD_PATH", "data/uploads"),
		ScreenshotPath: getEnv("SCREENSHOT_PATH", "data/screenshots"),
		JWTSecret:      getEnv("JWT_SECRET", "classhub_secret_key"),
		JWTExpiration:  24 * time.Hour,
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FromEmail:      getEnv("FROM_EMAIL", "noreply@classhub.local"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		AllowedExtensions: splitList(getEnv("ALLOWED_EXTENSIONS",
			"html,htm,css,js,png,jpg,jpeg,gif,svg,webp,ico,json,txt")),
		AllowedImageExtensions: splitList(getEnv("ALLOWED_IMAGE_EXTENSIONS",
			"png,jpg,jpeg,gif,webp")),
	}

	// Парсим числовые значения
	if maxFileSize, err := strconv.ParseInt(getEnv("MAX_FILE_SIZE", "16777216"), 10, 64); err == nil {
		config.MaxFileSize = maxFileSize
	} else {
		config.MaxFileSize = 16 * 1024 * 1024 // 16MB по умолчанию
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList разбирает список значений, разделённых запятыми
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, strings.ToLower(p))
		}
	}
	return result
}
