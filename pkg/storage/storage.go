package storage

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrInvalidPath возвращается при попытке выхода за пределы директории проекта
var ErrInvalidPath = errors.New("invalid file path")

// ErrNoMainFile возвращается, когда в загрузке нет ни одного HTML-файла
var ErrNoMainFile = errors.New("no html file found in upload")

// Storage представляет файловое хранилище проектов и скриншотов
type Storage struct {
	basePath       string
	screenshotPath string
	maxFileSize    int64
}

// NewStorage создает новое файловое хранилище
func NewStorage(basePath, screenshotPath string, maxFileSize int64) (*Storage, error) {
	// Создаем корневые директории
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.MkdirAll(screenshotPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	return &Storage{
		basePath:       basePath,
		screenshotPath: screenshotPath,
		maxFileSize:    maxFileSize,
	}, nil
}

// SanitizeFilename очищает имя файла от управляющих символов пути.
// Остаются только буквы, цифры, точка, дефис и подчёркивание;
// компоненты пути отбрасываются.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	// Имя не должно начинаться с точек
	return strings.TrimLeft(b.String(), ".")
}

// ExtensionAllowed проверяет расширение файла по списку допустимых
func ExtensionAllowed(filename string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// SaveSingleFile сохраняет одиночный файл проекта.
// Имя выводится из загрузившего, метки времени и исходного имени,
// чтобы исключить коллизии. Возвращает имя сохранённого файла.
func (s *Storage) SaveSingleFile(file *multipart.FileHeader, uploaderID uuid.UUID) (string, error) {
	if file.Size > s.maxFileSize {
		return "", fmt.Errorf("file size exceeds maximum allowed size")
	}

	fileName := fmt.Sprintf("%s_%d_%s", uploaderID, time.Now().UnixNano(), SanitizeFilename(file.Filename))
	if err := s.writeMultipart(file, filepath.Join(s.basePath, fileName)); err != nil {
		return "", err
	}
	return fileName, nil
}

// CreateProjectDir создает директорию для многофайловой загрузки.
// Имя включает случайный суффикс: метки времени недостаточно при
// одновременных загрузках одного пользователя.
func (s *Storage) CreateProjectDir(uploaderID uuid.UUID) (string, error) {
	dirName := fmt.Sprintf("%s_%d_%s", uploaderID, time.Now().UnixNano(), uuid.New().String()[:8])
	if err := os.MkdirAll(filepath.Join(s.basePath, dirName), 0755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}
	return dirName, nil
}

// SaveIntoDir сохраняет файл под собственным именем внутри директории проекта
func (s *Storage) SaveIntoDir(dirName string, file *multipart.FileHeader, storedName string) error {
	if file.Size > s.maxFileSize {
		return fmt.Errorf("file size exceeds maximum allowed size")
	}
	return s.writeMultipart(file, filepath.Join(s.basePath, dirName, storedName))
}

// RemoveProjectDir удаляет директорию проекта вместе с содержимым.
// Вызывается при отказе загрузки, чтобы не оставлять частичного состояния.
func (s *Storage) RemoveProjectDir(dirName string) error {
	if dirName == "" {
		return nil
	}
	return os.RemoveAll(filepath.Join(s.basePath, dirName))
}

// ExtractZip распаковывает архив внутри директории проекта, сохраняя
// внутреннюю структуру, и удаляет сам архив. Каждый элемент архива
// проходит очистку имени и проверку принадлежности директории.
func (s *Storage) ExtractZip(dirName, archiveName string) error {
	dirPath := filepath.Join(s.basePath, dirName)
	archivePath := filepath.Join(dirPath, archiveName)

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	for _, entry := range reader.File {
		relPath := sanitizeArchivePath(entry.Name)
		if relPath == "" {
			continue
		}

		target := filepath.Join(dirPath, relPath)
		// Защита от zip-slip: элемент обязан остаться внутри директории
		if !pathContained(dirPath, target) {
			reader.Close()
			return fmt.Errorf("%w: %s", ErrInvalidPath, entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				reader.Close()
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			reader.Close()
			return fmt.Errorf("failed to create directory: %w", err)
		}

		src, err := entry.Open()
		if err != nil {
			reader.Close()
			return fmt.Errorf("failed to read archive entry: %w", err)
		}

		dst, err := os.Create(target)
		if err != nil {
			src.Close()
			reader.Close()
			return fmt.Errorf("failed to create file: %w", err)
		}

		_, err = io.Copy(dst, src)
		dst.Close()
		src.Close()
		if err != nil {
			reader.Close()
			return fmt.Errorf("failed to extract file: %w", err)
		}
	}

	if err := reader.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}

	// Архив больше не нужен
	if err := os.Remove(archivePath); err != nil {
		return fmt.Errorf("failed to remove archive: %w", err)
	}

	return nil
}

// FindMainFile выбирает главный файл проекта: сначала предпочтительные
// имена в порядке приоритета, затем первый HTML-файл при обходе в глубину.
// Возвращает путь относительно директории проекта.
func (s *Storage) FindMainFile(dirName string, preferred ...string) (string, error) {
	dirPath := filepath.Join(s.basePath, dirName)

	var htmlFiles []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".html") {
			rel, err := filepath.Rel(dirPath, path)
			if err != nil {
				return err
			}
			htmlFiles = append(htmlFiles, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan project directory: %w", err)
	}

	if len(htmlFiles) == 0 {
		return "", ErrNoMainFile
	}

	// filepath.Walk обходит в лексическом порядке; сортировка по глубине
	// даёт стабильный выбор "первого встреченного" файла
	sort.SliceStable(htmlFiles, func(i, j int) bool {
		di, dj := strings.Count(htmlFiles[i], "/"), strings.Count(htmlFiles[j], "/")
		if di != dj {
			return di < dj
		}
		return htmlFiles[i] < htmlFiles[j]
	})

	for _, name := range preferred {
		for _, f := range htmlFiles {
			if filepath.Base(f) == name {
				return f, nil
			}
		}
	}

	return htmlFiles[0], nil
}

// ResolveProjectFile проверяет относительный путь внутри директории проекта
// и возвращает абсолютный путь к файлу. Пути с родительскими сегментами или
// абсолютным префиксом отклоняются; принадлежность директории проверяется
// заново при каждом обращении.
func (s *Storage) ResolveProjectFile(dirName, relPath string) (string, error) {
	if dirName == "" || relPath == "" {
		return "", ErrInvalidPath
	}

	relPath = strings.ReplaceAll(relPath, "\\", "/")
	if strings.HasPrefix(relPath, "/") || filepath.IsAbs(relPath) {
		return "", ErrInvalidPath
	}
	for _, segment := range strings.Split(relPath, "/") {
		if segment == ".." {
			return "", ErrInvalidPath
		}
	}

	dirPath := filepath.Join(s.basePath, dirName)
	resolved := filepath.Clean(filepath.Join(dirPath, filepath.FromSlash(relPath)))
	if !pathContained(dirPath, resolved) {
		return "", ErrInvalidPath
	}

	if _, err := os.Stat(resolved); err != nil {
		return "", fmt.Errorf("file not found: %w", err)
	}

	return resolved, nil
}

// SingleFilePath возвращает абсолютный путь к одиночному файлу проекта
func (s *Storage) SingleFilePath(fileName string) (string, error) {
	if fileName == "" {
		return "", ErrInvalidPath
	}
	if SanitizeFilename(fileName) != fileName {
		return "", ErrInvalidPath
	}

	resolved := filepath.Join(s.basePath, fileName)
	if _, err := os.Stat(resolved); err != nil {
		return "", fmt.Errorf("file not found: %w", err)
	}
	return resolved, nil
}

// SaveScreenshot сохраняет скриншот проекта и создает миниатюру.
// Имя выводится из владельца, метки времени и исходного расширения.
func (s *Storage) SaveScreenshot(file *multipart.FileHeader, ownerID uuid.UUID) (string, error) {
	if file.Size > s.maxFileSize {
		return "", fmt.Errorf("file size exceeds maximum allowed size")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	fileName := fmt.Sprintf("%s_%d%s", ownerID, time.Now().UnixNano(), ext)
	filePath := filepath.Join(s.screenshotPath, fileName)

	if err := s.writeMultipart(file, filePath); err != nil {
		return "", err
	}

	if err := s.createThumbnail(filePath); err != nil {
		// Миниатюра вспомогательная, её отсутствие не отменяет загрузку
		fmt.Printf("Failed to create thumbnail: %v\n", err)
	}

	return fileName, nil
}

// ScreenshotPath возвращает абсолютный путь к скриншоту
func (s *Storage) ScreenshotPath(fileName string) (string, error) {
	if fileName == "" || SanitizeFilename(fileName) != fileName {
		return "", ErrInvalidPath
	}
	resolved := filepath.Join(s.screenshotPath, fileName)
	if _, err := os.Stat(resolved); err != nil {
		return "", fmt.Errorf("file not found: %w", err)
	}
	return resolved, nil
}

// DeleteSingleFile удаляет одиночный файл проекта
func (s *Storage) DeleteSingleFile(fileName string) error {
	if err := os.Remove(filepath.Join(s.basePath, fileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// createThumbnail создает миниатюру изображения
func (s *Storage) createThumbnail(filePath string) error {
	img, err := imaging.Open(filePath)
	if err != nil {
		return err
	}

	thumbnail := imaging.Resize(img, 300, 0, imaging.Lanczos)

	thumbPath := strings.Replace(filePath, filepath.Ext(filePath), "_thumb.jpg", 1)
	return imaging.Save(thumbnail, thumbPath, imaging.JPEGQuality(85))
}

// writeMultipart копирует загруженный файл на диск
func (s *Storage) writeMultipart(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	return nil
}

// sanitizeArchivePath очищает путь элемента архива посегментно,
// сохраняя структуру директорий
func sanitizeArchivePath(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")

	var segments []string
	for _, segment := range strings.Split(name, "/") {
		if segment == "" || segment == "." || segment == ".." {
			continue
		}
		if clean := SanitizeFilename(segment); clean != "" {
			segments = append(segments, clean)
		}
	}
	return strings.Join(segments, "/")
}

// pathContained проверяет, что resolved находится внутри base
func pathContained(base, resolved string) bool {
	base = filepath.Clean(base)
	resolved = filepath.Clean(resolved)
	return resolved == base || strings.HasPrefix(resolved, base+string(os.PathSeparator))
}
