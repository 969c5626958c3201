package storage

import (
	"archive/zip"
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	root := t.TempDir()
	store, err := NewStorage(filepath.Join(root, "uploads"), filepath.Join(root, "screenshots"), 16*1024*1024)
	require.NoError(t, err)
	return store
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func makeZipHeader(t *testing.T, name string, entries map[string]string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for entryName, content := range entries {
		fw, err := zw.Create(entryName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return makeFileHeader(t, name, buf.Bytes())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"index.html", "index.html"},
		{"my page.html", "my_page.html"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\boot.ini", "boot.ini"},
		{"dir/sub/file.css", "file.css"},
		{".hidden", "hidden"},
		{"répertoire.html", "r_pertoire.html"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestExtensionAllowed(t *testing.T) {
	allowed := []string{"html", "css", "js"}

	assert.True(t, ExtensionAllowed("index.html", allowed))
	assert.True(t, ExtensionAllowed("STYLE.CSS", allowed))
	assert.False(t, ExtensionAllowed("shell.php", allowed))
	assert.False(t, ExtensionAllowed("noextension", allowed))
	assert.False(t, ExtensionAllowed("", allowed))
}

func TestSaveSingleFile(t *testing.T) {
	store := newTestStorage(t)
	uploaderID := uuid.New()

	name, err := store.SaveSingleFile(makeFileHeader(t, "page.html", []byte("<html></html>")), uploaderID)
	require.NoError(t, err)

	assert.Contains(t, name, uploaderID.String())
	assert.Contains(t, name, "page.html")

	resolved, err := store.SingleFilePath(name)
	require.NoError(t, err)
	content, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(content))
}

func TestCreateProjectDirUnique(t *testing.T) {
	store := newTestStorage(t)
	uploaderID := uuid.New()

	first, err := store.CreateProjectDir(uploaderID)
	require.NoError(t, err)
	second, err := store.CreateProjectDir(uploaderID)
	require.NoError(t, err)

	// Одновременные загрузки одного пользователя не должны сталкиваться
	assert.NotEqual(t, first, second)
}

func TestExtractZipPreservesStructure(t *testing.T) {
	store := newTestStorage(t)
	dirName, err := store.CreateProjectDir(uuid.New())
	require.NoError(t, err)

	archive := makeZipHeader(t, "site.zip", map[string]string{
		"index.html":     "<html>home</html>",
		"css/style.css":  "body {}",
		"js/app.js":      "console.log(1)",
		"../escape.html": "<html>evil</html>",
	})
	require.NoError(t, store.SaveIntoDir(dirName, archive, "site.zip"))
	require.NoError(t, store.ExtractZip(dirName, "site.zip"))

	// Архив удален после распаковки
	_, err = store.ResolveProjectFile(dirName, "site.zip")
	assert.Error(t, err)

	_, err = store.ResolveProjectFile(dirName, "css/style.css")
	assert.NoError(t, err)

	// Элемент с родительским сегментом остался внутри директории проекта
	_, err = os.Stat(filepath.Join(store.basePath, "escape.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestFindMainFilePreference(t *testing.T) {
	store := newTestStorage(t)
	dirName, err := store.CreateProjectDir(uuid.New())
	require.NoError(t, err)

	dirPath := filepath.Join(store.basePath, dirName)
	for _, name := range []string{"about.html", "main.html", "index.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(dirPath, name), []byte("<html></html>"), 0644))
	}

	main, err := store.FindMainFile(dirName, "index.html", "main.html", "home.html")
	require.NoError(t, err)
	assert.Equal(t, "index.html", main)
}

func TestFindMainFileFallsBackToFirstHTML(t *testing.T) {
	store := newTestStorage(t)
	dirName, err := store.CreateProjectDir(uuid.New())
	require.NoError(t, err)

	dirPath := filepath.Join(store.basePath, dirName)
	require.NoError(t, os.MkdirAll(filepath.Join(dirPath, "pages"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dirPath, "pages", "deep.html"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dirPath, "zebra.html"), []byte("x"), 0644))

	main, err := store.FindMainFile(dirName, "index.html", "main.html", "home.html")
	require.NoError(t, err)

	// Менее глубокий файл выбирается раньше
	assert.Equal(t, "zebra.html", main)
}

func TestFindMainFileNoHTML(t *testing.T) {
	store := newTestStorage(t)
	dirName, err := store.CreateProjectDir(uuid.New())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(store.basePath, dirName, "style.css"), []byte("body {}"), 0644))

	_, err = store.FindMainFile(dirName, "index.html")
	assert.ErrorIs(t, err, ErrNoMainFile)
}

func TestResolveProjectFileTraversal(t *testing.T) {
	store := newTestStorage(t)
	dirName, err := store.CreateProjectDir(uuid.New())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.basePath, dirName, "index.html"), []byte("x"), 0644))

	// Путь с родительским сегментом отклоняется всегда
	denied := []string{
		"../../etc/passwd",
		"..",
		"sub/../../other/index.html",
		"/etc/passwd",
		"..\\..\\boot.ini",
		"",
	}
	for _, path := range denied {
		_, err := store.ResolveProjectFile(dirName, path)
		assert.ErrorIs(t, err, ErrInvalidPath, "path %q", path)
	}

	resolved, err := store.ResolveProjectFile(dirName, "index.html")
	require.NoError(t, err)
	assert.FileExists(t, resolved)
}

func TestRemoveProjectDir(t *testing.T) {
	store := newTestStorage(t)
	dirName, err := store.CreateProjectDir(uuid.New())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.basePath, dirName, "index.html"), []byte("x"), 0644))

	require.NoError(t, store.RemoveProjectDir(dirName))

	_, err = os.Stat(filepath.Join(store.basePath, dirName))
	assert.True(t, os.IsNotExist(err))
}
