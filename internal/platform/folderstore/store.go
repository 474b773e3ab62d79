package folderstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

const vectorStoreDir = "vector_store"

var ErrInvalidName = errors.New("invalid name")

// Store keeps one directory per user under BaseDir.
type Store interface {
	BaseDir() string
	FolderPath(folder string) (string, error)
	CreateFolder(ctx context.Context, folder string) error
	RemoveFolder(ctx context.Context, folder string) error
	SaveFile(ctx context.Context, folder, filename string, r io.Reader) (path string, size int64, err error)
	DeleteFile(ctx context.Context, path string) error
}

type store struct {
	log     *logger.Logger
	baseDir string
}

func New(log *logger.Logger, baseDir string) (Store, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir: %w", err)
	}
	return &store{log: log.With("service", "FolderStore"), baseDir: abs}, nil
}

func (s *store) BaseDir() string { return s.baseDir }

func (s *store) FolderPath(folder string) (string, error) {
	if !validName(folder) {
		return "", fmt.Errorf("folder %q: %w", folder, ErrInvalidName)
	}
	return filepath.Join(s.baseDir, folder), nil
}

// CreateFolder makes <base>/<folder> and its vector_store subdirectory.
func (s *store) CreateFolder(ctx context.Context, folder string) error {
	dir, err := s.FolderPath(folder)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, vectorStoreDir), 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", folder, err)
	}
	return nil
}

func (s *store) RemoveFolder(ctx context.Context, folder string) error {
	dir, err := s.FolderPath(folder)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove folder %s: %w", folder, err)
	}
	return nil
}

// SaveFile streams r to <base>/<folder>/<filename>, replacing any existing file atomically.
func (s *store) SaveFile(ctx context.Context, folder, filename string, r io.Reader) (string, int64, error) {
	dir, err := s.FolderPath(folder)
	if err != nil {
		return "", 0, err
	}
	name := CleanFilename(filename)
	if name == "" {
		return "", 0, fmt.Errorf("filename %q: %w", filename, ErrInvalidName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create folder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	n, err := io.Copy(tmp, readerWithContext{ctx: ctx, r: r})
	if err != nil {
		_ = tmp.Close()
		cleanup()
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", 0, fmt.Errorf("close file: %w", err)
	}
	dst := filepath.Join(dir, name)
	if err := os.Rename(tmpName, dst); err != nil {
		cleanup()
		return "", 0, fmt.Errorf("install file: %w", err)
	}
	return dst, n, nil
}

// DeleteFile removes a file under BaseDir. A missing file is not an error.
func (s *store) DeleteFile(ctx context.Context, path string) error {
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q outside base dir: %w", path, ErrInvalidName)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// CleanFilename keeps only the base name of an uploaded filename. Returns "" when nothing usable is left.
func CleanFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimSpace(filepath.Base(name))
	if !validName(name) {
		return ""
	}
	return name
}

// ContentType guesses the MIME type from the extension, then from the client header.
func ContentType(filename, header string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	if ct := strings.TrimSpace(header); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func validName(name string) bool {
	n := strings.TrimSpace(name)
	return n != "" && n != "." && n != ".." && n != "/" && !strings.ContainsAny(n, "/\\\x00")
}

type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (r readerWithContext) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
