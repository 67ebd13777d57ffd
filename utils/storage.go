package utils

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"arsippro/models"
)

// FileStore persists uploaded attachments on local disk and hands back the
// public URL they are served under. It replaces the Drive folder the legacy
// deployment used; files are world-readable by link just as the
// anyone-with-link sharing policy was.
type FileStore struct {
	Dir     string
	BaseURL string
}

func NewFileStore(dir, baseURL string) *FileStore {
	return &FileStore{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Save decodes the base64 payload and writes it under the store directory,
// which is created on first use. The stored name is prefixed with a UUID so
// repeated uploads of the same filename never clobber each other.
func (fs *FileStore) Save(payload *models.FilePayload) (string, error) {
	if payload == nil || payload.Content == "" {
		return "", fmt.Errorf("empty file payload")
	}

	content := payload.Content
	// Browsers commonly send data URLs; keep only the base64 part.
	if idx := strings.Index(content, ";base64,"); idx != -1 {
		content = content[idx+len(";base64,"):]
	}

	decoded, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", fmt.Errorf("invalid base64 content: %w", err)
	}

	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + "_" + sanitizeFilename(payload.Name)
	path := filepath.Join(fs.Dir, name)
	if err := os.WriteFile(path, decoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"file": name,
		"size": len(decoded),
		"mime": payload.MimeType,
	}).Info("Stored uploaded attachment")

	return fs.BaseURL + "/files/" + name, nil
}

// Exists reports whether the given stored file name is still present.
func (fs *FileStore) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(fs.Dir, name))
	return err == nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "file"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
