package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errBadFileType = errors.New("file type not allowed")

var allowedProofExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

const maxUploadSize = 10 << 20 // 10 MB

// mediaRoot resolves the base directory for uploaded files.
func mediaRoot() string {
	if root := os.Getenv("MEDIA_ROOT"); root != "" {
		return root
	}
	return "./media"
}

// saveUpload stores an uploaded file under a date-partitioned path and
// returns the path relative to the media root.
func saveUpload(c *fiber.Ctx, file *multipart.FileHeader, prefix string, allowed map[string]bool) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return "", errBadFileType
	}
	if file.Size > maxUploadSize {
		return "", errors.New("file too large: maximum 10MB")
	}

	relDir := filepath.Join(prefix, time.Now().Format("2006/01/02"))
	dir := filepath.Join(mediaRoot(), relDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	return filepath.ToSlash(filepath.Join(relDir, name)), nil
}
