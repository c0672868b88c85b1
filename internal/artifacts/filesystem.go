package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kestrel-systems/kestrel-collector/internal/models"
)

// FilesystemStore writes artifacts under
// <base>/<projectID>/<release>/<file>. Path segments coming from the wire
// are sanitized so uploads cannot escape the base directory.
type FilesystemStore struct {
	base string
}

func NewFilesystemStore(base string) (*FilesystemStore, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &FilesystemStore{base: base}, nil
}

func (s *FilesystemStore) Save(ctx context.Context, upload *models.SourcemapUpload) error {
	dir := filepath.Join(s.base, sanitizeSegment(upload.ProjectID), sanitizeSegment(upload.Release))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create release directory: %w", err)
	}

	for _, f := range upload.Files {
		path := filepath.Join(dir, sanitizeSegment(f.Name))
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return fmt.Errorf("write artifact %s: %w", f.Name, err)
		}
	}
	return nil
}

// sanitizeSegment strips anything that could traverse out of the base dir.
func sanitizeSegment(s string) string {
	s = strings.ReplaceAll(s, string(os.PathSeparator), "_")
	s = strings.ReplaceAll(s, "..", "_")
	s = strings.TrimLeft(s, ".")
	if s == "" {
		s = "_"
	}
	return s
}
