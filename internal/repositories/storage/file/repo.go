package filerepo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const pkg = "fileRepo/"

type repository struct {
	basePath string
}

func NewRepository(basePath string) *repository {
	return &repository{basePath: basePath}
}

// SaveFile stores the blob under the document id and returns the location
// that gets recorded in the catalog. The content is never inspected.
func (r *repository) SaveFile(docID string, reader io.Reader) (string, error) {
	op := pkg + "SaveFile"

	if err := os.MkdirAll(r.basePath, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	location := filepath.Join(r.basePath, docID+".pdf")

	dst, err := os.Create(location)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		_ = os.Remove(location)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return location, nil
}

func (r *repository) LoadFile(location string) (io.ReadCloser, error) {
	op := pkg + "LoadFile"

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (r *repository) DeleteFile(location string) error {
	op := pkg + "DeleteFile"

	if err := os.Remove(location); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
