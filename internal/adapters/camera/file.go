package camera

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the still from a JPEG on disk. Meant for
// development and tests, where no live camera is around.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Still(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading still %s: %w", s.path, err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("still %s is empty", s.path)
	}
	return frame, nil
}
