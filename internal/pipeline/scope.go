package pipeline

import (
	"context"
	"os"
	"sync"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
)

// resourceScope remembers the local artifacts of one run and removes them on release.
type resourceScope struct {
	mu     sync.Mutex
	files  []string
	dirs   []string
	logger logger.Logger
}

func newResourceScope(log logger.Logger) *resourceScope {
	return &resourceScope{logger: log}
}

func (s *resourceScope) trackFile(path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	s.files = append(s.files, path)
	s.mu.Unlock()
}

func (s *resourceScope) trackDir(dir string) {
	if dir == "" {
		return
	}
	s.mu.Lock()
	s.dirs = append(s.dirs, dir)
	s.mu.Unlock()
}

// release removes everything tracked, newest first. Failures are cleanup warnings only.
func (s *resourceScope) release(ctx context.Context) {
	s.mu.Lock()
	files, dirs := s.files, s.dirs
	s.files, s.dirs = nil, nil
	s.mu.Unlock()

	for i := len(files) - 1; i >= 0; i-- {
		s.removeFile(ctx, files[i])
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.RemoveAll(dirs[i]); err != nil {
			s.logger.Warn(ctx, "CleanupWarning: failed to remove dir %s: %v", dirs[i], err)
		} else {
			s.logger.Debug(ctx, "Cleaned up dir: %s", dirs[i])
		}
	}
}

// removeFile removes a temporary file, logs warning if fails
func (s *resourceScope) removeFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return
		}
		s.logger.Warn(ctx, "CleanupWarning: failed to remove %s: %v", path, err)
	} else {
		s.logger.Debug(ctx, "Cleaned up temp file: %s", path)
	}
}
