package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportTTL is how long an undelivered report file may stay on disk.
const ReportTTL = time.Hour

// Cleanup removes report files in dir last modified more than maxAge before now.
// Files that vanish or cannot be removed are skipped.
func Cleanup(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read report dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExtension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// RunJanitor calls Cleanup on dir every interval until ctx is cancelled.
func RunJanitor(ctx context.Context, dir string, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			removed, err := Cleanup(dir, ReportTTL, now)
			if err != nil {
				logger.ErrorContext(ctx, "report cleanup failed", "dir", dir, "error", err)
				continue
			}
			if removed > 0 {
				logger.InfoContext(ctx, "removed stale reports", "dir", dir, "removed", removed)
			}
		}
	}
}
