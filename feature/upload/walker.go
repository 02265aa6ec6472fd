package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"blob-uploader/core/storage"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes a directory walk.
type Stats struct {
	Directories int   `json:"directories"`
	Files       int   `json:"files"`
	Bytes       int64 `json:"bytes"`
	// Conflicts counts uploads the store answered with 409.
	Conflicts int `json:"conflicts"`
	// Skipped counts symbolic links and special files.
	Skipped int `json:"skipped"`
}

// Walker mirrors a local directory tree into blob names under one container.
type Walker struct {
	client      storage.Client
	fs          afero.Fs
	logger      *zap.Logger
	concurrency int
}

// NewWalker creates a walker reading from fs. A concurrency below 2 uploads
// files one at a time.
func NewWalker(client storage.Client, fs afero.Fs, logger *zap.Logger, concurrency int) *Walker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Walker{
		client:      client,
		fs:          fs,
		logger:      logger,
		concurrency: concurrency,
	}
}

// UploadDirectory uploads every file below source into container, using the
// file's path relative to source as its blob name. It returns true once the
// whole tree has been visited.
func (w *Walker) UploadDirectory(ctx context.Context, source, container string) (bool, error) {
	if _, err := w.Walk(ctx, source, container, ""); err != nil {
		return false, err
	}
	return true, nil
}

type workItem struct {
	path   string
	prefix string
}

type fileItem struct {
	path string
	blob string
}

// Walk uploads the tree below source with every blob name placed under prefix.
// The container is created first when it does not exist. The first unhandled
// error aborts the walk.
func (w *Walker) Walk(ctx context.Context, source, container, prefix string) (*Stats, error) {
	stats := &Stats{}

	info, err := w.fs.Stat(source)
	if err != nil {
		return stats, fmt.Errorf("stat source %s: %w", source, err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("source %s is not a directory", source)
	}

	if err := w.ensureContainer(ctx, container); err != nil {
		return stats, err
	}

	stack := []workItem{{path: source, prefix: strings.Trim(prefix, "/")}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := afero.ReadDir(w.fs, item.path)
		if err != nil {
			return stats, fmt.Errorf("read directory %s: %w", item.path, err)
		}
		stats.Directories++

		var files []fileItem
		var dirs []workItem
		for _, entry := range entries {
			full := filepath.Join(item.path, entry.Name())
			name := joinBlobName(item.prefix, entry.Name())
			mode := entry.Mode()

			switch {
			case mode&os.ModeSymlink != 0:
				w.logger.Warn("Skipping symbolic link", zap.String("path", full))
				stats.Skipped++
			case entry.IsDir():
				dirs = append(dirs, workItem{path: full, prefix: name})
			case mode.IsRegular():
				files = append(files, fileItem{path: full, blob: name})
			default:
				w.logger.Warn("Skipping special file", zap.String("path", full), zap.Stringer("mode", mode))
				stats.Skipped++
			}
		}

		if err := w.uploadFiles(ctx, container, files, stats); err != nil {
			return stats, err
		}

		// Push in reverse so subdirectories are visited in listing order.
		for i := len(dirs) - 1; i >= 0; i-- {
			stack = append(stack, dirs[i])
		}
	}

	w.logger.Info("Directory uploaded",
		zap.String("source", source),
		zap.String("container", container),
		zap.Int("files", stats.Files),
		zap.Int64("bytes", stats.Bytes),
		zap.Int("conflicts", stats.Conflicts),
		zap.Int("skipped", stats.Skipped),
	)

	return stats, nil
}

// ensureContainer creates the container when it is missing. A concurrent
// creation by someone else surfaces as a conflict and is tolerated.
func (w *Walker) ensureContainer(ctx context.Context, container string) error {
	exists, err := w.client.ContainerExists(ctx, container)
	if err != nil {
		return fmt.Errorf("check container %s: %w", container, err)
	}
	if exists {
		return nil
	}

	created, err := w.client.CreateContainer(ctx, container)
	if err != nil {
		return fmt.Errorf("create container %s: %w", container, err)
	}
	w.logger.Info("Container ensured", zap.String("container", container), zap.Bool("created", created))
	return nil
}

func (w *Walker) uploadFiles(ctx context.Context, container string, files []fileItem, stats *Stats) error {
	if w.concurrency < 2 || len(files) < 2 {
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, n, err := w.uploadFile(ctx, container, f)
			if err != nil {
				return err
			}
			stats.record(ok, n)
		}
		return nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, n, err := w.uploadFile(gctx, container, f)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.record(ok, n)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func (w *Walker) uploadFile(ctx context.Context, container string, f fileItem) (bool, int64, error) {
	content, err := afero.ReadFile(w.fs, f.path)
	if err != nil {
		return false, 0, fmt.Errorf("read file %s: %w", f.path, err)
	}

	w.logger.Debug("Uploading blob",
		zap.String("container", container),
		zap.String("blob", f.blob),
		zap.Int("size", len(content)),
	)

	ok, err := w.client.UploadBlob(ctx, container, f.blob, content)
	if err != nil {
		return false, 0, fmt.Errorf("upload %s: %w", f.blob, err)
	}
	return ok, int64(len(content)), nil
}

func (s *Stats) record(uploaded bool, size int64) {
	s.Files++
	s.Bytes += size
	if !uploaded {
		s.Conflicts++
	}
}

// joinBlobName appends a path segment to a blob prefix.
func joinBlobName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
