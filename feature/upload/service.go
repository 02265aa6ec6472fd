package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blob-uploader/core/storage"
	"blob-uploader/feature/history"

	"go.uber.org/zap"
)

// ErrInvalidRequest is returned when an upload request is incomplete.
var ErrInvalidRequest = errors.New("invalid upload request")

// Recorder journals upload runs. *history.Repository implements it.
type Recorder interface {
	Start(ctx context.Context, run *history.Run) error
	Finish(ctx context.Context, id string, out history.Outcome) error
}

// Request describes one directory upload.
type Request struct {
	Source    string `json:"source"`
	Container string `json:"container"`
	Prefix    string `json:"prefix"`
}

// Result is the outcome of a successful upload.
type Result struct {
	RunID      string        `json:"run_id,omitempty"`
	Success    bool          `json:"success"`
	Source     string        `json:"source"`
	Container  string        `json:"container"`
	Prefix     string        `json:"prefix,omitempty"`
	Stats      Stats         `json:"stats"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
}

// Service handles directory uploads.
type Service struct {
	client    storage.Client
	walker    *Walker
	container string
	provider  string
	recorder  Recorder
	logger    *zap.Logger
}

// NewService creates a new upload service. container is used when a request
// names none; recorder may be nil.
func NewService(client storage.Client, walker *Walker, container, provider string, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		walker:    walker,
		container: container,
		provider:  provider,
		recorder:  recorder,
		logger:    logger,
	}
}

// Upload validates req and mirrors the source directory into the container.
func (s *Service) Upload(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Source) == "" {
		return nil, fmt.Errorf("%w: source directory is required", ErrInvalidRequest)
	}
	if req.Container == "" {
		req.Container = s.container
	}
	if req.Container == "" {
		return nil, fmt.Errorf("%w: container is required", ErrInvalidRequest)
	}
	req.Prefix = strings.Trim(req.Prefix, "/")

	result := &Result{Source: req.Source, Container: req.Container, Prefix: req.Prefix}
	log := s.logger.With(zap.String("source", req.Source), zap.String("container", req.Container))

	if s.recorder != nil {
		run := &history.Run{
			Source:    req.Source,
			Container: req.Container,
			Prefix:    req.Prefix,
			Provider:  s.provider,
		}
		if err := s.recorder.Start(ctx, run); err != nil {
			// The journal is best effort; the upload itself still runs.
			log.Warn("Failed to record upload run", zap.Error(err))
		} else {
			result.RunID = run.ID
			log = log.With(zap.String("run_id", run.ID))
		}
	}

	log.Info("Upload started")
	started := time.Now()
	stats, err := s.walker.Walk(ctx, req.Source, req.Container, req.Prefix)
	result.Duration = time.Since(started)
	result.DurationMs = result.Duration.Milliseconds()
	if stats != nil {
		result.Stats = *stats
	}

	if result.RunID != "" {
		out := history.Outcome{
			Files:     result.Stats.Files,
			Bytes:     result.Stats.Bytes,
			Conflicts: result.Stats.Conflicts,
			Skipped:   result.Stats.Skipped,
			Err:       err,
		}
		// Record the outcome even when ctx was cancelled mid-walk.
		if ferr := s.recorder.Finish(context.WithoutCancel(ctx), result.RunID, out); ferr != nil {
			log.Warn("Failed to finish upload run", zap.Error(ferr))
		}
	}

	if err != nil {
		log.Error("Upload failed", zap.Error(err), zap.Int("files", result.Stats.Files))
		return result, err
	}

	result.Success = true
	log.Info("Upload finished", zap.Duration("duration", result.Duration))
	return result, nil
}

// ContainerExists reports whether the named container exists.
func (s *Service) ContainerExists(ctx context.Context, name string) (bool, error) {
	return s.client.ContainerExists(ctx, name)
}
