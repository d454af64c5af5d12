package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/starplotd/starplot/internal/cache"
	"github.com/starplotd/starplot/internal/config"
	"github.com/starplotd/starplot/internal/logging"
	"github.com/starplotd/starplot/internal/models"
	"github.com/starplotd/starplot/internal/queue"
)

const (
	// RenderJobsSubject is the queue subject render jobs are published to
	RenderJobsSubject = "render.jobs"

	// DefaultRenderExpiration is the default lifetime of a finished chart
	DefaultRenderExpiration = 1 * time.Hour

	// DefaultCleanupInterval is the interval for cleaning up expired charts
	DefaultCleanupInterval = 5 * time.Minute

	// taskKeyPrefix is the cache key prefix for render task state
	taskKeyPrefix = "task:"

	// chartKeyPrefix is the cache key prefix for finished chart bytes
	chartKeyPrefix = "chart:"
)

// renderJob is the message published to the render queue. The full
// request travels with the job so any consumer instance can process it
// without a shared task map.
type renderJob struct {
	RequestID string             `json:"request_id"`
	Request   models.PlotRequest `json:"request"`
}

// RenderService handles async chart render operations. Jobs flow
// through the queue, task state is mirrored to the cache store so
// status survives restarts, and finished charts are written to disk.
type RenderService struct {
	logger      *logging.Logger
	plotService *PlotService
	q           queue.Queue
	store       cache.Store
	cfg         config.RenderConfig

	// Task management
	tasks     map[string]*models.RenderTask
	taskMutex sync.RWMutex

	// Worker bound
	slots chan struct{}

	expirationDuration time.Duration
	stopChan           chan struct{}
	wg                 sync.WaitGroup
}

// NewRenderService creates a new RenderService and starts consuming
// render jobs from the queue.
func NewRenderService(
	logger *logging.Logger,
	plotService *PlotService,
	q queue.Queue,
	store cache.Store,
	cfg config.RenderConfig,
) (*RenderService, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = DefaultRenderExpiration
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	s := &RenderService{
		logger:             logger,
		plotService:        plotService,
		q:                  q,
		store:              store,
		cfg:                cfg,
		tasks:              make(map[string]*models.RenderTask),
		slots:              make(chan struct{}, maxConcurrent),
		expirationDuration: expiration,
		stopChan:           make(chan struct{}),
	}

	if err := q.Subscribe(RenderJobsSubject, s.handleJob); err != nil {
		return nil, fmt.Errorf("failed to subscribe to render jobs: %w", err)
	}
	logger.Info("Render job consumer started",
		"subject", RenderJobsSubject,
		"max_concurrent", maxConcurrent,
	)

	// Start cleanup goroutine
	s.wg.Add(1)
	go s.cleanupLoop()

	return s, nil
}

// Stop stops the render service
func (s *RenderService) Stop() {
	if err := s.q.Unsubscribe(RenderJobsSubject); err != nil {
		s.logger.Warn("Failed to unsubscribe render job consumer", "error", err)
	}
	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("Render service stopped")
}

// CreateRender validates the request, creates a render task and
// publishes the job to the queue.
func (s *RenderService) CreateRender(ctx context.Context, request *models.PlotRequest) (*models.RenderTask, error) {
	// Reject malformed measurement sets before a worker picks them up
	if _, _, err := s.plotService.prepare(request); err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	task := models.NewRenderTask(requestID, *request, s.expirationDuration)

	s.taskMutex.Lock()
	s.tasks[requestID] = task
	s.taskMutex.Unlock()

	if err := s.saveTask(ctx, task); err != nil {
		s.logger.Error("Failed to persist render task", "request_id", requestID, "error", err)
	}

	job := renderJob{RequestID: requestID, Request: *request}
	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal render job: %w", err)
	}

	if err := s.q.Publish(ctx, RenderJobsSubject, data); err != nil {
		s.taskMutex.Lock()
		task.Status = models.RenderStatusFailed
		task.Error = "render queue is unavailable, please try again later"
		taskCopy := *task
		s.taskMutex.Unlock()

		if saveErr := s.saveTask(ctx, task); saveErr != nil {
			s.logger.Error("Failed to persist failed render task", "request_id", requestID, "error", saveErr)
		}

		s.logger.Error("Failed to publish render job", "request_id", requestID, "error", err)
		return &taskCopy, nil
	}

	s.logger.Info("Render task queued",
		"request_id", requestID,
		"title", request.Title,
	)

	s.taskMutex.RLock()
	taskCopy := *task
	s.taskMutex.RUnlock()
	return &taskCopy, nil
}

// GetTaskStatus returns the status of a render task
func (s *RenderService) GetTaskStatus(requestID string) (*models.RenderTask, error) {
	s.taskMutex.RLock()
	task, exists := s.tasks[requestID]
	s.taskMutex.RUnlock()

	if !exists {
		// Try the cache store, the task may belong to another instance
		// or a previous run
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		loaded, err := s.loadTask(ctx, requestID)
		if err != nil || loaded == nil {
			return nil, &ServiceError{
				Code:    "TASK_NOT_FOUND",
				Message: "render task not found",
			}
		}

		s.taskMutex.Lock()
		s.tasks[requestID] = loaded
		task = loaded
		s.taskMutex.Unlock()
	}

	if task.IsExpired() && task.Status == models.RenderStatusCompleted {
		s.taskMutex.Lock()
		task.Status = models.RenderStatusExpired
		s.taskMutex.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.saveTask(ctx, task); err != nil {
			s.logger.Error("Failed to persist expired render task", "request_id", requestID, "error", err)
		}
	}

	s.taskMutex.RLock()
	taskCopy := *task
	s.taskMutex.RUnlock()
	return &taskCopy, nil
}

// GetFile returns the chart bytes and filename for a completed render.
// The file is served from disk, with the cache store as fallback when
// the render ran on another instance.
func (s *RenderService) GetFile(ctx context.Context, requestID string) ([]byte, string, error) {
	task, err := s.GetTaskStatus(requestID)
	if err != nil {
		return nil, "", err
	}

	if !task.CanDownload() {
		if task.IsExpired() {
			return nil, "", &ServiceError{
				Code:    "RENDER_EXPIRED",
				Message: "rendered chart has expired",
			}
		}
		return nil, "", &ServiceError{
			Code:    "RENDER_NOT_READY",
			Message: "chart is not ready yet, status: " + string(task.Status),
		}
	}

	if task.FilePath != "" {
		if data, err := os.ReadFile(task.FilePath); err == nil {
			return data, task.Filename, nil
		}
	}

	data, err := s.store.Get(ctx, chartKeyPrefix+requestID)
	if err != nil {
		return nil, "", &ServiceError{
			Code:    "RENDER_EXPIRED",
			Message: "rendered chart is no longer available",
		}
	}
	return data, task.Filename, nil
}

// handleJob processes one render job from the queue. A returned error
// lets the backend redeliver the job.
func (s *RenderService) handleJob(data []byte) error {
	var job renderJob
	if err := json.Unmarshal(data, &job); err != nil {
		s.logger.Error("Dropping malformed render job", "error", err)
		return nil
	}

	select {
	case s.slots <- struct{}{}:
	case <-s.stopChan:
		return fmt.Errorf("render service is shutting down")
	}
	defer func() { <-s.slots }()

	s.processJob(&job)
	return nil
}

// processJob renders the chart for a job and records the outcome
func (s *RenderService) processJob(job *renderJob) {
	startTime := time.Now()

	task := s.ensureTask(job)

	s.taskMutex.Lock()
	task.Status = models.RenderStatusProcessing
	task.StartedAt = &startTime
	s.taskMutex.Unlock()

	s.logger.Info("Processing render task",
		"request_id", job.RequestID,
		"title", job.Request.Title,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	png, renderErr := s.plotService.Render(ctx, &job.Request)

	var filePath string
	if renderErr == nil {
		filePath = s.chartPath(task.Filename)
		if err := os.WriteFile(filePath, png, 0o644); err != nil {
			renderErr = fmt.Errorf("failed to write chart file: %w", err)
		}
	}

	completedAt := time.Now()

	s.taskMutex.Lock()
	if renderErr != nil {
		task.Status = models.RenderStatusFailed
		task.Error = renderErr.Error()
		s.logger.Error("Render task failed",
			"request_id", job.RequestID,
			"error", renderErr,
			"duration", completedAt.Sub(startTime),
		)
	} else {
		task.Status = models.RenderStatusCompleted
		task.CompletedAt = &completedAt
		task.FilePath = filePath
		task.FileSize = int64(len(png))
		s.logger.Info("Render task completed",
			"request_id", job.RequestID,
			"file_size", task.FileSize,
			"duration", completedAt.Sub(startTime),
		)
	}
	s.taskMutex.Unlock()

	if renderErr == nil {
		ttl := time.Until(task.ExpiresAt)
		if ttl > 0 {
			if err := s.store.Set(ctx, chartKeyPrefix+job.RequestID, png, ttl); err != nil {
				s.logger.Warn("Failed to cache chart bytes", "request_id", job.RequestID, "error", err)
			}
		}
	}

	if err := s.saveTask(ctx, task); err != nil {
		s.logger.Error("Failed to persist render task result", "request_id", job.RequestID, "error", err)
	}
}

// ensureTask returns the tracked task for a job, registering one when
// the job was published by another instance.
func (s *RenderService) ensureTask(job *renderJob) *models.RenderTask {
	s.taskMutex.Lock()
	defer s.taskMutex.Unlock()

	if task, ok := s.tasks[job.RequestID]; ok {
		return task
	}

	task := models.NewRenderTask(job.RequestID, job.Request, s.expirationDuration)
	s.tasks[job.RequestID] = task
	return task
}

// chartPath returns the output path for a chart filename
func (s *RenderService) chartPath(filename string) string {
	return filepath.Join(s.cfg.OutputDir, filename)
}

// cleanupLoop periodically cleans up expired charts
func (s *RenderService) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(DefaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopChan:
			return
		}
	}
}

// cleanupExpired removes expired chart files and tasks
func (s *RenderService) cleanupExpired() {
	s.taskMutex.Lock()
	defer s.taskMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	expiredCount := 0

	for requestID, task := range s.tasks {
		// Keep a grace period so in-flight status checks still resolve
		if now.After(task.ExpiresAt.Add(5 * time.Minute)) {
			if task.FilePath != "" {
				if err := os.Remove(task.FilePath); err != nil && !os.IsNotExist(err) {
					s.logger.Error("Failed to remove expired chart file",
						"request_id", requestID,
						"error", err,
					)
				}
			}

			if err := s.store.Delete(ctx, taskKeyPrefix+requestID); err != nil {
				s.logger.Warn("Failed to delete expired task state", "request_id", requestID, "error", err)
			}
			if err := s.store.Delete(ctx, chartKeyPrefix+requestID); err != nil {
				s.logger.Warn("Failed to delete expired chart bytes", "request_id", requestID, "error", err)
			}

			delete(s.tasks, requestID)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		s.logger.Info("Cleaned up expired charts", "count", expiredCount)
	}
}

// ListTasks returns all active render tasks (for admin/debugging)
func (s *RenderService) ListTasks() []*models.RenderTask {
	s.taskMutex.RLock()
	defer s.taskMutex.RUnlock()

	tasks := make([]*models.RenderTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// saveTask persists a render task to the cache store. Task state gets a
// TTL past its expiration so status checks keep working through the
// cleanup grace period.
func (s *RenderService) saveTask(ctx context.Context, task *models.RenderTask) error {
	s.taskMutex.RLock()
	data, err := json.Marshal(task)
	s.taskMutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	ttl := time.Until(task.ExpiresAt) + 10*time.Minute
	return s.store.Set(ctx, taskKeyPrefix+task.RequestID, data, ttl)
}

// loadTask loads a render task from the cache store
func (s *RenderService) loadTask(ctx context.Context, requestID string) (*models.RenderTask, error) {
	data, err := s.store.Get(ctx, taskKeyPrefix+requestID)
	if err != nil {
		if err == cache.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	var task models.RenderTask
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}
