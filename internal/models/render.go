package models

import (
	"strings"
	"time"
)

// RenderStatus represents the status of an async render task
type RenderStatus string

const (
	RenderStatusPending    RenderStatus = "pending"
	RenderStatusProcessing RenderStatus = "processing"
	RenderStatusCompleted  RenderStatus = "completed"
	RenderStatusFailed     RenderStatus = "failed"
	RenderStatusExpired    RenderStatus = "expired"
)

// RenderTask represents an async chart render task with status
type RenderTask struct {
	RequestID   string       `json:"request_id"`
	Status      RenderStatus `json:"status"`
	Request     PlotRequest  `json:"request"`
	FileSize    int64        `json:"file_size"` // File size in bytes
	FilePath    string       `json:"-"`         // Internal file path (not exposed)
	Filename    string       `json:"filename"`  // Download filename
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	ExpiresAt   time.Time    `json:"expires_at"` // File expiration time
}

// NewRenderTask creates a new render task
func NewRenderTask(requestID string, request PlotRequest, expirationDuration time.Duration) *RenderTask {
	now := time.Now()

	return &RenderTask{
		RequestID: requestID,
		Status:    RenderStatusPending,
		Request:   request,
		Filename:  generateChartFilename(request, requestID),
		CreatedAt: now,
		ExpiresAt: now.Add(expirationDuration),
	}
}

// generateChartFilename generates a default filename for a rendered chart
func generateChartFilename(request PlotRequest, requestID string) string {
	// Format: {slugified title}_{short request id}.png
	slug := strings.ToLower(request.Title)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, slug)
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "chart"
	}

	short := requestID
	if len(short) > 8 {
		short = short[:8]
	}

	return slug + "_" + short + ".png"
}

// IsExpired checks if the render task has expired
func (t *RenderTask) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// CanDownload checks if the chart file can be downloaded
func (t *RenderTask) CanDownload() bool {
	return t.Status == RenderStatusCompleted && !t.IsExpired()
}

// RenderCreateResponse is the response when creating a render request
type RenderCreateResponse struct {
	RequestID string    `json:"request_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RenderStatusResponse is the response for render status check
type RenderStatusResponse struct {
	RequestID   string     `json:"request_id"`
	Status      string     `json:"status"`
	FileSize    int64      `json:"file_size,omitempty"`
	Filename    string     `json:"filename,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	FileURL     string     `json:"file_url,omitempty"`
}

// ToStatusResponse converts RenderTask to RenderStatusResponse
func (t *RenderTask) ToStatusResponse(baseURL string) *RenderStatusResponse {
	resp := &RenderStatusResponse{
		RequestID:   t.RequestID,
		Status:      string(t.Status),
		FileSize:    t.FileSize,
		Filename:    t.Filename,
		Error:       t.Error,
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		ExpiresAt:   t.ExpiresAt,
	}

	if t.CanDownload() {
		resp.FileURL = baseURL + "/v1/render/file/" + t.RequestID
	}

	return resp
}
