package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateChartFilename(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		requestID string
		expected  string
	}{
		{
			name:      "simple title",
			title:     "HJ 2532 Measurements",
			requestID: "0f8fad5b-d9cb-469f-a165-70867728950e",
			expected:  "hj_2532_measurements_0f8fad5b.png",
		},
		{
			name:      "punctuation collapses to underscores",
			title:     "STF 2398 (AB) / 2026",
			requestID: "abcdefgh1234",
			expected:  "stf_2398__ab____2026_abcdefgh.png",
		},
		{
			name:      "empty title falls back",
			title:     "",
			requestID: "xyz",
			expected:  "chart_xyz.png",
		},
		{
			name:      "non-ascii title falls back",
			title:     "***",
			requestID: "short",
			expected:  "chart_short.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateChartFilename(PlotRequest{Title: tt.title}, tt.requestID)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRenderTask_Lifecycle(t *testing.T) {
	task := NewRenderTask("id", PlotRequest{Title: "x"}, time.Hour)

	assert.Equal(t, RenderStatusPending, task.Status)
	assert.False(t, task.IsExpired())
	assert.False(t, task.CanDownload())

	task.Status = RenderStatusCompleted
	assert.True(t, task.CanDownload())

	task.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, task.IsExpired())
	assert.False(t, task.CanDownload())

	task.Status = RenderStatusFailed
	task.ExpiresAt = time.Now().Add(time.Hour)
	assert.False(t, task.CanDownload())
}
