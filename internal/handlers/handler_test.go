package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/starplotd/starplot/internal/cache"
	"github.com/starplotd/starplot/internal/config"
	"github.com/starplotd/starplot/internal/logging"
	"github.com/starplotd/starplot/internal/models"
	"github.com/starplotd/starplot/internal/queue"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := logging.NewDevelopment()
	cfg := config.RenderConfig{
		OutputDir:      t.TempDir(),
		Margin:         0.1,
		MaxConcurrent:  2,
		Expiration:     time.Hour,
		SizeInches:     3.0,
		ColorBarInches: 0.8,
	}

	q := queue.NewMemoryQueue()
	store := cache.NewMemoryStore()

	handler, err := New(logger, q, store, cfg)
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}
	t.Cleanup(func() {
		handler.Stop()
		_ = q.Close()
		_ = store.Close()
	})

	app := fiber.New()
	app.Get("/health", handler.Health)
	v1 := app.Group("/v1")
	v1.Post("/plots", handler.CreatePlot)
	v1.Post("/plots/render", handler.CreateRender)
	v1.Get("/render/status/:request_id", handler.GetRenderStatus)
	v1.Get("/render/file/:request_id", handler.GetRenderFile)
	v1.Post("/predict", handler.Predict)
	app.Use(handler.NotFound)

	return app
}

func plotRequestBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(models.PlotRequest{
		Title: "STF 2398 Measurements",
		Historical: &models.HistoricalInput{
			X:     []float64{1.0, 1.4, 2.1, 2.9},
			Y:     []float64{0.5, 0.9, 1.2, 1.1},
			Dates: []float64{1952.1, 1978.6, 1999.9, 2019.4},
		},
		Catalog: &models.SeriesInput{
			X: []float64{2.95},
			Y: []float64{1.15},
		},
		Prediction: &models.PointInput{X: 3.1, Y: 1.2},
	})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	return body
}

func TestHandler_Health(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	var healthResp models.HealthResponse
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &healthResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if healthResp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", healthResp.Status)
	}
}

func TestHandler_CreatePlot(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/v1/plots", bytes.NewReader(plotRequestBody(t)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 30000)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d: %s", fiber.StatusOK, resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png content type, got %s", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	if !bytes.HasPrefix(body, pngMagic) {
		t.Error("Response body is not a PNG")
	}
}

func TestHandler_CreatePlot_ShapeMismatch(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(models.PlotRequest{
		Title: "Broken",
		Historical: &models.HistoricalInput{
			X:     []float64{1, 2, 3},
			Y:     []float64{1, 2, 3},
			Dates: []float64{2000, 2001},
		},
	})

	req := httptest.NewRequest("POST", "/v1/plots", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 30000)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}

	var errResp models.ErrorResponse
	respBody, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBody, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if errResp.Error.Code != "INVALID_REQUEST" {
		t.Errorf("Expected error code 'INVALID_REQUEST', got '%s'", errResp.Error.Code)
	}
	if errResp.Error.Details["source"] != "historical" {
		t.Errorf("Expected historical source in details, got %v", errResp.Error.Details)
	}
}

func TestHandler_CreatePlot_MissingTitle(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/v1/plots", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandler_RenderLifecycle(t *testing.T) {
	app := newTestApp(t)

	// Create async render task
	req := httptest.NewRequest("POST", "/v1/plots/render", bytes.NewReader(plotRequestBody(t)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 30000)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d: %s", fiber.StatusAccepted, resp.StatusCode, body)
	}

	var created models.RenderCreateResponse
	respBody, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBody, &created); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if created.RequestID == "" {
		t.Fatal("Expected a request_id")
	}

	// Poll status until completed
	var status models.RenderStatusResponse
	deadline := time.Now().Add(15 * time.Second)
	for {
		req = httptest.NewRequest("GET", "/v1/render/status/"+created.RequestID, nil)
		resp, err = app.Test(req, 30000)
		if err != nil {
			t.Fatalf("Failed to perform status request: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
		}
		respBody, _ = io.ReadAll(resp.Body)
		if err := json.Unmarshal(respBody, &status); err != nil {
			t.Fatalf("Failed to unmarshal status: %v", err)
		}
		if status.Status == string(models.RenderStatusCompleted) {
			break
		}
		if status.Status == string(models.RenderStatusFailed) {
			t.Fatalf("Render failed: %s", status.Error)
		}
		if time.Now().After(deadline) {
			t.Fatalf("Render did not complete, status %s", status.Status)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if status.FileURL == "" {
		t.Error("Completed status should carry a file URL")
	}

	// Fetch the chart file
	req = httptest.NewRequest("GET", "/v1/render/file/"+created.RequestID, nil)
	resp, err = app.Test(req, 30000)
	if err != nil {
		t.Fatalf("Failed to perform file request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}
	fileBody, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(fileBody, pngMagic) {
		t.Error("Chart file is not a PNG")
	}
}

func TestHandler_GetRenderStatus_NotFound(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/v1/render/status/missing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status %d, got %d", fiber.StatusNotFound, resp.StatusCode)
	}

	var errResp models.ErrorResponse
	respBody, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBody, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if errResp.Error.Code != "TASK_NOT_FOUND" {
		t.Errorf("Expected error code 'TASK_NOT_FOUND', got '%s'", errResp.Error.Code)
	}
}

func TestHandler_Predict(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(models.PredictRequest{
		Historical: &models.HistoricalInput{
			X:     []float64{0, 1, 2},
			Y:     []float64{0, 2, 4},
			Dates: []float64{2000, 2010, 2020},
		},
		Epoch: 2030,
	})

	req := httptest.NewRequest("POST", "/v1/predict", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d: %s", fiber.StatusOK, resp.StatusCode, respBody)
	}

	var predictResp models.PredictResponse
	respBody, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBody, &predictResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if predictResp.X < 2.99 || predictResp.X > 3.01 {
		t.Errorf("Expected x near 3.0, got %v", predictResp.X)
	}
	if predictResp.Model == nil {
		t.Error("Expected model info in response")
	}
}

func TestHandler_Predict_TooFewPoints(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(models.PredictRequest{
		Historical: &models.HistoricalInput{
			X:     []float64{0, 1},
			Y:     []float64{0, 2},
			Dates: []float64{2000, 2010},
		},
		Epoch: 2030,
	})

	req := httptest.NewRequest("POST", "/v1/predict", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}
