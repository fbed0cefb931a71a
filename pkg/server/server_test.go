package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smsguard/spam-detector/pkg/config"
	"github.com/smsguard/spam-detector/pkg/detector"
)

func newTestServer(t *testing.T, train bool) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	model, err := detector.New(cfg)
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}

	if train {
		records := []detector.TrainingRecord{
			{Text: "Congratulations you WON a FREE prize!!!", Label: "spam", Phone: "4195551234"},
			{Text: "Meeting moved to 3pm", Label: "ham"},
		}
		if err := model.Train(records); err != nil {
			t.Fatalf("failed to train model: %v", err)
		}
	}

	return New(cfg.Server, "error", model)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestAnalyzeSpam(t *testing.T) {
	s := newTestServer(t, true)

	w := doJSON(t, s, http.MethodPost, "/analyze",
		`{"text": "Win a FREE prize now", "phone": "4195551234"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result detector.PredictionResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.Prediction != "spam" {
		t.Errorf("expected spam, got %q", result.Prediction)
	}
	if !strings.Contains(strings.ToLower(result.Reason), "blacklisted") {
		t.Errorf("expected blacklist reason, got %q", result.Reason)
	}
}

func TestAnalyzeMissingInput(t *testing.T) {
	s := newTestServer(t, true)

	w := doJSON(t, s, http.MethodPost, "/analyze", `{"text": "", "phone": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing input, got %d", w.Code)
	}
}

func TestAnalyzeMalformedBody(t *testing.T) {
	s := newTestServer(t, true)

	w := doJSON(t, s, http.MethodPost, "/analyze", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestAnalyzeUntrained(t *testing.T) {
	s := newTestServer(t, false)

	w := doJSON(t, s, http.MethodPost, "/analyze", `{"text": "hello"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for untrained model, got %d", w.Code)
	}
}

func TestTrainEndpoint(t *testing.T) {
	s := newTestServer(t, false)

	w := doJSON(t, s, http.MethodPost, "/train",
		`[{"text": "win free prize", "label": "spam", "phone": "9005551234"},
		  {"text": "meeting lunch", "label": "ham"}]`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// The model should now serve predictions
	w = doJSON(t, s, http.MethodPost, "/analyze", `{"phone": "9005551234"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after training, got %d", w.Code)
	}

	var result detector.PredictionResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Prediction != "spam" {
		t.Errorf("expected spam for blacklisted phone, got %+v", result)
	}
}

func TestTrainInvalidDataset(t *testing.T) {
	s := newTestServer(t, false)

	w := doJSON(t, s, http.MethodPost, "/train", `[]`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty dataset, got %d", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/train",
		`[{"text": "hello", "label": "junk"}]`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad label, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	w := doJSON(t, s, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Trained bool   `json:"trained"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "ok" || body.Trained {
		t.Errorf("unexpected health body: %+v", body)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t, true)

	w := doJSON(t, s, http.MethodGet, "/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var info detector.ModelInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !info.Trained || info.Profiles != 1 || info.Blacklisted != 1 {
		t.Errorf("unexpected stats: %+v", info)
	}
}
